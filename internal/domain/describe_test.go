package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testLookup(roles map[string]Role) RoleLookup {
	return func(id string) (Role, bool) {
		r, ok := roles[id]
		return r, ok
	}
}

func TestDescribe_FromViewerSide(t *testing.T) {
	roles := map[string]Role{
		"A": {Type: "senior", Name: "Ada Lovelace", Nickname: StrPtr("Ada")},
		"B": {Type: "course", Name: "Logic 101"},
	}
	task := Task{Roles: map[string]string{"senior": "A", "course": "B"}, Period: "Fall", Value: 40, Comments: StrPtr("lectures")}

	d := Describe(&task, "A", testLookup(roles))
	assert.Equal(t, "Logic 101", d.Info)
	assert.Equal(t, "40: Logic 101\n\nlectures", d.Title)
	assert.Empty(t, d.Dangling)

	d = Describe(&task, "B", testLookup(roles))
	assert.Equal(t, "Ada", d.Info)
}

func TestDescribe_DanglingReferenceIsSkipped(t *testing.T) {
	roles := map[string]Role{
		"A": {Type: "senior", Name: "Ada"},
	}
	task := Task{Roles: map[string]string{"senior": "A", "course": "gone"}, Period: "Fall", Value: 10}

	d := Describe(&task, "", testLookup(roles))
	assert.Equal(t, "Ada", d.Info)
	assert.Equal(t, []string{"gone"}, d.Dangling)

	d = Describe(&task, "A", testLookup(roles))
	assert.True(t, d.Empty())
	assert.Equal(t, []string{"gone"}, d.Dangling)
}

func TestRoleTitle(t *testing.T) {
	r := Role{Name: "Ada Lovelace", Comments: StrPtr("on leave in May")}
	assert.Equal(t, "Ada Lovelace\n\non leave in May", RoleTitle(&r))
}
