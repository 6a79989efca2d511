package domain

import "strings"

// RoleLookup resolves a role id. ok is false for dangling references.
type RoleLookup func(id string) (Role, bool)

// Description is the text shown on and over a task chip.
type Description struct {
	Info  string
	Title string
	// Dangling lists role ids the task references that did not resolve.
	Dangling []string
}

// Empty reports whether no other role contributed to the description.
func (d Description) Empty() bool {
	return d.Info == ""
}

// Describe builds the chip text for task as seen from viewerRoleID: the
// other roles it spans, by nickname, joined with " + ". Pass "" as viewer
// to describe every role. Dangling references are skipped and reported.
func Describe(task *Task, viewerRoleID string, lookup RoleLookup) Description {
	var d Description
	var short, long []string
	for _, typ := range task.RoleTypes() {
		id := task.Roles[typ]
		role, ok := lookup(id)
		if !ok {
			d.Dangling = append(d.Dangling, id)
			continue
		}
		if id == viewerRoleID || role.Name == "" {
			continue
		}
		short = append(short, role.DisplayName())
		long = append(long, role.Name)
	}
	d.Info = strings.Join(short, " + ")
	d.Title = FormatValue(task.Value) + ": " + strings.Join(long, " + ")
	if c := StrValue(task.Comments); c != "" {
		d.Title += "\n\n" + c
	}
	return d
}

// RoleTitle is the hover text of a role header.
func RoleTitle(role *Role) string {
	title := role.DisplayName()
	if c := StrValue(role.Comments); c != "" {
		title += "\n\n" + c
	}
	return title
}
