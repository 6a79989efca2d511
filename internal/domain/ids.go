package domain

import (
	"encoding/binary"
	"strconv"

	"github.com/google/uuid"
)

const roleIDSpan = 10_000_000_000

// NewRoleID returns a fresh "role-" + base-36 token. Ids are never reused.
func NewRoleID() string {
	u := uuid.New()
	n := binary.BigEndian.Uint64(u[:8])%roleIDSpan + roleIDSpan
	return "role-" + strconv.FormatUint(n, 36)
}
