package board

import (
	"io"
	"time"

	"github.com/alexanderramin/loadboard/internal/domain"
)

// Command is one user intent fed into Controller.Apply.
type Command interface {
	commandName() string
}

// AddRole creates a role in the active period.
type AddRole struct {
	Role domain.Role
}

// EditRole overwrites a role.
type EditRole struct {
	ID   string
	Role domain.Role
}

// DeleteRole removes a role from the active period. The caller confirms
// before sending it.
type DeleteRole struct {
	ID string
}

// SetRoleTarget sets a role's capacity in the active period.
type SetRoleTarget struct {
	ID    string
	Value float64
}

// AddTask creates a task between RoleID and OtherRoleID in the active
// period. A nil Value takes the configured default.
type AddTask struct {
	RoleID      string
	OtherRoleID string
	Value       *float64
	Comments    *string
}

// EditTask overwrites a task. An unchanged task writes nothing.
type EditTask struct {
	ID   int
	Task domain.Task
}

type DeleteTask struct {
	ID int
}

// BeginDrag picks up the chip of TaskID on the card of RoleID.
type BeginDrag struct {
	TaskID int
	RoleID string
}

// DragOver reports the pointer at X over the chip row of RoleID.
type DragOver struct {
	RoleID string
	X      float64
}

// DragLeave reports the pointer leaving the card of RoleID.
type DragLeave struct {
	RoleID string
}

// Drop releases the dragged chip over RoleID.
type Drop struct {
	RoleID string
}

type CancelDrag struct{}

// ResizeSample reports an observed chip width.
type ResizeSample struct {
	TaskID int
	Width  float64
	At     time.Time
}

// FlushResizes applies buffered samples older than the debounce window.
type FlushResizes struct {
	Now time.Time
}

type SwitchPeriod struct {
	Name string
}

type RenamePeriod struct {
	Old string
	New string
}

// CreatePeriod adds a period and switches to it. Without roles the period
// exists only on this board until a role is added to it.
type CreatePeriod struct {
	Name    string
	RoleIDs []string
}

// ClonePeriod replaces To with a copy of From and switches to To.
type ClonePeriod struct {
	From string
	To   string
}

// DeletePeriod removes a period. The caller confirms before sending it.
type DeletePeriod struct {
	Name string
}

// Import replaces the board with the snapshot read from Reader.
type Import struct {
	Reader io.Reader
}

// Export compacts task ids and writes the board to Writer.
type Export struct {
	Writer io.Writer
}

func (AddRole) commandName() string       { return "add-role" }
func (EditRole) commandName() string      { return "edit-role" }
func (DeleteRole) commandName() string    { return "delete-role" }
func (SetRoleTarget) commandName() string { return "set-role-target" }
func (AddTask) commandName() string       { return "add-task" }
func (EditTask) commandName() string      { return "edit-task" }
func (DeleteTask) commandName() string    { return "delete-task" }
func (BeginDrag) commandName() string     { return "begin-drag" }
func (DragOver) commandName() string      { return "drag-over" }
func (DragLeave) commandName() string     { return "drag-leave" }
func (Drop) commandName() string          { return "drop" }
func (CancelDrag) commandName() string    { return "cancel-drag" }
func (ResizeSample) commandName() string  { return "resize-sample" }
func (FlushResizes) commandName() string  { return "flush-resizes" }
func (SwitchPeriod) commandName() string  { return "switch-period" }
func (RenamePeriod) commandName() string  { return "rename-period" }
func (CreatePeriod) commandName() string  { return "create-period" }
func (ClonePeriod) commandName() string   { return "clone-period" }
func (DeletePeriod) commandName() string  { return "delete-period" }
func (Import) commandName() string        { return "import" }
func (Export) commandName() string        { return "export" }

// Result reports what a command changed.
type Result struct {
	// Changed is set when persisted state was written.
	Changed bool
	// ViewChanged is set when the view model was rebuilt.
	ViewChanged bool

	RoleID string
	TaskID int

	// Renumbered is set by Export when compaction moved task ids.
	Renumbered map[int]int
	// Dangling is set by Import for tasks naming unknown roles.
	Dangling map[int][]string
}
