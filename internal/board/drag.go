package board

// EndOfList anchors a placeholder after the last chip of a row.
const EndOfList = -1

// Placeholder marks where a drop would land: before the chip of task
// Before in the row Group of role RoleID, or at the end for EndOfList.
type Placeholder struct {
	RoleID string
	Group  string
	Before int
}

// DragSession is the state of one chip drag, from BeginDrag until Drop
// or CancelDrag.
type DragSession struct {
	TaskID       int
	RoleType     string
	SourceRoleID string
	// Group is the row the chip sits in. A chip stays in the same row
	// across roles because the row follows the task's other roles.
	Group string
	Width int

	Placeholder *Placeholder
}

func (d *DragSession) clone() *DragSession {
	if d == nil {
		return nil
	}
	c := *d
	if d.Placeholder != nil {
		ph := *d.Placeholder
		c.Placeholder = &ph
	}
	return &c
}

// slot is the outcome of a pointer move over a row.
type slot struct {
	keep   bool // leave the current placeholder alone
	none   bool // no placeholder: dropping here would not move the chip
	before int
}

// placeholderSlot finds the placeholder position for a pointer at x over
// chips, which are laid out left to right and may include the dragged
// chip and the current placeholder.
//
// The first chip whose right edge reaches x wins. The placeholder goes
// before it unless that would leave the dragged chip where it already is.
// Hovering the placeholder itself keeps it, so it does not flicker.
func placeholderSlot(chips []Chip, dragged int, x float64) slot {
	for _, ch := range chips {
		if ch.Placeholder && x >= float64(ch.Left) && x <= float64(ch.Right()) {
			return slot{keep: true}
		}
	}

	prevDragged := false
	var last *Chip
	for i := range chips {
		ch := &chips[i]
		if ch.Placeholder {
			if x <= float64(ch.Right()) {
				return slot{keep: true}
			}
			continue
		}
		isDragged := ch.TaskID == dragged
		if x <= float64(ch.Right()) {
			if isDragged || prevDragged {
				return slot{none: true}
			}
			return slot{before: ch.TaskID}
		}
		prevDragged = isDragged
		last = ch
	}
	if last != nil && last.TaskID == dragged {
		return slot{none: true}
	}
	return slot{before: EndOfList}
}

func samePlaceholder(a, b *Placeholder) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
