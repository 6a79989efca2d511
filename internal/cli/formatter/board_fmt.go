package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/loadboard/internal/board"
	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// PixelsPerCell maps chip widths onto terminal columns.
const PixelsPerCell = 4

// BoardCursor is the highlighted card and chip. TaskID is ignored when
// HasTask is false.
type BoardCursor struct {
	RoleID  string
	TaskID  int
	HasTask bool
}

var (
	styleChip        = lipgloss.NewStyle().Foreground(ColorBlue)
	styleChipFocused = lipgloss.NewStyle().Foreground(ColorFg).Background(ColorHeader).Bold(true)
	styleChipDragged = lipgloss.NewStyle().Foreground(ColorDim).Faint(true)
	styleCardFocused = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
)

// ChipCells converts a chip width to terminal columns, at least 4.
func ChipCells(width int) int {
	return max((width+PixelsPerCell/2)/PixelsPerCell, 4)
}

// FormatBoard renders the view model as terminal text.
func FormatBoard(v *board.View, cur BoardCursor) string {
	var b strings.Builder
	b.WriteString(PeriodTabs(v.Periods, v.Period))
	b.WriteString("\n\n")

	if len(v.Containers) == 0 {
		b.WriteString(Dim("  No roles in this period."))
		b.WriteString("\n")
	}
	for _, ct := range v.Containers {
		title := ct.Type
		if ct.Group != "" {
			title += " · " + ct.Group
		}
		b.WriteString(Header(title))
		b.WriteString("\n")
		for _, card := range ct.Roles {
			b.WriteString(renderCard(card, cur))
		}
		b.WriteString("\n")
	}

	for _, d := range v.Diagnostics {
		b.WriteString(StyleYellow.Render("  ! " + d.Message))
		b.WriteString("\n")
	}
	return b.String()
}

// PeriodTabs renders the period names with the active one bracketed.
func PeriodTabs(periods []string, active string) string {
	parts := make([]string, len(periods))
	for i, p := range periods {
		if p == active {
			parts[i] = StyleHeader.Render("[" + p + "]")
		} else {
			parts[i] = Dim(" " + p + " ")
		}
	}
	return strings.Join(parts, " ")
}

func renderCard(card *board.RoleCard, cur BoardCursor) string {
	var b strings.Builder

	marker := "  "
	name := Truncate(card.DisplayName, 18)
	if cur.RoleID == card.ID {
		marker = styleCardFocused.Render("▸ ")
		name = styleCardFocused.Render(name)
	}
	pad := strings.Repeat(" ", max(18-lipgloss.Width(name), 0))
	fmt.Fprintf(&b, "%s%s%s %s %4d%%  %s/%s  %s",
		marker, name, pad,
		RenderCompactBar(card.Load, 10),
		card.Load.Percent,
		domain.FormatValue(card.Load.Used),
		domain.FormatValue(card.Load.Target),
		Deviation(card.Load),
	)
	if card.Hint != "" {
		b.WriteString("  " + Dim(card.Hint))
	}
	b.WriteString("\n")

	for _, row := range card.Rows {
		b.WriteString("    ")
		if row.Group != "" {
			b.WriteString(Dim(row.Group + ": "))
		}
		for _, ch := range row.Chips {
			b.WriteString(renderChip(card.ID, ch, cur))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderChip(roleID string, ch board.Chip, cur BoardCursor) string {
	cells := ChipCells(ch.Width)
	if ch.Placeholder {
		return Dim("┊" + strings.Repeat(" ", cells-2) + "┊")
	}

	label := ch.Label
	if ch.Info != "" {
		label += " " + ch.Info
	}
	label = Truncate(label, cells-2)
	text := "[" + label + strings.Repeat(" ", cells-2-lipgloss.Width(label)) + "]"

	switch {
	case ch.Dragged:
		return styleChipDragged.Render(text)
	case cur.HasTask && cur.RoleID == roleID && cur.TaskID == ch.TaskID:
		return styleChipFocused.Render(text)
	case ch.Dangling:
		return StyleRed.Render(text)
	case ch.Resizing:
		return StyleYellow.Render(text)
	default:
		return styleChip.Render(text)
	}
}
