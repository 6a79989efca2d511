package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/loadboard/internal/cli/formatter"
	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// loadboardHuhTheme returns a huh theme using the formatter palette.
func loadboardHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validateNonNegative(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return errors.New("must be a number ≥ 0")
	}
	return nil
}

// roleFields holds the editable text of a role while a form runs.
type roleFields struct {
	Name, Nickname, Group, Comments string
}

func newRoleFields(r *domain.Role) *roleFields {
	return &roleFields{
		Name:     r.Name,
		Nickname: domain.StrValue(r.Nickname),
		Group:    domain.StrValue(r.Group),
		Comments: domain.StrValue(r.Comments),
	}
}

// apply writes the fields back; blank optional fields are cleared.
func (f *roleFields) apply(r *domain.Role) {
	r.Name = strings.TrimSpace(f.Name)
	r.Nickname = domain.OptionalStr(strings.TrimSpace(f.Nickname))
	r.Group = domain.OptionalStr(strings.TrimSpace(f.Group))
	r.Comments = domain.OptionalStr(strings.TrimSpace(f.Comments))
}

func roleEditForm(f *roleFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.Name).Validate(validateRequired),
			huh.NewInput().Title("Nickname").Description("Shown on the board; blank uses the name").Value(&f.Nickname),
			huh.NewInput().Title("Group").Description("Routes tasks into sub-rows; blank for none").Value(&f.Group),
			huh.NewText().Title("Comments").Value(&f.Comments),
		),
	).WithTheme(loadboardHuhTheme()).WithShowHelp(false)
}

// taskFields holds the editable text of a task while a form runs.
type taskFields struct {
	Value, Comments string
}

func newTaskFields(t *domain.Task) *taskFields {
	return &taskFields{
		Value:    domain.FormatValue(t.Value),
		Comments: domain.StrValue(t.Comments),
	}
}

func (f *taskFields) apply(t *domain.Task) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(f.Value), 64)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", f.Value, err)
	}
	t.Value = v
	t.Comments = domain.OptionalStr(strings.TrimSpace(f.Comments))
	return nil
}

func taskEditForm(f *taskFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Value").Value(&f.Value).Validate(validateNonNegative),
			huh.NewText().Title("Comments").Value(&f.Comments),
		),
	).WithTheme(loadboardHuhTheme()).WithShowHelp(false)
}

// HuhEditRole edits a role's text fields in place with a huh form.
func HuhEditRole(r *domain.Role) error {
	f := newRoleFields(r)
	if err := roleEditForm(f).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errAborted
		}
		return err
	}
	f.apply(r)
	return nil
}

// HuhEditTask edits a task's value and comments in place with a huh form.
func HuhEditTask(t *domain.Task) error {
	f := newTaskFields(t)
	if err := taskEditForm(f).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errAborted
		}
		return err
	}
	return f.apply(t)
}
