package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

var errAborted = errors.New("aborted")

// StdinIsTerminal reports whether stdin is attached to a terminal.
func StdinIsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// HuhConfirm asks a yes/no question with a huh form.
func HuhConfirm(title, description string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(loadboardHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// confirmAction gates a destructive command. --yes skips the prompt; a
// non-interactive run without --yes is refused.
func confirmAction(app *App, yes bool, title, description string) error {
	if yes {
		return nil
	}
	if !app.interactive() || app.Confirm == nil {
		return fmt.Errorf("refusing to %s without --yes in a non-interactive session", title)
	}
	ok, err := app.Confirm(title, description)
	if err != nil {
		return err
	}
	if !ok {
		return errAborted
	}
	return nil
}

func sortedStrings(s []string) []string {
	sort.Strings(s)
	return s
}
