package cli

import (
	"errors"

	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/spf13/pflag"
)

func addPeriodFlag(fs *pflag.FlagSet, period *string) {
	fs.StringVarP(period, "period", "p", "", "Period to work in (default: the newest period)")
}

func addYesFlag(fs *pflag.FlagSet, yes *bool) {
	fs.BoolVarP(yes, "yes", "y", false, "Skip the confirmation prompt")
}

// changedString returns the flag's value when it was set on the command
// line, nil otherwise. An explicit empty value yields a pointer to "".
func changedString(fs *pflag.FlagSet, name string) *string {
	if !fs.Changed(name) {
		return nil
	}
	v, err := fs.GetString(name)
	if err != nil {
		return nil
	}
	return &v
}

// changedFloat is changedString for float flags.
func changedFloat(fs *pflag.FlagSet, name string) *float64 {
	if !fs.Changed(name) {
		return nil
	}
	v, err := fs.GetFloat64(name)
	if err != nil {
		return nil
	}
	return &v
}

// applyOptional overwrites *dst from a changed flag; an empty value clears it.
func applyOptional(dst **string, v *string) {
	if v != nil {
		*dst = domain.OptionalStr(*v)
	}
}

var errNothingToChange = errors.New("nothing to change: pass at least one flag")

func anyChanged(fs *pflag.FlagSet, names ...string) bool {
	for _, n := range names {
		if fs.Changed(n) {
			return true
		}
	}
	return false
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}
