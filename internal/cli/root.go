package cli

import (
	"log/slog"

	"github.com/alexanderramin/loadboard/internal/config"
	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/alexanderramin/loadboard/internal/service"
	"github.com/spf13/cobra"
)

// App holds what CLI commands need: the use cases, the settings and the
// terminal hooks.
type App struct {
	Services *service.Services
	Config   config.Config
	Logger   *slog.Logger

	// IsInteractive reports whether prompts can be shown.
	IsInteractive func() bool
	// Confirm asks a yes/no question.
	Confirm func(title, description string) (bool, error)
	// EditRole and EditTask edit a record in place when an edit command
	// is given no flags.
	EditRole func(*domain.Role) error
	EditTask func(*domain.Task) error
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	period string
}

// NewRootCmd creates the top-level "loadboard" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "loadboard",
		Short:         "Allocation planning board: roles, tasks and periods",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addPeriodFlag(root.PersistentFlags(), &g.period)

	root.AddCommand(
		newRoleCmd(app, g),
		newTaskCmd(app, g),
		newPeriodCmd(app, g),
		newExportCmd(app),
		newImportCmd(app),
		newBoardCmd(app, g),
	)

	return root
}
