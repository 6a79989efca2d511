package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/loadboard/internal/cli/formatter"
	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/spf13/cobra"
)

func newPeriodCmd(app *App, g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "period",
		Aliases: []string{"periods"},
		Short:   "Manage periods",
	}

	cmd.AddCommand(
		newPeriodListCmd(app),
		newPeriodCreateCmd(app),
		newPeriodRenameCmd(app),
		newPeriodCloneCmd(app),
		newPeriodRemoveCmd(app, g),
	)

	return cmd
}

func newPeriodListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List periods, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			periods, err := app.Services.Periods.List(ctx)
			if err != nil {
				return err
			}
			if len(periods) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No periods yet.")
				return nil
			}

			roles, err := app.Services.Roles.List(ctx, "")
			if err != nil {
				return err
			}
			tasks, err := app.Services.Tasks.List(ctx, "")
			if err != nil {
				return err
			}

			rows := make([]formatter.PeriodRow, 0, len(periods))
			for _, p := range periods {
				row := formatter.PeriodRow{Name: p}
				for _, e := range roles {
					if e.Role.HasPeriod(p) {
						row.Roles++
					}
				}
				for _, e := range tasks {
					if e.Task.Period == p {
						row.Tasks++
					}
				}
				rows = append(rows, row)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPeriodList(rows))
			return nil
		},
	}
}

func newPeriodCreateCmd(app *App) *cobra.Command {
	var roleRefs []string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a period with the given roles at their default targets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := strings.TrimSpace(args[0])

			periods, err := app.Services.Periods.List(ctx)
			if err != nil {
				return err
			}
			if domain.HasPeriodName(periods, name) {
				return fmt.Errorf("period %q: %w", name, domain.ErrDuplicatePeriod)
			}

			var ids []string
			for _, ref := range roleRefs {
				id, _, err := resolveRole(ctx, app, ref)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			if err := app.Services.Periods.Create(ctx, name, ids...); err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Period %s has no roles yet; add one with `loadboard role add --period %q`\n", name, name)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created period %s with %d role(s)\n", name, len(ids))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&roleRefs, "role", "r", nil, "Role to add to the period (repeatable)")

	return cmd
}

func newPeriodRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename OLD NEW",
		Short: "Rename a period on every role and task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Services.Periods.Rename(cmd.Context(), args[0], strings.TrimSpace(args[1])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", args[0], strings.TrimSpace(args[1]))
			return nil
		},
	}
}

func newPeriodCloneCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clone FROM TO",
		Short: "Copy the targets and tasks of one period into another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			from, to := args[0], strings.TrimSpace(args[1])

			periods, err := app.Services.Periods.List(ctx)
			if err != nil {
				return err
			}
			if domain.HasPeriodName(periods, to) {
				if err := confirmAction(app, yes,
					"overwrite "+to,
					fmt.Sprintf("Replace everything in %s with a copy of %s?", to, from)); err != nil {
					return err
				}
			}

			res, err := app.Services.Periods.Clone(ctx, from, to)
			if err != nil {
				return err
			}
			out := fmt.Sprintf("Cloned %s into %s: %d role(s), %d task(s)", from, to, res.Roles, res.Tasks)
			if res.Replaced > 0 {
				out += fmt.Sprintf(", replaced %d task(s)", res.Replaced)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	addYesFlag(cmd.Flags(), &yes)

	return cmd
}

func newPeriodRemoveCmd(app *App, g *globalFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm [NAME]",
		Aliases: []string{"remove"},
		Short:   "Delete a period with its tasks",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := g.period
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" {
				return fmt.Errorf("period name is required")
			}

			if err := confirmAction(app, yes,
				"delete period "+name,
				fmt.Sprintf("Delete %s with all its tasks? Roles left with no period are deleted too.", name)); err != nil {
				return err
			}

			res, err := app.Services.Periods.Delete(ctx, name)
			if err != nil {
				return err
			}
			out := fmt.Sprintf("Deleted %s: %d task(s), removed from %d role(s)", name, res.Tasks, res.Roles)
			if n := len(res.DeletedRoles); n > 0 {
				out += fmt.Sprintf(", %d role(s) deleted", n)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	addYesFlag(cmd.Flags(), &yes)

	return cmd
}
