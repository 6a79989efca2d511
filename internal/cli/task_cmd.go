package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/alexanderramin/loadboard/internal/cli/formatter"
	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App, g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Manage tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app, g),
		newTaskListCmd(app, g),
		newTaskEditCmd(app),
		newTaskMoveCmd(app),
		newTaskResizeCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

// roleLookup loads every role once for describing tasks.
func roleLookup(ctx context.Context, app *App) (domain.RoleLookup, error) {
	entries, err := app.Services.Roles.List(ctx, "")
	if err != nil {
		return nil, err
	}
	roles := make(map[string]domain.Role, len(entries))
	for _, e := range entries {
		roles[e.ID] = e.Role
	}
	return func(id string) (domain.Role, bool) {
		r, ok := roles[id]
		return r, ok
	}, nil
}

func newTaskAddCmd(app *App, g *globalFlags) *cobra.Command {
	var comments string

	cmd := &cobra.Command{
		Use:   "add ROLE OTHER_ROLE",
		Short: "Add a task between two roles of different types",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			period, err := resolvePeriod(ctx, app, g.period)
			if err != nil {
				return err
			}
			roleID, _, err := resolveRole(ctx, app, args[0])
			if err != nil {
				return err
			}
			otherID, other, err := resolveRole(ctx, app, args[1])
			if err != nil {
				return err
			}

			task, err := app.Services.Tasks.Draft(ctx, period, roleID, otherID)
			if err != nil {
				return err
			}
			if v := changedFloat(cmd.Flags(), "value"); v != nil {
				task.Value = *v
			}
			task.Comments = domain.OptionalStr(comments)

			id, err := app.Services.Tasks.Add(ctx, task)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task #%d (%s) with %s in %s\n",
				id, domain.FormatValue(task.Value), other.DisplayName(), period)
			return nil
		},
	}

	cmd.Flags().Float64("value", 0, "Task value (default: the configured default for the other role)")
	cmd.Flags().StringVar(&comments, "comments", "", "Free-form comments")

	return cmd
}

func newTaskListCmd(app *App, g *globalFlags) *cobra.Command {
	var roleRef string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks in the period",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			period, err := resolvePeriod(ctx, app, g.period)
			if err != nil {
				return err
			}
			var roleID string
			if roleRef != "" {
				if roleID, _, err = resolveRole(ctx, app, roleRef); err != nil {
					return err
				}
			}

			tasks, err := app.Services.Tasks.List(ctx, period)
			if err != nil {
				return err
			}
			lookup, err := roleLookup(ctx, app)
			if err != nil {
				return err
			}

			var rows []formatter.TaskRow
			for _, e := range tasks {
				if roleID != "" && !e.Task.References(roleID) {
					continue
				}
				d := domain.Describe(&e.Task, roleID, lookup)
				roles := d.Info
				if len(d.Dangling) > 0 {
					roles += formatter.StyleRed.Render(fmt.Sprintf(" (unknown %v)", d.Dangling))
				}
				rows = append(rows, formatter.TaskRow{ID: e.ID, Task: e.Task, Roles: roles})
			}
			if len(rows) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No tasks in %s.\n", period)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskList(period, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&roleRef, "role", "r", "", "Only tasks of this role")

	return cmd
}

func newTaskEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a task's value or comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			task, err := app.Services.Tasks.Get(ctx, id)
			if err != nil {
				return err
			}

			updated := task.Clone()
			switch {
			case anyChanged(cmd.Flags(), "value", "comments"):
				if v := changedFloat(cmd.Flags(), "value"); v != nil {
					updated.Value = *v
				}
				applyOptional(&updated.Comments, changedString(cmd.Flags(), "comments"))
			case app.EditTask != nil && app.interactive():
				if err := app.EditTask(&updated); err != nil {
					return err
				}
			default:
				return errNothingToChange
			}

			changed, err := app.Services.Tasks.Update(ctx, id, &updated)
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Task #%d unchanged\n", id)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d\n", id)
			return nil
		},
	}

	cmd.Flags().Float64("value", 0, "New value")
	cmd.Flags().String("comments", "", "New comments (empty clears them)")

	return cmd
}

func newTaskMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move ID ROLE",
		Short: "Reassign a task to another role of the same type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			roleID, role, err := resolveRole(ctx, app, args[1])
			if err != nil {
				return err
			}

			moved, err := app.Services.Tasks.Move(ctx, id, role.Type, roleID)
			if err != nil {
				return err
			}
			if !moved {
				fmt.Fprintf(cmd.OutOrStdout(), "Task #%d already belongs to %s\n", id, role.DisplayName())
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved task #%d to %s\n", id, role.DisplayName())
			return nil
		},
	}
}

func newTaskResizeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resize ID WIDTH",
		Short: "Set a task's value from a chip width in pixels",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			width, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid width %q: %w", args[1], err)
			}

			value := app.Config.ValueToWidth.SizeToValue(width)
			changed, err := app.Services.Tasks.SetValue(ctx, id, value)
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Task #%d unchanged at %s\n", id, domain.FormatValue(value))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task #%d is now %s\n", id, domain.FormatValue(value))
			return nil
		},
	}
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			task, err := app.Services.Tasks.Get(ctx, id)
			if err != nil {
				return err
			}
			if err := confirmAction(app, yes,
				fmt.Sprintf("delete task #%d", id),
				fmt.Sprintf("Delete the %s task in %s?", domain.FormatValue(task.Value), task.Period)); err != nil {
				return err
			}
			if err := app.Services.Tasks.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d\n", id)
			return nil
		},
	}

	addYesFlag(cmd.Flags(), &yes)

	return cmd
}
