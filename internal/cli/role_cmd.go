package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/loadboard/internal/cli/formatter"
	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/spf13/cobra"
)

func newRoleCmd(app *App, g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "role",
		Aliases: []string{"roles"},
		Short:   "Manage roles",
	}

	cmd.AddCommand(
		newRoleAddCmd(app, g),
		newRoleListCmd(app, g),
		newRoleEditCmd(app),
		newRoleTargetCmd(app, g),
		newRoleRemoveCmd(app, g),
	)

	return cmd
}

func newRoleAddCmd(app *App, g *globalFlags) *cobra.Command {
	var roleType, nickname, group, comments string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a role to a period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			period, err := resolvePeriod(ctx, app, g.period)
			if err != nil {
				return err
			}

			role := &domain.Role{
				Type:     roleType,
				Name:     strings.TrimSpace(args[0]),
				Nickname: domain.OptionalStr(nickname),
				Group:    domain.OptionalStr(group),
				Comments: domain.OptionalStr(comments),
			}
			if target := changedFloat(cmd.Flags(), "target"); target != nil {
				role.Target = map[string]float64{period: *target}
			}

			id, err := app.Services.Roles.Add(ctx, role, period)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s [%s] to %s\n", role.Type, role.Name, formatter.TruncID(id), period)
			return nil
		},
	}

	cmd.Flags().StringVarP(&roleType, "type", "t", "", "Role type (one of the configured role types)")
	cmd.Flags().StringVar(&nickname, "nickname", "", "Short name shown on the board")
	cmd.Flags().StringVar(&group, "group", "", "Group tag")
	cmd.Flags().StringVar(&comments, "comments", "", "Free-form comments")
	cmd.Flags().Float64("target", 0, "Target for the period (default: the configured default)")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newRoleListCmd(app *App, g *globalFlags) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List roles with their load",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			period, err := resolvePeriod(ctx, app, g.period)
			if err != nil {
				return err
			}

			filter := period
			if all {
				filter = ""
			}
			roles, err := app.Services.Roles.List(ctx, filter)
			if err != nil {
				return err
			}
			if len(roles) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No roles in %s.\n", period)
				return nil
			}

			rows := make([]formatter.RoleRow, 0, len(roles))
			for _, e := range roles {
				load, err := app.Services.Tasks.LoadFor(ctx, e.ID, period)
				if err != nil {
					return err
				}
				rows = append(rows, formatter.RoleRow{
					ID:   e.ID,
					Role: e.Role,
					Load: load,
					Hint: app.Config.CalculationHint(e.Role.Type, load.Target),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRoleList(period, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include roles that are not in the period")

	return cmd
}

func newRoleEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ROLE",
		Short: "Change a role's name, nickname, group or comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, role, err := resolveRole(ctx, app, args[0])
			if err != nil {
				return err
			}

			updated := role.Clone()
			switch {
			case anyChanged(cmd.Flags(), "name", "nickname", "group", "comments"):
				if name := changedString(cmd.Flags(), "name"); name != nil {
					updated.Name = strings.TrimSpace(*name)
				}
				applyOptional(&updated.Nickname, changedString(cmd.Flags(), "nickname"))
				applyOptional(&updated.Group, changedString(cmd.Flags(), "group"))
				applyOptional(&updated.Comments, changedString(cmd.Flags(), "comments"))
			case app.EditRole != nil && app.interactive():
				if err := app.EditRole(&updated); err != nil {
					return err
				}
			default:
				return errNothingToChange
			}

			if err := app.Services.Roles.Update(ctx, id, &updated); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", updated.Name)
			return nil
		},
	}

	cmd.Flags().String("name", "", "New name")
	cmd.Flags().String("nickname", "", "New nickname (empty clears it)")
	cmd.Flags().String("group", "", "New group (empty clears it)")
	cmd.Flags().String("comments", "", "New comments (empty clears them)")

	return cmd
}

func newRoleTargetCmd(app *App, g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "target ROLE VALUE",
		Short: "Set a role's target for the period",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			period, err := resolvePeriod(ctx, app, g.period)
			if err != nil {
				return err
			}
			id, role, err := resolveRole(ctx, app, args[0])
			if err != nil {
				return err
			}
			value, err := parseValue(args[1])
			if err != nil {
				return err
			}

			if err := app.Services.Roles.SetTarget(ctx, id, period, value); err != nil {
				return err
			}
			out := fmt.Sprintf("%s target in %s: %s", role.DisplayName(), period, domain.FormatValue(value))
			if hint := app.Config.CalculationHint(role.Type, value); hint != "" {
				out += " " + formatter.Dim(hint)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newRoleRemoveCmd(app *App, g *globalFlags) *cobra.Command {
	var yes, everywhere bool

	cmd := &cobra.Command{
		Use:     "rm ROLE",
		Aliases: []string{"remove"},
		Short:   "Remove a role from the period",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			period := ""
			if !everywhere {
				p, err := resolvePeriod(ctx, app, g.period)
				if err != nil {
					return err
				}
				period = p
			}
			id, role, err := resolveRole(ctx, app, args[0])
			if err != nil {
				return err
			}

			scope := "every period"
			if period != "" {
				scope = period
			}
			tasks, err := app.Services.Tasks.List(ctx, period)
			if err != nil {
				return err
			}
			inUse := 0
			for _, e := range tasks {
				if e.Task.References(id) {
					inUse++
				}
			}
			if inUse > 0 {
				return fmt.Errorf("%s still has %d task(s) in %s; move or delete them first: %w",
					role.DisplayName(), inUse, scope, domain.ErrRoleInUse)
			}

			if err := confirmAction(app, yes,
				"remove "+role.DisplayName(),
				fmt.Sprintf("Remove %s from %s?", role.Name, scope)); err != nil {
				return err
			}

			deleted, err := app.Services.Roles.Delete(ctx, id, period)
			if errors.Is(err, domain.ErrRoleInUse) {
				return fmt.Errorf("%s still has tasks in %s; move or delete them first: %w", role.DisplayName(), scope, err)
			}
			if err != nil {
				return err
			}
			if deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", role.Name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", role.Name, scope)
			}
			return nil
		},
	}

	addYesFlag(cmd.Flags(), &yes)
	cmd.Flags().BoolVar(&everywhere, "everywhere", false, "Remove the role from every period")

	return cmd
}
