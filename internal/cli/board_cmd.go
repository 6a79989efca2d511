package cli

import (
	"fmt"

	"github.com/alexanderramin/loadboard/internal/board"
	"github.com/alexanderramin/loadboard/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App, g *globalFlags) *cobra.Command {
	var static bool

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive planning board",
		Long: "Open the planning board. Move between roles and tasks with the arrow keys,\n" +
			"grab a task with space and drop it on another role or position,\n" +
			"resize it with + and -, and switch periods with tab.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctrl, err := board.New(ctx, app.Services, app.Config, app.Logger)
			if err != nil {
				return err
			}
			if g.period != "" {
				if _, err := ctrl.Apply(ctx, board.SwitchPeriod{Name: g.period}); err != nil {
					return err
				}
			}

			if static || !app.interactive() {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBoard(ctrl.View(), formatter.BoardCursor{}))
				return nil
			}

			m := newBoardModel(ctx, ctrl, app.Config.ResizeDebounce)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&static, "print", false, "Print the board once instead of opening it")

	return cmd
}
