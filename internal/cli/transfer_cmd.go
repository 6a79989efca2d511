package cli

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/alexanderramin/loadboard/internal/blob"
	"github.com/spf13/cobra"
)

func (a *App) s3Config() blob.S3Config {
	return blob.S3Config{
		Region:    a.Config.S3.Region,
		Endpoint:  a.Config.S3.Endpoint,
		PathStyle: a.Config.S3.UsePathStyle,
	}
}

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export [DEST]",
		Short: "Write the whole board as JSON to a file or s3://bucket/key",
		Long: "Export compacts task ids to 0..n-1 and writes every role and task.\n" +
			"DEST defaults to the configured file name; \"-\" writes to stdout.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dest := app.Config.FileName
			if len(args) == 1 {
				dest = args[0]
			}

			if dest == "-" {
				_, err := app.Services.Transfer.Export(ctx, cmd.OutOrStdout())
				return err
			}

			loc, err := blob.Open(ctx, dest, app.s3Config())
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			res, err := app.Services.Transfer.Export(ctx, &buf)
			if err != nil {
				return err
			}
			if err := loc.Put(ctx, &buf); err != nil {
				return fmt.Errorf("writing %s: %w", loc, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Exported %d role(s) and %d task(s) to %s\n", res.Roles, res.Tasks, dest)
			if n := len(res.Renumbered); n > 0 {
				fmt.Fprintf(out, "Renumbered %d task(s): %s\n", n, formatRenumbered(res.Renumbered))
			}
			return nil
		},
	}
}

func newImportCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import SRC",
		Short: "Replace the whole board with a JSON export",
		Long:  "SRC is a file path, s3://bucket/key, or \"-\" for stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src := args[0]

			if err := confirmAction(app, yes,
				"replace the board",
				fmt.Sprintf("Replace every role and task with the contents of %s?", src)); err != nil {
				return err
			}

			var r io.Reader
			if src == "-" {
				r = cmd.InOrStdin()
			} else {
				loc, err := blob.Open(ctx, src, app.s3Config())
				if err != nil {
					return err
				}
				rc, err := loc.Get(ctx)
				if err != nil {
					return fmt.Errorf("reading %s: %w", loc, err)
				}
				defer rc.Close()
				r = rc
			}

			res, err := app.Services.Transfer.Import(ctx, r)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d role(s) and %d task(s)\n", res.Roles, res.Tasks)
			for _, id := range res.Untargeted {
				fmt.Fprintf(out, "warning: role %s has no target in any period; skipped\n", id)
			}
			ids := make([]int, 0, len(res.Dangling))
			for id := range res.Dangling {
				ids = append(ids, id)
			}
			sort.Ints(ids)
			for _, id := range ids {
				fmt.Fprintf(out, "warning: task %d references unknown roles %v\n", id, res.Dangling[id])
			}
			return nil
		},
	}

	addYesFlag(cmd.Flags(), &yes)

	return cmd
}

func formatRenumbered(m map[int]int) string {
	olds := make([]int, 0, len(m))
	for old := range m {
		olds = append(olds, old)
	}
	sort.Ints(olds)
	var buf bytes.Buffer
	for i, old := range olds {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "#%d→#%d", old, m[old])
	}
	return buf.String()
}
