package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var out string
	c := &cobra.Command{
		Use:   "export",
		Short: "Export progress as a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				if out == "" || out == "-" {
					_, err := a.session.WriteSnapshot(cmd.OutOrStdout())
					return err
				}
				var buf bytes.Buffer
				snap, err := a.session.WriteSnapshot(&buf)
				if err != nil {
					return err
				}
				if err := atomic.WriteFile(out, &buf); err != nil {
					return fmt.Errorf("write snapshot: %w", err)
				}
				a.render.Success("Exported %d approved courses to %s.", len(snap.ApprovedCodes), out)
				return nil
			})
		},
	}
	c.Flags().StringVarP(&out, "out", "o", "", "Write to file instead of stdout")
	return c
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace progress with a JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				var r io.Reader = cmd.InOrStdin()
				if args[0] != "-" {
					f, err := os.Open(args[0])
					if err != nil {
						return fmt.Errorf("open snapshot: %w", err)
					}
					defer f.Close()
					r = f
				}
				res, err := a.session.ImportSnapshot(cmd.Context(), r)
				if err != nil {
					return err
				}
				a.render.Success("Imported %d approved courses, semester %d.", res.Restored, res.Semester)
				if len(res.Skipped) > 0 {
					a.render.Warning("Skipped codes not in the catalog: %s", strings.Join(res.Skipped, ", "))
				}
				if len(res.Unreachable) > 0 {
					a.render.Warning("Dropped codes with unapproved prerequisites: %s", strings.Join(res.Unreachable, ", "))
				}
				return nil
			})
		},
	}
}
