package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newApproveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <code>...",
		Short: "Mark courses as approved",
		Long:  "Mark courses as approved. A course is only approved once all its prerequisites are; codes are processed in the order given.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				for _, arg := range args {
					code, err := a.session.ResolveCode(arg)
					if err != nil {
						return err
					}
					res, err := a.session.Approve(cmd.Context(), code)
					if err != nil {
						return err
					}
					a.render.ApproveResult(res)
				}
				return nil
			})
		},
	}
}

func newUnapproveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unapprove <code>",
		Short: "Withdraw an approval and every approval that depends on it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				code, err := a.session.ResolveCode(args[0])
				if err != nil {
					return err
				}
				was := a.session.IsApproved(code)
				removed, err := a.session.Unapprove(cmd.Context(), code)
				if err != nil {
					return err
				}
				a.render.Unapproved(code, was, removed)
				return nil
			})
		},
	}
}

func newSemesterCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "semester [n]",
		Short: "Show or set the semester you are in",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				if len(args) == 0 {
					a.render.Message("Current semester: %d", a.session.CurrentSemester())
					return nil
				}
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid semester %q", args[0])
				}
				if err := a.session.SetCurrentSemester(cmd.Context(), n); err != nil {
					return err
				}
				a.render.Success("Current semester set to %d.", n)
				if last := a.session.Graph().MaxSemester(); n > last {
					a.render.Warning("The curriculum has %d semesters; you are past its formal length.", last)
				}
				return nil
			})
		},
	}
}
