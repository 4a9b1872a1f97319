package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/abhisek/malla/internal/store"
)

func newResetCmd(opts *rootOptions) *cobra.Command {
	var yes, all bool
	c := &cobra.Command{
		Use:   "reset",
		Short: "Reset progress data",
		Long:  "Clear every approval and return to semester 1. With --all, tunables and theme preferences are cleared too.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			return withApp(cmd, opts, func(a *app) error {
				ctx := cmd.Context()
				a.session.Reset(ctx)
				if all {
					if err := a.session.ClearDelayOverrides(ctx); err != nil {
						return err
					}
					for _, key := range []string{store.KeyThemeMode, store.KeyColorTheme} {
						if err := a.kv.Remove(ctx, key); err != nil {
							return err
						}
					}
				}
				a.render.Success("Progress reset.")
				return nil
			})
		},
	}
	c.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	c.Flags().BoolVar(&all, "all", false, "Also clear tunables and theme preferences")
	return c
}
