package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/malla/internal/delay"
)

func newTuneCmd(opts *rootOptions) *cobra.Command {
	var (
		credits, semesters, margin int
		reset                      bool
	)
	c := &cobra.Command{
		Use:   "tune",
		Short: "Show or override the delay analysis tunables",
		Long: "Show the delay analysis tunables. The pace, program length and delay margin " +
			"can be overridden; overrides are stored with your progress.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				ctx := cmd.Context()
				if reset {
					if err := a.session.ClearDelayOverrides(ctx); err != nil {
						return err
					}
				}

				var o delay.Overrides
				flags := cmd.Flags()
				if flags.Changed("credits-per-semester") {
					o.CreditsPerIdealSemester = &credits
				}
				if flags.Changed("total-semesters") {
					o.TotalSemesters = &semesters
				}
				if flags.Changed("delay-margin") {
					o.DelayMargin = &margin
				}
				if !o.IsZero() {
					if err := a.session.SetDelayOverrides(ctx, o); err != nil {
						return err
					}
				}

				a.render.Tunables(a.session.DelayConfig(), a.session.DelayOverrides())
				return nil
			})
		},
	}
	c.Flags().IntVar(&credits, "credits-per-semester", 0, "Credits per semester at the ideal pace")
	c.Flags().IntVar(&semesters, "total-semesters", 0, "Formal program length in semesters")
	c.Flags().IntVar(&margin, "delay-margin", 0, "Minimum credit deficit that counts as behind")
	c.Flags().BoolVar(&reset, "reset", false, "Drop all overrides before applying flags")
	return c
}
