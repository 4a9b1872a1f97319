package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/abhisek/malla/internal/report"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	c := &cobra.Command{
		Use:   "analyze",
		Short: "Full delay analysis with critical courses and recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				an := report.NewAnalysis(a.session)
				if asJSON {
					return writeJSON(cmd, an)
				}
				a.render.Analysis(an)
				return nil
			})
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "Print the analysis as JSON")
	return c
}

func newPlanCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	c := &cobra.Command{
		Use:   "plan",
		Short: "Suggest courses for the next semester",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				p := a.session.NextSemesterPlan()
				if asJSON {
					return writeJSON(cmd, p)
				}
				a.render.Plan(p, a.session.DelayConfig())
				return nil
			})
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "Print the plan as JSON")
	return c
}

func newAreasCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "areas",
		Short: "Show progress per subject area and per semester",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				a.render.Areas(a.session.AreaProgress(), a.session.LoadDistribution())
				return nil
			})
		},
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
