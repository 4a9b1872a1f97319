package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/malla/internal/curriculum"
	"github.com/abhisek/malla/internal/ui/theme"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var strict bool
	c := &cobra.Command{
		Use:   "validate",
		Short: "Check the catalog for integrity issues",
		Long: "Build the prerequisite graph from the catalog and report duplicates, dangling " +
			"prerequisites, cycles and out-of-range values. Saved progress is not opened.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, opts)
			if err != nil {
				return err
			}
			cat := curriculum.DefaultCatalog()
			if e.catalog != nil {
				cat = *e.catalog
			}
			g, rep := curriculum.Build(cat)
			e.renderer(cmd, theme.DefaultPrefs()).Validation(g, rep)
			if strict {
				return rep.Err()
			}
			return nil
		},
	}
	c.Flags().BoolVar(&strict, "strict", false, "Exit with an error when any issue is found")
	return c
}
