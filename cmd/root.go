package cmd

import (
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	dbPath      string
	catalogPath string
	configPath  string
	logLevel    string
	noColor     bool
}

// NewRootCmd creates the top-level "malla" command with all subcommands.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "malla",
		Short: "Curriculum progress and delay tracker",
		Long: "malla tracks approved courses against a prerequisite graph, " +
			"measures how far a student is behind the ideal pace and suggests what to take next.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.dbPath, "db", "", "State file (overrides MALLA_DB); a .json path selects the file backend")
	pf.StringVar(&opts.catalogPath, "catalog", "", "Catalog file replacing the embedded curriculum (JSON or JSONC)")
	pf.StringVar(&opts.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/malla/config.toml)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.BoolVar(&opts.noColor, "no-color", false, "Disable colors and decorations")

	root.AddCommand(
		newStatusCmd(opts),
		newCoursesCmd(opts),
		newShowCmd(opts),
		newApproveCmd(opts),
		newUnapproveCmd(opts),
		newSemesterCmd(opts),
		newAnalyzeCmd(opts),
		newPlanCmd(opts),
		newAreasCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newResetCmd(opts),
		newThemeCmd(opts),
		newTuneCmd(opts),
		newValidateCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
