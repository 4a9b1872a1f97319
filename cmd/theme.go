package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/malla/internal/ui/theme"
)

func newThemeCmd(opts *rootOptions) *cobra.Command {
	var palette string
	var list bool
	c := &cobra.Command{
		Use:   "theme [dark|light|toggle]",
		Short: "Show or change the display theme",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				ctx := cmd.Context()
				if list {
					for _, p := range theme.Palettes() {
						a.render.Message("%-10s %s", p, p.DisplayName())
					}
					return nil
				}

				prefs, err := theme.LoadPrefs(ctx, a.kv)
				if err != nil {
					return err
				}
				changed := false
				if len(args) == 1 {
					if strings.EqualFold(args[0], "toggle") {
						prefs.Mode = prefs.Mode.Toggle()
					} else {
						m, err := theme.ParseMode(args[0])
						if err != nil {
							return err
						}
						prefs.Mode = m
					}
					changed = true
				}
				if palette != "" {
					p, err := theme.ParsePalette(palette)
					if err != nil {
						return err
					}
					prefs.Palette = p
					changed = true
				}

				if changed {
					if err := theme.SavePrefs(ctx, a.kv, prefs); err != nil {
						return err
					}
				}
				a.render.Message("Theme: %s, palette %s", prefs.Mode, prefs.Palette.DisplayName())
				return nil
			})
		},
	}
	c.Flags().StringVar(&palette, "palette", "", "Color palette (see --list)")
	c.Flags().BoolVar(&list, "list", false, "List the available palettes")
	return c
}
