package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/malla/internal/curriculum"
	"github.com/abhisek/malla/internal/session"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show credit progress and delay summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, opts)
		},
	}
}

func runStatus(cmd *cobra.Command, opts *rootOptions) error {
	return withApp(cmd, opts, func(a *app) error {
		a.render.Status(a.session)
		return nil
	})
}

func newCoursesCmd(opts *rootOptions) *cobra.Command {
	var (
		area      string
		semester  int
		search    string
		available bool
	)
	c := &cobra.Command{
		Use:   "courses",
		Short: "List courses (optionally filtered by area, semester or search text)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				f := session.Filter{
					Semester:      semester,
					Query:         search,
					OnlyAvailable: available,
				}
				if area != "" {
					ar, err := parseArea(a.session.Graph(), area)
					if err != nil {
						return err
					}
					f.Area = ar
				}
				if semester < 0 || semester > a.session.Graph().MaxSemester() {
					return fmt.Errorf("semester must be within 1..%d", a.session.Graph().MaxSemester())
				}
				a.render.Courses(a.session.Courses(f))
				return nil
			})
		},
	}
	c.Flags().StringVar(&area, "area", "", "Filter by area id or name (e.g. matematicas)")
	c.Flags().IntVar(&semester, "semester", 0, "Filter by catalog semester")
	c.Flags().StringVar(&search, "search", "", "Filter by code or title, ignoring case and accents")
	c.Flags().BoolVar(&available, "available", false, "Hide blocked courses")
	return c
}

// parseArea accepts an area id or its display name.
func parseArea(g *curriculum.Graph, s string) (curriculum.Area, error) {
	want := curriculum.Fold(s)
	var names []string
	for _, a := range g.Areas() {
		if curriculum.Fold(string(a)) == want || curriculum.Fold(curriculum.AreaDisplayName(a)) == want {
			return a, nil
		}
		names = append(names, string(a))
	}
	return "", fmt.Errorf("unknown area %q (valid: %s)", s, strings.Join(names, ", "))
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <code|title>",
		Short: "Show a course with its prerequisites and dependents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				code, err := a.session.ResolveCode(strings.Join(args, " "))
				if err != nil {
					return err
				}
				v, err := a.session.Course(code)
				if err != nil {
					return err
				}
				a.render.Course(v, a.session.Graph())
				return nil
			})
		},
	}
}
