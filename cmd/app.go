package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/abhisek/malla/internal/config"
	"github.com/abhisek/malla/internal/curriculum"
	"github.com/abhisek/malla/internal/report"
	"github.com/abhisek/malla/internal/session"
	"github.com/abhisek/malla/internal/store"
	"github.com/abhisek/malla/internal/ui/layout"
	"github.com/abhisek/malla/internal/ui/theme"
)

// env is the resolved configuration of one invocation, before any state is
// opened.
type env struct {
	cfg     config.Config
	log     *slog.Logger
	catalog *curriculum.Catalog
}

// app is an env with its state store and session open.
type app struct {
	env
	kv      store.KV
	session *session.Session
	render  *report.Renderer
}

func (a *app) Close() error {
	if c, ok := a.kv.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// loadEnv resolves config from defaults, the config file, the environment and
// finally the flags, then loads the catalog.
func loadEnv(cmd *cobra.Command, opts *rootOptions) (*env, error) {
	path, required := opts.configPath, opts.configPath != ""
	if !required {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		return nil, err
	}

	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	if opts.catalogPath != "" {
		cfg.CatalogPath = opts.catalogPath
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.noColor || os.Getenv("NO_COLOR") != "" {
		cfg.NoColor = true
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	e := &env{
		cfg: cfg,
		log: slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})),
	}

	if cfg.CatalogPath != "" {
		cat, err := curriculum.LoadCatalogFile(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		e.catalog = &cat
		e.log.Debug("using catalog file", "path", cfg.CatalogPath, "courses", len(cat.Courses))
	}
	return e, nil
}

// resolveDBPath returns the state path using the config (flag, env or file)
// first, then the default XDG path.
func (e *env) resolveDBPath() (string, error) {
	if e.cfg.DBPath != "" {
		return e.cfg.DBPath, nil
	}
	return store.DefaultDBPath()
}

// renderer builds a Renderer for the command's stdout. Output that is not a
// terminal is always plain.
func (e *env) renderer(cmd *cobra.Command, prefs theme.Prefs) *report.Renderer {
	out := cmd.OutOrStdout()
	width := layout.DefaultWidth
	plain := e.cfg.NoColor
	if f, ok := out.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		if w, _, err := term.GetSize(f.Fd()); err == nil {
			width = w
		}
	} else {
		plain = true
	}
	return report.New(out, theme.New(prefs.Mode, prefs.Palette, plain), width)
}

// openApp opens the store and the session. Callers must Close the result.
func openApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	e, err := loadEnv(cmd, opts)
	if err != nil {
		return nil, err
	}
	dbPath, err := e.resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	kv, err := store.OpenPath(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a := &app{env: *e, kv: kv}

	ctx := cmd.Context()
	a.session, err = session.Open(ctx, session.Options{
		Catalog: e.catalog,
		KV:      kv,
		Delay:   &e.cfg.Delay,
		Logger:  e.log,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open session: %w", err)
	}

	prefs, err := theme.LoadPrefs(ctx, kv)
	if err != nil {
		e.log.Warn("using default theme", "err", err)
	}
	a.render = e.renderer(cmd, prefs)
	return a, nil
}

// withApp runs fn against an open app and closes it afterwards.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(a *app) error) error {
	a, err := openApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
