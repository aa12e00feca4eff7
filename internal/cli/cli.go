// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/lintara-tui/internal/api"
	"github.com/jeranaias/lintara-tui/internal/config"
	"github.com/jeranaias/lintara-tui/internal/logging"
	"github.com/jeranaias/lintara-tui/internal/reconcile"
	"github.com/jeranaias/lintara-tui/internal/session"
	"github.com/jeranaias/lintara-tui/internal/storage"
	"github.com/jeranaias/lintara-tui/internal/ui/dashboard"
	"github.com/jeranaias/lintara-tui/internal/ui/styles"
)

// Version information, set at build time with -ldflags.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// APP
// =============================================================================

// App carries the I/O and dependencies shared by every command. The zero
// value is not usable; call NewApp.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// HTTPClient overrides the REST transport.
	HTTPClient *http.Client

	// SessionPath overrides ~/.lintara/session.json.
	SessionPath string

	// ReadPassword reads a secret without echo.
	ReadPassword func(prompt string) (string, error)

	// Interactive reports whether prompts can be shown.
	Interactive func() bool

	// Clock drives `watch`. nil means the real clock.
	Clock reconcile.Clock

	Now func() time.Time

	// Colors forces styled output on or off. nil follows the terminal.
	Colors *bool

	// flags
	configPath string
	apiURL     string
	jsonOut    bool
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
	store  *session.Store
	out    outputStyles
	in     *bufio.Reader
}

// NewApp returns an App wired to the process's stdio.
func NewApp() *App {
	return &App{
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		ReadPassword: terminalPassword,
		Interactive:  IsTTY,
		Now:          time.Now,
	}
}

// Execute runs the CLI with the process arguments and returns the exit code.
func Execute(ctx context.Context) int {
	return NewApp().Run(ctx, os.Args[1:])
}

// Run executes args and returns the exit code. Errors are printed to stderr,
// or to stdout as a JSON envelope with --json.
func (a *App) Run(ctx context.Context, args []string) int {
	root := a.NewRootCommand()
	root.SetArgs(args)

	cmd, err := root.ExecuteContextC(ctx)
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err == nil || errors.Is(err, errCancelled) {
		if err != nil {
			fmt.Fprintln(a.Stderr, "Cancelled.")
		}
		return ExitSuccess
	}

	if a.jsonOut {
		DisplayError(a.Stdout, a.out, cmd.Name(), err, true)
	} else {
		DisplayError(a.Stderr, a.styles(a.Stderr), cmd.Name(), err, false)
	}
	return ExitCodeFor(err)
}

// NewRootCommand builds the command tree.
func (a *App) NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "lintara",
		Short: "Terminal client for the code analysis service",
		Long: `lintara submits code for LLM review and shows the analysis reports.

Run without arguments to open the dashboard: your analyses on the left, the
selected report on the right, refreshed automatically while any analysis is
pending or processing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDashboard(cmd.Context())
		},
	}
	root.SetIn(a.Stdin)
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ~/.lintara/config.toml)")
	pf.StringVar(&a.apiURL, "api-url", "", "analysis service URL, overrides api.base_url")
	pf.BoolVar(&a.jsonOut, "json", false, "print machine-readable JSON")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		a.newListCommand(),
		a.newShowCommand(),
		a.newWatchCommand(),
		a.newRenderCommand(),
		a.newSubmitCommand(),
		a.newUpdateCommand(),
		a.newReanalyzeCommand(),
		a.newDeleteCommand(),
		a.newExportCommand(),
		a.newLoginCommand(),
		a.newLogoutCommand(),
		a.newRegisterCommand(),
		a.newConfigCommand(),
		a.newVersionCommand(),
	)
	return root
}

// =============================================================================
// SETUP
// =============================================================================

func (a *App) setup() error {
	explicit := a.configPath != ""
	if !explicit {
		path, err := config.ConfigPathTOML()
		if err != nil {
			return &ConfigError{Path: "~/.lintara/config.toml", Err: err}
		}
		a.configPath = path
	}

	cfg, err := loadConfig(a.configPath, explicit, a.Stderr)
	if err != nil {
		return &ConfigError{Path: a.configPath, Err: err}
	}
	if a.apiURL != "" {
		cfg.API.BaseURL = strings.TrimRight(a.apiURL, "/")
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(a.Stderr, "Warning: logging disabled: %v\n", err)
		logger = logging.Nop()
	}
	a.logger = logger
	a.logger.Debug("config loaded", zap.String("path", a.configPath), zap.Stringer("config", cfg))

	if a.SessionPath != "" {
		a.store = session.NewStore(a.SessionPath)
	} else {
		store, err := session.DefaultStore()
		if err != nil {
			return &ConfigError{Path: "session", Err: err}
		}
		a.store = store
	}

	if a.Now == nil {
		a.Now = time.Now
	}
	if a.Interactive == nil {
		a.Interactive = func() bool { return false }
	}
	a.out = a.styles(a.Stdout)
	return nil
}

// loadConfig reads path. A missing default file falls back to the JSON file
// and then the built-in defaults; a missing explicit file is the defaults.
func loadConfig(path string, explicit bool, warn io.Writer) (*config.Config, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return config.LoadFromPath(path)
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	case explicit:
		cfg := config.Default()
		cfg.ApplyEnvOverrides()
		cfg.SetDefaults()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	cfg, err := config.Load()
	if cfg == nil {
		return nil, err
	}
	if err != nil {
		fmt.Fprintf(warn, "Warning: %v (using defaults)\n", err)
	}
	return cfg, nil
}

func (a *App) styles(w io.Writer) outputStyles {
	colors := ColorsEnabled()
	if a.Colors != nil {
		colors = *a.Colors
	}
	return newOutputStyles(w, colors)
}

func (a *App) theme() *styles.Theme {
	return styles.NewThemeFor(a.cfg.UI.Theme, a.Stdout)
}

func (a *App) stdin() *bufio.Reader {
	if a.in == nil {
		a.in = bufio.NewReader(a.Stdin)
	}
	return a.in
}

// =============================================================================
// SERVICE, SESSION AND CACHE
// =============================================================================

func (a *App) newClient(token string) *api.Client {
	return api.NewClient(&api.ClientConfig{
		BaseURL:    a.cfg.API.BaseURL,
		Timeout:    a.cfg.API.Timeout(),
		PageSize:   a.cfg.API.PageSize,
		RatePerSec: a.cfg.API.RatePerSec,
		Token:      token,
		UserAgent:  "lintara/" + Version,
		HTTPClient: a.HTTPClient,
		Logger:     a.logger,
	})
}

// session returns the stored session for the configured service. An
// api.token from config or LINTARA_TOKEN takes precedence over the file.
func (a *App) session() (*session.Session, error) {
	if a.cfg.API.Token != "" {
		return &session.Session{Token: a.cfg.API.Token, BaseURL: a.cfg.API.BaseURL}, nil
	}
	sess, err := a.store.Load()
	if errors.Is(err, session.ErrNoSession) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, err
	}
	if !sess.Valid(a.cfg.API.BaseURL) {
		return nil, ErrNotLoggedIn
	}
	return sess, nil
}

// authedClient returns a client carrying the session token.
func (a *App) authedClient() (*api.Client, *session.Session, error) {
	sess, err := a.session()
	if err != nil {
		return nil, nil, err
	}
	return a.newClient(sess.Token), sess, nil
}

// scope is the cache partition for the current account. Without a session
// the username is empty.
func (a *App) scope() storage.Scope {
	scope := storage.Scope{BaseURL: a.cfg.API.BaseURL}
	if sess, err := a.session(); err == nil {
		scope.Username = sess.Username
	}
	return scope
}

// openCache opens the offline cache, or returns nil when it is disabled.
func (a *App) openCache() (*storage.Cache, error) {
	if !a.cfg.Cache.Enabled {
		return nil, nil
	}
	path := a.cfg.Cache.Path
	if path == "" {
		dir, err := config.ConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "cache.db")
	}
	return storage.Open(path)
}

// withCache runs fn against the cache. Cache failures are logged, never
// returned: the cache is a convenience.
func (a *App) withCache(fn func(*storage.Cache) error) {
	cache, err := a.openCache()
	if err != nil {
		a.logger.Warn("cache unavailable", zap.Error(err))
		return
	}
	if cache == nil {
		return
	}
	defer cache.Close()
	if err := fn(cache); err != nil {
		a.logger.Warn("cache update failed", zap.Error(err))
	}
}

// printJSON writes data in the JSON envelope.
func (a *App) printJSON(command string, data interface{}) error {
	return NewJSONResponse(command, data).Print(a.Stdout)
}

// =============================================================================
// DASHBOARD
// =============================================================================

func (a *App) runDashboard(ctx context.Context) error {
	client, sess, err := a.authedClient()
	if err != nil {
		return err
	}

	opts := dashboard.Options{
		Service:  client,
		Scope:    storage.Scope{BaseURL: a.cfg.API.BaseURL, Username: sess.Username},
		Config:   a.cfg,
		Logger:   a.logger,
		Username: sess.Username,
		BaseURL:  a.cfg.API.BaseURL,
		Output:   a.Stdout,
	}

	cache, err := a.openCache()
	if err != nil {
		a.logger.Warn("cache unavailable", zap.Error(err))
	} else if cache != nil {
		defer cache.Close()
		opts.Cache = cache
	}

	return dashboard.Run(ctx, opts, a.configPath)
}
