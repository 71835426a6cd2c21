// Package app assembles the application from explicitly injected parts.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/castellan/castellan/internal/application/usecase"
	"github.com/castellan/castellan/internal/infrastructure/clipboard"
	"github.com/castellan/castellan/internal/infrastructure/config"
	"github.com/castellan/castellan/internal/infrastructure/persistence/sqlite"
	"github.com/castellan/castellan/internal/logging"
	"github.com/castellan/castellan/internal/ui/dispatcher"
	"github.com/castellan/castellan/internal/ui/focus"
	"github.com/castellan/castellan/internal/ui/input"
	"github.com/castellan/castellan/internal/ui/surface"
	"github.com/castellan/castellan/internal/vault"
)

// App owns the wired object graph and the terminal event loop.
type App struct {
	ctx     context.Context
	cfgMgr  *config.Manager
	db      *sql.DB
	program *tea.Program
	model   *surface.Model
	detach  func()
}

// New loads configuration, opens the vault database and wires the
// dispatch core to the terminal surface.
func New(ctx context.Context) (*App, error) {
	cfgMgr, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("create config manager: %w", err)
	}
	if err := cfgMgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := cfgMgr.Get()

	logger := logging.NewFromConfigValues(cfg.Logging.Level, cfg.Logging.Format)
	ctx = logging.WithContext(ctx, logger)
	log := logging.FromContext(ctx)

	passphrase, err := readPassphrase()
	if err != nil {
		return nil, err
	}

	db, err := sqlite.NewConnection(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open vault database: %w", err)
	}

	repo := sqlite.NewSecretRepository(db)
	secrets := usecase.NewManageSecretsUseCase(repo, vault.New(passphrase), clipboard.New())

	modes := input.NewModeManager()
	focusReg := focus.NewRegistry()
	keymaps := input.NewRegistry()
	forwarder := surface.NewKeyForwarder()
	notices := surface.NewNotices()
	commands := dispatcher.NewDispatcher(ctx, secrets)

	model, err := surface.New(ctx, surface.Deps{
		Modes:       modes,
		Focus:       focusReg,
		Keymaps:     keymaps,
		Forwarder:   forwarder,
		Notices:     notices,
		Secrets:     secrets,
		Keybindings: cfg.Keybindings,
	})
	if err != nil {
		_ = sqlite.Close(db)
		return nil, fmt.Errorf("build surface: %w", err)
	}
	commands.SetOnQuit(model.RequestQuit)

	executor := input.NewExecutor(ctx, keymaps, modes, focusReg, notices, commands)
	detach := executor.Attach(forwarder)

	app := &App{
		ctx:    ctx,
		cfgMgr: cfgMgr,
		db:     db,
		model:  model,
		detach: detach,
	}
	app.watchConfig(ctx)

	log.Info().Str("database", cfg.Database.Path).Msg("castellan initialized")
	return app, nil
}

// Run starts the terminal event loop and blocks until the user quits.
func (a *App) Run() error {
	logging.FromContext(a.ctx).Debug().Msg("starting terminal event loop")
	a.program = tea.NewProgram(a.model, tea.WithAltScreen())
	_, err := a.program.Run()
	return err
}

// Quit stops the event loop from outside, e.g. on SIGTERM.
func (a *App) Quit() {
	if a.program != nil {
		a.program.Quit()
	}
}

// Close releases the executor and the database.
func (a *App) Close() error {
	if a.detach != nil {
		a.detach()
	}
	return sqlite.Close(a.db)
}

// watchConfig rebinds the surface keymaps whenever the config file
// changes on disk.
func (a *App) watchConfig(ctx context.Context) {
	log := logging.FromContext(ctx)

	a.cfgMgr.OnConfigChange(func(cfg *config.Config) {
		if err := a.model.RebindKeymaps(cfg.Keybindings); err != nil {
			log.Error().Err(err).Msg("config reload: keybinding rebind failed")
			return
		}
		log.Info().Msg("config reloaded, keybindings rebound")
	})
	if err := a.cfgMgr.Watch(); err != nil {
		log.Warn().Err(err).Msg("config watch unavailable")
	}
}

// readPassphrase takes the vault passphrase from CASTELLAN_PASSPHRASE or
// prompts on the terminal without echo.
func readPassphrase() (string, error) {
	if pass := os.Getenv("CASTELLAN_PASSPHRASE"); pass != "" {
		return pass, nil
	}

	fmt.Fprint(os.Stderr, "Vault passphrase: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("passphrase cannot be empty")
	}
	return string(raw), nil
}
