// Package app contains the application layer with business orchestration logic.
package app

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/howto-cli/howto/internal/pkg/ai"
	"github.com/howto-cli/howto/internal/pkg/config"
	apperrors "github.com/howto-cli/howto/internal/pkg/errors"
	"github.com/howto-cli/howto/internal/pkg/history"
	"github.com/howto-cli/howto/internal/pkg/security"
	"github.com/howto-cli/howto/internal/pkg/ui"
)

// CompleterFactory builds the remote model client for the resolved provider settings.
type CompleterFactory func(settings config.ProviderSettings) (ai.Completer, error)

// Options configures New. Zero values select the process defaults.
type Options struct {
	StateDir     string
	WorkDir      string
	In           io.Reader
	Out          io.Writer
	ErrOut       io.Writer
	NewCompleter CompleterFactory
	UI           ui.Manager
}

// App carries the state of one howto invocation.
// It is built once and passed to every command.
type App struct {
	Config    *config.Config
	ConfigMgr *config.ViperManager
	History   history.Manager
	UI        ui.Manager
	WorkDir   string
	In        io.Reader
	Out       io.Writer
	ErrOut    io.Writer

	newCompleter CompleterFactory
	completer    ai.Completer
	lines        *LineReader
}

// New loads the configuration record and wires the collaborators.
// A corrupt record is returned as an error rather than replaced.
func New(opts Options) (*App, error) {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}
	if opts.NewCompleter == nil {
		opts.NewCompleter = ai.NewProvider
	}

	apperrors.SetVerbose(config.VerboseFromEnv())
	apperrors.SetOutput(opts.ErrOut)

	cfgMgr, err := config.NewManager(opts.StateDir)
	if err != nil {
		return nil, apperrors.NewFileSystemError("failed to locate state directory", err)
	}
	apperrors.Debug("Using state directory: %s", cfgMgr.StateDir())

	cfg, err := cfgMgr.Load()
	if err != nil {
		return nil, err
	}

	workDir := opts.WorkDir
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			return nil, apperrors.NewFileSystemError("failed to get working directory", err)
		}
	}

	uiMgr := opts.UI
	if uiMgr == nil {
		uiMgr = ui.NewManager(opts.Out, opts.ErrOut, ui.Options{
			ColorEnabled: cfg.UI.ColorEnabled,
			Markdown:     cfg.UI.Markdown,
		})
	}

	return &App{
		Config:       cfg,
		ConfigMgr:    cfgMgr,
		History:      history.NewFileManager(cfgMgr.GetHistoryPath()),
		UI:           uiMgr,
		WorkDir:      workDir,
		In:           opts.In,
		Out:          opts.Out,
		ErrOut:       opts.ErrOut,
		newCompleter: opts.NewCompleter,
	}, nil
}

// SaveConfig persists the in-memory configuration.
func (a *App) SaveConfig() error {
	return a.ConfigMgr.Save(a.Config)
}

// Interactive reports whether both input and output are terminals.
func (a *App) Interactive() bool {
	return ui.IsTerminal(a.In) && ui.IsTerminal(a.Out)
}

// Completer returns the remote model client, creating it on first use.
// Administrative commands never call it, so they work without an API key.
func (a *App) Completer() (ai.Completer, error) {
	if a.completer != nil {
		return a.completer, nil
	}

	settings := a.ConfigMgr.ProviderSettings(a.Config)
	completer, err := a.newCompleter(settings)
	if apperrors.HasCode(err, apperrors.ErrMissingAPIKey) && a.Interactive() {
		if setupErr := ui.RunAPIKeySetup(a.ConfigMgr, a.Config, a.Out); setupErr != nil {
			if errors.Is(setupErr, huh.ErrUserAborted) {
				return nil, apperrors.NewInterruptedError(setupErr)
			}
			return nil, setupErr
		}
		settings = a.ConfigMgr.ProviderSettings(a.Config)
		completer, err = a.newCompleter(settings)
	}
	if err != nil {
		apperrors.Error("Failed to create AI provider: %v", err)
		return nil, err
	}

	apperrors.Debug("AI provider created: %s (key %s)", completer.Name(), security.MaskAPIKey(settings.APIKey))
	a.completer = completer
	return completer, nil
}

// Lines returns the shared line reader over the app input.
func (a *App) Lines() *LineReader {
	if a.lines == nil {
		a.lines = NewLineReader(a.In, a.Out)
	}
	return a.lines
}

// Close releases the line reader, if one was started.
func (a *App) Close() {
	if a.lines != nil {
		a.lines.Close()
	}
}
