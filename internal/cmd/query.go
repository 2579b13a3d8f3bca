package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/howto-cli/howto/internal/app"
	apperrors "github.com/howto-cli/howto/internal/pkg/errors"
)

// QuitCommand ends a continuous session.
const QuitCommand = "quit"

// runQuery asks one question. An empty question prints usage instead.
func runQuery(ctx context.Context, a *app.App, question string) error {
	if strings.TrimSpace(question) == "" {
		printUsage(a.Out, a.ConfigMgr.GetHistoryPath())
		return apperrors.NewInformational()
	}
	_, err := a.Ask(ctx, question)
	return err
}

func continuousPrompt(a *app.App) string {
	return fmt.Sprintf("Ask %s >> ", a.Config.GetModel())
}

// runContinuous keeps asking questions read from input until "quit" or end of input.
// Lines whose first word is a known option run as commands; everything else
// is asked as a question. A remote failure ends the session.
func runContinuous(ctx context.Context, a *app.App, initial string, info BuildInfo) error {
	if initial != "" {
		if _, err := a.Ask(ctx, initial); err != nil {
			return err
		}
	} else if _, err := a.Completer(); err != nil {
		// Resolve the provider before the reader claims the input.
		return err
	}

	apperrors.Info("continuous session started with %s", a.Config.GetModel())
	lines := a.Lines()
	for {
		line, err := lines.ReadLine(ctx, continuousPrompt(a))
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(a.Out)
			a.UI.ShowInfo("Goodbye.")
			return apperrors.NewInformational()
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == QuitCommand:
			a.UI.ShowInfo("Goodbye.")
			return apperrors.NewInformational()
		case isSessionCommand(line):
			if err := runSessionCommand(ctx, a, ParseArgs(strings.Fields(line)), info); err != nil {
				return err
			}
		default:
			if _, err := a.Ask(ctx, line); err != nil {
				return err
			}
		}
	}
}

// isSessionCommand reports whether line starts with a known option.
func isSessionCommand(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	_, ok := flagCommands[fields[0]]
	return ok
}

// runSessionCommand runs a command typed inside a continuous session.
// Only failures beyond the user's control end the session.
func runSessionCommand(ctx context.Context, a *app.App, inv Invocation, info BuildInfo) error {
	if inv.Command == CommandContinuous {
		a.UI.ShowError(fmt.Errorf("continuous mode is already active"))
		return nil
	}

	err := Dispatch(ctx, a, inv, info)
	switch {
	case err == nil, apperrors.IsSilent(err) && !apperrors.HasCode(err, apperrors.ErrInterrupted):
		return nil
	case apperrors.GetExitCode(err) == 1:
		fmt.Fprintln(a.ErrOut, apperrors.FormatError(err))
		return nil
	default:
		return err
	}
}
