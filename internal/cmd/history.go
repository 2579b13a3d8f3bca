package cmd

import (
	"context"

	"github.com/howto-cli/howto/internal/app"
	apperrors "github.com/howto-cli/howto/internal/pkg/errors"
)

// runClearHistory empties the history. Trailing words are asked afterwards
// as a fresh question.
func runClearHistory(ctx context.Context, a *app.App, inv Invocation) error {
	if err := a.History.Clear(); err != nil {
		return err
	}
	a.UI.ShowInfo("Cleared history.")

	if inv.Text != "" {
		return runQuery(ctx, a, inv.Text)
	}
	return apperrors.NewInformational()
}

// runPrintHistory prints the stored history.
func runPrintHistory(a *app.App) error {
	entries, err := a.History.Load()
	if err != nil {
		return err
	}
	if err := a.UI.DisplayHistory(entries); err != nil {
		return apperrors.NewFileSystemError("failed to write history", err)
	}
	return apperrors.NewInformational()
}
