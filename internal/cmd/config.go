package cmd

import (
	"fmt"

	"github.com/howto-cli/howto/internal/app"
	"github.com/howto-cli/howto/internal/pkg/ai"
	apperrors "github.com/howto-cli/howto/internal/pkg/errors"
)

// runModel prints the current model, or validates and stores a new one.
func runModel(a *app.App, inv Invocation) error {
	if !inv.HasArg {
		a.UI.ShowInfo(fmt.Sprintf("Current model is: '%s'", a.Config.GetModel()))
		return apperrors.NewInformational()
	}

	provider := a.ConfigMgr.ProviderSettings(a.Config).Name
	if err := ai.ValidateModel(provider, inv.Arg); err != nil {
		return err
	}

	a.Config.SetModel(inv.Arg)
	if err := a.SaveConfig(); err != nil {
		return err
	}
	a.UI.ShowInfo(fmt.Sprintf("Model set to: '%s'", a.Config.GetModel()))
	return apperrors.NewInformational()
}

// runHistoryLength prints the history length, or validates and stores a new one.
func runHistoryLength(a *app.App, inv Invocation) error {
	if !inv.HasArg {
		a.UI.ShowInfo(fmt.Sprintf("History length is: %d", a.Config.GetHistoryLength()))
		return apperrors.NewInformational()
	}

	if err := a.Config.SetHistoryLength(inv.Arg); err != nil {
		return err
	}
	if err := a.SaveConfig(); err != nil {
		return err
	}
	a.UI.ShowInfo(fmt.Sprintf("History length set to: %d", a.Config.GetHistoryLength()))
	return apperrors.NewInformational()
}

// runUserInfo prints the user info, or replaces it with the remaining text.
func runUserInfo(a *app.App, inv Invocation) error {
	if inv.Text == "" {
		a.UI.ShowInfo(fmt.Sprintf("Current userinfo is:\n%s", a.Config.GetUserInfo()))
		return apperrors.NewInformational()
	}

	a.Config.SetUserInfo(inv.Text)
	if err := a.SaveConfig(); err != nil {
		return err
	}
	a.UI.ShowInfo(fmt.Sprintf("Set userinfo to:\n%s", a.Config.GetUserInfo()))
	return apperrors.NewInformational()
}

func runClearUserInfo(a *app.App) error {
	a.Config.ClearUserInfo()
	if err := a.SaveConfig(); err != nil {
		return err
	}
	a.UI.ShowInfo("Cleared userinfo.")
	return apperrors.NewInformational()
}

// runProjectContext prints or sets the context of the working directory.
func runProjectContext(a *app.App, inv Invocation) error {
	if inv.Text == "" {
		a.UI.ShowInfo(fmt.Sprintf("CWD context is:\n%s", a.Config.GetProjectContext(a.WorkDir)))
		return apperrors.NewInformational()
	}

	a.Config.SetProjectContext(a.WorkDir, inv.Text)
	if err := a.SaveConfig(); err != nil {
		return err
	}
	a.UI.ShowInfo(fmt.Sprintf("Set CWD context to:\n%s", a.Config.GetProjectContext(a.WorkDir)))
	return apperrors.NewInformational()
}

func runClearProjectContext(a *app.App) error {
	a.Config.ClearProjectContext(a.WorkDir)
	if err := a.SaveConfig(); err != nil {
		return err
	}
	a.UI.ShowInfo("Cleared project context.")
	return apperrors.NewInformational()
}
