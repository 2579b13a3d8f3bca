package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/howto-cli/howto/internal/pkg/config"
	"github.com/howto-cli/howto/internal/pkg/security"
)

// validateAPIKey returns the huh validator for provider keys.
func validateAPIKey(provider string) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return fmt.Errorf("api key cannot be empty")
		}
		return security.ValidateAPIKeyFormat(provider, s)
	}
}

// RunAPIKeySetup asks for a provider API key and stores it in the config record.
// The caller decides whether the terminal is interactive.
func RunAPIKeySetup(cfgMgr config.Manager, cfg *config.Config, out io.Writer) error {
	provider := cfg.Provider.Name
	if provider == "" {
		provider = config.DefaultProviderName
	}

	var apiKey string
	save := true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("No API key found").
				Description(fmt.Sprintf("howto needs a %s API key to answer questions.", provider)),
			huh.NewInput().
				Title("API Key").
				Description("Stored in "+cfgMgr.GetConfigPath()).
				Value(&apiKey).
				Password(true).
				Validate(validateAPIKey(provider)),
			huh.NewConfirm().
				Title("Save this key for future runs?").
				Value(&save),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Provider.APIKey = strings.TrimSpace(apiKey)
	if !save {
		return nil
	}
	if err := cfgMgr.Save(cfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "Configuration saved to %s\n", cfgMgr.GetConfigPath())
	return nil
}
