package config

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/howto-cli/howto/internal/pkg/errors"
)

// genNonEmptyAlphaString generates non-empty alphabetic strings with length between min and max.
// This avoids the high discard rate of SuchThat filters.
func genNonEmptyAlphaString(minLen, maxLen int) gopter.Gen {
	return gen.IntRange(minLen, maxLen).FlatMap(func(length interface{}) gopter.Gen {
		n := length.(int)
		return gen.SliceOfN(n, gen.Rune()).Map(func(runes []rune) string {
			for i := range runes {
				runes[i] = 'a' + (runes[i] % 26)
			}
			return string(runes)
		})
	}, reflect.TypeOf(""))
}

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"HOWTO_PROVIDER_NAME",
		"HOWTO_PROVIDER_API_KEY",
		"OPENAI_HOWTO_TOKEN",
		"OPENAI_API_KEY",
		"HOWTO_PROVIDER_ENDPOINT",
		VerboseEnv,
	} {
		t.Setenv(name, "")
	}
}

func newTestManager(t *testing.T) *ViperManager {
	t.Helper()
	mgr, err := NewManager(t.TempDir())
	require.NoError(t, err)
	return mgr
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	mgr := newTestManager(t)

	cfg, err := mgr.Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "gpt-4o-mini", cfg.GetModel())
	assert.Equal(t, 6, cfg.GetHistoryLength())
	assert.Equal(t, "[User has not set any userinfo]", cfg.GetUserInfo())
	assert.Equal(t, "[The user has not set context]", cfg.GetProjectContext("/anywhere"))
	assert.NoFileExists(t, mgr.GetConfigPath(), "Load must not create the record")
}

func TestLoad_PartialFileFillsDefaults(t *testing.T) {
	mgr := newTestManager(t)
	content := "ai_model:\n  model: gpt-4o\n"
	require.NoError(t, os.WriteFile(mgr.GetConfigPath(), []byte(content), 0600))

	cfg, err := mgr.Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.GetModel())
	assert.Equal(t, DefaultHistoryLength, cfg.GetHistoryLength())
	assert.Equal(t, DefaultUserInfo, cfg.GetUserInfo())
	assert.Equal(t, DefaultProviderName, cfg.Provider.Name)
	assert.True(t, cfg.UI.Markdown)
}

func TestLoad_CorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "ai_model: [unclosed\n  model: x"},
		{"non-numeric history", "ai_model:\n  history: lots\n"},
		{"negative history", "ai_model:\n  history: -2\n"},
		{"project context not a list", "project_context: 42\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr := newTestManager(t)
			require.NoError(t, os.WriteFile(mgr.GetConfigPath(), []byte(tt.content), 0600))

			cfg, err := mgr.Load()
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrConfigCorruption), "got %v", err)
			assert.Equal(t, 2, apperrors.GetExitCode(err))
		})
	}
}

func TestLoad_SkipsProjectContextWithoutDirectory(t *testing.T) {
	clearProviderEnv(t)
	mgr := newTestManager(t)
	content := "project_context:\n  - directory: /a\n    context: rust\n  - context: orphan\n"
	require.NoError(t, os.WriteFile(mgr.GetConfigPath(), []byte(content), 0600))

	var logs bytes.Buffer
	apperrors.SetOutput(&logs)
	t.Cleanup(func() { apperrors.SetOutput(os.Stderr) })
	apperrors.SetVerbose(true)
	t.Cleanup(func() { apperrors.SetVerbose(false) })

	cfg, err := mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"/a": "rust"}, cfg.ProjectContext)
	assert.Contains(t, logs.String(), "level=warning")
	assert.Contains(t, logs.String(), "skipping project context")
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	clearProviderEnv(t)
	mgr := newTestManager(t)

	cfg := Default()
	cfg.SetModel("gpt-4o")
	require.NoError(t, cfg.SetHistoryLength("3"))
	cfg.SetUserInfo("Arch Linux, zsh\nprefers \"fish\" syntax: sometimes")
	cfg.SetProjectContext("/home/Dev/RustProject", "uses rust")
	cfg.SetProjectContext("/srv/app.v2", "python 3.12 # flask")
	cfg.AIModel.SystemPrompt = "Answer like a pirate."
	cfg.Provider.Name = "ollama"
	cfg.Provider.Endpoint = "http://localhost:11434"
	cfg.UI.Markdown = false

	require.NoError(t, mgr.Save(cfg))

	loaded, err := mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, "uses rust", loaded.GetProjectContext("/home/Dev/RustProject"))
}

func TestSave_FilePermissionsAndNoTempLeftovers(t *testing.T) {
	mgr := newTestManager(t)

	require.NoError(t, mgr.Save(Default()))

	info, err := os.Stat(mgr.GetConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(mgr.StateDir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".config-"), "temp file left behind: %s", e.Name())
	}
}

func TestSave_CreatesStateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".howto")
	mgr, err := NewManager(dir)
	require.NoError(t, err)

	require.NoError(t, mgr.Save(Default()))
	assert.FileExists(t, mgr.GetConfigPath())
	assert.Equal(t, filepath.Join(dir, DefaultHistoryFileName), mgr.GetHistoryPath())
}

func TestProjectContext_PerDirectory(t *testing.T) {
	mgr := newTestManager(t)

	cfg, err := mgr.Load()
	require.NoError(t, err)
	cfg.SetProjectContext("/a", "uses rust")
	require.NoError(t, mgr.Save(cfg))

	cfg, err = mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultProjectContext, cfg.GetProjectContext("/b"))
	assert.Equal(t, "uses rust", cfg.GetProjectContext("/a"))

	cfg.ClearProjectContext("/b")
	require.NoError(t, mgr.Save(cfg))
	cfg, err = mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, "uses rust", cfg.GetProjectContext("/a"), "clearing /b must leave /a alone")

	cfg.ClearProjectContext("/a")
	require.NoError(t, mgr.Save(cfg))
	cfg, err = mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultProjectContext, cfg.GetProjectContext("/a"))
	assert.Empty(t, cfg.ProjectContext)
}

func TestSave_DoesNotPersistEnvironment(t *testing.T) {
	clearProviderEnv(t)
	mgr := newTestManager(t)
	key := "sk-envonlyabcdefghijklmnopqrstuv"
	t.Setenv("OPENAI_HOWTO_TOKEN", key)
	t.Setenv("HOWTO_PROVIDER_NAME", "deepseek")

	cfg, err := mgr.Load()
	require.NoError(t, err)
	settings := mgr.ProviderSettings(cfg)
	assert.Equal(t, key, settings.APIKey)
	assert.Equal(t, "deepseek", settings.Name)

	require.NoError(t, mgr.Save(cfg))
	data, err := os.ReadFile(mgr.GetConfigPath())
	require.NoError(t, err)
	assert.NotContains(t, string(data), key)
	assert.NotContains(t, string(data), "deepseek")
}

func TestProviderSettings_Precedence(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		fileKey string
		wantKey string
	}{
		{"file only", nil, "sk-file", "sk-file"},
		{"legacy token beats file", map[string]string{"OPENAI_HOWTO_TOKEN": "sk-legacy"}, "sk-file", "sk-legacy"},
		{"openai key used when nothing else", map[string]string{"OPENAI_API_KEY": "sk-openai"}, "", "sk-openai"},
		{
			"howto key beats legacy token",
			map[string]string{"HOWTO_PROVIDER_API_KEY": "sk-howto", "OPENAI_HOWTO_TOKEN": "sk-legacy"},
			"",
			"sk-howto",
		},
		{
			"legacy token beats openai key",
			map[string]string{"OPENAI_HOWTO_TOKEN": "sk-legacy", "OPENAI_API_KEY": "sk-openai"},
			"",
			"sk-legacy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearProviderEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			mgr := newTestManager(t)
			cfg := Default()
			cfg.Provider.APIKey = tt.fileKey

			settings := mgr.ProviderSettings(cfg)
			assert.Equal(t, tt.wantKey, settings.APIKey)
			assert.Equal(t, DefaultTimeoutSeconds*time.Second, settings.Timeout)
		})
	}
}

func TestDefaultStateDir_HonorsEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(StateDirEnv, dir)

	got, err := DefaultStateDir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	mgr, err := NewManager("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultConfigFileName), mgr.GetConfigPath())
}

func TestVerboseFromEnv(t *testing.T) {
	t.Setenv(VerboseEnv, "true")
	assert.True(t, VerboseFromEnv())

	t.Setenv(VerboseEnv, "")
	assert.False(t, VerboseFromEnv())
}

// Property: saving a configuration and loading it back yields the same configuration.
func TestSaveLoadRoundTrip_Property(t *testing.T) {
	clearProviderEnv(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(42)

	properties := gopter.NewProperties(parameters)

	properties.Property("Load(Save(c)) == c", prop.ForAll(
		func(model string, history int, userInfo, dir, projectCtx string) bool {
			mgr, err := NewManager(t.TempDir())
			if err != nil {
				t.Logf("Failed to create manager: %v", err)
				return false
			}

			cfg := Default()
			cfg.SetModel(model)
			cfg.AIModel.History = history
			cfg.SetUserInfo(userInfo)
			cfg.SetProjectContext("/"+dir, projectCtx)

			if err := mgr.Save(cfg); err != nil {
				t.Logf("Failed to save config: %v", err)
				return false
			}

			loaded, err := mgr.Load()
			if err != nil {
				t.Logf("Failed to load config: %v", err)
				return false
			}

			return reflect.DeepEqual(cfg, loaded)
		},
		genNonEmptyAlphaString(3, 20),
		gen.IntRange(0, 500),
		genNonEmptyAlphaString(1, 60),
		genNonEmptyAlphaString(1, 12),
		genNonEmptyAlphaString(1, 40),
	))

	properties.TestingRun(t)
}
