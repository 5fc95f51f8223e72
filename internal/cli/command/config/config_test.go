package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupConfigTest(t *testing.T) (*config.Config, *i18n.Translations, string) {
	t.Helper()

	tmpConfigPath := filepath.Join(t.TempDir(), "config.json")

	cfg := &config.Config{
		PathFile: tmpConfigPath,
		Language: "en",
		ActiveAI: config.AIGemini,
		AIProviders: map[string]config.AIProviderConfig{
			string(config.AIGemini): {Model: config.ModelGeminiV25Flash},
		},
	}

	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	return cfg, translations, tmpConfigPath
}

// captureOutput redirige os.Stdout mientras corre fn y devuelve lo impreso.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	color.NoColor = true

	original := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = original }()

	fn()

	require.NoError(t, w.Close())
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestConfigCommandFactory(t *testing.T) {
	t.Run("should expose every configuration subcommand", func(t *testing.T) {
		cfg, translations, _ := setupConfigTest(t)

		factory := NewConfigCommandFactory()
		cmd := factory.CreateCommand(translations, cfg)

		assert.Equal(t, "config", cmd.Name)
		assert.Contains(t, cmd.Aliases, "c")

		var names []string
		for _, sub := range cmd.Commands {
			names = append(names, sub.Name)
		}
		assert.ElementsMatch(t, []string{
			"init", "show", "edit", "set-api-key", "set-ai",
			"set-model", "set-vcs", "set-lang", "set-agents",
		}, names)
	})
}
