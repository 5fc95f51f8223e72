package config

import (
	"bufio"
	"strings"
	"testing"

	"github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/stretchr/testify/assert"
)

func runInitWizardTest(t *testing.T, userInput string) (string, *config.Config, error) {
	t.Helper()

	cfg, translations, _ := setupConfigTest(t)

	var err error
	output := captureOutput(t, func() {
		reader := bufio.NewReader(strings.NewReader(userInput))
		err = runInitWizard(reader, cfg, translations)
	})

	return output, cfg, err
}

func TestInitWizard(t *testing.T) {
	t.Run("should configure every option from the answers", func(t *testing.T) {
		userInput := strings.Join([]string{
			"my-gemini-api-key-123",
			"gemini-2.5-pro",
			"es",
			"ghp_token_456",
		}, "\n") + "\n"

		output, cfg, err := runInitWizardTest(t, userInput)

		assert.NoError(t, err)
		assert.Contains(t, output, "Configuration initialized at")

		loaded, err := config.LoadConfig(cfg.PathFile)
		assert.NoError(t, err)
		assert.Equal(t, "my-gemini-api-key-123", loaded.AIProviders["gemini"].APIKey)
		assert.Equal(t, config.ModelGeminiV25Pro, loaded.AIProviders["gemini"].Model)
		assert.Equal(t, "es", loaded.Language)
		assert.Equal(t, "github", loaded.ActiveVCS)
		assert.Equal(t, "ghp_token_456", loaded.VCSConfigs["github"].Token)
	})

	t.Run("should keep defaults when every answer is blank", func(t *testing.T) {
		output, cfg, err := runInitWizardTest(t, "\n\n\n\n")

		assert.NoError(t, err)
		assert.Contains(t, output, "Configuration initialized at")

		loaded, err := config.LoadConfig(cfg.PathFile)
		assert.NoError(t, err)
		assert.Equal(t, "en", loaded.Language)
		assert.Equal(t, config.ModelGeminiV25Flash, loaded.AIProviders["gemini"].Model)
		assert.Empty(t, loaded.AIProviders["gemini"].APIKey)
		assert.Empty(t, loaded.ActiveVCS)
	})

	t.Run("should fall back to the default model on unsupported input", func(t *testing.T) {
		userInput := strings.Join([]string{
			"my-gemini-api-key-123",
			"gpt-9000",
			"",
			"",
		}, "\n") + "\n"

		output, cfg, err := runInitWizardTest(t, userInput)

		assert.NoError(t, err)
		assert.Contains(t, output, "is not supported by provider 'gemini'")

		loaded, err := config.LoadConfig(cfg.PathFile)
		assert.NoError(t, err)
		assert.Equal(t, config.ModelGeminiV25Flash, loaded.AIProviders["gemini"].Model)
	})

	t.Run("should warn about an unsupported language and keep the current one", func(t *testing.T) {
		userInput := "\n\nfr\n\n"

		output, cfg, err := runInitWizardTest(t, userInput)

		assert.NoError(t, err)
		assert.Contains(t, output, "is not supported (en, es)")

		loaded, err := config.LoadConfig(cfg.PathFile)
		assert.NoError(t, err)
		assert.Equal(t, "en", loaded.Language)
	})

	t.Run("should fail when the input ends before the wizard", func(t *testing.T) {
		_, _, err := runInitWizardTest(t, "my-gemini-api-key-123\n")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "error reading input")
	})
}
