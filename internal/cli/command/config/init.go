package config

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/Tomas-vilte/MateReview/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newInitCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: t.GetMessage("config.init_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			reader := bufio.NewReader(os.Stdin)
			return runInitWizard(reader, cfg, t)
		},
	}
}

func runInitWizard(reader *bufio.Reader, cfg *config.Config, t *i18n.Translations) error {
	fmt.Println(t.GetMessage("config.init_welcome", 0, nil))
	ui.PrintInfo(t.GetMessage("config.get_key_at", 0, nil))
	fmt.Println()

	if err := promptAPIKey(reader, cfg, t); err != nil {
		return err
	}
	if err := promptModel(reader, cfg, t); err != nil {
		return err
	}
	if err := promptLanguage(reader, cfg, t); err != nil {
		return err
	}
	if err := promptGitHubToken(reader, cfg, t); err != nil {
		return err
	}

	if err := saveConfig(cfg, t); err != nil {
		return err
	}

	ui.PrintSuccess(os.Stdout, t.GetMessage("config.init_done", 0, map[string]interface{}{
		"Path": cfg.PathFile,
	}))
	return nil
}

func promptAPIKey(reader *bufio.Reader, cfg *config.Config, t *i18n.Translations) error {
	fmt.Print(t.GetMessage("config.prompt_api_key", 0, nil))
	apiKey, err := readLine(reader)
	if err != nil {
		return err
	}
	if apiKey == "" {
		return nil
	}

	provider := string(config.AIGemini)
	if cfg.AIProviders == nil {
		cfg.AIProviders = make(map[string]config.AIProviderConfig)
	}
	entry := cfg.AIProviders[provider]
	entry.APIKey = apiKey
	if entry.Model == "" {
		entry.Model = config.DefaultModelForAI(config.AIGemini)
	}
	cfg.AIProviders[provider] = entry
	cfg.ActiveAI = config.AIGemini
	return nil
}

func promptModel(reader *bufio.Reader, cfg *config.Config, t *i18n.Translations) error {
	provider := string(config.AIGemini)
	def := string(config.DefaultModelForAI(config.AIGemini))
	if entry, ok := cfg.AIProviders[provider]; ok && entry.Model != "" {
		def = string(entry.Model)
	}

	fmt.Print(t.GetMessage("config.prompt_model", 0, map[string]interface{}{"Default": def}))
	model, err := readLine(reader)
	if err != nil {
		return err
	}
	if model == "" {
		model = def
	}
	if !config.IsModelSupported(config.AIGemini, config.Model(model)) {
		fmt.Println(t.GetMessage("config.invalid_model", 0, map[string]interface{}{
			"Model":    model,
			"Provider": provider,
		}))
		model = def
	}

	if cfg.AIProviders == nil {
		cfg.AIProviders = make(map[string]config.AIProviderConfig)
	}
	entry := cfg.AIProviders[provider]
	entry.Model = config.Model(model)
	cfg.AIProviders[provider] = entry
	return nil
}

func promptLanguage(reader *bufio.Reader, cfg *config.Config, t *i18n.Translations) error {
	current := cfg.Language
	if current == "" {
		current = config.LangEN
		cfg.Language = current
	}

	fmt.Print(t.GetMessage("config.prompt_language", 0, map[string]interface{}{"Current": current}))
	lang, err := readLine(reader)
	if err != nil {
		return err
	}
	if lang == "" {
		return nil
	}

	lang = strings.ToLower(lang)
	if lang != config.LangEN && lang != config.LangES {
		fmt.Println(t.GetMessage("config.invalid_language", 0, map[string]interface{}{"Lang": lang}))
		return nil
	}
	cfg.Language = lang
	return nil
}

func promptGitHubToken(reader *bufio.Reader, cfg *config.Config, t *i18n.Translations) error {
	fmt.Print(t.GetMessage("config.prompt_github_token", 0, nil))
	token, err := readLine(reader)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	if cfg.VCSConfigs == nil {
		cfg.VCSConfigs = make(map[string]config.VCSConfig)
	}
	entry, ok := cfg.VCSConfigs["github"]
	if !ok {
		entry = config.VCSConfig{Provider: "github"}
	}
	entry.Token = token
	cfg.VCSConfigs["github"] = entry
	cfg.ActiveVCS = "github"
	return nil
}

// readLine tolera EOF con contenido parcial, el caso de un stdin redirigido
// sin newline final.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("error reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
