package config

import (
	"context"
	"fmt"

	"github.com/Tomas-vilte/MateReview/internal/cli/completion_helper"
	"github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newSetAPIKeyCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "set-api-key",
		Usage: t.GetMessage("config.set_api_key_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "key",
				Aliases:  []string{"k"},
				Usage:    "API key value",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   "AI provider that owns the key",
				Value:   string(config.AIGemini),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, command *cli.Command) error {
			apiKey := command.String("key")
			if len(apiKey) < 10 {
				msg := t.GetMessage("config.invalid_api_key", 0, nil)
				return fmt.Errorf("%s", msg)
			}

			provider := command.String("provider")
			if !isSupportedAI(provider) {
				msg := t.GetMessage("config.invalid_provider", 0, map[string]interface{}{
					"Provider": provider,
				})
				return fmt.Errorf("%s", msg)
			}

			if cfg.AIProviders == nil {
				cfg.AIProviders = make(map[string]config.AIProviderConfig)
			}
			entry := cfg.AIProviders[provider]
			entry.APIKey = apiKey
			if entry.Model == "" {
				entry.Model = config.DefaultModelForAI(config.AI(provider))
			}
			cfg.AIProviders[provider] = entry

			if err := saveConfig(cfg, t); err != nil {
				return err
			}

			fmt.Println(t.GetMessage("config.api_key_set", 0, map[string]interface{}{
				"Provider": provider,
			}))
			return nil
		},
	}
}
