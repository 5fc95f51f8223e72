package config

import (
	"context"
	"fmt"

	"github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newSetAIActiveCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "set-ai",
		Usage:     t.GetMessage("config.set_ai_usage", 0, nil),
		ArgsUsage: "<provider>",
		Action: func(ctx context.Context, command *cli.Command) error {
			provider := command.Args().First()
			if provider == "" {
				fmt.Println(t.GetMessage("config.available_providers", 0, nil))
				for _, ai := range config.SupportedAIs() {
					fmt.Printf("- %s\n", ai)
				}
				msg := t.GetMessage("config.missing_provider", 0, nil)
				return fmt.Errorf("%s", msg)
			}

			if !isSupportedAI(provider) {
				msg := t.GetMessage("config.invalid_provider", 0, map[string]interface{}{
					"Provider": provider,
				})
				return fmt.Errorf("%s", msg)
			}

			cfg.ActiveAI = config.AI(provider)
			if cfg.AIProviders == nil {
				cfg.AIProviders = make(map[string]config.AIProviderConfig)
			}
			if entry := cfg.AIProviders[provider]; entry.Model == "" {
				entry.Model = config.DefaultModelForAI(cfg.ActiveAI)
				cfg.AIProviders[provider] = entry
			}

			if err := saveConfig(cfg, t); err != nil {
				return err
			}

			fmt.Println(t.GetMessage("config.ai_set", 0, map[string]interface{}{
				"Provider": provider,
			}))
			return nil
		},
	}
}
