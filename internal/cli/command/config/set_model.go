package config

import (
	"context"
	"fmt"

	"github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newSetAIModelCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "set-model",
		Usage:     t.GetMessage("config.set_model_usage", 0, nil),
		ArgsUsage: "<provider> <model>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() < 1 {
				fmt.Println(t.GetMessage("config.available_providers", 0, nil))
				for _, ai := range config.SupportedAIs() {
					fmt.Printf("- %s\n", ai)
				}
				msg := t.GetMessage("config.missing_provider", 0, nil)
				return fmt.Errorf("%s", msg)
			}

			provider := args.Get(0)
			model := args.Get(1)

			if !isSupportedAI(provider) {
				msg := t.GetMessage("config.invalid_provider", 0, map[string]interface{}{
					"Provider": provider,
				})
				return fmt.Errorf("%s", msg)
			}

			if model == "" {
				current := cfg.AIProviders[provider].Model
				if current == "" {
					fmt.Println(t.GetMessage("config.no_model", 0, map[string]interface{}{
						"Provider": provider,
					}))
				} else {
					fmt.Println(t.GetMessage("config.current_model", 0, map[string]interface{}{
						"Provider": provider,
						"Model":    string(current),
					}))
				}
				fmt.Println(t.GetMessage("config.available_models", 0, map[string]interface{}{
					"Provider": provider,
				}))
				for _, m := range config.ModelsForAI(config.AI(provider)) {
					fmt.Printf("- %s\n", m)
				}
				msg := t.GetMessage("config.missing_model", 0, nil)
				return fmt.Errorf("%s", msg)
			}

			if !config.IsModelSupported(config.AI(provider), config.Model(model)) {
				msg := t.GetMessage("config.invalid_model", 0, map[string]interface{}{
					"Model":    model,
					"Provider": provider,
				})
				return fmt.Errorf("%s", msg)
			}

			if cfg.AIProviders == nil {
				cfg.AIProviders = make(map[string]config.AIProviderConfig)
			}
			entry := cfg.AIProviders[provider]
			entry.Model = config.Model(model)
			cfg.AIProviders[provider] = entry

			if err := saveConfig(cfg, t); err != nil {
				return err
			}

			fmt.Println(t.GetMessage("config.model_set", 0, map[string]interface{}{
				"Provider": provider,
				"Model":    model,
			}))
			return nil
		},
	}
}
