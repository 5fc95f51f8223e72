package config

import (
	"context"
	"fmt"

	"github.com/Tomas-vilte/MateReview/internal/cli/completion_helper"
	"github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newSetLangCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "set-lang",
		Usage: t.GetMessage("config.set_lang_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "lang",
				Aliases:  []string{"l"},
				Usage:    "interface language, en or es",
				Required: true,
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, command *cli.Command) error {
			lang := command.String("lang")
			if lang != config.LangEN && lang != config.LangES {
				msg := t.GetMessage("config.invalid_language", 0, map[string]interface{}{
					"Lang": lang,
				})
				return fmt.Errorf("%s", msg)
			}

			cfg.Language = lang
			if err := saveConfig(cfg, t); err != nil {
				return err
			}

			fmt.Println(t.GetMessage("config.language_set", 0, map[string]interface{}{
				"Lang": lang,
			}))
			return nil
		},
	}
}
