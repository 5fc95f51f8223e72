package config

import (
	"context"
	"fmt"

	"github.com/Tomas-vilte/MateReview/internal/cli/completion_helper"
	"github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newSetVCSCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "set-vcs",
		Usage: t.GetMessage("config.set_vcs_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   "VCS provider to configure",
				Value:   "github",
			},
			&cli.StringFlag{
				Name:    "token",
				Aliases: []string{"t"},
				Usage:   "access token with pull request permissions",
			},
			&cli.StringFlag{
				Name:    "owner",
				Aliases: []string{"o"},
				Usage:   "repository owner or organization",
			},
			&cli.StringFlag{
				Name:    "repo",
				Aliases: []string{"r"},
				Usage:   "repository name",
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, command *cli.Command) error {
			provider := command.String("provider")

			if cfg.VCSConfigs == nil {
				cfg.VCSConfigs = make(map[string]config.VCSConfig)
			}
			vcsConfig, exists := cfg.VCSConfigs[provider]
			if !exists {
				vcsConfig = config.VCSConfig{Provider: provider}
			}

			if token := command.String("token"); token != "" {
				vcsConfig.Token = token
			}
			if owner := command.String("owner"); owner != "" {
				vcsConfig.Owner = owner
			}
			if repo := command.String("repo"); repo != "" {
				vcsConfig.Repo = repo
			}

			cfg.VCSConfigs[provider] = vcsConfig
			cfg.ActiveVCS = provider

			if err := saveConfig(cfg, t); err != nil {
				return err
			}

			if vcsConfig.Owner != "" && vcsConfig.Repo != "" {
				fmt.Println(t.GetMessage("config.vcs_set", 0, map[string]interface{}{
					"Provider": provider,
					"Owner":    vcsConfig.Owner,
					"Repo":     vcsConfig.Repo,
				}))
			} else {
				fmt.Println(t.GetMessage("config.vcs_token_set", 0, map[string]interface{}{
					"Provider": provider,
				}))
			}
			return nil
		},
	}
}
