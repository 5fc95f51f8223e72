package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Tomas-vilte/MateReview/internal/cli/completion_helper"
	"github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/Tomas-vilte/MateReview/internal/infrastructure/di"
	"github.com/Tomas-vilte/MateReview/internal/logger"
	"github.com/Tomas-vilte/MateReview/internal/server"
	"github.com/Tomas-vilte/MateReview/internal/ui"
	"github.com/urfave/cli/v3"
)

type ServeCommandFactory struct {
	container *di.Container
}

func NewServeCommandFactory(container *di.Container) *ServeCommandFactory {
	return &ServeCommandFactory{container: container}
}

func (c *ServeCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: t.GetMessage("serve_command_description", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "address to listen on (host:port)",
			},
			&cli.StringFlag{
				Name:  "webhook-secret",
				Usage: "shared secret for GitHub webhook signature validation",
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// En modo servidor los logs salen en JSON para que los ingiera
			// la plataforma.
			logger.InitializeServer(cmd.Bool("verbose"))

			if addr := cmd.String("addr"); addr != "" {
				cfg.Server.Addr = addr
			}
			if secret := cmd.String("webhook-secret"); secret != "" {
				cfg.Server.WebhookSecret = secret
			}

			srv := server.New(cfg, c.container.ReviewServicesFor)

			runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			ui.PrintInfo(t.GetMessage("serve.listening", 0, map[string]interface{}{
				"Addr": srv.Addr(),
			}))

			err := srv.Run(runCtx)
			ui.PrintInfo(t.GetMessage("serve.shutting_down", 0, nil))
			return err
		},
	}
}
