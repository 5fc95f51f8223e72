package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/Tomas-vilte/MateReview/internal/domain/models"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newSetAgentsCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "set-agents",
		Usage:     t.GetMessage("config.set_agents_usage", 0, nil),
		ArgsUsage: "<kind,kind,...>",
		Action: func(ctx context.Context, command *cli.Command) error {
			raw := command.Args().First()
			if raw == "" {
				fmt.Println(t.GetMessage("config.available_agents", 0, nil))
				for _, kind := range models.AllAgentKinds() {
					fmt.Printf("- %s\n", kind)
				}
				msg := t.GetMessage("config.missing_agents", 0, nil)
				return fmt.Errorf("%s", msg)
			}

			var agents []string
			for _, part := range strings.Split(raw, ",") {
				name := strings.TrimSpace(part)
				if name == "" {
					continue
				}
				kind, ok := models.ParseAgentKind(name)
				if !ok {
					msg := t.GetMessage("config.invalid_agent", 0, map[string]interface{}{
						"Agent": name,
					})
					return fmt.Errorf("%s", msg)
				}
				agents = append(agents, string(kind))
			}
			if len(agents) == 0 {
				msg := t.GetMessage("config.missing_agents", 0, nil)
				return fmt.Errorf("%s", msg)
			}

			cfg.Review.EnabledAgents = agents
			if err := saveConfig(cfg, t); err != nil {
				return err
			}

			fmt.Println(t.GetMessage("config.agents_set", 0, map[string]interface{}{
				"Agents": strings.Join(agents, ", "),
			}))
			return nil
		},
	}
}
