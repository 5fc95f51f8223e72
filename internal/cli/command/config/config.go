package config

import (
	"fmt"

	"github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/urfave/cli/v3"
)

// ConfigCommandFactory agrupa los subcomandos que mutan el archivo de
// configuración.
type ConfigCommandFactory struct{}

func NewConfigCommandFactory() *ConfigCommandFactory {
	return &ConfigCommandFactory{}
}

func (c *ConfigCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   t.GetMessage("config_command_description", 0, nil),
		Commands: []*cli.Command{
			c.newInitCommand(t, cfg),
			c.newShowCommand(t, cfg),
			c.newEditCommand(t, cfg),
			c.newSetAPIKeyCommand(t, cfg),
			c.newSetAIActiveCommand(t, cfg),
			c.newSetAIModelCommand(t, cfg),
			c.newSetVCSCommand(t, cfg),
			c.newSetLangCommand(t, cfg),
			c.newSetAgentsCommand(t, cfg),
		},
	}
}

// saveConfig persiste la configuración y traduce el error para la CLI.
func saveConfig(cfg *config.Config, t *i18n.Translations) error {
	if err := config.SaveConfig(cfg); err != nil {
		msg := t.GetMessage("config.save_failed", 0, map[string]interface{}{
			"Error": err.Error(),
		})
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func isSupportedAI(provider string) bool {
	for _, ai := range config.SupportedAIs() {
		if string(ai) == provider {
			return true
		}
	}
	return false
}
