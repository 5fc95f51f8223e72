package config

import (
	"context"
	"testing"

	"github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"
)

func TestSetAgentsCommand(t *testing.T) {
	t.Run("should persist the selected agent kinds", func(t *testing.T) {
		// Arrange
		cfg, translations, tmpConfigPath := setupConfigTest(t)

		factory := NewConfigCommandFactory()
		cmd := factory.newSetAgentsCommand(translations, cfg)

		app := &cli.Command{Commands: []*cli.Command{cmd}}
		ctx := context.Background()

		// Act
		err := app.Run(ctx, []string{"config", "set-agents", "security, logic"})

		// Assert
		assert.NoError(t, err)
		loadedCfg, err := config.LoadConfig(tmpConfigPath)
		assert.NoError(t, err)
		assert.Equal(t, []string{"security", "logic"}, loadedCfg.Review.EnabledAgents)
	})

	t.Run("should reject an unknown agent kind", func(t *testing.T) {
		// Arrange
		cfg, translations, _ := setupConfigTest(t)

		factory := NewConfigCommandFactory()
		cmd := factory.newSetAgentsCommand(translations, cfg)

		app := &cli.Command{Commands: []*cli.Command{cmd}}
		ctx := context.Background()

		// Act
		err := app.Run(ctx, []string{"config", "set-agents", "security,quantum"})

		// Assert
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not a valid agent kind")
	})

	t.Run("should list agent kinds when the argument is missing", func(t *testing.T) {
		// Arrange
		cfg, translations, _ := setupConfigTest(t)

		factory := NewConfigCommandFactory()
		cmd := factory.newSetAgentsCommand(translations, cfg)

		app := &cli.Command{Commands: []*cli.Command{cmd}}
		ctx := context.Background()

		// Act
		var err error
		output := captureOutput(t, func() {
			err = app.Run(ctx, []string{"config", "set-agents"})
		})

		// Assert
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least one agent kind")
		assert.Contains(t, output, "- security")
		assert.Contains(t, output, "- readability")
	})
}
