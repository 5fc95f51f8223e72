package config

import (
	"context"
	"testing"

	"github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"
)

func TestSetVCSCommand(t *testing.T) {
	t.Run("should configure github and mark it active", func(t *testing.T) {
		// Arrange
		cfg, translations, tmpConfigPath := setupConfigTest(t)

		factory := NewConfigCommandFactory()
		cmd := factory.newSetVCSCommand(translations, cfg)

		app := &cli.Command{Commands: []*cli.Command{cmd}}
		ctx := context.Background()

		// Act
		err := app.Run(ctx, []string{
			"config", "set-vcs",
			"--token", "ghp_token_123",
			"--owner", "octo",
			"--repo", "widgets",
		})

		// Assert
		assert.NoError(t, err)
		loadedCfg, err := config.LoadConfig(tmpConfigPath)
		assert.NoError(t, err)
		assert.Equal(t, "github", loadedCfg.ActiveVCS)

		vcs := loadedCfg.VCSConfigs["github"]
		assert.Equal(t, "github", vcs.Provider)
		assert.Equal(t, "ghp_token_123", vcs.Token)
		assert.Equal(t, "octo", vcs.Owner)
		assert.Equal(t, "widgets", vcs.Repo)
	})

	t.Run("should keep existing fields when updating only the token", func(t *testing.T) {
		// Arrange
		cfg, translations, tmpConfigPath := setupConfigTest(t)
		cfg.VCSConfigs = map[string]config.VCSConfig{
			"github": {Provider: "github", Owner: "octo", Repo: "widgets", Token: "old"},
		}

		factory := NewConfigCommandFactory()
		cmd := factory.newSetVCSCommand(translations, cfg)

		app := &cli.Command{Commands: []*cli.Command{cmd}}
		ctx := context.Background()

		// Act
		err := app.Run(ctx, []string{"config", "set-vcs", "--token", "ghp_token_456"})

		// Assert
		assert.NoError(t, err)
		loadedCfg, err := config.LoadConfig(tmpConfigPath)
		assert.NoError(t, err)

		vcs := loadedCfg.VCSConfigs["github"]
		assert.Equal(t, "ghp_token_456", vcs.Token)
		assert.Equal(t, "octo", vcs.Owner)
		assert.Equal(t, "widgets", vcs.Repo)
	})

	t.Run("should report the repository when owner and repo are set", func(t *testing.T) {
		// Arrange
		cfg, translations, _ := setupConfigTest(t)

		factory := NewConfigCommandFactory()
		cmd := factory.newSetVCSCommand(translations, cfg)

		app := &cli.Command{Commands: []*cli.Command{cmd}}
		ctx := context.Background()

		// Act
		var err error
		output := captureOutput(t, func() {
			err = app.Run(ctx, []string{
				"config", "set-vcs", "--owner", "octo", "--repo", "widgets",
			})
		})

		// Assert
		assert.NoError(t, err)
		assert.Contains(t, output, "configured for octo/widgets")
	})
}
