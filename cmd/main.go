package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Tomas-vilte/MateReview/internal/cli/command/config"
	"github.com/Tomas-vilte/MateReview/internal/cli/command/review"
	"github.com/Tomas-vilte/MateReview/internal/cli/command/serve"
	"github.com/Tomas-vilte/MateReview/internal/cli/command/stats"
	"github.com/Tomas-vilte/MateReview/internal/cli/registry"
	cfg "github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/Tomas-vilte/MateReview/internal/infrastructure/ai/gemini"
	"github.com/Tomas-vilte/MateReview/internal/infrastructure/di"
	"github.com/Tomas-vilte/MateReview/internal/infrastructure/git"
	"github.com/Tomas-vilte/MateReview/internal/infrastructure/vcs/github"
	"github.com/Tomas-vilte/MateReview/internal/logger"
	"github.com/Tomas-vilte/MateReview/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Error iniciando la cli: %v", err)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

type globalFlags struct {
	configPath string
	lang       string
	debug      bool
	verbose    bool
}

// parseGlobalFlags lee los flags globales antes de que la cli parsee los
// argumentos: el logger y la configuración se necesitan para construir los
// comandos.
func parseGlobalFlags(args []string) globalFlags {
	var flags globalFlags
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--debug":
			flags.debug = true
		case arg == "--verbose":
			flags.verbose = true
		case arg == "--config" && i+1 < len(args):
			i++
			flags.configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			flags.configPath = strings.TrimPrefix(arg, "--config=")
		case arg == "--lang" && i+1 < len(args):
			i++
			flags.lang = args[i]
		case strings.HasPrefix(arg, "--lang="):
			flags.lang = strings.TrimPrefix(arg, "--lang=")
		}
	}
	return flags
}

func initializeApp() (*cli.Command, error) {
	flags := parseGlobalFlags(os.Args[1:])

	logger.Initialize(flags.debug, flags.verbose)

	// Precedencia: --config, después MATE_REVIEW_CONFIG, después el home.
	configPath := flags.configPath
	if configPath == "" {
		configPath = os.Getenv("MATE_REVIEW_CONFIG")
	}
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("no se pudo obtener el directorio del usuario: %w", err)
		}
		configPath = homeDir
	}

	cfgApp, err := cfg.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	// --lang cambia el idioma solo para esta ejecución; no se persiste.
	runLanguage := cfgApp.Language
	if flags.lang != "" {
		runLanguage = flags.lang
	}
	runLanguage = cfg.GetLocaleConfig(runLanguage)

	translations, err := i18n.NewTranslations(runLanguage, "")
	if err != nil {
		log.Fatalf("Error al cargar las traducciones: %v", err)
	}

	if err := cfg.SaveConfig(cfgApp); err != nil {
		return nil, err
	}

	container := di.NewContainer(cfgApp, translations)

	if err := container.RegisterAIProvider("gemini", gemini.NewGeminiProviderFactory()); err != nil {
		log.Printf("Warning: no se pudo registrar el proveedor Gemini: %v", err)
	}

	if err := container.RegisterVCSProvider("github", github.NewGitHubProviderFactory()); err != nil {
		log.Printf("Warning: no se pudo registrar el proveedor de GitHub: %v", err)
	}

	gitService := git.NewGitService()
	container.SetGitService(gitService)

	registerCommand := registry.NewRegistry(cfgApp, translations)

	if err := registerCommand.Register("review", review.NewReviewCommandFactory(container)); err != nil {
		log.Fatalf("Error al registrar el comando 'review': %v", err)
	}

	if err := registerCommand.Register("serve", serve.NewServeCommandFactory(container)); err != nil {
		log.Fatalf("Error al registrar el comando 'serve': %v", err)
	}

	if err := registerCommand.Register("config", config.NewConfigCommandFactory()); err != nil {
		log.Fatalf("Error al registrar el comando 'config': %v", err)
	}

	if err := registerCommand.Register("stats", stats.NewStatsCommand()); err != nil {
		log.Fatalf("Error al registrar el comando 'stats': %v", err)
	}

	return &cli.Command{
		Name:        "mate-review",
		Usage:       translations.GetMessage("app_usage", 0, nil),
		Version:     version.Version,
		Description: translations.GetMessage("app_description", 0, nil),
		Commands:    registerCommand.CreateCommands(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to the configuration file",
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: "override the output language for this run (en, es)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable info logging",
			},
		},
		EnableShellCompletion: true,
	}, nil
}
