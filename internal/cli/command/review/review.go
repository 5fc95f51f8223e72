package review

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Tomas-vilte/MateReview/internal/cli/completion_helper"
	"github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/Tomas-vilte/MateReview/internal/domain/models"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/Tomas-vilte/MateReview/internal/infrastructure/di"
	"github.com/Tomas-vilte/MateReview/internal/infrastructure/vcs/github"
	vcsregistry "github.com/Tomas-vilte/MateReview/internal/infrastructure/vcs/registry"
	"github.com/Tomas-vilte/MateReview/internal/services/routing"
	"github.com/Tomas-vilte/MateReview/internal/ui"
	"github.com/urfave/cli/v3"
)

const (
	formatText     = "text"
	formatJSON     = "json"
	formatMarkdown = "markdown"

	// Por debajo de este estimado en USD no se interrumpe con la
	// confirmación de costo.
	confirmThresholdUSD = 0.005

	// Salida esperada por tarea para la estimación previa.
	estimatedOutputTokens = 1024
)

type ReviewCommandFactory struct {
	container *di.Container
}

func NewReviewCommandFactory(container *di.Container) *ReviewCommandFactory {
	return &ReviewCommandFactory{container: container}
}

func (c *ReviewCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "review",
		Aliases:   []string{"r"},
		Usage:     t.GetMessage("review_command_description", 0, nil),
		ArgsUsage: "[pr-url | owner/repo#number | pr-number]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "staged",
				Aliases: []string{"s"},
				Usage:   "review the staged changes of the local checkout",
			},
			&cli.StringFlag{
				Name:    "diff",
				Aliases: []string{"d"},
				Usage:   "review a unified diff file, '-' reads from stdin",
			},
			&cli.BoolFlag{
				Name:    "publish",
				Aliases: []string{"p"},
				Usage:   "publish the findings as inline comments on the pull request",
			},
			&cli.StringFlag{
				Name:  "agents",
				Usage: "comma-separated agent kinds to run (security,logic,performance,readability)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   formatText,
				Usage:   "output format: text, json or markdown",
			},
			&cli.IntFlag{
				Name:  "max-files",
				Usage: "cap on files to review, bigger diffs get truncated",
			},
			&cli.IntFlag{
				Name:  "timeout",
				Usage: "run deadline in seconds for the whole review",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "skip the cost confirmation prompt",
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return c.run(ctx, cmd, t, cfg)
		},
	}
}

func (c *ReviewCommandFactory) run(ctx context.Context, cmd *cli.Command, t *i18n.Translations, cfg *config.Config) error {
	format := strings.ToLower(cmd.String("format"))
	if format != formatText && format != formatJSON && format != formatMarkdown {
		return fmt.Errorf("%s", t.GetMessage("review.invalid_format", 0, map[string]interface{}{
			"Format": cmd.String("format"),
		}))
	}

	opts, err := buildOptions(cmd, cfg, t)
	if err != nil {
		return err
	}

	ref := strings.TrimSpace(cmd.Args().First())
	switch {
	case cmd.String("diff") != "":
		rawDiff, err := readDiffFile(cmd.String("diff"), t)
		if err != nil {
			return err
		}
		return c.reviewLocal(ctx, cmd, t, cfg, opts, format, rawDiff)
	case cmd.Bool("staged") || ref == "":
		git := c.container.GetGitService()
		if git == nil || !git.HasStagedChanges() {
			ui.PrintWarning(t.GetMessage("review.no_staged_changes", 0, nil))
			return nil
		}
		rawDiff, err := git.GetStagedDiff()
		if err != nil {
			return fmt.Errorf("%s: %w", t.GetMessage("review.diff_read_failed", 0, map[string]interface{}{
				"Path": "the git index",
			}), err)
		}
		return c.reviewLocal(ctx, cmd, t, cfg, opts, format, rawDiff)
	default:
		return c.reviewPullRequest(ctx, cmd, t, cfg, opts, format, ref)
	}
}

// reviewLocal corre el pipeline sobre un diff que ya está en mano (staged o
// archivo); no hay VCS involucrado, así que no se puede publicar.
func (c *ReviewCommandFactory) reviewLocal(ctx context.Context, cmd *cli.Command, t *i18n.Translations, cfg *config.Config, opts models.ReviewOptions, format, rawDiff string) error {
	proceed, err := c.preflight(cmd, t, cfg, opts, rawDiff, format == formatText)
	if err != nil || !proceed {
		return err
	}

	service, err := c.container.GetLocalReviewService(ctx)
	if err != nil {
		ui.HandleReviewError(err, t)
		return err
	}

	spinner := startSpinner(format, t.GetMessage("analyzing_changes", 0, nil))
	review, err := service.ReviewDiff(ctx, rawDiff, nil, opts)
	if err != nil {
		failSpinner(spinner, t.GetMessage("review.failed", 0, nil))
		ui.HandleReviewError(err, t)
		return err
	}
	stopSpinner(spinner)

	return renderResult(os.Stdout, review, format, t)
}

func (c *ReviewCommandFactory) reviewPullRequest(ctx context.Context, cmd *cli.Command, t *i18n.Translations, cfg *config.Config, opts models.ReviewOptions, format, ref string) error {
	owner, repo, number, ok := github.ParsePRRef(ref)
	if !ok {
		n, convErr := strconv.Atoi(strings.TrimPrefix(ref, "#"))
		if convErr != nil || n <= 0 {
			return fmt.Errorf("%s", t.GetMessage("review.invalid_pr_ref", 0, map[string]interface{}{
				"Ref": ref,
			}))
		}
		number = n

		var err error
		owner, repo, err = vcsregistry.ResolveRepo(cfg, c.container.GetGitService())
		if err != nil {
			return err
		}
	}

	proceed, err := c.preflight(cmd, t, cfg, opts, "", format == formatText)
	if err != nil || !proceed {
		return err
	}

	service, publisher, err := c.container.ReviewServicesFor(ctx, owner, repo)
	if err != nil {
		ui.HandleReviewError(err, t)
		return err
	}

	spinner := startSpinner(format, t.GetMessage("review.fetching_pr", 0, map[string]interface{}{
		"Number": number,
		"Owner":  owner,
		"Repo":   repo,
	}))
	review, pr, err := service.ReviewPullRequest(ctx, number, opts)
	if err != nil {
		failSpinner(spinner, t.GetMessage("review.failed", 0, nil))
		ui.HandleReviewError(err, t)
		return err
	}
	stopSpinner(spinner)

	if err := renderResult(os.Stdout, review, format, t); err != nil {
		return err
	}

	if cmd.Bool("publish") {
		if err := publisher.PublishReview(ctx, pr, review); err != nil {
			ui.PrintError(os.Stdout, t.GetMessage("review.publish_failed", 0, nil))
			return err
		}
		ui.PrintSuccess(os.Stdout, t.GetMessage("review.published", 0, map[string]interface{}{
			"Number": number,
		}))
	}
	return nil
}

// preflight chequea el presupuesto diario y, con el diff en mano, estima el
// costo de la corrida y pide confirmación si supera el umbral. Con rawDiff
// vacío (PR remoto, el diff todavía no se bajó) solo valida el presupuesto.
// Retorna false sin error cuando el usuario cancela.
func (c *ReviewCommandFactory) preflight(cmd *cli.Command, t *i18n.Translations, cfg *config.Config, opts models.ReviewOptions, rawDiff string, interactive bool) (bool, error) {
	manager, err := c.container.GetCostManager()
	if err != nil {
		// Sin historial local no hay contra qué chequear; la review sigue.
		return true, nil
	}

	provider := string(cfg.ActiveAI)
	model := ""
	if providerCfg, ok := cfg.AIProviders[provider]; ok {
		model = string(providerCfg.Model)
	}

	tasks := len(opts.EnabledAgents())
	estimate := 0.0
	if rawDiff != "" {
		promptTokens := routing.EstimateTokens(rawDiff)
		perTask := make([]int, tasks)
		for i := range perTask {
			perTask[i] = promptTokens
		}
		estimate = c.container.GetCalculator().EstimateReviewCost(provider, model, perTask, estimatedOutputTokens)
	}

	status, err := manager.CheckBudget(estimate)
	if err != nil {
		return true, nil
	}
	if status.IsExceeded {
		return false, fmt.Errorf("%s", t.GetMessage("cost.budget_exceeded", 0, map[string]interface{}{
			"Today": fmt.Sprintf("$%.2f", status.TodayTotal),
			"Limit": fmt.Sprintf("$%.2f", status.Limit),
		}))
	}

	if !interactive {
		return true, nil
	}

	if status.IsWarning {
		ui.PrintWarning(t.GetMessage("cost.budget_warning", 0, map[string]interface{}{
			"Percent": fmt.Sprintf("%.0f", status.PercentUsed),
		}))
	}
	if estimate > 0 {
		ui.PrintInfo(t.GetMessage("cost.estimate", tasks, map[string]interface{}{
			"Cost":  fmt.Sprintf("$%.4f", estimate),
			"Tasks": tasks,
		}))
		if provider == string(config.AIGemini) {
			printRoutingHints(t, cfg, opts, routing.EstimateTokens(rawDiff), model)
		}
	}
	if estimate > confirmThresholdUSD && !cmd.Bool("yes") {
		if !ui.AskConfirmation(t.GetMessage("cost.confirmation_prompt", 0, nil)) {
			ui.PrintInfo(t.GetMessage("cost.cancelled", 0, nil))
			return false, nil
		}
	}
	return true, nil
}

// printRoutingHints anticipa qué tareas el routing va a desviar del modelo
// configurado y por qué. Los kinds pinneados en agent_models no se rutean.
func printRoutingHints(t *i18n.Translations, cfg *config.Config, opts models.ReviewOptions, promptTokens int, configuredModel string) {
	if configuredModel == "" {
		configuredModel = string(config.DefaultModelForAI(config.AIGemini))
	}

	selector := routing.NewModelSelector(nil)
	seen := make(map[string]bool)
	for _, kind := range opts.EnabledAgents() {
		if _, pinned := cfg.AgentModels[string(kind)]; pinned {
			continue
		}
		selected := selector.SelectModel(kind, promptTokens)
		if selected == configuredModel || seen[selected] {
			continue
		}
		seen[selected] = true
		ui.PrintInfo(t.GetMessage("cost.routing_suggestion", 0, map[string]interface{}{
			"Rationale": t.GetMessage(selector.GetRationale(selected), 0, nil),
		}))
	}
}

// buildOptions parte de los defaults del archivo de configuración y aplica
// los overrides de los flags.
func buildOptions(cmd *cli.Command, cfg *config.Config, t *i18n.Translations) (models.ReviewOptions, error) {
	opts := cfg.ReviewOptions()

	if raw := cmd.String("agents"); raw != "" {
		var agents []models.AgentKind
		for _, name := range strings.Split(raw, ",") {
			kind, ok := models.ParseAgentKind(name)
			if !ok {
				return models.ReviewOptions{}, fmt.Errorf("%s", t.GetMessage("config.invalid_agent", 0, map[string]interface{}{
					"Agent": strings.TrimSpace(name),
				}))
			}
			agents = append(agents, kind)
		}
		opts.Agents = agents
	}
	if maxFiles := int(cmd.Int("max-files")); maxFiles > 0 {
		opts.MaxFiles = maxFiles
	}
	if timeout := cmd.Int("timeout"); timeout > 0 {
		opts.RunDeadline = time.Duration(timeout) * time.Second
	}
	return opts, nil
}

func readDiffFile(path string, t *i18n.Translations) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", t.GetMessage("review.diff_read_failed", 0, map[string]interface{}{
			"Path": path,
		}), err)
	}
	return string(data), nil
}

// El spinner solo corre en formato text; json y markdown van a pipes y no
// toleran ruido en stdout.
func startSpinner(format, msg string) *ui.SmartSpinner {
	if format != formatText {
		return nil
	}
	spinner := ui.NewSmartSpinner(msg)
	spinner.Start()
	return spinner
}

func stopSpinner(spinner *ui.SmartSpinner) {
	if spinner != nil {
		spinner.Stop()
	}
}

func failSpinner(spinner *ui.SmartSpinner, msg string) {
	if spinner != nil {
		spinner.Error(msg)
	}
}
