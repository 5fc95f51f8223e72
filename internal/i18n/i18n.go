package i18n

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

type Translations struct {
	bundle   *i18n.Bundle
	localize *i18n.Localizer
}

// NewTranslations arma el bundle con los mensajes embebidos en inglés y
// superpone los archivos locales encontrados en localesPath (por defecto
// "locales"), ej: locales/active.es.toml.
func NewTranslations(defaultLang, localesPath string) (*Translations, error) {
	if defaultLang == "" {
		return nil, fmt.Errorf("default language cannot be empty")
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	bundle.MustParseMessageFileBytes([]byte(defaultMessages), "default.en.toml")

	if localesPath == "" {
		localesPath = "locales"
	}

	files, err := filepath.Glob(filepath.Join(localesPath, "active.*.toml"))
	if err != nil {
		return nil, fmt.Errorf("error reading locales: %w", err)
	}

	for _, file := range files {
		if _, err := bundle.LoadMessageFile(file); err != nil {
			return nil, fmt.Errorf("error loading locale file %s: %w", file, err)
		}
	}

	localize := i18n.NewLocalizer(bundle, defaultLang)

	return &Translations{
		bundle:   bundle,
		localize: localize,
	}, nil
}

func (t *Translations) SetLanguage(lang string) error {
	for _, tag := range t.bundle.LanguageTags() {
		if tag.String() == lang {
			t.localize = i18n.NewLocalizer(t.bundle, lang)
			return nil
		}
	}
	return fmt.Errorf("language '%s' not supported", lang)
}

func (t *Translations) GetMessage(messageID string, count int, templateData map[string]interface{}) string {
	localized, err := t.localize.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID: messageID,
		},
		PluralCount:  count,
		TemplateData: templateData,
	})
	if err != nil {
		return "Translation missing: " + messageID
	}
	return localized
}

var defaultMessages = `
	[app_usage]
	other = "AI code review for pull requests and local diffs"

	[app_description]
	other = "mate-review runs a team of specialized AI agents over a diff and reports the findings as review comments."

	[review_command_description]
	other = "Run the AI review pipeline over a pull request, a staged diff or a diff file"

	[serve_command_description]
	other = "Start the webhook server that reviews pull requests on GitHub events"

	[config_command_description]
	other = "Manage mate-review configuration"

	[factory_already_registered]
	other = "the command factory '{{.FactoryName}}' is already registered"

	[analyzing_changes]
	other = "Analyzing changes..."

	[review.no_staged_changes]
	other = "No staged changes to review.\nUse 'git add' to stage your changes first"

	[review.fetching_pr]
	other = "Fetching pull request #{{.Number}} from {{.Owner}}/{{.Repo}}..."

	[review.invalid_pr_ref]
	other = "'{{.Ref}}' is not a valid pull request reference (expected a PR URL or owner/repo#number)"

	[review.diff_read_failed]
	other = "Could not read the diff from {{.Path}}"

	[review.invalid_format]
	other = "'{{.Format}}' is not a supported output format (text, json, markdown)"

	[review.failed]
	other = "The review could not be completed"

	[review.no_findings]
	other = "No findings. The agents have nothing to report on this change"

	[review.findings_found]
	one = "{{.Count}} finding at {{.Positions}} positions"
	other = "{{.Count}} findings at {{.Positions}} positions"

	[review.summary_title]
	other = "Review summary"

	[review.failed_agents]
	other = "Agents with no coverage on this run:"

	[review.skipped_files]
	one = "{{.Count}} file skipped (filters or size caps)"
	other = "{{.Count}} files skipped (filters or size caps)"

	[review.risk_label]
	other = "Overall risk"

	[review.published]
	other = "Review published on pull request #{{.Number}}"

	[review.publish_failed]
	other = "The review could not be published"

	[error_missing_api_key]
	other = "No API key configured. Run 'mate-review config set-api-key <key>' first"

	[error_gemini_client]
	other = "Error creating the Gemini client: {{.Error}}"

	[error.no_vcs_client]
	other = "No VCS provider configured. Run 'mate-review config set-vcs github <token>' first"

	[error.get_pr]
	other = "Error fetching pull request #{{.pr_number}}"

	[error.get_diff]
	other = "Error fetching the diff of pull request #{{.pr_number}}"

	[error.get_diff_from_commits]
	other = "Error rebuilding the diff of pull request #{{.pr_number}} from the commit comparison"

	[warning.pr_too_large]
	other = "Pull request #{{.pr_number}} is too large for the diff endpoint, rebuilding from the commit comparison"

	[error.publish_review]
	other = "Error publishing the review on pull request #{{.pr_number}}"

	[publish.review_title]
	other = "## 🧉 MateReview — {{.Risk}} risk"

	[publish.findings_line]
	one = "**{{.Count}} finding** across {{.Files}} reviewed files"
	other = "**{{.Count}} findings** across {{.Files}} reviewed files"

	[publish.no_findings]
	other = "No findings. The agents have nothing to report on this change."

	[publish.failed_agents_title]
	other = "Some agents had no coverage on this run:"

	[publish.skipped_files_line]
	one = "{{.Count}} file was skipped by filters or size caps."
	other = "{{.Count}} files were skipped by filters or size caps."

	[publish.suggested_fix]
	other = "**Suggested fix:**"

	[error.insufficient_permissions]
	other = "Token has no permission to review PR #{{.pr_number}} on {{.owner}}/{{.repo}}"

	[error.token_scopes_help]
	other = "Check that your token has the 'repo' scope (classic) or pull request read/write permission (fine-grained)"

	[config.show_title]
	other = "Current configuration"

	[config.language_set]
	other = "Language updated to '{{.Lang}}'"

	[config.api_key_set]
	other = "API key saved for provider '{{.Provider}}'"

	[config.ai_set]
	other = "Active AI provider set to '{{.Provider}}'"

	[config.model_set]
	other = "Model for '{{.Provider}}' set to '{{.Model}}'"

	[config.vcs_set]
	other = "VCS '{{.Provider}}' configured for {{.Owner}}/{{.Repo}}"

	[config.agents_set]
	other = "Enabled agents: {{.Agents}}"

	[config.invalid_agent]
	other = "'{{.Agent}}' is not a valid agent kind (security, logic, performance, readability)"

	[config.invalid_model]
	other = "Model '{{.Model}}' is not supported by provider '{{.Provider}}'"

	[config.invalid_provider]
	other = "Provider '{{.Provider}}' is not supported"

	[config.init_done]
	other = "Configuration initialized at {{.Path}}"

	[config.invalid_language]
	other = "Language '{{.Lang}}' is not supported (en, es)"

	[config.save_failed]
	other = "Could not save the configuration: {{.Error}}"

	[config.init_usage]
	other = "Interactive setup for the AI provider, model and language"

	[config.show_usage]
	other = "Show the current configuration"

	[config.edit_usage]
	other = "Open the configuration file in $EDITOR"

	[config.set_api_key_usage]
	other = "Set the API key for an AI provider"

	[config.set_ai_usage]
	other = "Select the active AI provider"

	[config.set_model_usage]
	other = "Set the model used by an AI provider"

	[config.set_vcs_usage]
	other = "Configure a VCS provider token and repository"

	[config.set_lang_usage]
	other = "Set the interface language"

	[config.set_agents_usage]
	other = "Choose which review agents run by default"

	[config.available_providers]
	other = "Available AI providers:"

	[config.available_models]
	other = "Models supported by '{{.Provider}}':"

	[config.available_agents]
	other = "Available agent kinds:"

	[config.missing_provider]
	other = "Specify the AI provider"

	[config.missing_model]
	other = "Specify the model to use"

	[config.missing_agents]
	other = "Specify at least one agent kind, comma separated"

	[config.invalid_api_key]
	other = "The API key looks too short to be valid"

	[config.current_model]
	other = "Current model for '{{.Provider}}': {{.Model}}"

	[config.no_model]
	other = "No model configured for '{{.Provider}}'"

	[config.no_editor]
	other = "No editor found. Set the $EDITOR environment variable"

	[config.vcs_token_set]
	other = "VCS '{{.Provider}}' token updated"

	[config.init_welcome]
	other = "Let's set up mate-review. Press Enter to keep the value in brackets."

	[config.get_key_at]
	other = "Get a Gemini API key at https://aistudio.google.com/app/apikey"

	[config.prompt_api_key]
	other = "Gemini API key (blank to skip): "

	[config.prompt_model]
	other = "Model [{{.Default}}]: "

	[config.prompt_language]
	other = "Language, en or es [{{.Current}}]: "

	[config.prompt_github_token]
	other = "GitHub token for publishing reviews (blank to skip): "

	[config.show_language]
	other = "Language: {{.Lang}}"

	[config.show_active_ai]
	other = "Active AI: {{.Provider}} ({{.Model}})"

	[config.show_api_key_set]
	other = "API key ({{.Provider}}): configured"

	[config.show_api_key_missing]
	other = "API key ({{.Provider}}): not set, run 'mate-review config set-api-key'"

	[config.show_agents_all]
	other = "Agents: all (security, logic, performance, readability)"

	[config.show_agents]
	other = "Agents: {{.Agents}}"

	[config.show_budget]
	other = "Daily budget: ${{.Budget}}"

	[config.show_budget_none]
	other = "Daily budget: no limit"

	[config.show_vcs]
	other = "VCS '{{.Provider}}': {{.Target}} {{.TokenMark}}"

	[config.show_vcs_none]
	other = "VCS: not configured"

	[config.show_cache_on]
	other = "Cache: enabled (TTL {{.Hours}}h)"

	[config.show_cache_off]
	other = "Cache: disabled"

	[config.show_server]
	other = "Webhook server: {{.Addr}}"

	[config.show_path]
	other = "Config file: {{.Path}}"

	[serve.listening]
	other = "Webhook server listening on {{.Addr}}"

	[serve.shutting_down]
	other = "Shutting down..."

	[review.files_reviewed]
	one = "{{.Count}} file reviewed"
	other = "{{.Count}} files reviewed"

	[ui_error.try_suggestion]
	other = "💡 Try: "

	[ui.token_usage]
	other = "Token usage"

	[ui.input]
	other = "input"

	[ui.output]
	other = "output"

	[ui.total]
	other = "total"

	[ui.cost]
	other = "Estimated cost"

	[ui.duration]
	other = "Duration"

	[cost.cache_hit]
	one = "{{.Count}} response served from cache"
	other = "{{.Count}} responses served from cache"

	[cost.estimate]
	one = "Estimated cost for this review: {{.Cost}} ({{.Tasks}} agent call)"
	other = "Estimated cost for this review: {{.Cost}} ({{.Tasks}} agent calls)"

	[cost.budget_exceeded]
	other = "This run would exceed your daily budget: {{.Today}} spent of {{.Limit}}"

	[cost.budget_warning]
	other = "You have used {{.Percent}}% of your daily budget"

	[cost.confirmation_prompt]
	other = "Continue with this review?"

	[cost.cancelled]
	other = "Review cancelled"

	[cost.routing_suggestion]
	other = "Smart routing: {{.Rationale}}"

	[routing.reason_balance]
	other = "balanced cost and quality"

	[routing.reason_large]
	other = "large scope, routed to a model with a bigger effective context"

	[routing.reason_high_quality]
	other = "maximum scrutiny for security-sensitive analysis"

	[routing.reason_default]
	other = "default model for this provider"

	[stats.usage]
	other = "Show AI usage and cost history"

	[stats.monthly_flag]
	other = "Show the current month instead of today"

	[stats.error_init]
	other = "Could not open the activity history"

	[stats.daily_title]
	other = "Today's reviews"

	[stats.monthly_title]
	other = "Reviews in {{.Month}}"

	[stats.no_activity]
	other = "No reviews recorded for this period"

	[stats.total_today]
	other = "Total today"

	[stats.total_month]
	other = "Total this month"

	[stats.findings]
	one = "{{.Count}} finding"
	other = "{{.Count}} findings"
	`
