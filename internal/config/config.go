package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Tomas-vilte/MateReview/internal/domain/models"
)

type (
	Config struct {
		Language string `json:"language"`
		PathFile string `json:"path_file"`

		ActiveAI    AI                          `json:"active_ai"`
		AIProviders map[string]AIProviderConfig `json:"ai_providers"`
		// AgentModels pisa el routing automático para un agente puntual,
		// ej: {"security": "gemini-2.5-pro"}.
		AgentModels map[string]Model `json:"agent_models,omitempty"`
		// BudgetDailyUSD limita el gasto diario en USD; nil desactiva el
		// control de presupuesto.
		BudgetDailyUSD *float64 `json:"budget_daily_usd,omitempty"`

		ActiveVCS  string               `json:"active_vcs,omitempty"`
		VCSConfigs map[string]VCSConfig `json:"vcs_configs,omitempty"`

		Review ReviewConfig `json:"review"`
		Cache  CacheConfig  `json:"cache"`
		Server ServerConfig `json:"server"`
	}

	AIProviderConfig struct {
		APIKey      string  `json:"api_key"`
		Model       Model   `json:"model"`
		Temperature float32 `json:"temperature"`
		MaxTokens   int32   `json:"max_tokens"`
	}

	VCSConfig struct {
		Provider string `json:"provider"`
		Owner    string `json:"owner"`
		Repo     string `json:"repo"`
		Token    string `json:"token,omitempty"`
	}

	// ReviewConfig son los defaults del pipeline; los flags de la CLI o el
	// request del server los pisan por invocación.
	ReviewConfig struct {
		EnabledAgents      []string `json:"enabled_agents,omitempty"`
		ConcurrencyBudget  int      `json:"concurrency_budget"`
		TaskTimeoutSeconds int      `json:"task_timeout_seconds"`
		RunDeadlineSeconds int      `json:"run_deadline_seconds"`
		MaxRetries         int      `json:"max_retries"`
		RetryBaseDelayMs   int      `json:"retry_base_delay_ms"`
		RetryMaxDelayMs    int      `json:"retry_max_delay_ms"`
		MaxFiles           int      `json:"max_files"`
		MaxLines           int      `json:"max_lines"`
		SkipPatterns       []string `json:"skip_patterns,omitempty"`
		RequestsPerMinute  int      `json:"requests_per_minute"`
		TokensPerMinute    int      `json:"tokens_per_minute"`
	}

	CacheConfig struct {
		Enabled  bool `json:"enabled"`
		TTLHours int  `json:"ttl_hours"`
	}

	ServerConfig struct {
		Addr          string `json:"addr"`
		WebhookSecret string `json:"webhook_secret,omitempty"`
	}
)

const (
	defaultLang              = "en"
	defaultConcurrencyBudget = 5
	defaultTaskTimeoutSecs   = 120
	defaultRunDeadlineSecs   = 600
	defaultMaxRetries        = 3
	defaultRetryBaseDelayMs  = 1000
	defaultRetryMaxDelayMs   = 30000
	defaultMaxFiles          = 50
	defaultMaxLines          = 5000
	defaultRequestsPerMinute = 30
	defaultTokensPerMinute   = 500000
	defaultCacheTTLHours     = 24
	defaultServerAddr        = ":8080"
)

// defaultSkipPatterns excluye archivos generados que no aportan nada a la
// review y queman tokens: lockfiles, minificados, vendored y protobufs.
func defaultSkipPatterns() []string {
	return []string{
		"*.lock",
		"package-lock.json",
		"yarn.lock",
		"pnpm-lock.yaml",
		"go.sum",
		"*.min.js",
		"*.min.css",
		"*.pb.go",
		"vendor/*",
		"node_modules/*",
		"dist/*",
	}
}

func LoadConfig(path string) (*Config, error) {
	var configPath string

	if filepath.Ext(path) == ".json" {
		configPath = path
	} else {
		configDir := filepath.Join(path, ".mate-review")
		configPath = filepath.Join(configDir, "config.json")

		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			if err := os.MkdirAll(configDir, 0755); err != nil {
				return nil, fmt.Errorf("error al crear el directorio de configuración: %w", err)
			}
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error al leer el archivo de configuración: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error al decodificar el archivo JSON: %w", err)
	}
	config.PathFile = configPath

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("la configuración cargada no es válida: %w", err)
	}

	return &config, nil
}

func createDefaultConfig(path string) (*Config, error) {
	config := &Config{
		Language: defaultLang,
		PathFile: path,
		ActiveAI: AIGemini,
		AIProviders: map[string]AIProviderConfig{
			string(AIGemini): {
				APIKey:      "",
				Model:       ModelGeminiV25Flash,
				Temperature: 0.3,
				MaxTokens:   8192,
			},
		},
		VCSConfigs: map[string]VCSConfig{},
		Review: ReviewConfig{
			ConcurrencyBudget:  defaultConcurrencyBudget,
			TaskTimeoutSeconds: defaultTaskTimeoutSecs,
			RunDeadlineSeconds: defaultRunDeadlineSecs,
			MaxRetries:         defaultMaxRetries,
			RetryBaseDelayMs:   defaultRetryBaseDelayMs,
			RetryMaxDelayMs:    defaultRetryMaxDelayMs,
			MaxFiles:           defaultMaxFiles,
			MaxLines:           defaultMaxLines,
			SkipPatterns:       defaultSkipPatterns(),
			RequestsPerMinute:  defaultRequestsPerMinute,
			TokensPerMinute:    defaultTokensPerMinute,
		},
		Cache: CacheConfig{
			Enabled:  true,
			TTLHours: defaultCacheTTLHours,
		},
		Server: ServerConfig{
			Addr: defaultServerAddr,
		},
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error al crear el directorio de configuración: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error al codificar la configuración por defecto: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("error al guardar la configuración por defecto: %w", err)
	}

	return config, nil
}

func SaveConfig(config *Config) error {
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("la configuración a guardar no es válida: %w", err)
	}

	if config.PathFile == "" {
		return errors.New("la ruta del archivo de configuración no está definida")
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error al codificar la configuración: %w", err)
	}

	if err := os.WriteFile(config.PathFile, data, 0644); err != nil {
		return fmt.Errorf("error al guardar la configuración: %w", err)
	}

	return nil
}

func validateConfig(config *Config) error {
	if config.Language == "" {
		return errors.New("Language no puede estar vacío")
	}
	if config.Review.ConcurrencyBudget < 0 {
		return errors.New("ConcurrencyBudget no puede ser negativo")
	}
	if config.Review.MaxRetries < 0 {
		return errors.New("MaxRetries no puede ser negativo")
	}
	if config.Review.RetryBaseDelayMs > config.Review.RetryMaxDelayMs && config.Review.RetryMaxDelayMs > 0 {
		return errors.New("RetryBaseDelayMs no puede superar RetryMaxDelayMs")
	}
	for _, raw := range config.Review.EnabledAgents {
		if _, ok := models.ParseAgentKind(raw); !ok {
			return fmt.Errorf("agente no soportado: %s", raw)
		}
	}
	if config.ActiveVCS != "" {
		if _, ok := config.VCSConfigs[config.ActiveVCS]; !ok {
			return fmt.Errorf("VCS activo '%s' sin configuración", config.ActiveVCS)
		}
	}
	return nil
}

// ReviewOptions materializa los defaults del archivo como opciones de una
// corrida. Valores en cero caen a los defaults de instalación.
func (c *Config) ReviewOptions() models.ReviewOptions {
	review := c.Review

	opts := models.ReviewOptions{
		ConcurrencyBudget: orDefault(review.ConcurrencyBudget, defaultConcurrencyBudget),
		TaskTimeout:       time.Duration(orDefault(review.TaskTimeoutSeconds, defaultTaskTimeoutSecs)) * time.Second,
		RunDeadline:       time.Duration(orDefault(review.RunDeadlineSeconds, defaultRunDeadlineSecs)) * time.Second,
		MaxRetries:        review.MaxRetries,
		RetryBaseDelay:    time.Duration(orDefault(review.RetryBaseDelayMs, defaultRetryBaseDelayMs)) * time.Millisecond,
		RetryMaxDelay:     time.Duration(orDefault(review.RetryMaxDelayMs, defaultRetryMaxDelayMs)) * time.Millisecond,
		MaxFiles:          orDefault(review.MaxFiles, defaultMaxFiles),
		MaxLines:          orDefault(review.MaxLines, defaultMaxLines),
		SkipPatterns:      review.SkipPatterns,
	}
	if opts.SkipPatterns == nil {
		opts.SkipPatterns = defaultSkipPatterns()
	}

	for _, raw := range review.EnabledAgents {
		if kind, ok := models.ParseAgentKind(raw); ok {
			opts.Agents = append(opts.Agents, kind)
		}
	}

	return opts
}

func orDefault(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

// DailyBudget retorna el presupuesto diario configurado, 0 si no hay límite.
func (c *Config) DailyBudget() float64 {
	if c.BudgetDailyUSD == nil {
		return 0
	}
	return *c.BudgetDailyUSD
}
