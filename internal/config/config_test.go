package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tomas-vilte/MateReview/internal/domain/models"
)

func TestLoadConfig(t *testing.T) {
	t.Run("debería crear configuración por defecto si no existe", func(t *testing.T) {
		tmpDir := t.TempDir()

		cfg, err := LoadConfig(tmpDir)
		if err != nil {
			t.Fatalf("no se esperaba error: %v", err)
		}

		if cfg.Language != "en" {
			t.Errorf("se esperaba idioma 'en', se obtuvo '%s'", cfg.Language)
		}
		if cfg.ActiveAI != AIGemini {
			t.Errorf("se esperaba gemini como AI activa, se obtuvo '%s'", cfg.ActiveAI)
		}
		if cfg.Review.ConcurrencyBudget != 5 {
			t.Errorf("se esperaba budget 5, se obtuvo %d", cfg.Review.ConcurrencyBudget)
		}

		if _, err := os.Stat(filepath.Join(tmpDir, ".mate-review", "config.json")); err != nil {
			t.Errorf("el archivo de configuración por defecto no fue creado: %v", err)
		}
	})

	t.Run("debería cargar configuración existente", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.json")

		cfg := &Config{
			Language: "es",
			ActiveAI: AIGemini,
			AIProviders: map[string]AIProviderConfig{
				"gemini": {APIKey: "test-key", Model: ModelGeminiV25Flash},
			},
			Review: ReviewConfig{ConcurrencyBudget: 3, MaxRetries: 2},
		}
		data, _ := json.MarshalIndent(cfg, "", "  ")
		if err := os.WriteFile(configPath, data, 0644); err != nil {
			t.Fatal(err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("no se esperaba error: %v", err)
		}
		if loaded.Language != "es" {
			t.Errorf("se esperaba idioma 'es', se obtuvo '%s'", loaded.Language)
		}
		if loaded.AIProviders["gemini"].APIKey != "test-key" {
			t.Error("la API key no se cargó correctamente")
		}
		if loaded.PathFile != configPath {
			t.Errorf("PathFile debería apuntar al archivo cargado, se obtuvo '%s'", loaded.PathFile)
		}
	})

	t.Run("debería manejar JSON malformado", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.json")

		if err := os.WriteFile(configPath, []byte("{no es json"), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("se esperaba un error por JSON malformado")
		}
	})

	t.Run("debería rechazar agentes desconocidos", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.json")

		cfg := &Config{
			Language: "en",
			Review:   ReviewConfig{EnabledAgents: []string{"astrology"}},
		}
		data, _ := json.MarshalIndent(cfg, "", "  ")
		if err := os.WriteFile(configPath, data, 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("se esperaba un error por agente no soportado")
		}
	})

	t.Run("debería rechazar VCS activo sin configuración", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.json")

		cfg := &Config{
			Language:  "en",
			ActiveVCS: "github",
		}
		data, _ := json.MarshalIndent(cfg, "", "  ")
		if err := os.WriteFile(configPath, data, 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("se esperaba un error por VCS activo sin config")
		}
	})
}

func TestSaveConfig(t *testing.T) {
	t.Run("debería guardar y recargar sin pérdida", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.json")

		cfg := &Config{
			Language: "es",
			PathFile: configPath,
			ActiveAI: AIGemini,
			AIProviders: map[string]AIProviderConfig{
				"gemini": {APIKey: "k", Model: ModelGeminiV25Pro, Temperature: 0.7, MaxTokens: 4096},
			},
			Review: ReviewConfig{ConcurrencyBudget: 8, MaxFiles: 10},
		}

		if err := SaveConfig(cfg); err != nil {
			t.Fatalf("no se esperaba error al guardar: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("no se esperaba error al recargar: %v", err)
		}
		if loaded.AIProviders["gemini"].Model != ModelGeminiV25Pro {
			t.Error("el modelo no sobrevivió el round-trip")
		}
		if loaded.Review.ConcurrencyBudget != 8 {
			t.Error("el budget no sobrevivió el round-trip")
		}
	})

	t.Run("debería fallar sin ruta definida", func(t *testing.T) {
		cfg := &Config{Language: "en"}

		if err := SaveConfig(cfg); err == nil {
			t.Error("se esperaba un error al guardar sin PathFile")
		}
	})
}

func TestReviewOptions(t *testing.T) {
	t.Run("valores en cero caen a defaults", func(t *testing.T) {
		cfg := &Config{Language: "en"}

		opts := cfg.ReviewOptions()

		if opts.ConcurrencyBudget != 5 {
			t.Errorf("se esperaba budget 5, se obtuvo %d", opts.ConcurrencyBudget)
		}
		if opts.TaskTimeout != 120*time.Second {
			t.Errorf("se esperaba timeout de 120s, se obtuvo %v", opts.TaskTimeout)
		}
		if opts.RetryBaseDelay != time.Second {
			t.Errorf("se esperaba base delay 1s, se obtuvo %v", opts.RetryBaseDelay)
		}
		if len(opts.SkipPatterns) == 0 {
			t.Error("se esperaban skip patterns por defecto")
		}
		if len(opts.EnabledAgents()) != 4 {
			t.Error("sin selección explícita deberían correr los cuatro agentes")
		}
	})

	t.Run("respeta agentes habilitados", func(t *testing.T) {
		cfg := &Config{
			Language: "en",
			Review:   ReviewConfig{EnabledAgents: []string{"security", "logic"}},
		}

		opts := cfg.ReviewOptions()

		if len(opts.Agents) != 2 {
			t.Fatalf("se esperaban 2 agentes, se obtuvieron %d", len(opts.Agents))
		}
		if opts.Agents[0] != models.AgentSecurity || opts.Agents[1] != models.AgentLogic {
			t.Errorf("agentes inesperados: %v", opts.Agents)
		}
	})
}
