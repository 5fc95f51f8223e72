package stats

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/Tomas-vilte/MateReview/internal/services/cost"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestManager(t *testing.T, records []cost.ActivityRecord) *cost.Manager {
	t.Helper()

	t.Setenv("HOME", t.TempDir())

	manager, err := cost.NewManager(0)
	require.NoError(t, err, "no debería fallar al crear el manager de prueba")

	for _, record := range records {
		require.NoError(t, manager.SaveActivity(record), "no debería fallar al guardar actividad de prueba")
	}

	return manager
}

func setupTestTranslations(t *testing.T) *i18n.Translations {
	t.Helper()

	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err, "no debería fallar al crear traducciones de prueba")

	return trans
}

// captureStats redirige os.Stdout mientras corre fn y devuelve lo impreso.
func captureStats(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	color.NoColor = true

	original := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = original }()

	runErr := fn()

	require.NoError(t, w.Close())
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data), runErr
}

func TestNewStatsCommand(t *testing.T) {
	cmd := NewStatsCommand()

	assert.NotNil(t, cmd, "NewStatsCommand debería retornar una instancia no nula")
	assert.IsType(t, &StatsCommand{}, cmd)
}

func TestShowDailyStats_NoActivity(t *testing.T) {
	// Arrange
	manager := setupTestManager(t, nil)
	trans := setupTestTranslations(t)
	cmd := NewStatsCommand()

	// Act
	output, err := captureStats(t, func() error {
		return cmd.showDailyStats(manager, trans)
	})

	// Assert
	assert.NoError(t, err, "showDailyStats no debería retornar error con historial vacío")
	assert.Contains(t, output, "No reviews recorded", "debería indicar que no hay actividad")
	assert.Contains(t, output, "━", "debería contener el separador de la tabla")
}

func TestShowDailyStats_WithActivity(t *testing.T) {
	// Arrange
	now := time.Now()
	records := []cost.ActivityRecord{
		{
			Timestamp:    now,
			Command:      "review",
			Provider:     "gemini",
			Model:        "gemini-2.5-flash",
			TokensInput:  1200,
			TokensOutput: 300,
			CostUSD:      0.0015,
			DurationMs:   1500,
			Findings:     3,
		},
		{
			Timestamp:    now.Add(-1 * time.Hour),
			Command:      "review",
			Provider:     "gemini",
			Model:        "gemini-2.5-pro",
			TokensInput:  5400,
			TokensOutput: 900,
			CostUSD:      0.0085,
			DurationMs:   2300,
		},
		// Ayer: no debe aparecer en la vista diaria.
		{
			Timestamp: now.AddDate(0, 0, -1),
			Command:   "review",
			CostUSD:   0.0010,
		},
	}
	manager := setupTestManager(t, records)
	trans := setupTestTranslations(t)
	cmd := NewStatsCommand()

	// Act
	output, err := captureStats(t, func() error {
		return cmd.showDailyStats(manager, trans)
	})

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, output, "Today's reviews", "debería mostrar el título diario")
	assert.Contains(t, output, "$0.0015", "debería mostrar el costo de la primera corrida")
	assert.Contains(t, output, "$0.0085", "debería mostrar el costo de la segunda corrida")
	assert.Contains(t, output, "3 findings", "debería mostrar la cantidad de findings")
	assert.NotContains(t, output, "$0.0010", "no debería mostrar corridas de otros días")

	total, err := manager.GetDailyTotal()
	assert.NoError(t, err)
	assert.InDelta(t, 0.0100, total, 1e-9, "el total diario debería sumar solo las corridas de hoy")
}

func TestShowDailyStats_WithCacheHits(t *testing.T) {
	// Arrange
	now := time.Now()
	records := []cost.ActivityRecord{
		{
			Timestamp: now,
			Command:   "review",
			CostUSD:   0.0000,
			CacheHits: 4,
		},
		{
			Timestamp: now.Add(-30 * time.Minute),
			Command:   "review",
			CostUSD:   0.0015,
		},
	}
	manager := setupTestManager(t, records)
	trans := setupTestTranslations(t)
	cmd := NewStatsCommand()

	// Act
	output, err := captureStats(t, func() error {
		return cmd.showDailyStats(manager, trans)
	})

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, output, "[CACHE]", "debería marcar las corridas servidas desde el cache")
	assert.Contains(t, output, "$0.0000", "debería mostrar costo cero para la corrida cacheada")
}

func TestShowDailyStats_FormatsTime(t *testing.T) {
	// Arrange
	now := time.Now()
	specificTime := time.Date(now.Year(), now.Month(), now.Day(), 14, 30, 0, 0, time.Local)
	records := []cost.ActivityRecord{
		{Timestamp: specificTime, Command: "review", CostUSD: 0.0015},
	}
	manager := setupTestManager(t, records)
	trans := setupTestTranslations(t)
	cmd := NewStatsCommand()

	// Act
	output, err := captureStats(t, func() error {
		return cmd.showDailyStats(manager, trans)
	})

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, output, "14:30", "debería formatear la hora como HH:MM")
	assert.Contains(t, output, "review", "debería mostrar el comando")
}

func TestShowMonthlyStats_NoActivity(t *testing.T) {
	// Arrange
	manager := setupTestManager(t, nil)
	trans := setupTestTranslations(t)
	cmd := NewStatsCommand()

	// Act
	output, err := captureStats(t, func() error {
		return cmd.showMonthlyStats(manager, trans)
	})

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, output, "No reviews recorded", "debería indicar que no hay actividad")
}

func TestShowMonthlyStats_GroupsByDay(t *testing.T) {
	// Arrange
	now := time.Now()
	dayA := time.Date(now.Year(), now.Month(), 3, 9, 0, 0, 0, time.Local)
	dayB := time.Date(now.Year(), now.Month(), 4, 9, 0, 0, 0, time.Local)
	records := []cost.ActivityRecord{
		{Timestamp: dayA, Command: "review", CostUSD: 0.0015},
		{Timestamp: dayA.Add(5 * time.Hour), Command: "review", CostUSD: 0.0025},
		{Timestamp: dayB, Command: "review", CostUSD: 0.0010},
		// Hace 40 días: siempre cae en otro mes.
		{Timestamp: now.AddDate(0, 0, -40), Command: "review", CostUSD: 0.0050},
	}
	manager := setupTestManager(t, records)
	trans := setupTestTranslations(t)
	cmd := NewStatsCommand()

	// Act
	output, err := captureStats(t, func() error {
		return cmd.showMonthlyStats(manager, trans)
	})

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, output, "Reviews in", "debería mostrar el título mensual")
	assert.Contains(t, output, dayA.Format("2006-01-02"), "debería listar el primer día")
	assert.Contains(t, output, dayB.Format("2006-01-02"), "debería listar el segundo día")
	assert.Contains(t, output, "$0.0040", "debería agrupar los costos del primer día")
	assert.Contains(t, output, "$0.0010", "debería mostrar el total del segundo día")
	assert.NotContains(t, output, "$0.0050", "no debería incluir corridas de otros meses")
}

func TestShowDailyStats_HandlesCorruptHistory(t *testing.T) {
	// Arrange
	manager := setupTestManager(t, nil)
	trans := setupTestTranslations(t)
	cmd := NewStatsCommand()

	historyPath := filepath.Join(os.Getenv("HOME"), ".mate-review", "history.json")
	require.NoError(t, os.WriteFile(historyPath, []byte("invalid json{{{"), 0644))

	// Act
	_, err := captureStats(t, func() error {
		return cmd.showDailyStats(manager, trans)
	})

	// Assert
	assert.Error(t, err, "debería retornar error cuando el historial está corrupto")
}

func TestStatsCommand_CreateCommand(t *testing.T) {
	trans := setupTestTranslations(t)
	cmd := NewStatsCommand().CreateCommand(trans, nil)

	assert.Equal(t, "stats", cmd.Name)
	assert.Contains(t, cmd.Aliases, "cost")
	assert.NotNil(t, cmd.Action)
}
