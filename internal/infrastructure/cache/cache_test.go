package cache

import (
	"encoding/json"
	"testing"
	"time"
)

type cachedFinding struct {
	Line     int    `json:"line"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

func TestCache_SetAndGet(t *testing.T) {
	// Arrange
	c, err := NewCacheAt(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("error creando cache: %v", err)
	}

	findings := []cachedFinding{
		{Line: 12, Severity: "warning", Message: "posible nil dereference"},
	}
	key := c.GenerateHash("gemini|gemini-2.5-flash|logic|diff-body")

	// Act
	if err := c.Set(key, findings); err != nil {
		t.Fatalf("error guardando en cache: %v", err)
	}
	raw, hit, err := c.Get(key)

	// Assert
	if err != nil {
		t.Fatalf("error leyendo cache: %v", err)
	}
	if !hit {
		t.Fatal("Get = miss, want hit")
	}

	var got []cachedFinding
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("error decodificando payload: %v", err)
	}
	if len(got) != 1 || got[0].Message != findings[0].Message {
		t.Errorf("payload = %+v, want %+v", got, findings)
	}
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	c, err := NewCacheAt(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("error creando cache: %v", err)
	}

	_, hit, err := c.Get(c.GenerateHash("nunca-guardado"))
	if err != nil {
		t.Fatalf("error leyendo cache: %v", err)
	}
	if hit {
		t.Error("Get = hit, want miss")
	}
}

func TestCache_ExpiredEntryIsAMiss(t *testing.T) {
	// Arrange: TTL negativo hace que toda entrada nazca vencida
	c, err := NewCacheAt(t.TempDir(), -time.Second)
	if err != nil {
		t.Fatalf("error creando cache: %v", err)
	}

	key := c.GenerateHash("scope-viejo")
	if err := c.Set(key, []cachedFinding{{Line: 1, Message: "x"}}); err != nil {
		t.Fatalf("error guardando en cache: %v", err)
	}

	// Act
	_, hit, err := c.Get(key)

	// Assert
	if err != nil {
		t.Fatalf("error leyendo cache: %v", err)
	}
	if hit {
		t.Error("entrada vencida devolvió hit, want miss")
	}
}

func TestCache_GenerateHashIsStable(t *testing.T) {
	c, err := NewCacheAt(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("error creando cache: %v", err)
	}

	a := c.GenerateHash("gemini|m|security|body")
	b := c.GenerateHash("gemini|m|security|body")
	other := c.GenerateHash("gemini|m|logic|body")

	if a != b {
		t.Errorf("mismo contenido produjo hashes distintos: %s vs %s", a, b)
	}
	if a == other {
		t.Error("contenidos distintos produjeron el mismo hash")
	}
}
