package cost

import (
	"context"
	"sync"

	"github.com/Tomas-vilte/MateReview/internal/domain/models"
)

type trackerKey struct{}

// Tracker acumula el uso de tokens de una corrida del pipeline. Los
// agentes corren en paralelo y reportan acá cada llamada al backend, así
// que el acumulador es el único estado compartido y va bajo mutex.
type Tracker struct {
	mu    sync.Mutex
	usage models.TokenUsage
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// WithTracker cuelga el tracker de la corrida en el contexto. El pipeline
// lo instala al inicio y los clientes de backend reportan contra él sin
// conocer quién lo creó.
func WithTracker(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// TrackerFromContext recupera el tracker de la corrida. Retorna nil si no
// hay ninguno; los métodos del Tracker toleran el receptor nil para que
// una llamada fuera de un pipeline no registre nada.
func TrackerFromContext(ctx context.Context) *Tracker {
	if t, ok := ctx.Value(trackerKey{}).(*Tracker); ok {
		return t
	}
	return nil
}

// Record suma el uso de una llamada al total de la corrida.
func (t *Tracker) Record(usage models.TokenUsage) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.usage.Add(usage)
}

// RecordCacheHit registra una respuesta servida desde el cache local,
// que no consume tokens ni factura.
func (t *Tracker) RecordCacheHit() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.usage.CacheHits++
}

// Snapshot retorna el total acumulado hasta el momento.
func (t *Tracker) Snapshot() models.TokenUsage {
	if t == nil {
		return models.TokenUsage{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.usage
}

// Reset limpia el acumulador para la próxima corrida.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.usage = models.TokenUsage{}
}
