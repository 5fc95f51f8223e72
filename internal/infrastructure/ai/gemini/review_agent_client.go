package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Tomas-vilte/MateReview/internal/config"
	domainErrors "github.com/Tomas-vilte/MateReview/internal/domain/errors"
	"github.com/Tomas-vilte/MateReview/internal/domain/models"
	"github.com/Tomas-vilte/MateReview/internal/domain/ports"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/Tomas-vilte/MateReview/internal/infrastructure/ai"
	"github.com/Tomas-vilte/MateReview/internal/infrastructure/cache"
	"github.com/Tomas-vilte/MateReview/internal/logger"
	"github.com/Tomas-vilte/MateReview/internal/services/cost"
	"github.com/Tomas-vilte/MateReview/internal/services/routing"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

var _ ports.AgentClient = (*ReviewAgentClient)(nil)

// ReviewAgentClient corre los agentes de análisis contra la API de Gemini.
// Una sola instancia sirve a todo el pipeline: el kind llega por llamada y
// el routing decide el modelo por tarea. Es segura para uso concurrente.
type ReviewAgentClient struct {
	*GeminiProvider
	providerCfg config.AIProviderConfig
	lang        string
	selector    *routing.ModelSelector
	calculator  *cost.Calculator
	store       *cache.Cache
	requests    *rate.Limiter
	tokens      *rate.Limiter
}

// NewReviewAgentClient crea el cliente de agentes de review respaldado por
// Gemini. El cache de respuestas es opcional: si no se puede crear, la
// review sigue sin él.
func NewReviewAgentClient(ctx context.Context, cfg *config.Config, trans *i18n.Translations) (*ReviewAgentClient, error) {
	providerCfg, exists := cfg.AIProviders[string(config.AIGemini)]
	if !exists || providerCfg.APIKey == "" {
		msg := trans.GetMessage("error_missing_api_key", 0, nil)
		return nil, fmt.Errorf("%s", msg)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  providerCfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		msg := trans.GetMessage("error_gemini_client", 0, map[string]interface{}{
			"Error": err,
		})
		return nil, fmt.Errorf("%s", msg)
	}

	model := string(providerCfg.Model)
	if model == "" {
		model = string(config.DefaultModelForAI(config.AIGemini))
	}

	c := &ReviewAgentClient{
		GeminiProvider: NewGeminiProvider(client, model),
		providerCfg:    providerCfg,
		lang:           cfg.Language,
		selector:       routing.NewModelSelector(agentOverrides(cfg)),
		calculator:     cost.NewCalculator(),
		requests:       requestLimiter(cfg.Review.RequestsPerMinute),
		tokens:         tokenLimiter(cfg.Review.TokensPerMinute),
	}

	if cfg.Cache.Enabled {
		ttlHours := cfg.Cache.TTLHours
		if ttlHours <= 0 {
			ttlHours = 24
		}
		store, err := cache.NewCache(time.Duration(ttlHours) * time.Hour)
		if err != nil {
			logger.Warn(ctx, "response cache unavailable, reviews will not be cached", "error", err)
		} else {
			c.store = store
		}
	}

	return c, nil
}

// Analyze implementa ports.AgentClient: arma el prompt del kind sobre el
// archivo del scope, resuelve el modelo por routing, reusa el cache cuando
// puede y clasifica toda falla del backend como BackendError transitorio o
// permanente. Los errores de contexto pasan intactos para que el
// orquestador los cuente como timeout del intento.
func (c *ReviewAgentClient) Analyze(ctx context.Context, scope models.ReviewScope, kind models.AgentKind) ([]models.Finding, error) {
	log := logger.FromContext(ctx)

	prompt := ai.BuildReviewPrompt(c.lang, scope, kind)
	estimated := routing.EstimateTokens(prompt)
	model := c.selector.SelectModel(kind, estimated)

	if findings, ok := c.fromCache(scope.File.Path, model, kind, prompt); ok {
		log.Debug("findings served from cache",
			"file", scope.File.Path,
			"kind", string(kind),
			"model", model)
		cost.TrackerFromContext(ctx).RecordCacheHit()
		return findings, nil
	}

	if err := c.waitQuota(ctx, estimated); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, domainErrors.NewTransientBackendError(domainErrors.BackendReasonRateLimit, err)
	}

	start := time.Now()
	resp, err := c.Client.Models.GenerateContent(ctx, model, genai.Text(prompt), c.generateConfig(model))
	if err != nil {
		return nil, classifyGenerateError(err)
	}
	c.recordUsage(ctx, resp, model, start)

	raw := responseText(resp)
	if strings.TrimSpace(raw) == "" {
		return nil, domainErrors.NewTransientBackendError(domainErrors.BackendReasonMalformed, errors.New("respuesta vacía del modelo"))
	}

	payloads, err := parseFindings(raw)
	if err != nil {
		return nil, domainErrors.NewTransientBackendError(domainErrors.BackendReasonMalformed, err)
	}

	findings := toFindings(scope.File.Path, kind, payloads)
	if dropped := len(payloads) - len(findings); dropped > 0 {
		log.Debug("dropped findings without a resolvable line",
			"file", scope.File.Path,
			"kind", string(kind),
			"dropped", dropped)
	}

	c.storeInCache(ctx, model, kind, prompt, payloads)

	log.Debug("analysis completed",
		"file", scope.File.Path,
		"kind", string(kind),
		"model", model,
		"findings", len(findings))

	return findings, nil
}

// waitQuota frena la llamada hasta que los buckets de requests y tokens
// tengan lugar. Nunca espera más allá del contexto del intento.
func (c *ReviewAgentClient) waitQuota(ctx context.Context, estimatedTokens int) error {
	if err := c.requests.Wait(ctx); err != nil {
		return err
	}

	n := estimatedTokens
	if burst := c.tokens.Burst(); n > burst && burst > 0 {
		n = burst
	}
	if n <= 0 {
		n = 1
	}
	return c.tokens.WaitN(ctx, n)
}

// recordUsage reporta el consumo de la llamada al tracker de la corrida.
// El costo se resuelve acá porque el tracker no conoce la tabla de precios.
func (c *ReviewAgentClient) recordUsage(ctx context.Context, resp *genai.GenerateContentResponse, model string, start time.Time) {
	usage := extractUsage(resp)
	if usage == nil {
		return
	}
	usage.Model = model
	usage.CostUSD = c.calculator.EstimateCost(c.GetProviderName(), model, usage.InputTokens, usage.OutputTokens)
	usage.DurationMs = time.Since(start).Milliseconds()
	cost.TrackerFromContext(ctx).Record(*usage)
}

func (c *ReviewAgentClient) cacheKey(model string, kind models.AgentKind, prompt string) string {
	return c.store.GenerateHash(fmt.Sprintf("%s|%s|%s|%s", c.GetProviderName(), model, kind, prompt))
}

// fromCache intenta resolver la llamada desde el cache de respuestas. El
// prompt ya encapsula archivo, kind y contrato, así que la clave cubre
// cualquier cambio de scope.
func (c *ReviewAgentClient) fromCache(path, model string, kind models.AgentKind, prompt string) ([]models.Finding, bool) {
	if c.store == nil {
		return nil, false
	}

	raw, hit, err := c.store.Get(c.cacheKey(model, kind, prompt))
	if err != nil || !hit {
		return nil, false
	}

	var payloads []findingPayload
	if err := json.Unmarshal(raw, &payloads); err != nil {
		return nil, false
	}

	return toFindings(path, kind, payloads), true
}

func (c *ReviewAgentClient) storeInCache(ctx context.Context, model string, kind models.AgentKind, prompt string, payloads []findingPayload) {
	if c.store == nil {
		return
	}
	if err := c.store.Set(c.cacheKey(model, kind, prompt), payloads); err != nil {
		logger.Debug(ctx, "could not store findings in cache", "error", err)
	}
}

// generateConfig arma la configuración de generación: JSON estricto,
// temperatura baja y thinking alto en los modelos que lo soportan.
func (c *ReviewAgentClient) generateConfig(model string) *genai.GenerateContentConfig {
	temperature := c.providerCfg.Temperature
	if temperature <= 0 {
		temperature = 0.3
	}
	maxTokens := c.providerCfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:      float32Ptr(temperature),
		MaxOutputTokens:  maxTokens,
		ResponseMIMEType: "application/json",
	}

	if strings.HasPrefix(model, "gemini-3") {
		genCfg.ThinkingConfig = &genai.ThinkingConfig{
			IncludeThoughts: true,
			ThinkingLevel:   genai.ThinkingLevelHigh,
		}
	}

	return genCfg
}

// classifyGenerateError traduce los errores del SDK a BackendError: 429 y
// 5xx son transitorios, 400/401/403 permanentes. Los errores de contexto
// pasan intactos.
func classifyGenerateError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return domainErrors.NewTransientBackendError(domainErrors.BackendReasonRateLimit, err)
		case apiErr.Code >= http.StatusInternalServerError:
			return domainErrors.NewTransientBackendError(domainErrors.BackendReasonOverloaded, err)
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return domainErrors.NewPermanentBackendError(domainErrors.BackendReasonAuth, err)
		case apiErr.Code >= http.StatusBadRequest:
			return domainErrors.NewPermanentBackendError(domainErrors.BackendReasonInvalidRequest, err)
		}
	}

	return domainErrors.NewTransientBackendError(domainErrors.BackendReasonNetwork, err)
}

// agentOverrides traduce los overrides de config al mapa que consume el
// selector de routing. Kinds desconocidos se ignoran: config los valida,
// pero un archivo editado a mano no tiene por qué romper la review.
func agentOverrides(cfg *config.Config) map[models.AgentKind]string {
	if len(cfg.AgentModels) == 0 {
		return nil
	}

	overrides := make(map[models.AgentKind]string, len(cfg.AgentModels))
	for raw, model := range cfg.AgentModels {
		if kind, ok := models.ParseAgentKind(raw); ok && model != "" {
			overrides[kind] = string(model)
		}
	}
	return overrides
}

// requestLimiter arma el bucket de requests por minuto. Sin límite
// configurado el bucket es infinito.
func requestLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm)
}

// tokenLimiter arma el bucket de tokens por minuto; el burst permite gastar
// el presupuesto de un minuto entero de una sola vez.
func tokenLimiter(tpm int) *rate.Limiter {
	if tpm <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(float64(tpm)/60.0), tpm)
}
