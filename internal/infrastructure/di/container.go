package di

import (
	"context"
	"fmt"
	"sync"

	"github.com/Tomas-vilte/MateReview/internal/config"
	domainErrors "github.com/Tomas-vilte/MateReview/internal/domain/errors"
	"github.com/Tomas-vilte/MateReview/internal/domain/models"
	"github.com/Tomas-vilte/MateReview/internal/domain/ports"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/Tomas-vilte/MateReview/internal/infrastructure/ai/registry"
	"github.com/Tomas-vilte/MateReview/internal/infrastructure/diff"
	vcsregistry "github.com/Tomas-vilte/MateReview/internal/infrastructure/vcs/registry"
	"github.com/Tomas-vilte/MateReview/internal/logger"
	"github.com/Tomas-vilte/MateReview/internal/services"
	"github.com/Tomas-vilte/MateReview/internal/services/cost"
)

// Container gestiona las dependencias de la aplicación
type Container struct {
	config       *config.Config
	translations *i18n.Translations

	// Registries
	aiRegistry  *registry.AIProviderRegistry
	vcsRegistry *vcsregistry.VCSProviderRegistry

	// Colaboradores compartidos, inicializados lazy. El mutex los protege
	// porque el server construye servicios desde varias goroutines.
	mu           sync.Mutex
	gitService   ports.GitService
	agentClients map[models.AgentKind]ports.AgentClient
	costManager  *cost.Manager
	calculator   *cost.Calculator
}

// NewContainer crea un nuevo contenedor de dependencias
func NewContainer(cfg *config.Config, trans *i18n.Translations) *Container {
	return &Container{
		config:       cfg,
		translations: trans,
		aiRegistry:   registry.NewAIProviderRegistry(),
		vcsRegistry:  vcsregistry.NewVCSProviderRegistry(),
	}
}

// RegisterAIProvider registra un proveedor de IA
func (c *Container) RegisterAIProvider(name string, factory registry.AIProviderFactory) error {
	return c.aiRegistry.Register(name, factory)
}

// RegisterVCSProvider registra un proveedor VCS
func (c *Container) RegisterVCSProvider(name string, factory vcsregistry.VCSProviderFactory) error {
	return c.vcsRegistry.Register(name, factory)
}

// SetGitService establece el servicio Git
func (c *Container) SetGitService(gitService ports.GitService) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gitService = gitService
}

// GetGitService retorna el servicio Git
func (c *Container) GetGitService() ports.GitService {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gitService
}

// GetAIRegistry retorna el registro de proveedores AI
func (c *Container) GetAIRegistry() *registry.AIProviderRegistry {
	return c.aiRegistry
}

// GetVCSRegistry retorna el registro de proveedores VCS
func (c *Container) GetVCSRegistry() *vcsregistry.VCSProviderRegistry {
	return c.vcsRegistry
}

// GetCostManager retorna el manager de historial y presupuesto (lazy initialization)
func (c *Container) GetCostManager() (*cost.Manager, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.costManager != nil {
		return c.costManager, nil
	}

	manager, err := cost.NewManager(c.config.DailyBudget())
	if err != nil {
		return nil, fmt.Errorf("error al crear el cost manager: %w", err)
	}
	c.costManager = manager
	return manager, nil
}

// GetCalculator retorna la calculadora de costos por proveedor y modelo
func (c *Container) GetCalculator() *cost.Calculator {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.calculator == nil {
		c.calculator = cost.NewCalculator()
	}
	return c.calculator
}

// getAgentClients crea el cliente de agentes del proveedor activo y lo mapea
// a todos los kinds soportados. El cliente es uno solo: el kind viaja en cada
// llamada a Analyze y el routing de modelos es por tarea.
func (c *Container) getAgentClients(ctx context.Context) (map[models.AgentKind]ports.AgentClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.agentClients != nil {
		return c.agentClients, nil
	}

	if c.config.ActiveAI == "" {
		return nil, fmt.Errorf("no hay IA activa configurada")
	}

	factory, err := c.aiRegistry.Get(string(c.config.ActiveAI))
	if err != nil {
		return nil, err
	}

	if err := factory.ValidateConfig(c.config); err != nil {
		return nil, domainErrors.NewAIProviderNotConfiguredError(factory.Name(), err.Error())
	}

	client, err := factory.CreateAgentClient(ctx, c.config, c.translations)
	if err != nil {
		return nil, fmt.Errorf("error al crear el cliente de agentes: %w", err)
	}

	clients := make(map[models.AgentKind]ports.AgentClient, len(models.AllAgentKinds()))
	for _, kind := range models.AllAgentKinds() {
		clients[kind] = client
	}
	c.agentClients = clients
	return clients, nil
}

func (c *Container) buildReviewService(ctx context.Context, vcsClient ports.VCSClient) (ports.ReviewService, error) {
	clients, err := c.getAgentClients(ctx)
	if err != nil {
		return nil, err
	}

	costManager, err := c.GetCostManager()
	if err != nil {
		logger.Warn(ctx, "activity history disabled", "error", err)
		costManager = nil
	}

	return services.NewReviewService(
		diff.NewParser(),
		clients,
		vcsClient,
		costManager,
		string(c.config.ActiveAI),
		c.translations,
	), nil
}

// ReviewServicesFor construye el servicio de review y el publisher atados a
// un repo puntual. Es la fábrica que consume el server de webhooks: cada
// evento puede nombrar un repo distinto.
func (c *Container) ReviewServicesFor(ctx context.Context, owner, repo string) (ports.ReviewService, ports.ReviewPublisher, error) {
	vcsClient, publisher, err := c.vcsRegistry.CreateForRepo(ctx, c.config, c.translations, owner, repo)
	if err != nil {
		return nil, nil, err
	}

	service, err := c.buildReviewService(ctx, vcsClient)
	if err != nil {
		return nil, nil, err
	}

	return service, publisher, nil
}

// GetReviewService resuelve el repo desde la config activa o el remote del
// checkout y construye el servicio atado a ese repo.
func (c *Container) GetReviewService(ctx context.Context) (ports.ReviewService, ports.ReviewPublisher, error) {
	owner, repo, err := vcsregistry.ResolveRepo(c.config, c.GetGitService())
	if err != nil {
		return nil, nil, err
	}
	return c.ReviewServicesFor(ctx, owner, repo)
}

// GetLocalReviewService construye el servicio sin cliente VCS, para revisar
// diffs locales (staged o archivo). ReviewPullRequest no está disponible.
func (c *Container) GetLocalReviewService(ctx context.Context) (ports.ReviewService, error) {
	return c.buildReviewService(ctx, nil)
}

// GetConfig retorna la configuración
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetTranslations retorna las traducciones
func (c *Container) GetTranslations() *i18n.Translations {
	return c.translations
}
