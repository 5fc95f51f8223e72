package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/Tomas-vilte/MateReview/internal/domain/errors"
	"github.com/Tomas-vilte/MateReview/internal/domain/ports"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
)

// DefaultProvider es el proveedor VCS asumido cuando el config no fija uno.
const DefaultProvider = "github"

// VCSProviderFactory define la interfaz para crear clientes VCS
type VCSProviderFactory interface {
	// CreateClient crea un cliente VCS atado a un repo con las credenciales dadas
	CreateClient(ctx context.Context, owner, repo, token string, trans *i18n.Translations) (ports.VCSClient, error)

	// CreatePublisher crea el publisher de reviews para el mismo repo
	CreatePublisher(ctx context.Context, owner, repo, token string, trans *i18n.Translations) (ports.ReviewPublisher, error)

	// ValidateConfig valida la configuración para este proveedor
	ValidateConfig(cfg *config.VCSConfig) error

	// Name retorna el nombre del proveedor
	Name() string
}

// VCSProviderRegistry gestiona el registro de proveedores VCS
type VCSProviderRegistry struct {
	mu        sync.RWMutex
	factories map[string]VCSProviderFactory
}

// NewVCSProviderRegistry crea un nuevo registro de proveedores VCS
func NewVCSProviderRegistry() *VCSProviderRegistry {
	return &VCSProviderRegistry{
		factories: make(map[string]VCSProviderFactory),
	}
}

// Register registra un nuevo proveedor VCS
func (r *VCSProviderRegistry) Register(name string, factory VCSProviderFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("proveedor VCS '%s' ya esta registrado", name)
	}

	r.factories[name] = factory
	return nil
}

// Get obtiene un factory por nombre
func (r *VCSProviderRegistry) Get(name string) (VCSProviderFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[name]
	if !exists {
		return nil, errors.NewVCSProviderNotSupportedError(name)
	}

	return factory, nil
}

// List retorna la lista de proveedores registrados
func (r *VCSProviderRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]string, 0, len(r.factories))
	for name := range r.factories {
		providers = append(providers, name)
	}
	return providers
}

// IsRegistered verifica si un proveedor está registrado
func (r *VCSProviderRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[name]
	return exists
}

// CreateForRepo resuelve el proveedor activo del config, valida sus
// credenciales y crea cliente y publisher atados a owner/repo. Es el único
// camino de creación: la CLI lo usa con el repo de la referencia de PR y el
// server con el repo del evento de webhook.
func (r *VCSProviderRegistry) CreateForRepo(
	ctx context.Context,
	cfg *config.Config,
	trans *i18n.Translations,
	owner, repo string,
) (ports.VCSClient, ports.ReviewPublisher, error) {
	provider := activeProvider(cfg)

	vcsConfig, exists := cfg.VCSConfigs[provider]
	if !exists {
		return nil, nil, errors.NewVCSConfigNotFoundError(provider)
	}

	factory, err := r.Get(provider)
	if err != nil {
		return nil, nil, err
	}

	if err := factory.ValidateConfig(&vcsConfig); err != nil {
		return nil, nil, fmt.Errorf("configuracion VCS invalida para %s: %w", provider, err)
	}

	client, err := factory.CreateClient(ctx, owner, repo, vcsConfig.Token, trans)
	if err != nil {
		return nil, nil, err
	}

	publisher, err := factory.CreatePublisher(ctx, owner, repo, vcsConfig.Token, trans)
	if err != nil {
		return nil, nil, err
	}

	return client, publisher, nil
}

// ResolveRepo determina owner/repo cuando la referencia de PR no los trae:
// primero el default configurado para el proveedor activo, después el
// remote origin del checkout.
func ResolveRepo(cfg *config.Config, gitService ports.GitService) (string, string, error) {
	provider := activeProvider(cfg)
	if vcsConfig, ok := cfg.VCSConfigs[provider]; ok && vcsConfig.Owner != "" && vcsConfig.Repo != "" {
		return vcsConfig.Owner, vcsConfig.Repo, nil
	}

	if gitService != nil {
		owner, repo, _, err := gitService.GetRepoInfo()
		if err == nil && owner != "" && repo != "" {
			return owner, repo, nil
		}
	}

	return "", "", fmt.Errorf("no se pudo determinar el repositorio: configura owner/repo con 'config set-vcs' o usa una referencia owner/repo#n")
}

func activeProvider(cfg *config.Config) string {
	if cfg.ActiveVCS != "" {
		return cfg.ActiveVCS
	}
	return DefaultProvider
}
