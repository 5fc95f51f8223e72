package github

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/Tomas-vilte/MateReview/internal/domain/models"
	"github.com/Tomas-vilte/MateReview/internal/domain/ports"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/Tomas-vilte/MateReview/internal/logger"
	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

var (
	_ ports.VCSClient       = (*GitHubClient)(nil)
	_ ports.ReviewPublisher = (*GitHubClient)(nil)
)

// PullRequestsService abstrae las operaciones de PR que usamos de go-github
// para poder mockearlas en los tests.
type PullRequestsService interface {
	Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error)
	GetRaw(ctx context.Context, owner, repo string, number int, opts github.RawOptions) (string, *github.Response, error)
	CreateReview(ctx context.Context, owner, repo string, number int, review *github.PullRequestReviewRequest) (*github.PullRequestReview, *github.Response, error)
}

// RepositoriesService abstrae la comparación de commits, usada como fallback
// cuando el endpoint de diff rechaza PRs gigantes.
type RepositoriesService interface {
	CompareCommits(ctx context.Context, owner, repo, base, head string, opts *github.ListOptions) (*github.CommitsComparison, *github.Response, error)
}

// GitHubClient implementa VCSClient y ReviewPublisher contra la API de
// GitHub. Un cliente queda atado a un repo (owner/repo); el server crea uno
// por evento de webhook vía la factory.
type GitHubClient struct {
	prService   PullRequestsService
	repoService RepositoriesService
	owner       string
	repo        string
	trans       *i18n.Translations
}

func NewGitHubClient(owner, repo, token string, trans *i18n.Translations) *GitHubClient {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	return &GitHubClient{
		prService:   client.PullRequests,
		repoService: client.Repositories,
		owner:       owner,
		repo:        repo,
		trans:       trans,
	}
}

func NewGitHubClientWithServices(
	prService PullRequestsService,
	repoService RepositoriesService,
	owner string,
	repo string,
	trans *i18n.Translations,
) *GitHubClient {
	return &GitHubClient{
		prService:   prService,
		repoService: repoService,
		owner:       owner,
		repo:        repo,
		trans:       trans,
	}
}

// GetPullRequestContext obtiene la metadata del PR que los agentes usan como
// contexto y que el publisher necesita para postear la review.
func (ghc *GitHubClient) GetPullRequestContext(ctx context.Context, prNumber int) (*models.PullRequestContext, error) {
	pr, _, err := ghc.prService.Get(ctx, ghc.owner, ghc.repo, prNumber)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ghc.trans.GetMessage("error.get_pr", 0, map[string]interface{}{"pr_number": prNumber}), err)
	}

	return &models.PullRequestContext{
		Owner:       ghc.owner,
		Repo:        ghc.repo,
		Number:      prNumber,
		Title:       pr.GetTitle(),
		Description: pr.GetBody(),
		Author:      pr.GetUser().GetLogin(),
		BaseSHA:     pr.GetBase().GetSHA(),
		HeadSHA:     pr.GetHead().GetSHA(),
	}, nil
}

// GetPullRequestDiff obtiene el diff unificado crudo del PR. Si el endpoint
// de diff responde 406 (PR demasiado grande) lo reconstruye comparando
// base..head, que pagina de a tandas de archivos.
func (ghc *GitHubClient) GetPullRequestDiff(ctx context.Context, prNumber int) (string, error) {
	diff, resp, err := ghc.prService.GetRaw(ctx, ghc.owner, ghc.repo, prNumber, github.RawOptions{Type: github.Diff})
	if err == nil {
		return diff, nil
	}

	if resp == nil || resp.StatusCode != http.StatusNotAcceptable {
		return "", fmt.Errorf("%s: %w", ghc.trans.GetMessage("error.get_diff", 0, map[string]interface{}{"pr_number": prNumber}), err)
	}

	logger.Warn(ctx, ghc.trans.GetMessage("warning.pr_too_large", 0, map[string]interface{}{"pr_number": prNumber}),
		"pr_number", prNumber)

	fallback, err := ghc.diffFromComparison(ctx, prNumber)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ghc.trans.GetMessage("error.get_diff_from_commits", 0, map[string]interface{}{"pr_number": prNumber}), err)
	}
	return fallback, nil
}

// diffFromComparison reconstruye el diff del PR comparando base..head y
// concatenando los patches por archivo en formato git unificado, que es lo
// que el parser del pipeline espera.
func (ghc *GitHubClient) diffFromComparison(ctx context.Context, prNumber int) (string, error) {
	pr, _, err := ghc.prService.Get(ctx, ghc.owner, ghc.repo, prNumber)
	if err != nil {
		return "", err
	}

	base := pr.GetBase().GetSHA()
	head := pr.GetHead().GetSHA()

	var files []*github.CommitFile
	opts := &github.ListOptions{PerPage: 100}
	for {
		comparison, resp, err := ghc.repoService.CompareCommits(ctx, ghc.owner, ghc.repo, base, head, opts)
		if err != nil {
			return "", err
		}
		files = append(files, comparison.Files...)

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return buildUnifiedDiff(files), nil
}

// buildUnifiedDiff arma un diff git válido desde los CommitFile de la API.
// Archivos sin patch (binarios o demasiado grandes) se omiten: no tienen
// líneas sobre las que un agente pueda comentar.
func buildUnifiedDiff(files []*github.CommitFile) string {
	var sb strings.Builder

	for _, file := range files {
		if file.GetPatch() == "" {
			continue
		}

		name := file.GetFilename()
		switch file.GetStatus() {
		case "added":
			fmt.Fprintf(&sb, "diff --git a/%s b/%s\n", name, name)
			sb.WriteString("new file mode 100644\n")
			fmt.Fprintf(&sb, "--- /dev/null\n+++ b/%s\n", name)
		case "removed":
			fmt.Fprintf(&sb, "diff --git a/%s b/%s\n", name, name)
			sb.WriteString("deleted file mode 100644\n")
			fmt.Fprintf(&sb, "--- a/%s\n+++ /dev/null\n", name)
		case "renamed":
			previous := file.GetPreviousFilename()
			fmt.Fprintf(&sb, "diff --git a/%s b/%s\n", previous, name)
			fmt.Fprintf(&sb, "rename from %s\nrename to %s\n", previous, name)
			fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", previous, name)
		default:
			fmt.Fprintf(&sb, "diff --git a/%s b/%s\n", name, name)
			fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", name, name)
		}

		sb.WriteString(file.GetPatch())
		if !strings.HasSuffix(file.GetPatch(), "\n") {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

var (
	prURLPattern   = regexp.MustCompile(`^https?://github\.com/([^/\s]+)/([^/\s]+)/pull/(\d+)`)
	prShortPattern = regexp.MustCompile(`^([^/\s#]+)/([^/\s#]+)#(\d+)$`)
)

// ParsePRRef acepta una URL de PR (https://github.com/owner/repo/pull/7) o
// la forma corta owner/repo#7 y extrae sus componentes.
func ParsePRRef(ref string) (owner, repo string, number int, ok bool) {
	trimmed := strings.TrimSpace(ref)

	matches := prURLPattern.FindStringSubmatch(trimmed)
	if matches == nil {
		matches = prShortPattern.FindStringSubmatch(trimmed)
	}
	if matches == nil {
		return "", "", 0, false
	}

	number, err := strconv.Atoi(matches[3])
	if err != nil || number <= 0 {
		return "", "", 0, false
	}
	return matches[1], matches[2], number, true
}
