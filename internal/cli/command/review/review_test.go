package review

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/Tomas-vilte/MateReview/internal/domain/models"
	"github.com/Tomas-vilte/MateReview/internal/domain/ports"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/Tomas-vilte/MateReview/internal/infrastructure/di"
	"github.com/Tomas-vilte/MateReview/internal/services"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

const sampleDiff = `diff --git a/internal/auth/token.go b/internal/auth/token.go
index 1111111..2222222 100644
--- a/internal/auth/token.go
+++ b/internal/auth/token.go
@@ -10,4 +10,5 @@
 func Validate(tok string) error {
-	if tok == "" {
+	if strings.TrimSpace(tok) == "" {
+		return ErrEmptyToken
 	}
 	return nil
`

type stubAgentClient struct {
	mu       sync.Mutex
	invoked  []models.AgentKind
	findings map[models.AgentKind][]models.Finding
}

func (c *stubAgentClient) Analyze(ctx context.Context, scope models.ReviewScope, kind models.AgentKind) ([]models.Finding, error) {
	c.mu.Lock()
	c.invoked = append(c.invoked, kind)
	c.mu.Unlock()
	return c.findings[kind], nil
}

func (c *stubAgentClient) invokedKinds() []models.AgentKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.AgentKind(nil), c.invoked...)
}

type stubAIFactory struct {
	client ports.AgentClient
}

func (f *stubAIFactory) CreateAgentClient(ctx context.Context, cfg *config.Config, trans *i18n.Translations) (ports.AgentClient, error) {
	return f.client, nil
}

func (f *stubAIFactory) ValidateConfig(cfg *config.Config) error { return nil }

func (f *stubAIFactory) Name() string { return "stub" }

type stubVCSFactory struct {
	client    ports.VCSClient
	publisher ports.ReviewPublisher
}

func (f *stubVCSFactory) CreateClient(ctx context.Context, owner, repo, token string, trans *i18n.Translations) (ports.VCSClient, error) {
	return f.client, nil
}

func (f *stubVCSFactory) CreatePublisher(ctx context.Context, owner, repo, token string, trans *i18n.Translations) (ports.ReviewPublisher, error) {
	return f.publisher, nil
}

func (f *stubVCSFactory) ValidateConfig(cfg *config.VCSConfig) error { return nil }

func (f *stubVCSFactory) Name() string { return "stub-vcs" }

func testConfig() *config.Config {
	return &config.Config{
		Language: "en",
		ActiveAI: config.AIGemini,
		AIProviders: map[string]config.AIProviderConfig{
			string(config.AIGemini): {APIKey: "test-key", Model: config.ModelGeminiV25Flash},
		},
		VCSConfigs: map[string]config.VCSConfig{
			"github": {Provider: "github", Token: "tok"},
		},
	}
}

func newReviewApp(t *testing.T, client ports.AgentClient, git ports.GitService, vcs *stubVCSFactory) *cli.Command {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	color.NoColor = true

	cfg := testConfig()
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	container := di.NewContainer(cfg, trans)
	require.NoError(t, container.RegisterAIProvider("gemini", &stubAIFactory{client: client}))
	if vcs != nil {
		require.NoError(t, container.RegisterVCSProvider("github", vcs))
	}
	if git != nil {
		container.SetGitService(git)
	}

	factory := NewReviewCommandFactory(container)
	return &cli.Command{Commands: []*cli.Command{factory.CreateCommand(trans, cfg)}}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	reader, writer, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = writer
	defer func() { os.Stdout = old }()

	fn()

	require.NoError(t, writer.Close())
	out, err := io.ReadAll(reader)
	require.NoError(t, err)
	return string(out)
}

func sampleFinding() models.Finding {
	return models.NewFinding(models.AgentSecurity, models.SeverityWarning,
		models.DiffPosition{Path: "internal/auth/token.go", Side: models.SideNew, Line: 12},
		"la validación no registra el intento fallido", "")
}

func TestReviewCommandValidation(t *testing.T) {
	t.Run("should reject an unsupported output format", func(t *testing.T) {
		app := newReviewApp(t, &stubAgentClient{}, nil, nil)

		err := app.Run(context.Background(), []string{"mate-review", "review", "--format", "yaml"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not a supported output format")
	})

	t.Run("should reject an unknown agent kind", func(t *testing.T) {
		app := newReviewApp(t, &stubAgentClient{}, nil, nil)

		err := app.Run(context.Background(), []string{"mate-review", "review", "--agents", "security,quantum"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not a valid agent kind")
	})

	t.Run("should reject a reference that is not a pull request", func(t *testing.T) {
		app := newReviewApp(t, &stubAgentClient{}, nil, nil)

		err := app.Run(context.Background(), []string{"mate-review", "review", "nonsense"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not a valid pull request reference")
	})

	t.Run("should fail when the diff file does not exist", func(t *testing.T) {
		app := newReviewApp(t, &stubAgentClient{}, nil, nil)
		missing := filepath.Join(t.TempDir(), "missing.diff")

		err := app.Run(context.Background(), []string{"mate-review", "review", "--diff", missing})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Could not read the diff")
	})
}

func TestReviewCommandDiffFile(t *testing.T) {
	writeDiffFile := func(t *testing.T) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "change.diff")
		require.NoError(t, os.WriteFile(path, []byte(sampleDiff), 0644))
		return path
	}

	t.Run("should review a diff file and emit parseable JSON", func(t *testing.T) {
		client := &stubAgentClient{findings: map[models.AgentKind][]models.Finding{
			models.AgentSecurity: {sampleFinding()},
		}}
		app := newReviewApp(t, client, nil, nil)
		diffPath := writeDiffFile(t)

		var runErr error
		out := captureStdout(t, func() {
			runErr = app.Run(context.Background(), []string{"mate-review", "review", "--diff", diffPath, "--format", "json", "--yes"})
		})
		require.NoError(t, runErr)

		var decoded reviewJSON
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		require.Len(t, decoded.Findings, 1)
		assert.Equal(t, "internal/auth/token.go", decoded.Findings[0].Path)
		assert.Equal(t, "new", decoded.Findings[0].Side)
		assert.Equal(t, 12, decoded.Findings[0].Line)
		assert.Equal(t, "warning", decoded.Findings[0].Severity)
		assert.Equal(t, []string{"security"}, decoded.Findings[0].Agents)
		assert.Equal(t, 1, decoded.Summary.TotalFindings)
		assert.Equal(t, 1, decoded.Summary.FilesReviewed)
	})

	t.Run("should render the markdown document", func(t *testing.T) {
		client := &stubAgentClient{findings: map[models.AgentKind][]models.Finding{
			models.AgentSecurity: {sampleFinding()},
		}}
		app := newReviewApp(t, client, nil, nil)
		diffPath := writeDiffFile(t)

		var runErr error
		out := captureStdout(t, func() {
			runErr = app.Run(context.Background(), []string{"mate-review", "review", "--diff", diffPath, "--format", "markdown", "--yes"})
		})
		require.NoError(t, runErr)

		assert.Contains(t, out, "### `internal/auth/token.go`")
		assert.Contains(t, out, "🟡 **L12** (new)")
		assert.Contains(t, out, "la validación no registra el intento fallido")
	})

	t.Run("should run only the selected agents", func(t *testing.T) {
		client := &stubAgentClient{}
		app := newReviewApp(t, client, nil, nil)
		diffPath := writeDiffFile(t)

		var runErr error
		captureStdout(t, func() {
			runErr = app.Run(context.Background(), []string{"mate-review", "review", "--diff", diffPath, "--agents", "security", "--format", "json", "--yes"})
		})
		require.NoError(t, runErr)

		assert.Equal(t, []models.AgentKind{models.AgentSecurity}, client.invokedKinds())
	})
}

func TestReviewCommandStaged(t *testing.T) {
	t.Run("should warn when there are no staged changes", func(t *testing.T) {
		git := new(services.MockGitService)
		git.On("HasStagedChanges").Return(false)
		app := newReviewApp(t, &stubAgentClient{}, git, nil)

		var runErr error
		out := captureStdout(t, func() {
			runErr = app.Run(context.Background(), []string{"mate-review", "review", "--staged"})
		})

		assert.NoError(t, runErr)
		assert.Contains(t, out, "No staged changes")
		git.AssertExpectations(t)
	})

	t.Run("should review the staged diff when present", func(t *testing.T) {
		git := new(services.MockGitService)
		git.On("HasStagedChanges").Return(true)
		git.On("GetStagedDiff").Return(sampleDiff, nil)
		client := &stubAgentClient{findings: map[models.AgentKind][]models.Finding{
			models.AgentSecurity: {sampleFinding()},
		}}
		app := newReviewApp(t, client, git, nil)

		var runErr error
		out := captureStdout(t, func() {
			runErr = app.Run(context.Background(), []string{"mate-review", "review", "--staged", "--format", "json", "--yes"})
		})
		require.NoError(t, runErr)

		var decoded reviewJSON
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, 1, decoded.Summary.TotalFindings)
		git.AssertExpectations(t)
	})
}

func TestReviewCommandPullRequest(t *testing.T) {
	pr := &models.PullRequestContext{Owner: "octo", Repo: "widgets", Number: 7, Title: "Harden token checks", HeadSHA: "abc123"}

	newPRApp := func(t *testing.T, publisher *services.MockReviewPublisher) (*cli.Command, *services.MockVCSClient) {
		t.Helper()
		vcsClient := new(services.MockVCSClient)
		vcsClient.On("GetPullRequestContext", mock.Anything, 7).Return(pr, nil)
		vcsClient.On("GetPullRequestDiff", mock.Anything, 7).Return(sampleDiff, nil)

		client := &stubAgentClient{findings: map[models.AgentKind][]models.Finding{
			models.AgentSecurity: {sampleFinding()},
		}}
		app := newReviewApp(t, client, nil, &stubVCSFactory{client: vcsClient, publisher: publisher})
		return app, vcsClient
	}

	t.Run("should review a pull request by short reference", func(t *testing.T) {
		publisher := new(services.MockReviewPublisher)
		app, vcsClient := newPRApp(t, publisher)

		var runErr error
		out := captureStdout(t, func() {
			runErr = app.Run(context.Background(), []string{"mate-review", "review", "octo/widgets#7", "--format", "json", "--yes"})
		})
		require.NoError(t, runErr)

		var decoded reviewJSON
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, 1, decoded.Summary.TotalFindings)
		vcsClient.AssertExpectations(t)
		assert.Empty(t, publisher.Calls)
	})

	t.Run("should publish the review when asked", func(t *testing.T) {
		publisher := new(services.MockReviewPublisher)
		publisher.On("PublishReview", mock.Anything, pr, mock.Anything).Return(nil)
		app, _ := newPRApp(t, publisher)

		var runErr error
		out := captureStdout(t, func() {
			runErr = app.Run(context.Background(), []string{"mate-review", "review", "octo/widgets#7", "--publish", "--format", "json", "--yes"})
		})
		require.NoError(t, runErr)

		assert.Contains(t, out, "Review published on pull request #7")
		publisher.AssertExpectations(t)
	})
}
