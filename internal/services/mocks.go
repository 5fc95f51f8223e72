package services

import (
	"context"

	"github.com/Tomas-vilte/MateReview/internal/domain/models"
	"github.com/Tomas-vilte/MateReview/internal/domain/ports"
	"github.com/stretchr/testify/mock"
)

var (
	_ ports.DiffParser      = (*MockDiffParser)(nil)
	_ ports.AgentClient     = (*MockAgentClient)(nil)
	_ ports.VCSClient       = (*MockVCSClient)(nil)
	_ ports.ReviewPublisher = (*MockReviewPublisher)(nil)
	_ ports.GitService      = (*MockGitService)(nil)
	_ ports.ReviewService   = (*MockReviewService)(nil)
)

type (
	MockDiffParser struct {
		mock.Mock
	}

	MockAgentClient struct {
		mock.Mock
	}

	MockVCSClient struct {
		mock.Mock
	}

	MockReviewPublisher struct {
		mock.Mock
	}

	MockGitService struct {
		mock.Mock
	}

	MockReviewService struct {
		mock.Mock
	}
)

func (m *MockDiffParser) Parse(raw string) (*models.DiffModel, error) {
	args := m.Called(raw)
	var diff *models.DiffModel
	if args.Get(0) != nil {
		diff = args.Get(0).(*models.DiffModel)
	}
	return diff, args.Error(1)
}

func (m *MockAgentClient) Analyze(ctx context.Context, scope models.ReviewScope, kind models.AgentKind) ([]models.Finding, error) {
	args := m.Called(ctx, scope, kind)
	var findings []models.Finding
	if args.Get(0) != nil {
		findings = args.Get(0).([]models.Finding)
	}
	return findings, args.Error(1)
}

func (m *MockVCSClient) GetPullRequestContext(ctx context.Context, prNumber int) (*models.PullRequestContext, error) {
	args := m.Called(ctx, prNumber)
	var pr *models.PullRequestContext
	if args.Get(0) != nil {
		pr = args.Get(0).(*models.PullRequestContext)
	}
	return pr, args.Error(1)
}

func (m *MockVCSClient) GetPullRequestDiff(ctx context.Context, prNumber int) (string, error) {
	args := m.Called(ctx, prNumber)
	return args.String(0), args.Error(1)
}

func (m *MockReviewPublisher) PublishReview(ctx context.Context, pr *models.PullRequestContext, review *models.AggregatedReview) error {
	args := m.Called(ctx, pr, review)
	return args.Error(0)
}

func (m *MockGitService) HasStagedChanges() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockGitService) GetStagedDiff() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockGitService) GetCurrentBranch() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockGitService) GetRepoInfo() (string, string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.String(2), args.Error(3)
}

func (m *MockReviewService) ReviewDiff(ctx context.Context, rawDiff string, pr *models.PullRequestContext, opts models.ReviewOptions) (*models.AggregatedReview, error) {
	args := m.Called(ctx, rawDiff, pr, opts)
	var review *models.AggregatedReview
	if args.Get(0) != nil {
		review = args.Get(0).(*models.AggregatedReview)
	}
	return review, args.Error(1)
}

func (m *MockReviewService) ReviewPullRequest(ctx context.Context, prNumber int, opts models.ReviewOptions) (*models.AggregatedReview, *models.PullRequestContext, error) {
	args := m.Called(ctx, prNumber, opts)
	var review *models.AggregatedReview
	if args.Get(0) != nil {
		review = args.Get(0).(*models.AggregatedReview)
	}
	var pr *models.PullRequestContext
	if args.Get(1) != nil {
		pr = args.Get(1).(*models.PullRequestContext)
	}
	return review, pr, args.Error(2)
}
