package git

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Tomas-vilte/MateReview/internal/domain/ports"
)

var _ ports.GitService = (*GitService)(nil)

type GitService struct {
}

func NewGitService() *GitService {
	return &GitService{}
}

// HasStagedChanges verifica si hay cambios en el área de staging
func (s *GitService) HasStagedChanges() bool {
	cmd := exec.Command("git", "diff", "--cached", "--quiet")
	err := cmd.Run()

	// Si el comando retorna error (exit status 1), significa que hay cambios staged
	return err != nil && cmd.ProcessState.ExitCode() == 1
}

// GetStagedDiff retorna el diff unificado del área de staging. Solo entra lo
// staged: los cambios sin agregar y los archivos sin trackear quedan afuera,
// lo que se revisa es lo que va a entrar en el próximo commit.
func (s *GitService) GetStagedDiff() (string, error) {
	cmd := exec.Command("git", "diff", "--cached")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("error al obtener el diff staged: %w", err)
	}

	return string(output), nil
}

func (s *GitService) GetCurrentBranch() (string, error) {
	cmd := exec.Command("git", "branch", "--show-current")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("error al obtener el nombre de la branch: %v", err)
	}

	branchName := strings.TrimSpace(string(output))
	if branchName == "" {
		return "", fmt.Errorf("no se pudo detectar el nombre de la branch")
	}

	return branchName, nil
}

func (s *GitService) GetRepoInfo() (string, string, string, error) {
	cmd := exec.Command("git", "remote", "get-url", "origin")
	output, err := cmd.Output()
	if err != nil {
		return "", "", "", fmt.Errorf("error al obtener la URL del repositorio: %w", err)
	}

	url := strings.TrimSpace(string(output))
	return parseRepoURL(url)
}

func parseRepoURL(url string) (string, string, string, error) {
	sshRegex := regexp.MustCompile(`git@([^:]+):([^/]+)/(.+)\.git$`)
	httpsRegex := regexp.MustCompile(`https://([^/]+)/([^/]+)/(.+?)(?:\.git)?$`)

	var matches []string
	if sshRegex.MatchString(url) {
		matches = sshRegex.FindStringSubmatch(url)
	} else if httpsRegex.MatchString(url) {
		matches = httpsRegex.FindStringSubmatch(url)
	}

	if len(matches) >= 4 {
		provider := detectProvider(matches[1])
		repoName := strings.TrimSuffix(matches[3], ".git")
		return matches[2], repoName, provider, nil
	}

	return "", "", "", fmt.Errorf("no se pudo extraer el propietario y el repositorio de la URL: %s", url)
}

func detectProvider(host string) string {
	if strings.Contains(host, "github") {
		return "github"
	}
	if strings.Contains(host, "gitlab") {
		return "gitlab"
	}
	return "unknown"
}
