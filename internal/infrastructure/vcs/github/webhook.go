package github

import (
	"fmt"
	"net/http"

	"github.com/google/go-github/v80/github"
)

// actionableActions son las acciones de pull_request que disparan una
// review: apertura, push de commits nuevos y reapertura.
var actionableActions = map[string]struct{}{
	"opened":      {},
	"synchronize": {},
	"reopened":    {},
}

// PullRequestEvent es un evento de webhook ya validado y reducido a lo que
// el server necesita para encolar una review.
type PullRequestEvent struct {
	Action string
	Owner  string
	Repo   string
	Number int
	Sender string
}

// ParsePullRequestEvent valida la firma HMAC del webhook y decodifica el
// payload. Retorna nil sin error para eventos válidos pero no accionables
// (otros tipos de evento, acciones que no disparan review); el server los
// responde 200 y los ignora. Con secret vacío go-github saltea la
// validación de firma.
func ParsePullRequestEvent(r *http.Request, secret []byte) (*PullRequestEvent, error) {
	payload, err := github.ValidatePayload(r, secret)
	if err != nil {
		return nil, fmt.Errorf("firma del webhook inválida: %w", err)
	}

	event, err := github.ParseWebHook(github.WebHookType(r), payload)
	if err != nil {
		return nil, fmt.Errorf("payload del webhook inválido: %w", err)
	}

	prEvent, isPREvent := event.(*github.PullRequestEvent)
	if !isPREvent {
		return nil, nil
	}

	if _, actionable := actionableActions[prEvent.GetAction()]; !actionable {
		return nil, nil
	}

	repo := prEvent.GetRepo()
	return &PullRequestEvent{
		Action: prEvent.GetAction(),
		Owner:  repo.GetOwner().GetLogin(),
		Repo:   repo.GetName(),
		Number: prEvent.GetNumber(),
		Sender: prEvent.GetSender().GetLogin(),
	}, nil
}
