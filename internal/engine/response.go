package engine

import (
	"github.com/hammamikhairi/pantrypal/internal/domain"
)

// Status is the caller-facing outcome class.
type Status string

const (
	// StatusInvoked means the list was changed.
	StatusInvoked Status = "invoked"
	// StatusNeedsClarification means Message is a question for the user.
	StatusNeedsClarification Status = "needsClarification"
	// StatusReady means the recipe can be cooked as is.
	StatusReady Status = "ready"
	// StatusError means Message is a human-readable failure and Kind says why.
	StatusError Status = "error"
)

// Response is what SubmitCommand and ResolveShortfall hand back.
type Response struct {
	SessionID string
	Status    Status
	Message   string
	// Kind is set when Status is StatusError.
	Kind string
	// State is the flow state for ResolveShortfall, empty otherwise.
	State     string
	Shortfall []domain.MissingItem
}

func errorResponse(sessionID string, err error) Response {
	return Response{
		SessionID: sessionID,
		Status:    StatusError,
		Message:   domain.UserMessage(err),
		Kind:      domain.KindOf(err).String(),
	}
}
