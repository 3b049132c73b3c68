package agent

import (
	"github.com/hammamikhairi/pantrypal/internal/dispatch"
	"github.com/hammamikhairi/pantrypal/internal/domain"
)

// Outcome is the result of one Submit: either the tool ran or the model
// needs more information. The set of implementations is closed.
type Outcome interface {
	outcome()
}

// ToolInvoked means the model called list_control and the dispatcher ran it.
type ToolInvoked struct {
	Call    domain.ToolCall
	Request domain.ActionRequest
	Result  *dispatch.Result
	// Summary is the sentence recorded in the transcript and shown to the user.
	Summary string
}

// NeedsClarification means the model answered in text. Question is shown verbatim.
type NeedsClarification struct {
	Question string
}

func (ToolInvoked) outcome()        {}
func (NeedsClarification) outcome() {}
