// Package agent runs one conversational round of the list assistant:
// the user's text goes to the model together with the transcript and the
// list_control tool, and the reply is either executed or handed back as
// a clarifying question.
package agent

import (
	"context"
	"strings"

	"github.com/hammamikhairi/pantrypal/internal/dispatch"
	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/listtool"
	"github.com/hammamikhairi/pantrypal/internal/logger"
)

// Agent is stateless between calls; all context lives in the session
// passed to Submit.
type Agent struct {
	model      domain.Model
	dispatcher *dispatch.Dispatcher
	list       domain.ListStore
	log        *logger.Logger
	system     string
	tools      []domain.ToolSpec
}

// Option configures an Agent.
type Option func(*Agent)

// WithSystemPrompt replaces the standing instruction.
func WithSystemPrompt(p string) Option {
	return func(a *Agent) { a.system = p }
}

// New creates an agent. list is read on every Submit to show the model
// the owner's current items; it may be nil.
func New(model domain.Model, d *dispatch.Dispatcher, list domain.ListStore, log *logger.Logger, opts ...Option) *Agent {
	a := &Agent{
		model:      model,
		dispatcher: d,
		list:       list,
		log:        log,
		system:     PromptSystem,
		tools:      []domain.ToolSpec{listtool.Spec()},
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// ── Public API ───────────────────────────────────────────────────

// Submit appends text to session, makes exactly one model call, and
// acts on the reply. A second Submit on a session that is still busy
// fails with domain.ErrSessionBusy.
//
// On a partially applied create the outcome is a ToolInvoked carrying
// what was inserted, and the error reports the shortfall.
func (a *Agent) Submit(ctx context.Context, session *domain.ConversationSession, text string) (Outcome, error) {
	if session == nil {
		return nil, domain.Errorf(domain.KindValidation, "agent.submit", "no session")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.Errorf(domain.KindValidation, "agent.submit", "empty message")
	}
	if !session.Acquire() {
		return nil, domain.ErrSessionBusy
	}
	defer session.Release()

	log := a.log.With("session", session.ID, "owner", session.OwnerID)

	session.Append(domain.ConversationTurn{Role: domain.RoleUser, Text: text})

	reply, err := a.model.Converse(ctx, domain.ConverseRequest{
		System: a.systemPrompt(ctx, session.OwnerID),
		Turns:  session.Turns(),
		Tools:  a.tools,
	})
	if err == nil && (reply == nil || (len(reply.ToolCalls) == 0 && strings.TrimSpace(reply.Text) == "")) {
		err = domain.Errorf(domain.KindModel, "agent.submit", "empty response")
	}
	if err != nil {
		log.Error("Model call failed: %v", err)
		session.Append(domain.ConversationTurn{
			Role:   domain.RoleModel,
			Text:   "Error: " + domain.UserMessage(asModelError(err)),
			Failed: true,
		})
		return nil, asModelError(err)
	}

	if len(reply.ToolCalls) == 0 {
		question := strings.TrimSpace(reply.Text)
		session.Append(domain.ConversationTurn{Role: domain.RoleModel, Text: question})
		log.Debug("Model asked: %s", question)
		return NeedsClarification{Question: question}, nil
	}

	if len(reply.ToolCalls) > 1 {
		log.Warn("Model returned %d tool calls, using the first", len(reply.ToolCalls))
	}
	return a.invoke(ctx, session, reply.ToolCalls[0], log)
}

// invoke decodes and executes one tool call and records it in the transcript.
func (a *Agent) invoke(ctx context.Context, session *domain.ConversationSession, call domain.ToolCall, log *logger.Logger) (Outcome, error) {
	reject := func(err error) (Outcome, error) {
		log.Error("Tool call %s rejected: %v", call.Name, err)
		session.Append(domain.ConversationTurn{
			Role:     domain.RoleModel,
			Text:     "Failed: " + domain.UserMessage(err),
			ToolCall: &call,
			Failed:   true,
		})
		return nil, err
	}

	if call.Name != domain.ToolName {
		return reject(domain.Errorf(domain.KindContract, "agent.invoke", "unknown tool %q", call.Name))
	}

	req, err := listtool.Decode(call.Args)
	if err != nil {
		return reject(err)
	}

	log.Debug("Dispatching %s (id=%q ids=%v items=%d)", req.Action, req.ID, req.IDs, len(req.Items))
	res, err := a.dispatcher.Execute(ctx, session.OwnerID, req)
	summary := summarize(res, err)

	session.Append(domain.ConversationTurn{
		Role:     domain.RoleModel,
		Text:     summary,
		ToolCall: &call,
		Failed:   err != nil,
	})

	if err != nil {
		log.Error("Dispatch failed: %v", err)
		if res != nil && res.Action == domain.ActionCreate && len(res.Items) > 0 {
			return ToolInvoked{Call: call, Request: req, Result: res, Summary: summary}, err
		}
		return nil, err
	}

	log.Info("%s", summary)
	return ToolInvoked{Call: call, Request: req, Result: res, Summary: summary}, nil
}

// ── Context building ─────────────────────────────────────────────

func (a *Agent) systemPrompt(ctx context.Context, ownerID string) string {
	if a.list == nil {
		return a.system
	}
	items, err := a.list.ListByOwner(ctx, ownerID)
	if err != nil {
		a.log.Warn("Could not load list for prompt: %v", err)
		return a.system
	}
	return a.system + "\n\n[Current Shopping List]\n" + renderList(items)
}

// asModelError keeps typed errors as they are and classifies the rest
// as model failures.
func asModelError(err error) error {
	if domain.KindOf(err) != domain.KindUnknown {
		return err
	}
	return domain.WrapError(domain.KindModel, "agent.converse", err)
}
