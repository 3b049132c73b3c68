// Package engine is the caller-facing service of the pantry assistant.
// It owns the conversation registry and the active recipe flows and
// wires the agent, dispatcher and matcher together.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hammamikhairi/pantrypal/internal/agent"
	"github.com/hammamikhairi/pantrypal/internal/dispatch"
	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/flow"
	"github.com/hammamikhairi/pantrypal/internal/logger"
	"github.com/hammamikhairi/pantrypal/internal/matcher"
)

// Stores groups the persistence dependencies of the engine.
type Stores struct {
	List     domain.ListStore
	Pantry   domain.PantryStore
	Recipes  domain.RecipeSource
	Sessions domain.ConversationStore
}

// Option configures the engine.
type Option func(*Engine)

// WithMaxRounds caps clarification rounds in recipe flows.
func WithMaxRounds(n int) Option {
	return func(e *Engine) { e.maxRounds = n }
}

// WithMatcherOptions passes options through to the ingredient matcher.
func WithMatcherOptions(opts ...matcher.Option) Option {
	return func(e *Engine) { e.matcherOpts = append(e.matcherOpts, opts...) }
}

// WithDispatcherOptions passes options through to the dispatcher.
func WithDispatcherOptions(opts ...dispatch.Option) Option {
	return func(e *Engine) { e.dispatchOpts = append(e.dispatchOpts, opts...) }
}

// Engine depends only on interfaces and is fully testable with fakes.
type Engine struct {
	stores     Stores
	dispatcher *dispatch.Dispatcher
	agent      *agent.Agent
	matcher    *matcher.Matcher
	log        *logger.Logger

	maxRounds    int
	matcherOpts  []matcher.Option
	dispatchOpts []dispatch.Option

	mu    sync.Mutex
	flows map[flowKey]*flow.Flow
}

type flowKey struct {
	owner  string
	recipe string
}

// New creates an engine over model and stores.
func New(model domain.Model, stores Stores, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		stores: stores,
		log:    log,
		flows:  make(map[flowKey]*flow.Flow),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.dispatcher = dispatch.New(stores.List, log, e.dispatchOpts...)
	e.agent = agent.New(model, e.dispatcher, stores.List, log)
	e.matcher = matcher.New(model, log, e.matcherOpts...)
	return e
}

// ── Conversation ─────────────────────────────────────────────────

// SubmitCommand sends text to the list agent. An empty sessionID starts
// a new conversation; the returned Response carries its id.
func (e *Engine) SubmitCommand(ctx context.Context, ownerID, sessionID, text string) (Response, error) {
	if ownerID == "" {
		err := domain.Errorf(domain.KindAuthorization, "engine.submit", "no caller identity")
		return errorResponse(sessionID, err), err
	}

	session, err := e.session(ctx, ownerID, sessionID)
	if err != nil {
		return errorResponse(sessionID, err), err
	}

	out, err := e.agent.Submit(ctx, session, text)
	if err != nil {
		e.log.Warn("Command failed in session %s: %v", session.ID, err)
		resp := errorResponse(session.ID, err)
		if inv, ok := out.(agent.ToolInvoked); ok {
			resp.Message = inv.Summary
		}
		return resp, err
	}

	switch o := out.(type) {
	case agent.ToolInvoked:
		return Response{SessionID: session.ID, Status: StatusInvoked, Message: o.Summary}, nil
	case agent.NeedsClarification:
		return Response{SessionID: session.ID, Status: StatusNeedsClarification, Message: o.Question}, nil
	}
	err = domain.Errorf(domain.KindContract, "engine.submit", "unexpected outcome %T", out)
	return errorResponse(session.ID, err), err
}

// EndSession discards a conversation.
func (e *Engine) EndSession(ctx context.Context, ownerID, sessionID string) error {
	session, err := e.stores.Sessions.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.OwnerID != ownerID {
		return domain.Errorf(domain.KindAuthorization, "engine.end", "session belongs to another user")
	}
	e.log.Debug("ending session %s (%d turns)", sessionID, session.Len())
	return e.stores.Sessions.Delete(ctx, sessionID)
}

// Transcript returns the turns of one of the owner's sessions.
func (e *Engine) Transcript(ctx context.Context, ownerID, sessionID string) ([]domain.ConversationTurn, error) {
	session, err := e.stores.Sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.OwnerID != ownerID {
		return nil, domain.Errorf(domain.KindAuthorization, "engine.transcript", "session belongs to another user")
	}
	return session.Turns(), nil
}

func (e *Engine) session(ctx context.Context, ownerID, sessionID string) (*domain.ConversationSession, error) {
	if sessionID == "" {
		s := domain.NewConversationSession(ownerID)
		if err := e.stores.Sessions.Save(ctx, s); err != nil {
			return nil, fmt.Errorf("saving session: %w", err)
		}
		e.log.Info("started session %s for %s", s.ID, ownerID)
		return s, nil
	}

	s, err := e.stores.Sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", sessionID, err)
	}
	if s.OwnerID != ownerID {
		return nil, domain.Errorf(domain.KindAuthorization, "engine.session", "session belongs to another user")
	}
	return s, nil
}

// ── Recipe feasibility ───────────────────────────────────────────

// CheckRecipeFeasibility runs a fresh check of recipeID against the
// owner's pantry. A shortfall leaves a flow waiting for ResolveShortfall;
// any earlier flow for the same recipe is discarded.
func (e *Engine) CheckRecipeFeasibility(ctx context.Context, ownerID, recipeID string) (*domain.Verdict, error) {
	f, err := e.startFlow(ctx, ownerID, recipeID)
	if err != nil {
		return nil, err
	}
	return f.Verdict(), nil
}

// ResolveShortfall moves the recipe's flow forward. With a nil answer it
// confirms adding the shortfall to the list, running the check first if
// none is pending. With an answer it replies to the agent's question.
func (e *Engine) ResolveShortfall(ctx context.Context, ownerID, recipeID string, answer *string) (Response, error) {
	f := e.activeFlow(ownerID, recipeID)

	var err error
	switch {
	case answer != nil:
		if f == nil {
			err = fmt.Errorf("no question pending for %s: %w", recipeID, domain.ErrInvalidTransition)
			return errorResponse("", err), err
		}
		err = f.Answer(ctx, *answer)
	default:
		if f == nil || f.State() != flow.StateNeedsShortfallReview {
			if f, err = e.startFlow(ctx, ownerID, recipeID); err != nil {
				return errorResponse("", err), err
			}
			if f.State() == flow.StateTerminalSuccess {
				return flowResponse(f), nil
			}
		}
		err = f.ConfirmAdd(ctx)
	}

	resp := flowResponse(f)
	if f.State().Terminal() {
		e.dropFlow(ownerID, recipeID, f)
	}
	if errors.Is(err, domain.ErrInvalidTransition) {
		return errorResponse(f.Session().ID, err), err
	}
	return resp, err
}

// CancelShortfall abandons the recipe's pending flow, if any.
func (e *Engine) CancelShortfall(ownerID, recipeID string) bool {
	f := e.activeFlow(ownerID, recipeID)
	if f == nil {
		return false
	}
	f.Cancel()
	e.dropFlow(ownerID, recipeID, f)
	return true
}

// PendingFlow returns the state of the owner's flow for recipeID, or
// false when there is none.
func (e *Engine) PendingFlow(ownerID, recipeID string) (flow.State, bool) {
	f := e.activeFlow(ownerID, recipeID)
	if f == nil {
		return 0, false
	}
	return f.State(), true
}

func (e *Engine) startFlow(ctx context.Context, ownerID, recipeID string) (*flow.Flow, error) {
	if ownerID == "" {
		return nil, domain.Errorf(domain.KindAuthorization, "engine.check", "no caller identity")
	}
	recipe, err := e.stores.Recipes.Get(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("getting recipe: %w", err)
	}
	// Pantry is read fresh for every check.
	pantry, err := e.stores.Pantry.ListAll(ctx, ownerID)
	if err != nil {
		return nil, domain.WrapError(domain.KindStorage, "engine.pantry", err)
	}

	var opts []flow.Option
	if e.maxRounds > 0 {
		opts = append(opts, flow.WithMaxRounds(e.maxRounds))
	}
	f := flow.New(ownerID, recipe, e.matcher, e.agent, e.log, opts...)

	e.mu.Lock()
	if old, ok := e.flows[flowKey{ownerID, recipeID}]; ok {
		old.Cancel()
	}
	e.flows[flowKey{ownerID, recipeID}] = f
	e.mu.Unlock()

	if err := f.Start(ctx, pantry); err != nil {
		e.dropFlow(ownerID, recipeID, f)
		return nil, err
	}
	if f.State().Terminal() {
		e.dropFlow(ownerID, recipeID, f)
	}
	e.log.Info("checked %q for %s: %s", recipe.Name, ownerID, f.State())
	return f, nil
}

func (e *Engine) activeFlow(ownerID, recipeID string) *flow.Flow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flows[flowKey{ownerID, recipeID}]
}

// dropFlow removes f only if it is still the registered flow.
func (e *Engine) dropFlow(ownerID, recipeID string, f *flow.Flow) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.flows[flowKey{ownerID, recipeID}] == f {
		delete(e.flows, flowKey{ownerID, recipeID})
	}
}

func flowResponse(f *flow.Flow) Response {
	resp := Response{
		SessionID: f.Session().ID,
		State:     f.State().String(),
		Shortfall: f.Shortfall(),
	}
	switch f.State() {
	case flow.StateTerminalSuccess:
		resp.Status = StatusInvoked
		resp.Message = f.Message()
		if resp.Message == flow.MessageReadyForUse {
			resp.Status = StatusReady
		}
	case flow.StateNeedsUserContext:
		resp.Status = StatusNeedsClarification
		resp.Message = f.Question()
	case flow.StateTerminalError:
		resp.Status = StatusError
		resp.Message = domain.UserMessage(f.Err())
		resp.Kind = domain.KindOf(f.Err()).String()
	default:
		resp.Status = StatusNeedsClarification
		resp.Message = flow.ShortfallPrompt(resp.Shortfall)
	}
	return resp
}

// ── Recipes ──────────────────────────────────────────────────────

// ListRecipes returns all available recipes.
func (e *Engine) ListRecipes(ctx context.Context) ([]domain.RecipeSummary, error) {
	return e.stores.Recipes.List(ctx)
}

// GetRecipe returns a full recipe by ID.
func (e *Engine) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	return e.stores.Recipes.Get(ctx, id)
}

// FindRecipe resolves an id or a name fragment to a recipe. A fragment
// must match exactly one recipe unless one name matches it exactly.
func (e *Engine) FindRecipe(ctx context.Context, query string) (*domain.Recipe, error) {
	query = strings.TrimSpace(query)
	if r, err := e.stores.Recipes.Get(ctx, query); err == nil {
		return r, nil
	}
	hits, err := e.stores.Recipes.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	for _, h := range hits {
		if strings.EqualFold(h.Name, query) {
			return e.stores.Recipes.Get(ctx, h.ID)
		}
	}
	switch len(hits) {
	case 0:
		return nil, fmt.Errorf("recipe %q: %w", query, domain.ErrNotFound)
	case 1:
		return e.stores.Recipes.Get(ctx, hits[0].ID)
	default:
		names := make([]string, len(hits))
		for i, h := range hits {
			names[i] = h.Name
		}
		return nil, domain.Errorf(domain.KindValidation, "engine.findRecipe",
			"%q matches %d recipes: %s", query, len(hits), strings.Join(names, ", "))
	}
}
