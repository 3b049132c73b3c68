// Package flow sequences a recipe feasibility check into list changes:
// check the pantry, review the shortfall, ask the agent to add it, and
// loop on the agent's questions until it acts or the flow ends.
package flow

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hammamikhairi/pantrypal/internal/agent"
	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/logger"
)

// MessageReadyForUse is the success message when nothing is missing.
const MessageReadyForUse = "readyForUse"

// Checker produces a feasibility verdict.
type Checker interface {
	Check(ctx context.Context, recipe *domain.Recipe, pantry []domain.PantryEntry) (*domain.Verdict, error)
}

// Submitter runs one agent round.
type Submitter interface {
	Submit(ctx context.Context, session *domain.ConversationSession, text string) (agent.Outcome, error)
}

// Flow is one pass through the clarification state machine for one
// recipe. It owns a fresh conversation session; a new Flow is needed to
// try again.
type Flow struct {
	mu sync.Mutex

	ownerID   string
	recipe    *domain.Recipe
	checker   Checker
	submitter Submitter
	session   *domain.ConversationSession
	log       *logger.Logger
	maxRounds int // 0 means unbounded

	state    State
	verdict  *domain.Verdict
	question string
	message  string
	err      error
	rounds   int
}

// Option configures a Flow.
type Option func(*Flow)

// WithMaxRounds caps how many clarifying questions the flow accepts
// before giving up. Zero or less means no cap.
func WithMaxRounds(n int) Option {
	return func(f *Flow) { f.maxRounds = n }
}

// New creates a flow in the loading state.
func New(ownerID string, recipe *domain.Recipe, checker Checker, submitter Submitter, log *logger.Logger, opts ...Option) *Flow {
	f := &Flow{
		ownerID:   ownerID,
		recipe:    recipe,
		checker:   checker,
		submitter: submitter,
		session:   domain.NewConversationSession(ownerID),
		state:     StateLoading,
	}
	for _, o := range opts {
		o(f)
	}
	f.log = log.With("flow", f.session.ID, "recipe", recipe.ID)
	return f
}

// ── Transitions ──────────────────────────────────────────────────

// Start runs the feasibility check against pantry. Valid only in loading.
func (f *Flow) Start(ctx context.Context, pantry []domain.PantryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.expect(StateLoading, "start"); err != nil {
		return err
	}

	v, err := f.checker.Check(ctx, f.recipe, pantry)
	if err != nil {
		return f.fail(err)
	}
	f.verdict = v

	if v.CanCook {
		f.succeed(MessageReadyForUse)
		return nil
	}
	f.moveTo(StateNeedsShortfallReview)
	return nil
}

// ConfirmAdd asks the agent to put the shortfall on the list. Valid only
// while the shortfall is under review.
func (f *Flow) ConfirmAdd(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.expect(StateNeedsShortfallReview, "confirm"); err != nil {
		return err
	}
	return f.submit(ctx, ShortfallPrompt(f.verdict.MissingOrInsufficient))
}

// Answer sends the user's reply to the agent's last question. Valid only
// while the flow needs user context.
func (f *Flow) Answer(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.expect(StateNeedsUserContext, "answer"); err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return domain.Errorf(domain.KindValidation, "flow.answer", "empty answer")
	}
	return f.submit(ctx, FollowUp(f.question, text))
}

// Cancel abandons the flow. It is a no-op once the flow has ended.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Terminal() {
		return
	}
	f.fail(domain.Errorf(domain.KindCancelled, "flow.cancel", "cancelled in %s", f.state))
}

// ── Accessors ────────────────────────────────────────────────────

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Verdict is nil until Start has succeeded.
func (f *Flow) Verdict() *domain.Verdict {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.verdict
}

// Shortfall returns the items that block the recipe.
func (f *Flow) Shortfall() []domain.MissingItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.verdict == nil {
		return nil
	}
	return append([]domain.MissingItem(nil), f.verdict.MissingOrInsufficient...)
}

// Question is the agent's pending question in needsUserContext.
func (f *Flow) Question() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.question
}

// Message is the success message once terminalSuccess is reached.
func (f *Flow) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Err is the failure once terminalError is reached.
func (f *Flow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Rounds counts the clarifying questions received so far.
func (f *Flow) Rounds() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rounds
}

func (f *Flow) Recipe() *domain.Recipe { return f.recipe }

func (f *Flow) Session() *domain.ConversationSession { return f.session }

// ── Internals (caller holds mu) ──────────────────────────────────

func (f *Flow) submit(ctx context.Context, text string) error {
	out, err := f.submitter.Submit(ctx, f.session, text)
	if err != nil {
		return f.fail(err)
	}

	switch o := out.(type) {
	case agent.ToolInvoked:
		f.succeed(o.Summary)
		return nil
	case agent.NeedsClarification:
		f.rounds++
		if f.maxRounds > 0 && f.rounds > f.maxRounds {
			return f.fail(domain.Errorf(domain.KindCancelled, "flow.submit",
				"gave up after %d clarification rounds", f.maxRounds))
		}
		f.question = o.Question
		f.moveTo(StateNeedsUserContext)
		return nil
	default:
		return f.fail(domain.Errorf(domain.KindContract, "flow.submit", "unexpected outcome %T", out))
	}
}

func (f *Flow) expect(want State, op string) error {
	if f.state != want {
		return fmt.Errorf("flow %s in state %s: %w", op, f.state, domain.ErrInvalidTransition)
	}
	return nil
}

func (f *Flow) moveTo(s State) {
	f.log.Debug("flow: %s -> %s", f.state, s)
	f.state = s
}

func (f *Flow) succeed(msg string) {
	f.message = msg
	f.question = ""
	f.moveTo(StateTerminalSuccess)
}

func (f *Flow) fail(err error) error {
	f.err = err
	f.question = ""
	f.moveTo(StateTerminalError)
	f.log.Warn("flow failed: %v", err)
	return err
}

// ── Prompts ──────────────────────────────────────────────────────

// ShortfallPrompt is the user message sent to the agent when the user
// confirms adding the shortfall.
func ShortfallPrompt(items []domain.MissingItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if it.Reason == domain.ReasonInsufficient && it.Shortfall != nil {
			parts = append(parts, fmt.Sprintf("%s (short by %s)", it.Name, *it.Shortfall))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (missing)", it.Name))
	}
	return "Please add the following items to my shopping list: " + strings.Join(parts, ", ") + "."
}

// FollowUp composes the answer to a clarifying question.
func FollowUp(question, answer string) string {
	return question + "\n\nMy answer: " + strings.TrimSpace(answer)
}
