package domain

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ConversationTurn is one entry in a session transcript. A model turn
// that invoked the tool carries the call; Text then holds the summary
// of what the dispatcher did with it.
type ConversationTurn struct {
	Role     Role
	Text     string
	ToolCall *ToolCall
	Failed   bool // model call or tool execution failed on this turn
	At       time.Time
}

// ConversationSession is the append-only transcript of one interaction.
// Turn order is the model's context order. A session belongs to exactly
// one owner and must not be shared.
type ConversationSession struct {
	ID        string
	OwnerID   string
	CreatedAt time.Time

	mu    sync.RWMutex
	turns []ConversationTurn
	busy  atomic.Bool
}

// NewConversationSession starts an empty transcript for ownerID.
func NewConversationSession(ownerID string) *ConversationSession {
	return &ConversationSession{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}
}

// Append adds a turn at the end of the transcript.
func (s *ConversationSession) Append(turn ConversationTurn) {
	if turn.At.IsZero() {
		turn.At = time.Now()
	}
	s.mu.Lock()
	s.turns = append(s.turns, turn)
	s.mu.Unlock()
}

// Turns returns a copy of the transcript in insertion order.
func (s *ConversationSession) Turns() []ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ConversationTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns.
func (s *ConversationSession) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// Last returns the most recent turn, or false when the transcript is empty.
func (s *ConversationSession) Last() (ConversationTurn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.turns) == 0 {
		return ConversationTurn{}, false
	}
	return s.turns[len(s.turns)-1], true
}

// Acquire marks the session as having a request in flight. It returns
// false if one already is.
func (s *ConversationSession) Acquire() bool {
	return s.busy.CompareAndSwap(false, true)
}

// Release clears the in-flight mark.
func (s *ConversationSession) Release() {
	s.busy.Store(false)
}
