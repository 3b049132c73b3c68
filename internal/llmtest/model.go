// Package llmtest provides a scripted domain.Model for tests.
//
// Usage:
//
//	m := llmtest.New().
//	    Call("list_control", map[string]any{"action": "delete", "ids": []any{"m1", "e1"}}).
//	    Reply("How many loaves?")
//	m.JSON(`{"canCook": true, "missingOrInsufficient": []}`)
package llmtest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/hammamikhairi/pantrypal/internal/domain"
)

// ErrExhausted is returned when a call arrives with nothing scripted.
var ErrExhausted = errors.New("llmtest: no scripted response left")

type step struct {
	reply *domain.Reply
	text  string
	err   error
}

// Model replays scripted responses in order. Converse and GenerateJSON
// have separate queues. Safe for concurrent use.
type Model struct {
	mu        sync.Mutex
	converse  []step
	json      []step
	responder func(domain.ConverseRequest) (*domain.Reply, error)

	requests []domain.ConverseRequest
	prompts  []string
}

var _ domain.Model = (*Model)(nil)

// New creates a model with empty queues.
func New() *Model {
	return &Model{}
}

// Reply queues a plain-text answer.
func (m *Model) Reply(text string) *Model {
	return m.push(step{reply: &domain.Reply{Text: text}})
}

// Call queues a single tool call.
func (m *Model) Call(name string, args map[string]any) *Model {
	return m.push(step{reply: &domain.Reply{
		ToolCalls: []domain.ToolCall{{ID: fmt.Sprintf("call-%d", m.pending()+1), Name: name, Args: args}},
	}})
}

// CallJSON queues a tool call whose args are given as JSON, decoded the
// way a provider would decode them.
func (m *Model) CallJSON(name, args string) *Model {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(args), &parsed); err != nil {
		panic(fmt.Sprintf("llmtest: bad args JSON: %v", err))
	}
	return m.Call(name, parsed)
}

// Raw queues an arbitrary reply, e.g. one with several tool calls.
func (m *Model) Raw(reply *domain.Reply) *Model {
	return m.push(step{reply: reply})
}

// Fail queues a Converse error.
func (m *Model) Fail(err error) *Model {
	return m.push(step{err: err})
}

// Respond makes Converse compute replies from the request once the
// queue is empty.
func (m *Model) Respond(fn func(domain.ConverseRequest) (*domain.Reply, error)) *Model {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responder = fn
	return m
}

// JSON queues a GenerateJSON result.
func (m *Model) JSON(text string) *Model {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.json = append(m.json, step{text: text})
	return m
}

// JSONFail queues a GenerateJSON error.
func (m *Model) JSONFail(err error) *Model {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.json = append(m.json, step{err: err})
	return m
}

// Converse implements domain.Model.
func (m *Model) Converse(ctx context.Context, req domain.ConverseRequest) (*domain.Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(m.converse) == 0 {
		if m.responder != nil {
			return m.responder(req)
		}
		return nil, ErrExhausted
	}
	s := m.converse[0]
	m.converse = m.converse[1:]
	return s.reply, s.err
}

// GenerateJSON implements domain.Model.
func (m *Model) GenerateJSON(ctx context.Context, prompt string, _ *domain.Schema) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(m.json) == 0 {
		return "", ErrExhausted
	}
	s := m.json[0]
	m.json = m.json[1:]
	return s.text, s.err
}

// Requests returns every Converse request received so far.
func (m *Model) Requests() []domain.ConverseRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ConverseRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent Converse request.
func (m *Model) LastRequest() (domain.ConverseRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return domain.ConverseRequest{}, false
	}
	return m.requests[len(m.requests)-1], true
}

// Prompts returns every GenerateJSON prompt received so far.
func (m *Model) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// Remaining returns how many Converse replies are still queued.
func (m *Model) Remaining() int {
	return m.pending()
}

func (m *Model) push(s step) *Model {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.converse = append(m.converse, s)
	return m
}

func (m *Model) pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.converse)
}
