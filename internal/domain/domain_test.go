package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	base := errors.New("disk full")
	err := fmt.Errorf("saving: %w", WrapError(KindStorage, "list.insert", base))

	assert.Equal(t, KindStorage, KindOf(err))
	assert.True(t, IsKind(err, KindStorage))
	assert.False(t, IsKind(nil, KindStorage))
	assert.True(t, errors.Is(err, base))
	assert.Equal(t, KindUnknown, KindOf(base))
	assert.Nil(t, WrapError(KindStorage, "op", nil))
	assert.Equal(t, "contract_violation", KindContract.String())
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("s1: %w", ErrSessionBusy), "Still working on your last request."},
		{fmt.Errorf("flow: %w", ErrInvalidTransition), "That doesn't apply right now."},
		{Errorf(KindAuthorization, "dispatch.update", "item x is not on your list"), "That item isn't on your list."},
		{Errorf(KindCancelled, "flow", "gave up"), "Cancelled."},
		{errors.New("boom"), "An unexpected error occurred."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UserMessage(tt.err))
	}
}

func TestParseEnums(t *testing.T) {
	u, ok := ParseUnit(" Liters ")
	assert.True(t, ok)
	assert.Equal(t, UnitLiters, u)

	c, ok := ParseCategory("dairy")
	assert.True(t, ok)
	assert.Equal(t, CategoryDairy, c)

	p, ok := ParsePriority("HIGH")
	assert.True(t, ok)
	assert.Equal(t, PriorityHigh, p)

	_, ok = ParseUnit("furlongs")
	assert.False(t, ok)
	_, ok = ParseCategory("")
	assert.False(t, ok)
}

func TestItemPatchApply(t *testing.T) {
	assert.True(t, ItemPatch{}.IsEmpty())

	price := 3.5
	qty := 4.0
	done := true
	patch := ItemPatch{Quantity: &qty, EstimatedPrice: &price, Completed: &done}
	require.False(t, patch.IsEmpty())

	item := ListItem{Name: "Milk", Quantity: 1, Unit: UnitLiters}
	patch.Apply(&item)
	assert.Equal(t, "Milk", item.Name)
	assert.Equal(t, 4.0, item.Quantity)
	assert.Equal(t, UnitLiters, item.Unit)
	assert.True(t, item.Completed)

	// The item owns its own copy of the price.
	price = 9
	assert.Equal(t, 3.5, *item.EstimatedPrice)
}

func TestConversationSession(t *testing.T) {
	s := NewConversationSession("alice")
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "alice", s.OwnerID)

	_, ok := s.Last()
	assert.False(t, ok)

	s.Append(ConversationTurn{Role: RoleUser, Text: "add milk"})
	s.Append(ConversationTurn{Role: RoleModel, Text: "Added 1 item: milk."})
	assert.Equal(t, 2, s.Len())

	turns := s.Turns()
	turns[0].Text = "changed"
	assert.Equal(t, "add milk", s.Turns()[0].Text)

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, RoleModel, last.Role)
	assert.False(t, last.At.IsZero())

	require.True(t, s.Acquire())
	assert.False(t, s.Acquire())
	s.Release()
	assert.True(t, s.Acquire())
}
