package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/pantrypal/internal/dispatch"
	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/llmtest"
	"github.com/hammamikhairi/pantrypal/internal/logger"
	"github.com/hammamikhairi/pantrypal/internal/storage"
)

type fixture struct {
	model *llmtest.Model
	store *storage.ListStore
	agent *Agent
}

func newFixture() *fixture {
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewListStore(log)
	model := llmtest.New()
	return &fixture{
		model: model,
		store: store,
		agent: New(model, dispatch.New(store, log), store, log),
	}
}

func (f *fixture) seed(t *testing.T, owner string, items ...domain.ListItem) {
	t.Helper()
	for i := range items {
		items[i].OwnerID = owner
		if items[i].Quantity == 0 {
			items[i].Quantity = 1
		}
		if items[i].Unit == "" {
			items[i].Unit = domain.UnitPieces
		}
	}
	_, err := f.store.InsertMany(context.Background(), items)
	require.NoError(t, err)
}

func TestDeleteTwoItemsByIDs(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seed(t, "alice",
		domain.ListItem{ID: "m1", Name: "Milk"},
		domain.ListItem{ID: "e1", Name: "Eggs"},
		domain.ListItem{ID: "b1", Name: "Bread"},
	)
	f.model.CallJSON(domain.ToolName, `{"action": "delete", "ids": ["m1", "e1"]}`)

	sess := domain.NewConversationSession("alice")
	out, err := f.agent.Submit(ctx, sess, "delete milk and eggs from my list")
	require.NoError(t, err)

	inv, ok := out.(ToolInvoked)
	require.True(t, ok, "expected ToolInvoked, got %T", out)
	assert.Equal(t, domain.ActionDelete, inv.Request.Action)
	assert.Equal(t, []string{"m1", "e1"}, inv.Request.IDs)
	assert.Equal(t, 2, inv.Result.Deleted)

	left, _ := f.store.ListByOwner(ctx, "alice")
	require.Len(t, left, 1)
	assert.Equal(t, "b1", left[0].ID)
	_, err = f.store.OwnerOf(ctx, "m1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.store.OwnerOf(ctx, "e1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddWithoutQuantityEitherDefaultsOrAsks(t *testing.T) {
	replies := map[string]func(*llmtest.Model){
		"defaults": func(m *llmtest.Model) {
			m.CallJSON(domain.ToolName, `{"action": "create", "items": [{"name": "Sourdough Bread"}]}`)
		},
		"asks": func(m *llmtest.Model) {
			m.Reply("How many loaves of sourdough bread would you like?")
		},
	}

	for name, script := range replies {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture()
			script(f.model)

			out, err := f.agent.Submit(ctx, domain.NewConversationSession("alice"), "add sourdough bread")
			require.NoError(t, err)

			items, _ := f.store.ListByOwner(ctx, "alice")
			switch o := out.(type) {
			case ToolInvoked:
				require.Len(t, items, 1)
				assert.Equal(t, "Sourdough Bread", items[0].Name)
				assert.Equal(t, 1.0, items[0].Quantity)
				assert.Equal(t, domain.UnitPieces, items[0].Unit)
			case NeedsClarification:
				assert.NotEmpty(t, o.Question)
				assert.Empty(t, items)
			default:
				t.Fatalf("unexpected outcome %T", out)
			}
		})
	}
}

func TestTranscriptOrderAndToolTurn(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.model.
		Reply("Which milk, whole or skim?").
		CallJSON(domain.ToolName, `{"action": "create", "items": [{"name": "Whole Milk", "unit": "gallons"}]}`)

	sess := domain.NewConversationSession("alice")
	out, err := f.agent.Submit(ctx, sess, "add milk")
	require.NoError(t, err)
	assert.Equal(t, NeedsClarification{Question: "Which milk, whole or skim?"}, out)

	_, err = f.agent.Submit(ctx, sess, "Which milk, whole or skim?\n\nMy answer: whole")
	require.NoError(t, err)

	turns := sess.Turns()
	require.Len(t, turns, 4)
	roles := []domain.Role{turns[0].Role, turns[1].Role, turns[2].Role, turns[3].Role}
	assert.Equal(t, []domain.Role{domain.RoleUser, domain.RoleModel, domain.RoleUser, domain.RoleModel}, roles)
	assert.Equal(t, "add milk", turns[0].Text)
	require.NotNil(t, turns[3].ToolCall)
	assert.Contains(t, turns[3].Text, "Whole Milk")

	// The second model call saw the whole history and the tool on every turn.
	reqs := f.model.Requests()
	require.Len(t, reqs, 2)
	assert.Len(t, reqs[1].Turns, 3)
	for _, r := range reqs {
		require.Len(t, r.Tools, 1)
		assert.Equal(t, domain.ToolName, r.Tools[0].Name)
	}
}

func TestSystemPromptShowsCurrentList(t *testing.T) {
	f := newFixture()
	f.seed(t, "alice", domain.ListItem{ID: "m1", Name: "Milk"})
	f.seed(t, "bob", domain.ListItem{ID: "x9", Name: "Caviar"})
	f.model.Reply("Sure, what else?")

	_, err := f.agent.Submit(context.Background(), domain.NewConversationSession("alice"), "what's on my list")
	require.NoError(t, err)

	req, _ := f.model.LastRequest()
	assert.Contains(t, req.System, `id=m1 name="Milk"`)
	assert.NotContains(t, req.System, "Caviar")
}

func TestModelFailureAppendsErrorTurn(t *testing.T) {
	f := newFixture()
	f.model.Fail(errors.New("deadline exceeded"))

	sess := domain.NewConversationSession("alice")
	out, err := f.agent.Submit(context.Background(), sess, "add eggs")
	assert.Nil(t, out)
	assert.Equal(t, domain.KindModel, domain.KindOf(err))

	last, ok := sess.Last()
	require.True(t, ok)
	assert.True(t, last.Failed)
	assert.Equal(t, domain.RoleModel, last.Role)
	assert.Equal(t, 2, sess.Len())
}

func TestEmptyReplyIsModelError(t *testing.T) {
	f := newFixture()
	f.model.Raw(&domain.Reply{Text: "   "})

	_, err := f.agent.Submit(context.Background(), domain.NewConversationSession("alice"), "hi")
	assert.Equal(t, domain.KindModel, domain.KindOf(err))
}

func TestMalformedCallsAreHardErrors(t *testing.T) {
	tests := []struct {
		name string
		call domain.ToolCall
		kind domain.ErrorKind
	}{
		{"wrong tool", domain.ToolCall{Name: "pantry_control", Args: map[string]any{"action": "create"}}, domain.KindContract},
		{"bad types", domain.ToolCall{Name: domain.ToolName, Args: map[string]any{"action": "delete", "ids": "m1"}}, domain.KindValidation},
		{"bad shape", domain.ToolCall{Name: domain.ToolName, Args: map[string]any{"action": "update", "id": "m1"}}, domain.KindValidation},
		{"bad enum", domain.ToolCall{Name: domain.ToolName, Args: map[string]any{
			"action": "create", "items": []any{map[string]any{"name": "Milk", "unit": "jugs"}},
		}}, domain.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.model.Raw(&domain.Reply{ToolCalls: []domain.ToolCall{tt.call}})

			sess := domain.NewConversationSession("alice")
			out, err := f.agent.Submit(context.Background(), sess, "do it")
			assert.Nil(t, out)
			assert.Equal(t, tt.kind, domain.KindOf(err))

			last, _ := sess.Last()
			assert.True(t, last.Failed)
			require.NotNil(t, last.ToolCall)

			items, _ := f.store.ListByOwner(context.Background(), "alice")
			assert.Empty(t, items)
		})
	}
}

func TestOnlyFirstToolCallIsHonoured(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.model.Raw(&domain.Reply{ToolCalls: []domain.ToolCall{
		{Name: domain.ToolName, Args: map[string]any{"action": "create", "items": []any{map[string]any{"name": "Apples"}}}},
		{Name: domain.ToolName, Args: map[string]any{"action": "create", "items": []any{map[string]any{"name": "Pears"}}}},
	}})

	_, err := f.agent.Submit(ctx, domain.NewConversationSession("alice"), "add apples and pears")
	require.NoError(t, err)

	items, _ := f.store.ListByOwner(ctx, "alice")
	require.Len(t, items, 1)
	assert.Equal(t, "Apples", items[0].Name)
}

func TestForeignIDFromModelIsRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seed(t, "bob", domain.ListItem{ID: "b1", Name: "Caviar"})
	f.model.CallJSON(domain.ToolName, `{"action": "delete", "id": "b1", "owner_id": "bob"}`)

	_, err := f.agent.Submit(ctx, domain.NewConversationSession("alice"), "delete caviar")
	assert.Equal(t, domain.KindAuthorization, domain.KindOf(err))

	bobs, _ := f.store.ListByOwner(ctx, "bob")
	assert.Len(t, bobs, 1)
}

func TestBusySessionRejectsSecondSubmit(t *testing.T) {
	f := newFixture()
	sess := domain.NewConversationSession("alice")
	require.True(t, sess.Acquire())

	_, err := f.agent.Submit(context.Background(), sess, "add eggs")
	assert.ErrorIs(t, err, domain.ErrSessionBusy)
	assert.Zero(t, sess.Len())
	assert.Empty(t, f.model.Requests())
}

func TestSameTextOnNewSessionGivesSameCallShape(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	// A deterministic model: the call depends only on the latest user text.
	f.model.Respond(func(req domain.ConverseRequest) (*domain.Reply, error) {
		last := req.Turns[len(req.Turns)-1].Text
		return &domain.Reply{ToolCalls: []domain.ToolCall{{
			Name: domain.ToolName,
			Args: map[string]any{
				"action": "create",
				"items":  []any{map[string]any{"name": last, "quantity": 2.0, "unit": "lbs", "category": "Meat"}},
			},
		}}}, nil
	})

	shape := func(o Outcome) domain.ActionRequest {
		inv := o.(ToolInvoked)
		return inv.Request
	}

	first, err := f.agent.Submit(ctx, domain.NewConversationSession("alice"), "Chicken")
	require.NoError(t, err)
	second, err := f.agent.Submit(ctx, domain.NewConversationSession("alice"), "Chicken")
	require.NoError(t, err)

	if diff := cmp.Diff(shape(first), shape(second)); diff != "" {
		t.Fatalf("tool call shape differs (-first +second):\n%s", diff)
	}
	assert.NotEqual(t, first.(ToolInvoked).Result.Items[0].ID, second.(ToolInvoked).Result.Items[0].ID)
}

func TestEmptyTextRejected(t *testing.T) {
	f := newFixture()
	sess := domain.NewConversationSession("alice")
	_, err := f.agent.Submit(context.Background(), sess, "   ")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Zero(t, sess.Len())
}
