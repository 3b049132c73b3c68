package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/logger"
	"github.com/hammamikhairi/pantrypal/internal/storage"
)

func str(s string) *string     { return &s }
func num(f float64) *float64   { return &f }
func quietLog() *logger.Logger { return logger.New(logger.LevelOff, nil) }

func newTestDispatcher(store domain.ListStore) *Dispatcher {
	n := 0
	return New(store, quietLog(),
		WithClock(func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
}

func TestCreateStampsOwnerAndDefaults(t *testing.T) {
	ctx := context.Background()
	store := storage.NewListStore(quietLog())
	d := newTestDispatcher(store)

	res, err := d.Execute(ctx, "alice", domain.ActionRequest{
		Action: domain.ActionCreate,
		Items: []domain.ListItemDraft{
			{Name: str("Chicken"), Quantity: num(2), Unit: str("LBS"), Category: str("meat")},
			{Name: str("Sourdough Bread")},
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, 2, res.Requested)
	assert.Equal(t, 2, res.Affected())

	for _, item := range res.Items {
		assert.Equal(t, "alice", item.OwnerID)
		assert.False(t, item.Completed)
	}
	assert.Equal(t, domain.UnitLbs, res.Items[0].Unit)
	assert.Equal(t, domain.CategoryMeat, res.Items[0].Category)

	bread := res.Items[1]
	assert.Equal(t, 1.0, bread.Quantity)
	assert.Equal(t, domain.UnitPieces, bread.Unit)
	assert.Equal(t, domain.CategoryMisc, bread.Category)
	assert.Equal(t, domain.PriorityMedium, bread.Priority)
}

func TestValidationRejectsBeforeStorage(t *testing.T) {
	store := &recordingStore{}
	d := newTestDispatcher(store)

	tests := []struct {
		name string
		req  domain.ActionRequest
	}{
		{"create without items", domain.ActionRequest{Action: domain.ActionCreate}},
		{"create without name", domain.ActionRequest{Action: domain.ActionCreate, Items: []domain.ListItemDraft{{Quantity: num(1)}}}},
		{"create blank name", domain.ActionRequest{Action: domain.ActionCreate, Items: []domain.ListItemDraft{{Name: str("  ")}}}},
		{"zero quantity", domain.ActionRequest{Action: domain.ActionCreate, Items: []domain.ListItemDraft{{Name: str("Milk"), Quantity: num(0)}}}},
		{"negative price", domain.ActionRequest{Action: domain.ActionCreate, Items: []domain.ListItemDraft{{Name: str("Milk"), EstimatedPrice: num(-1)}}}},
		{"unknown unit", domain.ActionRequest{Action: domain.ActionCreate, Items: []domain.ListItemDraft{{Name: str("Milk"), Unit: str("crates")}}}},
		{"unknown category", domain.ActionRequest{Action: domain.ActionCreate, Items: []domain.ListItemDraft{{Name: str("Milk"), Category: str("Toys")}}}},
		{"unknown priority", domain.ActionRequest{Action: domain.ActionCreate, Items: []domain.ListItemDraft{{Name: str("Milk"), Priority: str("urgent")}}}},
		{"update without id", domain.ActionRequest{Action: domain.ActionUpdate, Items: []domain.ListItemDraft{{Quantity: num(2)}}}},
		{"update with ids", domain.ActionRequest{Action: domain.ActionUpdate, ID: "a", IDs: []string{"b"}, Items: []domain.ListItemDraft{{Quantity: num(2)}}}},
		{"update two items", domain.ActionRequest{Action: domain.ActionUpdate, ID: "a", Items: []domain.ListItemDraft{{Quantity: num(2)}, {Quantity: num(3)}}}},
		{"update empty patch", domain.ActionRequest{Action: domain.ActionUpdate, ID: "a", Items: []domain.ListItemDraft{{}}}},
		{"delete neither", domain.ActionRequest{Action: domain.ActionDelete}},
		{"delete both", domain.ActionRequest{Action: domain.ActionDelete, ID: "a", IDs: []string{"b"}}},
		{"delete blank id in ids", domain.ActionRequest{Action: domain.ActionDelete, IDs: []string{"a", ""}}},
		{"unknown action", domain.ActionRequest{Action: "upsert"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.Execute(context.Background(), "alice", tt.req)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
			assert.Zero(t, store.calls, "storage must not be touched")
		})
	}
}

func TestMissingOwnerIsAuthorizationError(t *testing.T) {
	d := newTestDispatcher(&recordingStore{})
	_, err := d.Execute(context.Background(), "", domain.ActionRequest{
		Action: domain.ActionDelete, ID: "x",
	})
	assert.Equal(t, domain.KindAuthorization, domain.KindOf(err))
}

func TestForeignIDsAffectNothing(t *testing.T) {
	ctx := context.Background()
	store := storage.NewListStore(quietLog())
	d := newTestDispatcher(store)

	res, err := d.Execute(ctx, "bob", domain.ActionRequest{
		Action: domain.ActionCreate,
		Items:  []domain.ListItemDraft{{Name: str("Eggs"), Quantity: num(12)}},
	})
	require.NoError(t, err)
	bobsID := res.Items[0].ID

	t.Run("update", func(t *testing.T) {
		res, err := d.Execute(ctx, "alice", domain.ActionRequest{
			Action: domain.ActionUpdate, ID: bobsID,
			Items: []domain.ListItemDraft{{Quantity: num(1)}},
		})
		assert.Equal(t, domain.KindAuthorization, domain.KindOf(err))
		require.NotNil(t, res)
		assert.Zero(t, res.Affected())
	})

	t.Run("delete", func(t *testing.T) {
		res, err := d.Execute(ctx, "alice", domain.ActionRequest{
			Action: domain.ActionDelete, IDs: []string{bobsID},
		})
		assert.Equal(t, domain.KindAuthorization, domain.KindOf(err))
		require.NotNil(t, res)
		assert.Zero(t, res.Deleted)
	})

	bobs, _ := store.ListByOwner(ctx, "bob")
	require.Len(t, bobs, 1)
	assert.Equal(t, 12.0, bobs[0].Quantity)
}

func TestMixedOwnerDeleteRemovesNothing(t *testing.T) {
	ctx := context.Background()
	store := storage.NewListStore(quietLog())
	d := newTestDispatcher(store)

	_, err := d.Execute(ctx, "alice", domain.ActionRequest{
		Action: domain.ActionCreate,
		Items:  []domain.ListItemDraft{{Name: str("Milk")}},
	})
	require.NoError(t, err)
	_, err = d.Execute(ctx, "bob", domain.ActionRequest{
		Action: domain.ActionCreate,
		Items:  []domain.ListItemDraft{{Name: str("Bread")}},
	})
	require.NoError(t, err)

	res, err := d.Execute(ctx, "alice", domain.ActionRequest{
		Action: domain.ActionDelete, IDs: []string{"id-1", "id-2"},
	})
	assert.Equal(t, domain.KindAuthorization, domain.KindOf(err))
	require.NotNil(t, res)
	assert.Zero(t, res.Deleted)

	alices, _ := store.ListByOwner(ctx, "alice")
	require.Len(t, alices, 1)
	assert.Equal(t, "Milk", alices[0].Name)
	bobs, _ := store.ListByOwner(ctx, "bob")
	assert.Len(t, bobs, 1)
}

func TestUnknownIDIsNoopNotError(t *testing.T) {
	d := newTestDispatcher(storage.NewListStore(quietLog()))
	res, err := d.Execute(context.Background(), "alice", domain.ActionRequest{
		Action: domain.ActionDelete, ID: "ghost",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Requested)
	assert.Zero(t, res.Deleted)
}

func TestPartialPatchKeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	store := storage.NewListStore(quietLog())
	d := newTestDispatcher(store)

	created, err := d.Execute(ctx, "alice", domain.ActionRequest{
		Action: domain.ActionCreate,
		Items: []domain.ListItemDraft{{
			Name: str("Whole Milk"), Quantity: num(1), Unit: str("gallons"),
			Category: str("Dairy"), Notes: str("organic"),
		}},
	})
	require.NoError(t, err)
	id := created.Items[0].ID

	updated, err := d.Execute(ctx, "alice", domain.ActionRequest{
		Action: domain.ActionUpdate, ID: id,
		Items: []domain.ListItemDraft{{Quantity: num(3)}},
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)

	got := updated.Items[0]
	assert.Equal(t, 3.0, got.Quantity)
	assert.Equal(t, "Whole Milk", got.Name)
	assert.Equal(t, domain.UnitGallons, got.Unit)
	assert.Equal(t, domain.CategoryDairy, got.Category)
	assert.Equal(t, "organic", got.Notes)
}

func TestDeleteByIDs(t *testing.T) {
	ctx := context.Background()
	store := storage.NewListStore(quietLog())
	d := newTestDispatcher(store)

	_, err := d.Execute(ctx, "alice", domain.ActionRequest{
		Action: domain.ActionCreate,
		Items:  []domain.ListItemDraft{{Name: str("Milk")}, {Name: str("Eggs")}, {Name: str("Flour")}},
	})
	require.NoError(t, err)

	res, err := d.Execute(ctx, "alice", domain.ActionRequest{
		Action: domain.ActionDelete, IDs: []string{"id-1", "id-2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Deleted)

	left, _ := store.ListByOwner(ctx, "alice")
	require.Len(t, left, 1)
	assert.Equal(t, "Flour", left[0].Name)
}

func TestPartialCreateReportsCounts(t *testing.T) {
	store := &recordingStore{failAfter: 1, failErr: errors.New("disk full")}
	d := newTestDispatcher(store)

	res, err := d.Execute(context.Background(), "alice", domain.ActionRequest{
		Action: domain.ActionCreate,
		Items:  []domain.ListItemDraft{{Name: str("A")}, {Name: str("B")}, {Name: str("C")}},
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindStorage, domain.KindOf(err))
	assert.Contains(t, err.Error(), "inserted 1 of 3 items")
	assert.Contains(t, err.Error(), "disk full")

	require.NotNil(t, res)
	assert.Equal(t, 3, res.Requested)
	assert.Len(t, res.Items, 1)
}

func TestStorageFailureOnDelete(t *testing.T) {
	store := &recordingStore{deleteErr: errors.New("connection reset")}
	d := newTestDispatcher(store)

	_, err := d.Execute(context.Background(), "alice", domain.ActionRequest{Action: domain.ActionDelete, ID: "x"})
	assert.Equal(t, domain.KindStorage, domain.KindOf(err))
	assert.Equal(t, 1, store.calls)
}

// recordingStore counts calls and can fail part-way through an insert.
type recordingStore struct {
	calls     int
	failAfter int
	failErr   error
	deleteErr error
}

func (s *recordingStore) InsertMany(_ context.Context, items []domain.ListItem) ([]domain.ListItem, error) {
	s.calls++
	if s.failErr != nil && len(items) > s.failAfter {
		return items[:s.failAfter], s.failErr
	}
	return items, nil
}

func (s *recordingStore) UpdateOne(context.Context, string, string, domain.ItemPatch) ([]domain.ListItem, error) {
	s.calls++
	return nil, nil
}

func (s *recordingStore) DeleteMany(context.Context, []string, string) (int, error) {
	s.calls++
	return 0, s.deleteErr
}

func (s *recordingStore) ListByOwner(context.Context, string) ([]domain.ListItem, error) {
	s.calls++
	return nil, nil
}

func (s *recordingStore) FindByName(context.Context, string, string) (*domain.ListItem, error) {
	s.calls++
	return nil, domain.ErrNotFound
}

func (s *recordingStore) DeleteCompleted(context.Context, string) (int, error) {
	s.calls++
	return 0, nil
}
