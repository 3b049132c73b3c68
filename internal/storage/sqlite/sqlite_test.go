package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/logger"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "pantry.db"), logger.New(logger.LevelOff, nil))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func row(id, owner, name string) domain.ListItem {
	return domain.ListItem{
		ID:        id,
		OwnerID:   owner,
		Name:      name,
		Quantity:  1,
		Unit:      domain.UnitPieces,
		Category:  domain.CategoryMisc,
		Priority:  domain.PriorityMedium,
		CreatedAt: time.Unix(1700000000, 0).UTC(),
	}
}

func TestListInsertAndOrder(t *testing.T) {
	ctx := context.Background()
	store := openTemp(t).ListStore()

	price := 2.5
	milk := row("1", "alice", "Milk")
	milk.EstimatedPrice = &price
	got, err := store.InsertMany(ctx, []domain.ListItem{milk, row("2", "alice", "Eggs"), row("3", "bob", "Bread")})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	items, err := store.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Milk", items[0].Name)
	assert.Equal(t, "Eggs", items[1].Name)
	require.NotNil(t, items[0].EstimatedPrice)
	assert.Equal(t, 2.5, *items[0].EstimatedPrice)
	assert.Nil(t, items[1].EstimatedPrice)
	assert.Equal(t, milk.CreatedAt, items[0].CreatedAt)
}

func TestListInsertDuplicateIsPartial(t *testing.T) {
	ctx := context.Background()
	store := openTemp(t).ListStore()

	_, err := store.InsertMany(ctx, []domain.ListItem{row("1", "alice", "Milk")})
	require.NoError(t, err)

	got, err := store.InsertMany(ctx, []domain.ListItem{row("2", "alice", "Eggs"), row("1", "alice", "Dup")})
	assert.True(t, errors.Is(err, domain.ErrAlreadyExists))
	require.Len(t, got, 1)
	assert.Equal(t, "Eggs", got[0].Name)

	items, _ := store.ListByOwner(ctx, "alice")
	assert.Len(t, items, 2)
}

func TestListUpdateScopedByOwner(t *testing.T) {
	ctx := context.Background()
	store := openTemp(t).ListStore()
	_, err := store.InsertMany(ctx, []domain.ListItem{row("1", "alice", "Milk")})
	require.NoError(t, err)

	qty := 3.0
	done := true
	patch := domain.ItemPatch{Quantity: &qty, Completed: &done}

	got, err := store.UpdateOne(ctx, "1", "bob", patch)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = store.UpdateOne(ctx, "1", "alice", patch)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3.0, got[0].Quantity)
	assert.True(t, got[0].Completed)

	got, err = store.UpdateOne(ctx, "missing", "alice", patch)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListDeleteAndOwner(t *testing.T) {
	ctx := context.Background()
	store := openTemp(t).ListStore()
	_, err := store.InsertMany(ctx, []domain.ListItem{
		row("1", "alice", "Milk"), row("2", "alice", "Eggs"), row("3", "bob", "Bread"),
	})
	require.NoError(t, err)

	owner, err := store.OwnerOf(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "bob", owner)
	_, err = store.OwnerOf(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	n, err := store.DeleteMany(ctx, []string{"1", "3", "nope"}, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = store.DeleteMany(ctx, nil, "alice")
	require.NoError(t, err)
	assert.Zero(t, n)

	items, _ := store.ListByOwner(ctx, "bob")
	assert.Len(t, items, 1)
}

func TestListFindByNameAndClear(t *testing.T) {
	ctx := context.Background()
	store := openTemp(t).ListStore()
	done := row("2", "alice", "Eggs")
	done.Completed = true
	_, err := store.InsertMany(ctx, []domain.ListItem{row("1", "alice", "Whole Milk"), done})
	require.NoError(t, err)

	found, err := store.FindByName(ctx, "alice", "  whole milk ")
	require.NoError(t, err)
	assert.Equal(t, "1", found.ID)

	_, err = store.FindByName(ctx, "bob", "whole milk")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	n, err := store.DeleteCompleted(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	items, _ := store.ListByOwner(ctx, "alice")
	require.Len(t, items, 1)
	assert.Equal(t, "Whole Milk", items[0].Name)
}

func TestPantryUpsert(t *testing.T) {
	ctx := context.Background()
	store := openTemp(t).PantryStore()

	err := store.Upsert(ctx, domain.PantryEntry{Name: "flour"})
	assert.True(t, domain.IsKind(err, domain.KindAuthorization))

	require.NoError(t, store.Upsert(ctx, domain.PantryEntry{ID: "p1", OwnerID: "alice", Name: "flour", Quantity: 1, UnitAmount: 500, Unit: "g"}))
	require.NoError(t, store.Upsert(ctx, domain.PantryEntry{OwnerID: "alice", Name: "Butter", Quantity: 1, UnitAmount: 250, Unit: "g"}))
	require.NoError(t, store.Upsert(ctx, domain.PantryEntry{ID: "p1", OwnerID: "alice", Name: "flour", Quantity: 2, UnitAmount: 500, Unit: "g"}))

	entries, err := store.ListAll(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Butter", entries[0].Name)
	assert.NotEmpty(t, entries[0].ID)
	assert.Equal(t, 2.0, entries[1].Quantity)

	none, err := store.ListAll(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "keep.db")
	log := logger.New(logger.LevelOff, nil)

	db, err := Open(path, log)
	require.NoError(t, err)
	_, err = db.ListStore().InsertMany(ctx, []domain.ListItem{row("1", "alice", "Milk")})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path, log)
	require.NoError(t, err)
	defer db.Close()
	items, err := db.ListStore().ListByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
