package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/hammamikhairi/pantrypal/internal/domain"
)

// ListItems returns the owner's list split into open and completed items.
func (e *Engine) ListItems(ctx context.Context, ownerID string) (open, completed []domain.ListItem, err error) {
	items, err := e.stores.List.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, nil, domain.WrapError(domain.KindStorage, "engine.list", err)
	}
	for _, it := range items {
		if it.Completed {
			completed = append(completed, it)
		} else {
			open = append(open, it)
		}
	}
	return open, completed, nil
}

// AddOrIncrement adds draft to the list, or bumps the quantity of an
// item with the same name that is already there.
func (e *Engine) AddOrIncrement(ctx context.Context, ownerID string, draft domain.ListItemDraft) (*domain.ListItem, error) {
	if draft.Name == nil {
		return nil, domain.Errorf(domain.KindValidation, "engine.add", "name is required")
	}

	existing, err := e.stores.List.FindByName(ctx, ownerID, *draft.Name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		res, err := e.dispatcher.Execute(ctx, ownerID, domain.ActionRequest{
			Action: domain.ActionCreate,
			Items:  []domain.ListItemDraft{draft},
		})
		if err != nil {
			return nil, err
		}
		return &res.Items[0], nil
	case err != nil:
		return nil, domain.WrapError(domain.KindStorage, "engine.add", err)
	}

	add := domain.DefaultQuantity
	if draft.Quantity != nil {
		add = *draft.Quantity
	}
	total := existing.Quantity + add
	res, err := e.dispatcher.Execute(ctx, ownerID, domain.ActionRequest{
		Action: domain.ActionUpdate,
		ID:     existing.ID,
		Items:  []domain.ListItemDraft{{Quantity: &total}},
	})
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, fmt.Errorf("item %s vanished: %w", existing.ID, domain.ErrNotFound)
	}
	e.log.Debug("incremented %s to %v", existing.Name, total)
	return &res.Items[0], nil
}

// SetCompleted marks an item done or not done.
func (e *Engine) SetCompleted(ctx context.Context, ownerID, itemID string, done bool) (*domain.ListItem, error) {
	if ownerID == "" {
		return nil, domain.Errorf(domain.KindAuthorization, "engine.complete", "no caller identity")
	}
	rows, err := e.stores.List.UpdateOne(ctx, itemID, ownerID, domain.ItemPatch{Completed: &done})
	if err != nil {
		return nil, domain.WrapError(domain.KindStorage, "engine.complete", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	return &rows[0], nil
}

// ClearCompleted removes the owner's completed items.
func (e *Engine) ClearCompleted(ctx context.Context, ownerID string) (int, error) {
	if ownerID == "" {
		return 0, domain.Errorf(domain.KindAuthorization, "engine.clear", "no caller identity")
	}
	n, err := e.stores.List.DeleteCompleted(ctx, ownerID)
	if err != nil {
		return 0, domain.WrapError(domain.KindStorage, "engine.clear", err)
	}
	e.log.Info("cleared %d completed items for %s", n, ownerID)
	return n, nil
}

// ── Pantry ───────────────────────────────────────────────────────

// Pantry returns the owner's pantry.
func (e *Engine) Pantry(ctx context.Context, ownerID string) ([]domain.PantryEntry, error) {
	return e.stores.Pantry.ListAll(ctx, ownerID)
}

// StockPantry records an entry in the owner's pantry.
func (e *Engine) StockPantry(ctx context.Context, ownerID string, entry domain.PantryEntry) error {
	entry.OwnerID = ownerID
	if entry.UnitAmount == 0 {
		entry.UnitAmount = 1
	}
	if entry.Quantity <= 0 {
		return domain.Errorf(domain.KindValidation, "engine.stock", "quantity must be greater than zero")
	}
	return e.stores.Pantry.Upsert(ctx, entry)
}
