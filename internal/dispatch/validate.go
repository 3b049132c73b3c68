package dispatch

import (
	"strings"

	"github.com/hammamikhairi/pantrypal/internal/domain"
)

const opValidate = "dispatch.validate"

// checkShape enforces the per-action structure of req. Nothing here
// touches storage.
func checkShape(req domain.ActionRequest) error {
	switch req.Action {
	case domain.ActionCreate:
		if len(req.Items) == 0 {
			return invalid("create requires at least one item")
		}
	case domain.ActionUpdate:
		if req.ID == "" {
			return invalid("update requires an id")
		}
		if len(req.IDs) > 0 {
			return invalid("update takes a single id, not ids")
		}
		if len(req.Items) != 1 {
			return invalid("update requires exactly one item, got %d", len(req.Items))
		}
	case domain.ActionDelete:
		hasID := req.ID != ""
		hasIDs := len(req.IDs) > 0
		if hasID == hasIDs {
			return invalid("delete requires either id or ids, not both or neither")
		}
		for i, id := range req.IDs {
			if strings.TrimSpace(id) == "" {
				return invalid("ids[%d] is empty", i)
			}
		}
	default:
		return invalid("unknown action %q", req.Action)
	}
	return nil
}

// newItem turns a create draft into a row, filling defaults. Owner, id
// and timestamps are stamped by the caller.
func newItem(d domain.ListItemDraft, idx int) (domain.ListItem, error) {
	item := domain.ListItem{
		Quantity: domain.DefaultQuantity,
		Unit:     domain.DefaultUnit,
		Category: domain.DefaultCategory,
		Priority: domain.DefaultPriority,
	}

	if d.Name == nil || strings.TrimSpace(*d.Name) == "" {
		return item, invalid("items[%d]: name is required", idx)
	}

	patch, err := toPatch(d, idx)
	if err != nil {
		return item, err
	}
	patch.Apply(&item)
	return item, nil
}

// toPatch validates every set field of d and converts it to a patch.
func toPatch(d domain.ListItemDraft, idx int) (domain.ItemPatch, error) {
	var p domain.ItemPatch

	if d.Name != nil {
		name := strings.TrimSpace(*d.Name)
		if name == "" {
			return p, invalid("items[%d]: name must not be empty", idx)
		}
		p.Name = &name
	}
	if d.Quantity != nil {
		if *d.Quantity <= 0 {
			return p, invalid("items[%d]: quantity must be greater than zero, got %v", idx, *d.Quantity)
		}
		q := *d.Quantity
		p.Quantity = &q
	}
	if d.Unit != nil {
		u, ok := domain.ParseUnit(*d.Unit)
		if !ok {
			return p, invalid("items[%d]: unknown unit %q", idx, *d.Unit)
		}
		p.Unit = &u
	}
	if d.Category != nil {
		c, ok := domain.ParseCategory(*d.Category)
		if !ok {
			return p, invalid("items[%d]: unknown category %q", idx, *d.Category)
		}
		p.Category = &c
	}
	if d.Priority != nil {
		pr, ok := domain.ParsePriority(*d.Priority)
		if !ok {
			return p, invalid("items[%d]: unknown priority %q", idx, *d.Priority)
		}
		p.Priority = &pr
	}
	if d.Notes != nil {
		n := *d.Notes
		p.Notes = &n
	}
	if d.EstimatedPrice != nil {
		if *d.EstimatedPrice < 0 {
			return p, invalid("items[%d]: estimated_price must not be negative", idx)
		}
		v := *d.EstimatedPrice
		p.EstimatedPrice = &v
	}
	return p, nil
}

func invalid(format string, args ...any) error {
	return domain.Errorf(domain.KindValidation, opValidate, format, args...)
}
