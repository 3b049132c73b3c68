package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/pantrypal/internal/domain"
)

func TestFormatList(t *testing.T) {
	assert.Equal(t, "Your shopping list is empty.\n", formatList(nil, nil))

	open := []domain.ListItem{{Name: "Milk", Quantity: 2, Unit: domain.UnitLiters, Category: domain.CategoryDairy, Priority: domain.PriorityHigh}}
	done := []domain.ListItem{{Name: "Eggs", Quantity: 12, Unit: domain.UnitPieces, Category: domain.CategoryDairy, Notes: "free range"}}
	got := formatList(open, done)
	assert.Equal(t, " 1. [ ] Milk (2 liters, Dairy) !\n 2. [x] Eggs (12 pieces, Dairy) - free range\n", got)
}

func TestFormatVerdict(t *testing.T) {
	r := &domain.Recipe{Name: "Pancakes"}
	assert.Equal(t, "You have everything for Pancakes.\n", formatVerdict(r, &domain.Verdict{CanCook: true}))

	short := "1 egg"
	v := &domain.Verdict{MissingOrInsufficient: []domain.MissingItem{
		{Name: "eggs", Reason: domain.ReasonInsufficient, Shortfall: &short},
		{Name: "flour", Reason: domain.ReasonMissing},
	}}
	assert.Equal(t, "Pancakes needs:\n  - eggs (short by 1 egg)\n  - flour (missing)\n", formatVerdict(r, v))
}

func TestFormatPantryEntry(t *testing.T) {
	assert.Equal(t, "flour: 2 x 500 g", formatPantryEntry(domain.PantryEntry{Name: "flour", Quantity: 2, UnitAmount: 500, Unit: "g"}))
	assert.Equal(t, "eggs: 6", formatPantryEntry(domain.PantryEntry{Name: "eggs", Quantity: 6, UnitAmount: 1}))
}

func TestParsePantryArgs(t *testing.T) {
	e, err := parsePantryArgs([]string{"flour", "2", "g"}, 500)
	require.NoError(t, err)
	assert.Equal(t, domain.PantryEntry{Name: "flour", Quantity: 2, UnitAmount: 500, Unit: "g"}, e)

	e, err = parsePantryArgs([]string{"eggs", "6"}, 1)
	require.NoError(t, err)
	assert.Empty(t, e.Unit)

	for _, args := range [][]string{{"flour", "lots"}, {"flour", "-1"}, {" ", "1"}, {"flour"}} {
		_, err := parsePantryArgs(args, 1)
		assert.Error(t, err, "args %v", args)
	}
	_, err = parsePantryArgs([]string{"flour", "1"}, 0)
	assert.Error(t, err)
}
