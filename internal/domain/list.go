// Package domain defines the core types and interfaces for the pantry assistant.
// All other packages depend on domain; domain depends on nothing but uuid.
package domain

import (
	"strings"
	"time"
)

// Unit is the measurement unit of a shopping-list item.
type Unit string

const (
	UnitPieces   Unit = "pieces"
	UnitLbs      Unit = "lbs"
	UnitOz       Unit = "oz"
	UnitCups     Unit = "cups"
	UnitTbsp     Unit = "tbsp"
	UnitTsp      Unit = "tsp"
	UnitGallons  Unit = "gallons"
	UnitLiters   Unit = "liters"
	UnitPackages Unit = "packages"
)

// Units lists every accepted unit in declaration order.
var Units = []Unit{
	UnitPieces, UnitLbs, UnitOz, UnitCups, UnitTbsp,
	UnitTsp, UnitGallons, UnitLiters, UnitPackages,
}

// Category groups items the way a store aisle would.
type Category string

const (
	CategoryProduce    Category = "Produce"
	CategoryDairy      Category = "Dairy"
	CategoryMeat       Category = "Meat"
	CategoryBakery     Category = "Bakery"
	CategoryFrozen     Category = "Frozen"
	CategoryBeverages  Category = "Beverages"
	CategorySnacks     Category = "Snacks"
	CategoryCanned     Category = "Canned Goods"
	CategoryCondiments Category = "Condiments"
	CategoryGrains     Category = "Grains"
	CategorySeasonings Category = "Seasonings"
	CategoryMisc       Category = "Misc"
)

// Categories lists every accepted category in declaration order.
var Categories = []Category{
	CategoryProduce, CategoryDairy, CategoryMeat, CategoryBakery,
	CategoryFrozen, CategoryBeverages, CategorySnacks, CategoryCanned,
	CategoryCondiments, CategoryGrains, CategorySeasonings, CategoryMisc,
}

// Priority is how urgently the user needs the item.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every accepted priority.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Defaults applied to create drafts that omit a field.
const (
	DefaultQuantity = 1.0
	DefaultUnit     = UnitPieces
	DefaultCategory = CategoryMisc
	DefaultPriority = PriorityMedium
)

// ParseUnit matches s against the unit enum, ignoring case and
// surrounding space. The second result is false for unknown values.
func ParseUnit(s string) (Unit, bool) {
	for _, u := range Units {
		if strings.EqualFold(strings.TrimSpace(s), string(u)) {
			return u, true
		}
	}
	return "", false
}

// ParseCategory matches s against the category enum, ignoring case.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, true
		}
	}
	return "", false
}

// ParsePriority matches s against the priority enum, ignoring case.
func ParsePriority(s string) (Priority, bool) {
	for _, p := range Priorities {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, true
		}
	}
	return "", false
}

// ListItem is a persisted shopping-list row. It is owned exclusively by
// OwnerID; every mutation must be scoped by it.
type ListItem struct {
	ID             string
	OwnerID        string
	Name           string
	Quantity       float64
	Unit           Unit
	Category       Category
	Priority       Priority
	Notes          string
	EstimatedPrice *float64
	Completed      bool
	CreatedAt      time.Time
}

// ItemPatch is a partial update. Nil fields are left unchanged.
type ItemPatch struct {
	Name           *string
	Quantity       *float64
	Unit           *Unit
	Category       *Category
	Priority       *Priority
	Notes          *string
	EstimatedPrice *float64
	Completed      *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p ItemPatch) IsEmpty() bool {
	return p.Name == nil && p.Quantity == nil && p.Unit == nil && p.Category == nil &&
		p.Priority == nil && p.Notes == nil && p.EstimatedPrice == nil && p.Completed == nil
}

// Apply copies the set fields of p onto item.
func (p ItemPatch) Apply(item *ListItem) {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		item.Unit = *p.Unit
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Priority != nil {
		item.Priority = *p.Priority
	}
	if p.Notes != nil {
		item.Notes = *p.Notes
	}
	if p.EstimatedPrice != nil {
		v := *p.EstimatedPrice
		item.EstimatedPrice = &v
	}
	if p.Completed != nil {
		item.Completed = *p.Completed
	}
}
