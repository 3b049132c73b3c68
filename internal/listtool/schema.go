// Package listtool declares the list_control tool offered to the model
// and decodes the arguments the model sends back.
package listtool

import "github.com/hammamikhairi/pantrypal/internal/domain"

const description = "Performs create, update, or delete operations on the user's shopping list. " +
	"The required parameters change based on the selected action."

// Spec returns the list_control declaration. The unit, category and
// priority enums are taken from the domain so the model can only pick
// values the dispatcher accepts.
func Spec() domain.ToolSpec {
	return domain.ToolSpec{
		Name:        domain.ToolName,
		Description: description,
		Parameters:  parameters(),
	}
}

func parameters() *domain.Schema {
	return &domain.Schema{
		Type: domain.TypeObject,
		Properties: map[string]*domain.Schema{
			"action": {
				Type:        domain.TypeString,
				Enum:        []string{string(domain.ActionCreate), string(domain.ActionUpdate), string(domain.ActionDelete)},
				Description: "The action to perform on the shopping list.",
			},
			"id": {
				Type:        domain.TypeString,
				Description: "The id of the item to update or delete. Required for 'update' and single-item 'delete'.",
			},
			"ids": {
				Type:        domain.TypeArray,
				Items:       &domain.Schema{Type: domain.TypeString},
				Description: "Ids for bulk deletion. Used only with 'delete'.",
			},
			"items": {
				Type:        domain.TypeArray,
				Items:       itemSchema(),
				Description: "Items to insert for 'create', or exactly one partial item for 'update'.",
			},
		},
		Required: []string{"action"},
	}
}

func itemSchema() *domain.Schema {
	return &domain.Schema{
		Type: domain.TypeObject,
		Description: "A shopping list item. When updating, only include the fields " +
			"that need to change.",
		Properties: map[string]*domain.Schema{
			"name": {
				Type:        domain.TypeString,
				Description: "The item name. First letter of each word uppercase.",
			},
			"quantity": {
				Type:        domain.TypeNumber,
				Description: "How many units to buy. Must be greater than zero.",
			},
			"unit": {
				Type:        domain.TypeString,
				Enum:        enumStrings(domain.Units),
				Description: "The unit of measurement.",
			},
			"category": {
				Type:        domain.TypeString,
				Enum:        enumStrings(domain.Categories),
				Description: "The store category, picked from the item.",
			},
			"priority": {
				Type:        domain.TypeString,
				Enum:        enumStrings(domain.Priorities),
				Description: "How urgently the item is needed.",
			},
			"notes": {
				Type:        domain.TypeString,
				Description: "Extra notes about the item.",
			},
			"estimated_price": {
				Type:        domain.TypeNumber,
				Description: "Estimated price. Zero or more.",
			},
		},
	}
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
