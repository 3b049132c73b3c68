package domain

// ToolName is the only tool the list agent may call.
const ToolName = "list_control"

// Action is the mutation a list_control call asks for.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ToolCall is a function call produced by the model. Args is the raw
// argument object; it is never trusted until decoded and validated.
type ToolCall struct {
	ID   string // provider call id, empty when the provider has none
	Name string
	Args map[string]any
}

// ListItemDraft is an item as described by the model. Every field is
// optional on the wire; which ones are required depends on the action.
// Enum fields stay raw strings until validation.
type ListItemDraft struct {
	Name           *string  `json:"name,omitempty"`
	Quantity       *float64 `json:"quantity,omitempty"`
	Unit           *string  `json:"unit,omitempty"`
	Category       *string  `json:"category,omitempty"`
	Priority       *string  `json:"priority,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
	EstimatedPrice *float64 `json:"estimated_price,omitempty"`
}

// ActionRequest is the decoded argument object of a list_control call.
type ActionRequest struct {
	Action Action          `json:"action"`
	ID     string          `json:"id,omitempty"`
	IDs    []string        `json:"ids,omitempty"`
	Items  []ListItemDraft `json:"items,omitempty"`
}
