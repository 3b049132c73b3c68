package domain

// SchemaType is a JSON-schema primitive understood by every model backend.
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
)

// Schema is a provider-neutral subset of JSON schema. Backends convert
// it to their native declaration types.
type Schema struct {
	Type        SchemaType
	Description string
	Enum        []string
	Properties  map[string]*Schema
	Required    []string
	Items       *Schema
	Nullable    bool
}

// ToolSpec declares a function the model may call.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  *Schema
}

// ConverseRequest is one tool-enabled chat call.
type ConverseRequest struct {
	System string
	Turns  []ConversationTurn
	Tools  []ToolSpec
}

// Reply is what the model returned. A reply with no tool calls is a
// plain text answer.
type Reply struct {
	Text      string
	ToolCalls []ToolCall
}
