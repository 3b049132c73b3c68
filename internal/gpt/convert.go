package gpt

import (
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/hammamikhairi/pantrypal/internal/domain"
)

// toMessages renders the transcript. A model turn that called the tool
// becomes an assistant tool call followed by the tool's result, which is
// the shape the API expects on the next request.
func toMessages(system string, turns []domain.ConversationTurn) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	if system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}

	for i, t := range turns {
		switch {
		case t.Role == domain.RoleUser:
			msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: t.Text})
		case t.ToolCall != nil:
			id := t.ToolCall.ID
			if id == "" {
				id = fmt.Sprintf("call_%d", i)
			}
			args, err := json.Marshal(t.ToolCall.Args)
			if err != nil {
				args = []byte("{}")
			}
			msgs = append(msgs,
				openai.ChatCompletionMessage{
					Role: openai.ChatMessageRoleAssistant,
					ToolCalls: []openai.ToolCall{{
						ID:   id,
						Type: openai.ToolTypeFunction,
						Function: openai.FunctionCall{
							Name:      t.ToolCall.Name,
							Arguments: string(args),
						},
					}},
				},
				openai.ChatCompletionMessage{
					Role:       openai.ChatMessageRoleTool,
					Content:    t.Text,
					ToolCallID: id,
				},
			)
		default:
			msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: t.Text})
		}
	}
	return msgs
}

func toTools(specs []domain.ToolSpec) []openai.Tool {
	if len(specs) == 0 {
		return nil
	}
	tools := make([]openai.Tool, 0, len(specs))
	for _, s := range specs {
		var params any
		if s.Parameters != nil {
			params = toDefinition(s.Parameters)
		}
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        s.Name,
				Description: s.Description,
				Parameters:  params,
			},
		})
	}
	return tools
}

// toDefinition converts a domain schema to go-openai's JSON schema type.
// Nullable strings are left as plain strings; the decoder treats an
// empty value as null.
func toDefinition(s *domain.Schema) jsonschema.Definition {
	d := jsonschema.Definition{
		Type:        dataType(s.Type),
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
	}
	if len(s.Properties) > 0 {
		d.Properties = make(map[string]jsonschema.Definition, len(s.Properties))
		for name, p := range s.Properties {
			d.Properties[name] = toDefinition(p)
		}
	}
	if s.Items != nil {
		items := toDefinition(s.Items)
		d.Items = &items
	}
	return d
}

func dataType(t domain.SchemaType) jsonschema.DataType {
	switch t {
	case domain.TypeObject:
		return jsonschema.Object
	case domain.TypeArray:
		return jsonschema.Array
	case domain.TypeNumber:
		return jsonschema.Number
	case domain.TypeInteger:
		return jsonschema.Integer
	case domain.TypeBoolean:
		return jsonschema.Boolean
	default:
		return jsonschema.String
	}
}
