package gemini

import (
	"strings"

	"google.golang.org/genai"

	"github.com/hammamikhairi/pantrypal/internal/domain"
)

// toContents maps the transcript to genai contents. A tool turn is a
// model function call answered by a user function response carrying
// the summary text.
func toContents(turns []domain.ConversationTurn) []*genai.Content {
	out := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		switch {
		case t.Role == domain.RoleUser:
			out = append(out, genai.NewContentFromText(t.Text, genai.RoleUser))
		case t.ToolCall != nil:
			args := t.ToolCall.Args
			if args == nil {
				args = map[string]any{}
			}
			out = append(out,
				genai.NewContentFromParts([]*genai.Part{
					genai.NewPartFromFunctionCall(t.ToolCall.Name, args),
				}, genai.RoleModel),
				genai.NewContentFromParts([]*genai.Part{
					genai.NewPartFromFunctionResponse(t.ToolCall.Name, map[string]any{"result": t.Text}),
				}, genai.RoleUser),
			)
		default:
			out = append(out, genai.NewContentFromText(t.Text, genai.RoleModel))
		}
	}
	return out
}

func toTools(specs []domain.ToolSpec) []*genai.Tool {
	if len(specs) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, 0, len(specs))
	for _, s := range specs {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        s.Name,
			Description: s.Description,
			Parameters:  toSchema(s.Parameters),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

func toSchema(s *domain.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	g := &genai.Schema{
		Type:        schemaType(s.Type),
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
		Items:       toSchema(s.Items),
	}
	if s.Nullable {
		n := true
		g.Nullable = &n
	}
	if len(s.Properties) > 0 {
		g.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, p := range s.Properties {
			g.Properties[name] = toSchema(p)
		}
	}
	return g
}

func schemaType(t domain.SchemaType) genai.Type {
	switch t {
	case domain.TypeObject:
		return genai.TypeObject
	case domain.TypeArray:
		return genai.TypeArray
	case domain.TypeNumber:
		return genai.TypeNumber
	case domain.TypeInteger:
		return genai.TypeInteger
	case domain.TypeBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

// fromResponse reads text and function calls from the first candidate.
func fromResponse(resp *genai.GenerateContentResponse) *domain.Reply {
	reply := &domain.Reply{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return reply
	}
	var text strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil {
			continue
		}
		if p.FunctionCall != nil {
			args := p.FunctionCall.Args
			if args == nil {
				args = map[string]any{}
			}
			reply.ToolCalls = append(reply.ToolCalls, domain.ToolCall{
				ID:   p.FunctionCall.ID,
				Name: p.FunctionCall.Name,
				Args: args,
			})
			continue
		}
		if p.Text != "" && !p.Thought {
			text.WriteString(p.Text)
		}
	}
	reply.Text = text.String()
	return reply
}
