package listtool

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hammamikhairi/pantrypal/internal/domain"
)

const opDecode = "listtool.Decode"

// Decode converts raw tool-call arguments into an ActionRequest. It checks
// types only; action-specific rules are the dispatcher's job. Unknown keys,
// including any attempt to name an owner, are ignored.
//
// "data" and "item_name" are accepted as aliases of "items" and "name".
func Decode(args map[string]any) (domain.ActionRequest, error) {
	var req domain.ActionRequest

	action, ok, err := stringField(args, "action")
	if err != nil {
		return req, err
	}
	if !ok || action == "" {
		return req, domain.Errorf(domain.KindValidation, opDecode, "action is required")
	}
	req.Action = domain.Action(action)

	if req.ID, _, err = stringField(args, "id"); err != nil {
		return req, err
	}

	if raw, ok := args["ids"]; ok && raw != nil {
		list, isList := raw.([]any)
		if !isList {
			return req, typeError("ids", "array of strings", raw)
		}
		for i, v := range list {
			s, isStr := v.(string)
			if !isStr {
				return req, typeError(fmt.Sprintf("ids[%d]", i), "string", v)
			}
			req.IDs = append(req.IDs, s)
		}
	}

	rawItems, ok := args["items"]
	if !ok {
		rawItems, ok = args["data"]
	}
	if ok && rawItems != nil {
		list, isList := rawItems.([]any)
		if !isList {
			// A lone object is common enough from models to accept.
			obj, isObj := rawItems.(map[string]any)
			if !isObj {
				return req, typeError("items", "array of objects", rawItems)
			}
			list = []any{obj}
		}
		for i, v := range list {
			obj, isObj := v.(map[string]any)
			if !isObj {
				return req, typeError(fmt.Sprintf("items[%d]", i), "object", v)
			}
			draft, err := decodeDraft(obj, i)
			if err != nil {
				return req, err
			}
			req.Items = append(req.Items, draft)
		}
	}

	return req, nil
}

func decodeDraft(obj map[string]any, idx int) (domain.ListItemDraft, error) {
	var d domain.ListItemDraft
	prefix := fmt.Sprintf("items[%d].", idx)

	name, ok, err := stringField(obj, "name")
	if err != nil {
		return d, prefixed(prefix, err)
	}
	if !ok {
		if name, ok, err = stringField(obj, "item_name"); err != nil {
			return d, prefixed(prefix, err)
		}
	}
	if ok {
		d.Name = &name
	}

	for key, dst := range map[string]**string{
		"unit":     &d.Unit,
		"category": &d.Category,
		"priority": &d.Priority,
		"notes":    &d.Notes,
	} {
		s, ok, err := stringField(obj, key)
		if err != nil {
			return d, prefixed(prefix, err)
		}
		if ok {
			*dst = &s
		}
	}

	for key, dst := range map[string]**float64{
		"quantity":        &d.Quantity,
		"estimated_price": &d.EstimatedPrice,
	} {
		f, ok, err := numberField(obj, key)
		if err != nil {
			return d, prefixed(prefix, err)
		}
		if ok {
			*dst = &f
		}
	}

	return d, nil
}

// stringField returns obj[key] as a string. A missing key or JSON null
// gives ok=false.
func stringField(obj map[string]any, key string) (string, bool, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return "", false, nil
	}
	s, isStr := raw.(string)
	if !isStr {
		return "", false, typeError(key, "string", raw)
	}
	return s, true, nil
}

func numberField(obj map[string]any, key string) (float64, bool, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, true, nil
	case float32:
		return float64(v), true, nil
	case int:
		return float64(v), true, nil
	case int32:
		return float64(v), true, nil
	case int64:
		return float64(v), true, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false, typeError(key, "number", raw)
		}
		return f, true, nil
	default:
		return 0, false, typeError(key, "number", raw)
	}
}

func typeError(field, want string, got any) error {
	return domain.Errorf(domain.KindValidation, opDecode, "%s must be a %s, got %T", field, want, got)
}

func prefixed(prefix string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return domain.Errorf(de.Kind, de.Op, "%s%s", prefix, de.Msg)
	}
	return err
}
