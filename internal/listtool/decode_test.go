package listtool

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/pantrypal/internal/domain"
)

// argsFromJSON mimics what a provider hands back: a decoded JSON object.
func argsFromJSON(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestDecodeCreate(t *testing.T) {
	req, err := Decode(argsFromJSON(t, `{
		"action": "create",
		"items": [
			{"name": "Chicken Breast", "quantity": 2, "unit": "lbs", "category": "Meat"},
			{"name": "Milk"}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, domain.ActionCreate, req.Action)
	require.Len(t, req.Items, 2)
	assert.Equal(t, "Chicken Breast", *req.Items[0].Name)
	assert.Equal(t, 2.0, *req.Items[0].Quantity)
	assert.Equal(t, "lbs", *req.Items[0].Unit)
	assert.Nil(t, req.Items[1].Quantity)
	assert.Nil(t, req.Items[1].Unit)
}

func TestDecodeIgnoresOwnerAndUnknownKeys(t *testing.T) {
	req, err := Decode(argsFromJSON(t, `{
		"action": "delete",
		"id": "abc",
		"owner_id": "someone-else",
		"user_id": "someone-else",
		"extra": {"nested": true}
	}`))
	require.NoError(t, err)
	assert.Equal(t, domain.ActionRequest{Action: domain.ActionDelete, ID: "abc"}, req)
}

func TestDecodeAliases(t *testing.T) {
	req, err := Decode(argsFromJSON(t, `{
		"action": "create",
		"data": [{"item_name": "Eggs", "quantity": 12}]
	}`))
	require.NoError(t, err)
	require.Len(t, req.Items, 1)
	assert.Equal(t, "Eggs", *req.Items[0].Name)
}

func TestDecodeSingleObjectItems(t *testing.T) {
	req, err := Decode(argsFromJSON(t, `{"action": "update", "id": "x", "items": {"quantity": 3}}`))
	require.NoError(t, err)
	require.Len(t, req.Items, 1)
	assert.Equal(t, 3.0, *req.Items[0].Quantity)
}

func TestDecodeTypeMismatch(t *testing.T) {
	tests := []struct {
		name string
		args string
		want string
	}{
		{"missing action", `{"id": "x"}`, "action is required"},
		{"action not string", `{"action": 3}`, "action must be a string"},
		{"ids not array", `{"action": "delete", "ids": "a,b"}`, "ids must be a array of strings"},
		{"id in ids not string", `{"action": "delete", "ids": ["a", 2]}`, "ids[1] must be a string"},
		{"items scalar", `{"action": "create", "items": "milk"}`, "items must be a array of objects"},
		{"quantity string", `{"action": "create", "items": [{"name": "Milk", "quantity": "two"}]}`, "items[0].quantity must be a number"},
		{"name number", `{"action": "create", "items": [{"name": 5}]}`, "items[0].name must be a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(argsFromJSON(t, tt.args))
			require.Error(t, err)
			assert.True(t, domain.IsKind(err, domain.KindValidation))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSpecEnumsMatchDomain(t *testing.T) {
	spec := Spec()
	assert.Equal(t, domain.ToolName, spec.Name)

	item := spec.Parameters.Properties["items"].Items
	assert.Len(t, item.Properties["unit"].Enum, len(domain.Units))
	assert.Len(t, item.Properties["category"].Enum, len(domain.Categories))
	assert.Equal(t, []string{"low", "medium", "high"}, item.Properties["priority"].Enum)
	assert.Equal(t, []string{"action"}, spec.Parameters.Required)
}
