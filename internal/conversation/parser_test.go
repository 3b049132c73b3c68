package conversation

import (
	"context"
	"testing"

	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/logger"
)

func TestKeywordParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)
	ctx := context.Background()

	tests := []struct {
		input       string
		wantType    domain.IntentType
		wantPayload string
	}{
		{"help", domain.IntentHelp, ""},
		{"?", domain.IntentHelp, ""},

		{"quit", domain.IntentQuit, ""},
		{"EXIT", domain.IntentQuit, ""},

		{"list", domain.IntentShowList, ""},
		{"show list", domain.IntentShowList, ""},

		{"recipes", domain.IntentListRecipes, ""},

		// Recipe checks carry the recipe reference.
		{"check pancakes", domain.IntentCheckRecipe, "pancakes"},
		{"cook Chicken Alfredo", domain.IntentCheckRecipe, "Chicken Alfredo"},
		{"can I make omelette?", domain.IntentCheckRecipe, "omelette"},

		{"add", domain.IntentConfirmAdd, ""},
		{"add them", domain.IntentConfirmAdd, ""},
		{"yes", domain.IntentConfirmAdd, ""},

		{"cancel", domain.IntentCancel, ""},
		{"never mind", domain.IntentCancel, ""},

		{"clear", domain.IntentClearComplete, ""},
		{"clear completed", domain.IntentClearComplete, ""},

		{"done 3", domain.IntentToggleItem, "3"},
		{"x #12", domain.IntentToggleItem, "12"},

		{"new", domain.IntentNewSession, ""},

		// Free text goes to the agent.
		{"add 2 liters of milk", domain.IntentCommand, "add 2 liters of milk"},
		{"  delete the eggs  ", domain.IntentCommand, "delete the eggs"},
		{"done", domain.IntentCommand, "done"},

		{"", domain.IntentUnknown, ""},
		{"   ", domain.IntentUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent, err := parser.Parse(ctx, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if intent.Type != tt.wantType {
				t.Errorf("Parse(%q) type = %s, want %s", tt.input, intent.Type, tt.wantType)
			}
			if intent.Payload != tt.wantPayload {
				t.Errorf("Parse(%q) payload = %q, want %q", tt.input, intent.Payload, tt.wantPayload)
			}
		})
	}
}
