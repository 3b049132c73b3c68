package matcher

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/pantrypal/internal/domain"
)

const promptHeader = `You are an intelligent pantry manager. Decide whether the user has enough ingredients in their pantry to cook a recipe.`

const promptTask = `Your task:
1. For each recipe ingredient, find the best matching pantry item. Matching is fuzzy ("egg" matches "eggs").
2. Compare the amount the recipe needs with the amount available. Available amount is quantity x unit amount.
   Use best-effort unit reasoning; if units can't be compared, assume a simple count.
3. Decide whether the user can cook the recipe.
4. If not, list each missing or insufficient ingredient.

Rules:
- An ingredient with no pantry match is "missing" with shortfall null.
- An ingredient that is present but short is "insufficient" with shortfall describing the gap in the recipe's own units (e.g. "1 egg").
- Never list these always-available staples: %s.
- If canCook is true, missingOrInsufficient must be empty. If it is false, it must not be empty.
- Reply with JSON only.`

// buildPrompt renders recipe and pantry into the feasibility prompt.
func buildPrompt(recipe *domain.Recipe, pantry []domain.PantryEntry, staples []string) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	fmt.Fprintf(&b, "\n\nRecipe: %s\n\nRecipe ingredients:\n", recipe.Name)
	for _, ing := range recipe.Ingredients {
		if ing.Amount == "" {
			fmt.Fprintf(&b, "- %s\n", ing.Name)
			continue
		}
		fmt.Fprintf(&b, "- %s (needs: %s)\n", ing.Name, ing.Amount)
	}

	b.WriteString("\nPantry contents:\n")
	if len(pantry) == 0 {
		b.WriteString("- (empty)\n")
	}
	for _, e := range pantry {
		fmt.Fprintf(&b, "- %s: quantity %s x %s %s\n", e.Name, fmtNum(e.Quantity), fmtNum(e.UnitAmount), e.Unit)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, promptTask, strings.Join(staples, ", "))
	return b.String()
}

func fmtNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// verdictSchema is the response schema handed to the model.
func verdictSchema() *domain.Schema {
	return &domain.Schema{
		Type: domain.TypeObject,
		Properties: map[string]*domain.Schema{
			"canCook": {
				Type:        domain.TypeBoolean,
				Description: "True only if every ingredient is available in sufficient amount.",
			},
			"missingOrInsufficient": {
				Type: domain.TypeArray,
				Items: &domain.Schema{
					Type: domain.TypeObject,
					Properties: map[string]*domain.Schema{
						"name": {Type: domain.TypeString, Description: "The ingredient name as written in the recipe."},
						"reason": {
							Type: domain.TypeString,
							Enum: []string{string(domain.ReasonMissing), string(domain.ReasonInsufficient)},
						},
						"shortfall": {
							Type:        domain.TypeString,
							Nullable:    true,
							Description: "How much more is needed, in the recipe's units. Null when missing.",
						},
					},
					Required: []string{"name", "reason", "shortfall"},
				},
			},
		},
		Required: []string{"canCook", "missingOrInsufficient"},
	}
}
