package domain

// Recipe is a catalogue entry. Ingredient amounts are free text
// ("2 cups", "a pinch") and are interpreted by the matcher.
type Recipe struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Servings    int                `yaml:"servings"`
	Ingredients []RecipeIngredient `yaml:"ingredients"`
	Steps       []string           `yaml:"steps"`
	Tags        []string           `yaml:"tags"`
}

// RecipeIngredient is one line of a recipe's ingredient list.
type RecipeIngredient struct {
	Name   string `yaml:"name"`
	Amount string `yaml:"amount"`
}

// RecipeSummary is a lightweight view used in listings.
type RecipeSummary struct {
	ID          string
	Name        string
	Description string
	Servings    int
	Tags        []string
}

// Summary returns the listing view of r.
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Servings:    r.Servings,
		Tags:        r.Tags,
	}
}

// PantryEntry is stock on hand. Total amount is Quantity × UnitAmount Unit,
// e.g. 2 × 500 g.
type PantryEntry struct {
	ID         string
	OwnerID    string
	Name       string
	Quantity   float64
	UnitAmount float64
	Unit       string
}

// MissingReason says why an ingredient blocks a recipe.
type MissingReason string

const (
	ReasonMissing      MissingReason = "missing"
	ReasonInsufficient MissingReason = "insufficient"
)

// MissingItem is one entry of a feasibility shortfall. Shortfall is set
// if and only if Reason is insufficient.
type MissingItem struct {
	Name      string        `json:"name"`
	Reason    MissingReason `json:"reason"`
	Shortfall *string       `json:"shortfall"`
}

// Verdict is the matcher's answer for one recipe against one pantry
// snapshot. CanCook implies MissingOrInsufficient is empty.
type Verdict struct {
	CanCook               bool          `json:"canCook"`
	MissingOrInsufficient []MissingItem `json:"missingOrInsufficient"`
}
