package matcher

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/hammamikhairi/pantrypal/internal/domain"
)

// CrossCheckMode controls the deterministic second opinion on a verdict.
type CrossCheckMode string

const (
	CrossCheckOff    CrossCheckMode = "off"
	CrossCheckWarn   CrossCheckMode = "warn"
	CrossCheckStrict CrossCheckMode = "strict"
)

// ParseCrossCheckMode maps a config string to a mode.
func ParseCrossCheckMode(s string) (CrossCheckMode, error) {
	switch m := CrossCheckMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", CrossCheckOff:
		return CrossCheckOff, nil
	case CrossCheckWarn, CrossCheckStrict:
		return m, nil
	default:
		return "", fmt.Errorf("unknown cross-check mode %q (want off, warn or strict)", s)
	}
}

// Disagreement is an ingredient where the pantry clearly contradicts
// the model.
type Disagreement struct {
	Ingredient string
	Detail     string
}

var leadingNumber = regexp.MustCompile(`^\s*(\d+/\d+|\d+(?:\.\d+)?)\s*(.*)$`)

// crossCheck flags ingredients the verdict calls available although no
// pantry entry resembles them, or whose counted amount plainly exceeds
// stock. Ambiguous cases are left to the model.
func crossCheck(recipe *domain.Recipe, pantry []domain.PantryEntry, v *domain.Verdict, staples map[string]bool) []Disagreement {
	listed := make(map[string]bool, len(v.MissingOrInsufficient))
	for _, it := range v.MissingOrInsufficient {
		listed[normalize(it.Name)] = true
	}

	names := make([]string, len(pantry))
	for i, e := range pantry {
		names[i] = normalize(e.Name)
	}

	var out []Disagreement
	for _, ing := range recipe.Ingredients {
		key := normalize(ing.Name)
		if staples[key] || listed[key] || listedFuzzy(key, listed) {
			continue
		}

		idx := bestMatch(key, names)
		if idx < 0 {
			out = append(out, Disagreement{Ingredient: ing.Name, Detail: "no pantry entry resembles it"})
			continue
		}

		need, unit, ok := parseAmount(ing.Amount)
		if !ok {
			continue
		}
		entry := pantry[idx]
		if !countable(unit, entry.Unit) {
			continue
		}
		have := entry.Quantity * entry.UnitAmount
		if need > have {
			out = append(out, Disagreement{
				Ingredient: ing.Name,
				Detail:     fmt.Sprintf("needs %s but pantry has %s", fmtNum(need), fmtNum(have)),
			})
		}
	}
	return out
}

// bestMatch returns the index of the pantry name closest to ingredient,
// trying both directions so "egg" finds "eggs" and "eggs" finds "egg".
func bestMatch(ingredient string, names []string) int {
	if len(names) == 0 || ingredient == "" {
		return -1
	}
	for i, n := range names {
		if n == ingredient || singular(n) == singular(ingredient) {
			return i
		}
	}
	if matches := fuzzy.Find(singular(ingredient), names); len(matches) > 0 {
		return matches[0].Index
	}
	for i, n := range names {
		if len(fuzzy.Find(singular(n), []string{ingredient})) > 0 {
			return i
		}
	}
	return -1
}

func listedFuzzy(key string, listed map[string]bool) bool {
	for name := range listed {
		if singular(name) == singular(key) {
			return true
		}
	}
	return false
}

func singular(s string) string {
	switch {
	case strings.HasSuffix(s, "ies") && len(s) > 3:
		return s[:len(s)-3] + "y"
	case strings.HasSuffix(s, "oes") && len(s) > 3:
		return s[:len(s)-2]
	case strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss") && len(s) > 1:
		return s[:len(s)-1]
	}
	return s
}

// parseAmount reads the leading number of a free-text amount.
func parseAmount(amount string) (float64, string, bool) {
	m := leadingNumber.FindStringSubmatch(amount)
	if m == nil {
		return 0, "", false
	}
	var n float64
	if num, den, ok := strings.Cut(m[1], "/"); ok {
		a, err1 := strconv.ParseFloat(num, 64)
		b, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || b == 0 {
			return 0, "", false
		}
		n = a / b
	} else {
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, "", false
		}
		n = f
	}
	return n, normalize(m[2]), true
}

// countable reports whether a recipe unit and a pantry unit can be
// compared as plain numbers.
func countable(recipeUnit, pantryUnit string) bool {
	r := singular(normalize(recipeUnit))
	p := singular(normalize(pantryUnit))
	if r == p {
		return true
	}
	isCount := func(u string) bool {
		switch u {
		case "", "piece", "pc", "whole", "item", "unit":
			return true
		}
		return false
	}
	return isCount(p) && (isCount(r) || !strings.ContainsAny(r, "0123456789") && len(strings.Fields(r)) == 1 && !knownMeasure(r))
}

func knownMeasure(u string) bool {
	switch u {
	case "g", "gram", "kg", "kilogram", "mg", "lb", "lbs", "oz", "ounce", "cup", "tbsp", "tablespoon",
		"tsp", "teaspoon", "ml", "l", "liter", "litre", "gallon", "pinch", "clove", "slice", "can", "package":
		return true
	}
	return false
}
