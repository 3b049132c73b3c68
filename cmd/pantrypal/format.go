package main

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/pantrypal/internal/agent"
	"github.com/hammamikhairi/pantrypal/internal/domain"
)

// formatList numbers open items first, then completed ones, matching the
// positions "done <n>" refers to.
func formatList(open, done []domain.ListItem) string {
	if len(open)+len(done) == 0 {
		return "Your shopping list is empty.\n"
	}
	var b strings.Builder
	n := 0
	for _, it := range open {
		n++
		fmt.Fprintf(&b, "%2d. [ ] %s\n", n, formatItem(it))
	}
	for _, it := range done {
		n++
		fmt.Fprintf(&b, "%2d. [x] %s\n", n, formatItem(it))
	}
	return b.String()
}

func formatItem(it domain.ListItem) string {
	s := fmt.Sprintf("%s (%s %s, %s)", it.Name, agent.FormatQuantity(it.Quantity), it.Unit, it.Category)
	if it.Priority == domain.PriorityHigh {
		s += " !"
	}
	if it.Notes != "" {
		s += " - " + it.Notes
	}
	return s
}

func formatRecipes(recipes []domain.RecipeSummary) string {
	if len(recipes) == 0 {
		return "No recipes available.\n"
	}
	var b strings.Builder
	for _, r := range recipes {
		fmt.Fprintf(&b, "%-20s %s (serves %d)\n", r.ID, r.Name, r.Servings)
	}
	return b.String()
}

func formatPantry(entries []domain.PantryEntry) string {
	if len(entries) == 0 {
		return "Your pantry is empty.\n"
	}
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(formatPantryEntry(e))
		b.WriteByte('\n')
	}
	return b.String()
}

func formatPantryEntry(e domain.PantryEntry) string {
	if e.UnitAmount == 1 || e.UnitAmount == 0 {
		return strings.TrimSpace(fmt.Sprintf("%s: %s %s", e.Name, agent.FormatQuantity(e.Quantity), e.Unit))
	}
	return strings.TrimSpace(fmt.Sprintf("%s: %s x %s %s", e.Name,
		agent.FormatQuantity(e.Quantity), agent.FormatQuantity(e.UnitAmount), e.Unit))
}

func formatVerdict(r *domain.Recipe, v *domain.Verdict) string {
	if v.CanCook {
		return fmt.Sprintf("You have everything for %s.\n", r.Name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s needs:\n", r.Name)
	for _, m := range v.MissingOrInsufficient {
		b.WriteString("  - " + formatMissing(m) + "\n")
	}
	return b.String()
}

func formatMissing(m domain.MissingItem) string {
	if m.Reason == domain.ReasonInsufficient && m.Shortfall != nil {
		return fmt.Sprintf("%s (short by %s)", m.Name, *m.Shortfall)
	}
	return fmt.Sprintf("%s (%s)", m.Name, m.Reason)
}
