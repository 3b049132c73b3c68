package agent

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/pantrypal/internal/dispatch"
	"github.com/hammamikhairi/pantrypal/internal/domain"
)

// summarize describes what the dispatcher did in one sentence. The same
// text goes back to the model on the next turn, so it names ids.
func summarize(res *dispatch.Result, err error) string {
	if err != nil {
		if res != nil && res.Action == domain.ActionCreate && len(res.Items) > 0 {
			return fmt.Sprintf("Only added %d of %d items (%s). %s",
				len(res.Items), res.Requested, describeItems(res.Items), domain.UserMessage(err))
		}
		return "Failed: " + domain.UserMessage(err)
	}

	switch res.Action {
	case domain.ActionCreate:
		return fmt.Sprintf("Added %s: %s.", plural(len(res.Items), "item"), describeItems(res.Items))
	case domain.ActionUpdate:
		if len(res.Items) == 0 {
			return "No matching item was found to update."
		}
		return fmt.Sprintf("Updated %s.", describeItems(res.Items))
	case domain.ActionDelete:
		if res.Deleted == 0 {
			return "No matching items were found to delete."
		}
		if res.Deleted < res.Requested {
			return fmt.Sprintf("Deleted %d of %d items; the rest were not on the list.", res.Deleted, res.Requested)
		}
		return fmt.Sprintf("Deleted %s.", plural(res.Deleted, "item"))
	}
	return "Done."
}

func describeItems(items []domain.ListItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s (%s %s) [id %s]", it.Name, FormatQuantity(it.Quantity), it.Unit, it.ID))
	}
	return strings.Join(parts, ", ")
}

// renderList writes the owner's list as the model sees it.
func renderList(items []domain.ListItem) string {
	if len(items) == 0 {
		return emptyList
	}
	var b strings.Builder
	for _, it := range items {
		status := "open"
		if it.Completed {
			status = "done"
		}
		fmt.Fprintf(&b, "- id=%s name=%q quantity=%s unit=%s category=%s priority=%s status=%s\n",
			it.ID, it.Name, FormatQuantity(it.Quantity), it.Unit, it.Category, it.Priority, status)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatQuantity prints whole numbers without a decimal point.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
