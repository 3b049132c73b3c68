package domain

// IntentType classifies what the user typed at the prompt.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentHelp
	IntentQuit
	IntentShowList
	IntentListRecipes
	IntentCheckRecipe   // payload: recipe id or name
	IntentConfirmAdd    // add the reviewed shortfall to the list
	IntentCancel        // abandon the active flow
	IntentClearComplete // remove completed items
	IntentToggleItem    // payload: 1-based position on the shown list
	IntentNewSession    // forget the current conversation
	IntentCommand       // free text for the list agent
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	case IntentShowList:
		return "show_list"
	case IntentListRecipes:
		return "list_recipes"
	case IntentCheckRecipe:
		return "check_recipe"
	case IntentConfirmAdd:
		return "confirm_add"
	case IntentCancel:
		return "cancel"
	case IntentClearComplete:
		return "clear_completed"
	case IntentToggleItem:
		return "toggle_item"
	case IntentNewSession:
		return "new_session"
	case IntentCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type    IntentType
	Payload string
}
