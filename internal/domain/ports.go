package domain

import "context"

// ListStore persists shopping-list rows. Update and delete are always
// scoped by owner: a row owned by someone else is treated as absent.
type ListStore interface {
	// InsertMany stores items in order. It is not transactional: on
	// failure it returns the rows inserted so far along with the error.
	InsertMany(ctx context.Context, items []ListItem) ([]ListItem, error)
	// UpdateOne applies patch to the row matching id and ownerID and
	// returns the updated rows (zero or one).
	UpdateOne(ctx context.Context, id, ownerID string, patch ItemPatch) ([]ListItem, error)
	// DeleteMany removes the rows matching ids and ownerID and returns how many went.
	DeleteMany(ctx context.Context, ids []string, ownerID string) (int, error)
	ListByOwner(ctx context.Context, ownerID string) ([]ListItem, error)
	// FindByName does a case-insensitive exact match on the item name.
	FindByName(ctx context.Context, ownerID, name string) (*ListItem, error)
	DeleteCompleted(ctx context.Context, ownerID string) (int, error)
}

// OwnerLookup reports who owns a list row regardless of the caller.
// Stores that can answer it let the dispatcher tell "not found" apart
// from "not yours".
type OwnerLookup interface {
	OwnerOf(ctx context.Context, id string) (string, error)
}

// PantryStore holds stock on hand. The core only reads it.
type PantryStore interface {
	ListAll(ctx context.Context, ownerID string) ([]PantryEntry, error)
	Upsert(ctx context.Context, entry PantryEntry) error
}

// RecipeSource provides recipes. Implementations can be in-memory,
// file-based, or API-backed.
type RecipeSource interface {
	List(ctx context.Context) ([]RecipeSummary, error)
	Get(ctx context.Context, id string) (*Recipe, error)
	Search(ctx context.Context, query string) ([]RecipeSummary, error)
}

// ConversationStore keeps live sessions between caller requests.
type ConversationStore interface {
	Save(ctx context.Context, session *ConversationSession) error
	Load(ctx context.Context, id string) (*ConversationSession, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]*ConversationSession, error)
}

// Model is a chat model that can call tools and produce schema-shaped JSON.
type Model interface {
	Converse(ctx context.Context, req ConverseRequest) (*Reply, error)
	GenerateJSON(ctx context.Context, prompt string, schema *Schema) (string, error)
}

// IntentParser converts raw REPL input into structured intents.
type IntentParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}

// Notifier delivers messages to the user.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
