package recipe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/logger"
)

func TestMemorySourceList(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	src := NewMemorySource(log)
	ctx := context.Background()

	recipes, err := src.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recipes) < 2 {
		t.Fatalf("expected at least 2 recipes, got %d", len(recipes))
	}
	for i := 1; i < len(recipes); i++ {
		if recipes[i-1].Name > recipes[i].Name {
			t.Fatalf("list not sorted: %q before %q", recipes[i-1].Name, recipes[i].Name)
		}
	}
}

func TestMemorySourceGet(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	src := NewMemorySource(log)
	ctx := context.Background()

	tests := []struct {
		id      string
		wantErr error
	}{
		{"chicken-alfredo", nil},
		{"pancakes", nil},
		{"nonexistent", domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			r, err := src.Get(ctx, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, r.ID)
			assert.NotEmpty(t, r.Ingredients)
		})
	}
}

func TestMemorySourceSearch(t *testing.T) {
	src := NewMemorySource(logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	got, err := src.Search(ctx, "BREAKFAST")
	require.NoError(t, err)
	ids := make([]string, len(got))
	for i, s := range got {
		ids[i] = s.ID
	}
	assert.ElementsMatch(t, []string{"pancakes", "omelette"}, ids)

	got, _ = src.Search(ctx, "soy sauce")
	require.Len(t, got, 1)
	assert.Equal(t, "vegetable-stir-fry", got[0].ID)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recipes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
recipes:
  - id: shakshuka
    name: Shakshuka
    servings: 2
    tags: [breakfast]
    ingredients:
      - {name: eggs, amount: "4"}
      - {name: canned tomatoes, amount: "1 can"}
    steps:
      - Simmer the tomatoes.
      - Crack in the eggs and cover.
`), 0o644))

	src := NewEmptySource(logger.New(logger.LevelOff, nil))
	n, err := src.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	r, err := src.Get(context.Background(), "shakshuka")
	require.NoError(t, err)
	assert.Equal(t, domain.RecipeIngredient{Name: "canned tomatoes", Amount: "1 can"}, r.Ingredients[1])
	assert.Len(t, r.Steps, 2)
}

func TestLoadFileRejectsNamelessRecipe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("recipes:\n  - id: x\n"), 0o644))

	_, err := NewEmptySource(logger.New(logger.LevelOff, nil)).LoadFile(path)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}
