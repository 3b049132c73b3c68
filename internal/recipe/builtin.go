package recipe

import "github.com/hammamikhairi/pantrypal/internal/domain"

func builtins() []*domain.Recipe {
	return []*domain.Recipe{
		chickenAlfredo(),
		vegetableStirFry(),
		pancakes(),
		omelette(),
	}
}

func chickenAlfredo() *domain.Recipe {
	return &domain.Recipe{
		ID:          "chicken-alfredo",
		Name:        "Chicken Alfredo",
		Description: "Creamy spaghetti alfredo with pan-seared chicken.",
		Servings:    2,
		Tags:        []string{"italian", "pasta", "chicken", "comfort"},
		Ingredients: []domain.RecipeIngredient{
			{Name: "spaghetti", Amount: "250 g"},
			{Name: "chicken breast", Amount: "2 medium"},
			{Name: "heavy cream", Amount: "1 cup"},
			{Name: "parmesan cheese", Amount: "1 cup grated"},
			{Name: "butter", Amount: "3 tbsp"},
			{Name: "garlic", Amount: "4 cloves"},
			{Name: "olive oil", Amount: "1 tbsp"},
			{Name: "salt", Amount: "to taste"},
			{Name: "water", Amount: "for boiling"},
		},
		Steps: []string{
			"Bring a large pot of salted water to a boil.",
			"Season the chicken and sear in olive oil, about 6 minutes per side. Rest, then slice.",
			"Cook the spaghetti until al dente. Keep a cup of pasta water.",
			"Melt butter, cook the garlic for a minute, add the cream and reduce for 3 minutes.",
			"Off the heat, stir in the parmesan. Toss with pasta and top with chicken.",
		},
	}
}

func vegetableStirFry() *domain.Recipe {
	return &domain.Recipe{
		ID:          "vegetable-stir-fry",
		Name:        "Vegetable Stir Fry",
		Description: "Fast and crunchy. Screaming hot pan, don't overcrowd it.",
		Servings:    2,
		Tags:        []string{"asian", "vegetables", "quick", "vegan"},
		Ingredients: []domain.RecipeIngredient{
			{Name: "bell pepper", Amount: "1 large"},
			{Name: "broccoli", Amount: "2 cups florets"},
			{Name: "carrot", Amount: "1"},
			{Name: "snap peas", Amount: "1 cup"},
			{Name: "garlic", Amount: "3 cloves"},
			{Name: "soy sauce", Amount: "2 tbsp"},
			{Name: "sesame oil", Amount: "1 tbsp"},
			{Name: "rice", Amount: "1 cup"},
		},
		Steps: []string{
			"Start the rice.",
			"Cut all the vegetables before the pan goes on.",
			"Stir-fry broccoli and carrot for 2 minutes, then pepper and snap peas for 2 more.",
			"Add garlic for 30 seconds, then soy sauce and sesame oil. Serve over rice.",
		},
	}
}

func pancakes() *domain.Recipe {
	return &domain.Recipe{
		ID:          "pancakes",
		Name:        "Pancakes",
		Description: "Fluffy weekend pancakes.",
		Servings:    4,
		Tags:        []string{"breakfast", "sweet", "vegetarian"},
		Ingredients: []domain.RecipeIngredient{
			{Name: "flour", Amount: "1 1/2 cups"},
			{Name: "milk", Amount: "1 1/4 cups"},
			{Name: "eggs", Amount: "2"},
			{Name: "sugar", Amount: "1 tbsp"},
			{Name: "baking powder", Amount: "3 1/2 tsp"},
			{Name: "butter", Amount: "3 tbsp melted"},
		},
		Steps: []string{
			"Whisk the dry ingredients.",
			"Whisk milk, eggs and melted butter, then fold into the dry mix. Lumps are fine.",
			"Cook ladlefuls on a medium pan until bubbles form, flip once.",
		},
	}
}

func omelette() *domain.Recipe {
	return &domain.Recipe{
		ID:          "omelette",
		Name:        "Cheese Omelette",
		Description: "Two-egg omelette, done in five minutes.",
		Servings:    1,
		Tags:        []string{"breakfast", "quick", "vegetarian"},
		Ingredients: []domain.RecipeIngredient{
			{Name: "eggs", Amount: "2"},
			{Name: "cheddar cheese", Amount: "1/4 cup"},
			{Name: "butter", Amount: "1 tbsp"},
			{Name: "water", Amount: "1 tbsp"},
		},
		Steps: []string{
			"Beat the eggs with the water and a pinch of salt.",
			"Melt butter over medium heat and pour in the eggs.",
			"When almost set, add cheese, fold and slide onto a plate.",
		},
	}
}
