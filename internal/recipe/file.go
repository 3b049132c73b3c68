package recipe

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/pantrypal/internal/domain"
)

// fileFormat is the layout of a recipes YAML file:
//
//	recipes:
//	  - id: shakshuka
//	    name: Shakshuka
//	    ingredients:
//	      - {name: eggs, amount: "4"}
type fileFormat struct {
	Recipes []*domain.Recipe `yaml:"recipes"`
}

// LoadFile adds every recipe in the YAML file at path to s and returns
// how many were loaded.
func (s *MemorySource) LoadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read recipes: %w", err)
	}

	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return 0, fmt.Errorf("parse recipes %s: %w", path, err)
	}

	for i, r := range f.Recipes {
		if err := s.Add(r); err != nil {
			return i, fmt.Errorf("recipe %d in %s: %w", i+1, path, err)
		}
	}
	s.log.Info("loaded %d recipes from %s", len(f.Recipes), path)
	return len(f.Recipes), nil
}
