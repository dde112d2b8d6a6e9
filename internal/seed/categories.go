// Package seed holds the default data given to new users.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed default_categories.yaml
var defaultCategoriesYAML []byte

// CategorySeed is one default category. Children carry no color of their own.
type CategorySeed struct {
	Name     string         `yaml:"name"`
	Icon     string         `yaml:"icon"`
	Color    string         `yaml:"color"`
	Children []CategorySeed `yaml:"children"`
}

// CategoryCatalog lists the default roots per category type.
type CategoryCatalog struct {
	Income  []CategorySeed `yaml:"income"`
	Expense []CategorySeed `yaml:"expense"`
}

// DefaultCategories parses the embedded catalog.
func DefaultCategories() (*CategoryCatalog, error) {
	return ParseCategoryCatalog(defaultCategoriesYAML)
}

// ParseCategoryCatalog decodes a catalog and checks that every entry has a name.
func ParseCategoryCatalog(data []byte) (*CategoryCatalog, error) {
	var catalog CategoryCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse category catalog: %w", err)
	}
	for _, roots := range [][]CategorySeed{catalog.Income, catalog.Expense} {
		for _, root := range roots {
			if root.Name == "" {
				return nil, fmt.Errorf("category catalog: root without a name")
			}
			for _, child := range root.Children {
				if child.Name == "" {
					return nil, fmt.Errorf("category catalog: child of %q without a name", root.Name)
				}
			}
		}
	}
	return &catalog, nil
}
