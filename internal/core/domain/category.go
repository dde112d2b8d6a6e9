package domain

// CategoryType separates income categories from expense categories.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// IsValid reports whether t is income or expense.
func (t CategoryType) IsValid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category labels transactions and budgets. Only one level of nesting is used.
type Category struct {
	CategoryID string       `json:"categoryID"`
	UserID     string       `json:"userID"`
	Name       string       `json:"name"`
	Type       CategoryType `json:"type"`
	ParentID   *string      `json:"parentID,omitempty"`
	Icon       string       `json:"icon"`
	Color      string       `json:"color"`
	IsSystem   bool         `json:"isSystem"`
	IsActive   bool         `json:"isActive"`
	SortOrder  int          `json:"sortOrder"`
	Children   []Category   `json:"children,omitempty"`
	AuditFields
}

// IsRoot reports whether c has no parent.
func (c Category) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == ""
}

// BuildCategoryTree nests children under their roots, keeping the input order
// at both levels. Children whose root is not in cats are dropped.
func BuildCategoryTree(cats []Category) []Category {
	rootIndex := make(map[string]int)
	roots := make([]Category, 0)
	for _, c := range cats {
		if c.IsRoot() {
			c.Children = []Category{}
			rootIndex[c.CategoryID] = len(roots)
			roots = append(roots, c)
		}
	}
	for _, c := range cats {
		if c.IsRoot() {
			continue
		}
		if i, ok := rootIndex[*c.ParentID]; ok {
			roots[i].Children = append(roots[i].Children, c)
		}
	}
	return roots
}
