package categories

import (
	"strings"
	"testing"

	"github.com/Veraticus/spice-ledger/internal/model"
)

// Builder provides a fluent interface for constructing test categories.
type Builder interface {
	// WithCategory adds a single category to the builder.
	WithCategory(name CategoryName) Builder

	// WithCategories adds multiple categories to the builder.
	WithCategories(names ...CategoryName) Builder

	// WithBasicCategories adds the minimal set of categories commonly used in tests.
	WithBasicCategories() Builder

	// WithFixture adds categories from a predefined fixture.
	WithFixture(fixture Fixture) Builder

	// Build returns the categories in the order they were added.
	Build() Categories

	// BuildMap returns the categories keyed by name.
	BuildMap() CategoryMap
}

// CategoryName represents a strongly-typed category name.
type CategoryName string

// String returns the string representation of the category name.
func (c CategoryName) String() string {
	return string(c)
}

// Common category names used across tests.
const (
	CategorySalary        CategoryName = "Salary"
	CategoryGifts         CategoryName = "Gifts"
	CategoryFreelance     CategoryName = "Freelance"
	CategoryFood          CategoryName = "Food"
	CategoryTransport     CategoryName = "Transport"
	CategoryHousing       CategoryName = "Housing"
	CategoryEntertainment CategoryName = "Entertainment"
	CategoryUtilities     CategoryName = "Utilities"
)

var incomeNames = map[CategoryName]bool{
	CategorySalary:    true,
	CategoryGifts:     true,
	CategoryFreelance: true,
}

var colors = map[CategoryName]string{
	CategorySalary:        "#4ECDC4",
	CategoryGifts:         "#95E1D3",
	CategoryFreelance:     "#A8E6CF",
	CategoryFood:          "#FF6B6B",
	CategoryTransport:     "#FFE66D",
	CategoryHousing:       "#6C5CE7",
	CategoryEntertainment: "#FD79A8",
	CategoryUtilities:     "#74B9FF",
}

// Category returns the deterministic test category for name. Unknown names
// become expense categories.
func Category(name CategoryName) model.Category {
	status := model.CategoryTypeExpense
	if incomeNames[name] {
		status = model.CategoryTypeIncome
	}
	color, ok := colors[name]
	if !ok {
		color = "#B2BEC3"
	}
	return model.Category{
		ID:     "cat-" + strings.ToLower(strings.ReplaceAll(name.String(), " ", "-")),
		Name:   name.String(),
		Status: status,
		Color:  color,
		Icon:   strings.ToLower(name.String()),
	}
}

// Categories represents a collection of test categories.
type Categories []model.Category

// Find returns the category with the given name, or nil if not found.
func (c Categories) Find(name CategoryName) *model.Category {
	for i := range c {
		if c[i].Name == name.String() {
			return &c[i]
		}
	}
	return nil
}

// MustFind returns the category with the given name, or fails the test if not found.
func (c Categories) MustFind(t *testing.T, name CategoryName) model.Category {
	t.Helper()
	cat := c.Find(name)
	if cat == nil {
		t.Fatalf("category %q not found in test data", name)
	}
	return *cat
}

// Names returns all category names as a slice of strings.
func (c Categories) Names() []string {
	names := make([]string, len(c))
	for i, cat := range c {
		names[i] = cat.Name
	}
	return names
}

// CategoryMap provides O(1) lookup for categories by name.
type CategoryMap map[CategoryName]model.Category

// MustGet returns the category for the given name or fails the test.
func (m CategoryMap) MustGet(t *testing.T, name CategoryName) model.Category {
	t.Helper()
	cat, ok := m[name]
	if !ok {
		t.Fatalf("category %q not found in test data", name)
	}
	return cat
}

type categoryBuilder struct {
	t     *testing.T
	seen  map[CategoryName]struct{}
	names []CategoryName
}

// NewBuilder creates a new category builder for the given test.
func NewBuilder(t *testing.T) Builder {
	t.Helper()
	return &categoryBuilder{
		t:    t,
		seen: make(map[CategoryName]struct{}),
	}
}

func (b *categoryBuilder) WithCategory(name CategoryName) Builder {
	if _, ok := b.seen[name]; ok {
		return b
	}
	b.seen[name] = struct{}{}
	b.names = append(b.names, name)
	return b
}

func (b *categoryBuilder) WithCategories(names ...CategoryName) Builder {
	for _, name := range names {
		b.WithCategory(name)
	}
	return b
}

func (b *categoryBuilder) WithBasicCategories() Builder {
	return b.WithFixture(FixtureMinimal)
}

func (b *categoryBuilder) WithFixture(fixture Fixture) Builder {
	return b.WithCategories(fixture.Categories()...)
}

func (b *categoryBuilder) Build() Categories {
	b.t.Helper()
	result := make(Categories, 0, len(b.names))
	for _, name := range b.names {
		result = append(result, Category(name))
	}
	return result
}

func (b *categoryBuilder) BuildMap() CategoryMap {
	cats := b.Build()
	m := make(CategoryMap, len(cats))
	for _, cat := range cats {
		m[CategoryName(cat.Name)] = cat
	}
	return m
}
