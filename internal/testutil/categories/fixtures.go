package categories

// Fixture represents a predefined set of categories for testing.
type Fixture interface {
	// Name returns the fixture's descriptive name.
	Name() string

	// Categories returns the category names included in this fixture.
	Categories() []CategoryName
}

type fixture struct {
	name       string
	categories []CategoryName
}

func (f *fixture) Name() string               { return f.name }
func (f *fixture) Categories() []CategoryName { return f.categories }

// Predefined fixtures for common test scenarios.
var (
	// FixtureMinimal has one income and two expense categories.
	FixtureMinimal Fixture = &fixture{
		name: "Minimal",
		categories: []CategoryName{
			CategorySalary,
			CategoryFood,
			CategoryTransport,
		},
	}

	// FixtureStandard covers both types with several categories each.
	FixtureStandard Fixture = &fixture{
		name: "Standard",
		categories: []CategoryName{
			CategorySalary,
			CategoryGifts,
			CategoryFreelance,
			CategoryFood,
			CategoryTransport,
			CategoryHousing,
			CategoryEntertainment,
			CategoryUtilities,
		},
	}
)
