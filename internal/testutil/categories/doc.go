// Package categories provides test infrastructure for building categories.
// It offers a fluent API over named, deterministic category values so tests
// never hand-roll ids or colors.
//
// Example usage:
//
//	cats := categories.NewBuilder(t).
//		WithBasicCategories().
//		WithCategory(categories.CategoryGifts).
//		Build()
//
//	food := cats.MustFind(t, categories.CategoryFood)
package categories
