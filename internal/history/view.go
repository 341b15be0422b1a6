// Package history derives the filtered, sorted and paged transaction view
// shown on the history screen.
package history

import (
	"maps"
	"slices"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
)

// DefaultPageSize is how many more items each page reveals.
const DefaultPageSize = 6

// FilterType restricts the view to one category status.
type FilterType string

// Filter types.
const (
	FilterAll     FilterType = "all"
	FilterIncome  FilterType = "income"
	FilterExpense FilterType = "expense"
)

// SortField selects the descending sort key.
type SortField string

// Sort fields. Every sort is descending.
const (
	SortByDate    SortField = "date"
	SortByAmount  SortField = "amount"
	SortByUpdated SortField = "updated"
)

// ParseFilterType validates a filter literal.
func ParseFilterType(s string) (FilterType, error) {
	ft := FilterType(strings.ToLower(strings.TrimSpace(s)))
	switch ft {
	case FilterAll, FilterIncome, FilterExpense:
		return ft, nil
	case "":
		return FilterAll, nil
	default:
		return "", common.Validationf("filter type %q must be all, income or expense", s)
	}
}

// ParseSortField validates a sort literal.
func ParseSortField(s string) (SortField, error) {
	sf := SortField(strings.ToLower(strings.TrimSpace(s)))
	switch sf {
	case SortByDate, SortByAmount, SortByUpdated:
		return sf, nil
	case "":
		return SortByDate, nil
	default:
		return "", common.Validationf("sort field %q must be date, amount or updated", s)
	}
}

// State is the filter input of the history view. Values are immutable; every
// With* method returns a copy with Page reset to 1.
type State struct {
	selected map[string]struct{}
	Search   string
	Type     FilterType
	SortBy   SortField
	Page     int
}

// NewState returns the unfiltered first page sorted by date.
func NewState() State {
	return State{Type: FilterAll, SortBy: SortByDate, Page: 1}
}

// WithSearch sets the description search.
func (s State) WithSearch(search string) State {
	s.Search = search
	s.Page = 1
	return s
}

// WithType sets the status filter.
func (s State) WithType(ft FilterType) State {
	s.Type = ft
	s.Page = 1
	return s
}

// WithSortBy sets the sort key.
func (s State) WithSortBy(sf SortField) State {
	s.SortBy = sf
	s.Page = 1
	return s
}

// WithCategories replaces the selected category ids. No ids means no
// category filter.
func (s State) WithCategories(ids ...string) State {
	s.selected = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.selected[id] = struct{}{}
	}
	s.Page = 1
	return s
}

// ToggleCategory adds id to the selection, or removes it when present.
func (s State) ToggleCategory(id string) State {
	next := maps.Clone(s.selected)
	if next == nil {
		next = make(map[string]struct{})
	}
	if _, ok := next[id]; ok {
		delete(next, id)
	} else {
		next[id] = struct{}{}
	}
	s.selected = next
	s.Page = 1
	return s
}

// NextPage reveals one more page of the same result.
func (s State) NextPage() State {
	s.Page = max(s.Page, 1) + 1
	return s
}

// SelectedCategories returns the selected ids in sorted order.
func (s State) SelectedCategories() []string {
	var ids []string
	for id := range s.selected {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Validate checks the enum fields.
func (s State) Validate() error {
	if _, err := ParseFilterType(string(s.Type)); err != nil {
		return err
	}
	if _, err := ParseSortField(string(s.SortBy)); err != nil {
		return err
	}
	return nil
}

// View is one rendering of the history screen.
type View struct {
	Items   []model.Transaction
	Total   int
	Page    int
	HasMore bool
}

// Apply filters by search, then type, then category selection, sorts
// descending by the chosen key and keeps the first Page*pageSize items. The
// sort is stable, so page N is always a prefix of page N+1. A non-positive
// pageSize means DefaultPageSize.
func Apply(txns []model.Transaction, s State, pageSize int) (View, error) {
	if err := s.Validate(); err != nil {
		return View{}, err
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page := max(s.Page, 1)

	search := strings.ToLower(s.Search)
	matched := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		if search != "" && !strings.Contains(strings.ToLower(txn.Description), search) {
			continue
		}
		if !matchesType(txn, s.Type) {
			continue
		}
		if len(s.selected) > 0 {
			if _, ok := s.selected[txn.Category.ID]; !ok {
				continue
			}
		}
		matched = append(matched, txn)
	}

	slices.SortStableFunc(matched, compareFor(s.SortBy))

	limit := min(page*pageSize, len(matched))
	return View{
		Items:   matched[:limit:limit],
		Total:   len(matched),
		Page:    page,
		HasMore: limit < len(matched),
	}, nil
}

func matchesType(txn model.Transaction, ft FilterType) bool {
	switch ft {
	case FilterIncome:
		return txn.IsIncome()
	case FilterExpense:
		return txn.IsExpense()
	default:
		return true
	}
}

func compareFor(sf SortField) func(a, b model.Transaction) int {
	switch sf {
	case SortByAmount:
		return func(a, b model.Transaction) int { return b.Amount.Cmp(a.Amount) }
	case SortByUpdated:
		return func(a, b model.Transaction) int { return b.UpdatedAt.Compare(a.UpdatedAt) }
	default:
		return func(a, b model.Transaction) int { return b.Date.Compare(a.Date) }
	}
}
