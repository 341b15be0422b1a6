package testutil

import (
	"fmt"
	"time"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// TransactionBuilder builds model.Transaction values fluently.
//
// Example:
//
//	txn := testutil.NewTransaction("t1").
//		WithAmount("50").
//		WithCategory(food).
//		On(today).
//		Build()
type TransactionBuilder struct {
	txn model.Transaction
}

// NewTransaction starts a builder with the given id, a zero amount and a
// fixed date in the past.
func NewTransaction(id string) *TransactionBuilder {
	base := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	return &TransactionBuilder{txn: model.Transaction{
		ID:        id,
		Amount:    decimal.Zero,
		Date:      base,
		CreatedAt: base,
		UpdatedAt: base,
	}}
}

// WithAmount sets the amount from a decimal literal. It panics on a bad
// literal since builders are only used with constants.
func (b *TransactionBuilder) WithAmount(amount string) *TransactionBuilder {
	b.txn.Amount = decimal.RequireFromString(amount)
	return b
}

// WithCategory embeds a copy of c.
func (b *TransactionBuilder) WithCategory(c model.Category) *TransactionBuilder {
	b.txn.Category = c
	return b
}

// WithDescription sets the description.
func (b *TransactionBuilder) WithDescription(desc string) *TransactionBuilder {
	b.txn.Description = desc
	return b
}

// On sets the transaction date.
func (b *TransactionBuilder) On(date time.Time) *TransactionBuilder {
	b.txn.Date = date
	return b
}

// UpdatedAt sets both timestamps; CreatedAt is kept no later than UpdatedAt.
func (b *TransactionBuilder) UpdatedAt(ts time.Time) *TransactionBuilder {
	b.txn.UpdatedAt = ts
	if b.txn.CreatedAt.After(ts) {
		b.txn.CreatedAt = ts
	}
	return b
}

// WithoutTimestamps clears CreatedAt and UpdatedAt so the store assigns them.
func (b *TransactionBuilder) WithoutTimestamps() *TransactionBuilder {
	b.txn.CreatedAt = time.Time{}
	b.txn.UpdatedAt = time.Time{}
	return b
}

// Build returns the transaction.
func (b *TransactionBuilder) Build() model.Transaction {
	return b.txn
}

// Series builds n transactions in category c, dated one day apart going back
// from start, with amounts 10, 20, 30... and UpdatedAt one minute apart so
// the first is the most recently updated.
func Series(prefix string, n int, c model.Category, start time.Time) []model.Transaction {
	out := make([]model.Transaction, n)
	for i := 0; i < n; i++ {
		out[i] = NewTransaction(fmt.Sprintf("%s-%02d", prefix, i+1)).
			WithAmount(decimal.NewFromInt(int64(10 * (i + 1))).String()).
			WithCategory(c).
			WithDescription(fmt.Sprintf("%s purchase %d", c.Name, i+1)).
			On(start.AddDate(0, 0, -i)).
			UpdatedAt(start.Add(-time.Duration(i) * time.Minute)).
			Build()
	}
	return out
}
