package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryInUseError(t *testing.T) {
	err := fmt.Errorf("update category: %w", &CategoryInUseError{CategoryID: "c1", Name: "Food", Transactions: 2})

	assert.ErrorIs(t, err, ErrCategoryInUse)
	assert.NotErrorIs(t, err, ErrValidation)

	var inUse *CategoryInUseError
	assert.True(t, errors.As(err, &inUse))
	assert.Equal(t, "c1", inUse.CategoryID)
	assert.Contains(t, err.Error(), `"Food" is used by 2 transaction(s)`)
}

func TestWrappers(t *testing.T) {
	assert.ErrorIs(t, Validationf("amount %s", "-1"), ErrValidation)
	assert.ErrorIs(t, NotFoundf("transaction %q", "t1"), ErrNotFound)
	assert.Contains(t, Validationf("amount %s", "-1").Error(), "amount -1")
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "plain error", err: errors.New("disk full"), want: true},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "deadline", err: fmt.Errorf("save: %w", context.DeadlineExceeded), want: false},
		{name: "marked permanent", err: &RetryableError{Err: errors.New("bad"), Retryable: false}, want: false},
		{name: "marked retryable", err: &RetryableError{Err: errors.New("busy"), Retryable: true}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Empty(t, Describe(nil))
	assert.Contains(t, Describe(&CategoryInUseError{Name: "Food", Transactions: 1}), "Food")
	assert.Equal(t, "Nothing matches that id", Describe(NotFoundf("x")))
	assert.Equal(t, "The import file is not valid JSON", Describe(fmt.Errorf("%w: eof", ErrParse)))
	assert.Contains(t, Describe(fmt.Errorf("%w: write", ErrPersistence)), "could not be saved")
}
