package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Run("nil is ok", func(t *testing.T) {
		assert.Equal(t, KindOK, KindOf(nil))
	})

	t.Run("wrapped sentinels", func(t *testing.T) {
		assert.Equal(t, KindJobNotFound, KindOf(fmt.Errorf("pay: %w", ErrJobNotFound)))
		assert.Equal(t, KindNoData, KindOf(ErrNoData))
	})

	t.Run("typed errors unwrap to their kind", func(t *testing.T) {
		insufficient := &InsufficientFundsError{Price: decimal.NewFromInt(60), Balance: decimal.NewFromInt(50)}
		assert.Equal(t, KindInsufficientFunds, KindOf(insufficient))
		assert.True(t, errors.Is(insufficient, ErrInsufficientFunds))

		limit := &DepositLimitExceededError{Amount: decimal.NewFromInt(30), TotalUnpaid: decimal.NewFromInt(100), Cap: decimal.NewFromInt(25)}
		assert.Equal(t, KindDepositLimitExceeded, KindOf(limit))
	})

	t.Run("transaction failure keeps the cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := &TransactionFailedError{Op: "pay job", Err: cause}
		assert.Equal(t, KindTransactionFailed, KindOf(err))
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("unknown errors are internal", func(t *testing.T) {
		assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	})
}

func TestWindow(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	w := Window{Start: start, End: end}

	assert.True(t, w.Valid())
	assert.True(t, w.Contains(start))
	assert.False(t, w.Contains(end))
	assert.False(t, Window{Start: end, End: start}.Valid())
	assert.False(t, Window{Start: start, End: start}.Valid())
	assert.False(t, Window{End: end}.Valid())
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("08-01-2020", "08-10-2020")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2020, 8, 10, 0, 0, 0, 0, time.UTC), w.End)

	for _, bounds := range [][2]string{
		{"", "08-10-2020"},
		{"2020-08-01", "2020-08-10"},
		{"8-1-2020", "08-10-2020"},
		{"08-10-2020", "08-10-2020"},
		{"08-10-2020", "08-01-2020"},
		{"13-01-2020", "08-01-2021"},
	} {
		_, err := ParseWindow(bounds[0], bounds[1])
		assert.ErrorIs(t, err, ErrInvalidRange, "%v", bounds)
	}
}
