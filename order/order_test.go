package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMarketStartsNew(t *testing.T) {
	now := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	o := NewMarket("AAPL", Buy, 10, 182.50, now)

	assert.Equal(t, New, o.Status)
	assert.Equal(t, Market, o.Kind)
	assert.Equal(t, 0, o.FilledQuantity)
	assert.NotEmpty(t, o.ID)
	assert.False(t, o.Terminal())
}

func TestValidate(t *testing.T) {
	now := time.Now()

	o := NewMarket("AAPL", Buy, 0, 100, now)
	require.ErrorIs(t, o.Validate(), ErrQuantity)

	o = NewMarket("AAPL", Buy, 10, 0, now)
	require.ErrorIs(t, o.Validate(), ErrPrice)

	o = NewMarket("AAPL", Sell, 10, 100, now)
	require.NoError(t, o.Validate())
}

func TestMarkFilledAccumulates(t *testing.T) {
	o := NewMarket("AAPL", Buy, 10, 100, time.Now())

	o.MarkFilled(4)
	assert.Equal(t, Pending, o.Status)
	assert.Equal(t, 4, o.FilledQuantity)
	assert.False(t, o.Terminal())

	o.MarkFilled(6)
	assert.Equal(t, Filled, o.Status)
	assert.Equal(t, 10, o.FilledQuantity)
	assert.True(t, o.Terminal())
}

func TestFilledIffFullQuantity(t *testing.T) {
	for _, qty := range []int{1, 3, 10} {
		o := NewMarket("AAPL", Buy, 10, 100, time.Now())
		o.MarkFilled(qty)

		if qty == o.Quantity {
			assert.Equal(t, Filled, o.Status)
		} else {
			assert.Equal(t, Pending, o.Status)
		}
		assert.LessOrEqual(t, o.FilledQuantity, o.Quantity)
	}
}

func TestTerminalStates(t *testing.T) {
	o := NewMarket("AAPL", Sell, 5, 50, time.Now())
	o.MarkRejected("insufficient capital")
	assert.Equal(t, Rejected, o.Status)
	assert.Equal(t, "insufficient capital", o.Reason)
	assert.True(t, o.Terminal())

	o = NewMarket("AAPL", Sell, 5, 50, time.Now())
	o.MarkFailed("simulated execution failure")
	assert.Equal(t, Failed, o.Status)
	assert.True(t, o.Terminal())
}

func TestIDsAreMonotonic(t *testing.T) {
	a := NewMarket("AAPL", Buy, 1, 1, time.Now())
	b := NewMarket("AAPL", Buy, 1, 1, time.Now())
	assert.Less(t, a.ID, b.ID)
}
