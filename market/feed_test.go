package market

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTicks(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ticks.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func drain(t *testing.T, f Feed) []Tick {
	t.Helper()
	var out []Tick
	for {
		tick, ok, err := f.Next()
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, tick)
	}
}

func TestCSVFeedWithHeader(t *testing.T) {
	path := writeTicks(t, "time,symbol,price\n"+
		"2024-03-01T10:00:00Z,AAPL,150.25\n"+
		"2024-03-01T10:00:01Z,AAPL,150.50\n")

	f, err := NewCSVFeed(path)
	require.NoError(t, err)
	defer f.Close()

	ticks := drain(t, f)
	require.Len(t, ticks, 2)
	assert.Equal(t, "AAPL", ticks[0].Symbol)
	assert.Equal(t, 150.25, ticks[0].Price)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), ticks[0].Time)
}

func TestCSVFeedWithoutHeader(t *testing.T) {
	path := writeTicks(t, "2024-03-01T10:00:00Z,MSFT,410.10\n")

	f, err := NewCSVFeed(path)
	require.NoError(t, err)
	defer f.Close()

	ticks := drain(t, f)
	require.Len(t, ticks, 1)
	assert.Equal(t, "MSFT", ticks[0].Symbol)
}

func TestCSVFeedNanoTimestamps(t *testing.T) {
	path := writeTicks(t, "2024-03-01T10:00:00.123456789Z,AAPL,150.25\n")

	f, err := NewCSVFeed(path)
	require.NoError(t, err)
	defer f.Close()

	ticks := drain(t, f)
	require.Len(t, ticks, 1)
	assert.Equal(t, 123456789, ticks[0].Time.Nanosecond())
}

func TestCSVFeedSkipsShortRows(t *testing.T) {
	path := writeTicks(t, "time,symbol,price\n"+
		"2024-03-01T10:00:00Z,AAPL,150.25\n"+
		"2024-03-01T10:00:01Z,AAPL\n"+
		"2024-03-01T10:00:02Z,AAPL,151.00\n")

	f, err := NewCSVFeed(path)
	require.NoError(t, err)
	defer f.Close()

	ticks := drain(t, f)
	require.Len(t, ticks, 2)
	assert.Equal(t, 151.00, ticks[1].Price)
}

func TestCSVFeedBadTime(t *testing.T) {
	path := writeTicks(t, "yesterday,AAPL,150.25\n")

	f, err := NewCSVFeed(path)
	require.NoError(t, err)
	defer f.Close()

	_, _, err = f.Next()
	assert.Error(t, err)
}

func TestCSVFeedBadPrice(t *testing.T) {
	path := writeTicks(t, "2024-03-01T10:00:00Z,AAPL,expensive\n")

	f, err := NewCSVFeed(path)
	require.NoError(t, err)
	defer f.Close()

	_, _, err = f.Next()
	assert.Error(t, err)
}

func TestCSVFeedMissingFile(t *testing.T) {
	_, err := NewCSVFeed(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestSyntheticFeedCount(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	f := NewSyntheticFeed("SYN", 100, start, time.Second, 50, 0.01, 1)
	defer f.Close()

	ticks := drain(t, f)
	require.Len(t, ticks, 50)
	assert.Equal(t, start, ticks[0].Time)
	assert.Equal(t, 100.0, ticks[0].Price)
	assert.Equal(t, start.Add(49*time.Second), ticks[49].Time)
}

func TestSyntheticFeedDeterministic(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := drain(t, NewSyntheticFeed("SYN", 100, start, time.Second, 200, 0.02, 7))
	b := drain(t, NewSyntheticFeed("SYN", 100, start, time.Second, 200, 0.02, 7))

	assert.Equal(t, a, b)
}

func TestSyntheticFeedStaysPositive(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	f := NewSyntheticFeed("SYN", 0.02, start, time.Second, 1000, 5.0, 3)

	for _, tick := range drain(t, f) {
		assert.GreaterOrEqual(t, tick.Price, 0.01)
	}
}
