package timeutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextDayBoundary(t *testing.T) {
	loc := time.FixedZone("BST", 3600)
	now := time.Date(2024, 3, 31, 23, 59, 30, 0, loc)

	next := NextDayBoundary(now)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, loc), next)
	assert.Equal(t, "2024-03-31", DayKey(now))
}

func TestSecondsCeil(t *testing.T) {
	assert.Equal(t, 0, SecondsCeil(-time.Second))
	assert.Equal(t, 0, SecondsCeil(0))
	assert.Equal(t, 1, SecondsCeil(10*time.Millisecond))
	assert.Equal(t, 60, SecondsCeil(60*time.Second))
	assert.Equal(t, 60, SecondsCeil(59*time.Second+500*time.Millisecond))
}

func TestUnixMilliRoundTrip(t *testing.T) {
	ts := time.UnixMilli(1718000000123)
	got, err := ParseUnixMilli(FormatUnixMilli(ts.UnixMilli()))
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))

	_, err = ParseUnixMilli("nope")
	assert.Error(t, err)
}
