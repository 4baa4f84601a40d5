package markethours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/model"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestStatus_USWeekend(t *testing.T) {
	c := NewClock(nil)
	us, _ := c.Window(ExchangeUS)
	// Saturday 2025-03-08 10:00 New York
	sat := time.Date(2025, 3, 8, 10, 0, 0, 0, mustLoc(t, "America/New_York"))

	st, err := c.Status(us, sat)
	require.NoError(t, err)
	assert.Equal(t, model.StatusWeekend, st.Status)
	assert.Equal(t, "10:00", st.LocalTime)
	assert.False(t, st.IsOpen())
}

func TestStatus_IndiaBoundariesInclusive(t *testing.T) {
	c := NewClock(nil)
	india, _ := c.Window(ExchangeIndia)
	ist := mustLoc(t, "Asia/Kolkata")

	tests := []struct {
		hour, minute int
		want         model.SessionStatus
	}{
		{9, 14, model.StatusClosed},
		{9, 15, model.StatusOpen},
		{12, 0, model.StatusOpen},
		{15, 30, model.StatusOpen},
		{15, 31, model.StatusClosed},
	}
	for _, tt := range tests {
		// Tuesday 2025-03-04
		at := time.Date(2025, 3, 4, tt.hour, tt.minute, 59, 0, ist)
		st, err := c.Status(india, at)
		require.NoError(t, err)
		assert.Equal(t, tt.want, st.Status, "%02d:%02d", tt.hour, tt.minute)
	}
}

func TestStatus_ConvertsFromUTC(t *testing.T) {
	c := NewClock(nil)
	tokyo, _ := c.Window("Japan")
	// Monday 2025-03-03 01:00 UTC = 10:00 JST
	st, err := c.Status(tokyo, time.Date(2025, 3, 3, 1, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, st.Status)
	assert.Equal(t, "10:00", st.LocalTime)
}

func TestStatuses_OmitsBrokenWindow(t *testing.T) {
	c := NewClock([]model.MarketWindow{
		DefaultWindows[0],
		{ID: "Mars", Name: "Mars", Timezone: "Mars/Olympus_Mons", Open: "09:00", Close: "17:00"},
		{ID: "Bad", Name: "Bad", Timezone: "UTC", Open: "9am", Close: "17:00"},
	})
	got := c.Statuses(time.Date(2025, 3, 4, 15, 0, 0, 0, time.UTC))
	require.Len(t, got, 1)
	assert.Equal(t, ExchangeUS, got[0].Window.ID)
}

func TestExchangeFor(t *testing.T) {
	assert.Equal(t, ExchangeIndia, ExchangeFor("RELIANCE.NS"))
	assert.Equal(t, ExchangeIndia, ExchangeFor("500325.bo"))
	assert.Equal(t, ExchangeUS, ExchangeFor("AAPL"))
	assert.Equal(t, ExchangeUS, ExchangeFor("NESN.SW"))
}

func TestIsOpenNow(t *testing.T) {
	c := NewClock(nil)
	ny := mustLoc(t, "America/New_York")

	assert.True(t, c.IsOpenNow("AAPL", time.Date(2025, 3, 4, 10, 0, 0, 0, ny)))
	assert.False(t, c.IsOpenNow("AAPL", time.Date(2025, 3, 4, 16, 1, 0, 0, ny)))
	assert.False(t, c.IsOpenNow("AAPL", time.Date(2025, 3, 8, 10, 0, 0, 0, ny)))
	// 10:00 New York is 20:30 in India
	assert.False(t, c.IsOpenNow("TCS.NS", time.Date(2025, 3, 4, 10, 0, 0, 0, ny)))
}

func TestIsOpenNow_FailsOpen(t *testing.T) {
	broken := NewClock([]model.MarketWindow{
		{ID: ExchangeUS, Name: "US", Timezone: "Nowhere/Atlantis", Open: "09:30", Close: "16:00"},
	})
	sat := time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)
	assert.True(t, broken.IsOpenNow("AAPL", sat))
	// no India window configured at all
	assert.True(t, broken.IsOpenNow("INFY.NS", sat))
}

func TestParseHHMM(t *testing.T) {
	m, err := parseHHMM("15:30")
	require.NoError(t, err)
	assert.Equal(t, 930, m)

	for _, bad := range []string{"", "1530", "25:00", "10:60", "aa:bb"} {
		_, err := parseHHMM(bad)
		assert.Error(t, err, bad)
	}
}
