// Package markethours decides whether an exchange is trading at a given instant.
// Each exchange is a fixed local open/close window in its own timezone; only
// weekends are treated as non-trading days.
package markethours

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"

	"MarketLens/internal/model"
)

// Exchange ids used by the symbol-suffix convention.
const (
	ExchangeUS    = "US"
	ExchangeIndia = "India"
)

// DefaultWindows are the exchanges reported by the market status endpoint.
var DefaultWindows = []model.MarketWindow{
	{ID: ExchangeUS, Name: "US Markets (NYSE/NASDAQ)", Timezone: "America/New_York", Open: "09:30", Close: "16:00"},
	{ID: ExchangeIndia, Name: "Indian Markets (NSE/BSE)", Timezone: "Asia/Kolkata", Open: "09:15", Close: "15:30"},
	{ID: "UK", Name: "London Stock Exchange", Timezone: "Europe/London", Open: "08:00", Close: "16:30"},
	{ID: "Japan", Name: "Tokyo Stock Exchange", Timezone: "Asia/Tokyo", Open: "09:00", Close: "15:00"},
}

// Clock evaluates market windows. Safe for concurrent use.
type Clock struct {
	windows []model.MarketWindow
	byID    map[string]model.MarketWindow
	zones   sync.Map // timezone name -> *time.Location
}

// NewClock creates a clock over the given windows, or DefaultWindows when empty.
func NewClock(windows []model.MarketWindow) *Clock {
	if len(windows) == 0 {
		windows = DefaultWindows
	}
	c := &Clock{
		windows: windows,
		byID:    make(map[string]model.MarketWindow, len(windows)),
	}
	for _, w := range windows {
		c.byID[w.ID] = w
	}
	return c
}

// Window looks up a window by exchange id.
func (c *Clock) Window(id string) (model.MarketWindow, bool) {
	w, ok := c.byID[id]
	return w, ok
}

// Status converts instant to the window's local time and classifies it.
// Weekends win over the configured hours; both boundaries count as open.
func (c *Clock) Status(w model.MarketWindow, instant time.Time) (model.ExchangeStatus, error) {
	loc, err := c.location(w.Timezone)
	if err != nil {
		return model.ExchangeStatus{}, err
	}
	openMin, err := parseHHMM(w.Open)
	if err != nil {
		return model.ExchangeStatus{}, fmt.Errorf("%s open time: %w", w.ID, err)
	}
	closeMin, err := parseHHMM(w.Close)
	if err != nil {
		return model.ExchangeStatus{}, fmt.Errorf("%s close time: %w", w.ID, err)
	}

	local := instant.In(loc)
	st := model.ExchangeStatus{Window: w, LocalTime: local.Format("15:04")}

	switch wd := local.Weekday(); {
	case wd == time.Saturday || wd == time.Sunday:
		st.Status = model.StatusWeekend
	default:
		hm := local.Hour()*60 + local.Minute()
		if hm >= openMin && hm <= closeMin {
			st.Status = model.StatusOpen
		} else {
			st.Status = model.StatusClosed
		}
	}
	return st, nil
}

// Statuses evaluates every configured window. A window that cannot be
// evaluated is logged and left out of the result.
func (c *Clock) Statuses(instant time.Time) []model.ExchangeStatus {
	out := make([]model.ExchangeStatus, 0, len(c.windows))
	for _, w := range c.windows {
		st, err := c.Status(w, instant)
		if err != nil {
			log.Warn().Err(err).Str("market", w.ID).Msg("market status unavailable")
			continue
		}
		out = append(out, st)
	}
	return out
}

// ExchangeFor maps a ticker to an exchange id: ".NS" and ".BO" listings trade
// in India, everything else defaults to the US window.
func ExchangeFor(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if strings.HasSuffix(s, ".NS") || strings.HasSuffix(s, ".BO") {
		return ExchangeIndia
	}
	return ExchangeUS
}

// IsOpenNow reports whether the symbol's exchange is open at instant.
// Unlike Statuses it fails open: if the window cannot be evaluated the answer
// is true so callers never hide data because of a clock problem.
func (c *Clock) IsOpenNow(symbol string, instant time.Time) bool {
	w, ok := c.Window(ExchangeFor(symbol))
	if !ok {
		return true
	}
	st, err := c.Status(w, instant)
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("market open check failed, assuming open")
		return true
	}
	return st.IsOpen()
}

func (c *Clock) location(name string) (*time.Location, error) {
	if v, ok := c.zones.Load(name); ok {
		return v.(*time.Location), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	c.zones.Store(name, loc)
	return loc, nil
}

// parseHHMM returns minutes since midnight for "HH:MM".
func parseHHMM(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("malformed hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("malformed minute in %q", s)
	}
	return h*60 + m, nil
}
