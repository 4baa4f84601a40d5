package model

import "github.com/guregu/null/v6"

// Instrument is static reference data for one listed symbol.
type Instrument struct {
	Symbol  string `json:"symbol" yaml:"symbol"`
	Name    string `json:"name" yaml:"name"`
	Country string `json:"country" yaml:"country"`
	Sector  string `json:"sector,omitempty" yaml:"sector,omitempty"`
}

// SearchResult is an instrument enriched with live quote fields.
type SearchResult struct {
	Instrument
	CurrentPrice  null.Float `json:"current_price"`
	Change        null.Float `json:"change"`
	ChangePercent null.Float `json:"change_percent"`
	MarketCap     null.Int   `json:"market_cap"`
	Volume        null.Int   `json:"volume"`
	PERatio       null.Float `json:"pe_ratio"`
	DayHigh       null.Float `json:"day_high"`
	DayLow        null.Float `json:"day_low"`
}
