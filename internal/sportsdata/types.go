package sportsdata

import (
	"time"
)

// Match is one fixture entry as returned by the provider. Fixture listing
// endpoints return it without bookmakers; odds endpoints fill them in. The
// snapshot cache persists the same shape, so provider payloads round-trip
// through the cache unchanged.
type Match struct {
	Fixture    Fixture     `json:"fixture"`
	League     LeagueInfo  `json:"league,omitempty"`
	Teams      Teams       `json:"teams,omitempty"`
	Bookmakers []Bookmaker `json:"bookmakers,omitempty"`
}

// Fixture identifies a single game
type Fixture struct {
	ID     int64         `json:"id"`
	Date   time.Time     `json:"date"`
	Status FixtureStatus `json:"status"`
}

// FixtureStatus carries the provider's short status code (NS, 1H, HT, FT...)
type FixtureStatus struct {
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed,omitempty"`
}

// LeagueInfo identifies the competition a fixture belongs to
type LeagueInfo struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Season int    `json:"season,omitempty"`
}

// Teams holds both sides of a fixture
type Teams struct {
	Home Team `json:"home"`
	Away Team `json:"away"`
}

// Team identifies one side of a fixture
type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Bookmaker groups the markets one bookmaker offers for a fixture
type Bookmaker struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	Bets []Market `json:"bets"`
}

// Market is one named betting market. Names are free text from the provider
// and are not normalized across refresh cycles.
type Market struct {
	ID     int64       `json:"id"`
	Name   string      `json:"name"`
	Values []Selection `json:"values"`
}

// Selection is one priced outcome within a market
type Selection struct {
	Value string `json:"value"`
	Odd   string `json:"odd"`
}

// liveStatusCodes are the provider statuses that count as in play
var liveStatusCodes = map[string]bool{
	"1H":   true,
	"HT":   true,
	"2H":   true,
	"ET":   true,
	"BT":   true,
	"P":    true,
	"LIVE": true,
}

// IsLive reports whether the fixture is currently in play
func (m *Match) IsLive() bool {
	return liveStatusCodes[m.Fixture.Status.Short]
}

// closedStatusCodes are the provider statuses for fixtures that will not be
// played as scheduled, whether finished or called off
var closedStatusCodes = map[string]bool{
	"FT":   true,
	"AET":  true,
	"PEN":  true,
	"PST":  true,
	"CANC": true,
	"ABD":  true,
	"AWD":  true,
	"WO":   true,
}

// IsClosed reports whether the fixture is finished or will not be played
func (m *Match) IsClosed() bool {
	return closedStatusCodes[m.Fixture.Status.Short]
}
