package sportsdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const oddsTimeout = 15 * time.Second

// Client talks to an API-Football style fixtures/odds provider. Every
// response is shaped {"response": [...]}.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: oddsTimeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type matchesResponse struct {
	Response []Match `json:"response"`
}

// get issues an authenticated GET and decodes the envelope into out
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-apisports-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sports API error: %d - %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// FixturesByLeague fetches the upcoming fixtures of one competition season
func (c *Client) FixturesByLeague(ctx context.Context, leagueID int64, season int) ([]Match, error) {
	query := url.Values{}
	query.Set("league", strconv.FormatInt(leagueID, 10))
	query.Set("season", strconv.Itoa(season))

	var result matchesResponse
	if err := c.get(ctx, "/fixtures", query, &result); err != nil {
		return nil, err
	}
	return result.Response, nil
}

// LiveFixtures fetches the fixtures currently in play, restricted to the
// given competitions when any are passed.
func (c *Client) LiveFixtures(ctx context.Context, leagueIDs []int64) ([]Match, error) {
	live := "all"
	if len(leagueIDs) > 0 {
		parts := make([]string, 0, len(leagueIDs))
		for _, id := range leagueIDs {
			parts = append(parts, strconv.FormatInt(id, 10))
		}
		live = strings.Join(parts, "-")
	}

	query := url.Values{}
	query.Set("live", live)

	var result matchesResponse
	if err := c.get(ctx, "/fixtures", query, &result); err != nil {
		return nil, err
	}
	return result.Response, nil
}

// OddsByFixture fetches the latest pre-match odds snapshot for one fixture.
// Bookmaker lists from every response entry are concatenated since the
// provider may split one fixture across entries.
func (c *Client) OddsByFixture(ctx context.Context, fixtureID int64) ([]Bookmaker, error) {
	query := url.Values{}
	query.Set("fixture", strconv.FormatInt(fixtureID, 10))

	var result matchesResponse
	if err := c.get(ctx, "/odds", query, &result); err != nil {
		return nil, err
	}
	return collectBookmakers(result.Response, fixtureID), nil
}

// LiveOddsByFixture fetches in-play odds scoped to a single fixture. Known to
// be unreliable for some providers; callers fall back to LiveOddsByLeague.
func (c *Client) LiveOddsByFixture(ctx context.Context, fixtureID int64) ([]Bookmaker, error) {
	query := url.Values{}
	query.Set("fixture", strconv.FormatInt(fixtureID, 10))

	var result matchesResponse
	if err := c.get(ctx, "/odds/live", query, &result); err != nil {
		return nil, err
	}
	return collectBookmakers(result.Response, fixtureID), nil
}

// LiveOddsByLeague fetches in-play odds for a whole competition
func (c *Client) LiveOddsByLeague(ctx context.Context, leagueID int64) ([]Match, error) {
	query := url.Values{}
	query.Set("league", strconv.FormatInt(leagueID, 10))

	var result matchesResponse
	if err := c.get(ctx, "/odds/live", query, &result); err != nil {
		return nil, err
	}
	return result.Response, nil
}

// collectBookmakers concatenates the bookmaker lists of every entry matching
// the fixture. Entries without a fixture id are assumed to belong to the
// requested fixture.
func collectBookmakers(matches []Match, fixtureID int64) []Bookmaker {
	var bookmakers []Bookmaker
	for _, m := range matches {
		if m.Fixture.ID != 0 && m.Fixture.ID != fixtureID {
			continue
		}
		bookmakers = append(bookmakers, m.Bookmakers...)
	}
	return bookmakers
}
