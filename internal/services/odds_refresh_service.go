package services

import (
	"context"
	"log"
	"time"

	"betleague/internal/config"
	"betleague/internal/odds"
	"betleague/internal/sportsdata"
)

// fixtureBudget bounds the work spent on any single fixture's odds fetches
const fixtureBudget = 20 * time.Second

// OddsRefreshService runs the odds refresh cycles. Provider errors degrade
// to empty bookmaker lists and never fail the cycle; every cycle ends in a
// rotation so the cache cannot go stale silently.
type OddsRefreshService struct {
	client   *sportsdata.Client
	store    *odds.Store
	settings *SettingsService
	cfg      config.SportsAPIConfig
}

func NewOddsRefreshService(client *sportsdata.Client, store *odds.Store, settings *SettingsService, cfg config.SportsAPIConfig) *OddsRefreshService {
	return &OddsRefreshService{
		client:   client,
		store:    store,
		settings: settings,
		cfg:      cfg,
	}
}

// RefreshPrematch refreshes the main, selections and cup groups
func (s *OddsRefreshService) RefreshPrematch(ctx context.Context) error {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return err
	}

	groups := []struct {
		group     odds.Group
		leagueIDs []int64
		enabled   bool
	}{
		{odds.GroupMain, s.cfg.MainLeagueIDs, true},
		{odds.GroupSelections, s.cfg.SelectionLeagueIDs, settings.SelectionsEnabled},
		{odds.GroupCup, s.cfg.CupLeagueIDs, true},
	}

	for _, g := range groups {
		payload := odds.Payload{}
		if g.enabled {
			payload.Response = s.collectPrematch(ctx, g.leagueIDs, settings)
		}
		// A disabled or empty cycle still rotates so stale odds never
		// linger in the current slot.
		if err := s.store.Rotate(ctx, g.group, payload); err != nil {
			return err
		}
		log.Printf("Refreshed odds group %q: %d fixtures", g.group.Name, len(payload.Response))
	}
	return nil
}

// collectPrematch gathers upcoming fixtures and their pre-match odds for a
// set of competitions. Per-fixture failures are logged and produce an
// empty-bookmaker record.
func (s *OddsRefreshService) collectPrematch(ctx context.Context, leagueIDs []int64, settings *BettingSettings) []sportsdata.Match {
	var collected []sportsdata.Match

	for _, leagueID := range leagueIDs {
		fixtures, err := s.client.FixturesByLeague(ctx, leagueID, s.cfg.Season)
		if err != nil {
			log.Printf("Failed to fetch fixtures for league %d: %v", leagueID, err)
			continue
		}

		for _, match := range fixtures {
			if !s.isRelevant(match, settings) {
				continue
			}

			match.Bookmakers = s.fetchPrematchOdds(ctx, match.Fixture.ID)
			collected = append(collected, match)

			if !s.throttle(ctx) {
				return collected
			}
		}
	}
	return collected
}

// RefreshLive refreshes the live-matches group with the fallback chain
func (s *OddsRefreshService) RefreshLive(ctx context.Context) error {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return err
	}

	payload := odds.Payload{}
	if settings.LiveMatchesEnabled {
		payload.Response = s.collectLive(ctx, settings)
	}
	if err := s.store.Rotate(ctx, odds.GroupLive, payload); err != nil {
		return err
	}
	log.Printf("Refreshed odds group %q: %d fixtures", odds.GroupLive.Name, len(payload.Response))
	return nil
}

func (s *OddsRefreshService) collectLive(ctx context.Context, settings *BettingSettings) []sportsdata.Match {
	fixtures, err := s.client.LiveFixtures(ctx, settings.LiveLeagueIDs)
	if err != nil {
		log.Printf("Failed to fetch live fixtures: %v", err)
		return nil
	}

	var collected []sportsdata.Match
	for _, match := range fixtures {
		match.Bookmakers = s.fetchLiveOdds(ctx, match)
		collected = append(collected, match)

		if !s.throttle(ctx) {
			return collected
		}
	}
	return collected
}

// fetchLiveOdds walks the fallback chain for one live fixture: live odds by
// fixture, then live odds for the whole competition filtered back down to
// the fixture, then the pre-match snapshot. The first stage returning at
// least one bookmaker wins; within a stage, bookmaker lists from multiple
// entries for the fixture are concatenated.
func (s *OddsRefreshService) fetchLiveOdds(ctx context.Context, match sportsdata.Match) []sportsdata.Bookmaker {
	fixtureCtx, cancel := context.WithTimeout(ctx, fixtureBudget)
	defer cancel()

	fixtureID := match.Fixture.ID

	bookmakers, err := s.client.LiveOddsByFixture(fixtureCtx, fixtureID)
	if err != nil {
		log.Printf("Live odds by fixture failed for %d: %v", fixtureID, err)
	}
	if len(bookmakers) > 0 {
		return bookmakers
	}

	// The per-fixture live endpoint is unreliable for some providers, so
	// pull the whole competition and filter client-side.
	if match.League.ID != 0 {
		leagueOdds, err := s.client.LiveOddsByLeague(fixtureCtx, match.League.ID)
		if err != nil {
			log.Printf("Live odds by league failed for %d: %v", match.League.ID, err)
		}
		for _, entry := range leagueOdds {
			if entry.Fixture.ID == fixtureID {
				bookmakers = append(bookmakers, entry.Bookmakers...)
			}
		}
		if len(bookmakers) > 0 {
			return bookmakers
		}
	}

	bookmakers, err = s.client.OddsByFixture(fixtureCtx, fixtureID)
	if err != nil {
		log.Printf("Pre-match odds fallback failed for %d: %v", fixtureID, err)
		return nil
	}
	return bookmakers
}

func (s *OddsRefreshService) fetchPrematchOdds(ctx context.Context, fixtureID int64) []sportsdata.Bookmaker {
	fixtureCtx, cancel := context.WithTimeout(ctx, fixtureBudget)
	defer cancel()

	bookmakers, err := s.client.OddsByFixture(fixtureCtx, fixtureID)
	if err != nil {
		log.Printf("Failed to fetch odds for fixture %d: %v", fixtureID, err)
		return nil
	}
	return bookmakers
}

// isRelevant keeps not-yet-started fixtures, filtered by the enabled-teams
// list when one is configured.
func (s *OddsRefreshService) isRelevant(match sportsdata.Match, settings *BettingSettings) bool {
	if match.IsLive() || match.IsClosed() {
		return false
	}
	if match.Fixture.Date.Before(time.Now()) {
		return false
	}
	if len(settings.EnabledTeamIDs) == 0 {
		return true
	}
	for _, id := range settings.EnabledTeamIDs {
		if match.Teams.Home.ID == id || match.Teams.Away.ID == id {
			return true
		}
	}
	return false
}

// throttle applies the fixed inter-request delay; returns false when the
// context was cancelled while waiting.
func (s *OddsRefreshService) throttle(ctx context.Context) bool {
	if s.cfg.RequestDelay <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-time.After(s.cfg.RequestDelay):
		return true
	case <-ctx.Done():
		return false
	}
}
