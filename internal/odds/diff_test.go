package odds

import (
	"context"
	"testing"

	"betleague/internal/sportsdata"
)

func matchWithOdds(fixtureID int64, market, selection, odd string) sportsdata.Match {
	return sportsdata.Match{
		Fixture: sportsdata.Fixture{ID: fixtureID},
		Bookmakers: []sportsdata.Bookmaker{
			{
				Name: "Bet365",
				Bets: []sportsdata.Market{
					{
						Name:   market,
						Values: []sportsdata.Selection{{Value: selection, Odd: odd}},
					},
				},
			},
		},
	}
}

func TestLookupResolvesAliasAndSelectionVariant(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	// Provider stores the market as "Match Winner" with selection "1";
	// the caller asks with the display name and "Home".
	if err := store.Rotate(ctx, GroupMain, Payload{Response: []sportsdata.Match{
		matchWithOdds(100, "Match Winner", "1", "1.95"),
	}}); err != nil {
		t.Fatalf("first rotate failed: %v", err)
	}
	if err := store.Rotate(ctx, GroupMain, Payload{Response: []sportsdata.Match{
		matchWithOdds(100, "Match Winner", "1", "1.85"),
	}}); err != nil {
		t.Fatalf("second rotate failed: %v", err)
	}

	delta, err := store.Lookup(ctx, 100, "Ganador del Partido", "Home")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if delta.Current == nil || *delta.Current != 1.85 {
		t.Fatalf("expected current 1.85, got %v", delta.Current)
	}
	if delta.Previous == nil || *delta.Previous != 1.95 {
		t.Fatalf("expected previous 1.95, got %v", delta.Previous)
	}
}

func TestLookupUnknownFixtureReturnsEmptyDelta(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	if err := store.Rotate(ctx, GroupMain, Payload{Response: []sportsdata.Match{
		matchWithOdds(100, "Match Winner", "Home", "1.80"),
	}}); err != nil {
		t.Fatalf("rotate failed: %v", err)
	}

	delta, err := store.Lookup(ctx, 999, "Ganador del Partido", "Home")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if delta.Current != nil || delta.Previous != nil {
		t.Fatalf("expected empty delta for unknown fixture, got %+v", delta)
	}
}

func TestLookupStopsAtFirstGroupContainingFixture(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	// Same fixture id in cup and main with different odds. Cup takes
	// precedence and the scan must not fall through to main.
	if err := store.Rotate(ctx, GroupCup, Payload{Response: []sportsdata.Match{
		matchWithOdds(100, "Match Winner", "Home", "3.10"),
	}}); err != nil {
		t.Fatalf("rotate cup failed: %v", err)
	}
	if err := store.Rotate(ctx, GroupMain, Payload{Response: []sportsdata.Match{
		matchWithOdds(100, "Match Winner", "Home", "1.50"),
	}}); err != nil {
		t.Fatalf("rotate main failed: %v", err)
	}

	delta, err := store.Lookup(ctx, 100, "Ganador del Partido", "Home")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if delta.Current == nil || *delta.Current != 3.10 {
		t.Fatalf("expected cup odd 3.10, got %v", delta.Current)
	}
}

func TestLookupStopsEvenWhenMarketMissingInPrecedentGroup(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	// Fixture present in cup but without the requested market. The lookup
	// must still stop there rather than pick up the main group's odd.
	if err := store.Rotate(ctx, GroupCup, Payload{Response: []sportsdata.Match{
		matchWithOdds(100, "Exact Score", "1:0", "7.50"),
	}}); err != nil {
		t.Fatalf("rotate cup failed: %v", err)
	}
	if err := store.Rotate(ctx, GroupMain, Payload{Response: []sportsdata.Match{
		matchWithOdds(100, "Match Winner", "Home", "1.50"),
	}}); err != nil {
		t.Fatalf("rotate main failed: %v", err)
	}

	delta, err := store.Lookup(ctx, 100, "Ganador del Partido", "Home")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if delta.Current != nil || delta.Previous != nil {
		t.Fatalf("expected empty delta, got %+v", delta)
	}
}

func TestLookupLiveUsesLiveGroupOnly(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	if err := store.Rotate(ctx, GroupMain, Payload{Response: []sportsdata.Match{
		matchWithOdds(100, "Match Winner", "Home", "1.50"),
	}}); err != nil {
		t.Fatalf("rotate main failed: %v", err)
	}

	delta, err := store.LookupLive(ctx, 100, "Ganador del Partido", "Home")
	if err != nil {
		t.Fatalf("live lookup failed: %v", err)
	}
	if delta.Current != nil {
		t.Fatalf("live lookup should not read pre-match groups, got %v", delta.Current)
	}
}

func TestExpandSelections(t *testing.T) {
	cases := []struct {
		selection string
		want      string
	}{
		{"Home", "1"},
		{"Home", "Home Win"},
		{"Away", "2"},
		{"Draw", "X"},
		{"Over 2.5", "Over2.5"},
		{"Home/Over 2.5", "Home Win / Over2.5"},
		{"Home/Over 2.5", "1/Over 2.5"},
	}
	for _, tc := range cases {
		got := expandSelections(tc.selection)
		if !containsString(got, tc.want) {
			t.Errorf("expandSelections(%q) = %v, missing %q", tc.selection, got, tc.want)
		}
	}
}

func TestCandidateMarketsIncludesDisplayName(t *testing.T) {
	got := candidateMarkets("Ganador del Partido")
	if got[0] != "Ganador del Partido" {
		t.Fatalf("display name must be the first candidate, got %v", got)
	}
	if !containsString(got, "1X2") {
		t.Fatalf("expected alias 1X2 in %v", got)
	}

	// Unknown display names still resolve to themselves
	got = candidateMarkets("Handicap Asiático")
	if len(got) != 1 || got[0] != "Handicap Asiático" {
		t.Fatalf("unknown market should map to itself, got %v", got)
	}
}
