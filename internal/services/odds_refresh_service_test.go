package services

import (
	"testing"
	"time"

	"betleague/internal/config"
	"betleague/internal/sportsdata"
)

func matchWithStatus(status string, date time.Time) sportsdata.Match {
	return sportsdata.Match{
		Fixture: sportsdata.Fixture{
			ID:     1,
			Date:   date,
			Status: sportsdata.FixtureStatus{Short: status},
		},
		Teams: sportsdata.Teams{
			Home: sportsdata.Team{ID: 10},
			Away: sportsdata.Team{ID: 20},
		},
	}
}

func TestIsRelevantFiltersFixtures(t *testing.T) {
	service := NewOddsRefreshService(nil, nil, nil, config.SportsAPIConfig{})
	future := time.Now().Add(48 * time.Hour)
	past := time.Now().Add(-2 * time.Hour)

	tests := []struct {
		name     string
		match    sportsdata.Match
		settings BettingSettings
		want     bool
	}{
		{"upcoming fixture", matchWithStatus("NS", future), BettingSettings{}, true},
		{"already kicked off", matchWithStatus("NS", past), BettingSettings{}, false},
		{"in play", matchWithStatus("1H", future), BettingSettings{}, false},
		{"finished", matchWithStatus("FT", future), BettingSettings{}, false},
		{"finished after extra time", matchWithStatus("AET", future), BettingSettings{}, false},
		{"postponed but future dated", matchWithStatus("PST", future), BettingSettings{}, false},
		{"cancelled", matchWithStatus("CANC", future), BettingSettings{}, false},
		{"team on enabled list", matchWithStatus("NS", future), BettingSettings{EnabledTeamIDs: []int64{20}}, true},
		{"team off enabled list", matchWithStatus("NS", future), BettingSettings{EnabledTeamIDs: []int64{99}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := service.isRelevant(tt.match, &tt.settings); got != tt.want {
				t.Errorf("isRelevant = %v, want %v", got, tt.want)
			}
		})
	}
}
