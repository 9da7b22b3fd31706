package services

import (
	"context"
	"testing"

	"betleague/internal/models"

	"github.com/shopspring/decimal"
)

func TestStandingsOrderedByPointsThenUsername(t *testing.T) {
	db := setupTestDB(t)
	league := createTestLeague(t, db, models.LeagueTypeFree)
	service := NewLeagueService(db)

	ana := createTestProfile(t, db, league, "ana")
	bea := createTestProfile(t, db, league, "bea")
	carla := createTestProfile(t, db, league, "carla")
	db.Model(&models.Profile{}).Where("id = ?", ana.ID).Update("total_points", decimal.NewFromInt(10))
	db.Model(&models.Profile{}).Where("id = ?", bea.ID).Update("total_points", decimal.NewFromInt(30))
	db.Model(&models.Profile{}).Where("id = ?", carla.ID).Update("total_points", decimal.NewFromInt(10))

	standings, err := service.Standings(context.Background(), league.ID)
	if err != nil {
		t.Fatalf("standings failed: %v", err)
	}
	if len(standings) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(standings))
	}
	got := []string{standings[0].Username, standings[1].Username, standings[2].Username}
	want := []string{"bea", "ana", "carla"} // ties broken alphabetically
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestAdvanceWeekSnapshotsAndResets(t *testing.T) {
	db := setupTestDB(t)
	league := createTestLeague(t, db, models.LeagueTypePremium)
	profile := createTestProfile(t, db, league, "ana")
	db.Model(&models.Profile{}).Where("id = ?", profile.ID).Updates(map[string]interface{}{
		"weekly_budget":    decimal.NewFromInt(420),
		"total_points":     decimal.NewFromInt(80),
		"blocks_available": 0,
	})

	service := NewLeagueService(db)
	advanced, err := service.AdvanceWeek(context.Background(), league.ID)
	if err != nil {
		t.Fatalf("advance week failed: %v", err)
	}
	if advanced.CurrentWeek != 2 {
		t.Fatalf("expected week 2, got %d", advanced.CurrentWeek)
	}

	var snapshot models.WeeklyPerformance
	if err := db.Where("profile_id = ?", profile.ID).First(&snapshot).Error; err != nil {
		t.Fatalf("snapshot missing: %v", err)
	}
	if snapshot.Week != 1 || !snapshot.BudgetLeft.Equal(decimal.NewFromInt(420)) ||
		!snapshot.Points.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}

	after := reloadProfile(t, db, profile.ID)
	if !after.WeeklyBudget.Equal(league.WeeklyBudget) {
		t.Fatalf("budget should reset to league allowance, got %s", after.WeeklyBudget)
	}
	if after.BlocksAvailable != 1 {
		t.Fatalf("premium league should reset block quota to 1, got %d", after.BlocksAvailable)
	}
}

func TestAdvanceWeekFreeLeagueGrantsNoBlocks(t *testing.T) {
	db := setupTestDB(t)
	league := createTestLeague(t, db, models.LeagueTypeFree)
	profile := createTestProfile(t, db, league, "ana")

	service := NewLeagueService(db)
	if _, err := service.AdvanceWeek(context.Background(), league.ID); err != nil {
		t.Fatalf("advance week failed: %v", err)
	}

	after := reloadProfile(t, db, profile.ID)
	if after.BlocksAvailable != 0 {
		t.Fatalf("free league members should get no blocks, got %d", after.BlocksAvailable)
	}
}

func TestWeeklyHistoryNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	league := createTestLeague(t, db, models.LeagueTypeFree)
	profile := createTestProfile(t, db, league, "ana")
	service := NewLeagueService(db)

	for week := 1; week <= 3; week++ {
		row := models.WeeklyPerformance{
			ProfileID: profile.ID,
			LeagueID:  league.ID,
			Week:      week,
		}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("failed to seed history: %v", err)
		}
	}

	history, err := service.WeeklyHistory(context.Background(), profile.ID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != 3 || history[0].Week != 3 || history[2].Week != 1 {
		t.Fatalf("expected weeks [3 2 1], got %+v", history)
	}
}
