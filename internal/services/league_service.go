package services

import (
	"context"
	"fmt"

	"betleague/internal/models"

	"gorm.io/gorm"
)

// LeagueService owns league administration: standings, the week counter and
// the weekly budget reset. Advancing the week is an administrative
// operation, not something settlement triggers.
type LeagueService struct {
	db *gorm.DB
}

func NewLeagueService(db *gorm.DB) *LeagueService {
	return &LeagueService{db: db}
}

// Standings returns the league's profiles ordered by lifetime points
func (s *LeagueService) Standings(ctx context.Context, leagueID uint) ([]models.Profile, error) {
	var profiles []models.Profile
	err := s.db.WithContext(ctx).
		Where("league_id = ?", leagueID).
		Order("total_points DESC, username ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load standings: %w", err)
	}
	return profiles, nil
}

// AdvanceWeek snapshots every member's week into weekly_performance, resets
// weekly budgets and block quotas to the league allowance, and increments
// the week counter, all in one transaction.
func (s *LeagueService) AdvanceWeek(ctx context.Context, leagueID uint) (*models.League, error) {
	var league models.League

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&league, leagueID).Error; err != nil {
			return fmt.Errorf("failed to load league: %w", err)
		}

		var profiles []models.Profile
		if err := tx.Where("league_id = ?", leagueID).Find(&profiles).Error; err != nil {
			return fmt.Errorf("failed to load league members: %w", err)
		}

		for _, profile := range profiles {
			snapshot := models.WeeklyPerformance{
				ProfileID:  profile.ID,
				LeagueID:   leagueID,
				Week:       league.CurrentWeek,
				Points:     profile.TotalPoints,
				BudgetLeft: profile.WeeklyBudget,
			}
			if err := tx.Create(&snapshot).Error; err != nil {
				return fmt.Errorf("failed to snapshot profile %d: %w", profile.ID, err)
			}
		}

		blocks := 0
		if league.IsPremium() {
			blocks = 1
		}
		if err := tx.Model(&models.Profile{}).
			Where("league_id = ?", leagueID).
			Updates(map[string]interface{}{
				"weekly_budget":    league.WeeklyBudget,
				"blocks_available": blocks,
			}).Error; err != nil {
			return fmt.Errorf("failed to reset weekly budgets: %w", err)
		}

		league.CurrentWeek++
		if err := tx.Model(&models.League{}).Where("id = ?", leagueID).
			Update("current_week", league.CurrentWeek).Error; err != nil {
			return fmt.Errorf("failed to advance week: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &league, nil
}

// WeeklyHistory returns a profile's per-week snapshots, newest first
func (s *LeagueService) WeeklyHistory(ctx context.Context, profileID uint) ([]models.WeeklyPerformance, error) {
	var rows []models.WeeklyPerformance
	err := s.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("week DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load weekly history: %w", err)
	}
	return rows, nil
}
