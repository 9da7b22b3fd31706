package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"betleague/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettleFixture records a fixture result and grades every pending selection
// on that fixture. A combo is lost as soon as one leg is lost and won only
// when every leg has won; winning bets credit stake x odds back to the
// weekly budget. Selections on markets the grader does not understand stay
// pending for an administrative decision.
func (s *BetService) SettleFixture(ctx context.Context, result *models.MatchResult) error {
	result.RecordedAt = time.Now()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "fixture_id"}},
			UpdateAll: true,
		}).Create(result).Error; err != nil {
			return fmt.Errorf("failed to record match result: %w", err)
		}

		var selections []models.BetSelection
		if err := tx.Where("fixture_id = ? AND status = ?", result.FixtureID, models.SelectionStatusPending).
			Find(&selections).Error; err != nil {
			return fmt.Errorf("failed to load pending selections: %w", err)
		}

		affected := make(map[uint]bool)
		for _, sel := range selections {
			won, gradable := gradeSelection(sel, result)
			if !gradable {
				log.Printf("Cannot grade market %q selection %q on fixture %d, leaving pending",
					sel.Market, sel.Selection, sel.FixtureID)
				continue
			}

			status := models.SelectionStatusLost
			if won {
				status = models.SelectionStatusWon
			}
			if err := tx.Model(&models.BetSelection{}).
				Where("id = ?", sel.ID).
				Update("status", status).Error; err != nil {
				return fmt.Errorf("failed to grade selection %d: %w", sel.ID, err)
			}
			affected[sel.BetID] = true
		}

		for betID := range affected {
			if err := settleBet(tx, betID); err != nil {
				return err
			}
		}
		return nil
	})
}

// settleBet moves a pending bet to won/lost once its legs allow a verdict
func settleBet(tx *gorm.DB, betID uint) error {
	var bet models.Bet
	if err := tx.Preload("Selections").First(&bet, betID).Error; err != nil {
		return fmt.Errorf("failed to load bet %d: %w", betID, err)
	}
	if bet.Status != models.BetStatusPending {
		return nil
	}

	anyLost := false
	allWon := true
	for _, sel := range bet.Selections {
		switch sel.Status {
		case models.SelectionStatusLost:
			anyLost = true
			allWon = false
		case models.SelectionStatusWon:
			// counts toward allWon
		default:
			allWon = false
		}
	}

	now := time.Now()
	switch {
	case anyLost:
		if err := tx.Model(&models.Bet{}).Where("id = ?", bet.ID).
			Updates(map[string]interface{}{
				"status":     models.BetStatusLost,
				"settled_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to settle bet %d: %w", bet.ID, err)
		}
	case allWon:
		payout := bet.Stake.Mul(bet.Odds).Round(2)
		if err := tx.Model(&models.Bet{}).Where("id = ?", bet.ID).
			Updates(map[string]interface{}{
				"status":     models.BetStatusWon,
				"payout":     payout,
				"settled_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to settle bet %d: %w", bet.ID, err)
		}
		if err := tx.Model(&models.Profile{}).Where("id = ?", bet.ProfileID).
			Update("weekly_budget", gorm.Expr("weekly_budget + ?", payout)).Error; err != nil {
			return fmt.Errorf("failed to credit payout for bet %d: %w", bet.ID, err)
		}
	default:
		// Other legs still pending
		return nil
	}

	return recalcTotalPoints(tx, bet.ProfileID)
}

// UpdateBetStatus is the administrative override for bets whose markets the
// grader cannot settle. Winning overrides credit the payout like a normal
// settlement.
func (s *BetService) UpdateBetStatus(ctx context.Context, betID uint, status string) (*models.Bet, error) {
	if status != models.BetStatusWon && status != models.BetStatusLost {
		return nil, fmt.Errorf("unsupported bet status %q", status)
	}

	var bet models.Bet
	if err := s.db.WithContext(ctx).First(&bet, betID).Error; err != nil {
		return nil, fmt.Errorf("failed to load bet: %w", err)
	}
	if bet.Status != models.BetStatusPending {
		return nil, fmt.Errorf("bet %d is already %s", betID, bet.Status)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		updates := map[string]interface{}{
			"status":     status,
			"settled_at": now,
		}
		if status == models.BetStatusWon {
			payout := bet.Stake.Mul(bet.Odds).Round(2)
			updates["payout"] = payout
			if err := tx.Model(&models.Profile{}).Where("id = ?", bet.ProfileID).
				Update("weekly_budget", gorm.Expr("weekly_budget + ?", payout)).Error; err != nil {
				return fmt.Errorf("failed to credit payout: %w", err)
			}
		}
		if err := tx.Model(&models.Bet{}).Where("id = ?", bet.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update bet status: %w", err)
		}
		return recalcTotalPoints(tx, bet.ProfileID)
	})
	if err != nil {
		return nil, err
	}

	return &bet, s.db.WithContext(ctx).Preload("Selections").First(&bet, betID).Error
}

// RecalcTotalPoints recomputes a profile's lifetime points from its settled
// bets and stores the result on the profile.
func (s *BetService) RecalcTotalPoints(ctx context.Context, profileID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return recalcTotalPoints(tx, profileID)
	})
}

func recalcTotalPoints(tx *gorm.DB, profileID uint) error {
	var total decimal.Decimal
	row := tx.Model(&models.Bet{}).
		Select("COALESCE(SUM(COALESCE(payout, 0) - stake), 0)").
		Where("profile_id = ? AND status IN ?", profileID,
			[]string{models.BetStatusWon, models.BetStatusLost}).
		Row()
	if err := row.Scan(&total); err != nil {
		return fmt.Errorf("failed to sum settled bets: %w", err)
	}

	if err := tx.Model(&models.Profile{}).Where("id = ?", profileID).
		Update("total_points", total).Error; err != nil {
		return fmt.Errorf("failed to update total points: %w", err)
	}
	return nil
}
