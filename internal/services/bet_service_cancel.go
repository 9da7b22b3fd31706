package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"betleague/internal/models"

	"gorm.io/gorm"
)

var (
	ErrBetNotCancellable = errors.New("bet can no longer be cancelled")
	ErrNotBetOwner       = errors.New("bet belongs to another profile")
)

// CancelBet refunds a pending bet's stake and marks it cancelled. Only the
// owner can cancel, and only while every leg is still before kickoff.
func (s *BetService) CancelBet(ctx context.Context, profileID, betID uint) (*models.Bet, error) {
	var bet models.Bet
	if err := s.db.WithContext(ctx).Preload("Selections").First(&bet, betID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("bet %d not found", betID)
		}
		return nil, fmt.Errorf("failed to load bet: %w", err)
	}

	if bet.ProfileID != profileID {
		return nil, ErrNotBetOwner
	}
	if bet.Status != models.BetStatusPending {
		return nil, ErrBetNotCancellable
	}

	now := time.Now()
	for _, sel := range bet.Selections {
		if !now.Before(sel.KickoffAt) {
			return nil, ErrBetNotCancellable
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Guard on status so a concurrent cancel or settlement cannot
		// refund twice.
		result := tx.Model(&models.Bet{}).
			Where("id = ? AND status = ?", bet.ID, models.BetStatusPending).
			Update("status", models.BetStatusCancelled)
		if result.Error != nil {
			return fmt.Errorf("failed to cancel bet: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrBetNotCancellable
		}

		if err := tx.Model(&models.Profile{}).
			Where("id = ?", bet.ProfileID).
			Update("weekly_budget", gorm.Expr("weekly_budget + ?", bet.Stake)).Error; err != nil {
			return fmt.Errorf("failed to refund stake: %w", err)
		}

		return tx.Model(&models.BetSelection{}).
			Where("bet_id = ?", bet.ID).
			Update("status", models.SelectionStatusVoid).Error
	})
	if err != nil {
		return nil, err
	}

	bet.Status = models.BetStatusCancelled
	return &bet, nil
}
