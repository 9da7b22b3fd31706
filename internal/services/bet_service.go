package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"betleague/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrLiveBettingDisabled = errors.New("live betting is not enabled")
	ErrFixtureBlocked      = errors.New("you are blocked from betting on a selected fixture")
)

// BetService owns bet placement, cancellation and settlement. Placement
// debits the weekly budget and inserts the bet rows in one transaction; the
// debit is a single conditional update so an insufficient budget can never
// leave partial rows behind.
type BetService struct {
	db       *gorm.DB
	settings *SettingsService
}

func NewBetService(db *gorm.DB, settings *SettingsService) *BetService {
	return &BetService{db: db, settings: settings}
}

// PlaceBetRequest is a submitted bet slip
type PlaceBetRequest struct {
	Stake      decimal.Decimal `json:"stake"`
	LiveView   bool            `json:"live_view"`
	Selections []SlipSelection `json:"selections"`
}

// PlaceSingleBet places a one-selection bet
func (s *BetService) PlaceSingleBet(ctx context.Context, profileID uint, req *PlaceBetRequest) (*models.Bet, error) {
	if len(req.Selections) > 1 {
		return nil, fmt.Errorf("single bet cannot carry %d selections", len(req.Selections))
	}
	return s.place(ctx, profileID, req, models.BetTypeSimple)
}

// PlaceComboBet places a multi-selection bet settled as one unit; its odds
// are the product of the leg odds.
func (s *BetService) PlaceComboBet(ctx context.Context, profileID uint, req *PlaceBetRequest) (*models.Bet, error) {
	if len(req.Selections) == 1 {
		return nil, fmt.Errorf("combo bet requires at least two selections")
	}
	return s.place(ctx, profileID, req, models.BetTypeCombo)
}

func (s *BetService) place(ctx context.Context, profileID uint, req *PlaceBetRequest, betType string) (*models.Bet, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Preload("League").First(&profile, profileID).Error; err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile.League == nil {
		return nil, fmt.Errorf("profile %d has no league", profileID)
	}

	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	if req.LiveView && !settings.LiveMatchesEnabled {
		return nil, ErrLiveBettingDisabled
	}

	input := SlipInput{
		Stake:      req.Stake,
		Selections: req.Selections,
		MinBet:     profile.League.MinBet,
		MaxBet:     profile.League.MaxBet,
		Budget:     profile.WeeklyBudget,
		Cutoff:     time.Duration(settings.CutoffMinutes) * time.Minute,
		LiveView:   req.LiveView,
		Now:        time.Now(),
	}
	if err := ValidateSlip(input); err != nil {
		return nil, err
	}

	if err := s.checkBlockedFixtures(ctx, &profile, req.Selections); err != nil {
		return nil, err
	}

	odds := decimal.NewFromInt(1)
	for _, sel := range req.Selections {
		odds = odds.Mul(sel.Odds)
	}

	bet := &models.Bet{
		ProfileID: profile.ID,
		LeagueID:  profile.LeagueID,
		Week:      profile.League.CurrentWeek,
		Type:      betType,
		Stake:     req.Stake,
		Odds:      odds,
		Status:    models.BetStatusPending,
	}
	for _, sel := range req.Selections {
		bet.Selections = append(bet.Selections, models.BetSelection{
			FixtureID: sel.FixtureID,
			HomeTeam:  sel.HomeTeam,
			AwayTeam:  sel.AwayTeam,
			Market:    sel.Market,
			Selection: sel.Selection,
			Odds:      sel.Odds,
			KickoffAt: sel.KickoffAt,
			Status:    models.SelectionStatusPending,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Conditional debit: zero rows affected means the budget moved
		// under us since validation.
		result := tx.Model(&models.Profile{}).
			Where("id = ? AND weekly_budget >= ?", profile.ID, req.Stake).
			Update("weekly_budget", gorm.Expr("weekly_budget - ?", req.Stake))
		if result.Error != nil {
			return fmt.Errorf("failed to debit budget: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrInsufficientBudget
		}

		if err := tx.Create(bet).Error; err != nil {
			return fmt.Errorf("failed to create bet: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return bet, nil
}

// checkBlockedFixtures rejects selections on fixtures another player has
// blocked for this profile in the current week.
func (s *BetService) checkBlockedFixtures(ctx context.Context, profile *models.Profile, selections []SlipSelection) error {
	fixtureIDs := make([]int64, 0, len(selections))
	for _, sel := range selections {
		fixtureIDs = append(fixtureIDs, sel.FixtureID)
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.MatchBlock{}).
		Where("league_id = ? AND week = ? AND blocked_profile_id = ? AND fixture_id IN ?",
			profile.LeagueID, profile.League.CurrentWeek, profile.ID, fixtureIDs).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check match blocks: %w", err)
	}
	if count > 0 {
		return ErrFixtureBlocked
	}
	return nil
}

// GetProfileBets returns a profile's bets with selections, newest first
func (s *BetService) GetProfileBets(ctx context.Context, profileID uint, week int) ([]models.Bet, error) {
	query := s.db.WithContext(ctx).Where("profile_id = ?", profileID)
	if week > 0 {
		query = query.Where("week = ?", week)
	}

	var bets []models.Bet
	if err := query.Preload("Selections").Order("created_at DESC").Find(&bets).Error; err != nil {
		return nil, fmt.Errorf("failed to load bets: %w", err)
	}
	return bets, nil
}
