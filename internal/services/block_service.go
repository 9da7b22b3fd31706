package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"betleague/internal/models"

	"gorm.io/gorm"
)

var (
	ErrBlocksNotAvailable    = errors.New("match blocks require a premium league")
	ErrSelfBlock             = errors.New("cannot block yourself")
	ErrNotSameLeague         = errors.New("target plays in a different league")
	ErrNoBlocksLeft          = errors.New("no blocks available this week")
	ErrAlreadyBlockedPair    = errors.New("you already blocked this player this week")
	ErrTargetFloorReached    = errors.New("target must keep enough biddable fixtures")
	ErrTargetCeilingReached  = errors.New("target already received the maximum blocks this week")
	ErrFixtureAlreadyBlocked = errors.New("this fixture is already blocked for the target")
)

// FixtureSource reports how many fixtures are currently open for betting.
// The odds snapshot store implements it.
type FixtureSource interface {
	UpcomingFixtureCount(ctx context.Context) (int, error)
}

// BlockService owns the premium match-block feature. Every gate is
// re-validated at mutation time, and the two racy steps of the original
// design (quota read-then-write, pair uniqueness) are replaced by a
// conditional decrement and a composite unique index.
type BlockService struct {
	db       *gorm.DB
	fixtures FixtureSource
	settings *SettingsService
}

func NewBlockService(db *gorm.DB, fixtures FixtureSource, settings *SettingsService) *BlockService {
	return &BlockService{db: db, fixtures: fixtures, settings: settings}
}

// CreateBlock prevents the target from betting on the fixture for the
// current league week, consuming one unit of the blocker's quota.
func (s *BlockService) CreateBlock(ctx context.Context, blockerID, blockedID uint, fixtureID int64) (*models.MatchBlock, error) {
	if blockerID == blockedID {
		return nil, ErrSelfBlock
	}

	var blocker models.Profile
	if err := s.db.WithContext(ctx).Preload("League").First(&blocker, blockerID).Error; err != nil {
		return nil, fmt.Errorf("failed to load blocker profile: %w", err)
	}
	if blocker.League == nil || !blocker.League.IsPremium() {
		return nil, ErrBlocksNotAvailable
	}

	var blocked models.Profile
	if err := s.db.WithContext(ctx).First(&blocked, blockedID).Error; err != nil {
		return nil, fmt.Errorf("failed to load target profile: %w", err)
	}
	if blocked.LeagueID != blocker.LeagueID {
		return nil, ErrNotSameLeague
	}

	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	week := blocker.League.CurrentWeek
	leagueID := blocker.LeagueID

	// Floor: the target must retain at least MinBiddableFixtures fixtures
	// after every block against them, this one included.
	upcoming, err := s.fixtures.UpcomingFixtureCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count upcoming fixtures: %w", err)
	}
	received, err := s.countBlocks(ctx, "league_id = ? AND week = ? AND blocked_profile_id = ?", leagueID, week, blockedID)
	if err != nil {
		return nil, err
	}
	if upcoming-received-1 < settings.MinBiddableFixtures {
		return nil, ErrTargetFloorReached
	}

	// Ceiling on blocks received per week
	if received >= settings.MaxBlocksPerWeek {
		return nil, ErrTargetCeilingReached
	}

	// One block per (blocker, blocked) pair per week
	pair, err := s.countBlocks(ctx, "league_id = ? AND week = ? AND blocker_profile_id = ? AND blocked_profile_id = ?",
		leagueID, week, blockerID, blockedID)
	if err != nil {
		return nil, err
	}
	if pair > 0 {
		return nil, ErrAlreadyBlockedPair
	}

	// The fixture must not already be blocked for the target by anyone
	fixtureBlocked, err := s.countBlocks(ctx, "league_id = ? AND week = ? AND blocked_profile_id = ? AND fixture_id = ?",
		leagueID, week, blockedID, fixtureID)
	if err != nil {
		return nil, err
	}
	if fixtureBlocked > 0 {
		return nil, ErrFixtureAlreadyBlocked
	}

	block := &models.MatchBlock{
		LeagueID:         leagueID,
		Week:             week,
		BlockerProfileID: blockerID,
		BlockedProfileID: blockedID,
		FixtureID:        fixtureID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Conditional decrement: two concurrent claims on the last quota
		// slot cannot both pass.
		result := tx.Model(&models.Profile{}).
			Where("id = ? AND blocks_available > 0", blockerID).
			Update("blocks_available", gorm.Expr("blocks_available - 1"))
		if result.Error != nil {
			return fmt.Errorf("failed to consume block quota: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNoBlocksLeft
		}

		if err := tx.Create(block).Error; err != nil {
			// The composite unique index is the backstop for two
			// concurrent blocks on the same pair.
			if isUniqueViolation(err) {
				return ErrAlreadyBlockedPair
			}
			return fmt.Errorf("failed to create match block: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return block, nil
}

// BlocksAgainst lists the active blocks received by a profile this week
func (s *BlockService) BlocksAgainst(ctx context.Context, profileID uint) ([]models.MatchBlock, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Preload("League").First(&profile, profileID).Error; err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile.League == nil {
		return nil, fmt.Errorf("profile %d has no league", profileID)
	}

	var blocks []models.MatchBlock
	err := s.db.WithContext(ctx).
		Where("league_id = ? AND week = ? AND blocked_profile_id = ?",
			profile.LeagueID, profile.League.CurrentWeek, profileID).
		Find(&blocks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load match blocks: %w", err)
	}
	return blocks, nil
}

func (s *BlockService) countBlocks(ctx context.Context, query string, args ...interface{}) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.MatchBlock{}).Where(query, args...).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count match blocks: %w", err)
	}
	return int(count), nil
}

// isUniqueViolation matches both the Postgres and the SQLite phrasing
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
