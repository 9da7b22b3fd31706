package services

import (
	"context"
	"errors"
	"testing"

	"betleague/internal/models"

	"gorm.io/gorm"
)

// stubFixtureSource reports a fixed number of upcoming fixtures
type stubFixtureSource struct {
	count int
}

func (s *stubFixtureSource) UpcomingFixtureCount(ctx context.Context) (int, error) {
	return s.count, nil
}

func setupBlockTest(t *testing.T) (*gorm.DB, *BlockService, *stubFixtureSource) {
	t.Helper()
	db := setupTestDB(t)
	fixtures := &stubFixtureSource{count: 10}
	service := NewBlockService(db, fixtures, NewSettingsService(db, 15))
	return db, service, fixtures
}

func grantBlocks(t *testing.T, db *gorm.DB, profileID uint, n int) {
	t.Helper()
	if err := db.Model(&models.Profile{}).Where("id = ?", profileID).
		Update("blocks_available", n).Error; err != nil {
		t.Fatalf("failed to grant blocks: %v", err)
	}
}

func TestCreateBlockConsumesQuota(t *testing.T) {
	db, service, _ := setupBlockTest(t)
	league := createTestLeague(t, db, models.LeagueTypePremium)
	blocker := createTestProfile(t, db, league, "ana")
	target := createTestProfile(t, db, league, "bea")
	grantBlocks(t, db, blocker.ID, 1)

	block, err := service.CreateBlock(context.Background(), blocker.ID, target.ID, 100)
	if err != nil {
		t.Fatalf("create block failed: %v", err)
	}
	if block.Week != 1 || block.FixtureID != 100 {
		t.Fatalf("unexpected block %+v", block)
	}

	after := reloadProfile(t, db, blocker.ID)
	if after.BlocksAvailable != 0 {
		t.Fatalf("quota should be consumed, got %d", after.BlocksAvailable)
	}
}

func TestCreateBlockRequiresPremiumLeague(t *testing.T) {
	db, service, _ := setupBlockTest(t)
	league := createTestLeague(t, db, models.LeagueTypeFree)
	blocker := createTestProfile(t, db, league, "ana")
	target := createTestProfile(t, db, league, "bea")
	grantBlocks(t, db, blocker.ID, 1)

	_, err := service.CreateBlock(context.Background(), blocker.ID, target.ID, 100)
	if !errors.Is(err, ErrBlocksNotAvailable) {
		t.Fatalf("expected ErrBlocksNotAvailable, got %v", err)
	}
}

func TestCreateBlockRejectsSelf(t *testing.T) {
	db, service, _ := setupBlockTest(t)
	league := createTestLeague(t, db, models.LeagueTypePremium)
	blocker := createTestProfile(t, db, league, "ana")
	grantBlocks(t, db, blocker.ID, 1)

	_, err := service.CreateBlock(context.Background(), blocker.ID, blocker.ID, 100)
	if !errors.Is(err, ErrSelfBlock) {
		t.Fatalf("expected ErrSelfBlock, got %v", err)
	}
}

func TestCreateBlockRejectsCrossLeagueTarget(t *testing.T) {
	db, service, _ := setupBlockTest(t)
	league := createTestLeague(t, db, models.LeagueTypePremium)
	other := createTestLeague(t, db, models.LeagueTypeFree)
	blocker := createTestProfile(t, db, league, "ana")
	target := createTestProfile(t, db, other, "bea")
	grantBlocks(t, db, blocker.ID, 1)

	_, err := service.CreateBlock(context.Background(), blocker.ID, target.ID, 100)
	if !errors.Is(err, ErrNotSameLeague) {
		t.Fatalf("expected ErrNotSameLeague, got %v", err)
	}
}

func TestCreateBlockWithoutQuota(t *testing.T) {
	db, service, _ := setupBlockTest(t)
	league := createTestLeague(t, db, models.LeagueTypePremium)
	blocker := createTestProfile(t, db, league, "ana")
	target := createTestProfile(t, db, league, "bea")
	// blocks_available stays 0

	_, err := service.CreateBlock(context.Background(), blocker.ID, target.ID, 100)
	if !errors.Is(err, ErrNoBlocksLeft) {
		t.Fatalf("expected ErrNoBlocksLeft, got %v", err)
	}

	var count int64
	db.Model(&models.MatchBlock{}).Count(&count)
	if count != 0 {
		t.Fatalf("rejected block must leave no rows, got %d", count)
	}
}

func TestCreateBlockOncePerPairPerWeek(t *testing.T) {
	db, service, _ := setupBlockTest(t)
	league := createTestLeague(t, db, models.LeagueTypePremium)
	blocker := createTestProfile(t, db, league, "ana")
	target := createTestProfile(t, db, league, "bea")
	grantBlocks(t, db, blocker.ID, 2)

	if _, err := service.CreateBlock(context.Background(), blocker.ID, target.ID, 100); err != nil {
		t.Fatalf("first block failed: %v", err)
	}
	_, err := service.CreateBlock(context.Background(), blocker.ID, target.ID, 200)
	if !errors.Is(err, ErrAlreadyBlockedPair) {
		t.Fatalf("expected ErrAlreadyBlockedPair, got %v", err)
	}
}

func TestCreateBlockCeilingOnBlocksReceived(t *testing.T) {
	db, service, _ := setupBlockTest(t)
	league := createTestLeague(t, db, models.LeagueTypePremium)
	target := createTestProfile(t, db, league, "bea")

	// Default ceiling is 3 blocks received per week
	for i, name := range []string{"ana", "carla", "dora"} {
		blocker := createTestProfile(t, db, league, name)
		grantBlocks(t, db, blocker.ID, 1)
		if _, err := service.CreateBlock(context.Background(), blocker.ID, target.ID, int64(100+i)); err != nil {
			t.Fatalf("block %d failed: %v", i, err)
		}
	}

	fourth := createTestProfile(t, db, league, "eva")
	grantBlocks(t, db, fourth.ID, 1)
	_, err := service.CreateBlock(context.Background(), fourth.ID, target.ID, 400)
	if !errors.Is(err, ErrTargetCeilingReached) {
		t.Fatalf("expected ErrTargetCeilingReached, got %v", err)
	}
}

func TestCreateBlockFloorKeepsTargetBiddable(t *testing.T) {
	db, service, fixtures := setupBlockTest(t)
	league := createTestLeague(t, db, models.LeagueTypePremium)
	blocker := createTestProfile(t, db, league, "ana")
	target := createTestProfile(t, db, league, "bea")
	grantBlocks(t, db, blocker.ID, 1)

	// Default floor is 3 biddable fixtures. With 3 upcoming fixtures and
	// no prior blocks, one more block would leave only 2.
	fixtures.count = 3
	_, err := service.CreateBlock(context.Background(), blocker.ID, target.ID, 100)
	if !errors.Is(err, ErrTargetFloorReached) {
		t.Fatalf("expected ErrTargetFloorReached, got %v", err)
	}

	fixtures.count = 4
	if _, err := service.CreateBlock(context.Background(), blocker.ID, target.ID, 100); err != nil {
		t.Fatalf("block at exactly the floor should pass, got %v", err)
	}
}

func TestCreateBlockFixtureAlreadyBlockedForTarget(t *testing.T) {
	db, service, _ := setupBlockTest(t)
	league := createTestLeague(t, db, models.LeagueTypePremium)
	target := createTestProfile(t, db, league, "bea")

	first := createTestProfile(t, db, league, "ana")
	grantBlocks(t, db, first.ID, 1)
	if _, err := service.CreateBlock(context.Background(), first.ID, target.ID, 100); err != nil {
		t.Fatalf("first block failed: %v", err)
	}

	second := createTestProfile(t, db, league, "carla")
	grantBlocks(t, db, second.ID, 1)
	_, err := service.CreateBlock(context.Background(), second.ID, target.ID, 100)
	if !errors.Is(err, ErrFixtureAlreadyBlocked) {
		t.Fatalf("expected ErrFixtureAlreadyBlocked, got %v", err)
	}
}

func TestBlocksAgainstListsCurrentWeekOnly(t *testing.T) {
	db, service, _ := setupBlockTest(t)
	league := createTestLeague(t, db, models.LeagueTypePremium)
	blocker := createTestProfile(t, db, league, "ana")
	target := createTestProfile(t, db, league, "bea")

	stale := models.MatchBlock{
		LeagueID: league.ID, Week: 0,
		BlockerProfileID: blocker.ID, BlockedProfileID: target.ID, FixtureID: 50,
	}
	active := models.MatchBlock{
		LeagueID: league.ID, Week: 1,
		BlockerProfileID: blocker.ID, BlockedProfileID: target.ID, FixtureID: 100,
	}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("failed to seed stale block: %v", err)
	}
	if err := db.Create(&active).Error; err != nil {
		t.Fatalf("failed to seed active block: %v", err)
	}

	blocks, err := service.BlocksAgainst(context.Background(), target.ID)
	if err != nil {
		t.Fatalf("blocks against failed: %v", err)
	}
	if len(blocks) != 1 || blocks[0].FixtureID != 100 {
		t.Fatalf("expected only the current-week block, got %+v", blocks)
	}
}
