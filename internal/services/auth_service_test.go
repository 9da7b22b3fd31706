package services

import (
	"context"
	"errors"
	"testing"

	"betleague/internal/auth"
	"betleague/internal/models"
)

func TestLoginAndCreateProfile(t *testing.T) {
	auth.InitJWT("test-secret")
	db := setupTestDB(t)
	league := createTestLeague(t, db, models.LeagueTypePremium)
	service := NewAuthService(db)
	ctx := context.Background()

	profile, err := service.CreateProfile(ctx, "ana", "secreto123", league.ID, "")
	if err != nil {
		t.Fatalf("create profile failed: %v", err)
	}
	if profile.Role != models.RolePlayer {
		t.Fatalf("expected default player role, got %s", profile.Role)
	}
	if !profile.WeeklyBudget.Equal(league.WeeklyBudget) {
		t.Fatalf("starting budget should come from the league, got %s", profile.WeeklyBudget)
	}
	if profile.BlocksAvailable != 1 {
		t.Fatalf("premium league members start with one block, got %d", profile.BlocksAvailable)
	}
	if profile.PasswordHash == "secreto123" {
		t.Fatal("password must not be stored in the clear")
	}

	token, logged, err := service.Login(ctx, "ana", "secreto123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || logged.ID != profile.ID {
		t.Fatalf("unexpected login result token=%q profile=%+v", token, logged)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("issued token should validate: %v", err)
	}
	if claims.ProfileID != profile.ID || claims.Username != "ana" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	auth.InitJWT("test-secret")
	db := setupTestDB(t)
	league := createTestLeague(t, db, models.LeagueTypeFree)
	service := NewAuthService(db)
	ctx := context.Background()

	if _, err := service.CreateProfile(ctx, "ana", "secreto123", league.ID, ""); err != nil {
		t.Fatalf("create profile failed: %v", err)
	}

	if _, _, err := service.Login(ctx, "ana", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := service.Login(ctx, "nobody", "secreto123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user should look like bad credentials, got %v", err)
	}
}
