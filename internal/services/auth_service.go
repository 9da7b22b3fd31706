package services

import (
	"context"
	"errors"
	"fmt"

	"betleague/internal/auth"
	"betleague/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService authenticates profiles and issues JWTs
type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Login verifies the credentials and returns a signed token with the profile
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Preload("League").Where("username = ?", username).First(&profile).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(profile.ID, profile.Username, profile.Role)
	if err != nil {
		return "", nil, err
	}
	return token, &profile, nil
}

// CreateProfile registers a new player in a league. Admin-driven; the
// starting budget and block quota come from the league.
func (s *AuthService) CreateProfile(ctx context.Context, username, password string, leagueID uint, role string) (*models.Profile, error) {
	var league models.League
	if err := s.db.WithContext(ctx).First(&league, leagueID).Error; err != nil {
		return nil, fmt.Errorf("failed to load league: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if role == "" {
		role = models.RolePlayer
	}

	blocks := 0
	if league.IsPremium() {
		blocks = 1
	}

	profile := &models.Profile{
		Username:        username,
		PasswordHash:    string(hash),
		LeagueID:        league.ID,
		Role:            role,
		WeeklyBudget:    league.WeeklyBudget,
		BlocksAvailable: blocks,
	}
	if err := s.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}
