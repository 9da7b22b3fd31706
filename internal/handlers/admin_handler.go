package handlers

import (
	"net/http"
	"strconv"

	"betleague/internal/auth"
	"betleague/internal/models"
	"betleague/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AdminHandler exposes the administrative surface: settings toggles, league
// lifecycle, result entry and manual overrides.
type AdminHandler struct {
	db              *gorm.DB
	settingsService *services.SettingsService
	leagueService   *services.LeagueService
	betService      *services.BetService
	authService     *services.AuthService
}

func NewAdminHandler(db *gorm.DB, settingsService *services.SettingsService,
	leagueService *services.LeagueService, betService *services.BetService,
	authService *services.AuthService) *AdminHandler {
	return &AdminHandler{
		db:              db,
		settingsService: settingsService,
		leagueService:   leagueService,
		betService:      betService,
		authService:     authService,
	}
}

// GetSettings returns the typed betting settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    settings,
	})
}

// UpdateSettings overwrites the typed betting settings
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var settings services.BettingSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.settingsService.Save(c.Request.Context(), &settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    settings,
	})
}

// CreateLeague creates a new league
func (h *AdminHandler) CreateLeague(c *gin.Context) {
	var req struct {
		Name         string           `json:"name" binding:"required"`
		Type         string           `json:"type"`
		MinBet       decimal.Decimal  `json:"min_bet"`
		MaxBet       *decimal.Decimal `json:"max_bet"`
		WeeklyBudget decimal.Decimal  `json:"weekly_budget" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	leagueType := req.Type
	if leagueType == "" {
		leagueType = models.LeagueTypeFree
	}

	league := models.League{
		Name:         req.Name,
		Type:         leagueType,
		MinBet:       req.MinBet,
		MaxBet:       req.MaxBet,
		WeeklyBudget: req.WeeklyBudget,
		ResetPolicy:  models.ResetPolicyWeekly,
		CurrentWeek:  1,
	}
	if err := h.db.Create(&league).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create league"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    league,
	})
}

// AdvanceWeek snapshots the week and resets budgets for one league
func (h *AdminHandler) AdvanceWeek(c *gin.Context) {
	leagueID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid league id"})
		return
	}

	league, err := h.leagueService.AdvanceWeek(c.Request.Context(), uint(leagueID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to advance week"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    league,
	})
}

// CreateProfile registers a new player
func (h *AdminHandler) CreateProfile(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		LeagueID uint   `json:"league_id" binding:"required"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.authService.CreateProfile(c.Request.Context(), req.Username, req.Password, req.LeagueID, req.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    profile,
	})
}

// SetProfileBudget is the administrative budget override
func (h *AdminHandler) SetProfileBudget(c *gin.Context) {
	profileID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id"})
		return
	}

	var req struct {
		WeeklyBudget decimal.Decimal `json:"weekly_budget"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.db.Model(&models.Profile{}).Where("id = ?", profileID).
		Update("weekly_budget", req.WeeklyBudget)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update budget"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RecordResult stores a final score and settles every pending selection on
// the fixture.
func (h *AdminHandler) RecordResult(c *gin.Context) {
	var req struct {
		FixtureID int64 `json:"fixture_id" binding:"required"`
		HomeGoals *int  `json:"home_goals" binding:"required"`
		AwayGoals *int  `json:"away_goals" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := models.MatchResult{
		FixtureID: req.FixtureID,
		HomeGoals: *req.HomeGoals,
		AwayGoals: *req.AwayGoals,
	}
	if err := h.betService.SettleFixture(c.Request.Context(), &result); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to settle fixture"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// UpdateBetStatus is the manual verdict for bets on ungradable markets
func (h *AdminHandler) UpdateBetStatus(c *gin.Context) {
	betID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bet id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bet, err := h.betService.UpdateBetStatus(c.Request.Context(), uint(betID), req.Status)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bet,
	})
}

// RecalcTotalPoints recomputes one profile's lifetime points
func (h *AdminHandler) RecalcTotalPoints(c *gin.Context) {
	profileID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id"})
		return
	}

	if err := h.betService.RecalcTotalPoints(c.Request.Context(), uint(profileID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recalculate points"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CreateNews publishes a league announcement
func (h *AdminHandler) CreateNews(c *gin.Context) {
	authorID, ok := auth.GetProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		LeagueID uint   `json:"league_id" binding:"required"`
		Title    string `json:"title" binding:"required"`
		Body     string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	news := models.News{
		LeagueID: req.LeagueID,
		AuthorID: authorID,
		Title:    req.Title,
		Body:     req.Body,
	}
	if err := h.db.Create(&news).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create news"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    news,
	})
}

// CreateDiscountCode creates a premium-upgrade discount code
func (h *AdminHandler) CreateDiscountCode(c *gin.Context) {
	var req struct {
		Code       string `json:"code" binding:"required"`
		PercentOff int    `json:"percent_off" binding:"required"`
		MaxUses    int    `json:"max_uses"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.PercentOff < 1 || req.PercentOff > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "percent_off must be between 1 and 100"})
		return
	}

	discount := models.DiscountCode{
		Code:       req.Code,
		PercentOff: req.PercentOff,
		MaxUses:    req.MaxUses,
		Active:     true,
	}
	if err := h.db.Create(&discount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create discount code"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    discount,
	})
}
