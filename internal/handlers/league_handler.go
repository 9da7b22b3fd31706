package handlers

import (
	"net/http"
	"strconv"

	"betleague/internal/auth"
	"betleague/internal/models"
	"betleague/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LeagueHandler struct {
	db            *gorm.DB
	leagueService *services.LeagueService
}

func NewLeagueHandler(db *gorm.DB, leagueService *services.LeagueService) *LeagueHandler {
	return &LeagueHandler{db: db, leagueService: leagueService}
}

// GetLeague returns one league
func (h *LeagueHandler) GetLeague(c *gin.Context) {
	leagueID := c.Param("id")

	var league models.League
	if err := h.db.Where("id = ?", leagueID).First(&league).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "League not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch league"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    league,
	})
}

// GetStandings returns the league table ordered by total points
func (h *LeagueHandler) GetStandings(c *gin.Context) {
	leagueID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid league id"})
		return
	}

	standings, err := h.leagueService.Standings(c.Request.Context(), uint(leagueID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch standings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    standings,
		"count":   len(standings),
	})
}

// GetWeeklyHistory returns the caller's per-week performance snapshots
func (h *LeagueHandler) GetWeeklyHistory(c *gin.Context) {
	profileID, ok := auth.GetProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	history, err := h.leagueService.WeeklyHistory(c.Request.Context(), profileID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    history,
	})
}

// GetNews lists a league's announcements, newest first
func (h *LeagueHandler) GetNews(c *gin.Context) {
	leagueID := c.Param("id")

	var news []models.News
	if err := h.db.Where("league_id = ?", leagueID).Order("created_at DESC").Find(&news).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch news"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    news,
		"count":   len(news),
	})
}
