package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"betleague/internal/auth"
	"betleague/internal/models"
	"betleague/internal/services"

	"github.com/gin-gonic/gin"
)

type BetHandler struct {
	betService *services.BetService
}

func NewBetHandler(betService *services.BetService) *BetHandler {
	return &BetHandler{betService: betService}
}

// slipErrors are surfaced verbatim to the user; anything else is generic
var slipErrors = []error{
	services.ErrInvalidStake,
	services.ErrNoSelections,
	services.ErrDuplicateFixture,
	services.ErrBettingClosed,
	services.ErrBelowMinimumBet,
	services.ErrAboveMaximumBet,
	services.ErrInsufficientBudget,
	services.ErrLiveBettingDisabled,
	services.ErrFixtureBlocked,
}

func isSlipError(err error) bool {
	for _, target := range slipErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type placeFunc func(ctx context.Context, profileID uint, req *services.PlaceBetRequest) (*models.Bet, error)

// PlaceBet places a single bet
func (h *BetHandler) PlaceBet(c *gin.Context) {
	h.place(c, h.betService.PlaceSingleBet)
}

// PlaceComboBet places a combo bet
func (h *BetHandler) PlaceComboBet(c *gin.Context) {
	h.place(c, h.betService.PlaceComboBet)
}

func (h *BetHandler) place(c *gin.Context, placeFn placeFunc) {
	profileID, ok := auth.GetProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req services.PlaceBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bet, err := placeFn(c.Request.Context(), profileID, &req)
	if err != nil {
		if isSlipError(err) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place bet"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    bet,
	})
}

// GetMyBets returns the authenticated profile's bets, optionally filtered
// to one week.
func (h *BetHandler) GetMyBets(c *gin.Context) {
	profileID, ok := auth.GetProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	week, _ := strconv.Atoi(c.DefaultQuery("week", "0"))

	bets, err := h.betService.GetProfileBets(c.Request.Context(), profileID, week)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bets,
		"count":   len(bets),
	})
}

// CancelBet cancels a pending bet and refunds the stake
func (h *BetHandler) CancelBet(c *gin.Context) {
	profileID, ok := auth.GetProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	betID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bet id"})
		return
	}

	bet, err := h.betService.CancelBet(c.Request.Context(), profileID, uint(betID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotBetOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrBetNotCancellable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel bet"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bet,
	})
}
