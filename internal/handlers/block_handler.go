package handlers

import (
	"errors"
	"net/http"

	"betleague/internal/auth"
	"betleague/internal/services"

	"github.com/gin-gonic/gin"
)

type BlockHandler struct {
	blockService *services.BlockService
}

func NewBlockHandler(blockService *services.BlockService) *BlockHandler {
	return &BlockHandler{blockService: blockService}
}

var blockErrors = []error{
	services.ErrBlocksNotAvailable,
	services.ErrSelfBlock,
	services.ErrNotSameLeague,
	services.ErrNoBlocksLeft,
	services.ErrAlreadyBlockedPair,
	services.ErrTargetFloorReached,
	services.ErrTargetCeilingReached,
	services.ErrFixtureAlreadyBlocked,
}

// CreateBlock blocks another player from betting on a fixture this week
func (h *BlockHandler) CreateBlock(c *gin.Context) {
	profileID, ok := auth.GetProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		BlockedProfileID uint  `json:"blocked_profile_id" binding:"required"`
		FixtureID        int64 `json:"fixture_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	block, err := h.blockService.CreateBlock(c.Request.Context(), profileID, req.BlockedProfileID, req.FixtureID)
	if err != nil {
		for _, target := range blockErrors {
			if errors.Is(err, target) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create block"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    block,
	})
}

// GetMyBlocks lists the blocks currently applied against the caller
func (h *BlockHandler) GetMyBlocks(c *gin.Context) {
	profileID, ok := auth.GetProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	blocks, err := h.blockService.BlocksAgainst(c.Request.Context(), profileID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch blocks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    blocks,
		"count":   len(blocks),
	})
}
