package handlers

import (
	"net/http"
	"strconv"

	"betleague/internal/odds"

	"github.com/gin-gonic/gin"
)

type OddsHandler struct {
	store *odds.Store
}

func NewOddsHandler(store *odds.Store) *OddsHandler {
	return &OddsHandler{store: store}
}

// GetSnapshot returns the current payload of one snapshot group, the match
// list the UI renders.
func (h *OddsHandler) GetSnapshot(c *gin.Context) {
	group, ok := odds.GroupByName(c.Param("group"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown snapshot group"})
		return
	}

	snapshot, err := h.store.Current(c.Request.Context(), group)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load snapshot"})
		return
	}
	if snapshot == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    []interface{}{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"data":         snapshot.Payload.Response,
		"last_updated": snapshot.LastUpdated,
	})
}

// GetIndicator returns the current and previous odds for one
// fixture/market/selection tuple so the UI can render an up/down arrow.
// Either value may be null; both null means render nothing.
func (h *OddsHandler) GetIndicator(c *gin.Context) {
	fixtureID, err := strconv.ParseInt(c.Query("fixture"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fixture id"})
		return
	}

	market := c.Query("market")
	selection := c.Query("selection")
	if market == "" || selection == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "market and selection are required"})
		return
	}

	var delta odds.Delta
	if c.Query("live") == "true" {
		delta, err = h.store.LookupLive(c.Request.Context(), fixtureID, market, selection)
	} else {
		delta, err = h.store.Lookup(c.Request.Context(), fixtureID, market, selection)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up odds"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    delta,
	})
}
