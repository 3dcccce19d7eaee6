package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JoinDuelQueue handles POST /duel/join.
func (h *Handler) JoinDuelQueue(c *gin.Context) {
	var request struct {
		PlayerID    string `json:"playerId"`
		ClassroomID string `json:"classroomId"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.PlayerID == "" || request.ClassroomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "playerId and classroomId are required"})
		return
	}

	result, err := h.duels.JoinQueue(c.Request.Context(), request.ClassroomID, request.PlayerID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SubmitAnswer handles POST /duel/answer.
func (h *Handler) SubmitAnswer(c *gin.Context) {
	var request struct {
		DuelID           string `json:"duelId"`
		PlayerID         string `json:"playerId"`
		SelectedOptionID string `json:"selectedOptionId"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.DuelID == "" || request.PlayerID == "" || request.SelectedOptionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "duelId, playerId and selectedOptionId are required"})
		return
	}

	result, err := h.duels.SubmitAnswer(c.Request.Context(), request.DuelID, request.PlayerID, request.SelectedOptionID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetDuelStatus handles GET /duel/status.
func (h *Handler) GetDuelStatus(c *gin.Context) {
	duelID := c.Query("duelId")
	if duelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "duelId is required"})
		return
	}

	progress, err := h.duels.GetStatus(c.Request.Context(), duelID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}
