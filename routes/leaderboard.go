package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetLeaderboard handles GET /classroom/leaderboard.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	classroomID := c.Query("classroomId")
	if classroomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "classroomId is required"})
		return
	}

	entries, err := h.leaderboard.ClassroomLeaderboard(c.Request.Context(), classroomID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"classroomId": classroomID, "entries": entries})
}
