package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studyduel/services"
)

// Handler carries the injected services behind the HTTP surface.
type Handler struct {
	duels       *services.DuelService
	directory   *services.DirectoryService
	leaderboard *services.LeaderboardService
	log         *zap.Logger
}

// NewHandler wires the route handlers.
func NewHandler(duels *services.DuelService, directory *services.DirectoryService, leaderboard *services.LeaderboardService, log *zap.Logger) *Handler {
	return &Handler{duels: duels, directory: directory, leaderboard: leaderboard, log: log}
}

// Register mounts every endpoint on the router.
func (h *Handler) Register(router *gin.Engine) {
	router.POST("/duel/join", h.JoinDuelQueue)
	router.POST("/duel/answer", h.SubmitAnswer)
	router.GET("/duel/status", h.GetDuelStatus)

	router.POST("/universities", h.CreateUniversity)
	router.GET("/universities", h.ListUniversities)
	router.POST("/courses", h.CreateCourse)
	router.GET("/courses", h.ListCourses)
	router.POST("/courses/join", h.JoinCourse)
	router.POST("/users", h.CreateUser)
	router.GET("/users", h.GetUser)
	router.GET("/classroom", h.GetClassroom)
	router.GET("/classroom/leaderboard", h.GetLeaderboard)
	router.POST("/questions", h.CreateQuestionSet)
}

// respondError maps domain errors onto the HTTP taxonomy: 404 for missing
// entities, 403 for illegal actors, 409 for lost write races, 400 for
// lifecycle violations. Anything unknown is a 500 with a generic message so
// infrastructure details never leak to clients.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUniversityNotFound),
		errors.Is(err, services.ErrCourseNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrClassroomNotFound),
		errors.Is(err, services.ErrDuelNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotYourTurn),
		errors.Is(err, services.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrWriteConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuelFinished),
		errors.Is(err, services.ErrAlreadyQueued),
		errors.Is(err, services.ErrRoundCorrupt),
		errors.Is(err, services.ErrInsufficientQuestions),
		errors.Is(err, services.ErrInvalidQuestion):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
