package http

import (
	"github.com/gin-gonic/gin"

	"nusantara-culture-service/internal/app"
	"nusantara-culture-service/internal/logger"
)

type LeaderboardHandler struct {
	log     *logger.Logger
	service *app.LeaderboardService
}

func NewLeaderboardHandler(log *logger.Logger, service *app.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{log: log.With("handler", "LeaderboardHandler"), service: service}
}

type leaderboardQuery struct {
	Limit int `form:"limit"`
}

// GET /leaderboard?limit=n
func (h *LeaderboardHandler) Get(c *gin.Context) {
	var q leaderboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	entries, err := h.service.GetLeaderboard(c.Request.Context(), q.Limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, gin.H{"entries": entries})
}
