package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nusantara-culture-service/internal/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *AuthMiddleware

	ResourceHandler    *ResourceHandler
	QuizHandler        *QuizHandler
	LeaderboardHandler *LeaderboardHandler
	AdminHandler       *AdminHandler

	// MaxMultipartMemory bounds the in-memory part of multipart parsing.
	MaxMultipartMemory int64
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	initValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(cfg.Log))
	if cfg.MaxMultipartMemory > 0 {
		r.MaxMultipartMemory = cfg.MaxMultipartMemory
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	auth := cfg.AuthMiddleware
	api := r.Group("/")
	api.Use(auth.Identify())
	{
		if cfg.ResourceHandler != nil {
			api.GET("/resources/:resourceId", cfg.ResourceHandler.Get)
			api.POST("/resources", auth.RequireAdmin(), cfg.ResourceHandler.Create)
			api.PUT("/resources/:resourceId/:slot", auth.RequireAdmin(), cfg.ResourceHandler.ReplaceAsset)
		}

		if cfg.QuizHandler != nil {
			api.GET("/quizzes/today", cfg.QuizHandler.Today)
			api.GET("/quizzes/:quizId", cfg.QuizHandler.Get)
			api.POST("/quizzes/:quizId/answers", auth.RequireUser(), cfg.QuizHandler.Submit)
		}

		if cfg.LeaderboardHandler != nil {
			api.GET("/leaderboard", cfg.LeaderboardHandler.Get)
		}
	}

	if cfg.AdminHandler != nil {
		admin := api.Group("/admin")
		admin.Use(auth.RequireAdmin())
		admin.POST("/quizzes", cfg.AdminHandler.CreateQuiz)
		admin.PUT("/quizzes/:quizId/questions", cfg.AdminHandler.UpsertQuestion)
	}

	return r
}
