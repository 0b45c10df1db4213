package http

import (
	"github.com/gin-gonic/gin"

	"nusantara-culture-service/internal/app"
	"nusantara-culture-service/internal/logger"
)

type QuizHandler struct {
	log     *logger.Logger
	service *app.QuizService
}

func NewQuizHandler(log *logger.Logger, service *app.QuizService) *QuizHandler {
	return &QuizHandler{log: log.With("handler", "QuizHandler"), service: service}
}

type todayQuery struct {
	Province string `form:"province" binding:"omitempty,max=64"`
}

type submitAnswersRequest struct {
	Answers []int `json:"answers" binding:"required"`
}

// GET /quizzes/today?province=
func (h *QuizHandler) Today(c *gin.Context) {
	var q todayQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	view, err := h.service.GetTodayQuiz(c.Request.Context(), q.Province, userID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, view)
}

// GET /quizzes/:quizId
func (h *QuizHandler) Get(c *gin.Context) {
	view, err := h.service.GetQuizForTaking(c.Request.Context(), c.Param("quizId"), userID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, view)
}

// POST /quizzes/:quizId/answers
// body: { "answers": [1, 0, 2] }
func (h *QuizHandler) Submit(c *gin.Context) {
	var req submitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	result, err := h.service.SubmitAnswers(c.Request.Context(), userID(c), c.Param("quizId"), req.Answers)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, result)
}
