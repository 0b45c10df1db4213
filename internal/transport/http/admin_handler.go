package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nusantara-culture-service/internal/app"
	"nusantara-culture-service/internal/domain"
	"nusantara-culture-service/internal/logger"
)

type AdminHandler struct {
	log     *logger.Logger
	service *app.QuizAdminService
}

func NewAdminHandler(log *logger.Logger, service *app.QuizAdminService) *AdminHandler {
	return &AdminHandler{log: log.With("handler", "AdminHandler"), service: service}
}

type createQuizRequest struct {
	Title         string `json:"title" binding:"required"`
	ProvinceSlug  string `json:"provinceSlug"`
	ScheduledDate string `json:"scheduledDate" binding:"required,datetime=2006-01-02"`
}

type upsertQuestionRequest struct {
	ID           string   `json:"id"`
	Position     int      `json:"position" binding:"gte=0"`
	Prompt       string   `json:"prompt" binding:"required"`
	Options      []string `json:"options" binding:"required,min=2,dive,required"`
	CorrectIndex int      `json:"correctIndex" binding:"gte=0"`
	Points       int      `json:"points" binding:"gte=0"`
}

// POST /admin/quizzes
func (h *AdminHandler) CreateQuiz(c *gin.Context) {
	var req createQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	quiz, err := h.service.CreateQuiz(c.Request.Context(), app.CreateQuizInput{
		Title:         req.Title,
		ProvinceSlug:  req.ProvinceSlug,
		ScheduledDate: req.ScheduledDate,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

// PUT /admin/quizzes/:quizId/questions
// an empty id creates the question, otherwise it is edited in place
func (h *AdminHandler) UpsertQuestion(c *gin.Context) {
	var req upsertQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	question, err := h.service.UpsertQuestion(c.Request.Context(), c.Param("quizId"), domain.Question{
		ID:           req.ID,
		Position:     req.Position,
		Prompt:       req.Prompt,
		Options:      req.Options,
		CorrectIndex: req.CorrectIndex,
		Points:       req.Points,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, question)
}
