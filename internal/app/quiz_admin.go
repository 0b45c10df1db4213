package app

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"nusantara-culture-service/internal/domain"
	"nusantara-culture-service/internal/logger"
)

// CreateQuizInput describes a new quiz; ScheduledDate is YYYY-MM-DD.
type CreateQuizInput struct {
	Title         string
	ProvinceSlug  string
	ScheduledDate string
}

// QuizAdminService creates quizzes and creates or edits their questions.
type QuizAdminService struct {
	store       QuizStore
	provinces   ProvinceRepository
	submissions SubmissionRepository
	cache       QuizCache
	log         *logger.Logger
}

func NewQuizAdminService(store QuizStore, provinces ProvinceRepository, submissions SubmissionRepository, cache QuizCache, log *logger.Logger) *QuizAdminService {
	return &QuizAdminService{
		store:       store,
		provinces:   provinces,
		submissions: submissions,
		cache:       cache,
		log:         log.With("service", "QuizAdminService"),
	}
}

func (s *QuizAdminService) CreateQuiz(ctx context.Context, in CreateQuizInput) (domain.Quiz, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Quiz{}, domain.Invalid("title", "title is required")
	}
	day, err := domain.ParseDate(in.ScheduledDate)
	if err != nil {
		return domain.Quiz{}, domain.Invalid("scheduledDate", "expected YYYY-MM-DD")
	}
	if in.ProvinceSlug != "" {
		if _, err := s.provinces.GetProvince(ctx, in.ProvinceSlug); err != nil {
			return domain.Quiz{}, err
		}
	}

	quiz := domain.Quiz{
		ID:            uuid.NewString(),
		ProvinceSlug:  in.ProvinceSlug,
		Title:         title,
		ScheduledDate: day,
		Questions:     []domain.Question{},
	}
	if err := s.store.CreateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	s.log.Info("quiz created", "quiz_id", quiz.ID, "scheduled_date", in.ScheduledDate)
	return quiz, nil
}

// UpsertQuestion creates the question when its id is empty and edits it otherwise.
// Quizzes with recorded submissions are locked so stored scores keep matching the key.
func (s *QuizAdminService) UpsertQuestion(ctx context.Context, quizID string, question domain.Question) (domain.Question, error) {
	if err := validateQuestion(question); err != nil {
		return domain.Question{}, err
	}
	if _, err := s.store.LoadQuiz(ctx, quizID); err != nil {
		return domain.Question{}, err
	}
	// Early rejection only. A submission can still land after the count; the Postgres store
	// rechecks under a row lock in the same transaction as the write.
	count, err := s.submissions.CountSubmissions(ctx, quizID)
	if err != nil {
		return domain.Question{}, err
	}
	if count > 0 {
		return domain.Question{}, domain.ErrQuizLocked
	}

	var saved domain.Question
	if question.ID == "" {
		question.ID = uuid.NewString()
		saved, err = s.store.CreateQuestion(ctx, quizID, question)
	} else {
		saved, err = s.store.UpdateQuestion(ctx, quizID, question)
	}
	if err != nil {
		return domain.Question{}, err
	}
	s.cache.Invalidate(ctx, quizID)
	return saved, nil
}

func validateQuestion(q domain.Question) error {
	if strings.TrimSpace(q.Prompt) == "" {
		return domain.Invalid("prompt", "prompt is required")
	}
	if len(q.Options) < 2 {
		return domain.Invalid("options", "at least 2 options are required")
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return domain.Invalid("options", "option %d is empty", i)
		}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return domain.Invalid("correctIndex", "must be between 0 and %d", len(q.Options)-1)
	}
	if q.Points < 0 {
		return domain.Invalid("points", "must not be negative")
	}
	if q.Position < 0 {
		return domain.Invalid("position", "must not be negative")
	}
	return nil
}
