package app

import (
	"context"
	"errors"
	"time"

	"nusantara-culture-service/internal/domain"
	"nusantara-culture-service/internal/logger"
)

// QuizService contains the quiz taking use cases: access gating and one-time submission.
type QuizService struct {
	quizzes     QuizRepository
	finder      QuizFinder
	submissions SubmissionRepository
	loc         *time.Location
	now         func() time.Time
	log         *logger.Logger
}

func NewQuizService(quizzes QuizRepository, finder QuizFinder, submissions SubmissionRepository, loc *time.Location, log *logger.Logger) *QuizService {
	return NewQuizServiceWithClock(quizzes, finder, submissions, loc, log, time.Now)
}

// NewQuizServiceWithClock is test-only for deterministic quiz days.
func NewQuizServiceWithClock(quizzes QuizRepository, finder QuizFinder, submissions SubmissionRepository, loc *time.Location, log *logger.Logger, now func() time.Time) *QuizService {
	if loc == nil {
		loc = time.UTC
	}
	return &QuizService{
		quizzes:     quizzes,
		finder:      finder,
		submissions: submissions,
		loc:         loc,
		now:         now,
		log:         log.With("service", "QuizService"),
	}
}

// Today is the current quiz day in the service's time zone.
func (s *QuizService) Today() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GetQuizForTaking returns the quiz without its answer key. Scheduled quizzes are not available;
// when userID already answered, the stored result is attached.
func (s *QuizService) GetQuizForTaking(ctx context.Context, quizID, userID string) (domain.QuizView, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.QuizView{}, err
	}
	state := quiz.StateAt(s.now(), s.loc)
	if state == domain.QuizScheduled {
		return domain.QuizView{}, domain.ErrQuizNotAvailable
	}

	view := newQuizView(quiz, state)
	if userID == "" {
		return view, nil
	}
	submission, err := s.submissions.GetSubmission(ctx, userID, quizID)
	switch {
	case err == nil:
		view.Submission = &domain.SubmissionView{
			Answers:      submission.Answers,
			Score:        submission.Score,
			CorrectCount: submission.CorrectCount,
			SubmittedAt:  submission.SubmittedAt,
		}
	case errors.Is(err, domain.ErrSubmissionNotFound):
	default:
		return domain.QuizView{}, err
	}
	return view, nil
}

// GetTodayQuiz gates the quiz scheduled for the current day, global when provinceSlug is empty.
func (s *QuizService) GetTodayQuiz(ctx context.Context, provinceSlug, userID string) (domain.QuizView, error) {
	quizID, err := s.finder.FindQuizIDByDate(ctx, provinceSlug, s.Today())
	if errors.Is(err, domain.ErrQuizNotFound) {
		return domain.QuizView{}, domain.ErrQuizNotAvailable
	}
	if err != nil {
		return domain.QuizView{}, err
	}
	return s.GetQuizForTaking(ctx, quizID, userID)
}

// SubmitAnswers grades and records the user's only submission for an open quiz.
// answers holds the chosen option index per question, in question order.
func (s *QuizService) SubmitAnswers(ctx context.Context, userID, quizID string, answers []int) (domain.ScoreResult, error) {
	if userID == "" {
		return domain.ScoreResult{}, domain.ErrUnauthorized
	}
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.ScoreResult{}, err
	}
	if quiz.StateAt(s.now(), s.loc) != domain.QuizOpen {
		return domain.ScoreResult{}, domain.ErrQuizNotOpen
	}
	// A row against an empty quiz would lock it before any question exists.
	if len(quiz.Questions) == 0 {
		return domain.ScoreResult{}, domain.Invalid("quizId", "quiz has no questions")
	}

	// Fast path only; the store's unique constraint arbitrates concurrent retries.
	if _, err := s.submissions.GetSubmission(ctx, userID, quizID); err == nil {
		return domain.ScoreResult{}, domain.ErrDuplicateSubmission
	} else if !errors.Is(err, domain.ErrSubmissionNotFound) {
		return domain.ScoreResult{}, err
	}

	graded, err := grade(quiz, answers)
	if err != nil {
		return domain.ScoreResult{}, err
	}

	submission := domain.Submission{
		UserID:       userID,
		QuizID:       quizID,
		Answers:      append([]int(nil), answers...),
		Score:        graded.score,
		CorrectCount: graded.correct,
		SubmittedAt:  s.now().UTC(),
	}
	if err := s.submissions.CreateSubmission(ctx, submission); err != nil {
		return domain.ScoreResult{}, err
	}
	s.log.Info("quiz submitted", "quiz_id", quizID, "user_id", userID, "score", graded.score)

	return domain.ScoreResult{
		QuizID:         quizID,
		Score:          graded.score,
		MaxScore:       quiz.MaxScore(),
		CorrectCount:   graded.correct,
		QuestionCount:  len(quiz.Questions),
		CorrectOptions: graded.key,
	}, nil
}

func newQuizView(quiz domain.Quiz, state domain.QuizState) domain.QuizView {
	questions := make([]domain.QuestionView, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, domain.QuestionView{
			ID:       q.ID,
			Position: q.Position,
			Prompt:   q.Prompt,
			Options:  append([]string(nil), q.Options...),
			Points:   q.Weight(),
		})
	}
	return domain.QuizView{
		ID:            quiz.ID,
		ProvinceSlug:  quiz.ProvinceSlug,
		Title:         quiz.Title,
		ScheduledDate: quiz.ScheduledDate.Format(domain.DateLayout),
		State:         state,
		Questions:     questions,
	}
}
