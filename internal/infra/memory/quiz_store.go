package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"nusantara-culture-service/internal/domain"
)

// QuizStore is an in-memory quiz record store (useful for tests/demos).
type QuizStore struct {
	mu      sync.RWMutex
	quizzes map[string]domain.Quiz
}

func NewQuizStore(quizzes ...domain.Quiz) *QuizStore {
	s := &QuizStore{quizzes: make(map[string]domain.Quiz)}
	for _, q := range quizzes {
		s.quizzes[q.ID] = cloneQuiz(q)
	}
	return s
}

func (s *QuizStore) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	out := cloneQuiz(quiz)
	sortQuestions(out.Questions)
	return out, nil
}

func (s *QuizStore) FindQuizIDByDate(_ context.Context, provinceSlug string, day time.Time) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := day.Format(domain.DateLayout)
	ids := make([]string, 0, 1)
	for id, q := range s.quizzes {
		if q.ProvinceSlug == provinceSlug && q.ScheduledDate.Format(domain.DateLayout) == want {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return "", domain.ErrQuizNotFound
	}
	sort.Strings(ids)
	return ids[0], nil
}

func (s *QuizStore) CreateQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[quiz.ID] = cloneQuiz(quiz)
	return nil
}

func (s *QuizStore) CreateQuestion(_ context.Context, quizID string, question domain.Question) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.Question{}, domain.ErrQuizNotFound
	}
	if question.Position == 0 {
		for _, q := range quiz.Questions {
			if q.Position >= question.Position {
				question.Position = q.Position
			}
		}
		question.Position++
	}
	question.Options = append([]string(nil), question.Options...)
	quiz.Questions = append(quiz.Questions, question)
	s.quizzes[quizID] = quiz
	return question, nil
}

func (s *QuizStore) UpdateQuestion(_ context.Context, quizID string, question domain.Question) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.Question{}, domain.ErrQuizNotFound
	}
	for i, q := range quiz.Questions {
		if q.ID != question.ID {
			continue
		}
		if question.Position == 0 {
			question.Position = q.Position
		}
		question.Options = append([]string(nil), question.Options...)
		quiz.Questions[i] = question
		return question, nil
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func cloneQuiz(q domain.Quiz) domain.Quiz {
	out := q
	out.Questions = make([]domain.Question, len(q.Questions))
	for i, question := range q.Questions {
		question.Options = append([]string(nil), question.Options...)
		out.Questions[i] = question
	}
	return out
}

func sortQuestions(questions []domain.Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		if questions[i].Position != questions[j].Position {
			return questions[i].Position < questions[j].Position
		}
		return questions[i].ID < questions[j].ID
	})
}
