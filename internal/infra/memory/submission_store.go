package memory

import (
	"context"
	"sort"
	"sync"

	"nusantara-culture-service/internal/domain"
)

type submissionKey struct {
	userID string
	quizID string
}

// SubmissionStore holds submissions keyed by (user, quiz); the key check and insert happen
// under one lock, mirroring a unique constraint.
type SubmissionStore struct {
	mu          sync.RWMutex
	submissions map[submissionKey]domain.Submission
}

func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{submissions: make(map[submissionKey]domain.Submission)}
}

func (s *SubmissionStore) CreateSubmission(_ context.Context, submission domain.Submission) error {
	key := submissionKey{userID: submission.UserID, quizID: submission.QuizID}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.submissions[key]; exists {
		return domain.ErrDuplicateSubmission
	}
	submission.Answers = append([]int(nil), submission.Answers...)
	s.submissions[key] = submission
	return nil
}

func (s *SubmissionStore) GetSubmission(_ context.Context, userID, quizID string) (domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[submissionKey{userID: userID, quizID: quizID}]
	if !ok {
		return domain.Submission{}, domain.ErrSubmissionNotFound
	}
	sub.Answers = append([]int(nil), sub.Answers...)
	return sub, nil
}

func (s *SubmissionStore) CountSubmissions(_ context.Context, quizID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for key := range s.submissions {
		if key.quizID == quizID {
			n++
		}
	}
	return n, nil
}

// TopTotals aggregates every submission before ordering and truncating.
func (s *SubmissionStore) TopTotals(_ context.Context, limit int) ([]domain.UserTotal, error) {
	s.mu.RLock()
	totals := make(map[string]int)
	for key, sub := range s.submissions {
		totals[key.userID] += sub.Score
	}
	s.mu.RUnlock()

	out := make([]domain.UserTotal, 0, len(totals))
	for userID, total := range totals {
		out = append(out, domain.UserTotal{UserID: userID, TotalScore: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore > out[j].TotalScore
		}
		return out[i].UserID < out[j].UserID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
