package app

import (
	"context"
	"time"

	"nusantara-culture-service/internal/domain"
)

// ObjectStore is the blob storage the resource assets live in.
type ObjectStore interface {
	// Put stores data at path and returns its public URL.
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
	// Delete removes path; a missing object yields domain.ErrObjectNotFound.
	Delete(ctx context.Context, path string) error
}

// ProvinceRepository resolves provinces by slug.
type ProvinceRepository interface {
	GetProvince(ctx context.Context, slug string) (domain.Province, error)
}

// ResourceRepository persists province resources.
type ResourceRepository interface {
	CreateResource(ctx context.Context, resource domain.Resource) error
	GetResource(ctx context.Context, id string) (domain.Resource, error)
	// SetAsset replaces a single slot reference in one row update.
	SetAsset(ctx context.Context, id string, slot domain.Slot, ref domain.AssetReference) error
}

// QuizLoader fetches quiz content, including the answer key, from the backing store.
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizCache is a QuizRepository whose entries can be dropped after edits.
type QuizCache interface {
	QuizRepository
	Invalidate(ctx context.Context, quizID string)
}

// QuizFinder resolves the quiz scheduled for a given day.
type QuizFinder interface {
	FindQuizIDByDate(ctx context.Context, provinceSlug string, day time.Time) (string, error)
}

// QuizStore is the writable quiz record store used by authoring.
type QuizStore interface {
	QuizLoader
	CreateQuiz(ctx context.Context, quiz domain.Quiz) error
	// CreateQuestion appends the question when Position is zero. Stores that can see submissions
	// return domain.ErrQuizLocked atomically with the write.
	CreateQuestion(ctx context.Context, quizID string, question domain.Question) (domain.Question, error)
	// UpdateQuestion fails with domain.ErrQuestionNotFound when the id is not part of the quiz,
	// and may fail with domain.ErrQuizLocked like CreateQuestion.
	UpdateQuestion(ctx context.Context, quizID string, question domain.Question) (domain.Question, error)
}

// SubmissionRepository stores write-once submissions and aggregates them.
type SubmissionRepository interface {
	// CreateSubmission must fail with domain.ErrDuplicateSubmission when (user, quiz) exists.
	CreateSubmission(ctx context.Context, submission domain.Submission) error
	GetSubmission(ctx context.Context, userID, quizID string) (domain.Submission, error)
	CountSubmissions(ctx context.Context, quizID string) (int, error)
	// TopTotals sums scores per user over all submissions, ordered by total desc then user id asc.
	TopTotals(ctx context.Context, limit int) ([]domain.UserTotal, error)
}

// ProfileRepository resolves display identities; unknown ids are simply absent from the result.
type ProfileRepository interface {
	GetProfiles(ctx context.Context, userIDs []string) (map[string]domain.Profile, error)
}
