package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"nusantara-culture-service/internal/app"
	"nusantara-culture-service/internal/domain"
	"nusantara-culture-service/internal/logger"
)

// QuizRepository caches whole quizzes in Redis (JSON per quiz) and falls back to a loader on miss.
// Entries live at quiz:{quizID} and expire after the configured TTL plus jitter.
// Redis failures degrade to the loader; they are never surfaced to readers.
type QuizRepository struct {
	client *redis.Client
	loader app.QuizLoader
	ttl    time.Duration
	log    *logger.Logger
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuizRepository(client *redis.Client, loader app.QuizLoader, ttl time.Duration, log *logger.Logger) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		log:    log.With("component", "redis.QuizRepository"),
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := r.lookup(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another caller filled it.
		if quiz, ok := r.lookup(ctx, quizID); ok {
			return quiz, nil
		}
		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		r.store(ctx, quiz)
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

// Invalidate deletes the cached entry so the next read reloads it.
func (r *QuizRepository) Invalidate(ctx context.Context, quizID string) {
	if err := r.client.Del(ctx, quizKey(quizID)).Err(); err != nil {
		r.log.Warn("quiz cache invalidate failed", "quiz_id", quizID, "error", err)
	}
}

func (r *QuizRepository) lookup(ctx context.Context, quizID string) (domain.Quiz, bool) {
	raw, err := r.client.Get(ctx, quizKey(quizID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("quiz cache read failed", "quiz_id", quizID, "error", err)
		}
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		r.log.Warn("quiz cache entry corrupt", "quiz_id", quizID, "error", err)
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (r *QuizRepository) store(ctx context.Context, quiz domain.Quiz) {
	raw, err := json.Marshal(quiz)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, quizKey(quiz.ID), raw, r.ttlWithJitter()).Err(); err != nil {
		r.log.Warn("quiz cache write failed", "quiz_id", quiz.ID, "error", err)
	}
}

func quizKey(quizID string) string {
	return "quiz:" + quizID
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
