package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"nusantara-culture-service/internal/app"
	"nusantara-culture-service/internal/domain"
	"nusantara-culture-service/internal/infra/memory"
	"nusantara-culture-service/internal/logger"
)

func TestQuizRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{QuizLoader: memory.NewQuizStore(sampleQuiz())}
	repo := NewQuizRepository(client, loader, time.Minute, logger.NewNop())

	quiz, err := repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("quiz:quiz-1") {
		t.Fatalf("expected redis key to be set")
	}
	if ttl := mr.TTL("quiz:quiz-1"); ttl < time.Minute || ttl > time.Minute+6*time.Second {
		t.Fatalf("unexpected ttl %s", ttl)
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached.Questions[1].CorrectIndex != quiz.Questions[1].CorrectIndex || cached.Title != quiz.Title {
		t.Fatalf("cached quiz differs: %+v vs %+v", cached, quiz)
	}
	if !cached.ScheduledDate.Equal(quiz.ScheduledDate) {
		t.Fatalf("scheduled date lost in cache: %s", cached.ScheduledDate)
	}
}

func TestQuizRepositoryInvalidate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{QuizLoader: memory.NewQuizStore(sampleQuiz())}
	repo := NewQuizRepository(newClient(mr), loader, time.Minute, logger.NewNop())

	_, _ = repo.GetQuiz(context.Background(), "quiz-1")
	repo.Invalidate(context.Background(), "quiz-1")
	if mr.Exists("quiz:quiz-1") {
		t.Fatalf("expected redis key to be removed")
	}
	_, _ = repo.GetQuiz(context.Background(), "quiz-1")
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, calls=%d", loader.calls)
	}
}

func TestQuizRepositoryFallsBackWhenRedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := newClient(mr)
	mr.Close()

	loader := &countingLoader{QuizLoader: memory.NewQuizStore(sampleQuiz())}
	repo := NewQuizRepository(client, loader, time.Minute, logger.NewNop())

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("expected loader fallback, got %v", err)
	}
	if _, err := repo.GetQuiz(context.Background(), "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

type countingLoader struct {
	app.QuizLoader
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls++
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:            "quiz-1",
		Title:         "Rumah adat",
		ScheduledDate: time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		Questions: []domain.Question{
			{ID: "q1", Position: 1, Prompt: "Rumah Gadang berasal dari?", Options: []string{"Jawa", "Sumatera Barat"}, CorrectIndex: 1},
			{ID: "q2", Position: 2, Prompt: "Tari Saman berasal dari?", Options: []string{"Aceh", "Bali"}, CorrectIndex: 0, Points: 2},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
