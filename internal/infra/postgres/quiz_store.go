package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"nusantara-culture-service/internal/domain"
)

// QuizStore reads and writes quizzes and their questions.
type QuizStore struct {
	pool *pgxpool.Pool
}

func NewQuizStore(pool *pgxpool.Pool) *QuizStore {
	return &QuizStore{pool: pool}
}

// LoadQuiz returns the quiz with its answer key, questions ordered by position.
func (s *QuizStore) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var quiz domain.Quiz
	err := s.pool.QueryRow(ctx,
		`SELECT id, COALESCE(province_slug, ''), title, scheduled_date FROM quizzes WHERE id=$1`, quizID,
	).Scan(&quiz.ID, &quiz.ProvinceSlug, &quiz.Title, &quiz.ScheduledDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, position, prompt, options, correct_index, points
		   FROM questions WHERE quiz_id=$1 ORDER BY position, id`, quizID)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	quiz.Questions = []domain.Question{}
	for rows.Next() {
		var (
			q   domain.Question
			raw []byte
		)
		if err := rows.Scan(&q.ID, &q.Position, &q.Prompt, &raw, &q.CorrectIndex, &q.Points); err != nil {
			return domain.Quiz{}, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(raw, &q.Options); err != nil {
			return domain.Quiz{}, fmt.Errorf("unmarshal options: %w", err)
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return domain.Quiz{}, fmt.Errorf("load questions: %w", err)
	}
	return quiz, nil
}

// FindQuizIDByDate picks the earliest created quiz for the day. An empty provinceSlug selects global quizzes.
func (s *QuizStore) FindQuizIDByDate(ctx context.Context, provinceSlug string, day time.Time) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM quizzes
		  WHERE scheduled_date = $1::date AND COALESCE(province_slug, '') = $2
		  ORDER BY created_at, id LIMIT 1`,
		day.Format(domain.DateLayout), provinceSlug,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrQuizNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find quiz by date: %w", err)
	}
	return id, nil
}

func (s *QuizStore) CreateQuiz(ctx context.Context, quiz domain.Quiz) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO quizzes (id, province_slug, title, scheduled_date) VALUES ($1, NULLIF($2, ''), $3, $4::date)`,
		quiz.ID, quiz.ProvinceSlug, quiz.Title, quiz.ScheduledDate.Format(domain.DateLayout))
	if isPgCode(err, foreignKeyViolation) {
		return domain.ErrProvinceNotFound
	}
	if err != nil {
		return fmt.Errorf("create quiz: %w", err)
	}
	return nil
}

// CreateQuestion appends the question after the current last position when Position is zero.
// It fails with domain.ErrQuizLocked once the quiz has a submission.
func (s *QuizStore) CreateQuestion(ctx context.Context, quizID string, question domain.Question) (domain.Question, error) {
	options, err := json.Marshal(question.Options)
	if err != nil {
		return domain.Question{}, err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Question{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)
	if err := lockEditable(ctx, tx, quizID); err != nil {
		return domain.Question{}, err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO questions (id, quiz_id, position, prompt, options, correct_index, points)
		 VALUES ($1, $2,
		         CASE WHEN $3::int > 0 THEN $3::int
		              ELSE (SELECT COALESCE(MAX(position), 0) + 1 FROM questions WHERE quiz_id = $2) END,
		         $4, $5::jsonb, $6, $7)
		 RETURNING position`,
		question.ID, quizID, question.Position, question.Prompt, string(options), question.CorrectIndex, question.Points,
	).Scan(&question.Position)
	if isPgCode(err, foreignKeyViolation) {
		return domain.Question{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("create question: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Question{}, fmt.Errorf("commit question: %w", err)
	}
	return question, nil
}

// UpdateQuestion keeps the stored position when Position is zero.
func (s *QuizStore) UpdateQuestion(ctx context.Context, quizID string, question domain.Question) (domain.Question, error) {
	options, err := json.Marshal(question.Options)
	if err != nil {
		return domain.Question{}, err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Question{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)
	if err := lockEditable(ctx, tx, quizID); err != nil {
		return domain.Question{}, err
	}

	err = tx.QueryRow(ctx,
		`UPDATE questions
		    SET position = CASE WHEN $3::int > 0 THEN $3::int ELSE position END,
		        prompt = $4, options = $5::jsonb, correct_index = $6, points = $7
		  WHERE id = $1 AND quiz_id = $2
		 RETURNING position`,
		question.ID, quizID, question.Position, question.Prompt, string(options), question.CorrectIndex, question.Points,
	).Scan(&question.Position)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("update question: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Question{}, fmt.Errorf("commit question: %w", err)
	}
	return question, nil
}

// lockEditable holds the quiz row until tx ends. A submission insert needs a key-share lock on the
// same row through its foreign key, so no submission can land between this check and the commit.
func lockEditable(ctx context.Context, tx pgx.Tx, quizID string) error {
	var one int
	err := tx.QueryRow(ctx, `SELECT 1 FROM quizzes WHERE id=$1 FOR UPDATE`, quizID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrQuizNotFound
	}
	if err != nil {
		return fmt.Errorf("lock quiz: %w", err)
	}

	var locked bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM submissions WHERE quiz_id=$1)`, quizID).Scan(&locked); err != nil {
		return fmt.Errorf("check submissions: %w", err)
	}
	if locked {
		return domain.ErrQuizLocked
	}
	return nil
}
