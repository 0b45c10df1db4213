package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"nusantara-culture-service/internal/domain"
)

// SubmissionStore keeps one row per (user_id, quiz_id); the primary key rejects retries.
type SubmissionStore struct {
	pool *pgxpool.Pool
}

func NewSubmissionStore(pool *pgxpool.Pool) *SubmissionStore {
	return &SubmissionStore{pool: pool}
}

func (s *SubmissionStore) CreateSubmission(ctx context.Context, submission domain.Submission) error {
	answers, err := json.Marshal(submission.Answers)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO submissions (user_id, quiz_id, answers, score, correct_count, submitted_at)
		 VALUES ($1, $2, $3::jsonb, $4, $5, $6)`,
		submission.UserID, submission.QuizID, string(answers), submission.Score, submission.CorrectCount, submission.SubmittedAt)
	switch {
	case err == nil:
		return nil
	case isPgCode(err, uniqueViolation):
		return domain.ErrDuplicateSubmission
	case isPgCode(err, foreignKeyViolation):
		return domain.ErrQuizNotFound
	default:
		return fmt.Errorf("create submission: %w", err)
	}
}

func (s *SubmissionStore) GetSubmission(ctx context.Context, userID, quizID string) (domain.Submission, error) {
	sub := domain.Submission{UserID: userID, QuizID: quizID}
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT answers, score, correct_count, submitted_at FROM submissions WHERE user_id=$1 AND quiz_id=$2`,
		userID, quizID,
	).Scan(&raw, &sub.Score, &sub.CorrectCount, &sub.SubmittedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Submission{}, domain.ErrSubmissionNotFound
	}
	if err != nil {
		return domain.Submission{}, fmt.Errorf("get submission: %w", err)
	}
	if err := json.Unmarshal(raw, &sub.Answers); err != nil {
		return domain.Submission{}, fmt.Errorf("unmarshal answers: %w", err)
	}
	return sub, nil
}

func (s *SubmissionStore) CountSubmissions(ctx context.Context, quizID string) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM submissions WHERE quiz_id=$1`, quizID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}

// TopTotals aggregates in the database; ties are broken by user id so the order is reproducible.
func (s *SubmissionStore) TopTotals(ctx context.Context, limit int) ([]domain.UserTotal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, SUM(score)::bigint AS total
		   FROM submissions
		  GROUP BY user_id
		  ORDER BY total DESC, user_id ASC
		  LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top totals: %w", err)
	}
	defer rows.Close()

	var out []domain.UserTotal
	for rows.Next() {
		var (
			t     domain.UserTotal
			total int64
		)
		if err := rows.Scan(&t.UserID, &total); err != nil {
			return nil, fmt.Errorf("scan total: %w", err)
		}
		t.TotalScore = int(total)
		out = append(out, t)
	}
	return out, rows.Err()
}
