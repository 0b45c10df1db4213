package domain

import "time"

// DateLayout is the wire and storage format of quiz dates.
const DateLayout = "2006-01-02"

// QuizState is derived from the scheduled date, never stored.
type QuizState string

const (
	QuizScheduled QuizState = "scheduled"
	QuizOpen      QuizState = "open"
	QuizClosed    QuizState = "closed"
)

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID           string   `json:"id"`
	Position     int      `json:"position"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Points       int      `json:"points"` // defaults to 1 if zero
}

// Weight returns the points awarded for a correct answer.
func (q Question) Weight() int {
	if q.Points <= 0 {
		return 1
	}
	return q.Points
}

// Quiz is a dated collection of ordered questions. An empty ProvinceSlug marks a global quiz.
type Quiz struct {
	ID            string     `json:"id"`
	ProvinceSlug  string     `json:"provinceSlug,omitempty"`
	Title         string     `json:"title"`
	ScheduledDate time.Time  `json:"scheduledDate"`
	Questions     []Question `json:"questions"`
}

// StateAt derives the lifecycle state for the calendar day of now in loc.
func (q Quiz) StateAt(now time.Time, loc *time.Location) QuizState {
	if loc == nil {
		loc = time.UTC
	}
	today := now.In(loc).Format(DateLayout)
	day := q.ScheduledDate.Format(DateLayout)
	switch {
	case day > today:
		return QuizScheduled
	case day == today:
		return QuizOpen
	default:
		return QuizClosed
	}
}

// MaxScore is the score of an all-correct submission.
func (q Quiz) MaxScore() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Weight()
	}
	return total
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(DateLayout, raw)
}

// QuestionView is a question as shown before submission: no answer key.
type QuestionView struct {
	ID       string   `json:"id"`
	Position int      `json:"position"`
	Prompt   string   `json:"prompt"`
	Options  []string `json:"options"`
	Points   int      `json:"points"`
}

// QuizView is what a client receives when fetching a quiz to take or review.
type QuizView struct {
	ID            string          `json:"id"`
	ProvinceSlug  string          `json:"provinceSlug,omitempty"`
	Title         string          `json:"title"`
	ScheduledDate string          `json:"scheduledDate"`
	State         QuizState       `json:"state"`
	Questions     []QuestionView  `json:"questions"`
	Submission    *SubmissionView `json:"submission,omitempty"`
}

// Submission is the write-once record of one user's answers to one quiz.
type Submission struct {
	UserID       string    `json:"userId"`
	QuizID       string    `json:"quizId"`
	Answers      []int     `json:"answers"`
	Score        int       `json:"score"`
	CorrectCount int       `json:"correctCount"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// SubmissionView is a user's own past result attached to a QuizView.
type SubmissionView struct {
	Answers      []int     `json:"answers"`
	Score        int       `json:"score"`
	CorrectCount int       `json:"correctCount"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// ScoreResult is returned after a successful submission.
type ScoreResult struct {
	QuizID         string `json:"quizId"`
	Score          int    `json:"score"`
	MaxScore       int    `json:"maxScore"`
	CorrectCount   int    `json:"correctCount"`
	QuestionCount  int    `json:"questionCount"`
	CorrectOptions []int  `json:"correctOptions"`
}

// Profile is the display identity of a user, resolved externally.
type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// UserTotal is one aggregated leaderboard row before profile enrichment.
type UserTotal struct {
	UserID     string
	TotalScore int
}

// LeaderboardEntry is a derived ranking row.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	TotalScore  int    `json:"totalScore"`
}
