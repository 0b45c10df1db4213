package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProvinceNotFound is returned when a resource references an unknown province slug.
	ErrProvinceNotFound = errors.New("province not found")
	// ErrResourceNotFound is returned when a resource id does not resolve to a record.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates an edited question id is not part of the quiz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrSubmissionNotFound is returned when a user has not answered a quiz yet.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrObjectNotFound is returned by object stores when a delete targets a missing path.
	ErrObjectNotFound = errors.New("object not found")

	// ErrQuizNotAvailable means the quiz is still scheduled; clients show "no quiz today".
	ErrQuizNotAvailable = errors.New("no quiz available today")
	// ErrQuizNotOpen rejects submissions outside the quiz's scheduled day.
	ErrQuizNotOpen = errors.New("quiz is not open for submission")
	// ErrQuizLocked rejects question edits once answers have been recorded.
	ErrQuizLocked = errors.New("quiz already has submissions")
	// ErrDuplicateSubmission is returned when (user, quiz) already has a submission.
	ErrDuplicateSubmission = errors.New("quiz already submitted")

	// ErrStorageWrite wraps object store upload failures; no record was touched.
	ErrStorageWrite = errors.New("object storage write failed")
	// ErrRecordCommit wraps record store failures after a successful upload.
	ErrRecordCommit = errors.New("record commit failed")
	// ErrLeaderboardUnavailable wraps aggregation failures.
	ErrLeaderboardUnavailable = errors.New("leaderboard unavailable")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ValidationError reports malformed input for a single field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ErrorKind is the stable, caller-facing classification of a failure.
type ErrorKind string

const (
	KindValidation          ErrorKind = "validation"
	KindNotFound            ErrorKind = "not_found"
	KindNotAvailable        ErrorKind = "not_available"
	KindDuplicateSubmission ErrorKind = "duplicate_submission"
	KindStorageWrite        ErrorKind = "storage_write_failure"
	KindRecordCommit        ErrorKind = "record_commit_failure"
	KindAggregation         ErrorKind = "aggregation_failure"
	KindUnauthorized        ErrorKind = "unauthorized"
	KindForbidden           ErrorKind = "forbidden"
	KindInternal            ErrorKind = "internal"
)

// Kind classifies err. Unknown errors are internal.
func Kind(err error) ErrorKind {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr), errors.Is(err, ErrQuizNotOpen), errors.Is(err, ErrQuizLocked):
		return KindValidation
	case errors.Is(err, ErrProvinceNotFound), errors.Is(err, ErrResourceNotFound),
		errors.Is(err, ErrQuizNotFound), errors.Is(err, ErrQuestionNotFound),
		errors.Is(err, ErrSubmissionNotFound):
		return KindNotFound
	case errors.Is(err, ErrQuizNotAvailable):
		return KindNotAvailable
	case errors.Is(err, ErrDuplicateSubmission):
		return KindDuplicateSubmission
	case errors.Is(err, ErrStorageWrite):
		return KindStorageWrite
	case errors.Is(err, ErrRecordCommit):
		return KindRecordCommit
	case errors.Is(err, ErrLeaderboardUnavailable):
		return KindAggregation
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	default:
		return KindInternal
	}
}
