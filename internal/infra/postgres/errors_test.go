package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgconn"
)

func TestIsPgCode(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolation})
	if !isPgCode(dup, uniqueViolation) {
		t.Fatalf("expected wrapped unique violation to match")
	}
	if isPgCode(dup, foreignKeyViolation) {
		t.Fatalf("unexpected foreign key match")
	}
	if isPgCode(errors.New("boom"), uniqueViolation) {
		t.Fatalf("plain error must not match")
	}
}
