package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "cities_name_key"}

	if !isUniqueViolation(unique) {
		t.Error("23505 should be a unique violation")
	}
	if !isUniqueViolation(fmt.Errorf("rename cities: %w", unique)) {
		t.Error("wrapped 23505 should still match")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation is not a unique violation")
	}
	if isUniqueViolation(errors.New("connection reset")) {
		t.Error("plain errors are not unique violations")
	}
	if isUniqueViolation(nil) {
		t.Error("nil is not a unique violation")
	}
}
