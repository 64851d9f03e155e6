// Package roster contains the student roster domain model for the Barton
// enrollment assistant. This is pure business logic - no external dependencies.
package roster

import (
	"errors"
	"fmt"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Student is a single roster record as loaded from the per-grade class lists.
// Records are immutable after load; the dialogue core only reads them.
type Student struct {
	// FullName is the student's full name as it appears on the class list
	// ("APELLIDOS Y NOMBRES" column, surnames first).
	FullName string

	// Grade is the enrollment-grade label (e.g. "1er grado").
	Grade string

	// Code is the modular identifier (SIAGE code) used for direct lookup.
	// Unique within a grade list; uniqueness across the whole roster is
	// assumed but not enforced - lookups keep first-match semantics.
	Code string

	// EnrollmentFeePending reports whether the enrollment fee is unpaid.
	EnrollmentFeePending bool

	// PendingInstallments is the number of unpaid monthly installments.
	PendingInstallments int
}

// String returns a short representation for logging.
func (s Student) String() string {
	return fmt.Sprintf("Student{Code: %s, Grade: %s, Name: %s}", s.Code, s.Grade, s.FullName)
}

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER
// ══════════════════════════════════════════════════════════════════════════════

// Roster is the read-only collection of student records, loaded once at
// process start. Concurrent readers need no synchronization.
type Roster interface {
	// All returns every record in original load order.
	All() []Student
}

// Slice is the trivial in-memory Roster over a fixed slice.
type Slice []Student

// All implements Roster.
func (s Slice) All() []Student { return s }

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrStudentNotFound - no roster record matched the query.
	ErrStudentNotFound = errors.New("roster: student not found")

	// ErrEmptyCode - an empty identifier was supplied for lookup.
	ErrEmptyCode = errors.New("roster: student code cannot be empty")
)

// ══════════════════════════════════════════════════════════════════════════════
// LOOKUP
// ══════════════════════════════════════════════════════════════════════════════

// FindByCode returns the first record whose modular identifier equals the
// given code after trimming surrounding whitespace on both sides.
// The linear scan is deliberate: rosters are small (tens to low thousands)
// and first-insertion-order tie-break must hold when duplicate codes exist.
func FindByCode(r Roster, code string) (Student, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Student{}, ErrEmptyCode
	}

	for _, s := range r.All() {
		if strings.TrimSpace(s.Code) == code {
			return s, nil
		}
	}

	return Student{}, ErrStudentNotFound
}
