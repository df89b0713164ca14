// Package faculty models teachers and the per-school duplicate guard.
package faculty

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/classfund/classfund/internal/errors"
	"github.com/classfund/classfund/internal/platform/id"
	"golang.org/x/text/cases"
)

var fold = cases.Fold()

// Teacher belongs to exactly one school. The (first name, last name) pair
// must be unique within that school; duplicates across schools are fine.
type Teacher struct {
	ID        string
	SchoolID  string
	FirstName string
	LastName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName returns the display name "First Last".
func (t Teacher) FullName() string {
	return t.FirstName + " " + t.LastName
}

// CreateTeacherInput describes the fields needed to create a teacher.
type CreateTeacherInput struct {
	SchoolID  string
	FirstName string
	LastName  string
}

// ValidateFields checks field presence independently of the duplicate
// guard, which needs a store lookup and lives in the service layer.
func ValidateFields(input CreateTeacherInput) *apperrors.ValidationError {
	var verr apperrors.ValidationError
	if strings.TrimSpace(input.FirstName) == "" {
		verr.Add("first_name", apperrors.CodeFirstNameRequired, "first name is required")
	}
	if strings.TrimSpace(input.LastName) == "" {
		verr.Add("last_name", apperrors.CodeLastNameRequired, "last name is required")
	}
	if strings.TrimSpace(input.SchoolID) == "" {
		verr.Add("school_id", apperrors.CodeSchoolRequired, "school is required")
	}
	return &verr
}

// NewTeacher creates a teacher with a generated ID and timestamps. The
// duplicate guard is a service-level precondition, not part of this
// constructor.
func NewTeacher(input CreateTeacherInput, now func() time.Time, idGenerator func() (string, error)) (Teacher, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	if err := ValidateFields(input).ErrOrNil(); err != nil {
		return Teacher{}, err
	}

	teacherID, err := idGenerator()
	if err != nil {
		return Teacher{}, fmt.Errorf("generate teacher id: %w", err)
	}

	createdAt := now().UTC()
	return Teacher{
		ID:        teacherID,
		SchoolID:  strings.TrimSpace(input.SchoolID),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// SameName reports whether two name pairs collide under case folding.
func SameName(firstA, lastA, firstB, lastB string) bool {
	return fold.String(strings.TrimSpace(firstA)) == fold.String(strings.TrimSpace(firstB)) &&
		fold.String(strings.TrimSpace(lastA)) == fold.String(strings.TrimSpace(lastB))
}
