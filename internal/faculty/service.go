package faculty

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/classfund/classfund/internal/errors"
	"github.com/classfund/classfund/internal/hierarchy"
	"github.com/classfund/classfund/internal/platform/id"
	"github.com/classfund/classfund/internal/storage"
)

// TeacherStore persists teachers and answers the duplicate guard.
type TeacherStore interface {
	CreateTeacher(ctx context.Context, teacher Teacher) error
	GetTeacher(ctx context.Context, id string) (Teacher, error)
	ListTeachers(ctx context.Context, schoolID string) ([]Teacher, error)
	UpdateTeacher(ctx context.Context, teacher Teacher) error
	DeleteTeacher(ctx context.Context, id string) error
	// CountDuplicateTeachers counts teachers of the school with the same
	// case-folded (first, last) name pair, excluding excludingID.
	CountDuplicateTeachers(ctx context.Context, schoolID, firstName, lastName, excludingID string) (int, error)
}

// Service is the teacher registry: CRUD over teacher records with the
// per-school duplicate guard as a write precondition.
type Service struct {
	teachers    TeacherStore
	schools     hierarchy.SchoolStore
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewService creates a faculty service with default dependencies.
func NewService(teachers TeacherStore, schools hierarchy.SchoolStore) *Service {
	return &Service{
		teachers:    teachers,
		schools:     schools,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
}

// WithClock overrides the clock, for tests.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// TeacherChanges describes a partial teacher update; nil fields keep the
// existing value.
type TeacherChanges struct {
	SchoolID  *string
	FirstName *string
	LastName  *string
}

// ValidateTeacher runs field checks and the duplicate guard for a
// candidate. excludingID excludes the record itself on update.
func (s *Service) ValidateTeacher(ctx context.Context, input CreateTeacherInput, excludingID string) error {
	verr := ValidateFields(input)
	if !verr.Valid() {
		return verr
	}

	schoolID := strings.TrimSpace(input.SchoolID)
	if _, err := s.schools.GetSchool(ctx, schoolID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &apperrors.MissingAssociationError{Field: "school", ID: schoolID, Cause: err}
		}
		return fmt.Errorf("resolve school: %w", err)
	}

	count, err := s.teachers.CountDuplicateTeachers(ctx, schoolID, input.FirstName, input.LastName, excludingID)
	if err != nil {
		return fmt.Errorf("check duplicate teachers: %w", err)
	}
	if count == 0 {
		// The storage collation folds ASCII only; re-check the school's
		// roster with Unicode case folding so e.g. Weiß and WEISS collide.
		roster, err := s.teachers.ListTeachers(ctx, schoolID)
		if err != nil {
			return fmt.Errorf("load school roster: %w", err)
		}
		for _, other := range roster {
			if other.ID == excludingID {
				continue
			}
			if SameName(other.FirstName, other.LastName, input.FirstName, input.LastName) {
				count++
			}
		}
	}
	if count > 0 {
		verr.Add("full_name", apperrors.CodeDuplicateTeacher,
			fmt.Sprintf("a teacher named %s %s already exists for this school",
				strings.TrimSpace(input.FirstName), strings.TrimSpace(input.LastName)))
	}
	return verr.ErrOrNil()
}

// CreateTeacher validates the candidate and persists a new teacher.
func (s *Service) CreateTeacher(ctx context.Context, input CreateTeacherInput) (Teacher, error) {
	if err := s.ValidateTeacher(ctx, input, ""); err != nil {
		return Teacher{}, err
	}

	teacher, err := NewTeacher(input, s.clock, s.idGenerator)
	if err != nil {
		return Teacher{}, err
	}

	if err := s.teachers.CreateTeacher(ctx, teacher); err != nil {
		if errors.Is(err, storage.ErrDuplicateTeacher) {
			return Teacher{}, duplicateTeacherError(teacher)
		}
		return Teacher{}, fmt.Errorf("persist teacher: %w", err)
	}
	return teacher, nil
}

// GetTeacher returns a teacher by ID.
func (s *Service) GetTeacher(ctx context.Context, teacherID string) (Teacher, error) {
	teacher, err := s.teachers.GetTeacher(ctx, teacherID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Teacher{}, notFound(teacherID)
		}
		return Teacher{}, fmt.Errorf("load teacher: %w", err)
	}
	return teacher, nil
}

// ListTeachers returns teachers, optionally scoped to one school.
func (s *Service) ListTeachers(ctx context.Context, schoolID string) ([]Teacher, error) {
	return s.teachers.ListTeachers(ctx, strings.TrimSpace(schoolID))
}

// UpdateTeacher merges changes into the record and re-runs all checks,
// including the duplicate guard against the merged name pair.
func (s *Service) UpdateTeacher(ctx context.Context, teacherID string, changes TeacherChanges) (Teacher, error) {
	existing, err := s.GetTeacher(ctx, teacherID)
	if err != nil {
		return Teacher{}, err
	}

	merged := CreateTeacherInput{
		SchoolID:  existing.SchoolID,
		FirstName: existing.FirstName,
		LastName:  existing.LastName,
	}
	if changes.SchoolID != nil {
		merged.SchoolID = *changes.SchoolID
	}
	if changes.FirstName != nil {
		merged.FirstName = *changes.FirstName
	}
	if changes.LastName != nil {
		merged.LastName = *changes.LastName
	}

	if err := s.ValidateTeacher(ctx, merged, existing.ID); err != nil {
		return Teacher{}, err
	}

	updated := Teacher{
		ID:        existing.ID,
		SchoolID:  strings.TrimSpace(merged.SchoolID),
		FirstName: strings.TrimSpace(merged.FirstName),
		LastName:  strings.TrimSpace(merged.LastName),
		CreatedAt: existing.CreatedAt,
		UpdatedAt: s.clock().UTC(),
	}

	if err := s.teachers.UpdateTeacher(ctx, updated); err != nil {
		if errors.Is(err, storage.ErrDuplicateTeacher) {
			return Teacher{}, duplicateTeacherError(updated)
		}
		return Teacher{}, fmt.Errorf("persist teacher: %w", err)
	}
	return updated, nil
}

// DeleteTeacher removes a teacher record.
func (s *Service) DeleteTeacher(ctx context.Context, teacherID string) error {
	if err := s.teachers.DeleteTeacher(ctx, teacherID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound(teacherID)
		}
		return fmt.Errorf("delete teacher: %w", err)
	}
	return nil
}

func duplicateTeacherError(t Teacher) error {
	var verr apperrors.ValidationError
	verr.Add("full_name", apperrors.CodeDuplicateTeacher,
		fmt.Sprintf("a teacher named %s already exists for this school", t.FullName()))
	return &verr
}

func notFound(id string) error {
	return apperrors.WithMetadata(apperrors.CodeNotFound,
		fmt.Sprintf("teacher %s not found", id),
		map[string]string{"Kind": "teacher", "ID": id})
}
