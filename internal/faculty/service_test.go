package faculty

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/classfund/classfund/internal/errors"
	"github.com/classfund/classfund/internal/hierarchy"
	"github.com/classfund/classfund/internal/storage"
)

var facultyTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// fakeFacultyStore is an in-memory TeacherStore and SchoolStore. The
// duplicate count mirrors the case-insensitive storage index.
type fakeFacultyStore struct {
	teachers map[string]Teacher
	schools  map[string]hierarchy.School

	updateTeacherErr error
}

func newFakeFacultyStore() *fakeFacultyStore {
	return &fakeFacultyStore{
		teachers: map[string]Teacher{},
		schools:  map[string]hierarchy.School{},
	}
}

func (f *fakeFacultyStore) CreateTeacher(_ context.Context, t Teacher) error {
	f.teachers[t.ID] = t
	return nil
}

func (f *fakeFacultyStore) GetTeacher(_ context.Context, id string) (Teacher, error) {
	t, ok := f.teachers[id]
	if !ok {
		return Teacher{}, storage.ErrNotFound
	}
	return t, nil
}

func (f *fakeFacultyStore) ListTeachers(_ context.Context, schoolID string) ([]Teacher, error) {
	var out []Teacher
	for _, t := range f.teachers {
		if schoolID == "" || t.SchoolID == schoolID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeFacultyStore) UpdateTeacher(_ context.Context, t Teacher) error {
	if f.updateTeacherErr != nil {
		return f.updateTeacherErr
	}
	if _, ok := f.teachers[t.ID]; !ok {
		return storage.ErrNotFound
	}
	f.teachers[t.ID] = t
	return nil
}

func (f *fakeFacultyStore) DeleteTeacher(_ context.Context, id string) error {
	if _, ok := f.teachers[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.teachers, id)
	return nil
}

func (f *fakeFacultyStore) CountDuplicateTeachers(_ context.Context, schoolID, firstName, lastName, excludingID string) (int, error) {
	count := 0
	for _, t := range f.teachers {
		if t.ID == excludingID || t.SchoolID != schoolID {
			continue
		}
		if strings.EqualFold(t.FirstName, strings.TrimSpace(firstName)) &&
			strings.EqualFold(t.LastName, strings.TrimSpace(lastName)) {
			count++
		}
	}
	return count, nil
}

func (f *fakeFacultyStore) GetSchool(_ context.Context, id string) (hierarchy.School, error) {
	s, ok := f.schools[id]
	if !ok {
		return hierarchy.School{}, storage.ErrNotFound
	}
	return s, nil
}

func (f *fakeFacultyStore) CreateSchool(_ context.Context, s hierarchy.School) error {
	f.schools[s.ID] = s
	return nil
}

func (f *fakeFacultyStore) ListSchools(context.Context, string) ([]hierarchy.School, error) {
	return nil, nil
}
func (f *fakeFacultyStore) UpdateSchool(context.Context, hierarchy.School) error { return nil }
func (f *fakeFacultyStore) DeleteSchool(context.Context, string) error           { return nil }

func newTestFacultyService(f *fakeFacultyStore) *Service {
	f.schools["school-snow-canyon"] = hierarchy.School{ID: "school-snow-canyon", DistrictID: "district-washington", Name: "Snow Canyon"}
	f.schools["school-desert-hills"] = hierarchy.School{ID: "school-desert-hills", DistrictID: "district-washington", Name: "Desert Hills"}
	return NewService(f, f).WithClock(func() time.Time { return facultyTime })
}

func TestCreateTeacher(t *testing.T) {
	f := newFakeFacultyStore()
	svc := newTestFacultyService(f)

	teacher, err := svc.CreateTeacher(context.Background(), CreateTeacherInput{
		SchoolID:  "school-snow-canyon",
		FirstName: " Mark ",
		LastName:  "Holmberg",
	})
	if err != nil {
		t.Fatalf("CreateTeacher: %v", err)
	}
	if teacher.FirstName != "Mark" || teacher.LastName != "Holmberg" {
		t.Errorf("name = %q %q, want Mark Holmberg", teacher.FirstName, teacher.LastName)
	}
	if teacher.FullName() != "Mark Holmberg" {
		t.Errorf("FullName = %q, want Mark Holmberg", teacher.FullName())
	}
	if _, ok := f.teachers[teacher.ID]; !ok {
		t.Error("teacher was not persisted")
	}
}

func TestCreateTeacherMissingSchool(t *testing.T) {
	svc := newTestFacultyService(newFakeFacultyStore())

	_, err := svc.CreateTeacher(context.Background(), CreateTeacherInput{
		SchoolID:  "school-missing",
		FirstName: "Mark",
		LastName:  "Holmberg",
	})
	var missing *apperrors.MissingAssociationError
	if !errors.As(err, &missing) {
		t.Fatalf("CreateTeacher = %v, want MissingAssociationError", err)
	}
	if missing.Field != "school" || missing.ID != "school-missing" {
		t.Errorf("MissingAssociationError = %+v, want field school", missing)
	}
}

func TestCreateTeacherDuplicateGuard(t *testing.T) {
	f := newFakeFacultyStore()
	svc := newTestFacultyService(f)
	ctx := context.Background()

	if _, err := svc.CreateTeacher(ctx, CreateTeacherInput{
		SchoolID:  "school-snow-canyon",
		FirstName: "Mark",
		LastName:  "Holmberg",
	}); err != nil {
		t.Fatalf("CreateTeacher: %v", err)
	}

	// Same name pair ignoring case, same school.
	_, err := svc.CreateTeacher(ctx, CreateTeacherInput{
		SchoolID:  "school-snow-canyon",
		FirstName: "MARK",
		LastName:  "holmberg",
	})
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("duplicate CreateTeacher = %v, want ValidationError", err)
	}
	if !verr.HasCode(apperrors.CodeDuplicateTeacher) {
		t.Errorf("fields = %+v, want DUPLICATE_TEACHER", verr.Fields)
	}

	// Same name at a different school is allowed.
	if _, err := svc.CreateTeacher(ctx, CreateTeacherInput{
		SchoolID:  "school-desert-hills",
		FirstName: "Mark",
		LastName:  "Holmberg",
	}); err != nil {
		t.Fatalf("CreateTeacher at sibling school: %v", err)
	}
}

func TestCreateTeacherDuplicateGuardFoldsUnicode(t *testing.T) {
	f := newFakeFacultyStore()
	svc := newTestFacultyService(f)
	ctx := context.Background()

	if _, err := svc.CreateTeacher(ctx, CreateTeacherInput{
		SchoolID:  "school-snow-canyon",
		FirstName: "Greta",
		LastName:  "Weiß",
	}); err != nil {
		t.Fatalf("CreateTeacher: %v", err)
	}

	// ß folds to ss, which simple per-rune comparison misses entirely.
	// The roster re-check has to catch it.
	_, err := svc.CreateTeacher(ctx, CreateTeacherInput{
		SchoolID:  "school-snow-canyon",
		FirstName: "GRETA",
		LastName:  "WEISS",
	})
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) || !verr.HasCode(apperrors.CodeDuplicateTeacher) {
		t.Fatalf("folded duplicate CreateTeacher = %v, want DUPLICATE_TEACHER", err)
	}
}

func TestUpdateTeacherExcludesSelfFromGuard(t *testing.T) {
	f := newFakeFacultyStore()
	svc := newTestFacultyService(f)
	ctx := context.Background()

	created, err := svc.CreateTeacher(ctx, CreateTeacherInput{
		SchoolID:  "school-snow-canyon",
		FirstName: "Mark",
		LastName:  "Holmberg",
	})
	if err != nil {
		t.Fatalf("CreateTeacher: %v", err)
	}

	// An update that keeps the name must not trip the duplicate guard on
	// the record itself.
	first := "MARK"
	updated, err := svc.UpdateTeacher(ctx, created.ID, TeacherChanges{FirstName: &first})
	if err != nil {
		t.Fatalf("UpdateTeacher: %v", err)
	}
	if updated.FirstName != "MARK" {
		t.Errorf("FirstName = %q, want MARK", updated.FirstName)
	}
	if updated.ID != created.ID || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("update changed record identity")
	}
}

func TestUpdateTeacherIntoDuplicate(t *testing.T) {
	f := newFakeFacultyStore()
	svc := newTestFacultyService(f)
	ctx := context.Background()

	if _, err := svc.CreateTeacher(ctx, CreateTeacherInput{
		SchoolID: "school-snow-canyon", FirstName: "Mark", LastName: "Holmberg",
	}); err != nil {
		t.Fatalf("CreateTeacher: %v", err)
	}
	scott, err := svc.CreateTeacher(ctx, CreateTeacherInput{
		SchoolID: "school-snow-canyon", FirstName: "Scott", LastName: "Holmberg",
	})
	if err != nil {
		t.Fatalf("CreateTeacher: %v", err)
	}

	first := "Mark"
	_, err = svc.UpdateTeacher(ctx, scott.ID, TeacherChanges{FirstName: &first})
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) || !verr.HasCode(apperrors.CodeDuplicateTeacher) {
		t.Fatalf("UpdateTeacher = %v, want DUPLICATE_TEACHER", err)
	}
	// The record must be untouched on refusal.
	unchanged, err := svc.GetTeacher(ctx, scott.ID)
	if err != nil {
		t.Fatalf("GetTeacher: %v", err)
	}
	if unchanged.FirstName != "Scott" {
		t.Errorf("FirstName = %q, want Scott", unchanged.FirstName)
	}
}

func TestCreateTeacherMissingFields(t *testing.T) {
	svc := newTestFacultyService(newFakeFacultyStore())

	_, err := svc.CreateTeacher(context.Background(), CreateTeacherInput{SchoolID: "school-snow-canyon"})
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("CreateTeacher = %v, want ValidationError", err)
	}
	if !verr.HasCode(apperrors.CodeFirstNameRequired) {
		t.Error("missing FIRST_NAME_REQUIRED")
	}
	if !verr.HasCode(apperrors.CodeLastNameRequired) {
		t.Error("missing LAST_NAME_REQUIRED")
	}
}

func TestDeleteTeacherNotFound(t *testing.T) {
	svc := newTestFacultyService(newFakeFacultyStore())

	err := svc.DeleteTeacher(context.Background(), "missing")
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("DeleteTeacher = %v, want NOT_FOUND", err)
	}
}
