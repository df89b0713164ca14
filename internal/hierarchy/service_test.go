package hierarchy

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/classfund/classfund/internal/errors"
	"github.com/classfund/classfund/internal/storage"
)

var hierarchyTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// fakeHierarchyStore is an in-memory StateStore, DistrictStore, and
// SchoolStore with injectable write failures.
type fakeHierarchyStore struct {
	states    map[string]State
	districts map[string]District
	schools   map[string]School

	createStateErr error
	updateStateErr error
}

func newFakeHierarchyStore() *fakeHierarchyStore {
	return &fakeHierarchyStore{
		states:    map[string]State{},
		districts: map[string]District{},
		schools:   map[string]School{},
	}
}

func (f *fakeHierarchyStore) CreateState(_ context.Context, s State) error {
	if f.createStateErr != nil {
		return f.createStateErr
	}
	f.states[s.ID] = s
	return nil
}

func (f *fakeHierarchyStore) GetState(_ context.Context, id string) (State, error) {
	s, ok := f.states[id]
	if !ok {
		return State{}, storage.ErrNotFound
	}
	return s, nil
}

func (f *fakeHierarchyStore) ListStates(context.Context) ([]State, error) {
	var out []State
	for _, s := range f.states {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeHierarchyStore) UpdateState(_ context.Context, s State) error {
	if f.updateStateErr != nil {
		return f.updateStateErr
	}
	if _, ok := f.states[s.ID]; !ok {
		return storage.ErrNotFound
	}
	f.states[s.ID] = s
	return nil
}

func (f *fakeHierarchyStore) DeleteState(_ context.Context, id string) error {
	if _, ok := f.states[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.states, id)
	return nil
}

func (f *fakeHierarchyStore) CreateDistrict(_ context.Context, d District) error {
	f.districts[d.ID] = d
	return nil
}

func (f *fakeHierarchyStore) GetDistrict(_ context.Context, id string) (District, error) {
	d, ok := f.districts[id]
	if !ok {
		return District{}, storage.ErrNotFound
	}
	return d, nil
}

func (f *fakeHierarchyStore) ListDistricts(_ context.Context, stateID string) ([]District, error) {
	var out []District
	for _, d := range f.districts {
		if stateID == "" || d.StateID == stateID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeHierarchyStore) UpdateDistrict(_ context.Context, d District) error {
	if _, ok := f.districts[d.ID]; !ok {
		return storage.ErrNotFound
	}
	f.districts[d.ID] = d
	return nil
}

func (f *fakeHierarchyStore) DeleteDistrict(_ context.Context, id string) error {
	if _, ok := f.districts[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.districts, id)
	return nil
}

func (f *fakeHierarchyStore) CreateSchool(_ context.Context, s School) error {
	f.schools[s.ID] = s
	return nil
}

func (f *fakeHierarchyStore) GetSchool(_ context.Context, id string) (School, error) {
	s, ok := f.schools[id]
	if !ok {
		return School{}, storage.ErrNotFound
	}
	return s, nil
}

func (f *fakeHierarchyStore) ListSchools(_ context.Context, districtID string) ([]School, error) {
	var out []School
	for _, s := range f.schools {
		if districtID == "" || s.DistrictID == districtID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeHierarchyStore) UpdateSchool(_ context.Context, s School) error {
	if _, ok := f.schools[s.ID]; !ok {
		return storage.ErrNotFound
	}
	f.schools[s.ID] = s
	return nil
}

func (f *fakeHierarchyStore) DeleteSchool(_ context.Context, id string) error {
	if _, ok := f.schools[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.schools, id)
	return nil
}

func newTestHierarchyService(f *fakeHierarchyStore) *Service {
	return NewService(f, f, f).WithClock(func() time.Time { return hierarchyTime })
}

func TestCreateState(t *testing.T) {
	f := newFakeHierarchyStore()
	svc := newTestHierarchyService(f)

	state, err := svc.CreateState(context.Background(), CreateStateInput{Name: "  Utah ", Abbr: "ut"})
	if err != nil {
		t.Fatalf("CreateState: %v", err)
	}
	if state.Name != "Utah" {
		t.Errorf("Name = %q, want Utah", state.Name)
	}
	if state.Abbr != "UT" {
		t.Errorf("Abbr = %q, want UT", state.Abbr)
	}
	if state.ID == "" {
		t.Error("ID is empty")
	}
	if !state.CreatedAt.Equal(hierarchyTime) || !state.UpdatedAt.Equal(hierarchyTime) {
		t.Errorf("timestamps = %v/%v, want %v", state.CreatedAt, state.UpdatedAt, hierarchyTime)
	}
	if _, ok := f.states[state.ID]; !ok {
		t.Error("state was not persisted")
	}
}

func TestCreateStateMissingFields(t *testing.T) {
	svc := newTestHierarchyService(newFakeHierarchyStore())

	_, err := svc.CreateState(context.Background(), CreateStateInput{})
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("CreateState = %v, want ValidationError", err)
	}
	if !verr.HasCode(apperrors.CodeNameRequired) {
		t.Error("missing NAME_REQUIRED")
	}
	if !verr.HasCode(apperrors.CodeAbbrRequired) {
		t.Error("missing ABBR_REQUIRED")
	}
}

func TestCreateStateNameTaken(t *testing.T) {
	f := newFakeHierarchyStore()
	f.createStateErr = storage.ErrNameTaken
	svc := newTestHierarchyService(f)

	_, err := svc.CreateState(context.Background(), CreateStateInput{Name: "Utah", Abbr: "UT"})
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("CreateState = %v, want ValidationError", err)
	}
	if !verr.HasCode(apperrors.CodeNameTaken) {
		t.Errorf("fields = %+v, want NAME_TAKEN", verr.Fields)
	}
}

func TestUpdateStateKeepsIdentity(t *testing.T) {
	f := newFakeHierarchyStore()
	svc := newTestHierarchyService(f)

	created, err := svc.CreateState(context.Background(), CreateStateInput{Name: "Utah", Abbr: "UT"})
	if err != nil {
		t.Fatalf("CreateState: %v", err)
	}

	updated, err := svc.UpdateState(context.Background(), created.ID, CreateStateInput{Name: "Utah Territory", Abbr: "UT"})
	if err != nil {
		t.Fatalf("UpdateState: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("ID changed: %q -> %q", created.ID, updated.ID)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}
	if updated.Name != "Utah Territory" {
		t.Errorf("Name = %q, want Utah Territory", updated.Name)
	}
}

func TestGetStateNotFound(t *testing.T) {
	svc := newTestHierarchyService(newFakeHierarchyStore())

	_, err := svc.GetState(context.Background(), "missing")
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("GetState = %v, want NOT_FOUND", err)
	}
}

func TestCreateDistrictMissingState(t *testing.T) {
	svc := newTestHierarchyService(newFakeHierarchyStore())

	_, err := svc.CreateDistrict(context.Background(), CreateDistrictInput{StateID: "missing", Name: "Washington County"})
	var missing *apperrors.MissingAssociationError
	if !errors.As(err, &missing) {
		t.Fatalf("CreateDistrict = %v, want MissingAssociationError", err)
	}
	if missing.Field != "state" || missing.ID != "missing" {
		t.Errorf("MissingAssociationError = %+v, want field state, id missing", missing)
	}
}

func TestCreateSchoolMissingDistrict(t *testing.T) {
	svc := newTestHierarchyService(newFakeHierarchyStore())

	_, err := svc.CreateSchool(context.Background(), CreateSchoolInput{DistrictID: "missing", Name: "Snow Canyon"})
	var missing *apperrors.MissingAssociationError
	if !errors.As(err, &missing) {
		t.Fatalf("CreateSchool = %v, want MissingAssociationError", err)
	}
	if missing.Field != "district" {
		t.Errorf("Field = %q, want district", missing.Field)
	}
}

func TestCreateSchoolUnderDistrict(t *testing.T) {
	f := newFakeHierarchyStore()
	svc := newTestHierarchyService(f)
	ctx := context.Background()

	state, err := svc.CreateState(ctx, CreateStateInput{Name: "Utah", Abbr: "UT"})
	if err != nil {
		t.Fatalf("CreateState: %v", err)
	}
	district, err := svc.CreateDistrict(ctx, CreateDistrictInput{StateID: state.ID, Name: "Washington County"})
	if err != nil {
		t.Fatalf("CreateDistrict: %v", err)
	}
	school, err := svc.CreateSchool(ctx, CreateSchoolInput{DistrictID: district.ID, Name: "Snow Canyon"})
	if err != nil {
		t.Fatalf("CreateSchool: %v", err)
	}
	if school.DistrictID != district.ID {
		t.Errorf("DistrictID = %q, want %q", school.DistrictID, district.ID)
	}

	schools, err := svc.ListSchools(ctx, district.ID)
	if err != nil {
		t.Fatalf("ListSchools: %v", err)
	}
	if len(schools) != 1 || schools[0].ID != school.ID {
		t.Errorf("ListSchools = %+v, want the created school", schools)
	}
}

func TestDeleteDistrictNotFound(t *testing.T) {
	svc := newTestHierarchyService(newFakeHierarchyStore())

	err := svc.DeleteDistrict(context.Background(), "missing")
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("DeleteDistrict = %v, want NOT_FOUND", err)
	}
}
