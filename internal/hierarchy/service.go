package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/classfund/classfund/internal/errors"
	"github.com/classfund/classfund/internal/platform/id"
	"github.com/classfund/classfund/internal/storage"
)

// StateStore persists states.
type StateStore interface {
	CreateState(ctx context.Context, state State) error
	GetState(ctx context.Context, id string) (State, error)
	ListStates(ctx context.Context) ([]State, error)
	UpdateState(ctx context.Context, state State) error
	DeleteState(ctx context.Context, id string) error
}

// DistrictStore persists districts. An empty stateID lists all districts.
type DistrictStore interface {
	CreateDistrict(ctx context.Context, district District) error
	GetDistrict(ctx context.Context, id string) (District, error)
	ListDistricts(ctx context.Context, stateID string) ([]District, error)
	UpdateDistrict(ctx context.Context, district District) error
	DeleteDistrict(ctx context.Context, id string) error
}

// SchoolStore persists schools. An empty districtID lists all schools.
type SchoolStore interface {
	CreateSchool(ctx context.Context, school School) error
	GetSchool(ctx context.Context, id string) (School, error)
	ListSchools(ctx context.Context, districtID string) ([]School, error)
	UpdateSchool(ctx context.Context, school School) error
	DeleteSchool(ctx context.Context, id string) error
}

// Service manages the state/district/school hierarchy.
type Service struct {
	states      StateStore
	districts   DistrictStore
	schools     SchoolStore
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewService creates a hierarchy service with default dependencies.
func NewService(states StateStore, districts DistrictStore, schools SchoolStore) *Service {
	return &Service{
		states:      states,
		districts:   districts,
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

// CreateState creates a state record. State names are unique ignoring
// case; the storage constraint is authoritative.
func (s *Service) CreateState(ctx context.Context, input CreateStateInput) (State, error) {
	state, err := NewState(input, s.clock, s.idGenerator)
	if err != nil {
		return State{}, err
	}
	if err := s.states.CreateState(ctx, state); err != nil {
		if errors.Is(err, storage.ErrNameTaken) {
			var verr apperrors.ValidationError
			verr.Add("name", apperrors.CodeNameTaken, "state name is already in use")
			return State{}, &verr
		}
		return State{}, fmt.Errorf("persist state: %w", err)
	}
	return state, nil
}

// GetState returns a state by ID.
func (s *Service) GetState(ctx context.Context, stateID string) (State, error) {
	state, err := s.states.GetState(ctx, stateID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return State{}, notFound("state", stateID)
		}
		return State{}, fmt.Errorf("load state: %w", err)
	}
	return state, nil
}

// ListStates returns all states.
func (s *Service) ListStates(ctx context.Context) ([]State, error) {
	return s.states.ListStates(ctx)
}

// UpdateState updates a state's name and abbreviation.
func (s *Service) UpdateState(ctx context.Context, stateID string, input CreateStateInput) (State, error) {
	existing, err := s.GetState(ctx, stateID)
	if err != nil {
		return State{}, err
	}

	updated, err := NewState(input, s.clock, func() (string, error) { return existing.ID, nil })
	if err != nil {
		return State{}, err
	}
	updated.CreatedAt = existing.CreatedAt

	if err := s.states.UpdateState(ctx, updated); err != nil {
		if errors.Is(err, storage.ErrNameTaken) {
			var verr apperrors.ValidationError
			verr.Add("name", apperrors.CodeNameTaken, "state name is already in use")
			return State{}, &verr
		}
		return State{}, fmt.Errorf("persist state: %w", err)
	}
	return updated, nil
}

// DeleteState removes a state record. Cascades are not validated here.
func (s *Service) DeleteState(ctx context.Context, stateID string) error {
	if err := s.states.DeleteState(ctx, stateID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound("state", stateID)
		}
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}

// CreateDistrict creates a district under an existing state.
func (s *Service) CreateDistrict(ctx context.Context, input CreateDistrictInput) (District, error) {
	district, err := NewDistrict(input, s.clock, s.idGenerator)
	if err != nil {
		return District{}, err
	}
	if _, err := s.states.GetState(ctx, district.StateID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return District{}, &apperrors.MissingAssociationError{Field: "state", ID: district.StateID, Cause: err}
		}
		return District{}, fmt.Errorf("resolve state: %w", err)
	}
	if err := s.districts.CreateDistrict(ctx, district); err != nil {
		return District{}, fmt.Errorf("persist district: %w", err)
	}
	return district, nil
}

// GetDistrict returns a district by ID.
func (s *Service) GetDistrict(ctx context.Context, districtID string) (District, error) {
	district, err := s.districts.GetDistrict(ctx, districtID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return District{}, notFound("district", districtID)
		}
		return District{}, fmt.Errorf("load district: %w", err)
	}
	return district, nil
}

// ListDistricts returns districts, optionally scoped to one state.
func (s *Service) ListDistricts(ctx context.Context, stateID string) ([]District, error) {
	return s.districts.ListDistricts(ctx, strings.TrimSpace(stateID))
}

// UpdateDistrict updates a district's name and state.
func (s *Service) UpdateDistrict(ctx context.Context, districtID string, input CreateDistrictInput) (District, error) {
	existing, err := s.GetDistrict(ctx, districtID)
	if err != nil {
		return District{}, err
	}

	updated, err := NewDistrict(input, s.clock, func() (string, error) { return existing.ID, nil })
	if err != nil {
		return District{}, err
	}
	updated.CreatedAt = existing.CreatedAt

	if _, err := s.states.GetState(ctx, updated.StateID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return District{}, &apperrors.MissingAssociationError{Field: "state", ID: updated.StateID, Cause: err}
		}
		return District{}, fmt.Errorf("resolve state: %w", err)
	}

	if err := s.districts.UpdateDistrict(ctx, updated); err != nil {
		return District{}, fmt.Errorf("persist district: %w", err)
	}
	return updated, nil
}

// DeleteDistrict removes a district record.
func (s *Service) DeleteDistrict(ctx context.Context, districtID string) error {
	if err := s.districts.DeleteDistrict(ctx, districtID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound("district", districtID)
		}
		return fmt.Errorf("delete district: %w", err)
	}
	return nil
}

// CreateSchool creates a school under an existing district.
func (s *Service) CreateSchool(ctx context.Context, input CreateSchoolInput) (School, error) {
	school, err := NewSchool(input, s.clock, s.idGenerator)
	if err != nil {
		return School{}, err
	}
	if _, err := s.districts.GetDistrict(ctx, school.DistrictID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return School{}, &apperrors.MissingAssociationError{Field: "district", ID: school.DistrictID, Cause: err}
		}
		return School{}, fmt.Errorf("resolve district: %w", err)
	}
	if err := s.schools.CreateSchool(ctx, school); err != nil {
		return School{}, fmt.Errorf("persist school: %w", err)
	}
	return school, nil
}

// GetSchool returns a school by ID.
func (s *Service) GetSchool(ctx context.Context, schoolID string) (School, error) {
	school, err := s.schools.GetSchool(ctx, schoolID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return School{}, notFound("school", schoolID)
		}
		return School{}, fmt.Errorf("load school: %w", err)
	}
	return school, nil
}

// ListSchools returns schools, optionally scoped to one district.
func (s *Service) ListSchools(ctx context.Context, districtID string) ([]School, error) {
	return s.schools.ListSchools(ctx, strings.TrimSpace(districtID))
}

// UpdateSchool updates a school's name and district.
func (s *Service) UpdateSchool(ctx context.Context, schoolID string, input CreateSchoolInput) (School, error) {
	existing, err := s.GetSchool(ctx, schoolID)
	if err != nil {
		return School{}, err
	}

	updated, err := NewSchool(input, s.clock, func() (string, error) { return existing.ID, nil })
	if err != nil {
		return School{}, err
	}
	updated.CreatedAt = existing.CreatedAt

	if _, err := s.districts.GetDistrict(ctx, updated.DistrictID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return School{}, &apperrors.MissingAssociationError{Field: "district", ID: updated.DistrictID, Cause: err}
		}
		return School{}, fmt.Errorf("resolve district: %w", err)
	}

	if err := s.schools.UpdateSchool(ctx, updated); err != nil {
		return School{}, fmt.Errorf("persist school: %w", err)
	}
	return updated, nil
}

// DeleteSchool removes a school record.
func (s *Service) DeleteSchool(ctx context.Context, schoolID string) error {
	if err := s.schools.DeleteSchool(ctx, schoolID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound("school", schoolID)
		}
		return fmt.Errorf("delete school: %w", err)
	}
	return nil
}

func notFound(kind, id string) error {
	return apperrors.WithMetadata(apperrors.CodeNotFound,
		fmt.Sprintf("%s %s not found", kind, id),
		map[string]string{"Kind": kind, "ID": id})
}
