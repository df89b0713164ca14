// Package hierarchy models the geographic containment chain for fundraising
// campaigns: a State owns Districts, a District owns Schools.
package hierarchy

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/classfund/classfund/internal/errors"
	"github.com/classfund/classfund/internal/platform/id"
)

// State is a top-level geographic region.
type State struct {
	ID        string
	Name      string
	Abbr      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// District is a school district within exactly one state.
type District struct {
	ID        string
	StateID   string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// School belongs to exactly one district, and transitively one state.
type School struct {
	ID         string
	DistrictID string
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateStateInput describes the fields needed to create a state.
type CreateStateInput struct {
	Name string
	Abbr string
}

// CreateDistrictInput describes the fields needed to create a district.
type CreateDistrictInput struct {
	StateID string
	Name    string
}

// CreateSchoolInput describes the fields needed to create a school.
type CreateSchoolInput struct {
	DistrictID string
	Name       string
}

// NewState creates a state with a generated ID and timestamps.
func NewState(input CreateStateInput, now func() time.Time, idGenerator func() (string, error)) (State, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Abbr = strings.TrimSpace(input.Abbr)

	var verr apperrors.ValidationError
	if input.Name == "" {
		verr.Add("name", apperrors.CodeNameRequired, "state name is required")
	}
	if input.Abbr == "" {
		verr.Add("abbr", apperrors.CodeAbbrRequired, "state abbreviation is required")
	}
	if err := verr.ErrOrNil(); err != nil {
		return State{}, err
	}

	stateID, err := idGenerator()
	if err != nil {
		return State{}, fmt.Errorf("generate state id: %w", err)
	}

	createdAt := now().UTC()
	return State{
		ID:        stateID,
		Name:      input.Name,
		Abbr:      strings.ToUpper(input.Abbr),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// NewDistrict creates a district with a generated ID and timestamps.
func NewDistrict(input CreateDistrictInput, now func() time.Time, idGenerator func() (string, error)) (District, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	input.Name = strings.TrimSpace(input.Name)
	input.StateID = strings.TrimSpace(input.StateID)

	var verr apperrors.ValidationError
	if input.Name == "" {
		verr.Add("name", apperrors.CodeNameRequired, "district name is required")
	}
	if input.StateID == "" {
		verr.Add("state_id", apperrors.CodeStateRequired, "district state is required")
	}
	if err := verr.ErrOrNil(); err != nil {
		return District{}, err
	}

	districtID, err := idGenerator()
	if err != nil {
		return District{}, fmt.Errorf("generate district id: %w", err)
	}

	createdAt := now().UTC()
	return District{
		ID:        districtID,
		StateID:   input.StateID,
		Name:      input.Name,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// NewSchool creates a school with a generated ID and timestamps.
func NewSchool(input CreateSchoolInput, now func() time.Time, idGenerator func() (string, error)) (School, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	input.Name = strings.TrimSpace(input.Name)
	input.DistrictID = strings.TrimSpace(input.DistrictID)

	var verr apperrors.ValidationError
	if input.Name == "" {
		verr.Add("name", apperrors.CodeNameRequired, "school name is required")
	}
	if input.DistrictID == "" {
		verr.Add("district_id", apperrors.CodeDistrictRequired, "school district is required")
	}
	if err := verr.ErrOrNil(); err != nil {
		return School{}, err
	}

	schoolID, err := idGenerator()
	if err != nil {
		return School{}, fmt.Errorf("generate school id: %w", err)
	}

	createdAt := now().UTC()
	return School{
		ID:         schoolID,
		DistrictID: input.DistrictID,
		Name:       input.Name,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}, nil
}
