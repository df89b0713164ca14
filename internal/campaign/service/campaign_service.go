// Package service hosts the campaign lifecycle controller: every create,
// update, and destroy flows through it, and the consistency validator
// runs on every write.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/classfund/classfund/internal/campaign/domain"
	"github.com/classfund/classfund/internal/campaign/slug"
	apperrors "github.com/classfund/classfund/internal/errors"
	"github.com/classfund/classfund/internal/faculty"
	"github.com/classfund/classfund/internal/hierarchy"
	"github.com/classfund/classfund/internal/platform/id"
	"github.com/classfund/classfund/internal/storage"
	storagefilter "github.com/classfund/classfund/internal/storage/filter"
)

const (
	defaultListCampaignsPageSize = 20
	maxListCampaignsPageSize     = 100
)

// CampaignPage is one page of campaign records.
type CampaignPage struct {
	Campaigns     []domain.Campaign
	NextPageToken string
}

// CampaignStore persists campaigns. Uniqueness of name (case-insensitive)
// and slug is enforced by storage constraints; the advisory pre-checks in
// the controller only improve error reporting.
type CampaignStore interface {
	CreateCampaign(ctx context.Context, campaign domain.Campaign) error
	GetCampaign(ctx context.Context, id string) (domain.Campaign, error)
	GetCampaignBySlug(ctx context.Context, slug string) (domain.Campaign, error)
	// FindCampaignByName looks up a campaign by case-insensitive name,
	// excluding excludingID (empty for none).
	FindCampaignByName(ctx context.Context, name, excludingID string) (domain.Campaign, error)
	ListCampaigns(ctx context.Context, filter storagefilter.CampaignFilter, pageSize int, pageToken string) ([]domain.Campaign, string, error)
	UpdateCampaign(ctx context.Context, campaign domain.Campaign) error
	// DeleteCampaign removes the record after re-validating the destroy
	// guard within the same transaction: it fails with
	// storage.ErrCampaignActive or storage.ErrCampaignHasContributions
	// instead of deleting.
	DeleteCampaign(ctx context.Context, id string) error
}

// ContributionCounter answers the destroy guard's contribution check.
type ContributionCounter interface {
	CountContributions(ctx context.Context, campaignID string) (int, error)
}

// Stores bundles the persistence collaborators the controller reads.
// Only the controller mutates the campaign store; the hierarchy, teacher,
// and contribution stores are read-only from here.
type Stores struct {
	Campaigns     CampaignStore
	States        hierarchy.StateStore
	Districts     hierarchy.DistrictStore
	Schools       hierarchy.SchoolStore
	Teachers      faculty.TeacherStore
	Contributions ContributionCounter
}

// Service is the campaign lifecycle controller.
type Service struct {
	stores      Stores
	slugs       *slug.Generator
	clock       func() time.Time
	idGenerator func() (string, error)
}

// New creates a Service with default clock and ID generation.
func New(stores Stores) *Service {
	s := &Service{
		stores:      stores,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
	s.slugs = slug.NewGenerator(s.slugTaken)
	return s
}

// WithClock overrides the clock, for tests.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// WithIDGenerator overrides ID generation, for tests.
func (s *Service) WithIDGenerator(gen func() (string, error)) *Service {
	s.idGenerator = gen
	s.slugs = slug.NewGeneratorWithIDSource(s.slugTaken, gen)
	return s
}

// CampaignInput describes a campaign write supplied by the caller.
type CampaignInput struct {
	Name         string
	StateID      string
	DistrictID   string
	SchoolID     string
	Campaignable domain.Campaignable
	// SchoolWide must be explicitly set; nil fails validation.
	SchoolWide *bool
	Active     bool
	GoalCents  int64
}

// CampaignChanges describes a partial update; nil fields keep the
// existing value. The slug is never updatable.
type CampaignChanges struct {
	Name         *string
	StateID      *string
	DistrictID   *string
	SchoolID     *string
	Campaignable *domain.Campaignable
	SchoolWide   *bool
	Active       *bool
	GoalCents    *int64
}

// ValidateCampaign resolves the candidate's associations and runs every
// consistency and uniqueness check. It returns a *errors.ValidationError
// with all collected field failures, a *errors.MissingAssociationError
// when a required association does not resolve, or nil when valid.
func (s *Service) ValidateCampaign(ctx context.Context, input CampaignInput) error {
	candidate, err := s.resolve(ctx, input, "")
	if err != nil {
		return err
	}
	verr := domain.Validate(candidate)
	if err := s.checkUniqueness(ctx, candidate, verr); err != nil {
		return err
	}
	return verr.ErrOrNil()
}

// CreateCampaign validates the candidate, assigns a slug, and persists.
// The slug is generated exactly once, here; updates never touch it.
func (s *Service) CreateCampaign(ctx context.Context, input CampaignInput) (domain.Campaign, error) {
	candidate, err := s.resolve(ctx, input, "")
	if err != nil {
		return domain.Campaign{}, err
	}
	verr := domain.Validate(candidate)
	if err := s.checkUniqueness(ctx, candidate, verr); err != nil {
		return domain.Campaign{}, err
	}
	if err := verr.ErrOrNil(); err != nil {
		return domain.Campaign{}, err
	}

	campaignID, err := s.idGenerator()
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("generate campaign id: %w", err)
	}
	campaignSlug, err := s.slugs.Generate(ctx, candidate.Name)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("generate campaign slug: %w", err)
	}

	createdAt := s.clock().UTC()
	campaign := domain.Campaign{
		ID:         campaignID,
		Slug:       campaignSlug,
		Name:       candidate.Name,
		StateID:    candidate.State.ID,
		DistrictID: candidate.District.ID,
		SchoolID:   candidate.School.ID,
		Campaignable: domain.Campaignable{
			Kind:  input.Campaignable.Kind,
			RefID: strings.TrimSpace(input.Campaignable.RefID),
		},
		SchoolWide: *candidate.SchoolWide,
		Active:     input.Active,
		GoalCents:  input.GoalCents,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}

	if err := s.stores.Campaigns.CreateCampaign(ctx, campaign); err != nil {
		// The storage constraint is authoritative; a race past the
		// advisory checks surfaces as a retryable field error.
		if raceErr := uniquenessRaceError(err); raceErr != nil {
			return domain.Campaign{}, raceErr
		}
		return domain.Campaign{}, fmt.Errorf("persist campaign: %w", err)
	}
	return campaign, nil
}

// UpdateCampaign merges changes into the existing record and re-runs all
// validations against the merged candidate. On failure nothing is
// mutated.
func (s *Service) UpdateCampaign(ctx context.Context, campaignID string, changes CampaignChanges) (domain.Campaign, error) {
	existing, err := s.stores.Campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Campaign{}, notFound("campaign", campaignID)
		}
		return domain.Campaign{}, fmt.Errorf("load campaign: %w", err)
	}

	merged := mergeChanges(existing, changes)
	candidate, err := s.resolve(ctx, merged, existing.ID)
	if err != nil {
		return domain.Campaign{}, err
	}
	// The slug is not a target of re-validation, but its continued
	// uniqueness is still checked.
	candidate.Slug = existing.Slug

	verr := domain.Validate(candidate)
	if err := s.checkUniqueness(ctx, candidate, verr); err != nil {
		return domain.Campaign{}, err
	}
	if err := verr.ErrOrNil(); err != nil {
		return domain.Campaign{}, err
	}

	updated := domain.Campaign{
		ID:         existing.ID,
		Slug:       existing.Slug,
		Name:       candidate.Name,
		StateID:    candidate.State.ID,
		DistrictID: candidate.District.ID,
		SchoolID:   candidate.School.ID,
		Campaignable: domain.Campaignable{
			Kind:  merged.Campaignable.Kind,
			RefID: strings.TrimSpace(merged.Campaignable.RefID),
		},
		SchoolWide: *candidate.SchoolWide,
		Active:     merged.Active,
		GoalCents:  merged.GoalCents,
		CreatedAt:  existing.CreatedAt,
		UpdatedAt:  s.clock().UTC(),
	}

	if err := s.stores.Campaigns.UpdateCampaign(ctx, updated); err != nil {
		if raceErr := uniquenessRaceError(err); raceErr != nil {
			return domain.Campaign{}, raceErr
		}
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Campaign{}, notFound("campaign", campaignID)
		}
		return domain.Campaign{}, fmt.Errorf("persist campaign: %w", err)
	}
	return updated, nil
}

// DestroyCampaign removes a campaign unless the destroy guard blocks it:
// an active campaign, or one with recorded contributions, stays
// untouched. The store re-validates the guard inside the delete
// transaction, so a concurrent contribution cannot slip through between
// the check and the delete.
func (s *Service) DestroyCampaign(ctx context.Context, campaignID string) error {
	existing, err := s.stores.Campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound("campaign", campaignID)
		}
		return fmt.Errorf("load campaign: %w", err)
	}

	count, err := s.stores.Contributions.CountContributions(ctx, existing.ID)
	if err != nil {
		return fmt.Errorf("count contributions: %w", err)
	}
	if err := domain.CheckDestroy(existing, count); err != nil {
		return err
	}

	if err := s.stores.Campaigns.DeleteCampaign(ctx, existing.ID); err != nil {
		switch {
		case errors.Is(err, storage.ErrCampaignActive):
			return domain.CheckDestroy(domain.Campaign{ID: existing.ID, Active: true}, 0)
		case errors.Is(err, storage.ErrCampaignHasContributions):
			return domain.CheckDestroy(domain.Campaign{ID: existing.ID}, 1)
		case errors.Is(err, storage.ErrNotFound):
			return notFound("campaign", campaignID)
		}
		return fmt.Errorf("delete campaign: %w", err)
	}
	return nil
}

// GetCampaign returns a campaign by ID.
func (s *Service) GetCampaign(ctx context.Context, campaignID string) (domain.Campaign, error) {
	campaign, err := s.stores.Campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Campaign{}, notFound("campaign", campaignID)
		}
		return domain.Campaign{}, fmt.Errorf("load campaign: %w", err)
	}
	return campaign, nil
}

// GetCampaignBySlug returns a campaign by its public slug.
func (s *Service) GetCampaignBySlug(ctx context.Context, campaignSlug string) (domain.Campaign, error) {
	campaign, err := s.stores.Campaigns.GetCampaignBySlug(ctx, strings.TrimSpace(campaignSlug))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Campaign{}, notFound("campaign", campaignSlug)
		}
		return domain.Campaign{}, fmt.Errorf("load campaign: %w", err)
	}
	return campaign, nil
}

// ListCampaigns returns one page of campaigns matching an optional
// AIP-160 filter expression over active, school_wide, state_id,
// district_id, and school_id.
func (s *Service) ListCampaigns(ctx context.Context, filterExpr string, pageSize int, pageToken string) (CampaignPage, error) {
	filter, err := storagefilter.ParseCampaignFilter(filterExpr)
	if err != nil {
		return CampaignPage{}, apperrors.Wrap(apperrors.CodeInvalidFilter, fmt.Sprintf("invalid filter: %v", err), err)
	}
	if pageSize <= 0 {
		pageSize = defaultListCampaignsPageSize
	}
	if pageSize > maxListCampaignsPageSize {
		pageSize = maxListCampaignsPageSize
	}
	campaigns, nextPageToken, err := s.stores.Campaigns.ListCampaigns(ctx, filter, pageSize, pageToken)
	if err != nil {
		return CampaignPage{}, fmt.Errorf("list campaigns: %w", err)
	}
	return CampaignPage{Campaigns: campaigns, NextPageToken: nextPageToken}, nil
}

// resolve loads every referenced record for the candidate. State,
// district, and school are required associations: an absent or
// unresolvable reference is a caller defect, reported as
// MissingAssociationError rather than a field error.
func (s *Service) resolve(ctx context.Context, input CampaignInput, excludingID string) (domain.Candidate, error) {
	candidate := domain.Candidate{
		ID:           excludingID,
		Name:         strings.TrimSpace(input.Name),
		Campaignable: input.Campaignable,
		SchoolWide:   input.SchoolWide,
		Active:       input.Active,
		GoalCents:    input.GoalCents,
	}

	stateID := strings.TrimSpace(input.StateID)
	if stateID == "" {
		return domain.Candidate{}, &apperrors.MissingAssociationError{Field: "state"}
	}
	state, err := s.stores.States.GetState(ctx, stateID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Candidate{}, &apperrors.MissingAssociationError{Field: "state", ID: stateID, Cause: err}
		}
		return domain.Candidate{}, fmt.Errorf("resolve state: %w", err)
	}
	candidate.State = &state

	districtID := strings.TrimSpace(input.DistrictID)
	if districtID == "" {
		return domain.Candidate{}, &apperrors.MissingAssociationError{Field: "district"}
	}
	district, err := s.stores.Districts.GetDistrict(ctx, districtID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Candidate{}, &apperrors.MissingAssociationError{Field: "district", ID: districtID, Cause: err}
		}
		return domain.Candidate{}, fmt.Errorf("resolve district: %w", err)
	}
	candidate.District = &district

	schoolID := strings.TrimSpace(input.SchoolID)
	if schoolID == "" {
		return domain.Candidate{}, &apperrors.MissingAssociationError{Field: "school"}
	}
	school, err := s.stores.Schools.GetSchool(ctx, schoolID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Candidate{}, &apperrors.MissingAssociationError{Field: "school", ID: schoolID, Cause: err}
		}
		return domain.Candidate{}, fmt.Errorf("resolve school: %w", err)
	}
	candidate.School = &school

	// The campaignable target is a normal validation subject, not a
	// required association: an unresolvable target becomes a
	// CAMPAIGNABLE_MISMATCH field error downstream.
	refID := strings.TrimSpace(input.Campaignable.RefID)
	switch input.Campaignable.Kind {
	case domain.CampaignableSchool:
		if refID == "" {
			break
		}
		target, err := s.stores.Schools.GetSchool(ctx, refID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return domain.Candidate{}, fmt.Errorf("resolve campaignable school: %w", err)
		}
		if err == nil {
			candidate.CampaignableSchool = &target
		}
	case domain.CampaignableTeacher:
		if refID == "" {
			break
		}
		target, err := s.stores.Teachers.GetTeacher(ctx, refID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return domain.Candidate{}, fmt.Errorf("resolve campaignable teacher: %w", err)
		}
		if err == nil {
			candidate.CampaignableTeacher = &target
		}
	}

	return candidate, nil
}

// checkUniqueness runs the advisory name/slug uniqueness pre-checks and
// appends failures to verr. The storage indexes stay authoritative.
func (s *Service) checkUniqueness(ctx context.Context, candidate domain.Candidate, verr *apperrors.ValidationError) error {
	if candidate.Name != "" {
		_, err := s.stores.Campaigns.FindCampaignByName(ctx, candidate.Name, candidate.ID)
		switch {
		case err == nil:
			verr.Add("name", apperrors.CodeNameTaken, "campaign name is already in use")
		case !errors.Is(err, storage.ErrNotFound):
			return fmt.Errorf("check name uniqueness: %w", err)
		}
	}

	if candidate.Slug != "" {
		other, err := s.stores.Campaigns.GetCampaignBySlug(ctx, candidate.Slug)
		switch {
		case err == nil:
			if other.ID != candidate.ID {
				verr.Add("slug", apperrors.CodeSlugTaken, "campaign slug is already in use")
			}
		case !errors.Is(err, storage.ErrNotFound):
			return fmt.Errorf("check slug uniqueness: %w", err)
		}
	}
	return nil
}

func (s *Service) slugTaken(ctx context.Context, candidate string) (bool, error) {
	_, err := s.stores.Campaigns.GetCampaignBySlug(ctx, candidate)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	return false, err
}

func mergeChanges(existing domain.Campaign, changes CampaignChanges) CampaignInput {
	merged := CampaignInput{
		Name:         existing.Name,
		StateID:      existing.StateID,
		DistrictID:   existing.DistrictID,
		SchoolID:     existing.SchoolID,
		Campaignable: existing.Campaignable,
		SchoolWide:   &existing.SchoolWide,
		Active:       existing.Active,
		GoalCents:    existing.GoalCents,
	}
	if changes.Name != nil {
		merged.Name = *changes.Name
	}
	if changes.StateID != nil {
		merged.StateID = *changes.StateID
	}
	if changes.DistrictID != nil {
		merged.DistrictID = *changes.DistrictID
	}
	if changes.SchoolID != nil {
		merged.SchoolID = *changes.SchoolID
	}
	if changes.Campaignable != nil {
		merged.Campaignable = *changes.Campaignable
	}
	if changes.SchoolWide != nil {
		merged.SchoolWide = changes.SchoolWide
	}
	if changes.Active != nil {
		merged.Active = *changes.Active
	}
	if changes.GoalCents != nil {
		merged.GoalCents = *changes.GoalCents
	}
	return merged
}

// uniquenessRaceError maps storage constraint violations to retryable
// field errors, or returns nil for unrelated failures.
func uniquenessRaceError(err error) error {
	var verr apperrors.ValidationError
	switch {
	case errors.Is(err, storage.ErrNameTaken):
		verr.Add("name", apperrors.CodeNameTaken, "campaign name is already in use")
	case errors.Is(err, storage.ErrSlugTaken):
		verr.Add("slug", apperrors.CodeSlugTaken, "campaign slug is already in use")
	default:
		return nil
	}
	return &verr
}

func notFound(kind, id string) error {
	return apperrors.WithMetadata(apperrors.CodeNotFound,
		fmt.Sprintf("%s %s not found", kind, id),
		map[string]string{"Kind": kind, "ID": id})
}
