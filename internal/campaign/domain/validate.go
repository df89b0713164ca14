package domain

import (
	"fmt"
	"strings"

	apperrors "github.com/classfund/classfund/internal/errors"
	"github.com/classfund/classfund/internal/faculty"
	"github.com/classfund/classfund/internal/hierarchy"
)

// Candidate carries a campaign write with its associations already
// resolved to records. The validator is a pure function over this
// struct: it performs no I/O, so the caller (the campaign service)
// resolves every reference first and reports unresolvable required
// associations as MissingAssociationError before validation runs.
type Candidate struct {
	// ID is empty on create; on update it excludes the record itself
	// from uniqueness comparisons.
	ID   string
	Name string
	// Slug is empty before generation; when set it is checked for
	// continued uniqueness by the service, never regenerated.
	Slug     string
	State    *hierarchy.State
	District *hierarchy.District
	School   *hierarchy.School
	// Campaignable is the raw target reference; exactly one of
	// CampaignableSchool / CampaignableTeacher is set when it resolved.
	Campaignable        Campaignable
	CampaignableSchool  *hierarchy.School
	CampaignableTeacher *faculty.Teacher
	// SchoolWide is a pointer so an omitted boolean is distinguishable
	// from an explicit false.
	SchoolWide *bool
	Active     bool
	GoalCents  int64
}

// Validate runs every consistency check and collects all failures; it
// never stops at the first one. Required associations (state, district,
// school) are the caller's responsibility to resolve, so a nil parent
// here only suppresses the dependent consistency checks that would
// otherwise dereference it.
func Validate(c Candidate) *apperrors.ValidationError {
	var verr apperrors.ValidationError

	if strings.TrimSpace(c.Name) == "" {
		verr.Add("name", apperrors.CodeNameRequired, "campaign name is required")
	}

	if c.State != nil && c.District != nil && c.District.StateID != c.State.ID {
		verr.Add("district", apperrors.CodeDistrictStateMismatch,
			fmt.Sprintf("district %s belongs to another state", c.District.Name))
	}
	if c.District != nil && c.School != nil && c.School.DistrictID != c.District.ID {
		verr.Add("school", apperrors.CodeSchoolDistrictMismatch,
			fmt.Sprintf("school %s belongs to another district", c.School.Name))
	}

	if c.SchoolWide == nil {
		verr.Add("school_wide", apperrors.CodeSchoolWideRequired, "school_wide must be set")
	}

	if c.Campaignable.IsZero() {
		verr.Add("campaignable", apperrors.CodeCampaignableRequired, "campaign target is required")
	} else if c.SchoolWide != nil {
		validateCampaignable(c, &verr)
	}

	return &verr
}

// validateCampaignable checks the target against the candidate's own
// school. Consistency is always evaluated relative to the candidate's
// school, so a teacher who is valid in isolation still fails when they
// teach at a different school.
func validateCampaignable(c Candidate, verr *apperrors.ValidationError) {
	if *c.SchoolWide {
		if c.Campaignable.Kind != CampaignableSchool {
			verr.Add("campaignable", apperrors.CodeCampaignableMismatch,
				"a school-wide campaign must target its school")
			return
		}
		if c.CampaignableSchool == nil {
			verr.Add("campaignable", apperrors.CodeCampaignableMismatch,
				"campaign target references a missing school")
			return
		}
		if c.School != nil && c.CampaignableSchool.ID != c.School.ID {
			verr.Add("campaignable", apperrors.CodeCampaignableMismatch,
				"a school-wide campaign must target its own school")
		}
		return
	}

	if c.Campaignable.Kind != CampaignableTeacher {
		verr.Add("campaignable", apperrors.CodeCampaignableMismatch,
			"a classroom campaign must target a teacher")
		return
	}
	if c.CampaignableTeacher == nil {
		verr.Add("campaignable", apperrors.CodeCampaignableMismatch,
			"campaign target references a missing teacher")
		return
	}
	if c.School != nil && c.CampaignableTeacher.SchoolID != c.School.ID {
		verr.Add("campaignable", apperrors.CodeCampaignableMismatch,
			fmt.Sprintf("teacher %s belongs to another school", c.CampaignableTeacher.FullName()))
	}
}

// CheckDestroy is the destroy-guard precondition. It is called by the
// lifecycle controller before the storage delete, and re-checked inside
// the store's delete transaction to close the guard race.
func CheckDestroy(c Campaign, contributionCount int) error {
	if c.Active {
		return apperrors.WithMetadata(apperrors.CodeCampaignActive,
			"an active campaign cannot be destroyed",
			map[string]string{"CampaignID": c.ID})
	}
	if contributionCount > 0 {
		return apperrors.WithMetadata(apperrors.CodeCampaignHasContributions,
			fmt.Sprintf("campaign has %d contributions and cannot be destroyed", contributionCount),
			map[string]string{"CampaignID": c.ID})
	}
	return nil
}
