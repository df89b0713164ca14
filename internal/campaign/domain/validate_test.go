package domain

import (
	"errors"
	"testing"

	apperrors "github.com/classfund/classfund/internal/errors"
	"github.com/classfund/classfund/internal/faculty"
	"github.com/classfund/classfund/internal/hierarchy"
)

var (
	utah       = &hierarchy.State{ID: "st-utah", Name: "Utah", Abbr: "UT"}
	nevada     = &hierarchy.State{ID: "st-nevada", Name: "Nevada", Abbr: "NV"}
	washington = &hierarchy.District{ID: "d-washington", StateID: utah.ID, Name: "Washington County"}
	mojave     = &hierarchy.District{ID: "d-mojave", StateID: nevada.ID, Name: "Mojave County"}
	snowCanyon = &hierarchy.School{ID: "sc-snow-canyon", DistrictID: washington.ID, Name: "Snow Canyon"}
	desertHill = &hierarchy.School{ID: "sc-desert-hills", DistrictID: mojave.ID, Name: "Desert Hills"}
	markH      = &faculty.Teacher{ID: "t-mark", SchoolID: snowCanyon.ID, FirstName: "Mark", LastName: "Holmberg"}
	scottH     = &faculty.Teacher{ID: "t-scott", SchoolID: desertHill.ID, FirstName: "Scott", LastName: "Holmberg"}
)

func boolPtr(v bool) *bool { return &v }

func schoolWideCandidate() Candidate {
	return Candidate{
		Name:               "Snow Canyon Band Trip",
		State:              utah,
		District:           washington,
		School:             snowCanyon,
		Campaignable:       Campaignable{Kind: CampaignableSchool, RefID: snowCanyon.ID},
		CampaignableSchool: snowCanyon,
		SchoolWide:         boolPtr(true),
	}
}

func classroomCandidate() Candidate {
	return Candidate{
		Name:                "Mr. Holmberg's Classroom Library",
		State:               utah,
		District:            washington,
		School:              snowCanyon,
		Campaignable:        Campaignable{Kind: CampaignableTeacher, RefID: markH.ID},
		CampaignableTeacher: markH,
		SchoolWide:          boolPtr(false),
	}
}

func TestValidateConsistentSchoolWideCampaign(t *testing.T) {
	verr := Validate(schoolWideCandidate())
	if !verr.Valid() {
		t.Fatalf("expected valid candidate, got %v", verr.Fields)
	}
}

func TestValidateConsistentClassroomCampaign(t *testing.T) {
	verr := Validate(classroomCandidate())
	if !verr.Valid() {
		t.Fatalf("expected valid candidate, got %v", verr.Fields)
	}
}

func TestValidateRequiresName(t *testing.T) {
	c := schoolWideCandidate()
	c.Name = "  "
	verr := Validate(c)
	if !verr.HasCode(apperrors.CodeNameRequired) {
		t.Fatalf("expected NAME_REQUIRED, got %v", verr.Fields)
	}
}

func TestValidateDistrictStateMismatch(t *testing.T) {
	c := schoolWideCandidate()
	c.District = mojave
	verr := Validate(c)
	if !verr.HasCode(apperrors.CodeDistrictStateMismatch) {
		t.Fatalf("expected DISTRICT_STATE_MISMATCH, got %v", verr.Fields)
	}
}

func TestValidateSchoolDistrictMismatch(t *testing.T) {
	c := schoolWideCandidate()
	c.School = desertHill
	c.Campaignable = Campaignable{Kind: CampaignableSchool, RefID: desertHill.ID}
	c.CampaignableSchool = desertHill
	verr := Validate(c)
	if !verr.HasCode(apperrors.CodeSchoolDistrictMismatch) {
		t.Fatalf("expected SCHOOL_DISTRICT_MISMATCH, got %v", verr.Fields)
	}
}

func TestValidateSchoolWideRequiresOwnSchool(t *testing.T) {
	c := schoolWideCandidate()
	c.Campaignable = Campaignable{Kind: CampaignableSchool, RefID: desertHill.ID}
	c.CampaignableSchool = desertHill
	verr := Validate(c)
	if !verr.HasCode(apperrors.CodeCampaignableMismatch) {
		t.Fatalf("expected CAMPAIGNABLE_MISMATCH, got %v", verr.Fields)
	}
}

func TestValidateSchoolWideRejectsTeacherTarget(t *testing.T) {
	// Even a valid teacher of another school cannot be the target of a
	// school-wide campaign.
	c := schoolWideCandidate()
	c.Campaignable = Campaignable{Kind: CampaignableTeacher, RefID: scottH.ID}
	c.CampaignableSchool = nil
	c.CampaignableTeacher = scottH
	verr := Validate(c)
	if !verr.HasCode(apperrors.CodeCampaignableMismatch) {
		t.Fatalf("expected CAMPAIGNABLE_MISMATCH, got %v", verr.Fields)
	}
}

func TestValidateClassroomRequiresTeacherOfOwnSchool(t *testing.T) {
	c := classroomCandidate()
	c.Campaignable = Campaignable{Kind: CampaignableTeacher, RefID: scottH.ID}
	c.CampaignableTeacher = scottH
	verr := Validate(c)
	if !verr.HasCode(apperrors.CodeCampaignableMismatch) {
		t.Fatalf("expected CAMPAIGNABLE_MISMATCH, got %v", verr.Fields)
	}
}

func TestValidateClassroomRejectsSchoolTarget(t *testing.T) {
	c := classroomCandidate()
	c.Campaignable = Campaignable{Kind: CampaignableSchool, RefID: snowCanyon.ID}
	c.CampaignableTeacher = nil
	c.CampaignableSchool = snowCanyon
	verr := Validate(c)
	if !verr.HasCode(apperrors.CodeCampaignableMismatch) {
		t.Fatalf("expected CAMPAIGNABLE_MISMATCH, got %v", verr.Fields)
	}
}

func TestValidateRequiresCampaignable(t *testing.T) {
	c := schoolWideCandidate()
	c.Campaignable = Campaignable{}
	c.CampaignableSchool = nil
	verr := Validate(c)
	if !verr.HasCode(apperrors.CodeCampaignableRequired) {
		t.Fatalf("expected CAMPAIGNABLE_REQUIRED, got %v", verr.Fields)
	}
}

func TestValidateRequiresSchoolWideFlag(t *testing.T) {
	c := schoolWideCandidate()
	c.SchoolWide = nil
	verr := Validate(c)
	if !verr.HasCode(apperrors.CodeSchoolWideRequired) {
		t.Fatalf("expected SCHOOL_WIDE_REQUIRED, got %v", verr.Fields)
	}
}

func TestValidateAccumulatesFailures(t *testing.T) {
	c := Candidate{
		Name:     "",
		State:    utah,
		District: mojave,
		School:   desertHill,
	}
	verr := Validate(c)
	for _, code := range []apperrors.Code{
		apperrors.CodeNameRequired,
		apperrors.CodeDistrictStateMismatch,
		apperrors.CodeCampaignableRequired,
		apperrors.CodeSchoolWideRequired,
	} {
		if !verr.HasCode(code) {
			t.Errorf("expected %s to be collected, got %v", code, verr.Fields)
		}
	}
}

func TestValidateSuppressesChecksForNilParents(t *testing.T) {
	// A nil parent means the service already reported the missing
	// association; the dependent consistency checks must not fire.
	c := schoolWideCandidate()
	c.State = nil
	c.District = nil
	verr := Validate(c)
	if verr.HasCode(apperrors.CodeDistrictStateMismatch) {
		t.Fatalf("expected district check suppressed, got %v", verr.Fields)
	}
	if verr.HasCode(apperrors.CodeSchoolDistrictMismatch) {
		t.Fatalf("expected school check suppressed, got %v", verr.Fields)
	}
}

func TestCheckDestroyBlocksActiveCampaign(t *testing.T) {
	err := CheckDestroy(Campaign{ID: "c1", Active: true}, 0)
	if !errors.Is(err, apperrors.New(apperrors.CodeCampaignActive, "")) {
		t.Fatalf("expected CAMPAIGN_ACTIVE, got %v", err)
	}
}

func TestCheckDestroyBlocksCampaignWithContributions(t *testing.T) {
	err := CheckDestroy(Campaign{ID: "c1", Active: false}, 2)
	if !errors.Is(err, apperrors.New(apperrors.CodeCampaignHasContributions, "")) {
		t.Fatalf("expected CAMPAIGN_HAS_CONTRIBUTIONS, got %v", err)
	}
}

func TestCheckDestroyAllowsInactiveWithoutContributions(t *testing.T) {
	if err := CheckDestroy(Campaign{ID: "c1"}, 0); err != nil {
		t.Fatalf("expected destroy allowed, got %v", err)
	}
}

func TestCampaignableKindLabels(t *testing.T) {
	tests := []struct {
		label string
		kind  CampaignableKind
	}{
		{"school", CampaignableSchool},
		{"teacher", CampaignableTeacher},
		{"unspecified", CampaignableUnspecified},
	}
	for _, tt := range tests {
		if got := tt.kind.Label(); got != tt.label {
			t.Errorf("kind %d: expected label %q, got %q", tt.kind, tt.label, got)
		}
		if got := ParseCampaignableKind(tt.label); got != tt.kind {
			t.Errorf("label %q: expected kind %d, got %d", tt.label, tt.kind, got)
		}
	}
	if got := ParseCampaignableKind(" Teacher "); got != CampaignableTeacher {
		t.Errorf("expected trimmed case-insensitive parse, got %d", got)
	}
}
