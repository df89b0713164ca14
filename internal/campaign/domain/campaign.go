// Package domain models fundraising campaigns and the consistency rules
// that keep their geographic and organizational associations aligned.
package domain

import (
	"strings"
	"time"
)

// CampaignableKind tags which kind of target a campaign raises funds for.
type CampaignableKind int

const (
	// CampaignableUnspecified represents an invalid campaignable kind.
	CampaignableUnspecified CampaignableKind = iota
	// CampaignableSchool targets a whole school.
	CampaignableSchool
	// CampaignableTeacher targets a single teacher's classroom.
	CampaignableTeacher
)

// Label returns the stable storage/API label for the kind.
func (k CampaignableKind) Label() string {
	switch k {
	case CampaignableSchool:
		return "school"
	case CampaignableTeacher:
		return "teacher"
	default:
		return "unspecified"
	}
}

// ParseCampaignableKind maps a label back to its kind.
func ParseCampaignableKind(label string) CampaignableKind {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "school":
		return CampaignableSchool
	case "teacher":
		return CampaignableTeacher
	default:
		return CampaignableUnspecified
	}
}

// Campaignable references the fundraising target: a school or a teacher.
type Campaignable struct {
	Kind  CampaignableKind
	RefID string
}

// IsZero reports whether no target was supplied.
func (c Campaignable) IsZero() bool {
	return c.Kind == CampaignableUnspecified && strings.TrimSpace(c.RefID) == ""
}

// Campaign is a fundraising campaign attached to a school or teacher
// within the state/district/school hierarchy.
type Campaign struct {
	ID   string
	Slug string
	Name string
	// StateID, DistrictID, and SchoolID must nest consistently; the
	// validator enforces district.state == state and
	// school.district == district.
	StateID      string
	DistrictID   string
	SchoolID     string
	Campaignable Campaignable
	// SchoolWide indicates the campaign benefits the whole school rather
	// than one classroom. When true the campaignable must be the
	// campaign's own school; when false it must be a teacher of that
	// school.
	SchoolWide bool
	Active     bool
	GoalCents  int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
