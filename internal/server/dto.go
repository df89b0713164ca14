package server

import (
	"time"

	"github.com/classfund/classfund/internal/campaign/domain"
	"github.com/classfund/classfund/internal/contribution"
	"github.com/classfund/classfund/internal/faculty"
	"github.com/classfund/classfund/internal/hierarchy"
)

type stateResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Abbr      string    `json:"abbr"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toStateResponse(s hierarchy.State) stateResponse {
	return stateResponse{
		ID:        s.ID,
		Name:      s.Name,
		Abbr:      s.Abbr,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type districtResponse struct {
	ID        string    `json:"id"`
	StateID   string    `json:"state_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toDistrictResponse(d hierarchy.District) districtResponse {
	return districtResponse{
		ID:        d.ID,
		StateID:   d.StateID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type schoolResponse struct {
	ID         string    `json:"id"`
	DistrictID string    `json:"district_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toSchoolResponse(s hierarchy.School) schoolResponse {
	return schoolResponse{
		ID:         s.ID,
		DistrictID: s.DistrictID,
		Name:       s.Name,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

type teacherResponse struct {
	ID        string    `json:"id"`
	SchoolID  string    `json:"school_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toTeacherResponse(t faculty.Teacher) teacherResponse {
	return teacherResponse{
		ID:        t.ID,
		SchoolID:  t.SchoolID,
		FirstName: t.FirstName,
		LastName:  t.LastName,
		FullName:  t.FullName(),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

type campaignableResponse struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

type campaignResponse struct {
	ID           string               `json:"id"`
	Slug         string               `json:"slug"`
	Name         string               `json:"name"`
	StateID      string               `json:"state_id"`
	DistrictID   string               `json:"district_id"`
	SchoolID     string               `json:"school_id"`
	Campaignable campaignableResponse `json:"campaignable"`
	SchoolWide   bool                 `json:"school_wide"`
	Active       bool                 `json:"active"`
	GoalCents    int64                `json:"goal_cents"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func toCampaignResponse(c domain.Campaign) campaignResponse {
	return campaignResponse{
		ID:         c.ID,
		Slug:       c.Slug,
		Name:       c.Name,
		StateID:    c.StateID,
		DistrictID: c.DistrictID,
		SchoolID:   c.SchoolID,
		Campaignable: campaignableResponse{
			Kind: c.Campaignable.Kind.Label(),
			ID:   c.Campaignable.RefID,
		},
		SchoolWide: c.SchoolWide,
		Active:     c.Active,
		GoalCents:  c.GoalCents,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func toCampaignResponses(campaigns []domain.Campaign) []campaignResponse {
	out := make([]campaignResponse, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, toCampaignResponse(c))
	}
	return out
}

type contributionResponse struct {
	ID               string    `json:"id"`
	CampaignID       string    `json:"campaign_id"`
	ContributorName  string    `json:"contributor_name"`
	ContributorEmail string    `json:"contributor_email,omitempty"`
	AmountCents      int64     `json:"amount_cents"`
	CreatedAt        time.Time `json:"created_at"`
}

func toContributionResponse(c contribution.Contribution) contributionResponse {
	return contributionResponse{
		ID:               c.ID,
		CampaignID:       c.CampaignID,
		ContributorName:  c.ContributorName,
		ContributorEmail: c.ContributorEmail,
		AmountCents:      c.AmountCents,
		CreatedAt:        c.CreatedAt,
	}
}
