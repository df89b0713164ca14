package server

import (
	"fmt"
	"net/http"

	"github.com/classfund/classfund/internal/campaign/domain"
	"github.com/classfund/classfund/internal/contribution"
)

type landingResponse struct {
	Campaign          campaignResponse `json:"campaign"`
	School            *schoolResponse  `json:"school,omitempty"`
	Teacher           *teacherResponse `json:"teacher,omitempty"`
	ContributionCount int              `json:"contribution_count"`
}

// campaignLanding serves the public campaign page payload. Hierarchy
// lookups are best-effort: a missing school or teacher record hides that
// section rather than breaking the page.
func (h *handlers) campaignLanding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	campaign, err := h.campaigns.GetCampaignBySlug(ctx, r.PathValue("slug"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := landingResponse{Campaign: toCampaignResponse(campaign)}
	if school, err := h.hierarchy.GetSchool(ctx, campaign.SchoolID); err == nil {
		resp := toSchoolResponse(school)
		out.School = &resp
	}
	if campaign.Campaignable.Kind == domain.CampaignableTeacher {
		if teacher, err := h.faculty.GetTeacher(ctx, campaign.Campaignable.RefID); err == nil {
			resp := toTeacherResponse(teacher)
			out.Teacher = &resp
		}
	}

	count, err := h.contributions.CountForCampaign(ctx, campaign.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	out.ContributionCount = count

	writeJSON(w, http.StatusOK, out)
}

type contributionRequest struct {
	ContributorName  string `json:"contributor_name"`
	ContributorEmail string `json:"contributor_email"`
	AmountCents      int64  `json:"amount_cents"`
}

func (h *handlers) recordContribution(w http.ResponseWriter, r *http.Request) {
	campaign, err := h.campaigns.GetCampaignBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req contributionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	recorded, err := h.contributions.Record(r.Context(), contribution.CreateContributionInput{
		CampaignID:       campaign.ID,
		ContributorName:  req.ContributorName,
		ContributorEmail: req.ContributorEmail,
		AmountCents:      req.AmountCents,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toContributionResponse(recorded))
}

func (h *handlers) apiListDistricts(w http.ResponseWriter, r *http.Request) {
	districts, err := h.hierarchy.ListDistricts(r.Context(), "")
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]districtResponse, 0, len(districts))
	for _, d := range districts {
		out = append(out, toDistrictResponse(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"districts": out})
}

func (h *handlers) apiListSchools(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	district, err := h.hierarchy.GetDistrict(ctx, r.PathValue("district_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	schools, err := h.hierarchy.ListSchools(ctx, district.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]schoolResponse, 0, len(schools))
	for _, s := range schools {
		out = append(out, toSchoolResponse(s))
	}
	writeJSON(w, http.StatusOK, map[string]any{"schools": out})
}

func (h *handlers) apiListCampaigns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	school, err := h.hierarchy.GetSchool(ctx, r.PathValue("school_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if school.DistrictID != r.PathValue("district_id") {
		writeError(w, notFoundError("school", r.PathValue("school_id")))
		return
	}

	filter := fmt.Sprintf("school_id = %q", school.ID)
	page, err := h.campaigns.ListCampaigns(ctx, filter, 0, r.URL.Query().Get("page_token"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"campaigns":       toCampaignResponses(page.Campaigns),
		"next_page_token": page.NextPageToken,
	})
}
