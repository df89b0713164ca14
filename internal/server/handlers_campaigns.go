package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/classfund/classfund/internal/campaign/domain"
	campaignservice "github.com/classfund/classfund/internal/campaign/service"
	apperrors "github.com/classfund/classfund/internal/errors"
)

type campaignableRequest struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

type campaignRequest struct {
	Name         string               `json:"name"`
	StateID      string               `json:"state_id"`
	DistrictID   string               `json:"district_id"`
	SchoolID     string               `json:"school_id"`
	Campaignable *campaignableRequest `json:"campaignable"`
	SchoolWide   *bool                `json:"school_wide"`
	Active       bool                 `json:"active"`
	GoalCents    int64                `json:"goal_cents"`
}

func (r campaignRequest) toInput() campaignservice.CampaignInput {
	input := campaignservice.CampaignInput{
		Name:       r.Name,
		StateID:    r.StateID,
		DistrictID: r.DistrictID,
		SchoolID:   r.SchoolID,
		SchoolWide: r.SchoolWide,
		Active:     r.Active,
		GoalCents:  r.GoalCents,
	}
	if r.Campaignable != nil {
		input.Campaignable = domain.Campaignable{
			Kind:  domain.ParseCampaignableKind(r.Campaignable.Kind),
			RefID: r.Campaignable.ID,
		}
	}
	return input
}

type campaignPatch struct {
	Name         *string              `json:"name"`
	StateID      *string              `json:"state_id"`
	DistrictID   *string              `json:"district_id"`
	SchoolID     *string              `json:"school_id"`
	Campaignable *campaignableRequest `json:"campaignable"`
	SchoolWide   *bool                `json:"school_wide"`
	Active       *bool                `json:"active"`
	GoalCents    *int64               `json:"goal_cents"`
}

func (p campaignPatch) toChanges() campaignservice.CampaignChanges {
	changes := campaignservice.CampaignChanges{
		Name:       p.Name,
		StateID:    p.StateID,
		DistrictID: p.DistrictID,
		SchoolID:   p.SchoolID,
		SchoolWide: p.SchoolWide,
		Active:     p.Active,
		GoalCents:  p.GoalCents,
	}
	if p.Campaignable != nil {
		changes.Campaignable = &domain.Campaignable{
			Kind:  domain.ParseCampaignableKind(p.Campaignable.Kind),
			RefID: p.Campaignable.ID,
		}
	}
	return changes
}

func (h *handlers) listCampaigns(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	pageSize := 0
	if raw := query.Get("page_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeBadRequest(w, errors.New("page_size must be an integer"))
			return
		}
		pageSize = parsed
	}

	page, err := h.campaigns.ListCampaigns(r.Context(), query.Get("filter"), pageSize, query.Get("page_token"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"campaigns":       toCampaignResponses(page.Campaigns),
		"next_page_token": page.NextPageToken,
	})
}

func (h *handlers) createCampaign(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	campaign, err := h.campaigns.CreateCampaign(r.Context(), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCampaignResponse(campaign))
}

// validateCampaign runs the full consistency check without persisting,
// so the admin UI can surface every field failure before submit.
func (h *handlers) validateCampaign(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := h.campaigns.ValidateCampaign(r.Context(), req.toInput()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

// getCampaign accepts either a campaign ID or its public slug.
func (h *handlers) getCampaign(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("id")
	campaign, err := h.campaigns.GetCampaign(r.Context(), ref)
	if err != nil && isCode(err, apperrors.CodeNotFound) {
		campaign, err = h.campaigns.GetCampaignBySlug(r.Context(), ref)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCampaignResponse(campaign))
}

func (h *handlers) updateCampaign(w http.ResponseWriter, r *http.Request) {
	var req campaignPatch
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	campaign, err := h.campaigns.UpdateCampaign(r.Context(), r.PathValue("id"), req.toChanges())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCampaignResponse(campaign))
}

func (h *handlers) destroyCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.campaigns.DestroyCampaign(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
