package server

import (
	"net/http"

	"github.com/classfund/classfund/internal/hierarchy"
)

type stateRequest struct {
	Name string `json:"name"`
	Abbr string `json:"abbr"`
}

func (h *handlers) listStates(w http.ResponseWriter, r *http.Request) {
	states, err := h.hierarchy.ListStates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]stateResponse, 0, len(states))
	for _, s := range states {
		out = append(out, toStateResponse(s))
	}
	writeJSON(w, http.StatusOK, map[string]any{"states": out})
}

func (h *handlers) createState(w http.ResponseWriter, r *http.Request) {
	var req stateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	state, err := h.hierarchy.CreateState(r.Context(), hierarchy.CreateStateInput{
		Name: req.Name,
		Abbr: req.Abbr,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStateResponse(state))
}

func (h *handlers) getState(w http.ResponseWriter, r *http.Request) {
	state, err := h.hierarchy.GetState(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStateResponse(state))
}

func (h *handlers) updateState(w http.ResponseWriter, r *http.Request) {
	var req stateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	state, err := h.hierarchy.UpdateState(r.Context(), r.PathValue("id"), hierarchy.CreateStateInput{
		Name: req.Name,
		Abbr: req.Abbr,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStateResponse(state))
}

func (h *handlers) deleteState(w http.ResponseWriter, r *http.Request) {
	if err := h.hierarchy.DeleteState(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type districtRequest struct {
	StateID string `json:"state_id"`
	Name    string `json:"name"`
}

func (h *handlers) listDistricts(w http.ResponseWriter, r *http.Request) {
	districts, err := h.hierarchy.ListDistricts(r.Context(), r.URL.Query().Get("state_id"))
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

func (h *handlers) createDistrict(w http.ResponseWriter, r *http.Request) {
	var req districtRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	district, err := h.hierarchy.CreateDistrict(r.Context(), hierarchy.CreateDistrictInput{
		StateID: req.StateID,
		Name:    req.Name,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDistrictResponse(district))
}

func (h *handlers) getDistrict(w http.ResponseWriter, r *http.Request) {
	district, err := h.hierarchy.GetDistrict(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDistrictResponse(district))
}

func (h *handlers) updateDistrict(w http.ResponseWriter, r *http.Request) {
	var req districtRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	district, err := h.hierarchy.UpdateDistrict(r.Context(), r.PathValue("id"), hierarchy.CreateDistrictInput{
		StateID: req.StateID,
		Name:    req.Name,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDistrictResponse(district))
}

func (h *handlers) deleteDistrict(w http.ResponseWriter, r *http.Request) {
	if err := h.hierarchy.DeleteDistrict(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type schoolRequest struct {
	DistrictID string `json:"district_id"`
	Name       string `json:"name"`
}

func (h *handlers) listSchools(w http.ResponseWriter, r *http.Request) {
	schools, err := h.hierarchy.ListSchools(r.Context(), r.URL.Query().Get("district_id"))
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

func (h *handlers) createSchool(w http.ResponseWriter, r *http.Request) {
	var req schoolRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	school, err := h.hierarchy.CreateSchool(r.Context(), hierarchy.CreateSchoolInput{
		DistrictID: req.DistrictID,
		Name:       req.Name,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSchoolResponse(school))
}

func (h *handlers) getSchool(w http.ResponseWriter, r *http.Request) {
	school, err := h.hierarchy.GetSchool(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSchoolResponse(school))
}

func (h *handlers) updateSchool(w http.ResponseWriter, r *http.Request) {
	var req schoolRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	school, err := h.hierarchy.UpdateSchool(r.Context(), r.PathValue("id"), hierarchy.CreateSchoolInput{
		DistrictID: req.DistrictID,
		Name:       req.Name,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSchoolResponse(school))
}

func (h *handlers) deleteSchool(w http.ResponseWriter, r *http.Request) {
	if err := h.hierarchy.DeleteSchool(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
