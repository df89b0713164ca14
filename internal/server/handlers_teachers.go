package server

import (
	"net/http"

	"github.com/classfund/classfund/internal/faculty"
)

type teacherRequest struct {
	SchoolID  string `json:"school_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type teacherPatch struct {
	SchoolID  *string `json:"school_id"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

func (h *handlers) listTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.faculty.ListTeachers(r.Context(), r.URL.Query().Get("school_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]teacherResponse, 0, len(teachers))
	for _, t := range teachers {
		out = append(out, toTeacherResponse(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"teachers": out})
}

func (h *handlers) createTeacher(w http.ResponseWriter, r *http.Request) {
	var req teacherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	teacher, err := h.faculty.CreateTeacher(r.Context(), faculty.CreateTeacherInput{
		SchoolID:  req.SchoolID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTeacherResponse(teacher))
}

func (h *handlers) getTeacher(w http.ResponseWriter, r *http.Request) {
	teacher, err := h.faculty.GetTeacher(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTeacherResponse(teacher))
}

func (h *handlers) updateTeacher(w http.ResponseWriter, r *http.Request) {
	var req teacherPatch
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	teacher, err := h.faculty.UpdateTeacher(r.Context(), r.PathValue("id"), faculty.TeacherChanges{
		SchoolID:  req.SchoolID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTeacherResponse(teacher))
}

func (h *handlers) deleteTeacher(w http.ResponseWriter, r *http.Request) {
	if err := h.faculty.DeleteTeacher(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
