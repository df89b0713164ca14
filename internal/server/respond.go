package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	apperrors "github.com/classfund/classfund/internal/errors"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}

// writeError maps domain errors to HTTP responses. Validation failures
// list every field error; a missing association is reported as a caller
// defect, not form feedback.
func writeError(w http.ResponseWriter, err error) {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": verr.Fields,
		})
		return
	}

	var merr *apperrors.MissingAssociationError
	if errors.As(err, &merr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": map[string]string{
				"code":    "MISSING_ASSOCIATION",
				"message": merr.Error(),
				"field":   merr.Field,
				"id":      merr.ID,
			},
		})
		return
	}

	var derr *apperrors.Error
	if errors.As(err, &derr) {
		body := map[string]any{
			"code":    derr.Code,
			"message": derr.Message,
		}
		if len(derr.Metadata) > 0 {
			body["metadata"] = derr.Metadata
		}
		writeJSON(w, derr.Code.HTTPStatus(), map[string]any{"error": body})
		return
	}

	log.Printf("internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"error": map[string]string{
			"code":    string(apperrors.CodeUnknown),
			"message": "internal error",
		},
	})
}

// notFoundError builds a NOT_FOUND domain error for a missing record.
func notFoundError(kind, id string) error {
	return apperrors.WithMetadata(
		apperrors.CodeNotFound,
		fmt.Sprintf("%s %s not found", kind, id),
		map[string]string{"ID": id},
	)
}

// isCode reports whether err is a domain error with the given code.
func isCode(err error, code apperrors.Code) bool {
	var derr *apperrors.Error
	return errors.As(err, &derr) && derr.Code == code
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// writeBadRequest reports a malformed request body.
func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]string{
			"code":    "BAD_REQUEST",
			"message": err.Error(),
		},
	})
}
