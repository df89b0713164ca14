package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeNameTaken, "campaign name already in use")
	if !stderrors.Is(err, New(CodeNameTaken, "other message")) {
		t.Fatal("expected errors with the same code to match")
	}
	if stderrors.Is(err, New(CodeSlugTaken, "campaign name already in use")) {
		t.Fatal("expected errors with different codes to not match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(CodeUnknown, "persist campaign", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be found")
	}
}

func TestValidationErrorAccumulates(t *testing.T) {
	var verr ValidationError
	if !verr.Valid() {
		t.Fatal("expected empty validation error to be valid")
	}
	if verr.ErrOrNil() != nil {
		t.Fatal("expected nil for valid result")
	}

	verr.Add("district", CodeDistrictStateMismatch, "district belongs to another state")
	verr.Add("school", CodeSchoolDistrictMismatch, "school belongs to another district")

	if verr.Valid() {
		t.Fatal("expected invalid after adding fields")
	}
	if !verr.HasCode(CodeDistrictStateMismatch) {
		t.Fatal("expected DISTRICT_STATE_MISMATCH to be recorded")
	}
	if !verr.HasCode(CodeSchoolDistrictMismatch) {
		t.Fatal("expected SCHOOL_DISTRICT_MISMATCH to be recorded")
	}
	if verr.HasCode(CodeNameTaken) {
		t.Fatal("did not expect NAME_TAKEN")
	}
	msg := verr.Error()
	if !strings.Contains(msg, "district: DISTRICT_STATE_MISMATCH") {
		t.Fatalf("unexpected message: %s", msg)
	}
}

func TestMissingAssociationErrorMessage(t *testing.T) {
	err := &MissingAssociationError{Field: "state", ID: "abc"}
	if !strings.Contains(err.Error(), "state") || !strings.Contains(err.Error(), "abc") {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNameTaken, http.StatusUnprocessableEntity},
		{CodeDistrictStateMismatch, http.StatusUnprocessableEntity},
		{CodeDuplicateTeacher, http.StatusUnprocessableEntity},
		{CodeCampaignActive, http.StatusConflict},
		{CodeCampaignHasContributions, http.StatusConflict},
		{CodeNotFound, http.StatusNotFound},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.code.HTTPStatus(); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.code, tt.want, got)
		}
	}
}
