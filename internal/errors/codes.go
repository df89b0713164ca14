// Package errors provides structured error handling with stable codes.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Campaign validation errors
	CodeNameRequired           Code = "NAME_REQUIRED"
	CodeNameTaken              Code = "NAME_TAKEN"
	CodeSlugTaken              Code = "SLUG_TAKEN"
	CodeDistrictStateMismatch  Code = "DISTRICT_STATE_MISMATCH"
	CodeSchoolDistrictMismatch Code = "SCHOOL_DISTRICT_MISMATCH"
	CodeCampaignableRequired   Code = "CAMPAIGNABLE_REQUIRED"
	CodeCampaignableMismatch   Code = "CAMPAIGNABLE_MISMATCH"
	CodeSchoolWideRequired     Code = "SCHOOL_WIDE_REQUIRED"

	// Teacher validation errors
	CodeFirstNameRequired Code = "FIRST_NAME_REQUIRED"
	CodeLastNameRequired  Code = "LAST_NAME_REQUIRED"
	CodeSchoolRequired    Code = "SCHOOL_REQUIRED"
	CodeDuplicateTeacher  Code = "DUPLICATE_TEACHER"

	// Hierarchy validation errors
	CodeStateRequired    Code = "STATE_REQUIRED"
	CodeDistrictRequired Code = "DISTRICT_REQUIRED"
	CodeAbbrRequired     Code = "ABBR_REQUIRED"

	// Contribution validation errors
	CodeAmountInvalid Code = "AMOUNT_INVALID"

	// Destroy guard errors
	CodeCampaignActive           Code = "CAMPAIGN_ACTIVE"
	CodeCampaignHasContributions Code = "CAMPAIGN_HAS_CONTRIBUTIONS"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Request errors
	CodeInvalidFilter Code = "INVALID_FILTER"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Unprocessable input - validation failures
	case CodeNameRequired,
		CodeNameTaken,
		CodeSlugTaken,
		CodeDistrictStateMismatch,
		CodeSchoolDistrictMismatch,
		CodeCampaignableRequired,
		CodeCampaignableMismatch,
		CodeSchoolWideRequired,
		CodeFirstNameRequired,
		CodeLastNameRequired,
		CodeSchoolRequired,
		CodeStateRequired,
		CodeDistrictRequired,
		CodeAbbrRequired,
		CodeAmountInvalid,
		CodeDuplicateTeacher:
		return http.StatusUnprocessableEntity

	// Conflict - record state disallows the operation
	case CodeCampaignActive,
		CodeCampaignHasContributions:
		return http.StatusConflict

	case CodeNotFound:
		return http.StatusNotFound

	case CodeInvalidFilter:
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
