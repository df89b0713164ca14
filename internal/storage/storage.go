// Package storage defines the persistence error sentinels shared by the
// store implementations and the services that consume them. The store
// interfaces themselves live next to their consumers.
package storage

import "errors"

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrNameTaken indicates a case-insensitive name uniqueness violation.
	ErrNameTaken = errors.New("name already taken")
	// ErrSlugTaken indicates a slug uniqueness violation.
	ErrSlugTaken = errors.New("slug already taken")
	// ErrDuplicateTeacher indicates a (first, last) name pair already
	// exists for the same school.
	ErrDuplicateTeacher = errors.New("duplicate teacher for school")
	// ErrCampaignActive indicates the delete transaction found the
	// campaign still active.
	ErrCampaignActive = errors.New("campaign is active")
	// ErrCampaignHasContributions indicates the delete transaction found
	// recorded contributions.
	ErrCampaignHasContributions = errors.New("campaign has contributions")
)
