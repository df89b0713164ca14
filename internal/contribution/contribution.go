// Package contribution models donations recorded against a campaign.
// Payment processing is out of scope; only the records exist here, and
// their presence blocks campaign destruction.
package contribution

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/classfund/classfund/internal/errors"
	"github.com/classfund/classfund/internal/platform/id"
)

// Contribution is one recorded donation for a campaign.
type Contribution struct {
	ID               string
	CampaignID       string
	ContributorName  string
	ContributorEmail string
	AmountCents      int64
	CreatedAt        time.Time
}

// CreateContributionInput describes the fields needed to record a donation.
type CreateContributionInput struct {
	CampaignID       string
	ContributorName  string
	ContributorEmail string
	AmountCents      int64
}

// NewContribution creates a contribution record with a generated ID.
func NewContribution(input CreateContributionInput, now func() time.Time, idGenerator func() (string, error)) (Contribution, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	var verr apperrors.ValidationError
	if strings.TrimSpace(input.ContributorName) == "" {
		verr.Add("contributor_name", apperrors.CodeNameRequired, "contributor name is required")
	}
	if input.AmountCents <= 0 {
		verr.Add("amount_cents", apperrors.CodeAmountInvalid, "amount must be greater than zero")
	}
	if err := verr.ErrOrNil(); err != nil {
		return Contribution{}, err
	}

	contributionID, err := idGenerator()
	if err != nil {
		return Contribution{}, fmt.Errorf("generate contribution id: %w", err)
	}

	return Contribution{
		ID:               contributionID,
		CampaignID:       strings.TrimSpace(input.CampaignID),
		ContributorName:  strings.TrimSpace(input.ContributorName),
		ContributorEmail: strings.TrimSpace(input.ContributorEmail),
		AmountCents:      input.AmountCents,
		CreatedAt:        now().UTC(),
	}, nil
}
