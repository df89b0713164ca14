package contribution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/classfund/classfund/internal/campaign/domain"
	apperrors "github.com/classfund/classfund/internal/errors"
	"github.com/classfund/classfund/internal/platform/id"
	"github.com/classfund/classfund/internal/storage"
)

// ContributionStore persists contribution records.
type ContributionStore interface {
	CreateContribution(ctx context.Context, c Contribution) error
	ListContributions(ctx context.Context, campaignID string) ([]Contribution, error)
	CountContributions(ctx context.Context, campaignID string) (int, error)
}

// CampaignGetter resolves the campaign a contribution attaches to.
type CampaignGetter interface {
	GetCampaign(ctx context.Context, id string) (domain.Campaign, error)
}

// Service records contributions and answers existence queries for the
// campaign destroy guard.
type Service struct {
	contributions ContributionStore
	campaigns     CampaignGetter
	clock         func() time.Time
	idGenerator   func() (string, error)
}

// NewService creates a contribution service with default dependencies.
func NewService(contributions ContributionStore, campaigns CampaignGetter) *Service {
	return &Service{
		contributions: contributions,
		campaigns:     campaigns,
		clock:         time.Now,
		idGenerator:   id.NewID,
	}
}

// WithClock overrides the clock, for tests.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// Record validates and persists one contribution for an existing campaign.
func (s *Service) Record(ctx context.Context, input CreateContributionInput) (Contribution, error) {
	if _, err := s.campaigns.GetCampaign(ctx, input.CampaignID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Contribution{}, apperrors.WithMetadata(apperrors.CodeNotFound,
				fmt.Sprintf("campaign %s not found", input.CampaignID),
				map[string]string{"Kind": "campaign", "ID": input.CampaignID})
		}
		return Contribution{}, fmt.Errorf("load campaign: %w", err)
	}

	record, err := NewContribution(input, s.clock, s.idGenerator)
	if err != nil {
		return Contribution{}, err
	}
	if err := s.contributions.CreateContribution(ctx, record); err != nil {
		return Contribution{}, fmt.Errorf("persist contribution: %w", err)
	}
	return record, nil
}

// List returns all contributions for a campaign, newest first.
func (s *Service) List(ctx context.Context, campaignID string) ([]Contribution, error) {
	return s.contributions.ListContributions(ctx, campaignID)
}

// CountForCampaign reports how many contributions a campaign has.
func (s *Service) CountForCampaign(ctx context.Context, campaignID string) (int, error) {
	return s.contributions.CountContributions(ctx, campaignID)
}
