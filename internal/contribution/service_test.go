package contribution

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/classfund/classfund/internal/campaign/domain"
	apperrors "github.com/classfund/classfund/internal/errors"
	"github.com/classfund/classfund/internal/storage"
)

var contributionTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// fakeContributionStore is an in-memory ContributionStore plus the
// campaign lookup the recording path resolves against.
type fakeContributionStore struct {
	campaigns     map[string]domain.Campaign
	contributions []Contribution
}

func newFakeContributionStore() *fakeContributionStore {
	return &fakeContributionStore{campaigns: map[string]domain.Campaign{}}
}

func (f *fakeContributionStore) GetCampaign(_ context.Context, id string) (domain.Campaign, error) {
	c, ok := f.campaigns[id]
	if !ok {
		return domain.Campaign{}, storage.ErrNotFound
	}
	return c, nil
}

func (f *fakeContributionStore) CreateContribution(_ context.Context, c Contribution) error {
	f.contributions = append(f.contributions, c)
	return nil
}

func (f *fakeContributionStore) ListContributions(_ context.Context, campaignID string) ([]Contribution, error) {
	var out []Contribution
	for _, c := range f.contributions {
		if c.CampaignID == campaignID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContributionStore) CountContributions(_ context.Context, campaignID string) (int, error) {
	count := 0
	for _, c := range f.contributions {
		if c.CampaignID == campaignID {
			count++
		}
	}
	return count, nil
}

func newTestContributionService(f *fakeContributionStore) *Service {
	f.campaigns["campaign-1"] = domain.Campaign{ID: "campaign-1", Slug: "library-fund", Name: "Library Fund", Active: true}
	return NewService(f, f).WithClock(func() time.Time { return contributionTime })
}

func TestRecordContribution(t *testing.T) {
	f := newFakeContributionStore()
	svc := newTestContributionService(f)

	record, err := svc.Record(context.Background(), CreateContributionInput{
		CampaignID:       "campaign-1",
		ContributorName:  " Jane Doe ",
		ContributorEmail: "jane@example.com",
		AmountCents:      2500,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if record.ContributorName != "Jane Doe" {
		t.Errorf("ContributorName = %q, want Jane Doe", record.ContributorName)
	}
	if !record.CreatedAt.Equal(contributionTime) {
		t.Errorf("CreatedAt = %v, want %v", record.CreatedAt, contributionTime)
	}

	count, err := svc.CountForCampaign(context.Background(), "campaign-1")
	if err != nil {
		t.Fatalf("CountForCampaign: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestRecordContributionMissingCampaign(t *testing.T) {
	f := newFakeContributionStore()
	svc := newTestContributionService(f)

	_, err := svc.Record(context.Background(), CreateContributionInput{
		CampaignID:      "campaign-missing",
		ContributorName: "Jane Doe",
		AmountCents:     2500,
	})
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("Record = %v, want NOT_FOUND", err)
	}
	if len(f.contributions) != 0 {
		t.Error("contribution persisted for a missing campaign")
	}
}

func TestRecordContributionInvalidAmount(t *testing.T) {
	f := newFakeContributionStore()
	svc := newTestContributionService(f)

	_, err := svc.Record(context.Background(), CreateContributionInput{
		CampaignID:      "campaign-1",
		ContributorName: "Jane Doe",
		AmountCents:     0,
	})
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) || !verr.HasCode(apperrors.CodeAmountInvalid) {
		t.Fatalf("Record = %v, want AMOUNT_INVALID", err)
	}
	if len(f.contributions) != 0 {
		t.Error("invalid contribution was persisted")
	}
}

func TestListContributionsForCampaign(t *testing.T) {
	f := newFakeContributionStore()
	svc := newTestContributionService(f)
	ctx := context.Background()

	for _, name := range []string{"Jane Doe", "John Roe"} {
		if _, err := svc.Record(ctx, CreateContributionInput{
			CampaignID:      "campaign-1",
			ContributorName: name,
			AmountCents:     1000,
		}); err != nil {
			t.Fatalf("Record %s: %v", name, err)
		}
	}

	records, err := svc.List(ctx, "campaign-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("List = %d records, want 2", len(records))
	}
}
