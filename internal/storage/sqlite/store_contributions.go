package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/classfund/classfund/internal/contribution"
)

// CreateContribution inserts one contribution record.
func (s *Store) CreateContribution(ctx context.Context, c contribution.Contribution) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO contributions (id, campaign_id, contributor_name, contributor_email, amount_cents, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.CampaignID,
		c.ContributorName,
		c.ContributorEmail,
		c.AmountCents,
		toMillis(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create contribution: %w", err)
	}
	return nil
}

// ListContributions returns a campaign's contributions, newest first.
func (s *Store) ListContributions(ctx context.Context, campaignID string) ([]contribution.Contribution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, campaign_id, contributor_name, contributor_email, amount_cents, created_at
		 FROM contributions WHERE campaign_id = ? ORDER BY created_at DESC, id DESC`,
		strings.TrimSpace(campaignID),
	)
	if err != nil {
		return nil, fmt.Errorf("list contributions: %w", err)
	}
	defer rows.Close()

	var contributions []contribution.Contribution
	for rows.Next() {
		var c contribution.Contribution
		var createdAt int64
		if err := rows.Scan(&c.ID, &c.CampaignID, &c.ContributorName, &c.ContributorEmail, &c.AmountCents, &createdAt); err != nil {
			return nil, fmt.Errorf("list contributions: %w", err)
		}
		c.CreatedAt = fromMillis(createdAt)
		contributions = append(contributions, c)
	}
	return contributions, rows.Err()
}

// CountContributions returns the number of contributions recorded for a
// campaign.
func (s *Store) CountContributions(ctx context.Context, campaignID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM contributions WHERE campaign_id = ?`,
		strings.TrimSpace(campaignID),
	)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count contributions: %w", err)
	}
	return count, nil
}
