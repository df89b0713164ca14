package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/classfund/classfund/internal/campaign/domain"
	"github.com/classfund/classfund/internal/storage"
	storagefilter "github.com/classfund/classfund/internal/storage/filter"
)

const campaignColumns = `id, slug, name, state_id, district_id, school_id,
	campaignable_kind, campaignable_id, school_wide, active, goal_cents,
	created_at, updated_at`

// CreateCampaign inserts one campaign record. Name and slug uniqueness
// violations surface as storage.ErrNameTaken and storage.ErrSlugTaken.
func (s *Store) CreateCampaign(ctx context.Context, campaign domain.Campaign) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO campaigns (`+campaignColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		campaign.ID,
		campaign.Slug,
		campaign.Name,
		campaign.StateID,
		campaign.DistrictID,
		campaign.SchoolID,
		campaign.Campaignable.Kind.Label(),
		campaign.Campaignable.RefID,
		boolToInt(campaign.SchoolWide),
		boolToInt(campaign.Active),
		campaign.GoalCents,
		toMillis(campaign.CreatedAt),
		toMillis(campaign.UpdatedAt),
	)
	if err != nil {
		if unique := classifyUniqueViolation(err); unique != nil {
			return unique
		}
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

// GetCampaign returns one campaign by ID.
func (s *Store) GetCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return domain.Campaign{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = ?`,
		strings.TrimSpace(id),
	)
	return scanCampaignRow(row, "get campaign")
}

// GetCampaignBySlug returns one campaign by its public slug.
func (s *Store) GetCampaignBySlug(ctx context.Context, slug string) (domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return domain.Campaign{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE slug = ?`,
		strings.TrimSpace(slug),
	)
	return scanCampaignRow(row, "get campaign by slug")
}

// FindCampaignByName looks up a campaign by case-insensitive name,
// excluding excludingID. The name column collates NOCASE.
func (s *Store) FindCampaignByName(ctx context.Context, name, excludingID string) (domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return domain.Campaign{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE name = ? AND id != ?`,
		strings.TrimSpace(name),
		excludingID,
	)
	return scanCampaignRow(row, "find campaign by name")
}

// ListCampaigns returns one page of campaigns ordered by ID, plus the
// token for the next page. The page token is the last ID of the previous
// page; an extra row is fetched to decide whether a next page exists.
func (s *Store) ListCampaigns(ctx context.Context, filter storagefilter.CampaignFilter, pageSize int, pageToken string) ([]domain.Campaign, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	var conditions []string
	var args []any
	if clause := strings.TrimSpace(filter.Clause); clause != "" {
		conditions = append(conditions, "("+clause+")")
		args = append(args, filter.Params...)
	}
	if pageToken != "" {
		conditions = append(conditions, "id > ?")
		args = append(args, pageToken)
	}

	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id ASC LIMIT ?"
	args = append(args, pageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, "", fmt.Errorf("list campaigns: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("list campaigns: %w", err)
	}

	if len(campaigns) > pageSize {
		return campaigns[:pageSize], campaigns[pageSize-1].ID, nil
	}
	return campaigns, "", nil
}

// UpdateCampaign replaces one campaign record. The slug is immutable and
// not part of the update.
func (s *Store) UpdateCampaign(ctx context.Context, campaign domain.Campaign) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE campaigns SET name = ?, state_id = ?, district_id = ?, school_id = ?,
		 campaignable_kind = ?, campaignable_id = ?, school_wide = ?, active = ?,
		 goal_cents = ?, updated_at = ?
		 WHERE id = ?`,
		campaign.Name,
		campaign.StateID,
		campaign.DistrictID,
		campaign.SchoolID,
		campaign.Campaignable.Kind.Label(),
		campaign.Campaignable.RefID,
		boolToInt(campaign.SchoolWide),
		boolToInt(campaign.Active),
		campaign.GoalCents,
		toMillis(campaign.UpdatedAt),
		campaign.ID,
	)
	if err != nil {
		if unique := classifyUniqueViolation(err); unique != nil {
			return unique
		}
		return fmt.Errorf("update campaign: %w", err)
	}
	return requireRow(result, "update campaign")
}

// DeleteCampaign removes one campaign. The destroy guard is re-checked
// inside the delete statement itself so a concurrent activation or
// contribution cannot slip past the service-level check.
func (s *Store) DeleteCampaign(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM campaigns
		 WHERE id = ?
		   AND active = 0
		   AND NOT EXISTS (SELECT 1 FROM contributions WHERE campaign_id = ?)`,
		id, id,
	)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Nothing deleted. Diagnose which guard blocked it.
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT active,
		        EXISTS (SELECT 1 FROM contributions WHERE campaign_id = ?)
		 FROM campaigns WHERE id = ?`,
		id, id,
	)
	var active, hasContributions int
	if err := row.Scan(&active, &hasContributions); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("delete campaign: %w", err)
	}
	if active != 0 {
		return storage.ErrCampaignActive
	}
	if hasContributions != 0 {
		return storage.ErrCampaignHasContributions
	}
	// Deleted by a concurrent call between the two statements.
	return storage.ErrNotFound
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (domain.Campaign, error) {
	var campaign domain.Campaign
	var kind string
	var schoolWide, active int
	var createdAt, updatedAt int64
	err := row.Scan(
		&campaign.ID,
		&campaign.Slug,
		&campaign.Name,
		&campaign.StateID,
		&campaign.DistrictID,
		&campaign.SchoolID,
		&kind,
		&campaign.Campaignable.RefID,
		&schoolWide,
		&active,
		&campaign.GoalCents,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Campaign{}, err
	}
	campaign.Campaignable.Kind = domain.ParseCampaignableKind(kind)
	campaign.SchoolWide = schoolWide != 0
	campaign.Active = active != 0
	campaign.CreatedAt = fromMillis(createdAt)
	campaign.UpdatedAt = fromMillis(updatedAt)
	return campaign, nil
}

func scanCampaignRow(row *sql.Row, op string) (domain.Campaign, error) {
	campaign, err := scanCampaign(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Campaign{}, storage.ErrNotFound
		}
		return domain.Campaign{}, fmt.Errorf("%s: %w", op, err)
	}
	return campaign, nil
}
