package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/classfund/classfund/internal/hierarchy"
	"github.com/classfund/classfund/internal/storage"
)

// CreateState inserts one state record.
func (s *Store) CreateState(ctx context.Context, state hierarchy.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO states (id, name, abbr, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		state.ID,
		state.Name,
		state.Abbr,
		toMillis(state.CreatedAt),
		toMillis(state.UpdatedAt),
	)
	if err != nil {
		if unique := classifyUniqueViolation(err); unique != nil {
			return unique
		}
		return fmt.Errorf("create state: %w", err)
	}
	return nil
}

// GetState returns one state by ID.
func (s *Store) GetState(ctx context.Context, id string) (hierarchy.State, error) {
	if err := ctx.Err(); err != nil {
		return hierarchy.State{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, abbr, created_at, updated_at FROM states WHERE id = ?`,
		strings.TrimSpace(id),
	)
	return scanState(row)
}

// ListStates returns all states ordered by name.
func (s *Store) ListStates(ctx context.Context) ([]hierarchy.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, abbr, created_at, updated_at FROM states ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	defer rows.Close()

	var states []hierarchy.State
	for rows.Next() {
		var state hierarchy.State
		var createdAt, updatedAt int64
		if err := rows.Scan(&state.ID, &state.Name, &state.Abbr, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("list states: %w", err)
		}
		state.CreatedAt = fromMillis(createdAt)
		state.UpdatedAt = fromMillis(updatedAt)
		states = append(states, state)
	}
	return states, rows.Err()
}

// UpdateState replaces one state record.
func (s *Store) UpdateState(ctx context.Context, state hierarchy.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE states SET name = ?, abbr = ?, updated_at = ? WHERE id = ?`,
		state.Name,
		state.Abbr,
		toMillis(state.UpdatedAt),
		state.ID,
	)
	if err != nil {
		if unique := classifyUniqueViolation(err); unique != nil {
			return unique
		}
		return fmt.Errorf("update state: %w", err)
	}
	return requireRow(result, "update state")
}

// DeleteState removes one state record.
func (s *Store) DeleteState(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM states WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return requireRow(result, "delete state")
}

// CreateDistrict inserts one district record.
func (s *Store) CreateDistrict(ctx context.Context, district hierarchy.District) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO districts (id, state_id, name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		district.ID,
		district.StateID,
		district.Name,
		toMillis(district.CreatedAt),
		toMillis(district.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create district: %w", err)
	}
	return nil
}

// GetDistrict returns one district by ID.
func (s *Store) GetDistrict(ctx context.Context, id string) (hierarchy.District, error) {
	if err := ctx.Err(); err != nil {
		return hierarchy.District{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, state_id, name, created_at, updated_at FROM districts WHERE id = ?`,
		strings.TrimSpace(id),
	)
	var district hierarchy.District
	var createdAt, updatedAt int64
	err := row.Scan(&district.ID, &district.StateID, &district.Name, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return hierarchy.District{}, storage.ErrNotFound
		}
		return hierarchy.District{}, fmt.Errorf("get district: %w", err)
	}
	district.CreatedAt = fromMillis(createdAt)
	district.UpdatedAt = fromMillis(updatedAt)
	return district, nil
}

// ListDistricts returns districts ordered by name, optionally scoped to
// one state.
func (s *Store) ListDistricts(ctx context.Context, stateID string) ([]hierarchy.District, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := `SELECT id, state_id, name, created_at, updated_at FROM districts ORDER BY name ASC`
	args := []any{}
	if stateID != "" {
		query = `SELECT id, state_id, name, created_at, updated_at FROM districts WHERE state_id = ? ORDER BY name ASC`
		args = append(args, stateID)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}
	defer rows.Close()

	var districts []hierarchy.District
	for rows.Next() {
		var district hierarchy.District
		var createdAt, updatedAt int64
		if err := rows.Scan(&district.ID, &district.StateID, &district.Name, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("list districts: %w", err)
		}
		district.CreatedAt = fromMillis(createdAt)
		district.UpdatedAt = fromMillis(updatedAt)
		districts = append(districts, district)
	}
	return districts, rows.Err()
}

// UpdateDistrict replaces one district record.
func (s *Store) UpdateDistrict(ctx context.Context, district hierarchy.District) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE districts SET state_id = ?, name = ?, updated_at = ? WHERE id = ?`,
		district.StateID,
		district.Name,
		toMillis(district.UpdatedAt),
		district.ID,
	)
	if err != nil {
		return fmt.Errorf("update district: %w", err)
	}
	return requireRow(result, "update district")
}

// DeleteDistrict removes one district record.
func (s *Store) DeleteDistrict(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM districts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete district: %w", err)
	}
	return requireRow(result, "delete district")
}

// CreateSchool inserts one school record.
func (s *Store) CreateSchool(ctx context.Context, school hierarchy.School) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO schools (id, district_id, name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		school.ID,
		school.DistrictID,
		school.Name,
		toMillis(school.CreatedAt),
		toMillis(school.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create school: %w", err)
	}
	return nil
}

// GetSchool returns one school by ID.
func (s *Store) GetSchool(ctx context.Context, id string) (hierarchy.School, error) {
	if err := ctx.Err(); err != nil {
		return hierarchy.School{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, district_id, name, created_at, updated_at FROM schools WHERE id = ?`,
		strings.TrimSpace(id),
	)
	var school hierarchy.School
	var createdAt, updatedAt int64
	err := row.Scan(&school.ID, &school.DistrictID, &school.Name, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return hierarchy.School{}, storage.ErrNotFound
		}
		return hierarchy.School{}, fmt.Errorf("get school: %w", err)
	}
	school.CreatedAt = fromMillis(createdAt)
	school.UpdatedAt = fromMillis(updatedAt)
	return school, nil
}

// ListSchools returns schools ordered by name, optionally scoped to one
// district.
func (s *Store) ListSchools(ctx context.Context, districtID string) ([]hierarchy.School, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := `SELECT id, district_id, name, created_at, updated_at FROM schools ORDER BY name ASC`
	args := []any{}
	if districtID != "" {
		query = `SELECT id, district_id, name, created_at, updated_at FROM schools WHERE district_id = ? ORDER BY name ASC`
		args = append(args, districtID)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	defer rows.Close()

	var schools []hierarchy.School
	for rows.Next() {
		var school hierarchy.School
		var createdAt, updatedAt int64
		if err := rows.Scan(&school.ID, &school.DistrictID, &school.Name, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("list schools: %w", err)
		}
		school.CreatedAt = fromMillis(createdAt)
		school.UpdatedAt = fromMillis(updatedAt)
		schools = append(schools, school)
	}
	return schools, rows.Err()
}

// UpdateSchool replaces one school record.
func (s *Store) UpdateSchool(ctx context.Context, school hierarchy.School) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE schools SET district_id = ?, name = ?, updated_at = ? WHERE id = ?`,
		school.DistrictID,
		school.Name,
		toMillis(school.UpdatedAt),
		school.ID,
	)
	if err != nil {
		return fmt.Errorf("update school: %w", err)
	}
	return requireRow(result, "update school")
}

// DeleteSchool removes one school record.
func (s *Store) DeleteSchool(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM schools WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete school: %w", err)
	}
	return requireRow(result, "delete school")
}

func scanState(row *sql.Row) (hierarchy.State, error) {
	var state hierarchy.State
	var createdAt, updatedAt int64
	err := row.Scan(&state.ID, &state.Name, &state.Abbr, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return hierarchy.State{}, storage.ErrNotFound
		}
		return hierarchy.State{}, fmt.Errorf("get state: %w", err)
	}
	state.CreatedAt = fromMillis(createdAt)
	state.UpdatedAt = fromMillis(updatedAt)
	return state, nil
}

func requireRow(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
