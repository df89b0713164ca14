package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/classfund/classfund/internal/faculty"
	"github.com/classfund/classfund/internal/storage"
)

// CreateTeacher inserts one teacher record.
func (s *Store) CreateTeacher(ctx context.Context, teacher faculty.Teacher) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO teachers (id, school_id, first_name, last_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		teacher.ID,
		teacher.SchoolID,
		teacher.FirstName,
		teacher.LastName,
		toMillis(teacher.CreatedAt),
		toMillis(teacher.UpdatedAt),
	)
	if err != nil {
		if unique := classifyUniqueViolation(err); unique != nil {
			return unique
		}
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// GetTeacher returns one teacher by ID.
func (s *Store) GetTeacher(ctx context.Context, id string) (faculty.Teacher, error) {
	if err := ctx.Err(); err != nil {
		return faculty.Teacher{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, school_id, first_name, last_name, created_at, updated_at
		 FROM teachers WHERE id = ?`,
		strings.TrimSpace(id),
	)
	var teacher faculty.Teacher
	var createdAt, updatedAt int64
	err := row.Scan(&teacher.ID, &teacher.SchoolID, &teacher.FirstName, &teacher.LastName, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return faculty.Teacher{}, storage.ErrNotFound
		}
		return faculty.Teacher{}, fmt.Errorf("get teacher: %w", err)
	}
	teacher.CreatedAt = fromMillis(createdAt)
	teacher.UpdatedAt = fromMillis(updatedAt)
	return teacher, nil
}

// ListTeachers returns teachers ordered by last then first name,
// optionally scoped to one school.
func (s *Store) ListTeachers(ctx context.Context, schoolID string) ([]faculty.Teacher, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := `SELECT id, school_id, first_name, last_name, created_at, updated_at
		 FROM teachers ORDER BY last_name ASC, first_name ASC`
	args := []any{}
	if schoolID != "" {
		query = `SELECT id, school_id, first_name, last_name, created_at, updated_at
		 FROM teachers WHERE school_id = ? ORDER BY last_name ASC, first_name ASC`
		args = append(args, schoolID)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	defer rows.Close()

	var teachers []faculty.Teacher
	for rows.Next() {
		var teacher faculty.Teacher
		var createdAt, updatedAt int64
		if err := rows.Scan(&teacher.ID, &teacher.SchoolID, &teacher.FirstName, &teacher.LastName, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("list teachers: %w", err)
		}
		teacher.CreatedAt = fromMillis(createdAt)
		teacher.UpdatedAt = fromMillis(updatedAt)
		teachers = append(teachers, teacher)
	}
	return teachers, rows.Err()
}

// UpdateTeacher replaces one teacher record.
func (s *Store) UpdateTeacher(ctx context.Context, teacher faculty.Teacher) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE teachers SET school_id = ?, first_name = ?, last_name = ?, updated_at = ?
		 WHERE id = ?`,
		teacher.SchoolID,
		teacher.FirstName,
		teacher.LastName,
		toMillis(teacher.UpdatedAt),
		teacher.ID,
	)
	if err != nil {
		if unique := classifyUniqueViolation(err); unique != nil {
			return unique
		}
		return fmt.Errorf("update teacher: %w", err)
	}
	return requireRow(result, "update teacher")
}

// DeleteTeacher removes one teacher record.
func (s *Store) DeleteTeacher(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM teachers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	return requireRow(result, "delete teacher")
}

// CountDuplicateTeachers counts teachers of the school with the same
// name pair, excluding excludingID. The first_name and last_name
// columns collate NOCASE so the comparison is case-insensitive.
func (s *Store) CountDuplicateTeachers(ctx context.Context, schoolID, firstName, lastName, excludingID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM teachers
		 WHERE school_id = ? AND first_name = ? AND last_name = ? AND id != ?`,
		schoolID,
		strings.TrimSpace(firstName),
		strings.TrimSpace(lastName),
		excludingID,
	)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count duplicate teachers: %w", err)
	}
	return count, nil
}
