// Package sqlite provides the SQLite-backed storage implementation.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	campaignservice "github.com/classfund/classfund/internal/campaign/service"
	"github.com/classfund/classfund/internal/contribution"
	"github.com/classfund/classfund/internal/faculty"
	"github.com/classfund/classfund/internal/hierarchy"
	sqlitemigrate "github.com/classfund/classfund/internal/platform/storage/sqlitemigrate"
	"github.com/classfund/classfund/internal/storage"
	"github.com/classfund/classfund/internal/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists classfund records in SQLite. It implements every store
// interface the services declare.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// classifyUniqueViolation maps a SQLite unique-constraint failure to the
// storage sentinel for the violated index, or returns nil for unrelated
// errors.
func classifyUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
		default:
			return nil
		}
	} else if !strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
		return nil
	}

	message := strings.ToLower(err.Error())
	switch {
	case strings.Contains(message, "campaigns.slug"):
		return storage.ErrSlugTaken
	case strings.Contains(message, "campaigns.name"), strings.Contains(message, "states.name"):
		return storage.ErrNameTaken
	case strings.Contains(message, "teachers.school_id"):
		return storage.ErrDuplicateTeacher
	}
	return nil
}

var (
	_ hierarchy.StateStore           = (*Store)(nil)
	_ hierarchy.DistrictStore        = (*Store)(nil)
	_ hierarchy.SchoolStore          = (*Store)(nil)
	_ faculty.TeacherStore           = (*Store)(nil)
	_ campaignservice.CampaignStore  = (*Store)(nil)
	_ contribution.ContributionStore = (*Store)(nil)
)
