package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/CryptoMoneyBotz/lighthouse-ci/logging"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrProjectNotFound is returned when a lookup matches no project
var ErrProjectNotFound = errors.New("project not found")

// gormLogger wraps the lhci logger for GORM
type gormLogger struct {
	level logger.LogLevel
}

// LogMode sets the log level
func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

// Info logs info messages
func (l *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

// Warn logs warn messages
func (l *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

// Error logs error messages
func (l *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

// Trace logs SQL queries - only in debug mode
func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("gorm query error",
			"error", err,
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else if elapsed > 200*time.Millisecond {
		logging.Logger.Warn("slow query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else {
		logging.Logger.Debug("gorm query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	}
}

// newGormLogger creates a GORM logger that respects lhci's debug settings
func newGormLogger() logger.Interface {
	if os.Getenv("LHCI_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// Store provides thread-safe access to projects and reports
type Store struct {
	db *gorm.DB
}

// NewStore opens (creating if needed) the SQLite database at dbPath with WAL mode enabled
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		PrepareStmt: false, // Disable to avoid transaction conflicts
		NowFunc:     func() time.Time { return time.Now().UTC() },
		Logger:      newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for concurrent access
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")
	db.Exec("PRAGMA foreign_keys=ON")

	if err := db.AutoMigrate(&Project{}, &Report{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	return &Store{db: db}, nil
}

// Close releases the underlying database handle
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateProject persists a new project, assigning its UUID id and admin token
func (s *Store) CreateProject(ctx context.Context, name, externalURL string) (*Project, error) {
	project := &Project{
		ID:          uuid.New().String(),
		Name:        name,
		ExternalURL: externalURL,
		Slug:        slugify(name),
		AdminToken:  uuid.New().String(),
	}

	err := withRetry(func() error {
		return s.db.WithContext(ctx).Create(project).Error
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjects returns all projects ordered by name
func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Order("name ASC").Find(&projects).Error
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// FindProjectByToken looks up a project by its admin token
func (s *Store) FindProjectByToken(ctx context.Context, token string) (*Project, error) {
	var project Project
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Where("admin_token = ?", token).First(&project).Error
	}, 3)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up project: %w", err)
	}
	return &project, nil
}

// FindProjectByID looks up a project by its UUID id
func (s *Store) FindProjectByID(ctx context.Context, id string) (*Project, error) {
	var project Project
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Where("id = ?", id).First(&project).Error
	}, 3)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up project: %w", err)
	}
	return &project, nil
}

// CreateReport persists a report for the given project
func (s *Store) CreateReport(ctx context.Context, projectID, url string, performance float64, payload string) (*Report, error) {
	report := &Report{
		ProjectID:      projectID,
		URL:            url,
		PerformanceRaw: performance,
		Payload:        payload,
	}

	err := withRetry(func() error {
		return s.db.WithContext(ctx).Create(report).Error
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	return report, nil
}

// ListReports returns all reports for a project, newest first
func (s *Store) ListReports(ctx context.Context, projectID string) ([]Report, error) {
	var reports []Report
	err := withRetry(func() error {
		return s.db.WithContext(ctx).
			Where("project_id = ?", projectID).
			Order("created_at DESC, id DESC").
			Find(&reports).Error
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// withRetry re-runs fn while SQLite reports the database as busy or locked
func withRetry(fn func() error, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
			time.Sleep(time.Millisecond * time.Duration(50*(i+1)))
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries", maxRetries)
}
