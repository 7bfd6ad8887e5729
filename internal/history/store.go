// Package history keeps a SQLite log of step runs.
package history

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/zeebo/blake3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/flarebyte/gwtbuild/internal/gwt"
	"github.com/flarebyte/gwtbuild/internal/step"
)

// Run is one recorded step execution.
type Run struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Step        string    `json:"step" gorm:"index:idx_step"`
	Target      string    `json:"target,omitempty"`
	Stale       bool      `json:"stale"`
	Skipped     bool      `json:"skipped"`
	Reason      string    `json:"reason,omitempty"`
	Reasons     string    `json:"reasons,omitempty"` // one stale input per line
	CommandHash string    `json:"commandHash,omitempty" gorm:"index:idx_command_hash"`
	ExitCode    int       `json:"exitCode"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"startedAt" gorm:"index:idx_started_at"`
	DurationMs  int64     `json:"durationMs"`
}

func (Run) TableName() string {
	return "step_run"
}

// Store is an open history database.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	st := &Store{db: db}
	if err := db.AutoMigrate(&Run{}); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return st, nil
}

// Close releases the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record inserts run, assigning an ID when it has none.
func (s *Store) Record(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	return s.db.Create(run).Error
}

// List returns the most recent runs first. An empty step lists every step;
// limit <= 0 means no limit.
func (s *Store) List(stepName string, limit int) ([]Run, error) {
	q := s.db.Model(&Run{}).Order("started_at desc").Order("id")
	if stepName != "" {
		q = q.Where("step = ?", stepName)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []Run
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// RecordResult stores the outcome of a step run.
func (s *Store) RecordResult(res step.Result, started time.Time, d time.Duration, runErr error) error {
	run := &Run{
		Step:       res.Step,
		Target:     res.Target,
		Skipped:    res.Skipped,
		Reason:     res.Reason,
		StartedAt:  started.UTC(),
		DurationMs: d.Milliseconds(),
	}
	if res.Verdict != nil {
		run.Stale = res.Verdict.Stale
		run.Reasons = strings.Join(res.Verdict.Reasons, "\n")
	}
	if len(res.Command) > 0 {
		run.CommandHash = CommandHash(res.Command)
	}
	if runErr != nil {
		run.Error = runErr.Error()
		run.ExitCode = -1
		var ee *gwt.ExitError
		if errors.As(runErr, &ee) {
			run.ExitCode = ee.Code
		}
	}
	return s.Record(run)
}

// CommandHash fingerprints an argv with BLAKE3.
func CommandHash(argv []string) string {
	h := blake3.New()
	for _, a := range argv {
		_, _ = h.Write([]byte(a))
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
