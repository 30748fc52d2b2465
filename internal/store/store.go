package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"statforge/internal/config"
	"statforge/internal/protocols"
	"statforge/internal/repset"
)

//go:embed schema.sql
var schemaSQL string

// Session is one persisted drill analysis.
type Session struct {
	ID           string
	CreatedAt    time.Time
	PlayerName   string
	Position     string
	AnalysisType string
	VideoPath    string
	ROIPreset    string
	MetricMode   protocols.Mode
	Notes        string
	Reps         []repset.RepMark
	Summary      repset.Summary
}

// Store manages session persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the session database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "sessions.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{
		db:   db,
		path: dbPath,
		lock: flock.New(dbPath + ".lock"),
	}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save persists a session and its reps. A missing ID or timestamp is filled
// in, and the stored session is returned.
func (s *Store) Save(ctx context.Context, session Session) (Session, error) {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(session.AnalysisType) == "" {
		return Session{}, errors.New("save session: analysis type is required")
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	session.Summary.Kept = len(session.Reps)
	if session.Summary.Found < session.Summary.Kept+session.Summary.Dropped {
		session.Summary.Found = session.Summary.Kept + session.Summary.Dropped
	}

	locked, err := s.lock.TryLock()
	if err != nil {
		return Session{}, fmt.Errorf("acquire store lock: %w", err)
	}
	if !locked {
		return Session{}, errors.New("session store is locked by another process")
	}
	defer func() { _ = s.lock.Unlock() }()

	err = s.withRetry(ctx, func() error {
		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return txErr
		}
		defer func() { _ = tx.Rollback() }()

		if _, txErr = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO sessions (
                id, created_at, player_name, position, analysis_type,
                video_path, roi_preset, metric_mode, notes, found, dropped
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			session.ID,
			session.CreatedAt.Format(time.RFC3339Nano),
			session.PlayerName,
			session.Position,
			session.AnalysisType,
			session.VideoPath,
			session.ROIPreset,
			string(session.MetricMode),
			session.Notes,
			session.Summary.Found,
			session.Summary.Dropped,
		); txErr != nil {
			return fmt.Errorf("insert session: %w", txErr)
		}

		if _, txErr = tx.ExecContext(ctx, `DELETE FROM reps WHERE session_id = ?`, session.ID); txErr != nil {
			return fmt.Errorf("clear reps: %w", txErr)
		}
		for seq, rep := range session.Reps {
			if _, txErr = tx.ExecContext(ctx,
				`INSERT INTO reps (
                    session_id, seq, catch_time, release_time, target_time,
                    metric_mode, transfer_seconds, pop_total, estimated_flight,
                    catch_conf, release_conf
                ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				session.ID,
				seq,
				rep.CatchTime,
				rep.ReleaseTime,
				nullableFloat(rep.TargetTime),
				string(rep.MetricMode),
				rep.Transfer,
				rep.PopTotal,
				nullableFloat(rep.EstimatedFlight),
				nullableFloat(rep.CatchConf),
				nullableFloat(rep.ReleaseConf),
			); txErr != nil {
				return fmt.Errorf("insert rep %d: %w", seq, txErr)
			}
		}

		return tx.Commit()
	})
	if err != nil {
		return Session{}, err
	}
	return session, nil
}

// Get fetches a session and its reps by identifier. A missing session yields
// nil without error.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, player_name, position, analysis_type,
                video_path, roi_preset, metric_mode, notes, found, dropped
         FROM sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT catch_time, release_time, target_time, metric_mode,
                transfer_seconds, pop_total, estimated_flight, catch_conf, release_conf
         FROM reps WHERE session_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("get reps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rep  repset.RepMark
			mode string
			tgt  sql.NullFloat64
			fly  sql.NullFloat64
			cc   sql.NullFloat64
			rc   sql.NullFloat64
		)
		if err := rows.Scan(&rep.CatchTime, &rep.ReleaseTime, &tgt, &mode,
			&rep.Transfer, &rep.PopTotal, &fly, &cc, &rc); err != nil {
			return nil, fmt.Errorf("scan rep: %w", err)
		}
		rep.MetricMode = protocols.Mode(mode)
		rep.TargetTime = floatPtr(tgt)
		rep.EstimatedFlight = floatPtr(fly)
		rep.CatchConf = floatPtr(cc)
		rep.ReleaseConf = floatPtr(rc)
		session.Reps = append(session.Reps, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reps: %w", err)
	}
	session.Summary.Kept = len(session.Reps)
	return session, nil
}

// List returns sessions newest first, without their reps.
func (s *Store) List(ctx context.Context, limit int) ([]Session, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, created_at, player_name, position, analysis_type,
                     video_path, roi_preset, metric_mode, notes, found, dropped
              FROM sessions ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// Delete removes a session and its reps. Deleting an unknown ID is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	return s.withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
		return err
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var (
		session   Session
		createdAt string
		mode      string
	)
	if err := row.Scan(&session.ID, &createdAt, &session.PlayerName, &session.Position,
		&session.AnalysisType, &session.VideoPath, &session.ROIPreset, &mode,
		&session.Notes, &session.Summary.Found, &session.Summary.Dropped); err != nil {
		return nil, err
	}
	session.MetricMode = protocols.Mode(mode)
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		session.CreatedAt = ts
	}
	session.Summary.Kept = session.Summary.Found - session.Summary.Dropped
	return &session, nil
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func floatPtr(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	v := value.Float64
	return &v
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func (s *Store) withRetry(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
