package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// SQLiteSessionRepository implements SessionRepository for SQLite.
type SQLiteSessionRepository struct {
	db *sql.DB
}

func NewSQLiteSessionRepository(db *sql.DB) *SQLiteSessionRepository {
	return &SQLiteSessionRepository{db: db}
}

const sessionColumns = `session_id, seed, started_at, ended_at, ticks, sim_time, average, ratings, outcome, spawned, served, hangry`

func (r *SQLiteSessionRepository) Save(ctx context.Context, s *Session) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	query := `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			ended_at=excluded.ended_at,
			ticks=excluded.ticks,
			sim_time=excluded.sim_time,
			average=excluded.average,
			ratings=excluded.ratings,
			outcome=excluded.outcome,
			spawned=excluded.spawned,
			served=excluded.served,
			hangry=excluded.hangry
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Seed, s.StartedAt.UTC(), s.EndedAt.UTC(), s.Ticks, s.SimTime,
		s.Average, s.Ratings, s.Outcome, s.Spawned, s.Served, s.Hangry,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepository) Get(ctx context.Context, id string) (*Session, error) {
	sessions, err := r.getMany(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE session_id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &sessions[0], nil
}

func (r *SQLiteSessionRepository) Recent(ctx context.Context, limit int) ([]Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY ended_at DESC LIMIT ?`
	return r.getMany(ctx, query, limit)
}

func (r *SQLiteSessionRepository) Best(ctx context.Context, limit int) ([]Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY average DESC, ratings DESC LIMIT ?`
	return r.getMany(ctx, query, limit)
}

func (r *SQLiteSessionRepository) getMany(ctx context.Context, query string, args ...any) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		err := rows.Scan(
			&s.ID, &s.Seed, &s.StartedAt, &s.EndedAt, &s.Ticks, &s.SimTime,
			&s.Average, &s.Ratings, &s.Outcome, &s.Spawned, &s.Served, &s.Hangry,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// ---------------------------------------------------------
// SQLiteEventRepository
// ---------------------------------------------------------

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, e EventRecord) error {
	if e.SessionID == "" {
		return errors.New("event has no session id")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	query := `
		INSERT INTO session_events (id, session_id, seq, tick, event_type, fish_id, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, e.ID, e.SessionID, e.Seq, e.Tick, e.Type, e.FishID, string(e.Payload))
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) BySession(ctx context.Context, sessionID string) ([]EventRecord, error) {
	query := `SELECT id, session_id, seq, tick, event_type, fish_id, payload FROM session_events WHERE session_id = ? ORDER BY seq ASC`
	return r.getMany(ctx, query, sessionID)
}

func (r *SQLiteEventRepository) ByFish(ctx context.Context, sessionID string, fishID uint32) ([]EventRecord, error) {
	query := `SELECT id, session_id, seq, tick, event_type, fish_id, payload FROM session_events WHERE session_id = ? AND fish_id = ? ORDER BY seq ASC`
	return r.getMany(ctx, query, sessionID, fishID)
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...any) ([]EventRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []EventRecord
	for rows.Next() {
		var e EventRecord
		var payload string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Seq, &e.Tick, &e.Type, &e.FishID, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Payload = []byte(payload)
		events = append(events, e)
	}
	return events, rows.Err()
}
