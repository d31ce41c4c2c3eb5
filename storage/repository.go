// Package storage persists finished restaurant sessions and their event log.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session id has no row.
var ErrNotFound = errors.New("session not found")

// Session is one finished session's result.
type Session struct {
	ID        string    `json:"id"`
	Seed      int64     `json:"seed"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Ticks     int32     `json:"ticks"`
	SimTime   float64   `json:"sim_time"`

	Average float64 `json:"average"`
	Ratings int     `json:"ratings"`
	Outcome string  `json:"outcome"`

	Spawned int `json:"spawned"`
	Served  int `json:"served"`
	Hangry  int `json:"hangry"`
}

// SessionRepository stores session results.
type SessionRepository interface {
	// Save inserts or replaces a session row. An empty ID gets a fresh one.
	Save(ctx context.Context, s *Session) error

	// Get returns one session by id.
	Get(ctx context.Context, id string) (*Session, error)

	// Recent returns the latest sessions, newest first.
	Recent(ctx context.Context, limit int) ([]Session, error)

	// Best returns the highest rated sessions.
	Best(ctx context.Context, limit int) ([]Session, error)
}

// EventRecord is one persisted session event.
type EventRecord struct {
	ID        string
	SessionID string
	Seq       int
	Tick      int32
	Type      string
	FishID    uint32
	Payload   []byte // JSON encoded event
}

// EventRepository is the append-only event ledger.
type EventRepository interface {
	Append(ctx context.Context, e EventRecord) error
	BySession(ctx context.Context, sessionID string) ([]EventRecord, error)
	ByFish(ctx context.Context, sessionID string, fishID uint32) ([]EventRecord, error)
}
