package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) (*SQLiteSessionRepository, *SQLiteEventRepository) {
	t.Helper()
	db, err := InitSQLite(filepath.Join(t.TempDir(), "nested", "hangry.db"))
	if err != nil {
		t.Fatalf("InitSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLiteSessionRepository(db), NewSQLiteEventRepository(db)
}

func TestSessionSaveGet(t *testing.T) {
	sessions, _ := openTestDB(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Session{
		Seed:      42,
		StartedAt: start,
		EndedAt:   start.Add(390 * time.Second),
		Ticks:     23400,
		SimTime:   390,
		Average:   3.25,
		Ratings:   12,
		Outcome:   "good",
		Spawned:   14,
		Served:    10,
		Hangry:    2,
	}
	if err := sessions.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if s.ID == "" {
		t.Fatal("Save did not assign an id")
	}

	got, err := sessions.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Seed != 42 || got.Average != 3.25 || got.Outcome != "good" || got.Served != 10 {
		t.Errorf("Get = %+v", got)
	}
	if !got.EndedAt.Equal(s.EndedAt) {
		t.Errorf("EndedAt = %v, want %v", got.EndedAt, s.EndedAt)
	}

	// Saving again updates in place.
	s.Average = 4.5
	if err := sessions.Save(ctx, s); err != nil {
		t.Fatalf("Save update: %v", err)
	}
	got, _ = sessions.Get(ctx, s.ID)
	if got.Average != 4.5 {
		t.Errorf("updated average = %v, want 4.5", got.Average)
	}

	if _, err := sessions.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) err = %v, want ErrNotFound", err)
	}
}

func TestSessionRecentAndBest(t *testing.T) {
	sessions, _ := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	averages := []float64{2.0, 4.5, 1.0, 3.0}
	for i, avg := range averages {
		s := &Session{
			StartedAt: base.Add(time.Duration(i) * time.Hour),
			EndedAt:   base.Add(time.Duration(i)*time.Hour + 10*time.Minute),
			Average:   avg,
			Outcome:   "x",
		}
		if err := sessions.Save(ctx, s); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	recent, err := sessions.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 || recent[0].Average != 3.0 || recent[1].Average != 1.0 {
		t.Errorf("Recent = %+v", recent)
	}

	best, err := sessions.Best(ctx, 3)
	if err != nil {
		t.Fatalf("Best: %v", err)
	}
	want := []float64{4.5, 3.0, 2.0}
	if len(best) != len(want) {
		t.Fatalf("Best returned %d rows, want %d", len(best), len(want))
	}
	for i, w := range want {
		if best[i].Average != w {
			t.Errorf("Best[%d].Average = %v, want %v", i, best[i].Average, w)
		}
	}
}

func TestEventLog(t *testing.T) {
	_, events := openTestDB(t)
	ctx := context.Background()

	records := []EventRecord{
		{SessionID: "s1", Seq: 1, Tick: 10, Type: "spawned", FishID: 1, Payload: []byte(`{"type":"spawned"}`)},
		{SessionID: "s1", Seq: 2, Tick: 20, Type: "spawned", FishID: 2, Payload: []byte(`{}`)},
		{SessionID: "s1", Seq: 3, Tick: 30, Type: "state_changed", FishID: 1, Payload: []byte(`{}`)},
		{SessionID: "s2", Seq: 1, Tick: 5, Type: "spawned", FishID: 1, Payload: []byte(`{}`)},
	}
	for _, r := range records {
		if err := events.Append(ctx, r); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := events.Append(ctx, EventRecord{Type: "orphan"}); err == nil {
		t.Error("Append without session id should fail")
	}

	all, err := events.BySession(ctx, "s1")
	if err != nil {
		t.Fatalf("BySession: %v", err)
	}
	if len(all) != 3 || all[0].Seq != 1 || all[2].Type != "state_changed" {
		t.Errorf("BySession = %+v", all)
	}
	if string(all[0].Payload) != `{"type":"spawned"}` {
		t.Errorf("payload = %s", all[0].Payload)
	}

	fish1, err := events.ByFish(ctx, "s1", 1)
	if err != nil {
		t.Fatalf("ByFish: %v", err)
	}
	if len(fish1) != 2 {
		t.Errorf("ByFish returned %d events, want 2", len(fish1))
	}
}
