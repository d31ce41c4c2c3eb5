package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	lt := NewLifetimeTracker()
	lt.Register(1, 100, "tuna")
	lt.MarkHungry(1, 400)

	snapshot := &Snapshot{
		Version:    SnapshotVersion,
		RNGSeed:    42,
		Tick:       1000,
		Elapsed:    16.6,
		Clock:      "00:06:13",
		SpawnPhase: "initial",
		RatingAvg:  3.5,
		Fish: []FishState{
			{
				ID:               1,
				Archetype:        "tuna",
				State:            "hungry",
				X:                -3.5,
				Z:                6.25,
				FeedingRemaining: 55,
				Lifetime:         lt.Get(1).ToJSON(),
			},
		},
		Bookmark: &Bookmark{
			Type:        BookmarkDinnerRush,
			Tick:        1000,
			Description: "test bookmark",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot file not created: %v", err)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if diff := cmp.Diff(snapshot, loaded); diff != "" {
		t.Errorf("snapshot round trip mismatch (-want +got):\n%s", diff)
	}

	back := loaded.Fish[0].Lifetime.FromJSON("tuna")
	if diff := cmp.Diff(lt.Get(1), back); diff != "" {
		t.Errorf("lifetime mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := SaveSnapshot(&Snapshot{
		Version:  SnapshotVersion,
		Tick:     5000,
		Bookmark: &Bookmark{Type: BookmarkMeltdown, Tick: 5000},
	}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if want := filepath.Join(tmpDir, "snapshot_5000_meltdown.json"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	path, err = SaveSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 3000}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if want := filepath.Join(tmpDir, "snapshot_3000.json"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}
}

func TestLoadSnapshotRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected version mismatch error")
	}
}
