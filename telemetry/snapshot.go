package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot captures the restaurant floor at one tick.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	Tick       int32   `json:"tick"`
	Elapsed    float64 `json:"elapsed"`
	Clock      string  `json:"clock"`
	SpawnPhase string  `json:"spawn_phase"`
	RatingAvg  float64 `json:"rating_avg"`

	Fish []FishState `json:"fish"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// FishState holds one live fish.
type FishState struct {
	ID        uint32  `json:"id"`
	Archetype string  `json:"archetype"`
	State     string  `json:"state"`
	X         float64 `json:"x"`
	Z         float64 `json:"z"`

	FeedingRemaining float64 `json:"feeding_remaining"`
	HungerRemaining  float64 `json:"hunger_remaining"`
	CookTime         float64 `json:"cook_time,omitempty"`
	Quality          float64 `json:"quality,omitempty"`
	Paused           bool    `json:"paused,omitempty"`
	Dragged          bool    `json:"dragged,omitempty"`

	Lifetime *LifetimeStatsJSON `json:"lifetime,omitempty"`
}

// LifetimeStatsJSON is the JSON form of LifetimeStats.
type LifetimeStatsJSON struct {
	SpawnTick  int32   `json:"spawn_tick"`
	HungryTick int32   `json:"hungry_tick"`
	ServedTick int32   `json:"served_tick"`
	CookedTick int32   `json:"cooked_tick"`
	Quality    float64 `json:"quality"`
	Verdict    string  `json:"verdict,omitempty"`
}

// ToJSON converts LifetimeStats to its JSON form.
func (ls *LifetimeStats) ToJSON() *LifetimeStatsJSON {
	if ls == nil {
		return nil
	}
	return &LifetimeStatsJSON{
		SpawnTick:  ls.SpawnTick,
		HungryTick: ls.HungryTick,
		ServedTick: ls.ServedTick,
		CookedTick: ls.CookedTick,
		Quality:    ls.Quality,
		Verdict:    ls.Verdict,
	}
}

// FromJSON converts the JSON form back to LifetimeStats.
func (lsj *LifetimeStatsJSON) FromJSON(archetype string) *LifetimeStats {
	if lsj == nil {
		return nil
	}
	return &LifetimeStats{
		SpawnTick:  lsj.SpawnTick,
		Archetype:  archetype,
		HungryTick: lsj.HungryTick,
		ServedTick: lsj.ServedTick,
		CookedTick: lsj.CookedTick,
		Quality:    lsj.Quality,
		Verdict:    lsj.Verdict,
	}
}

// SaveSnapshot writes a snapshot to dir and returns the file path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name += "_" + sanitized
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}
