package telemetry

import (
	"encoding/json"
	"sort"
)

// HallEntry is one served meal worth remembering.
type HallEntry struct {
	FishID  uint32  `json:"fish_id"`
	Tick    int32   `json:"tick"`
	Quality float64 `json:"quality"`
	Wait    float64 `json:"wait_sec"`
	Verdict string  `json:"verdict"`
}

// better orders entries by quality, then by shorter wait.
func (e HallEntry) better(o HallEntry) bool {
	if e.Quality != o.Quality {
		return e.Quality > o.Quality
	}
	return e.Wait < o.Wait
}

// HallOfFame keeps the best meals of a session, one hall per archetype.
type HallOfFame struct {
	halls   map[string][]HallEntry
	maxSize int
}

// NewHallOfFame creates a hall of fame holding up to maxSize meals per archetype.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		halls:   make(map[string][]HallEntry),
		maxSize: maxSize,
	}
}

// Consider offers a served meal. Returns true if it made the hall.
func (hof *HallOfFame) Consider(archetype string, entry HallEntry) bool {
	hall := hof.halls[archetype]
	idx := sort.Search(len(hall), func(i int) bool {
		return entry.better(hall[i])
	})
	if idx >= hof.maxSize {
		return false
	}

	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry
	if len(hall) > hof.maxSize {
		hall = hall[:hof.maxSize]
	}
	hof.halls[archetype] = hall
	return true
}

// Top returns the best meal for an archetype.
func (hof *HallOfFame) Top(archetype string) (HallEntry, bool) {
	hall := hof.halls[archetype]
	if len(hall) == 0 {
		return HallEntry{}, false
	}
	return hall[0], true
}

// Size returns the number of entries for an archetype.
func (hof *HallOfFame) Size(archetype string) int {
	return len(hof.halls[archetype])
}

// MarshalJSON serializes the halls keyed by archetype name.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(hof.halls, "", "  ")
}
