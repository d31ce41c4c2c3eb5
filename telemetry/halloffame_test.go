package telemetry

import (
	"encoding/json"
	"testing"
)

func TestHallOfFameOrdering(t *testing.T) {
	hof := NewHallOfFame(2)

	if !hof.Consider("tuna", HallEntry{FishID: 1, Quality: 3, Wait: 10}) {
		t.Fatal("first entry should always make the hall")
	}
	hof.Consider("tuna", HallEntry{FishID: 2, Quality: 3, Wait: 5})
	if hof.Consider("tuna", HallEntry{FishID: 3, Quality: 2, Wait: 1}) {
		t.Error("lower quality entry should not displace a full hall")
	}
	hof.Consider("tuna", HallEntry{FishID: 4, Quality: 5, Wait: 30})

	if hof.Size("tuna") != 2 {
		t.Fatalf("size = %d, want 2", hof.Size("tuna"))
	}
	top, ok := hof.Top("tuna")
	if !ok || top.FishID != 4 {
		t.Errorf("top = %+v, want fish 4", top)
	}
	if got := hof.halls["tuna"][1].FishID; got != 2 {
		t.Errorf("runner-up = fish %d, want 2 (same quality, shorter wait)", got)
	}
	if _, ok := hof.Top("salmon"); ok {
		t.Error("empty hall should report no top entry")
	}
}

func TestHallOfFameJSON(t *testing.T) {
	hof := NewHallOfFame(3)
	hof.Consider("salmon", HallEntry{FishID: 9, Quality: 4.5, Verdict: "high"})

	data, err := json.Marshal(hof)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out map[string][]HallEntry
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(out["salmon"]) != 1 || out["salmon"][0].FishID != 9 {
		t.Errorf("decoded = %+v", out)
	}
}
