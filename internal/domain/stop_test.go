package domain

import (
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestStopTravelDefaults(t *testing.T) {
	rules := DefaultTimingRules()

	if got := (Stop{}).Travel(rules); got != 30*time.Minute {
		t.Errorf("default travel = %v, want 30m", got)
	}
	if got := (Stop{TravelMinutes: intPtr(0)}).Travel(rules); got != 0 {
		t.Errorf("explicit zero travel = %v, want 0", got)
	}
}

func TestStopAnchorPartialIsFloating(t *testing.T) {
	rules := DefaultTimingRules()

	s := Stop{ID: "a", IsFixedTime: true, FixedDate: "2024-06-01"}
	if _, ok, err := s.Anchor(rules); ok || err != nil {
		t.Fatalf("partial anchor: ok=%v err=%v, want floating", ok, err)
	}

	s.FixedTime = "09:30"
	at, ok, err := s.Anchor(rules)
	if err != nil || !ok {
		t.Fatalf("full anchor: ok=%v err=%v", ok, err)
	}
	if want := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC); !at.Equal(want) {
		t.Errorf("anchor = %v, want %v", at, want)
	}
}

func TestStopPatchApplyMerges(t *testing.T) {
	stay := 2.5
	s := Stop{ID: "a", Name: "Museum", StayHours: 1, Notes: "keep"}

	got := StopPatch{StayHours: &stay}.Apply(s)
	if got.StayHours != 2.5 || got.Name != "Museum" || got.Notes != "keep" {
		t.Errorf("patched stop = %+v", got)
	}
}

func TestSortStopsStable(t *testing.T) {
	in := []Stop{{ID: "c", Order: 5}, {ID: "a", Order: 1}, {ID: "b", Order: 5}}
	out := SortStops(in)

	ids := []string{out[0].ID, out[1].ID, out[2].ID}
	if ids[0] != "a" || ids[1] != "c" || ids[2] != "b" {
		t.Errorf("order = %v, want [a c b]", ids)
	}
	if in[0].ID != "c" {
		t.Errorf("input slice was mutated")
	}
	if NextOrder(in) != 6 {
		t.Errorf("NextOrder = %d, want 6", NextOrder(in))
	}
}

func TestParseTransportMode(t *testing.T) {
	if m, err := ParseTransportMode(" Transit "); err != nil || m != TransportTransit {
		t.Errorf("got %q, %v", m, err)
	}
	if m, _ := ParseTransportMode(""); m != TransportDriving {
		t.Errorf("empty mode = %q, want driving", m)
	}
	if _, err := ParseTransportMode("flying"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
