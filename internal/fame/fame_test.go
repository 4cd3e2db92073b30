package fame

import "testing"

func TestLevelAndProgress(t *testing.T) {
	cases := []struct {
		name        string
		rating      float64
		wantLevel   int
		wantPercent int
	}{
		{name: "mid level", rating: 13.9, wantLevel: 13, wantPercent: 90},
		{name: "exact level boundary", rating: 14.0, wantLevel: 14, wantPercent: 0},
		{name: "fresh account", rating: 0, wantLevel: 0, wantPercent: 0},
		{name: "just above a level", rating: 7.05, wantLevel: 7, wantPercent: 5},
		{name: "server max", rating: 100.0, wantLevel: 100, wantPercent: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Level(tc.rating); got != tc.wantLevel {
				t.Fatalf("Level(%v): got %d, want %d", tc.rating, got, tc.wantLevel)
			}
			if got := ProgressPercent(tc.rating); got != tc.wantPercent {
				t.Fatalf("ProgressPercent(%v): got %d, want %d", tc.rating, got, tc.wantPercent)
			}
		})
	}
}

func TestBar(t *testing.T) {
	if got := Bar(13.5, 10); got != "█████░░░░░" {
		t.Fatalf("Bar(13.5, 10): got %q", got)
	}
	if got := Bar(14.0, 10); got != "░░░░░░░░░░" {
		t.Fatalf("Bar(14.0, 10): got %q", got)
	}
	if got := Bar(3.3, 0); got != "" {
		t.Fatalf("Bar with zero width: got %q", got)
	}
}

func TestLabel(t *testing.T) {
	if got := Label(13.9); got != "lvl 13 · 90%" {
		t.Fatalf("Label(13.9): got %q", got)
	}
}
