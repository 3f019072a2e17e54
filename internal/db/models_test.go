package db

import "testing"

func TestSectionIDStable(t *testing.T) {
	a := SectionID("fi", "Suomalainen kirjallisuus", 2, 0)
	b := SectionID("fi", "Suomalainen kirjallisuus", 2, 0)
	if a != b {
		t.Fatalf("expected stable id, got %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256, got %q", a)
	}
	if a == SectionID("fi", "Suomalainen kirjallisuus", 2, 1) {
		t.Fatalf("parts must not share an id")
	}
	if a == SectionID("en", "Suomalainen kirjallisuus", 2, 0) {
		t.Fatalf("languages must not share an id")
	}
}

func TestSimilarity(t *testing.T) {
	cases := map[float64]float64{0: 1, 1: 0.5, 2: 0}
	for distance, want := range cases {
		row := SectionSearchRow{Distance: distance}
		if got := row.Similarity(); got != want {
			t.Fatalf("distance %v: expected %v, got %v", distance, want, got)
		}
	}
}
