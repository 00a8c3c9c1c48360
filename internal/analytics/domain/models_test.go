package domain

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct {
		name     string
		value    int
		fallback int
		max      int
		want     int
	}{
		{"zero falls back", 0, 12, 36, 12},
		{"negative falls back", -4, 12, 36, 12},
		{"in range", 24, 12, 36, 24},
		{"above cap", 120, 12, 36, 36},
		{"at cap", 36, 12, 36, 36},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clamp(tc.value, tc.fallback, tc.max); got != tc.want {
				t.Fatalf("Clamp(%d, %d, %d) = %d, want %d", tc.value, tc.fallback, tc.max, got, tc.want)
			}
		})
	}
}
