package utils

import (
	"testing"
	"time"
)

func TestAge(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		birthdate time.Time
		want      int
	}{
		{"birthday today", time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC), 35},
		{"birthday tomorrow", time.Date(1990, 6, 16, 0, 0, 0, 0, time.UTC), 34},
		{"birthday yesterday", time.Date(1990, 6, 14, 0, 0, 0, 0, time.UTC), 35},
		{"born this year", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 0},
	}

	for _, tc := range cases {
		if got := Age(tc.birthdate, now); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestAgeLeapYearBirthday(t *testing.T) {
	birthdate := time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC)

	beforeAnniversary := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	if got := Age(birthdate, beforeAnniversary); got != 24 {
		t.Fatalf("expected 24 before the anniversary, got %d", got)
	}

	afterAnniversary := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := Age(birthdate, afterAnniversary); got != 25 {
		t.Fatalf("expected 25 after the anniversary, got %d", got)
	}
}
