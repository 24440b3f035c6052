package connection

import "testing"

func TestTier(t *testing.T) {
	tests := []struct {
		score float64
		want  IntroTier
	}{
		{0.95, IntroHigh},
		{0.71, IntroHigh},
		{0.7, IntroMedium},
		{0.51, IntroMedium},
		{0.5, IntroLow},
		{0, IntroLow},
	}
	for _, tc := range tests {
		if got := Tier(tc.score, 0.7, 0.5); got != tc.want {
			t.Errorf("Tier(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
