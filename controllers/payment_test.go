package controllers

import "testing"

func TestClampAmount(t *testing.T) {
	cases := []struct {
		name      string
		requested int64
		fallbacks []int64
		want      int64
	}{
		{"positive requested wins", 70000, []int64{50000}, 70000},
		{"zero falls back to recorded amount", 0, []int64{50000, 30000}, 50000},
		{"negative falls back", -100, []int64{50000}, 50000},
		{"skips empty fallbacks", 0, []int64{0, 30000}, 30000},
		{"default fee when nothing set", 0, []int64{0, 0}, DefaultFee},
		{"default fee with no fallbacks", -1, nil, DefaultFee},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := clampAmount(tc.requested, tc.fallbacks...); got != tc.want {
				t.Errorf("clampAmount(%d, %v) = %d, want %d", tc.requested, tc.fallbacks, got, tc.want)
			}
		})
	}
}
