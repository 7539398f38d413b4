package supervisor

import (
	"testing"
	"time"
)

func TestScheduleDelaySteps(t *testing.T) {
	s := Schedule{Base: 10 * time.Second, Max: 5 * time.Minute}
	cases := []struct {
		count int
		want  time.Duration
	}{
		{1, 10 * time.Second},
		{2, 10 * time.Second},
		{3, 10 * time.Second},
		{4, 20 * time.Second},
		{5, 20 * time.Second},
		{6, 40 * time.Second},
		{10, 40 * time.Second},
		{11, 5 * time.Minute},
		{20, 5 * time.Minute},
		{100, 5 * time.Minute},
	}
	for _, c := range cases {
		if got := s.Delay(c.count); got != c.want {
			t.Errorf("Delay(%d) = %v, want %v", c.count, got, c.want)
		}
	}
}

func TestScheduleDelayMonotone(t *testing.T) {
	s := Schedule{Base: 3 * time.Second, Max: time.Minute}
	prev := time.Duration(0)
	for count := 1; count <= 50; count++ {
		d := s.Delay(count)
		if d < prev {
			t.Fatalf("Delay(%d) = %v < Delay(%d) = %v", count, d, count-1, prev)
		}
		if d > s.Max {
			t.Fatalf("Delay(%d) = %v exceeds max %v", count, d, s.Max)
		}
		prev = d
	}
}

func TestScheduleDelayClampsTightMax(t *testing.T) {
	// Max below the doubled step: every tier must clamp.
	s := Schedule{Base: 10 * time.Second, Max: 15 * time.Second}
	if got := s.Delay(4); got != 15*time.Second {
		t.Fatalf("Delay(4) = %v, want clamped 15s", got)
	}
	if got := s.Delay(8); got != 15*time.Second {
		t.Fatalf("Delay(8) = %v, want clamped 15s", got)
	}
}
