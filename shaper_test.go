package platinumd

import (
	"testing"

	"github.com/mdouchement/platinumd/platinum"
)

func TestCurveShaperEval(t *testing.T) {
	shaper := NewCurveShaper([]platinum.CurvePoint{
		{Temperature: 20, Duty: 20},
		{Temperature: 40, Duty: 60},
		{Temperature: 60, Duty: 100},
	})

	tests := []struct {
		temperature float64
		duty        int
	}{
		{10, 20}, // flat below the first breakpoint
		{20, 20},
		{30, 40}, // interpolated
		{40, 60},
		{50, 80},
		{60, 100},
		{75, 100}, // capped above the last breakpoint
	}

	for _, tt := range tests {
		if duty := shaper.Eval(tt.temperature); duty != tt.duty {
			t.Errorf("Eval(%v) = %d, want %d", tt.temperature, duty, tt.duty)
		}
	}
}

func TestCurveShaperTerminalPoint(t *testing.T) {
	// A profile that never reaches 100% gets a vertical jump to full duty
	// at its last breakpoint.
	shaper := NewCurveShaper([]platinum.CurvePoint{
		{Temperature: 30, Duty: 50},
	})

	if duty := shaper.Eval(29); duty != 50 {
		t.Errorf("Eval(29) = %d, want 50", duty)
	}
	if duty := shaper.Eval(35); duty != 100 {
		t.Errorf("Eval(35) = %d, want 100", duty)
	}
}
