package platinumd

import (
	"github.com/mdouchement/platinumd/platinum"
)

type point struct {
	temperature float64
	duty        float64
}

type segment struct {
	temperature float64
	eval        func(float64) float64
}

// CurveShaper turns configured breakpoints into a continuous coolant
// temperature to duty mapping. Unlike the cooler's 7-entry table it has no
// point limit, which is what the software fan mode buys.
type CurveShaper struct {
	segments []segment
}

func NewCurveShaper(profile []platinum.CurvePoint) *CurveShaper {
	points := make([]point, 0, len(profile)+2)

	// Setup the start of the curve with the first duty of the profile.
	points = append(points, point{temperature: 0, duty: float64(profile[0].Duty)})
	for _, p := range profile {
		points = append(points, point{temperature: float64(p.Temperature), duty: float64(p.Duty)})
	}
	if p := points[len(points)-1]; p.duty < 100 {
		// Setup the end of the curve with full duty.
		points = append(points, point{temperature: p.temperature, duty: 100})
	}

	s := &CurveShaper{}
	for i, p := range points[1:] { // i is previous index and p current point
		prev := points[i]
		s.segments = append(s.segments, segment{
			temperature: prev.temperature,
			eval:        DutyFromTempSegment(prev.temperature, prev.duty, p.temperature, p.duty),
		})
	}

	return s
}

func (s *CurveShaper) Eval(temperature float64) int {
	for i := len(s.segments) - 1; i >= 0; i-- {
		seg := s.segments[i]
		if temperature >= seg.temperature {
			return int(seg.eval(temperature))
		}
	}

	return 100 // Should not happen, segments start at 0°C
}

func DutyFromTempSegment(temp1, duty1, temp2, duty2 float64) func(temp float64) float64 {
	if temp1 == temp2 {
		// Simplify things in order to make clean a vertical slope
		temp2 = 2
		temp1 = 1
	}

	a := (duty2 - duty1) / (temp2 - temp1) // slope
	b := duty1 - a*temp1                   // y-intercept

	return func(temp float64) float64 {
		return min(a*temp+b, 100)
	}
}
