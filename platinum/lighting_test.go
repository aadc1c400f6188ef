package platinum

import (
	"errors"
	"slices"
	"testing"
)

func TestResolveColorsShortfall(t *testing.T) {
	// A source that runs dry leaves the remaining leds black.
	colors := sequentialColors(10)

	plan, err := H115iPlatinum.resolveColors(ChannelLED, ModeSuperFixed, slices.Values(colors))
	if err != nil {
		t.Fatalf("resolveColors: %v", err)
	}

	if len(plan) != H115iPlatinum.LEDCount {
		t.Fatalf("plan length = %d, want %d", len(plan), H115iPlatinum.LEDCount)
	}
	for i, c := range plan {
		if i < len(colors) && c != colors[i] {
			t.Errorf("led %d = %+v, want %+v", i, c, colors[i])
		}
		if i >= len(colors) && c != (Color{}) {
			t.Errorf("led %d = %+v, want black", i, c)
		}
	}
}

func TestResolveColorsFixedBroadcast(t *testing.T) {
	plan, err := H115iPlatinum.resolveColors(ChannelLED, ModeFixed, slices.Values([]Color{{R: 255}}))
	if err != nil {
		t.Fatalf("resolveColors: %v", err)
	}

	for i, c := range plan {
		if c != (Color{R: 255}) {
			t.Fatalf("led %d = %+v, want the broadcast color", i, c)
		}
	}
}

func TestResolveColorsUnsupportedMode(t *testing.T) {
	_, err := H115iPlatinum.resolveColors(Channel("strip"), ModeFixed, slices.Values([]Color{{}}))
	if err == nil {
		t.Fatal("expected an error for an unknown channel")
	}
}

func TestResolveColorsLEDCountMismatch(t *testing.T) {
	broken := H115iPlatinum
	broken.LEDCount = 30 // disagrees with 3×8 component geometry

	_, err := broken.resolveColors(ChannelSync, ModeFixed, slices.Values(sequentialColors(3)))
	if !errors.Is(err, ErrLEDCountMismatch) {
		t.Errorf("err = %v, want ErrLEDCountMismatch", err)
	}
}

func TestLightingReportsSingleBlock(t *testing.T) {
	// Plans fitting one report produce no second block.
	reports := lightingReports(sequentialColors(20))
	if len(reports) != 1 {
		t.Fatalf("got %d report(s), want 1", len(reports))
	}
	if got := reports[0].bytes()[1] & 0b111; got != byte(SelectorLighting1) {
		t.Errorf("selector = %#03b, want 0b100", got)
	}
}
