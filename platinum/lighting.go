package platinum

import (
	"errors"
	"fmt"
	"iter"
)

var ErrLEDCountMismatch = errors.New("resolved color plan does not match the device led count")

// resolveColors expands a (channel, mode) pair and a caller color source into
// the flat per-LED plan, one color per LED in device order.
//
// The source is pulled lazily: only as many colors as the plan needs are
// consumed, excess elements are never touched, so unbounded generators are
// fine. A source that runs dry leaves the remaining LEDs black.
func (cfg DeviceConfig) resolveColors(channel Channel, mode LightingMode, colors iter.Seq[Color]) ([]Color, error) {
	next, stop := iter.Pull(colors)
	defer stop()

	take := func(n int) []Color {
		taken := make([]Color, n)
		for i := range n {
			c, ok := next()
			if !ok {
				break
			}
			taken[i] = c
		}
		return taken
	}

	var plan []Color
	switch {
	case channel == ChannelLED && mode == ModeSuperFixed:
		plan = take(cfg.LEDCount)

	case channel == ChannelLED && mode == ModeFixed:
		plan = broadcast(take(1)[0], cfg.LEDCount)

	case channel == ChannelSync && mode == ModeFixed:
		// One color per component, each spread over the component's LEDs.
		for _, c := range take(cfg.Components) {
			plan = append(plan, broadcast(c, cfg.ComponentLEDs)...)
		}

	case channel == ChannelSync && mode == ModeSuperFixed:
		// One addressable sequence, repeated on every component.
		seq := take(cfg.ComponentLEDs)
		for range cfg.Components {
			plan = append(plan, seq...)
		}

	default:
		return nil, fmt.Errorf("unsupported channel/mode: %s/%s", channel, mode)
	}

	if len(plan) != cfg.LEDCount {
		// Component geometry disagrees with the led count; this is a defect
		// in the device configuration, not in the caller's colors.
		return nil, fmt.Errorf("%w: %d leds planned, %d configured", ErrLEDCountMismatch, len(plan), cfg.LEDCount)
	}

	return plan, nil
}

func broadcast(c Color, n int) []Color {
	out := make([]Color, n)
	for i := range out {
		out[i] = c
	}
	return out
}

// lightingReports chunks a resolved plan into wire reports. Each LED takes
// 3 bytes in BGR order; the first block carries up to LEDsPerReport LEDs
// under SelectorLighting1, the remainder goes into a SelectorLighting2
// block. The returned order is the write order observed on real hardware:
// block one first, block two second. Do not reorder it.
func lightingReports(plan []Color) []*report {
	wire := make([]byte, 0, 3*len(plan))
	for _, c := range plan {
		wire = append(wire, c.B, c.G, c.R)
	}

	head := wire
	if len(head) > 3*LEDsPerReport {
		head = head[:3*LEDsPerReport]
	}

	r1 := newReport(SelectorLighting1)
	r1.put(field{offset: offsetColors, width: len(head)}, head...)
	reports := []*report{r1}

	if tail := wire[len(head):]; len(tail) > 0 {
		r2 := newReport(SelectorLighting2)
		r2.put(field{offset: offsetColors, width: len(tail)}, tail...)
		reports = append(reports, r2)
	}

	return reports
}
