package platinum

import "fmt"

type (
	Selector uint8
	Command  uint8
	Fan      uint8
	FanMode  uint8
	PumpMode uint8
)

// Channel is the symbolic target of a lighting command.
type Channel string

const (
	// ChannelLED addresses the whole strip LED by LED.
	ChannelLED Channel = "led"
	// ChannelSync addresses the pump head and fans as grouped components.
	ChannelSync Channel = "sync"
)

// LightingMode selects how caller colors map onto LEDs.
type LightingMode string

const (
	// ModeFixed broadcasts one color across each addressed group.
	ModeFixed LightingMode = "fixed"
	// ModeSuperFixed maps colors to LEDs one to one.
	ModeSuperFixed LightingMode = "super-fixed"
)

// Color is an RGB triplet as supplied by the caller. The wire uses BGR order.
type Color struct {
	R, G, B uint8
}

// CurvePoint is one temperature/duty breakpoint of a fan profile.
// Temperature is in °C, Duty a percentage in [0,100].
type CurvePoint struct {
	Temperature uint8
	Duty        int
}

// FanSetting describes the desired control mode for one fan: a fixed duty
// when Profile is empty, the given profile otherwise.
type FanSetting struct {
	Duty    int
	Profile []CurvePoint
}

// Cooling is the full desired cooling state. The device does not guarantee
// that omitted fields survive a partial update, so callers changing anything
// should resend everything through ApplyCooling.
type Cooling struct {
	Pump PumpMode
	Fans []FanSetting // indexed by Fan, length DeviceConfig.FanCount
}

// DeviceConfig describes one cooler variant. It is injected at construction
// and never mutated.
type DeviceConfig struct {
	Name          string
	ProductID     uint16
	FanCount      int
	Components    int // lighting groups: pump head plus fans
	ComponentLEDs int
	LEDCount      int // must equal Components*ComponentLEDs
}

// Supported cooler variants.
var (
	H115iPlatinum = DeviceConfig{
		Name:          "H115i Platinum",
		ProductID:     H115iPlatinumProductID,
		FanCount:      2,
		Components:    3,
		ComponentLEDs: 8,
		LEDCount:      24,
	}

	H100iPlatinum = DeviceConfig{
		Name:          "H100i Platinum",
		ProductID:     H100iPlatinumProductID,
		FanCount:      2,
		Components:    3,
		ComponentLEDs: 8,
		LEDCount:      24,
	}

	// DeviceConfigs indexes the supported variants by product id.
	DeviceConfigs = map[uint16]DeviceConfig{
		H115iPlatinumProductID: H115iPlatinum,
		H100iPlatinumProductID: H100iPlatinum,
	}
)

// Version is a firmware version decoded from a status report.
type Version struct {
	Major uint8
	Minor uint8
	Patch uint8
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Status is one decoded status snapshot.
type Status struct {
	Firmware    Version
	Temperature float64 // coolant, °C
	FanSpeeds   []uint16
	PumpSpeed   uint16
}

// Measurement is one labeled reading of a snapshot.
type Measurement struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Measurements returns the snapshot readings in fixed order: temperature,
// fans, pump.
func (s Status) Measurements() []Measurement {
	m := make([]Measurement, 0, 2+len(s.FanSpeeds))
	m = append(m, Measurement{Label: "Liquid temperature", Value: s.Temperature, Unit: "°C"})
	for i, speed := range s.FanSpeeds {
		m = append(m, Measurement{Label: fmt.Sprintf("Fan %d speed", i+1), Value: float64(speed), Unit: "rpm"})
	}
	return append(m, Measurement{Label: "Pump speed", Value: float64(s.PumpSpeed), Unit: "rpm"})
}

// DutyToByte scales a duty percentage to the device's byte scale.
// Out-of-range percentages are the caller's responsibility.
func DutyToByte(percent int) uint8 {
	return uint8((percent*255 + 50) / 100)
}

// ByteToDuty is the inverse of DutyToByte, within one quantization step.
func ByteToDuty(b uint8) int {
	return (int(b)*100 + 127) / 255
}

// DecodeTemperature combines the integer and 1/255-fractional temperature
// bytes of a status report.
func DecodeTemperature(intb, fracb uint8) float64 {
	return float64(intb) + float64(fracb)/255
}
