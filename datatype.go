package platinumd

import (
	"iter"
	"time"

	"github.com/mdouchement/platinumd/platinum"
)

// Cooler is the device surface the daemon drives. *platinum.Controller
// implements it; DummyCooler stands in for development.
type Cooler interface {
	Status() (*platinum.Status, error)
	FirmwareVersion() (string, error)
	ApplyCooling(platinum.Cooling) error
	SetFixedDuty(fan platinum.Fan, percent int) error
	SetColors(channel platinum.Channel, mode platinum.LightingMode, colors iter.Seq[platinum.Color]) error
	Close() error
}

// Shaper evaluates a software fan curve against the coolant temperature.
type Shaper interface {
	Eval(temperature float64) int
}

// DutyAuto marks a fan whose duty lives in the device's own curve table;
// the daemon only sees its speed.
const DutyAuto = -1

// FanReading is one fan's slice of a snapshot.
type FanReading struct {
	Label string `json:"label"`
	RPM   uint16 `json:"rpm"`
	Duty  int    `json:"duty"` // percent, or DutyAuto
}

// Snapshot is what the daemon publishes to its monitor watchers.
type Snapshot struct {
	At          time.Time    `json:"at"`
	Firmware    string       `json:"firmware"`
	Temperature float64      `json:"temperature"` // coolant, °C
	Fans        []FanReading `json:"fans"`
	PumpRPM     uint16       `json:"pump_rpm"`
	PumpMode    string       `json:"pump_mode"`
}

const (
	eventUpdateStatus    = "update-status"
	eventRefreshWatchers = "refresh-watchers"
	eventWatch           = "watch"
	eventUnwatch         = "unwatch"
)

type event struct {
	name      string
	status    *platinum.Status
	monitorID int64
	monitor   chan<- []byte
}

func genID() int64 {
	time.Sleep(time.Nanosecond)
	return time.Now().UnixNano()
}

func ToPtr[T any](v T) *T {
	return &v
}
