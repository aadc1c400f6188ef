package platinum

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/mdouchement/logger"
	hid "github.com/sstallion/go-hid"
)

var ErrNotFound = errors.New("device not found/plugged")

// Transport moves whole reports to and from the device. Reports are
// delivered in order; the transport owns retries, timeouts and lifecycle.
type Transport interface {
	Write(p []byte) (int, error)
	Read(p []byte) (int, error)
	Close() error
}

// Controller drives one Platinum cooler. All operations are synchronous:
// each builds its report(s), writes them, and optionally reads one response.
// The device may reset any cooling field missing from a set-cooling report,
// so the controller keeps the last applied cooling state and every setter
// resends it whole with its own change folded in. Nothing survives a
// process restart; callers reassert their desired state through
// ApplyCooling on startup.
type Controller struct {
	sync    sync.Mutex
	dev     Transport
	cfg     DeviceConfig
	log     logger.Logger
	rbuf    []byte
	cooling Cooling
}

// OpenAuto opens the first supported cooler found on the bus.
func OpenAuto() (*Controller, error) {
	if err := hid.Init(); err != nil {
		return nil, fmt.Errorf("hidapi: %w", err)
	}

	var found *hid.DeviceInfo
	err := hid.Enumerate(CorsairVendorID, 0, func(info *hid.DeviceInfo) error {
		if found != nil {
			return nil
		}
		if _, ok := DeviceConfigs[info.ProductID]; ok {
			clone := *info
			found = &clone
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate: %w", err)
	}
	if found == nil {
		return nil, ErrNotFound
	}

	fmt.Printf("Found %s on %s - PID: %04x - SN: %s\n",
		DeviceConfigs[found.ProductID].Name, found.Path, found.ProductID, found.SerialNbr)
	return Open(found.Path, DeviceConfigs[found.ProductID])
}

// Open opens the cooler at the given HID path with an explicit variant
// configuration.
func Open(path string, cfg DeviceConfig) (*Controller, error) {
	if err := hid.Init(); err != nil {
		return nil, fmt.Errorf("hidapi: %w", err)
	}

	dev, err := hid.OpenPath(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return NewController(dev, cfg), nil
}

// NewController wraps an already-opened transport.
func NewController(dev Transport, cfg DeviceConfig) *Controller {
	c := &Controller{
		dev:  dev,
		cfg:  cfg,
		rbuf: make([]byte, ReportLength),
		cooling: Cooling{
			Pump: PumpModeBalanced,
			Fans: make([]FanSetting, cfg.FanCount),
		},
	}

	// Until ApplyCooling provides the desired state, partial setters fall
	// back on full fans and a balanced pump.
	for i := range c.cooling.Fans {
		c.cooling.Fans[i].Duty = 100
	}

	return c
}

func (c *Controller) SetLogger(l logger.Logger) {
	c.log = l
}

func (c *Controller) Close() error {
	return c.dev.Close()
}

// Config returns the immutable variant configuration.
func (c *Controller) Config() DeviceConfig {
	return c.cfg
}

// Status queries the device and decodes one snapshot.
func (c *Controller) Status() (*Status, error) {
	c.sync.Lock()
	defer c.sync.Unlock()

	if err := c.write(newCommand(SelectorCooling, CommandGetStatus)); err != nil {
		return nil, fmt.Errorf("get_status: %w", err)
	}

	n, err := c.dev.Read(c.rbuf)
	if err != nil {
		return nil, fmt.Errorf("get_status: read: %w", err)
	}
	if c.log != nil {
		c.log.Debugf("platinum: read %d byte(s): % x", n, c.rbuf[:n])
	}

	status, err := decodeStatus(c.rbuf[:n], c.cfg.FanCount)
	if err != nil {
		return nil, fmt.Errorf("get_status: %w", err)
	}
	return status, nil
}

// FirmwareVersion reports the firmware version as "major.minor.patch".
func (c *Controller) FirmwareVersion() (string, error) {
	status, err := c.Status()
	if err != nil {
		return "", fmt.Errorf("firmware_version: %w", err)
	}
	return status.Firmware.String(), nil
}

// ApplyCooling sends the full desired cooling state in a single report.
// One setting per fan is required.
func (c *Controller) ApplyCooling(cooling Cooling) error {
	if len(cooling.Fans) != c.cfg.FanCount {
		return fmt.Errorf("set_cooling: %d fan setting(s) for %d fan(s)", len(cooling.Fans), c.cfg.FanCount)
	}

	c.sync.Lock()
	defer c.sync.Unlock()

	if err := c.writeCooling(cooling); err != nil {
		return fmt.Errorf("set_cooling: %w", err)
	}
	return nil
}

// SetPumpMode applies a pump mode, resending the current fan settings.
func (c *Controller) SetPumpMode(mode PumpMode) error {
	c.sync.Lock()
	defer c.sync.Unlock()

	cooling := c.snapshotCooling()
	cooling.Pump = mode

	if err := c.writeCooling(cooling); err != nil {
		return fmt.Errorf("set_pump_mode: %w", err)
	}
	return nil
}

// SetFixedDuty pins one fan to a duty percentage, resending the pump mode
// and sibling fan settings. The percentage is scaled, not validated: keep
// it in [0,100].
func (c *Controller) SetFixedDuty(fan Fan, percent int) error {
	if err := c.checkFan(fan); err != nil {
		return fmt.Errorf("set_fixed_duty: %w", err)
	}

	c.sync.Lock()
	defer c.sync.Unlock()

	cooling := c.snapshotCooling()
	cooling.Fans[fan] = FanSetting{Duty: percent}

	if err := c.writeCooling(cooling); err != nil {
		return fmt.Errorf("set_fixed_duty: %w", err)
	}
	return nil
}

// SetCurve installs a 1..CurvePoints temperature/duty profile on one fan,
// resending the pump mode and sibling fan settings.
func (c *Controller) SetCurve(fan Fan, profile []CurvePoint) error {
	if err := c.checkFan(fan); err != nil {
		return fmt.Errorf("set_curve: %w", err)
	}
	// An empty profile would otherwise degrade into a fixed setting.
	if _, err := encodeProfile(profile); err != nil {
		return fmt.Errorf("set_curve: %w", err)
	}

	c.sync.Lock()
	defer c.sync.Unlock()

	cooling := c.snapshotCooling()
	cooling.Fans[fan] = FanSetting{Profile: profile}

	if err := c.writeCooling(cooling); err != nil {
		return fmt.Errorf("set_curve: %w", err)
	}
	return nil
}

// snapshotCooling clones the cached state so a failed write never leaves
// half-mutated settings behind. Callers must hold the mutex.
func (c *Controller) snapshotCooling() Cooling {
	cooling := c.cooling
	cooling.Fans = slices.Clone(c.cooling.Fans)
	return cooling
}

// writeCooling builds and sends the combined set-cooling report carrying
// the pump mode and every fan's settings, then keeps the state for the
// next partial update. Callers must hold the mutex.
func (c *Controller) writeCooling(cooling Cooling) error {
	r := newCommand(SelectorCooling, CommandSetCooling)
	r.put(fieldPumpMode, byte(cooling.Pump))
	for fan, setting := range cooling.Fans {
		if err := applyFanSetting(r, Fan(fan), setting); err != nil {
			return fmt.Errorf("fan%d: %w", fan+1, err)
		}
	}

	if err := c.write(r); err != nil {
		return err
	}

	c.cooling = cooling
	return nil
}

// SetColors resolves the caller's colors into a per-LED plan and sends it.
// The source is consumed lazily, so infinite generators are fine. The two
// lighting blocks are written back to back; a transport failure between them
// leaves the strip halves mismatched, which callers recover from by sending
// again.
func (c *Controller) SetColors(channel Channel, mode LightingMode, colors iter.Seq[Color]) error {
	plan, err := c.cfg.resolveColors(channel, mode, colors)
	if err != nil {
		return fmt.Errorf("set_colors: %w", err)
	}

	c.sync.Lock()
	defer c.sync.Unlock()

	for _, r := range lightingReports(plan) {
		if err := c.write(r); err != nil {
			return fmt.Errorf("set_colors: %w", err)
		}
	}
	return nil
}

func (c *Controller) checkFan(fan Fan) error {
	if int(fan) >= c.cfg.FanCount {
		return fmt.Errorf("no fan%d on a %s", fan+1, c.cfg.Name)
	}
	return nil
}

func (c *Controller) write(r *report) error {
	n, err := c.dev.Write(r.bytes())
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if c.log != nil {
		c.log.Debugf("platinum: wrote %d byte(s): % x", n, r.bytes())
	}
	return nil
}
