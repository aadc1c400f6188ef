package platinumd

import (
	"iter"
	"sync"

	"github.com/mdouchement/logger"
	"github.com/mdouchement/platinumd/platinum"
)

// A DummyCooler should only be used for dev & tests.
type DummyCooler struct {
	sync        sync.Mutex
	cfg         platinum.DeviceConfig
	log         logger.Logger
	temperature float64
	duties      map[platinum.Fan]int
	pump        platinum.PumpMode
	colors      []platinum.Color
}

func NewDummyCooler() *DummyCooler {
	c := &DummyCooler{
		cfg:         platinum.H115iPlatinum,
		temperature: 29.5,
		duties:      make(map[platinum.Fan]int),
	}
	for i := range c.cfg.FanCount {
		c.duties[platinum.Fan(i)] = 0
	}

	return c
}

func (c *DummyCooler) SetLogger(l logger.Logger) {
	c.log = l
}

func (c *DummyCooler) Close() error {
	return nil
}

func (c *DummyCooler) Config() platinum.DeviceConfig {
	return c.cfg
}

func (c *DummyCooler) FirmwareVersion() (string, error) {
	return "0.0.0", nil
}

func (c *DummyCooler) Status() (*platinum.Status, error) {
	c.sync.Lock()
	defer c.sync.Unlock()

	status := &platinum.Status{
		Temperature: c.temperature,
		PumpSpeed:   1800 + 450*uint16(c.pump),
	}
	for i := range c.cfg.FanCount {
		status.FanSpeeds = append(status.FanSpeeds, uint16(2000*float32(c.duties[platinum.Fan(i)])/100))
	}

	return status, nil
}

func (c *DummyCooler) ApplyCooling(cooling platinum.Cooling) error {
	c.sync.Lock()
	defer c.sync.Unlock()

	c.pump = cooling.Pump
	for i, setting := range cooling.Fans {
		if len(setting.Profile) > 0 {
			c.duties[platinum.Fan(i)] = setting.Profile[len(setting.Profile)-1].Duty
			continue
		}
		c.duties[platinum.Fan(i)] = setting.Duty
	}

	return nil
}

func (c *DummyCooler) SetFixedDuty(fan platinum.Fan, percent int) error {
	c.sync.Lock()
	defer c.sync.Unlock()

	c.duties[fan] = percent
	return nil
}

func (c *DummyCooler) SetColors(channel platinum.Channel, mode platinum.LightingMode, colors iter.Seq[platinum.Color]) error {
	c.sync.Lock()
	defer c.sync.Unlock()

	c.colors = c.colors[:0]
	for color := range colors {
		c.colors = append(c.colors, color)
		if len(c.colors) == c.cfg.LEDCount {
			break
		}
	}

	return nil
}
