package platinumd

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mdouchement/platinumd/platinum"
	"go.yaml.in/yaml/v4"
)

// Fan control modes accepted in the configuration. Hardware curves live in
// the cooler's 7-point table; software curves are evaluated by the daemon
// against the coolant temperature and pushed as fixed duties.
const (
	FanModeFixed    = "fixed"
	FanModeCurve    = "curve"
	FanModeSoftware = "software"
)

type Config struct {
	Debug       bool            `yaml:"debug"`
	Socket      string          `yaml:"socket"`
	Polling     Duration        `yaml:"polling"`
	PumpMode    string          `yaml:"pump_mode"`
	FanSettings map[string]*Fan `yaml:"fan_settings"`
	Lighting    *Lighting       `yaml:"lighting"`
}

type Fan struct {
	ID         platinum.Fan          `yaml:"-"`
	Label      string                `yaml:"label"`
	Mode       string                `yaml:"mode"`
	DutyYAML   string                `yaml:"duty"`
	PointsYAML []map[int]string      `yaml:"points"`
	Duty       int                   `yaml:"-"`
	Points     []platinum.CurvePoint `yaml:"-"`
}

type Lighting struct {
	Channel    string           `yaml:"channel"`
	Mode       string           `yaml:"mode"`
	ColorsYAML []string         `yaml:"colors"`
	Colors     []platinum.Color `yaml:"-"`
}

func Load(path string) (Config, error) {
	var c Config

	f, err := os.Open(path)
	if err != nil {
		return c, err
	}
	defer f.Close()

	codec := yaml.NewDecoder(f)
	err = codec.Decode(&c)
	if err != nil {
		return c, err
	}

	if c.Socket == "" {
		c.Socket = "/run/platinumd/platinumd.sock"
	}
	if c.Polling.Duration <= 0 {
		c.Polling.Duration = time.Second
	}

	//

	if _, err := c.Pump(); err != nil {
		return c, err
	}

	reName := regexp.MustCompile(`^fan(\d+)$`)
	for fname, fan := range c.FanSettings {
		match := reName.FindStringSubmatch(fname)
		if len(match) != 2 {
			return c, fmt.Errorf("%s: invalid name", fname)
		}
		id, err := strconv.ParseUint(match[1], 10, 8)
		if err != nil {
			return c, fmt.Errorf("%s: invalid number", fname) // Should not happen because of the regex check
		}
		if id < 1 || id > 2 {
			return c, fmt.Errorf("%s: invalid number range", fname)
		}
		fan.ID = platinum.Fan(id - 1) // fan1 => 0, fan2 => 1

		switch fan.Mode {
		case FanModeFixed:
			fan.Duty, err = parseDuty(fan.DutyYAML)
			if err != nil {
				return c, fmt.Errorf("%s: %w", fname, err)
			}
		case FanModeCurve, FanModeSoftware:
			fan.Points, err = parsePoints(fan.PointsYAML)
			if err != nil {
				return c, fmt.Errorf("%s: %w", fname, err)
			}
			if fan.Mode == FanModeCurve && len(fan.Points) > platinum.CurvePoints {
				return c, fmt.Errorf("%s: at most %d points fit the cooler's table, use software mode", fname, platinum.CurvePoints)
			}
		default:
			return c, fmt.Errorf("%s: invalid mode %q", fname, fan.Mode)
		}
	}

	for id := range 2 {
		name := fmt.Sprintf("fan%d", id+1)
		if _, ok := c.FanSettings[name]; !ok {
			return c, fmt.Errorf("%s: no settings provided", name)
		}
	}

	//

	if l := c.Lighting; l != nil {
		switch platinum.Channel(l.Channel) {
		case platinum.ChannelLED, platinum.ChannelSync:
		default:
			return c, fmt.Errorf("lighting: invalid channel %q", l.Channel)
		}

		switch platinum.LightingMode(l.Mode) {
		case platinum.ModeFixed, platinum.ModeSuperFixed:
		default:
			return c, fmt.Errorf("lighting: invalid mode %q", l.Mode)
		}

		if len(l.ColorsYAML) == 0 {
			return c, fmt.Errorf("lighting: no colors provided")
		}

		l.Colors = make([]platinum.Color, 0, len(l.ColorsYAML))
		for _, s := range l.ColorsYAML {
			color, err := colorful.Hex(s)
			if err != nil {
				return c, fmt.Errorf("lighting: %s: %w", s, err)
			}

			r, g, b := color.RGB255()
			l.Colors = append(l.Colors, platinum.Color{R: r, G: g, B: b})
		}
	}

	return c, nil
}

// Pump maps the configured pump mode, defaulting to balanced.
func (c Config) Pump() (platinum.PumpMode, error) {
	switch c.PumpMode {
	case "quiet":
		return platinum.PumpModeQuiet, nil
	case "balanced", "":
		return platinum.PumpModeBalanced, nil
	case "extreme":
		return platinum.PumpModeExtreme, nil
	}
	return 0, fmt.Errorf("invalid pump_mode %q", c.PumpMode)
}

// Cooling assembles the full desired cooling state for ApplyCooling.
// Software fans start at full duty; the daemon lowers them as soon as the
// first coolant reading arrives.
func (c Config) Cooling() (platinum.Cooling, error) {
	pump, err := c.Pump()
	if err != nil {
		return platinum.Cooling{}, err
	}

	cooling := platinum.Cooling{
		Pump: pump,
		Fans: make([]platinum.FanSetting, 2),
	}

	for _, fan := range c.FanSettings {
		switch fan.Mode {
		case FanModeFixed:
			cooling.Fans[fan.ID] = platinum.FanSetting{Duty: fan.Duty}
		case FanModeCurve:
			cooling.Fans[fan.ID] = platinum.FanSetting{Profile: fan.Points}
		case FanModeSoftware:
			cooling.Fans[fan.ID] = platinum.FanSetting{Duty: 100}
		}
	}

	return cooling, nil
}

var rePercent = regexp.MustCompile(`^\d+%$`)

func parseDuty(s string) (int, error) {
	if !rePercent.MatchString(s) {
		return 0, fmt.Errorf("invalid duty format %q", s)
	}

	duty, err := strconv.Atoi(strings.TrimRight(s, "%"))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", s, err)
	}
	if duty < 0 || duty > 100 {
		return 0, fmt.Errorf("%s: duty must be in range [0,100]", s)
	}

	return duty, nil
}

func parsePoints(points []map[int]string) ([]platinum.CurvePoint, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("no points provided")
	}

	parsed := make([]platinum.CurvePoint, 0, len(points))

	var prevTemp, prevDuty int
	for i, point := range points {
		if len(point) != 1 {
			return nil, fmt.Errorf("point %d: expected a single temperature: duty pair", i)
		}

		for temp, duty := range point {
			if temp < 0 || temp > 100 {
				return nil, fmt.Errorf("%d°C: temperature must be in range [0,100]", temp)
			}
			if i > 0 && temp <= prevTemp {
				return nil, fmt.Errorf("%d°C: temperature not greater than previous one", temp)
			}

			d, err := parseDuty(duty)
			if err != nil {
				return nil, err
			}
			if d < prevDuty {
				return nil, fmt.Errorf("%s: duty lower than previous one", duty)
			}

			prevTemp, prevDuty = temp, d
			parsed = append(parsed, platinum.CurvePoint{Temperature: uint8(temp), Duty: d})
		}
	}

	return parsed, nil
}
