package platinumd

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/mdouchement/logger"
	"github.com/mdouchement/platinumd/platinum"
)

type Controller struct {
	cooler   Cooler
	events   chan event
	listener net.Listener
	ticker   *time.Ticker
	fans     map[platinum.Fan]Fan
	shapers  map[platinum.Fan]Shaper
	lighting *Lighting
	pump     string
	firmware string
	duties   map[platinum.Fan]int
	active   Snapshot
}

func New(cfg Config, cooler Cooler, polling time.Duration) (*Controller, error) {
	c := &Controller{
		cooler:  cooler,
		events:  make(chan event, 10),
		ticker:  time.NewTicker(polling),
		fans:    make(map[platinum.Fan]Fan),
		shapers: make(map[platinum.Fan]Shaper),
		duties:  make(map[platinum.Fan]int),
	}

	cooling, err := cfg.Cooling()
	if err != nil {
		return nil, err
	}

	for _, fan := range cfg.FanSettings {
		c.fans[fan.ID] = *fan

		switch fan.Mode {
		case FanModeFixed:
			c.duties[fan.ID] = fan.Duty
		case FanModeCurve:
			c.duties[fan.ID] = DutyAuto
		case FanModeSoftware:
			c.shapers[fan.ID] = NewCurveShaper(fan.Points)
			c.duties[fan.ID] = cooling.Fans[fan.ID].Duty
		}
	}

	c.lighting = cfg.Lighting
	c.pump = cfg.PumpMode
	if c.pump == "" {
		c.pump = "balanced"
	}

	err = os.MkdirAll(filepath.Dir(cfg.Socket), 0o755)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}

	if _, err := os.Stat(cfg.Socket); err == nil {
		fmt.Printf("Removing existing %s\n", cfg.Socket)
		os.Remove(cfg.Socket)
	}
	c.listener, err = net.Listen("unix", cfg.Socket)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}

	// The device must hold the full desired state before polling starts.
	if err := c.initialize(cfg, cooling); err != nil {
		c.listener.Close()
		return nil, err
	}

	return c, nil
}

// initialize pushes the configured state to the cooler: pump mode and fan
// settings in one report, then the lighting plan if any.
func (c *Controller) initialize(cfg Config, cooling platinum.Cooling) error {
	firmware, err := c.cooler.FirmwareVersion()
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	c.firmware = firmware

	if err := c.cooler.ApplyCooling(cooling); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	if l := cfg.Lighting; l != nil {
		err := c.cooler.SetColors(
			platinum.Channel(l.Channel),
			platinum.LightingMode(l.Mode),
			slices.Values(l.Colors),
		)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
	}

	return nil
}

func (c *Controller) Launch(ctx context.Context) {
	log := logger.LogWith(ctx)

	go c.eventLoop(ctx)

	http.HandleFunc("/monitor", c.monitor(log))
	go func() {
		for {
			log.Info("Starting HTTP server on ", c.listener.Addr().String())
			err := http.Serve(c.listener, nil)
			if err != nil {
				log.WithError(err).Error("Could not serve HTTP")
			}
			time.Sleep(2 * time.Second)
		}
	}()

	go func() {
		for {
			select {
			case <-c.ticker.C:
				status, err := c.cooler.Status()
				if err != nil {
					log.WithError(err).Error("Could not read cooler status")
					continue
				}

				c.shape(log, status)
				c.events <- event{name: eventUpdateStatus, status: status}

			case <-ctx.Done():
				c.ticker.Stop()
				if err := c.listener.Close(); err != nil {
					log.WithError(err).Error("Could not close socket listener")
				}
				if err := os.Remove(c.listener.Addr().String()); err != nil && err != os.ErrNotExist {
					// listener.Close() should close the socket but ceinture et bretelles!
					log.WithError(err).Errorf("Could not remove socket %s", c.listener.Addr().String())
				}

				close(c.events)
				return
			}
		}
	}()
}

// shape drives the software-mode fans from the coolant temperature.
func (c *Controller) shape(log logger.Logger, status *platinum.Status) {
	for fid, shaper := range c.shapers {
		duty := shaper.Eval(status.Temperature)
		if duty == c.duties[fid] {
			continue
		}

		log.Infof("Set duty %d%% for fan%d(%s) on %.1f°C coolant", duty, fid+1, c.fans[fid].Label, status.Temperature)
		if err := c.cooler.SetFixedDuty(fid, duty); err != nil {
			log.WithError(err).Errorf("Could not set duty for fan%d", fid+1)
			continue
		}

		c.duties[fid] = duty
	}
}

func (c *Controller) eventLoop(ctx context.Context) {
	log := logger.LogWith(ctx)
	watchers := map[int64]chan<- []byte{}

	for e := range c.events {
		switch e.name {
		case eventUpdateStatus:
			c.refresh(log, e.status)
			c.events <- event{name: eventRefreshWatchers}

		case eventRefreshWatchers:
			payload, err := json.Marshal(c.active)
			if err != nil {
				log.WithError(err).Error("Could not serialize snapshot") // Should never happen
				continue
			}

			for _, watcher := range watchers {
				watcher <- payload
			}
		case eventWatch:
			watchers[e.monitorID] = e.monitor
			c.events <- event{name: eventRefreshWatchers}
		case eventUnwatch:
			close(watchers[e.monitorID])
			delete(watchers, e.monitorID)
		}
	}
}

// refresh folds a fresh status into the active snapshot, logging speed
// changes without flooding.
func (c *Controller) refresh(log logger.Logger, status *platinum.Status) {
	snapshot := Snapshot{
		At:          time.Now(),
		Firmware:    c.firmware,
		Temperature: status.Temperature,
		PumpRPM:     status.PumpSpeed,
		PumpMode:    c.pump,
	}

	var change bool
	for i, rpm := range status.FanSpeeds {
		fid := platinum.Fan(i)
		snapshot.Fans = append(snapshot.Fans, FanReading{
			Label: c.fans[fid].Label,
			RPM:   rpm,
			Duty:  c.duties[fid],
		})

		const tolerance = 5
		if len(c.active.Fans) > i {
			if prev := c.active.Fans[i].RPM; prev != 0 && (rpm < prev-tolerance || rpm > prev+tolerance) {
				change = true
			}
		}
	}

	if change {
		var speeds []string
		for i, fan := range snapshot.Fans {
			speeds = append(speeds, fmt.Sprintf("fan%d(%s): %d", i+1, fan.Label, fan.RPM))
		}
		speeds = append(speeds, fmt.Sprintf("pump: %d", snapshot.PumpRPM))
		log.Infof("%.1f°C - %s", snapshot.Temperature, strings.Join(speeds, " - "))
	}

	c.active = snapshot
}

func (c *Controller) monitor(log logger.Logger) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Client connected")

		// Set http headers required for SSE.
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		disconnected := r.Context().Done()

		id := genID()
		ch := make(chan []byte, 20)
		c.events <- event{name: eventWatch, monitorID: id, monitor: ch}

		rc := http.NewResponseController(w)
		for {
			select {
			case <-disconnected:
				log.Info("Client disconnected")
				c.events <- event{name: eventUnwatch, monitorID: id}
				return
			case payload := <-ch:
				_, err := w.Write(append(payload, '\n', '\n'))
				if err != nil {
					log.WithError(err).Error("Could not write monitor SSE payload")
					return
				}

				err = rc.Flush()
				if err != nil {
					log.WithError(err).Error("Could not flush monitor SSE payload")
					return
				}
			}
		}
	}
}
