package platinumd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/mdouchement/logger"
	"github.com/mdouchement/platinumd/platinum"
)

// wireTransport records every written report and answers status reads with
// a canned snapshot at 30.9°C coolant.
type wireTransport struct {
	sent [][]byte
}

func (m *wireTransport) Write(p []byte) (int, error) {
	clone := make([]byte, len(p))
	copy(clone, p)
	m.sent = append(m.sent, clone)
	return len(p), nil
}

func (m *wireTransport) Read(p []byte) (int, error) {
	buf := make([]byte, platinum.ReportLength)
	buf[2] = 0x11 // firmware 1.1.15
	buf[3] = 15
	buf[7] = 229 // 30.9°C
	buf[8] = 30
	binary.LittleEndian.PutUint16(buf[15:17], 1499)
	binary.LittleEndian.PutUint16(buf[22:24], 1512)
	binary.LittleEndian.PutUint16(buf[29:31], 2702)
	return copy(p, buf), nil
}

func (m *wireTransport) Close() error {
	return nil
}

func TestControllerShapeKeepsSiblingSettings(t *testing.T) {
	// fan1 follows the cooler's own table while fan2 is shaped by the
	// daemon. Shaping fan2 must not undo fan1's curve or the pump mode.
	body := fmt.Sprintf(`
socket: %s
pump_mode: extreme
fan_settings:
  fan1:
    label: front
    mode: curve
    points:
      - 20: 20%%
      - 60: 100%%
  fan2:
    label: rear
    mode: software
    points:
      - 20: 20%%
      - 40: 60%%
      - 60: 100%%
`, filepath.Join(t.TempDir(), "platinumd.sock"))

	cfg, err := Load(writeConfig(t, body))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	mock := &wireTransport{}
	device := platinum.NewController(mock, platinum.H115iPlatinum)

	c, err := New(cfg, device, time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.listener.Close()

	h := logger.NewSlogTextHandler(io.Discard, &logger.SlogTextOption{})
	log := logger.WrapSlogHandler(h)

	status, err := device.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}

	c.shape(log, status)

	// 30.9°C on fan2's curve lowers it from the 100% startup duty, so one
	// set-cooling report goes out.
	req := mock.sent[len(mock.sent)-1]
	if req[2] != byte(platinum.CommandSetCooling) {
		t.Fatalf("command = %#02x, want 0x14", req[2])
	}

	if req[0x11] != byte(platinum.FanModeFixed) {
		t.Errorf("fan2 mode byte = %#02x, want 0x2", req[0x11])
	}
	if got := float64(req[0x16]) / 2.55; math.Abs(got-41) > 1/2.55 {
		t.Errorf("fan2 duty byte = %d (%.1f%%), want ≈41%%", req[0x16], got)
	}

	if req[0x0b] != byte(platinum.FanModeCurve) {
		t.Errorf("fan1 mode byte = %#02x, want 0x0", req[0x0b])
	}
	wantTable := append([]byte{20, 51, 60, 255}, bytes.Repeat([]byte{60, 255}, 5)...)
	if !bytes.Equal(req[0x1e:0x2c], wantTable) {
		t.Errorf("fan1 table = %v, want %v", req[0x1e:0x2c], wantTable)
	}

	if req[0x17] != byte(platinum.PumpModeExtreme) {
		t.Errorf("pump mode byte = %#02x, want %#02x", req[0x17], platinum.PumpModeExtreme)
	}
}
