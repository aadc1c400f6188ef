package platinum

import (
	"errors"
	"testing"
)

func TestDecodeStatusTruncated(t *testing.T) {
	for _, n := range []int{0, 2, 30} {
		if _, err := decodeStatus(make([]byte, n), 2); !errors.Is(err, ErrTruncatedReport) {
			t.Errorf("decodeStatus(%d bytes): err = %v, want ErrTruncatedReport", n, err)
		}
	}

	if _, err := decodeStatus(make([]byte, statusReportMin), 2); err != nil {
		t.Errorf("decodeStatus(%d bytes): %v, want success", statusReportMin, err)
	}
}

func TestDecodeStatusFirmwareNibbles(t *testing.T) {
	buf := make([]byte, ReportLength)
	buf[2] = 0x2b // 2.11
	buf[3] = 7

	status, err := decodeStatus(buf, 2)
	if err != nil {
		t.Fatalf("decodeStatus: %v", err)
	}
	if got := status.Firmware.String(); got != "2.11.7" {
		t.Errorf("firmware = %q, want %q", got, "2.11.7")
	}
}
