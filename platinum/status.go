package platinum

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrTruncatedReport = errors.New("truncated status report")

// decodeStatus parses one status report. All fields live at fixed offsets;
// a buffer long enough to hold them always decodes.
func decodeStatus(buf []byte, fanCount int) (*Status, error) {
	if len(buf) < statusReportMin {
		return nil, fmt.Errorf("%w: %d byte(s), need %d", ErrTruncatedReport, len(buf), statusReportMin)
	}

	s := &Status{
		Firmware: Version{
			Major: buf[fieldFirmware.offset] >> 4,
			Minor: buf[fieldFirmware.offset] & 0x0f,
			Patch: buf[fieldFirmware.offset+1],
		},
		Temperature: DecodeTemperature(buf[fieldTempInt.offset], buf[fieldTempFrac.offset]),
		PumpSpeed:   binary.LittleEndian.Uint16(buf[fieldPumpSpeed.offset:fieldPumpSpeed.end()]),
	}

	for _, f := range []field{fieldFan1Speed, fieldFan2Speed}[:fanCount] {
		s.FanSpeeds = append(s.FanSpeeds, binary.LittleEndian.Uint16(buf[f.offset:f.end()]))
	}

	return s, nil
}
