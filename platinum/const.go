package platinum

// Report geometry. Every transfer is one fixed-size report; byte 0 carries
// the report identifier which the transport consumes, byte 1 carries the
// submodule selector in its low 3 bits, byte 2 the command code.
const (
	ReportLength = 64
	ReportID     = 0x00

	offsetSelector = 1
	offsetCommand  = 2
)

// Submodule selectors (low 3 bits of byte 1, high bits zero).
const (
	SelectorCooling   Selector = 0b000
	SelectorLighting1 Selector = 0b100
	SelectorLighting2 Selector = 0b101
)

// Command codes for cooling reports. Lighting reports carry no command
// byte: their color payload starts right after the selector.
const (
	CommandGetStatus  Command = 0xff
	CommandSetCooling Command = 0x14
)

// Fan control modes. A fan either holds a fixed duty or follows the
// temperature/duty table stored in the report.
const (
	FanModeCurve FanMode = 0x0
	FanModeFixed FanMode = 0x2
)

// Pump modes.
const (
	PumpModeQuiet    PumpMode = 0x0
	PumpModeBalanced PumpMode = 0x1
	PumpModeExtreme  PumpMode = 0x2
)

// Fan identifiers.
const (
	Fan1 Fan = iota
	Fan2
)

// CurvePoints is the capacity of the on-device temperature/duty table.
// Shorter profiles are padded by replicating their final point so the device
// keeps applying the last specified duty past the last breakpoint.
const CurvePoints = 7

// LEDsPerReport is how many colors fit in one lighting report: bytes 2..61
// hold 20 BGR triplets, the remainder goes into the second block.
const LEDsPerReport = 20

// Cooling payload layout. Fan2 fields are a fixed shift from fan1's, the two
// regions never overlap.
var (
	fieldFan1Mode  = field{offset: 0x0b, width: 1}
	fieldFan1Duty  = field{offset: 0x10, width: 1}
	fieldFan2Mode  = field{offset: 0x11, width: 1}
	fieldFan2Duty  = field{offset: 0x16, width: 1}
	fieldPumpMode  = field{offset: 0x17, width: 1}
	fieldFan1Curve = field{offset: 0x1e, width: 2 * CurvePoints}
	fieldFan2Curve = field{offset: 0x2c, width: 2 * CurvePoints}
)

// offsetColors is where the BGR payload of a lighting report starts; its
// width depends on how many LEDs the block carries.
const offsetColors = 2

// Status report layout.
var (
	fieldFirmware  = field{offset: 2, width: 2} // major nibble, minor nibble, patch byte
	fieldTempFrac  = field{offset: 7, width: 1}
	fieldTempInt   = field{offset: 8, width: 1}
	fieldFan1Speed = field{offset: 15, width: 2} // u16le RPM
	fieldFan2Speed = field{offset: 22, width: 2}
	fieldPumpSpeed = field{offset: 29, width: 2}
)

// statusReportMin is the smallest buffer the status decoder accepts: the
// pump speed field must fit entirely.
const statusReportMin = 31

// USB identifiers of the supported coolers.
const (
	CorsairVendorID = 0x1b1c

	H115iPlatinumProductID = 0x0c17
	H100iPlatinumProductID = 0x0c18
)
