package platinum

import "fmt"

// field names a fixed region of a report: offset of its first byte and its
// width. Encodings (raw, scaled duty, u16le) belong to the code putting
// bytes in or taking them out; the field only pins the location.
type field struct {
	offset int
	width  int
}

func (f field) end() int {
	return f.offset + f.width
}

// report is one outgoing 64-byte buffer. Unused bytes stay zero.
type report struct {
	buf [ReportLength]byte
}

func newReport(selector Selector) *report {
	r := &report{}
	r.buf[0] = ReportID
	r.buf[offsetSelector] = byte(selector) & 0b111
	return r
}

func newCommand(selector Selector, command Command) *report {
	r := newReport(selector)
	r.buf[offsetCommand] = byte(command)
	return r
}

// put writes data at the field's offsets. The data length must match the
// field width; a mismatch or an out-of-bounds field is a programming error.
func (r *report) put(f field, data ...byte) {
	if len(data) != f.width || f.end() > ReportLength {
		panic(fmt.Sprintf("platinum: field [%#x,%#x) cannot hold %d byte(s)", f.offset, f.end(), len(data)))
	}
	copy(r.buf[f.offset:f.end()], data)
}

func (r *report) bytes() []byte {
	return r.buf[:]
}
