package platinum

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile []CurvePoint
		want    []byte
	}{
		{
			name:    "single point replicated across the table",
			profile: []CurvePoint{{35, 50}},
			want:    bytes.Repeat([]byte{35, 128}, 7),
		},
		{
			name:    "two points padded with the final one",
			profile: []CurvePoint{{20, 0}, {55, 100}},
			want:    append([]byte{20, 0, 55, 255}, bytes.Repeat([]byte{55, 255}, 5)...),
		},
		{
			name: "full table unpadded",
			profile: []CurvePoint{
				{20, 10}, {25, 20}, {30, 35}, {35, 50}, {40, 65}, {50, 85}, {60, 100},
			},
			want: []byte{20, 26, 25, 51, 30, 89, 35, 128, 40, 166, 50, 217, 60, 255},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := encodeProfile(tt.profile)
			if err != nil {
				t.Fatalf("encodeProfile: %v", err)
			}
			if len(table) != 2*CurvePoints {
				t.Fatalf("table length = %d, want %d", len(table), 2*CurvePoints)
			}
			if !bytes.Equal(table, tt.want) {
				t.Errorf("table = %v, want %v", table, tt.want)
			}
		})
	}
}

func TestEncodeProfilePadding(t *testing.T) {
	// Whatever the supplied length, the table always holds exactly
	// CurvePoints entries and every padded entry equals the final one.
	profile := []CurvePoint{{20, 10}, {30, 30}, {40, 60}, {50, 80}, {60, 100}}

	for n := 1; n <= len(profile); n++ {
		table, err := encodeProfile(profile[:n])
		if err != nil {
			t.Fatalf("encodeProfile(%d points): %v", n, err)
		}

		last := profile[n-1]
		for i := n; i < CurvePoints; i++ {
			if table[2*i] != last.Temperature || table[2*i+1] != DutyToByte(last.Duty) {
				t.Errorf("%d points: entry %d = (%d,%d), want (%d,%d)",
					n, i, table[2*i], table[2*i+1], last.Temperature, DutyToByte(last.Duty))
			}
		}
	}
}

func TestEncodeProfileErrors(t *testing.T) {
	if _, err := encodeProfile(nil); !errors.Is(err, ErrEmptyProfile) {
		t.Errorf("empty profile: err = %v, want ErrEmptyProfile", err)
	}

	long := make([]CurvePoint, CurvePoints+1)
	if _, err := encodeProfile(long); !errors.Is(err, ErrProfileTooLong) {
		t.Errorf("%d points: err = %v, want ErrProfileTooLong", len(long), err)
	}
}
