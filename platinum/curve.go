package platinum

import "errors"

var (
	ErrEmptyProfile   = errors.New("empty fan profile")
	ErrProfileTooLong = errors.New("fan profile has too many points")
)

// encodeProfile normalizes a 1..CurvePoints profile into the fixed-capacity
// on-device table: temperatures raw, duties scaled, and the final supplied
// point replicated into every remaining slot. Validation happens before any
// byte is produced, so a rejected profile never reaches the wire.
func encodeProfile(profile []CurvePoint) ([]byte, error) {
	if len(profile) == 0 {
		return nil, ErrEmptyProfile
	}
	if len(profile) > CurvePoints {
		return nil, ErrProfileTooLong
	}

	table := make([]byte, 0, 2*CurvePoints)
	for _, p := range profile {
		table = append(table, p.Temperature, DutyToByte(p.Duty))
	}

	last := profile[len(profile)-1]
	for i := len(profile); i < CurvePoints; i++ {
		table = append(table, last.Temperature, DutyToByte(last.Duty))
	}

	return table, nil
}

// curveField returns the table region assigned to a fan. The regions are a
// fixed shift apart and never overlap.
func curveField(fan Fan) field {
	if fan == Fan1 {
		return fieldFan1Curve
	}
	return fieldFan2Curve
}

func modeField(fan Fan) field {
	if fan == Fan1 {
		return fieldFan1Mode
	}
	return fieldFan2Mode
}

func dutyField(fan Fan) field {
	if fan == Fan1 {
		return fieldFan1Duty
	}
	return fieldFan2Duty
}

// applyFanSetting writes one fan's descriptor into a cooling report:
// mode byte plus either the scaled fixed duty or the encoded curve table.
func applyFanSetting(r *report, fan Fan, setting FanSetting) error {
	if len(setting.Profile) == 0 {
		r.put(modeField(fan), byte(FanModeFixed))
		r.put(dutyField(fan), DutyToByte(setting.Duty))
		return nil
	}

	table, err := encodeProfile(setting.Profile)
	if err != nil {
		return err
	}

	r.put(modeField(fan), byte(FanModeCurve))
	r.put(curveField(fan), table...)
	return nil
}
