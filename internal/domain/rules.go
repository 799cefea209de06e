package domain

// PointRules maps scoreable actions to point values for one organization.
type PointRules struct {
	Present      int `json:"present"`
	Absent       int `json:"absent"`
	Late         int `json:"late"`
	Excused      int `json:"excused"`
	HonorAward   int `json:"honor_award"`
	BadgeEarn    int `json:"badge_earn"`
	BadgeLevelUp int `json:"badge_level_up"`
}

// DefaultPointRules are applied when an organization has no stored
// configuration, or its stored configuration cannot be parsed.
func DefaultPointRules() PointRules {
	return PointRules{
		Present:      1,
		Absent:       0,
		Late:         0,
		Excused:      0,
		HonorAward:   5,
		BadgeEarn:    5,
		BadgeLevelUp: 10,
	}
}

// AttendancePointsByStatus flattens the attendance values into the map
// shape the persistence layer computes deltas from. The implicit "none"
// status is deliberately absent; missing keys score zero.
func (r PointRules) AttendancePointsByStatus() map[string]int {
	return map[string]int{
		string(AttendancePresent): r.Present,
		string(AttendanceAbsent):  r.Absent,
		string(AttendanceLate):    r.Late,
		string(AttendanceExcused): r.Excused,
	}
}

func (r PointRules) ForAttendanceStatus(status AttendanceStatus) int {
	switch status {
	case AttendancePresent:
		return r.Present
	case AttendanceAbsent:
		return r.Absent
	case AttendanceLate:
		return r.Late
	case AttendanceExcused:
		return r.Excused
	default:
		// AttendanceNone and anything unrecognized score zero.
		return 0
	}
}
