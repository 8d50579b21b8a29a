package models

import "strings"

// IntervalUnit is the time unit of one input period. The EIP API owns the accepted
// set; values are forwarded as given and only checked here for logging.
type IntervalUnit string

const (
	UnitSeconds IntervalUnit = "seconds"
	UnitMinutes IntervalUnit = "minutes"
	UnitHours   IntervalUnit = "hours"
	UnitDays    IntervalUnit = "days"
)

// IsKnownIntervalUnit reports whether s names a unit the gateway has seen the EIP API accept.
// Singular spellings and case differences are tolerated.
func IsKnownIntervalUnit(s string) bool {
	u := strings.ToLower(strings.TrimSpace(s))
	if !strings.HasSuffix(u, "s") {
		u += "s"
	}
	switch IntervalUnit(u) {
	case UnitSeconds, UnitMinutes, UnitHours, UnitDays:
		return true
	default:
		return false
	}
}
