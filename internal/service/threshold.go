package service

// EvaluateThresholds computes the warning/alarm flags for a swab. A long
// single open session (currentDays) or a long cumulative history (totalDays)
// each independently trip a flag; thresholds are global, not per item.
func EvaluateThresholds(currentDays, totalDays, warnDays, alarmDays int) (warning, alarm bool) {
	warning = currentDays > warnDays || totalDays > warnDays
	alarm = currentDays > alarmDays || totalDays > alarmDays
	return warning, alarm
}
