package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateThresholds(t *testing.T) {
	cases := []struct {
		name        string
		currentDays int
		totalDays   int
		wantWarning bool
		wantAlarm   bool
	}{
		{"below both", 10, 50, false, false},
		{"exactly at warn", 180, 180, false, false},
		{"current over warn", 181, 50, true, false},
		{"total over warn", 0, 181, true, false},
		{"current at alarm boundary", 200, 50, true, false},
		{"current over alarm", 201, 50, true, true},
		{"total over alarm", 0, 201, true, true},
		{"both over alarm", 250, 250, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			warning, alarm := EvaluateThresholds(tc.currentDays, tc.totalDays, 180, 200)
			assert.Equal(t, tc.wantWarning, warning, "warning")
			assert.Equal(t, tc.wantAlarm, alarm, "alarm")
		})
	}
}
