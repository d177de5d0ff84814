package trafficController

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trafficwarden/aliyun/models"
)

func TestDesiredStatus(t *testing.T) {
	tests := []struct {
		name        string
		trafficGB   float64
		thresholdGB float64
		expected    models.InstanceStatus
	}{
		{"under threshold", 50, 200, models.StatusRunning},
		{"at threshold", 10, 10, models.StatusStopped},
		{"over threshold", 11, 10, models.StatusStopped},
		{"zero traffic", 0, 10, models.StatusRunning},
		{"zero threshold", 0, 0, models.StatusStopped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, desiredStatus(tt.trafficGB, tt.thresholdGB))
		})
	}
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		name     string
		current  models.InstanceStatus
		desired  models.InstanceStatus
		expected bool
	}{
		{"running satisfies running", models.StatusRunning, models.StatusRunning, true},
		{"starting converges to running", models.StatusStarting, models.StatusRunning, true},
		{"stopped does not satisfy running", models.StatusStopped, models.StatusRunning, false},
		{"stopping does not satisfy running", models.StatusStopping, models.StatusRunning, false},
		{"stopped satisfies stopped", models.StatusStopped, models.StatusStopped, true},
		{"stopping converges to stopped", models.StatusStopping, models.StatusStopped, true},
		{"running does not satisfy stopped", models.StatusRunning, models.StatusStopped, false},
		{"starting does not satisfy stopped", models.StatusStarting, models.StatusStopped, false},
		{"pending does not satisfy running", models.StatusPending, models.StatusRunning, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, satisfies(tt.current, tt.desired))
		})
	}
}
