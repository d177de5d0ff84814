package trafficController

import (
	"trafficwarden/aliyun/models"
)

// desiredStatus computes the target lifecycle state for an instance given
// its region's aggregated traffic and its personal threshold.
func desiredStatus(trafficGB, thresholdGB float64) models.InstanceStatus {
	if trafficGB < thresholdGB {
		return models.StatusRunning
	}
	return models.StatusStopped
}

// satisfies reports whether the current status already equals the desired
// status or is converging toward it. Starting counts toward Running and
// Stopping counts toward Stopped, so a settled region produces no
// redundant lifecycle calls on subsequent ticks.
func satisfies(current, desired models.InstanceStatus) bool {
	if current == desired {
		return true
	}
	switch desired {
	case models.StatusRunning:
		return current == models.StatusStarting
	case models.StatusStopped:
		return current == models.StatusStopping
	}
	return false
}
