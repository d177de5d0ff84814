package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// InstanceStatus is the lifecycle status reported by the instance service.
type InstanceStatus string

const (
	StatusPending  InstanceStatus = "Pending"
	StatusStarting InstanceStatus = "Starting"
	StatusRunning  InstanceStatus = "Running"
	StatusStopping InstanceStatus = "Stopping"
	StatusStopped  InstanceStatus = "Stopped"
)

// TrafficDetail is one per-region usage record from the traffic listing.
// Traffic is kept raw because the provider serializes counters both as
// numbers and as quoted strings, and a record with a garbage counter must
// count as zero rather than poison the whole response.
type TrafficDetail struct {
	Region  string          `json:"Region"`
	Traffic json.RawMessage `json:"Traffic"`
}

// Bytes returns the byte counter, or 0 when absent or non-numeric.
func (d TrafficDetail) Bytes() float64 {
	raw := strings.Trim(string(d.Traffic), `"`)
	if raw == "" || raw == "null" {
		return 0
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}

// TrafficListResult is the response of the traffic listing action.
type TrafficListResult struct {
	RequestID      string `json:"RequestId"`
	TrafficDetails struct {
		TrafficDetail []TrafficDetail `json:"TrafficDetail"`
	} `json:"TrafficDetails"`
}

// InstanceAttributes is one instance record from DescribeInstances.
type InstanceAttributes struct {
	InstanceID string         `json:"InstanceId"`
	RegionID   string         `json:"RegionId"`
	Status     InstanceStatus `json:"Status"`
}

// DescribeInstancesResult is the response of the describe action.
type DescribeInstancesResult struct {
	RequestID  string `json:"RequestId"`
	TotalCount int    `json:"TotalCount"`
	Instances  struct {
		Instance []InstanceAttributes `json:"Instance"`
	} `json:"Instances"`
}

// ActionAck acknowledges a fire-and-forget lifecycle action.
type ActionAck struct {
	RequestID string `json:"RequestId"`
}
