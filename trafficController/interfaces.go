package trafficController

import (
	"context"

	"trafficwarden/aliyun/models"
)

// TrafficAPI defines the traffic aggregation operations
type TrafficAPI interface {
	GetTrafficByRegion(ctx context.Context) (map[string]float64, error)
}

// InstanceAPI defines the instance lifecycle operations
type InstanceAPI interface {
	GetInstanceStatus(ctx context.Context, instanceID, region string) (models.InstanceStatus, error)
	StartInstance(ctx context.Context, instanceID, region string) error
	StopInstance(ctx context.Context, instanceID, region string) error
}
