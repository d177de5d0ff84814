package trafficController

import (
	"context"

	"github.com/stretchr/testify/mock"

	"trafficwarden/aliyun/models"
)

// MockTrafficAPI is a mock implementation of TrafficAPI
type MockTrafficAPI struct {
	mock.Mock
}

// GetTrafficByRegion mocks the traffic listing call
func (m *MockTrafficAPI) GetTrafficByRegion(ctx context.Context) (map[string]float64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

// MockInstanceAPI is a mock implementation of InstanceAPI
type MockInstanceAPI struct {
	mock.Mock
}

// GetInstanceStatus mocks the describe call
func (m *MockInstanceAPI) GetInstanceStatus(ctx context.Context, instanceID, region string) (models.InstanceStatus, error) {
	args := m.Called(ctx, instanceID, region)
	return args.Get(0).(models.InstanceStatus), args.Error(1)
}

// StartInstance mocks the start call
func (m *MockInstanceAPI) StartInstance(ctx context.Context, instanceID, region string) error {
	args := m.Called(ctx, instanceID, region)
	return args.Error(0)
}

// StopInstance mocks the stop call
func (m *MockInstanceAPI) StopInstance(ctx context.Context, instanceID, region string) error {
	args := m.Called(ctx, instanceID, region)
	return args.Error(0)
}
