package aliyun

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficwarden/aliyun/models"
	"trafficwarden/errors"
)

func TestGetInstanceStatus(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus models.InstanceStatus
		expectedType   errors.ErrorType
	}{
		{
			name: "running instance found",
			body: `{
				"RequestId": "r1",
				"TotalCount": 1,
				"Instances": {"Instance": [
					{"InstanceId": "i-a", "RegionId": "cn-hongkong", "Status": "Running"}
				]}
			}`,
			expectedStatus: models.StatusRunning,
		},
		{
			name: "transient status is surfaced as-is",
			body: `{
				"TotalCount": 1,
				"Instances": {"Instance": [
					{"InstanceId": "i-a", "Status": "Stopping"}
				]}
			}`,
			expectedStatus: models.StatusStopping,
		},
		{
			name:         "zero matches is a configuration problem",
			body:         `{"RequestId": "r1", "TotalCount": 0, "Instances": {"Instance": []}}`,
			expectedType: errors.ErrInstanceNotFound,
		},
		{
			name: "a different instance id does not match",
			body: `{
				"TotalCount": 1,
				"Instances": {"Instance": [
					{"InstanceId": "i-other", "Status": "Running"}
				]}
			}`,
			expectedType: errors.ErrInstanceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured *http.Request
			client := newTestClient(func(r *http.Request) (*http.Response, error) {
				captured = r
				return jsonResponse(http.StatusOK, tt.body), nil
			})

			status, err := client.GetInstanceStatus(context.Background(), "i-a", "cn-hongkong")

			require.NotNil(t, captured)
			assert.Equal(t, "ecs.cn-hongkong.aliyuncs.com", captured.URL.Host)
			query := captured.URL.Query()
			assert.Equal(t, "DescribeInstances", query.Get("Action"))
			assert.Equal(t, "cn-hongkong", query.Get("RegionId"))
			assert.Equal(t, `["i-a"]`, query.Get("InstanceIds"))

			if tt.expectedType != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, status)
		})
	}
}

func TestStartInstance(t *testing.T) {
	var captured *http.Request
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		captured = r
		return jsonResponse(http.StatusOK, `{"RequestId":"start-1"}`), nil
	})

	err := client.StartInstance(context.Background(), "i-a", "cn-hongkong")
	require.NoError(t, err)

	require.NotNil(t, captured)
	query := captured.URL.Query()
	assert.Equal(t, "StartInstance", query.Get("Action"))
	assert.Equal(t, "i-a", query.Get("InstanceId"))
	assert.Equal(t, "cn-hongkong", query.Get("RegionId"))
}

func TestStopInstance(t *testing.T) {
	var captured *http.Request
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		captured = r
		return jsonResponse(http.StatusOK, `{"RequestId":"stop-1"}`), nil
	})

	err := client.StopInstance(context.Background(), "i-b", "eu-central-1")
	require.NoError(t, err)

	require.NotNil(t, captured)
	query := captured.URL.Query()
	assert.Equal(t, "StopInstance", query.Get("Action"))
	assert.Equal(t, "i-b", query.Get("InstanceId"))
	assert.Equal(t, "eu-central-1", query.Get("RegionId"))
	// graceful stop by default
	assert.Equal(t, "false", query.Get("ForceStop"))
}

func TestLifecycleAction_TransportError(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusConflict, `{"Code":"IncorrectInstanceStatus"}`), nil
	})

	err := client.StopInstance(context.Background(), "i-a", "cn-hongkong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRequestFailed))
}
