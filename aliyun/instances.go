package aliyun

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"trafficwarden/aliyun/models"
	"trafficwarden/errors"
)

const (
	// The instance lifecycle service is addressed per region.
	instanceDomainFormat = "ecs.%s.aliyuncs.com"
	instanceVersion      = "2014-05-26"

	actionDescribeInstances = "DescribeInstances"
	actionStartInstance     = "StartInstance"
	actionStopInstance      = "StopInstance"
)

func instanceDomain(region string) string {
	return fmt.Sprintf(instanceDomainFormat, region)
}

// GetInstanceStatus fetches the lifecycle status of one instance in one
// region. Zero matches is an ErrInstanceNotFound, a configuration problem
// distinct from a transport failure.
func (c *Client) GetInstanceStatus(ctx context.Context, instanceID, region string) (models.InstanceStatus, error) {
	body, err := c.Call(ctx, instanceDomain(region), map[string]string{
		"Action":      actionDescribeInstances,
		"Version":     instanceVersion,
		"RegionId":    region,
		"InstanceIds": `["` + instanceID + `"]`,
	})
	if err != nil {
		return "", err
	}

	var result models.DescribeInstancesResult
	if err := decode(body, &result, actionDescribeInstances); err != nil {
		return "", err
	}

	for _, instance := range result.Instances.Instance {
		if instance.InstanceID == instanceID {
			zap.L().Info("Instance status fetched",
				zap.String("package", packageName),
				zap.String("operation", "describe_instance"),
				zap.String("instance_id", instanceID),
				zap.String("region", region),
				zap.String("status", string(instance.Status)),
			)
			return instance.Status, nil
		}
	}

	return "", errors.New(errors.ErrInstanceNotFound, "no instance matched the configured id and region",
		map[string]interface{}{
			"instance_id": instanceID,
			"region":      region,
			"total_count": result.TotalCount,
		}, nil)
}

// StartInstance issues a fire-and-forget start call. The eventual state
// transition is not awaited; the next run re-observes and re-converges.
func (c *Client) StartInstance(ctx context.Context, instanceID, region string) error {
	return c.lifecycleAction(ctx, actionStartInstance, instanceID, region, nil)
}

// StopInstance issues a fire-and-forget graceful stop call.
func (c *Client) StopInstance(ctx context.Context, instanceID, region string) error {
	return c.lifecycleAction(ctx, actionStopInstance, instanceID, region, map[string]string{
		"ForceStop": "false",
	})
}

func (c *Client) lifecycleAction(ctx context.Context, action, instanceID, region string, extra map[string]string) error {
	params := map[string]string{
		"Action":     action,
		"Version":    instanceVersion,
		"RegionId":   region,
		"InstanceId": instanceID,
	}
	for key, value := range extra {
		params[key] = value
	}

	body, err := c.Call(ctx, instanceDomain(region), params)
	if err != nil {
		return err
	}

	var ack models.ActionAck
	if err := decode(body, &ack, action); err != nil {
		return err
	}

	zap.L().Info("Lifecycle action issued",
		zap.String("package", packageName),
		zap.String("operation", "lifecycle_action"),
		zap.String("action", action),
		zap.String("instance_id", instanceID),
		zap.String("region", region),
		zap.String("request_id", ack.RequestID),
	)
	return nil
}
