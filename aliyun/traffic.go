package aliyun

import (
	"context"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"trafficwarden/aliyun/models"
)

const (
	// The traffic listing service is global and regionless.
	trafficDomain  = "business.aliyuncs.com"
	trafficAction  = "QueryTrafficDetails"
	trafficVersion = "2017-12-14"

	// binary gigabyte, matching how the provider bills traffic
	bytesPerGB = float64(1 << 30)
)

// GetTrafficByRegion fetches all traffic records in one call and returns
// accumulated egress per region in GB. Records without a region identifier
// are excluded; an empty result set yields an empty map, not an error.
func (c *Client) GetTrafficByRegion(ctx context.Context) (map[string]float64, error) {
	logger := zap.L().With(
		zap.String("package", packageName),
		zap.String("function", "GetTrafficByRegion"),
	)

	body, err := c.Call(ctx, trafficDomain, map[string]string{
		"Action":  trafficAction,
		"Version": trafficVersion,
	})
	if err != nil {
		return nil, err
	}

	var result models.TrafficListResult
	if err := decode(body, &result, trafficAction); err != nil {
		return nil, err
	}

	bytesByRegion := make(map[string]float64)
	for _, detail := range result.TrafficDetails.TrafficDetail {
		if detail.Region == "" {
			// nothing to attribute the record to
			continue
		}
		bytesByRegion[detail.Region] += detail.Bytes()
	}

	trafficByRegion := make(map[string]float64, len(bytesByRegion))
	for region, total := range bytesByRegion {
		trafficByRegion[region] = total / bytesPerGB
		logger.Info("Region traffic aggregated",
			zap.String("operation", "traffic_aggregation"),
			zap.String("region", region),
			zap.String("traffic", humanize.IBytes(uint64(total))),
		)
	}

	logger.Info("Traffic aggregation complete",
		zap.String("operation", "traffic_aggregation"),
		zap.Int("records", len(result.TrafficDetails.TrafficDetail)),
		zap.Int("regions", len(trafficByRegion)),
	)

	return trafficByRegion, nil
}
