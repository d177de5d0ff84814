package trafficController

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"trafficwarden/aliyun/models"
	"trafficwarden/configuration"
	"trafficwarden/errors"
)

// Action is the lifecycle call a decision resulted in.
type Action string

const (
	ActionNone  Action = "none"
	ActionStart Action = "start"
	ActionStop  Action = "stop"
)

// Decision records the outcome for one configured instance in one run.
type Decision struct {
	InstanceID  string
	Region      string
	TrafficGB   float64
	ThresholdGB float64
	Current     models.InstanceStatus
	Desired     models.InstanceStatus
	Action      Action
	Err         error
}

// ControllerService drives the per-run decision loop.
type ControllerService struct {
	traffic   TrafficAPI
	instances InstanceAPI
	logger    *zap.Logger
}

// NewControllerService creates a new ControllerService
func NewControllerService(traffic TrafficAPI, instances InstanceAPI, logger *zap.Logger) *ControllerService {
	return &ControllerService{
		traffic:   traffic,
		instances: instances,
		logger:    logger,
	}
}

// RunOnce performs a single control cycle: one traffic aggregation call,
// then a strictly sequential decision per configured instance. A failure on
// one instance is recorded on its Decision and never blocks the siblings.
// Only the aggregation call failing fails the run as a whole.
func (s *ControllerService) RunOnce(ctx context.Context, configs []configuration.InstanceConfig) ([]Decision, error) {
	logger := s.logger.With(
		zap.String("function", "RunOnce"),
	)

	logger.Info("Control cycle started",
		zap.String("operation", "cycle_start"),
		zap.Int("instances", len(configs)),
	)

	trafficByRegion, err := s.traffic.GetTrafficByRegion(ctx)
	if err != nil {
		logger.Error("Traffic aggregation failed",
			zap.String("operation", "traffic_aggregation"),
			zap.Error(err),
		)
		return nil, err
	}

	decisions := make([]Decision, 0, len(configs))
	for _, cfg := range configs {
		decision := s.decideInstance(ctx, cfg, trafficByRegion)
		decisions = append(decisions, decision)
	}

	logger.Info("Control cycle complete",
		zap.String("operation", "cycle_complete"),
		zap.Int("decisions", len(decisions)),
	)

	return decisions, nil
}

// decideInstance evaluates one instance against its region's traffic.
// A region absent from the mapping counts as zero traffic, which biases
// toward keeping the instance available.
func (s *ControllerService) decideInstance(ctx context.Context, cfg configuration.InstanceConfig, trafficByRegion map[string]float64) Decision {
	logger := s.logger.With(
		zap.String("function", "decideInstance"),
		zap.String("instance_id", cfg.InstanceID),
		zap.String("region", cfg.Region),
	)

	trafficGB := trafficByRegion[cfg.Region]

	decision := Decision{
		InstanceID:  cfg.InstanceID,
		Region:      cfg.Region,
		TrafficGB:   trafficGB,
		ThresholdGB: cfg.ThresholdGB,
		Desired:     desiredStatus(trafficGB, cfg.ThresholdGB),
		Action:      ActionNone,
	}

	current, err := s.instances.GetInstanceStatus(ctx, cfg.InstanceID, cfg.Region)
	if err != nil {
		logger.Error("Failed to fetch instance status",
			zap.String("operation", "status_fetch"),
			zap.Error(err),
		)
		decision.Err = err
		return decision
	}
	decision.Current = current

	if satisfies(current, decision.Desired) {
		logger.Info("Instance already converged",
			zap.String("operation", "decision"),
			zap.String("current", string(current)),
			zap.String("desired", string(decision.Desired)),
			zap.Float64("traffic_gb", trafficGB),
			zap.Float64("threshold_gb", cfg.ThresholdGB),
		)
		return decision
	}

	switch decision.Desired {
	case models.StatusRunning:
		decision.Action = ActionStart
		err = s.instances.StartInstance(ctx, cfg.InstanceID, cfg.Region)
	case models.StatusStopped:
		decision.Action = ActionStop
		err = s.instances.StopInstance(ctx, cfg.InstanceID, cfg.Region)
	}
	if err != nil {
		logger.Error("Lifecycle action failed",
			zap.String("operation", "actuation"),
			zap.String("action", string(decision.Action)),
			zap.Error(err),
		)
		decision.Err = err
		return decision
	}

	logger.Info("Lifecycle action taken",
		zap.String("operation", "actuation"),
		zap.String("action", string(decision.Action)),
		zap.String("current", string(current)),
		zap.String("desired", string(decision.Desired)),
		zap.Float64("traffic_gb", trafficGB),
		zap.Float64("threshold_gb", cfg.ThresholdGB),
	)
	return decision
}

// RunLoop runs one cycle immediately, then on the given cron schedule until
// the context is cancelled. Overlapping cycles are accepted: lifecycle calls
// are idempotent at the provider and the next tick self-corrects.
func (s *ControllerService) RunLoop(ctx context.Context, configs []configuration.InstanceConfig, schedule string) error {
	logger := s.logger.With(
		zap.String("function", "RunLoop"),
	)

	tick := func() {
		if _, err := s.RunOnce(ctx, configs); err != nil {
			logger.Error("Control cycle failed",
				zap.String("operation", "cycle_error"),
				zap.Error(err),
			)
		}
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(schedule, tick); err != nil {
		return errors.New(errors.ErrConfigInvalid, "invalid schedule expression",
			map[string]interface{}{
				"schedule": schedule,
			}, err)
	}

	logger.Info("Scheduler started",
		zap.String("operation", "scheduler_start"),
		zap.String("schedule", schedule),
	)

	tick()
	scheduler.Start()

	<-ctx.Done()
	<-scheduler.Stop().Done()

	logger.Info("Scheduler stopped",
		zap.String("operation", "scheduler_stop"),
	)
	return ctx.Err()
}
