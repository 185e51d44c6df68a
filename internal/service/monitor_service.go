package service

import (
	"context"
	"time"

	"activity-tracker-be/internal/dto"
	"activity-tracker-be/internal/entity"
	"activity-tracker-be/internal/monitor"
	"activity-tracker-be/internal/repository/contract"
)

type IMonitorService interface {
	Start() error
	Stop(ctx context.Context) error
	Status() monitor.Snapshot
	ForceEndCurrentSession(ctx context.Context) bool
	UpdateConfig(ctx context.Context, req *dto.UpdateConfigRequest) (monitor.Config, error)
	RecentSessions(ctx context.Context, limit int) ([]*entity.ActivitySession, error)
}

type monitorService struct {
	tracker  *monitor.Tracker
	sessions contract.SessionRepository
}

func NewMonitorService(tracker *monitor.Tracker, sessions contract.SessionRepository) IMonitorService {
	return &monitorService{
		tracker:  tracker,
		sessions: sessions,
	}
}

func (s *monitorService) Start() error {
	return s.tracker.Start()
}

func (s *monitorService) Stop(ctx context.Context) error {
	return s.tracker.Stop(ctx)
}

func (s *monitorService) Status() monitor.Snapshot {
	return s.tracker.Status()
}

func (s *monitorService) ForceEndCurrentSession(ctx context.Context) bool {
	return s.tracker.ForceEndCurrentSession(ctx)
}

// UpdateConfig merges the request into the active config; unset fields keep
// their current value.
func (s *monitorService) UpdateConfig(ctx context.Context, req *dto.UpdateConfigRequest) (monitor.Config, error) {
	cfg := s.tracker.Config()
	if req.SampleIntervalMs != nil {
		cfg.SampleInterval = time.Duration(*req.SampleIntervalMs) * time.Millisecond
	}
	if req.IdleCheckIntervalMs != nil {
		cfg.IdleCheckInterval = time.Duration(*req.IdleCheckIntervalMs) * time.Millisecond
	}
	if req.IdleThresholdMs != nil {
		cfg.IdleThreshold = time.Duration(*req.IdleThresholdMs) * time.Millisecond
	}
	if req.TrackWindowTitles != nil {
		cfg.TrackWindowTitles = *req.TrackWindowTitles
	}
	if req.ExcludedApps != nil {
		cfg.ExcludedApps = req.ExcludedApps
	}
	if req.TitleMaxLength != nil {
		cfg.TitleMaxLength = *req.TitleMaxLength
	}
	if err := s.tracker.UpdateConfig(ctx, cfg); err != nil {
		return monitor.Config{}, err
	}
	return cfg, nil
}

func (s *monitorService) RecentSessions(ctx context.Context, limit int) ([]*entity.ActivitySession, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.sessions.FindRecent(ctx, limit)
}
