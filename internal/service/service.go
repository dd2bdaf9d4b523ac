package service

import (
	"context"
	"time"

	"growbox_dashboard/internal/models"
	"growbox_dashboard/internal/repository"
)

// Targets reads and changes the control targets.
type Targets interface {
	Current(ctx context.Context) (models.Targets, error)
	Update(ctx context.Context, req models.TargetUpdateRequest) (models.Targets, error)
}

// Monitoring exposes the snapshots served by GET /api/sensors and GET /api/status.
type Monitoring interface {
	Sensors(ctx context.Context) (models.SensorSnapshot, error)
	Status(ctx context.Context) (models.DeviceStatusSnapshot, error)
}

// EventLog exposes the actuation log with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) (ActuationLog, error)
}

// Simulator runs the climate loop until ctx is canceled.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

// Broadcaster fans push messages out to stream subscribers.
type Broadcaster interface {
	Subscribe() (<-chan Message, func())
	Publish(kind string, payload any) error
}

// Service aggregates all sub-services.
type Service struct {
	Targets
	Monitoring
	EventLog
	Simulator
	Broadcaster
}

// NewService wires the repositories into concrete services sharing one device.
func NewService(repos *repository.Repository, opts SimOptions) *Service {
	device := NewDevice()
	hub := NewHub()
	return &Service{
		Targets:     NewTargetService(repos.TargetRepo, repos.EventRepo, device, hub),
		Monitoring:  NewMonitoringService(device, repos.TargetRepo),
		EventLog:    NewEventLogService(repos.EventRepo),
		Simulator:   NewSimulatorService(device, repos.TargetRepo, repos.EventRepo, hub, opts),
		Broadcaster: hub,
	}
}
