package service

import (
	"context"

	"growbox_dashboard/internal/models"
	"growbox_dashboard/internal/repository"
)

type MonitoringService struct {
	device     *Device
	targetRepo repository.TargetRepo
}

func NewMonitoringService(device *Device, targetRepo repository.TargetRepo) *MonitoringService {
	return &MonitoringService{device: device, targetRepo: targetRepo}
}

// Sensors returns the latest reading.
func (s *MonitoringService) Sensors(ctx context.Context) (models.SensorSnapshot, error) {
	return s.device.Sensors(), nil
}

// Status combines the relay states with the current targets.
func (s *MonitoringService) Status(ctx context.Context) (models.DeviceStatusSnapshot, error) {
	t, err := currentTargets(ctx, s.targetRepo)
	if err != nil {
		return models.DeviceStatusSnapshot{}, err
	}
	light, humidifier := s.device.Relays()
	return statusSnapshot(light, humidifier, t), nil
}
