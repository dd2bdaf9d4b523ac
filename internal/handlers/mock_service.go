package handlers

import (
	"context"

	"growbox_dashboard/internal/models"
	"growbox_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockTargets struct {
	current   models.Targets
	updateErr error
	lastReq   models.TargetUpdateRequest
	calls     int
}

func (m *mockTargets) Current(ctx context.Context) (models.Targets, error) {
	return m.current, nil
}

func (m *mockTargets) Update(ctx context.Context, req models.TargetUpdateRequest) (models.Targets, error) {
	m.calls++
	m.lastReq = req
	if m.updateErr != nil {
		return models.Targets{}, m.updateErr
	}
	return models.Targets{
		AirHumidity:  req.TargetAirHumidity,
		LightOnTime:  req.LightOnTime,
		LightOffTime: req.LightOffTime,
	}, nil
}

type mockMonitoring struct {
	sensors   models.SensorSnapshot
	status    models.DeviceStatusSnapshot
	sensorErr error
	statusErr error
}

func (m *mockMonitoring) Sensors(ctx context.Context) (models.SensorSnapshot, error) {
	return m.sensors, m.sensorErr
}

func (m *mockMonitoring) Status(ctx context.Context) (models.DeviceStatusSnapshot, error) {
	return m.status, m.statusErr
}

type mockEventLog struct {
	resp  service.ActuationLog
	err   error
	lastF service.LogFilter
	calls int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) (service.ActuationLog, error) {
	m.calls++
	m.lastF = f
	return m.resp, m.err
}

// emptyEventRepo backs a real EventLogService with no stored events.
type emptyEventRepo struct{}

func (emptyEventRepo) Append(ctx context.Context, ev models.DeviceEvent) error { return nil }

func (emptyEventRepo) List(ctx context.Context, q models.EventQuery) ([]models.DeviceEvent, error) {
	return nil, nil
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func ptr(v float64) *float64 { return &v }

func sampleMonitoring() *mockMonitoring {
	return &mockMonitoring{
		sensors: models.SensorSnapshot{
			Temperature:  ptr(24.5),
			AirHumidity:  ptr(55),
			SoilHumidity: nil,
			VPD:          ptr(1.38),
		},
		status: models.DeviceStatusSnapshot{
			Light:      models.LightStatus{IsOn: true, OnTime: "06:00", OffTime: "18:00"},
			Humidifier: models.HumidifierStatus{IsOn: false, TargetAirHumidity: 60},
		},
	}
}
