package service

import (
	"context"
	"errors"
	"testing"

	"growbox_dashboard/internal/models"
)

func TestMonitoringService_Sensors(t *testing.T) {
	t.Parallel()

	d := NewDevice()
	temp := 24.5
	d.set(models.SensorSnapshot{Temperature: &temp}, true, false)

	s := NewMonitoringService(d, &targetRepoStub{})
	got, err := s.Sensors(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Temperature == nil || *got.Temperature != 24.5 || got.AirHumidity != nil {
		t.Fatalf("unexpected snapshot %+v", got)
	}
}

func TestMonitoringService_Status(t *testing.T) {
	t.Parallel()

	d := NewDevice()
	d.set(models.SensorSnapshot{}, true, false)
	repo := &targetRepoStub{}
	s := NewMonitoringService(d, repo)

	got, err := s.Status(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.DeviceStatusSnapshot{
		Light:      models.LightStatus{IsOn: true, OnTime: "06:00", OffTime: "18:00"},
		Humidifier: models.HumidifierStatus{IsOn: false, TargetAirHumidity: 60},
	}
	if got != want {
		t.Fatalf("Status() = %+v; want %+v", got, want)
	}

	repo.loadErr = errors.New("db down")
	if _, err := s.Status(context.Background()); !errors.Is(err, repo.loadErr) {
		t.Fatalf("expected repo error, got %v", err)
	}
}
