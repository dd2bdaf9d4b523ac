package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"growbox_dashboard/internal/models"
	"growbox_dashboard/internal/repository"

	"github.com/google/uuid"
)

// DefaultTargets apply until targets are saved for the first time.
var DefaultTargets = models.Targets{
	AirHumidity:  60,
	LightOnTime:  "06:00",
	LightOffTime: "18:00",
}

// ErrInvalidTargets marks a target update rejected by validation.
var ErrInvalidTargets = errors.New("invalid targets")

type TargetService struct {
	targetRepo repository.TargetRepo
	eventRepo  repository.EventRepo
	device     *Device
	publisher  Broadcaster
	now        func() time.Time
}

func NewTargetService(targetRepo repository.TargetRepo, eventRepo repository.EventRepo, device *Device, publisher Broadcaster) *TargetService {
	return &TargetService{
		targetRepo: targetRepo,
		eventRepo:  eventRepo,
		device:     device,
		publisher:  publisher,
		now:        time.Now,
	}
}

// Current returns the saved targets, or DefaultTargets when none were saved.
func (s *TargetService) Current(ctx context.Context) (models.Targets, error) {
	return currentTargets(ctx, s.targetRepo)
}

func currentTargets(ctx context.Context, repo repository.TargetRepo) (models.Targets, error) {
	t, err := repo.Load(ctx)
	if err != nil {
		return models.Targets{}, err
	}
	if t.UpdatedAt.IsZero() {
		return DefaultTargets, nil
	}
	return t, nil
}

// Update validates and saves req, logs TARGETS_UPDATED and pushes the new status.
func (s *TargetService) Update(ctx context.Context, req models.TargetUpdateRequest) (models.Targets, error) {
	if err := validateTargets(req); err != nil {
		return models.Targets{}, err
	}

	prev, err := s.Current(ctx)
	if err != nil {
		return models.Targets{}, err
	}

	now := s.now().UTC()
	t := models.Targets{
		AirHumidity:  req.TargetAirHumidity,
		LightOnTime:  req.LightOnTime,
		LightOffTime: req.LightOffTime,
		UpdatedAt:    now,
	}
	if err := s.targetRepo.Save(ctx, t); err != nil {
		return models.Targets{}, err
	}

	if err := s.eventRepo.Append(ctx, models.DeviceEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        models.EventTargetsUpdated,
		Description: "Targets updated",
		Metadata: map[string]any{
			"air_humidity":   map[string]float64{"from": prev.AirHumidity, "to": t.AirHumidity},
			"light_on_time":  map[string]string{"from": prev.LightOnTime, "to": t.LightOnTime},
			"light_off_time": map[string]string{"from": prev.LightOffTime, "to": t.LightOffTime},
		},
	}); err != nil {
		return models.Targets{}, err
	}

	light, humidifier := s.device.Relays()
	_ = s.publisher.Publish(models.PushStatusUpdate, statusSnapshot(light, humidifier, t))
	return t, nil
}

func validateTargets(req models.TargetUpdateRequest) error {
	h := req.TargetAirHumidity
	if math.IsNaN(h) || h <= 0 || h > 100 {
		return fmt.Errorf("%w: target air humidity must be in (0, 100], got %v", ErrInvalidTargets, h)
	}
	if _, err := parseClock(req.LightOnTime); err != nil {
		return fmt.Errorf("%w: light on time: %v", ErrInvalidTargets, err)
	}
	if _, err := parseClock(req.LightOffTime); err != nil {
		return fmt.Errorf("%w: light off time: %v", ErrInvalidTargets, err)
	}
	return nil
}

// parseClock parses "HH:MM" into minutes after midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil || len(s) != len("15:04") {
		return 0, fmt.Errorf("want HH:MM, got %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}
