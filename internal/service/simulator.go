package service

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"growbox_dashboard/internal/models"
	"growbox_dashboard/internal/repository"

	"github.com/google/uuid"
)

// ----------- Climate model constants -----------
const (
	AmbientC            = 22.0  // room temperature °C
	LightHeatC          = 4.0   // extra equilibrium temperature while the light is on
	TempRatePerSec      = 0.01  // fraction of the gap to equilibrium closed per second
	AmbientAirHumidity  = 45.0  // room air humidity %
	HumidifierGainPerS  = 0.5   // % air humidity added per second while the humidifier runs
	AirDecayRatePerSec  = 0.005 // fraction of the gap to ambient humidity closed per second
	SoilDryPerSec       = 0.002 // % soil humidity lost per second
	InitialSoilHumidity = 70.0
)

// SimOptions tunes the simulator.
type SimOptions struct {
	// FaultRate is the probability, per sensor and tick, of a failed read.
	FaultRate float64
	// Rand drives sensor faults. Nil means a time-seeded source.
	Rand *rand.Rand
	// Now is the wall clock used by the light schedule. Nil means time.Now.
	Now func() time.Time
}

// Climate is the true state of the box, as opposed to what the sensors report.
type Climate struct {
	TemperatureC float64
	AirHumidity  float64
	SoilHumidity float64
}

// SimulatorService evolves the climate, drives the relays the way the
// controller firmware does and publishes every change.
type SimulatorService struct {
	device     *Device
	targetRepo repository.TargetRepo
	eventRepo  repository.EventRepo
	publisher  Broadcaster
	faultRate  float64
	rnd        *rand.Rand
	now        func() time.Time

	climate      Climate
	lightOn      bool
	humidifierOn bool
	faulted      bool
}

// NewSimulatorService returns a simulator at ambient conditions and
// publishes its first reading to device.
func NewSimulatorService(device *Device, targetRepo repository.TargetRepo, eventRepo repository.EventRepo, publisher Broadcaster, opts SimOptions) *SimulatorService {
	rnd := opts.Rand
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed>>1))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &SimulatorService{
		device:     device,
		targetRepo: targetRepo,
		eventRepo:  eventRepo,
		publisher:  publisher,
		faultRate:  opts.FaultRate,
		rnd:        rnd,
		now:        now,
		climate: Climate{
			TemperatureC: AmbientC,
			AirHumidity:  AmbientAirHumidity,
			SoilHumidity: InitialSoilHumidity,
		},
	}
	device.set(readSensors(s.climate, nil), false, false)
	return s
}

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	last := s.now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			now := s.now()
			s.Step(ctx, now, now.Sub(last))
			last = now
		}
	}
}

// Step advances the model by elapsed, applies the control rules at now and
// publishes the new reading. A tick whose targets cannot be loaded is skipped.
func (s *SimulatorService) Step(ctx context.Context, now time.Time, elapsed time.Duration) {
	targets, err := currentTargets(ctx, s.targetRepo)
	if err != nil {
		return
	}

	s.climate = advanceClimate(s.climate, s.lightOn, s.humidifierOn, elapsed.Seconds())
	reading := readSensors(s.climate, s.fault)

	light := lightShouldBeOn(now, targets.LightOnTime, targets.LightOffTime)
	humidifier := humidifierShouldBeOn(reading.AirHumidity, targets.AirHumidity)

	changed := false
	if light != s.lightOn {
		s.logRelay(ctx, now, light, models.EventLightOn, models.EventLightOff, "Light", targets)
		changed = true
	}
	if humidifier != s.humidifierOn {
		s.logRelay(ctx, now, humidifier, models.EventHumidifierOn, models.EventHumidifierOff, "Humidifier", targets)
		changed = true
	}
	s.lightOn, s.humidifierOn = light, humidifier
	s.logFault(ctx, now, reading)

	s.device.set(reading, light, humidifier)
	_ = s.publisher.Publish(models.PushSensorUpdate, reading)
	if changed {
		_ = s.publisher.Publish(models.PushStatusUpdate, statusSnapshot(light, humidifier, targets))
	}
}

// Climate returns the true climate.
func (s *SimulatorService) Climate() Climate {
	return s.climate
}

func (s *SimulatorService) fault() bool {
	return s.faultRate > 0 && s.rnd.Float64() < s.faultRate
}

func (s *SimulatorService) logRelay(ctx context.Context, now time.Time, on bool, onType, offType, name string, t models.Targets) {
	typ, desc := offType, name+" turned OFF"
	if on {
		typ, desc = onType, name+" turned ON"
	}
	_ = s.eventRepo.Append(ctx, models.DeviceEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now.UTC(),
		Type:        typ,
		Description: desc,
		Metadata: map[string]any{
			"temperature_c":       round1(s.climate.TemperatureC),
			"air_humidity":        round1(s.climate.AirHumidity),
			"target_air_humidity": t.AirHumidity,
			"light_on_time":       t.LightOnTime,
			"light_off_time":      t.LightOffTime,
		},
	})
}

// logFault appends SENSOR_FAULT when a reading starts failing.
func (s *SimulatorService) logFault(ctx context.Context, now time.Time, r models.SensorSnapshot) {
	var failed []string
	for name, v := range map[string]*float64{
		"temperature":  r.Temperature,
		"airHumidity":  r.AirHumidity,
		"soilHumidity": r.SoilHumidity,
	} {
		if v == nil {
			failed = append(failed, name)
		}
	}
	faulted := len(failed) > 0
	if faulted && !s.faulted {
		_ = s.eventRepo.Append(ctx, models.DeviceEvent{
			EventID:     uuid.NewString(),
			OccurredAt:  now.UTC(),
			Type:        models.EventSensorFault,
			Description: "Sensor read failed",
			Metadata:    map[string]any{"sensors": failed},
		})
	}
	s.faulted = faulted
}

// advanceClimate moves c forward by dt seconds given the relay states.
func advanceClimate(c Climate, light, humidifier bool, dt float64) Climate {
	if dt <= 0 {
		return c
	}
	eqTemp := AmbientC
	if light {
		eqTemp += LightHeatC
	}
	c.TemperatureC = approach(c.TemperatureC, eqTemp, TempRatePerSec, dt)

	c.AirHumidity = approach(c.AirHumidity, AmbientAirHumidity, AirDecayRatePerSec, dt)
	if humidifier {
		c.AirHumidity += HumidifierGainPerS * dt
	}
	c.AirHumidity = clamp(c.AirHumidity, 0, 100)

	c.SoilHumidity = clamp(c.SoilHumidity-SoilDryPerSec*dt, 0, 100)
	return c
}

// approach closes the gap between x and target exponentially at rate per second.
func approach(x, target, rate, dt float64) float64 {
	return target + (x-target)*math.Exp(-rate*dt)
}

// readSensors samples c. fault, when non-nil, decides per sensor whether the read fails.
// VPD is derived and is missing whenever temperature or air humidity is.
func readSensors(c Climate, fault func() bool) models.SensorSnapshot {
	read := func(v float64) *float64 {
		if fault != nil && fault() {
			return nil
		}
		v = round1(v)
		return &v
	}
	s := models.SensorSnapshot{
		Temperature:  read(c.TemperatureC),
		AirHumidity:  read(c.AirHumidity),
		SoilHumidity: read(c.SoilHumidity),
	}
	if s.Temperature != nil && s.AirHumidity != nil {
		v := math.Round(VPD(*s.Temperature, *s.AirHumidity)*100) / 100
		s.VPD = &v
	}
	return s
}

// VPD returns the vapour pressure deficit in kPa (Magnus formula).
func VPD(tempC, relHumidity float64) float64 {
	svp := 0.6112 * math.Exp(17.67*tempC/(tempC+243.5))
	return svp * (1 - relHumidity/100)
}

// lightShouldBeOn applies the HH:MM schedule at now. Equal times mean
// always off; on > off wraps past midnight. Unparseable times mean off.
func lightShouldBeOn(now time.Time, onTime, offTime string) bool {
	start, err := parseClock(onTime)
	if err != nil {
		return false
	}
	end, err := parseClock(offTime)
	if err != nil {
		return false
	}
	m := now.Hour()*60 + now.Minute()
	switch {
	case start == end:
		return false
	case start < end:
		return m >= start && m < end
	default:
		return m >= start || m < end
	}
}

// humidifierShouldBeOn runs the humidifier below target. A failed reading
// or a non-positive target keeps it off.
func humidifierShouldBeOn(airHumidity *float64, target float64) bool {
	if airHumidity == nil || math.IsNaN(target) || target <= 0 {
		return false
	}
	return *airHumidity < target
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
