package view

import (
	"math/rand"
	"sync"
	"testing"

	"growbox_dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a Renderer that keeps every state it was given.
type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) Render(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func status(lightOn bool, on, off string, humOn bool, target float64) models.DeviceStatusSnapshot {
	return models.DeviceStatusSnapshot{
		Light:      models.LightStatus{IsOn: lightOn, OnTime: on, OffTime: off},
		Humidifier: models.HumidifierStatus{IsOn: humOn, TargetAirHumidity: target},
	}
}

func TestReconciler_InitialState(t *testing.T) {
	r := NewReconciler(nil)
	st := r.View()
	assert.Equal(t, uint64(0), st.Version)
	assert.Equal(t, Placeholder, st.Sensors.Temperature)
	assert.Equal(t, Placeholder, st.Status.Light)
	for _, f := range Fields {
		assert.Equal(t, FieldState{}, st.Field(f), f.String())
	}
}

func TestReconciler_SensorFormatting(t *testing.T) {
	r := NewReconciler(nil)
	r.ApplySensorSnapshot(models.SensorSnapshot{
		Temperature:  models.Float(24.56),
		AirHumidity:  models.Float(61.04),
		SoilHumidity: models.Float(40),
		VPD:          models.Float(1.2345),
	})
	assert.Equal(t, SensorReadout{Temperature: "24.6", AirHumidity: "61.0", SoilHumidity: "40.0", VPD: "1.23"}, r.View().Sensors)
}

// Scenario D: a null VPD renders the sentinel while the other metrics stay valid.
func TestReconciler_NullVPDRendersSentinel(t *testing.T) {
	r := NewReconciler(nil)
	r.ApplySensorSnapshot(models.SensorSnapshot{
		Temperature:  models.Float(25),
		AirHumidity:  models.Float(55),
		SoilHumidity: models.Float(33.3),
		VPD:          nil,
	})
	got := r.View().Sensors
	assert.Equal(t, ErrSentinel, got.VPD)
	assert.Equal(t, "25.0", got.Temperature)
	assert.Equal(t, "55.0", got.AirHumidity)
	assert.Equal(t, "33.3", got.SoilHumidity)
}

func TestReconciler_LastSensorSnapshotWins(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		r := NewReconciler(nil)
		var last models.SensorSnapshot
		for i := 0; i < 1+rng.Intn(10); i++ {
			s := models.SensorSnapshot{
				Temperature:  randomReading(rng),
				AirHumidity:  randomReading(rng),
				SoilHumidity: randomReading(rng),
				VPD:          randomReading(rng),
			}
			// Interleave status applications and edits; they must not affect sensors.
			if rng.Intn(2) == 0 {
				r.ApplyStatusSnapshot(status(rng.Intn(2) == 0, "08:00", "20:00", false, 50))
			}
			if rng.Intn(3) == 0 {
				r.Input(FieldLightOnTime, "09:15")
			}
			r.ApplySensorSnapshot(s)
			last = s
		}
		require.Equal(t, renderSensors(last), r.View().Sensors, "round %d", round)
	}
}

func randomReading(rng *rand.Rand) *float64 {
	if rng.Intn(4) == 0 {
		return nil
	}
	return models.Float(rng.Float64() * 100)
}

func TestReconciler_StatusRendering(t *testing.T) {
	r := NewReconciler(nil)
	r.ApplyStatusSnapshot(status(true, "06:30", "22:00", false, 72.25))
	assert.Equal(t, StatusReadout{
		Light:                    "Ligada",
		LightOnTime:              "06:30",
		LightOffTime:             "22:00",
		Humidifier:               "Desligado",
		CurrentTargetAirHumidity: "72.2",
	}, r.View().Status)

	r.ApplyStatusSnapshot(status(false, "06:30", "22:00", true, 72.25))
	assert.Equal(t, "Desligada", r.View().Status.Light)
	assert.Equal(t, "Ligado", r.View().Status.Humidifier)
}

// Scenario A: sensors never arrive, status prefills all untouched fields.
func TestReconciler_StatusPrefillsUntouchedFields(t *testing.T) {
	r := NewReconciler(nil)
	r.ApplyStatusSnapshot(status(true, "08:00", "20:00", false, 55.0))

	assert.Equal(t, FormValues{TargetAirHumidity: "55.0", LightOnTime: "08:00", LightOffTime: "20:00"}, r.FormValues())
	for _, f := range Fields {
		assert.False(t, r.Touched(f), f.String())
	}

	r.ApplyStatusSnapshot(status(true, "07:00", "21:00", false, 60.5))
	assert.Equal(t, FormValues{TargetAirHumidity: "60.5", LightOnTime: "07:00", LightOffTime: "21:00"}, r.FormValues())
}

// Scenario B: an edited field keeps the operator's value across pushes.
func TestReconciler_TouchedFieldSurvivesPush(t *testing.T) {
	r := NewReconciler(nil)
	r.Input(FieldLightOnTime, "06:45")
	r.ApplyStatusSnapshot(status(true, "09:00", "20:00", false, 55))

	assert.Equal(t, FieldState{Value: "06:45", Touched: true}, r.Field(FieldLightOnTime))
	assert.Equal(t, "09:00", r.View().Status.LightOnTime, "status readout is still replaced")
	assert.Equal(t, "20:00", r.Field(FieldLightOffTime).Value)
	assert.Equal(t, "55.0", r.Field(FieldTargetAirHumidity).Value)
}

func TestReconciler_ClearedFieldStaysTouched(t *testing.T) {
	r := NewReconciler(nil)
	r.ApplyStatusSnapshot(status(true, "08:00", "20:00", false, 55))
	r.Input(FieldTargetAirHumidity, "")
	r.ApplyStatusSnapshot(status(true, "08:00", "20:00", false, 70))

	assert.Equal(t, FieldState{Value: "", Touched: true}, r.Field(FieldTargetAirHumidity))
}

func TestReconciler_TouchedNeverChangesUnderRandomPushes(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	times := []string{"00:00", "05:30", "08:00", "12:15", "18:45", "23:59"}
	for round := 0; round < 50; round++ {
		r := NewReconciler(nil)
		want := map[Field]string{}
		var lastStatus models.DeviceStatusSnapshot
		for i := 0; i < 20; i++ {
			switch rng.Intn(3) {
			case 0:
				f := Fields[rng.Intn(len(Fields))]
				v := times[rng.Intn(len(times))]
				r.Input(f, v)
				want[f] = v
			default:
				lastStatus = status(rng.Intn(2) == 0, times[rng.Intn(len(times))], times[rng.Intn(len(times))], rng.Intn(2) == 0, float64(rng.Intn(100)))
				r.ApplyStatusSnapshot(lastStatus)
			}
		}
		defaults := statusFieldValues(lastStatus)
		for _, f := range Fields {
			got := r.Field(f)
			if v, ok := want[f]; ok {
				require.True(t, got.Touched)
				require.Equal(t, v, got.Value, "round %d field %s", round, f)
			} else if lastStatus != (models.DeviceStatusSnapshot{}) {
				require.False(t, got.Touched)
				require.Equal(t, defaults[f], got.Value, "round %d field %s", round, f)
			}
		}
	}
}

func TestReconciler_IdempotentStatus(t *testing.T) {
	rec := &recorder{}
	r := NewReconciler(rec)
	d := status(true, "08:00", "20:00", true, 55)

	r.ApplyStatusSnapshot(d)
	once := r.View()
	r.ApplyStatusSnapshot(d)

	assert.Equal(t, once, r.View())
	assert.Equal(t, 1, rec.count(), "unchanged state must not re-render")
}

func TestReconciler_RenderVersions(t *testing.T) {
	rec := &recorder{}
	r := NewReconciler(rec)

	r.ApplySensorSnapshot(models.SensorSnapshot{Temperature: models.Float(20)})
	r.ApplyStatusSnapshot(status(false, "08:00", "20:00", false, 50))
	r.Input(FieldLightOffTime, "19:00")

	require.Equal(t, 3, rec.count())
	for i, s := range rec.states {
		assert.Equal(t, uint64(i+1), s.Version)
	}
	assert.Equal(t, "19:00", rec.states[2].Field(FieldLightOffTime).Value)
}

func TestReconciler_RendererMayReadBack(t *testing.T) {
	var r *Reconciler
	seen := 0
	r = NewReconciler(RenderFunc(func(s State) {
		assert.Equal(t, s.Version, r.View().Version)
		seen++
	}))
	r.ApplySensorSnapshot(models.SensorSnapshot{VPD: models.Float(1)})
	assert.Equal(t, 1, seen)
}

func TestReconciler_InvalidFieldIgnored(t *testing.T) {
	r := NewReconciler(nil)
	r.Input(Field(99), "x")
	assert.Equal(t, uint64(0), r.View().Version)
	assert.Equal(t, FieldState{}, r.Field(Field(-1)))
}

func TestReconciler_ConcurrentApply(t *testing.T) {
	r := NewReconciler(&recorder{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			r.ApplySensorSnapshot(models.SensorSnapshot{Temperature: models.Float(21)})
		}()
		go func() {
			defer wg.Done()
			r.ApplyStatusSnapshot(status(true, "08:00", "20:00", false, 55))
		}()
		go func() {
			defer wg.Done()
			r.Input(FieldLightOnTime, "05:00")
		}()
	}
	wg.Wait()

	st := r.View()
	assert.Equal(t, "21.0", st.Sensors.Temperature)
	assert.Equal(t, FieldState{Value: "05:00", Touched: true}, st.Field(FieldLightOnTime))
	assert.Equal(t, "20:00", st.Field(FieldLightOffTime).Value)
}
