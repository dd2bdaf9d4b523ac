package service

import (
	"sync"

	"growbox_dashboard/internal/models"
)

// Device is the published state of the simulated controller: the last
// sensor reading and the relay states. The simulator writes it; handlers read it.
type Device struct {
	mu           sync.RWMutex
	sensors      models.SensorSnapshot
	lightOn      bool
	humidifierOn bool
}

func NewDevice() *Device {
	return &Device{}
}

// Sensors returns the last reading. The pointed-to values are never
// modified after publication, so sharing them is safe.
func (d *Device) Sensors() models.SensorSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sensors
}

// Relays returns the light and humidifier relay states.
func (d *Device) Relays() (light, humidifier bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lightOn, d.humidifierOn
}

func (d *Device) set(s models.SensorSnapshot, light, humidifier bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sensors = s
	d.lightOn = light
	d.humidifierOn = humidifier
}

// statusSnapshot builds the status payload from relay states and targets.
func statusSnapshot(light, humidifier bool, t models.Targets) models.DeviceStatusSnapshot {
	return models.DeviceStatusSnapshot{
		Light: models.LightStatus{
			IsOn:    light,
			OnTime:  t.LightOnTime,
			OffTime: t.LightOffTime,
		},
		Humidifier: models.HumidifierStatus{
			IsOn:              humidifier,
			TargetAirHumidity: t.AirHumidity,
		},
	}
}
