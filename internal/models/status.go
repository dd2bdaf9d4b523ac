package models

import (
	"encoding/json"
	"fmt"
)

// LightStatus describes the grow light relay and its daily schedule.
type LightStatus struct {
	IsOn    bool   `json:"isOn"`
	OnTime  string `json:"onTime"`  // HH:MM
	OffTime string `json:"offTime"` // HH:MM
}

// HumidifierStatus describes the humidifier relay and its target.
type HumidifierStatus struct {
	IsOn              bool    `json:"isOn"`
	TargetAirHumidity float64 `json:"targetAirHumidity"` // %
}

// DeviceStatusSnapshot is the full actuator status reported by the device.
type DeviceStatusSnapshot struct {
	Light      LightStatus      `json:"light"`
	Humidifier HumidifierStatus `json:"humidifier"`
}

type statusWire struct {
	Light *struct {
		IsOn    *bool   `json:"isOn"`
		OnTime  *string `json:"onTime"`
		OffTime *string `json:"offTime"`
	} `json:"light"`
	Humidifier *struct {
		IsOn              *bool    `json:"isOn"`
		TargetAirHumidity *float64 `json:"targetAirHumidity"`
	} `json:"humidifier"`
}

// DecodeStatusSnapshot parses a status payload. Both objects and all of
// their members are required and must not be null.
func DecodeStatusSnapshot(data []byte) (DeviceStatusSnapshot, error) {
	var w statusWire
	if err := json.Unmarshal(data, &w); err != nil {
		return DeviceStatusSnapshot{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if w.Light == nil || w.Light.IsOn == nil || w.Light.OnTime == nil || w.Light.OffTime == nil {
		return DeviceStatusSnapshot{}, fmt.Errorf("%w: incomplete \"light\"", ErrMalformedPayload)
	}
	if w.Humidifier == nil || w.Humidifier.IsOn == nil || w.Humidifier.TargetAirHumidity == nil {
		return DeviceStatusSnapshot{}, fmt.Errorf("%w: incomplete \"humidifier\"", ErrMalformedPayload)
	}

	return DeviceStatusSnapshot{
		Light: LightStatus{
			IsOn:    *w.Light.IsOn,
			OnTime:  *w.Light.OnTime,
			OffTime: *w.Light.OffTime,
		},
		Humidifier: HumidifierStatus{
			IsOn:              *w.Humidifier.IsOn,
			TargetAirHumidity: *w.Humidifier.TargetAirHumidity,
		},
	}, nil
}
