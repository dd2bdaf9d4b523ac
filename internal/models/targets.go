package models

import "time"

// TargetUpdateRequest is the body of POST /api/targets.
type TargetUpdateRequest struct {
	TargetAirHumidity float64 `json:"targetAirHumidity"`
	LightOnTime       string  `json:"lightOnTime"`
	LightOffTime      string  `json:"lightOffTime"`
}

// TargetUpdateResult is the device's answer to a target update.
type TargetUpdateResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Targets is the control configuration persisted by the device.
type Targets struct {
	AirHumidity  float64   `json:"air_humidity"`   // %
	LightOnTime  string    `json:"light_on_time"`  // HH:MM
	LightOffTime string    `json:"light_off_time"` // HH:MM
	UpdatedAt    time.Time `json:"updated_at"`
}
