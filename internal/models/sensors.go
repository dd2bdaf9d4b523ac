package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedPayload marks a snapshot payload that cannot be decoded.
var ErrMalformedPayload = errors.New("malformed payload")

// SensorSnapshot is the latest set of sensor readings.
// A nil reading means the sensor could not be read.
type SensorSnapshot struct {
	Temperature  *float64 `json:"temperature"`  // °C
	AirHumidity  *float64 `json:"airHumidity"`  // %
	SoilHumidity *float64 `json:"soilHumidity"` // %
	VPD          *float64 `json:"vpd"`          // kPa
}

// sensorWire keeps raw members so that a missing key can be told apart from null.
type sensorWire struct {
	Temperature  json.RawMessage `json:"temperature"`
	AirHumidity  json.RawMessage `json:"airHumidity"`
	SoilHumidity json.RawMessage `json:"soilHumidity"`
	VPD          json.RawMessage `json:"vpd"`
}

// DecodeSensorSnapshot parses a sensors payload. Every key must be present;
// each value is either a number or null.
func DecodeSensorSnapshot(data []byte) (SensorSnapshot, error) {
	var w sensorWire
	if err := json.Unmarshal(data, &w); err != nil {
		return SensorSnapshot{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	var (
		s   SensorSnapshot
		err error
	)
	if s.Temperature, err = nullableNumber("temperature", w.Temperature); err != nil {
		return SensorSnapshot{}, err
	}
	if s.AirHumidity, err = nullableNumber("airHumidity", w.AirHumidity); err != nil {
		return SensorSnapshot{}, err
	}
	if s.SoilHumidity, err = nullableNumber("soilHumidity", w.SoilHumidity); err != nil {
		return SensorSnapshot{}, err
	}
	if s.VPD, err = nullableNumber("vpd", w.VPD); err != nil {
		return SensorSnapshot{}, err
	}
	return s, nil
}

// nullableNumber decodes a required member that may be null.
func nullableNumber(key string, raw json.RawMessage) (*float64, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedPayload, key)
	}
	var v *float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrMalformedPayload, key, err)
	}
	return v, nil
}

// Float returns a pointer to v. Handy for building snapshots.
func Float(v float64) *float64 { return &v }
