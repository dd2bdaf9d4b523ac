package view

import (
	"strconv"

	"growbox_dashboard/internal/models"
)

// Display strings.
const (
	Placeholder = "--"
	ErrSentinel = "ERR"

	lightOn        = "Ligada"
	lightOff       = "Desligada"
	humidifierOn   = "Ligado"
	humidifierOff  = "Desligado"
	humidityDigits = 1
	vpdDigits      = 2
)

// SensorReadout is the rendered form of a SensorSnapshot.
type SensorReadout struct {
	Temperature  string
	AirHumidity  string
	SoilHumidity string
	VPD          string
}

// StatusReadout is the rendered form of a DeviceStatusSnapshot.
type StatusReadout struct {
	Light                    string
	LightOnTime              string
	LightOffTime             string
	Humidifier               string
	CurrentTargetAirHumidity string
}

func emptySensorReadout() SensorReadout {
	return SensorReadout{Placeholder, Placeholder, Placeholder, Placeholder}
}

func emptyStatusReadout() StatusReadout {
	return StatusReadout{Placeholder, Placeholder, Placeholder, Placeholder, Placeholder}
}

// formatReading renders v with the given precision, or the error sentinel for a failed read.
func formatReading(v *float64, digits int) string {
	if v == nil {
		return ErrSentinel
	}
	return formatFixed(*v, digits)
}

func formatFixed(v float64, digits int) string {
	return strconv.FormatFloat(v, 'f', digits, 64)
}

func renderSensors(s models.SensorSnapshot) SensorReadout {
	return SensorReadout{
		Temperature:  formatReading(s.Temperature, humidityDigits),
		AirHumidity:  formatReading(s.AirHumidity, humidityDigits),
		SoilHumidity: formatReading(s.SoilHumidity, humidityDigits),
		VPD:          formatReading(s.VPD, vpdDigits),
	}
}

func renderStatus(d models.DeviceStatusSnapshot) StatusReadout {
	r := StatusReadout{
		Light:                    lightOff,
		LightOnTime:              d.Light.OnTime,
		LightOffTime:             d.Light.OffTime,
		Humidifier:               humidifierOff,
		CurrentTargetAirHumidity: formatFixed(d.Humidifier.TargetAirHumidity, humidityDigits),
	}
	if d.Light.IsOn {
		r.Light = lightOn
	}
	if d.Humidifier.IsOn {
		r.Humidifier = humidifierOn
	}
	return r
}

// statusFieldValues maps a status snapshot onto the editable field defaults.
func statusFieldValues(d models.DeviceStatusSnapshot) [fieldCount]string {
	var v [fieldCount]string
	v[FieldTargetAirHumidity] = formatFixed(d.Humidifier.TargetAirHumidity, humidityDigits)
	v[FieldLightOnTime] = d.Light.OnTime
	v[FieldLightOffTime] = d.Light.OffTime
	return v
}
