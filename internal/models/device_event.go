package models

import "time"

// Device event types.
const (
	EventLightOn        = "LIGHT_ON"
	EventLightOff       = "LIGHT_OFF"
	EventHumidifierOn   = "HUMIDIFIER_ON"
	EventHumidifierOff  = "HUMIDIFIER_OFF"
	EventTargetsUpdated = "TARGETS_UPDATED"
	EventSensorFault    = "SENSOR_FAULT"
)

// DeviceEvent is a single entry of the device actuation log.
type DeviceEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // LIGHT_ON | LIGHT_OFF | HUMIDIFIER_ON | ...
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}

// Actuators recorded in the log.
const (
	ActuatorLight      = "light"
	ActuatorHumidifier = "humidifier"
)

// Actuators lists the relays the device drives, in display order.
var Actuators = []string{ActuatorLight, ActuatorHumidifier}

var relayEvents = map[string][2]string{
	ActuatorLight:      {EventLightOn, EventLightOff},
	ActuatorHumidifier: {EventHumidifierOn, EventHumidifierOff},
}

// RelayEvents returns the ON and OFF event types of actuator.
func RelayEvents(actuator string) (on, off string, ok bool) {
	ev, ok := relayEvents[actuator]
	return ev[0], ev[1], ok
}

// IsEventType reports whether t is one of the Event* types.
func IsEventType(t string) bool {
	switch t {
	case EventLightOn, EventLightOff, EventHumidifierOn, EventHumidifierOff, EventTargetsUpdated, EventSensorFault:
		return true
	}
	return false
}

// EventQuery selects log entries. Zero bounds and empty Types are not filtered on.
type EventQuery struct {
	From  time.Time
	To    time.Time
	Types []string
}
