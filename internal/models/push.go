package models

// Push event kinds, shared by the device and the dashboard.
const (
	PushSensorUpdate = "sensor_update"
	PushStatusUpdate = "status_update"
)
