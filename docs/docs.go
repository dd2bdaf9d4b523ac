// Package docs registers the device simulator's OpenAPI description for /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/sensors": {
            "get": {
                "description": "A null value means the sensor could not be read.",
                "produces": ["application/json"],
                "tags": ["device"],
                "summary": "Latest sensor readings",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SensorSnapshot"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["device"],
                "summary": "Actuator status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.DeviceStatusSnapshot"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/targets": {
            "post": {
                "description": "Humidity must be in (0, 100]; times are HH:MM. An on time equal to the off time keeps the light off.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["device"],
                "summary": "Update targets",
                "parameters": [
                    {"description": "Targets", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.TargetUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.TargetUpdateResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.TargetUpdateResult"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.TargetUpdateResult"}}
                }
            }
        },
        "/api/logs": {
            "get": {
                "description": "Relay switches, target changes and sensor faults, oldest first. 'actuator' narrows to one relay; 'type' to one event. A date-only 'to' covers the whole day. switch_ons counts ON transitions per relay in the result.",
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "Actuation log",
                "parameters": [
                    {"type": "string", "example": "2025-08-01", "name": "from", "in": "query"},
                    {"type": "string", "example": "2025-08-31", "name": "to", "in": "query"},
                    {"enum": ["light", "humidifier"], "type": "string", "name": "actuator", "in": "query"},
                    {"enum": ["LIGHT_ON", "LIGHT_OFF", "HUMIDIFIER_ON", "HUMIDIFIER_OFF", "TARGETS_UPDATED", "SENSOR_FAULT"], "type": "string", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.ActuationLog"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/events": {
            "get": {
                "description": "Emits sensor_update and status_update events whose data is the same JSON as GET /api/sensors and GET /api/status. The current snapshots are sent first.",
                "produces": ["text/event-stream"],
                "tags": ["stream"],
                "summary": "Push stream (Server-Sent Events)",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ws": {
            "get": {
                "description": "Each message is {\"type\": \"sensor_update\"|\"status_update\", \"data\": {...}}. The current snapshots are sent first.",
                "tags": ["stream"],
                "summary": "Push stream (WebSocket)",
                "responses": {}
            }
        }
    },
    "definitions": {
        "service.ActuationLog": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "events": {"type": "array", "items": {"type": "object", "additionalProperties": true}},
                "switch_ons": {"type": "object", "additionalProperties": {"type": "integer"}}
            }
        },
        "models.SensorSnapshot": {
            "type": "object",
            "properties": {
                "temperature": {"type": "number", "x-nullable": true},
                "airHumidity": {"type": "number", "x-nullable": true},
                "soilHumidity": {"type": "number", "x-nullable": true},
                "vpd": {"type": "number", "x-nullable": true}
            }
        },
        "models.LightStatus": {
            "type": "object",
            "properties": {
                "isOn": {"type": "boolean"},
                "onTime": {"type": "string", "example": "06:00"},
                "offTime": {"type": "string", "example": "18:00"}
            }
        },
        "models.HumidifierStatus": {
            "type": "object",
            "properties": {
                "isOn": {"type": "boolean"},
                "targetAirHumidity": {"type": "number", "example": 60}
            }
        },
        "models.DeviceStatusSnapshot": {
            "type": "object",
            "properties": {
                "light": {"$ref": "#/definitions/models.LightStatus"},
                "humidifier": {"$ref": "#/definitions/models.HumidifierStatus"}
            }
        },
        "models.TargetUpdateRequest": {
            "type": "object",
            "properties": {
                "targetAirHumidity": {"type": "number", "example": 65},
                "lightOnTime": {"type": "string", "example": "06:00"},
                "lightOffTime": {"type": "string", "example": "18:00"}
            }
        },
        "models.TargetUpdateResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Grow-box device API",
	Description:      "Simulated grow-box controller: sensor snapshots, actuator status, targets and push streams.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
