// Package docs registers the Swagger document for internal/transport/http's
// routes with swaggo/swag. The template is written by hand in the layout
// `swag init` produces and mirrors the @Summary / @Router annotations on the
// handlers; `swag init -g cmd/fiscalsim/main.go` would regenerate it from
// those annotations.
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
        "/simulations": {
            "post": {
                "description": "Validates the fiscal configuration, stores the supplied company/patterns in the reference store, and runs the simulation in the background. Progress is observable via the events/snapshot endpoints.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["simulations"],
                "summary": "Start a twelve-month financial simulation",
                "parameters": [
                    {
                        "description": "Fiscal config, company and patterns",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.RunRequest"}
                    }
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/http.RunResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/simulations/{id}/events": {
            "get": {
                "description": "Canonical wire format per spec §6: {\"type\":\"progress\"|\"completed\"|\"error\"|\"heartbeat\",\"data\":{...}}.",
                "produces": ["text/event-stream"],
                "tags": ["simulations"],
                "summary": "Stream simulation progress as server-sent events",
                "parameters": [
                    {"type": "string", "description": "Simulation ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {}
            }
        },
        "/simulations/{id}/snapshot": {
            "get": {
                "description": "For clients that cannot hold a streaming connection (spec §6).",
                "produces": ["application/json"],
                "tags": ["simulations"],
                "summary": "Read the latest progress snapshot for a simulation",
                "parameters": [
                    {"type": "string", "description": "Simulation ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Snapshot"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "http.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "http.RunRequest": {
            "type": "object",
            "properties": {
                "company": {"type": "object"},
                "expensePatterns": {"type": "array", "items": {"type": "object"}},
                "fiscalConfig": {"type": "object"},
                "revenuePatterns": {"type": "array", "items": {"type": "object"}}
            }
        },
        "http.RunResponse": {
            "type": "object",
            "properties": {
                "simulationId": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "domain.Snapshot": {
            "type": "object",
            "properties": {
                "currentMonth": {"type": "integer"},
                "progress": {"type": "integer"},
                "simulationId": {"type": "string"},
                "status": {"type": "string"},
                "timestamp": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "fiscalsim simulation engine API",
	Description:      "Reference HTTP transport for the French small-business financial simulation engine: run control and progress streaming.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
