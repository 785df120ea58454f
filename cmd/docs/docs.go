// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/mdp_backend/main.go -o cmd/docs
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
        "/access-key": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Serves the cached access key, building and caching it when absent",
                "produces": ["application/json"],
                "tags": ["access-key"],
                "summary": "Get the member's access key",
                "parameters": [
                    {"type": "boolean", "description": "Build the reduced key without calculations", "name": "basic", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AccessKeyResponse"}},
                    "400": {"description": "Invalid query or member claims"},
                    "401": {"description": "Unauthorized"},
                    "404": {"description": "Member or tenant not found"},
                    "500": {"description": "Failed to build access key"}
                }
            }
        },
        "/access-key/recalculate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Drops every cached value for the member and builds the access key again",
                "produces": ["application/json"],
                "tags": ["access-key"],
                "summary": "Recalculate the member's access key",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AccessKeyResponse"}},
                    "401": {"description": "Unauthorized"},
                    "404": {"description": "Member or tenant not found"},
                    "409": {"description": "A recalculation is already running for the member"},
                    "500": {"description": "Failed to recalculate access key"}
                }
            }
        },
        "/access-key/dc-journey-status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Reads the most advanced DC journey state from the access key wording flags",
                "produces": ["application/json"],
                "tags": ["access-key"],
                "summary": "Get the member's DC journey status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DcJourneyStatusResponse"}},
                    "401": {"description": "Unauthorized"},
                    "500": {"description": "Failed to build access key"}
                }
            }
        },
        "/journeys/{type}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["journeys"],
                "summary": "Get a journey",
                "parameters": [{"type": "string", "description": "Journey type", "name": "type", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.JourneyResponse"}},
                    "404": {"description": "Journey not found"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["journeys"],
                "summary": "Start a journey",
                "parameters": [
                    {"type": "string", "description": "Journey type", "name": "type", "in": "path", "required": true},
                    {"description": "Start page", "name": "journey", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.StartJourneyRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.JourneyResponse"}},
                    "409": {"description": "Journey already submitted"}
                }
            }
        },
        "/journeys/{type}/steps": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["journeys"],
                "summary": "Submit a journey step",
                "parameters": [
                    {"type": "string", "description": "Journey type", "name": "type", "in": "path", "required": true},
                    {"description": "Step details", "name": "step", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SubmitStepRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.JourneyResponse"}},
                    "404": {"description": "Journey or step not found"},
                    "410": {"description": "Journey expired"}
                }
            }
        },
        "/journeys/{type}/rewind": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["journeys"],
                "summary": "Rewind a journey",
                "parameters": [
                    {"type": "string", "description": "Journey type", "name": "type", "in": "path", "required": true},
                    {"description": "Page to reopen", "name": "rewind", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RewindJourneyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.JourneyResponse"}},
                    "404": {"description": "Journey or step not found"}
                }
            }
        },
        "/journeys/{type}/generic-data": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["journeys"],
                "summary": "Save journey form data",
                "parameters": [
                    {"type": "string", "description": "Journey type", "name": "type", "in": "path", "required": true},
                    {"description": "Form data", "name": "data", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SaveGenericDataRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.JourneyResponse"}},
                    "404": {"description": "Journey or step not found"}
                }
            }
        },
        "/journeys/{type}/submit": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["journeys"],
                "summary": "Submit a journey",
                "parameters": [{"type": "string", "description": "Journey type", "name": "type", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.JourneyResponse"}},
                    "409": {"description": "Journey already submitted"},
                    "410": {"description": "Journey expired"}
                }
            }
        }
    },
    "definitions": {
        "dto.AccessKeyResponse": {
            "type": "object",
            "properties": {
                "accessKey": {"type": "string"},
                "decoded": {"type": "object"}
            }
        },
        "dto.DcJourneyStatusResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["ExploreOptions", "Started", "Submitted"]}
            }
        },
        "dto.StartJourneyRequest": {
            "type": "object",
            "required": ["startPageKey"],
            "properties": {"startPageKey": {"type": "string"}}
        },
        "dto.SubmitStepRequest": {
            "type": "object",
            "required": ["currentPageKey", "nextPageKey"],
            "properties": {
                "currentPageKey": {"type": "string"},
                "nextPageKey": {"type": "string"},
                "questionKey": {"type": "string"},
                "answerKey": {"type": "string"},
                "answerValue": {"type": "string"}
            }
        },
        "dto.RewindJourneyRequest": {
            "type": "object",
            "required": ["pageKey"],
            "properties": {"pageKey": {"type": "string"}}
        },
        "dto.SaveGenericDataRequest": {
            "type": "object",
            "required": ["pageKey", "formKey", "genericDataJson"],
            "properties": {
                "pageKey": {"type": "string"},
                "formKey": {"type": "string"},
                "genericDataJson": {"type": "string"}
            }
        },
        "dto.JourneyStepResponse": {
            "type": "object",
            "properties": {
                "currentPageKey": {"type": "string"},
                "nextPageKey": {"type": "string"},
                "submittedDate": {"type": "string"},
                "questionKey": {"type": "string"},
                "answerKey": {"type": "string"}
            }
        },
        "dto.JourneyResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string"},
                "status": {"type": "string"},
                "startDate": {"type": "string"},
                "expirationDate": {"type": "string"},
                "submissionDate": {"type": "string"},
                "currentPageKey": {"type": "string"},
                "steps": {"type": "array", "items": {"$ref": "#/definitions/dto.JourneyStepResponse"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "MDP Service API",
	Description:      "Member access keys and journeys for the pension member portal.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
