// Package docs registers the Swagger document served at /v1/swagger.
// It mirrors the handler annotations; regenerate it with
// `swag init -g cmd/api/main.go` after changing them.
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
        "/candidates": {
            "get": {
                "description": "Returns one page of candidates. Sorting applies to the returned page only.",
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "List candidates",
                "parameters": [
                    {"type": "integer", "description": "Page size (1-100, default 20)", "name": "pageSize", "in": "query"},
                    {"type": "string", "description": "Token from the previous page", "name": "continuationToken", "in": "query"},
                    {"type": "string", "description": "name, applicationDate or status", "name": "sortBy", "in": "query"},
                    {"type": "string", "description": "asc or desc", "name": "sortDirection", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "description": "Creates a candidate. Status defaults to new and interview stage to not_started.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "Create candidate",
                "parameters": [
                    {"type": "string", "description": "Acting user id, recorded as createdBy", "name": "X-User-Id", "in": "header"},
                    {"description": "Candidate", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.CreateCandidateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/candidates/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "Get candidate",
                "parameters": [
                    {"type": "string", "description": "Candidate ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "put": {
                "description": "Applies a partial update. At least one field is required; id, partitionKey, rowKey and createdAt are ignored.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "Update candidate",
                "parameters": [
                    {"type": "string", "description": "Candidate ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Acting user id, recorded as updatedBy", "name": "X-User-Id", "in": "header"},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.UpdateCandidateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "412": {"description": "Precondition Failed", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "patch": {
                "description": "Applies a partial update. At least one field is required; id, partitionKey, rowKey and createdAt are ignored.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["candidates"],
                "summary": "Update candidate",
                "parameters": [
                    {"type": "string", "description": "Candidate ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Acting user id, recorded as updatedBy", "name": "X-User-Id", "in": "header"},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.UpdateCandidateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "412": {"description": "Precondition Failed", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "delete": {
                "tags": ["candidates"],
                "summary": "Delete candidate",
                "parameters": [
                    {"type": "string", "description": "Candidate ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Probes the table store and redis. Returns 503 when a critical dependency is down.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "domain.CreateCandidateRequest": {
            "type": "object",
            "required": ["email", "name", "position"],
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "position": {"type": "string", "maxLength": 100},
                "status": {"type": "string", "enum": ["new", "screening", "interviewing", "offer", "hired", "rejected", "withdrawn"]},
                "interviewStage": {"type": "string", "enum": ["not_started", "phone_screen", "technical", "behavioral", "final", "completed"]},
                "applicationDate": {"type": "string"},
                "expectedSalary": {"type": "number"},
                "yearsOfExperience": {"type": "number", "minimum": 0},
                "notes": {"type": "string", "maxLength": 1000}
            }
        },
        "domain.UpdateCandidateRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "position": {"type": "string", "maxLength": 100},
                "status": {"type": "string", "enum": ["new", "screening", "interviewing", "offer", "hired", "rejected", "withdrawn"]},
                "interviewStage": {"type": "string", "enum": ["not_started", "phone_screen", "technical", "behavioral", "final", "completed"]},
                "applicationDate": {"type": "string"},
                "expectedSalary": {"type": "number"},
                "yearsOfExperience": {"type": "number", "minimum": 0},
                "notes": {"type": "string", "maxLength": 1000}
            }
        },
        "response.ErrorBody": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "field": {"type": "string"}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "error": {"$ref": "#/definitions/response.ErrorBody"},
                "request_id": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Candidate Tracking API",
	Description:      "Candidate pipeline tracking backed by a partitioned table store.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
