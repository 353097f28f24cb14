// Package docs registers the OpenAPI description of the API with swag.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/ping": {"get": {"tags": ["Health"], "summary": "Health check", "responses": {"200": {"description": "OK"}}}},
        "/metrics": {"get": {"tags": ["Health"], "summary": "Prometheus metrics", "responses": {"200": {"description": "OK"}}}},
        "/stages": {"get": {"tags": ["Competition"], "summary": "List competition stages", "responses": {"200": {"description": "OK"}}}},
        "/categories": {"get": {"tags": ["Competition"], "summary": "List categories", "responses": {"200": {"description": "OK"}}}},
        "/teams": {"post": {"tags": ["Teams"], "summary": "Register a team", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/teams/{id}/dashboard": {"get": {"security": [{"Bearer": []}], "tags": ["Teams"], "summary": "Get team dashboard",
            "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/teams/{id}/notifications/{stage_id}/dismiss": {"post": {"security": [{"Bearer": []}], "tags": ["Teams"], "summary": "Dismiss a review notification",
            "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"type": "integer", "name": "stage_id", "in": "path", "required": true},
                {"name": "request", "in": "body", "required": true, "schema": {"type": "object", "properties": {"kind": {"type": "string", "enum": ["approved", "rejected"]}}}}],
            "responses": {"204": {"description": "No Content"}, "400": {"description": "Bad Request"}}}},
        "/teams/{id}/assignments/{assignment_id}/submissions": {"post": {"security": [{"Bearer": []}], "tags": ["Teams"], "summary": "Submit an assignment",
            "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"type": "integer", "name": "assignment_id", "in": "path", "required": true}],
            "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}},
        "/teams/{id}/ws": {"get": {"security": [{"Bearer": []}], "tags": ["Teams"], "summary": "Team dashboard live updates",
            "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
            "responses": {"101": {"description": "Switching Protocols"}}}},
        "/admin/teams": {"get": {"security": [{"Bearer": []}], "tags": ["Admin"], "summary": "List teams", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/admin/teams/{id}/stages/{stage_id}/review": {"put": {"security": [{"Bearer": []}], "tags": ["Admin"], "summary": "Review a stage",
            "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"type": "integer", "name": "stage_id", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/admin/stages/{id}/export": {"get": {"security": [{"Bearer": []}], "tags": ["Admin"], "summary": "Export stage progress",
            "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}}
    },
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "IBP Academy API",
	Description:      "Stage progress of the teams of the IBP Academy competition",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
