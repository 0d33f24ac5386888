// Package docs registers the OpenAPI description served under /swagger.
// Keep it in step with the godoc annotations on the handlers.
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
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "in": "header", "name": "Authorization"}
    },
    "paths": {
        "/health": {"get": {"tags": ["health"], "summary": "Health check", "responses": {"200": {"description": "OK"}, "503": {"description": "Database unreachable"}}}},
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new user", "responses": {"201": {"description": "Created"}, "409": {"description": "Email already registered"}, "422": {"description": "Validation error"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "User login", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}}},
        "/profile": {
            "get": {"tags": ["profile"], "summary": "Get profile", "security": [{"ApiKeyAuth": []}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["profile"], "summary": "Update settings", "security": [{"ApiKeyAuth": []}], "responses": {"200": {"description": "OK"}, "409": {"description": "Start date already set"}, "422": {"description": "Validation error"}}}
        },
        "/account": {"put": {"tags": ["profile"], "summary": "Update account", "security": [{"ApiKeyAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Wrong password"}}}},
        "/challenge": {
            "get": {"tags": ["challenge"], "summary": "Get challenge progress", "security": [{"ApiKeyAuth": []}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["challenge"], "summary": "Sync challenge progress", "security": [{"ApiKeyAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid day id"}, "403": {"description": "Day is locked"}, "409": {"description": "Version conflict or start date already set"}}},
            "delete": {"tags": ["challenge"], "summary": "Reset the challenge", "security": [{"ApiKeyAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/challenge/start": {"post": {"tags": ["challenge"], "summary": "Start the challenge", "security": [{"ApiKeyAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/challenge/days": {"get": {"tags": ["challenge"], "summary": "List challenge days", "security": [{"ApiKeyAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/challenge/days/{id}": {"get": {"tags": ["challenge"], "summary": "Get a challenge day", "security": [{"ApiKeyAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid day id"}, "403": {"description": "Day is locked"}}}},
        "/challenge/days/{id}/complete": {"post": {"tags": ["challenge"], "summary": "Complete a challenge day", "security": [{"ApiKeyAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid day id"}, "403": {"description": "Day is locked"}}}},
        "/challenge/days/{id}/note": {"put": {"tags": ["challenge"], "summary": "Write a day note", "security": [{"ApiKeyAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid day id"}, "403": {"description": "Day is locked"}}}},
        "/journal": {
            "get": {"tags": ["journal"], "summary": "List journal entries", "security": [{"ApiKeyAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["journal"], "summary": "Create a journal entry", "security": [{"ApiKeyAuth": []}], "responses": {"201": {"description": "Created"}, "422": {"description": "Validation error"}}}
        },
        "/journal/{id}": {"delete": {"tags": ["journal"], "summary": "Delete a journal entry", "security": [{"ApiKeyAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/trackers": {
            "get": {"tags": ["trackers"], "summary": "Get a daily tracker", "security": [{"ApiKeyAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["trackers"], "summary": "Save a daily tracker", "security": [{"ApiKeyAuth": []}], "responses": {"200": {"description": "OK"}, "422": {"description": "Validation error"}}}
        },
        "/trackers/analytics": {"get": {"tags": ["trackers"], "summary": "Tracker analytics", "security": [{"ApiKeyAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/routine": {
            "get": {"tags": ["routine"], "summary": "List routine items", "security": [{"ApiKeyAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["routine"], "summary": "Add a routine item", "security": [{"ApiKeyAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/routine/{id}": {
            "put": {"tags": ["routine"], "summary": "Update a routine item", "security": [{"ApiKeyAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "delete": {"tags": ["routine"], "summary": "Delete a routine item", "security": [{"ApiKeyAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/vision": {
            "get": {"tags": ["vision"], "summary": "List vision board images", "security": [{"ApiKeyAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["vision"], "summary": "Add a vision board image", "security": [{"ApiKeyAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/vision/{id}": {"delete": {"tags": ["vision"], "summary": "Remove a vision board image", "security": [{"ApiKeyAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/affirmations/today": {"get": {"tags": ["affirmations"], "summary": "Affirmation of the day", "security": [{"ApiKeyAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/overview": {"get": {"tags": ["overview"], "summary": "Dashboard overview", "security": [{"ApiKeyAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/export": {"get": {"tags": ["export"], "summary": "Export user data as XLSX", "security": [{"ApiKeyAuth": []}], "responses": {"200": {"description": "Workbook"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Glow Up API",
	Description:      "30-day glow up challenge tracker",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
