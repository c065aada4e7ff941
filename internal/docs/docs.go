// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with `swag init -g cmd/api/main.go -o internal/docs` after
// changing handler annotations.
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
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "calculator", "description": "Live payment quotes"},
        {"name": "commitments", "description": "Bank credits and investor investments"},
        {"name": "payments", "description": "Disbursements and wires"},
        {"name": "phases", "description": "Budget containers"},
        {"name": "contracts", "description": "Subcontractor cost assignments"},
        {"name": "pipeline", "description": "Scheduled maintenance jobs"}
    ],
    "paths": {
        "/calculator/quote": {"post": {"tags": ["calculator"], "summary": "Quote a payment", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Quote"}}}},
        "/calculator/schedule": {"post": {"tags": ["calculator"], "summary": "Repayment schedule", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Schedule"}, "422": {"description": "Terms cannot be amortized"}}}},
        "/projects/{projectId}/commitments": {
            "post": {"tags": ["commitments"], "summary": "Create a commitment", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Commitment created"}}},
            "get": {"tags": ["commitments"], "summary": "List commitments", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Paginated commitments"}}}
        },
        "/projects/{projectId}/finance-summary": {"get": {"tags": ["commitments"], "summary": "Project finance summary", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Totals"}}}},
        "/commitments/{id}": {
            "get": {"tags": ["commitments"], "summary": "Get commitment by ID", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Commitment"}}},
            "put": {"tags": ["commitments"], "summary": "Update commitment", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Updated commitment"}}},
            "delete": {"tags": ["commitments"], "summary": "Delete commitment", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Commitment deleted"}}}
        },
        "/commitments/{id}/summary": {"get": {"tags": ["commitments"], "summary": "Commitment summary", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Summary"}}}},
        "/commitments/{id}/payments": {
            "post": {"tags": ["payments"], "summary": "Record a commitment payment", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Payment recorded"}}},
            "get": {"tags": ["payments"], "summary": "List commitment payments", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Payments"}}}
        },
        "/commitments/{id}/ledger-check": {"get": {"tags": ["payments"], "summary": "Verify a stored aggregate", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Check result"}}}},
        "/payments/{id}": {
            "put": {"tags": ["payments"], "summary": "Edit payment", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Updated payment"}}},
            "delete": {"tags": ["payments"], "summary": "Delete payment", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Payment deleted"}}}
        },
        "/projects/{projectId}/phases": {
            "post": {"tags": ["phases"], "summary": "Create a phase", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Phase created"}}},
            "get": {"tags": ["phases"], "summary": "List phases", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Paginated phases"}}}
        },
        "/phases/{id}": {
            "get": {"tags": ["phases"], "summary": "Get phase by ID", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Phase"}}},
            "put": {"tags": ["phases"], "summary": "Update phase", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Updated phase"}}},
            "delete": {"tags": ["phases"], "summary": "Delete phase", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Phase deleted"}}}
        },
        "/phases/{id}/budget": {"get": {"tags": ["phases"], "summary": "Phase budget status", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Budget status"}}}},
        "/phases/{id}/recompute": {"post": {"tags": ["phases"], "summary": "Recompute phase", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Recomputed phase"}}}},
        "/projects/{projectId}/contracts": {
            "post": {"tags": ["contracts"], "summary": "Create a contract", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Contract created"}}},
            "get": {"tags": ["contracts"], "summary": "List contracts", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Paginated contracts"}}}
        },
        "/contracts/{id}": {
            "get": {"tags": ["contracts"], "summary": "Get contract by ID", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Contract"}}},
            "put": {"tags": ["contracts"], "summary": "Update contract", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Updated contract"}}},
            "delete": {"tags": ["contracts"], "summary": "Delete contract", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Contract deleted"}}}
        },
        "/contracts/{id}/phase": {"put": {"tags": ["contracts"], "summary": "Reassign contract", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Reassigned contract"}}}},
        "/contracts/{id}/payments": {
            "post": {"tags": ["payments"], "summary": "Record a contract wire", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Wire recorded"}}},
            "get": {"tags": ["payments"], "summary": "List contract wires", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Wires"}}}
        },
        "/contracts/{id}/ledger-check": {"get": {"tags": ["payments"], "summary": "Verify a stored aggregate", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Check result"}}}},
        "/pipeline/ledger/recompute": {"post": {"tags": ["pipeline"], "summary": "Recompute all phases", "responses": {"200": {"description": "All phases recomputed"}, "500": {"description": "Some phases failed"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "BuildLedger API",
	Description:      "Financing and budget ledger of a construction back office: credits, investments, payments, phases and subcontractor contracts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
