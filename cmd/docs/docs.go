// Package docs holds the swagger document served under /swagger.
// Regenerate with: swag init -g cmd/ledger_backend/main.go -o cmd/docs
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
        "/auth/login": {
            "post": {"tags": ["auth"], "summary": "User login", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/auth/register": {
            "post": {"tags": ["auth"], "summary": "Register new user", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/accounts": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "List accounts", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Create a new account", "responses": {"201": {"description": "Created"}}}
        },
        "/accounts/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Get an account by ID", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Update an account", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Deactivate an account", "responses": {"204": {"description": "No Content"}}}
        },
        "/transactions": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "List transactions", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Post a transaction", "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid transaction or insufficient funds"}, "404": {"description": "Account not found"}}}
        },
        "/transactions/export": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Export transactions", "responses": {"200": {"description": "XLSX workbook"}}}
        },
        "/transactions/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Get a transaction by ID", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Update a transaction", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Delete a transaction", "responses": {"204": {"description": "No Content"}}}
        },
        "/tags": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "List tags", "responses": {"200": {"description": "OK"}}}
        },
        "/categories": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["categories"], "summary": "List the category tree", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["categories"], "summary": "Create a category", "responses": {"201": {"description": "Created"}}}
        },
        "/categories/init": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["categories"], "summary": "Seed default categories", "responses": {"204": {"description": "No Content"}}}
        },
        "/categories/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["categories"], "summary": "Get a category by ID", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["categories"], "summary": "Update a category", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["categories"], "summary": "Delete a category", "responses": {"204": {"description": "No Content"}, "403": {"description": "System category"}}}
        },
        "/budgets": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["budgets"], "summary": "List budgets", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["budgets"], "summary": "Create a budget", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/budgets/usage": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["budgets"], "summary": "Monthly budget usage", "responses": {"200": {"description": "OK"}}}
        },
        "/budgets/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["budgets"], "summary": "Get a budget by ID", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["budgets"], "summary": "Update a budget", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["budgets"], "summary": "Deactivate a budget", "responses": {"204": {"description": "No Content"}}}
        },
        "/statistics/overview": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["statistics"], "summary": "Income and expense overview", "responses": {"200": {"description": "OK"}}}
        },
        "/statistics/trend": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["statistics"], "summary": "Income or expense trend", "responses": {"200": {"description": "OK"}}}
        },
        "/statistics/budgets": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["statistics"], "summary": "Budget usage for the current month", "responses": {"200": {"description": "OK"}}}
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
	Title:            "Personal Ledger API",
	Description:      "Accounts, transactions, categories, budgets and statistics for a personal ledger.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
