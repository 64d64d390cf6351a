// Package docs registers the OpenAPI description served at /swagger.
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
        "/transactions": {
            "get": {
                "security": [{"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "List transactions",
                "parameters": [
                    {"type": "array", "items": {"type": "integer"}, "collectionFormat": "multi", "name": "categoryId", "in": "query"},
                    {"type": "array", "items": {"type": "integer"}, "collectionFormat": "multi", "name": "budgetId", "in": "query"},
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"},
                    {"type": "integer", "default": 1000, "name": "count", "in": "query"},
                    {"type": "integer", "default": 0, "name": "page", "in": "query"},
                    {"type": "string", "default": "date", "name": "sortBy", "in": "query"},
                    {"type": "string", "default": "DESC", "name": "sortOrder", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.TransactionResponse"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/transactions/new": {
            "post": {
                "security": [{"BasicAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Create a transaction",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.NewTransactionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TransactionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/transactions/{id}": {
            "get": {
                "security": [{"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Get a transaction",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TransactionResponse"}},
                    "404": {"description": "Not Found"}
                }
            },
            "put": {
                "security": [{"BasicAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Update a transaction",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateTransactionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TransactionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found"}
                }
            },
            "delete": {
                "security": [{"BasicAuth": []}],
                "tags": ["transactions"],
                "summary": "Delete a transaction",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "dto.CategoryRef": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "title": {"type": "string"}}
        },
        "dto.UserRef": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "username": {"type": "string"}}
        },
        "dto.NewTransactionRequest": {
            "type": "object",
            "properties": {
                "budgetId": {"type": "integer"},
                "categoryId": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "date": {"type": "string"},
                "amount": {"type": "integer"},
                "expense": {"type": "boolean"}
            }
        },
        "dto.UpdateTransactionRequest": {
            "type": "object",
            "properties": {
                "budgetId": {"type": "integer"},
                "categoryId": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "date": {"type": "string"},
                "amount": {"type": "integer"},
                "expense": {"type": "boolean"}
            }
        },
        "dto.TransactionResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "date": {"type": "string"},
                "amount": {"type": "integer"},
                "expense": {"type": "boolean"},
                "category": {"$ref": "#/definitions/dto.CategoryRef"},
                "budgetId": {"type": "integer"},
                "createdBy": {"$ref": "#/definitions/dto.UserRef"}
            }
        }
    },
    "securityDefinitions": {
        "BasicAuth": {"type": "basic"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Budget Server API",
	Description:      "Budgets, categories and transactions shared between users.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
