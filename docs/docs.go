// Package docs registers the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/decode": {
            "post": {
                "description": "Tokenize and interpret an ESC/POS byte stream",
                "consumes": ["application/octet-stream", "application/json", "text/x-thermal"],
                "produces": ["application/json"],
                "tags": ["Decode"],
                "summary": "Decode a print job",
                "parameters": [
                    {"type": "string", "default": "escpos", "description": "Command table", "name": "table", "in": "query"},
                    {"type": "boolean", "default": true, "description": "Store the job", "name": "persist", "in": "query"},
                    {"type": "string", "description": "Source label", "name": "source", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Job decoded", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "413": {"description": "Payload too large", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "415": {"description": "Unsupported media type", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "422": {"description": "Thermal source does not compile", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/jobs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Jobs"],
                "summary": "List jobs",
                "parameters": [
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "name": "per_page", "in": "query"},
                    {"type": "string", "name": "source", "in": "query"},
                    {"enum": ["API", "SERIAL", "TCP", "USB"], "type": "string", "name": "source_type", "in": "query"},
                    {"enum": ["DECODED", "PARTIAL", "EMPTY"], "type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "start_date", "in": "query"},
                    {"type": "string", "name": "end_date", "in": "query"},
                    {"enum": ["asc", "desc"], "type": "string", "default": "desc", "name": "sort_order", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Jobs retrieved successfully", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/jobs/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Jobs"],
                "summary": "Job statistics",
                "responses": {
                    "200": {"description": "Statistics retrieved successfully", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/jobs/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Jobs"],
                "summary": "Get job",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Job retrieved successfully", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "404": {"description": "Job not found", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Jobs"],
                "summary": "Delete job",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Job deleted successfully", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "404": {"description": "Job not found", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/jobs/{id}/raw": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["Jobs"],
                "summary": "Download job bytes",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Job bytes", "schema": {"type": "file"}},
                    "404": {"description": "Job not found", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/jobs/{id}/redecode": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Jobs"],
                "summary": "Re-decode job",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "table", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Job decoded", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "404": {"description": "Job not found", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/events": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Jobs"],
                "summary": "List events",
                "parameters": [{"type": "integer", "default": 50, "name": "limit", "in": "query"}],
                "responses": {
                    "200": {"description": "Events retrieved successfully", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/tables": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Tables"],
                "summary": "List command tables",
                "responses": {
                    "200": {"description": "Tables retrieved successfully", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/tables/{name}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Tables"],
                "summary": "Describe command table",
                "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Table retrieved successfully", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "404": {"description": "Table not found", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/capture/sources": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Capture"],
                "summary": "List capture sources",
                "responses": {
                    "200": {"description": "Sources retrieved successfully", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/capture/ports": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Capture"],
                "summary": "Scan ports",
                "parameters": [{"enum": ["all", "serial", "usb", "tcp"], "type": "string", "default": "all", "name": "type", "in": "query"}],
                "responses": {
                    "200": {"description": "Port scan completed", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Invalid scan type", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/capture/ports/suggest": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Capture"],
                "summary": "Suggest capture source",
                "responses": {
                    "200": {"description": "Source suggested", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "utils.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "utils.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/utils.APIError"},
                "message": {"type": "string"},
                "request_id": {"type": "string"},
                "success": {"type": "boolean"},
                "timestamp": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8084",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "ESC/POS Decoder API",
	Description:      "Decodes ESC/POS thermal printer byte streams captured from serial, USB and TCP ports or posted over HTTP",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
