// Package docs registers the swagger description of the ads API.
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
        "/ads": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Ads"],
                "summary": "List ads",
                "description": "Returns all ads ordered by (position, order), optionally filtered to one position.",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Placement filter (top|middle|bottom)",
                        "name": "position",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Site tag (ignored)",
                        "name": "site",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Ads",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/AdRecord"}
                        }
                    },
                    "500": {"description": "Internal Server Error"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Ads"],
                "summary": "Bulk save ads",
                "description": "Applies one section's full ordered list as a mix of inserts (no id) and in-place updates (id present).",
                "parameters": [
                    {
                        "description": "Ordered ad list",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/AdUpsert"}
                        }
                    }
                ],
                "responses": {
                    "200": {"description": "Authoritative ads for the saved positions"},
                    "400": {"description": "Bad Request"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/ads/{adID}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Ads"],
                "summary": "Update one ad",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Ad ID",
                        "name": "adID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "New field values",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/AdUpsert"}
                    }
                ],
                "responses": {
                    "200": {"description": "Updated ad"},
                    "404": {"description": "Ad not found"},
                    "500": {"description": "Internal Server Error"}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Ads"],
                "summary": "Delete one ad",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Ad ID",
                        "name": "adID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "Deleted ad"},
                    "404": {"description": "Ad not found"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Ops"],
                "summary": "Health check",
                "security": [{"BasicAuth": []}],
                "responses": {
                    "200": {"description": "Service status"}
                }
            }
        }
    },
    "definitions": {
        "AdRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "content": {"type": "string"},
                "position": {"type": "string", "enum": ["top", "middle", "bottom"]},
                "order": {"type": "integer"},
                "isActive": {"type": "boolean"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "AdUpsert": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "content": {"type": "string"},
                "position": {"type": "string", "enum": ["top", "middle", "bottom"]},
                "order": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BasicAuth": {"type": "basic"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Ads Manager API",
	Description:      "CRUD backend for the ads admin panel: per-position ordered ad blocks with bulk save.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
