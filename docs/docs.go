// Package docs holds the OpenAPI document served at /swagger. Keep it in
// step with the @Router annotations on the handlers in internal/server.
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
        "/": {
            "get": {
                "description": "List all categories",
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Home page",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List users",
                "parameters": [
                    {"type": "integer", "description": "Page size (max 500)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "302": {"description": "Not an administrator"}}
            }
        },
        "/admin/users/{id}/role": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["admin"],
                "summary": "Set user role",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "regular, moderator or admin", "name": "role", "in": "formData", "required": true}
                ],
                "responses": {
                    "302": {"description": "Back to the user list"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Add category form",
                "responses": {"200": {"description": "OK"}, "302": {"description": "Not logged in"}}
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Create category",
                "parameters": [
                    {"type": "string", "description": "Category name", "name": "category", "in": "formData", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/categories/{category}": {
            "get": {
                "description": "Titles of a persisted category, fetched live from Wikipedia",
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Show category",
                "parameters": [
                    {"type": "string", "description": "Category name", "name": "category", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/login": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login page",
                "responses": {"200": {"description": "OK"}, "302": {"description": "Already logged in"}}
            },
            "post": {
                "description": "submit=login uses l_login/l_password; submit=register (or reg) uses r_username/r_email/r_password/r_confirm",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in or register",
                "parameters": [
                    {"type": "string", "description": "login or register", "name": "submit", "in": "formData", "required": true}
                ],
                "responses": {
                    "302": {"description": "Session cookie set"},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Log out",
                "responses": {"302": {"description": "Redirect to /"}}
            }
        },
        "/moderation": {
            "get": {
                "produces": ["application/json"],
                "tags": ["moderation"],
                "summary": "Moderation queue",
                "responses": {"200": {"description": "OK"}, "302": {"description": "Not a moderator"}}
            }
        },
        "/moderation/{id}/approve": {
            "post": {
                "tags": ["moderation"],
                "summary": "Approve comment",
                "parameters": [{"type": "integer", "description": "Comment ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "302": {"description": "Back to the queue"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/moderation/{id}/reject": {
            "post": {
                "tags": ["moderation"],
                "summary": "Reject comment",
                "parameters": [{"type": "integer", "description": "Comment ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "302": {"description": "Back to the queue"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/movie/{title}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "Show movie",
                "parameters": [{"type": "string", "description": "Wikipedia article title", "name": "title", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/movie/{title}/comments": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["movies"],
                "summary": "Comment on a movie",
                "parameters": [
                    {"type": "string", "description": "Wikipedia article title", "name": "title", "in": "path", "required": true},
                    {"type": "string", "description": "Comment text", "name": "content", "in": "formData", "required": true}
                ],
                "responses": {
                    "302": {"description": "Back to the movie page; rejected input adds a comment_error query"}
                }
            }
        },
        "/random": {
            "get": {
                "tags": ["movies"],
                "summary": "Random movie",
                "responses": {
                    "302": {"description": "Redirect to /movie/{title}"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/rehost_image": {
            "get": {
                "description": "Fetches an image from an allow-listed host and serves it from this origin",
                "produces": ["image/jpeg", "image/png", "image/gif", "image/webp"],
                "tags": ["images"],
                "summary": "Relay image",
                "parameters": [{"type": "string", "description": "Image URL", "name": "url", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/user": {
            "get": {
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Saved movies",
                "responses": {"200": {"description": "OK"}, "302": {"description": "Not logged in"}}
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["text/plain"],
                "tags": ["user"],
                "summary": "Update saved movies",
                "parameters": [
                    {"type": "string", "description": "add or remove", "name": "action", "in": "formData", "required": true},
                    {"type": "string", "description": "Wikipedia article title", "name": "title", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "Added.", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"},
                "field": {"type": "string"},
                "view": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "moviepicker API",
	Description:      "Movie catalog backed by Wikipedia categories and OMDb metadata.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
