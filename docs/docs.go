// Package docs holds the OpenAPI description served at /swagger.
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
        "/users/auth": {
            "post": {
                "security": [{"TelegramInitData": []}],
                "tags": ["users"],
                "summary": "Log in with Telegram init data",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Access token", "schema": {"$ref": "#/definitions/models.TokenResponse"}},
                    "401": {"description": "Invalid init data", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Get current user",
                "responses": {
                    "200": {"description": "User data", "schema": {"$ref": "#/definitions/models.UserResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Get user by ID",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "User data", "schema": {"$ref": "#/definitions/models.UserResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/users/{id}/relation": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "Relation to another user",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.RelationResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/users/me/friends": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "List friends",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.UserResponse"}}}
                }
            }
        },
        "/users/me/friend-requests": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "List incoming friend requests",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.PendingRequestResponse"}}}
                }
            }
        },
        "/users/me/friends/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "Remove a friend",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "Removed"}}
            }
        },
        "/users/me/friends/{id}/request": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "Send a friend request",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Request sent"},
                    "400": {"description": "Self request or already friends", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/users/me/friends/{id}/accept": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "Accept a friend request",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Accepted"}}
            }
        },
        "/users/me/friends/{id}/reject": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "Reject a friend request",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Rejected"}}
            }
        },
        "/gifts": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["gifts"],
                "summary": "Add a gift to the caller's wishlist",
                "consumes": ["application/json"],
                "parameters": [{"name": "gift", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateGiftRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.CreatedResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/gifts/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["gifts"],
                "summary": "Get a gift",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.GiftResponse"}},
                    "404": {"description": "Gift not found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["gifts"],
                "summary": "Delete a gift",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "403": {"description": "Not the owner", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/gifts/user/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["gifts"],
                "summary": "Get a user's wishlist",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.GiftResponse"}}}
                }
            }
        },
        "/gifts/{id}/reserve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["gifts"],
                "summary": "Reserve a friend's gift",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Reserved"},
                    "403": {"description": "Owner or not a friend", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "409": {"description": "Already reserved", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/gifts/{id}/reserve/friend": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["gifts"],
                "summary": "Withdraw own reservation",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "Released"}}
            }
        },
        "/gifts/{id}/reserve/owner": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["gifts"],
                "summary": "Withdraw any reservation on own gift",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "Released"},
                    "403": {"description": "Not the owner", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string", "example": "Bearer"},
                "expires_at": {"type": "string", "example": "2024-03-15T15:30:00Z"}
            }
        },
        "models.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 123456789},
                "username": {"type": "string", "x-nullable": true},
                "first_name": {"type": "string"},
                "last_name": {"type": "string", "x-nullable": true},
                "avatar_url": {"type": "string", "x-nullable": true},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "models.PendingRequestResponse": {
            "type": "object",
            "properties": {
                "sender_tg_id": {"type": "integer"},
                "receiver_tg_id": {"type": "integer"},
                "status": {"type": "string", "example": "pending"},
                "sender_name": {"type": "string"},
                "sender_username": {"type": "string", "x-nullable": true},
                "created_at": {"type": "string"}
            }
        },
        "models.RelationResponse": {
            "type": "object",
            "properties": {
                "user_id": {"type": "integer"},
                "action": {"type": "string", "enum": ["ALREADY_FRIENDS", "ADD_FRIEND", "REQUEST_ALREADY_SENT", "SEND_REQUEST"]}
            }
        },
        "dto.CreateGiftRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string", "maxLength": 255, "example": "Bike"},
                "url": {"type": "string", "maxLength": 2048},
                "wish_rate": {"type": "integer", "minimum": 1, "maximum": 10},
                "price": {"type": "integer", "minimum": 0},
                "note": {"type": "string", "maxLength": 1000}
            }
        },
        "models.CreatedResponse": {
            "type": "object",
            "properties": {"id": {"type": "integer", "example": 1}}
        },
        "models.GiftResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "user_id": {"type": "integer"},
                "name": {"type": "string"},
                "url": {"type": "string", "x-nullable": true},
                "wish_rate": {"type": "integer", "x-nullable": true},
                "price": {"type": "integer", "x-nullable": true},
                "note": {"type": "string", "x-nullable": true},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "is_reserved": {"type": "boolean"},
                "reserved_by": {"type": "integer", "x-nullable": true}
            }
        },
        "middleware.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string", "example": "NOT_FOUND"},
                        "reason": {"type": "string", "example": "Gift"},
                        "message": {"type": "string"}
                    }
                },
                "timestamp": {"type": "string"},
                "request_id": {"type": "string"},
                "path": {"type": "string"},
                "method": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "TelegramInitData": {"type": "apiKey", "name": "X-Telegram-Init-Data", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Wishlist API",
	Description:      "Backend for the Telegram Mini App wishlist: login with init data, friends and gift reservations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
