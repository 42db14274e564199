package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "RH Altra API",
        "description": "HR leave, salary advance and exit permission workflow service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication and session"},
        {"name": "Leaves", "description": "Dual-tier leave request workflow"},
        {"name": "Advances", "description": "Salary advance requests"},
        {"name": "ExitPermissions", "description": "Exit permission requests"},
        {"name": "Notifications", "description": "In-app notification inbox"},
        {"name": "Reference", "description": "Leave types and holiday calendar"},
        {"name": "Settings", "description": "Workflow configuration"},
        {"name": "Archives", "description": "Signed decision document downloads"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token pair", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange a refresh token for a new token pair",
                "responses": {
                    "200": {"description": "Token pair", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Return the authenticated user's identity",
                "responses": {
                    "200": {"description": "User info", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/leaves": {
            "post": {
                "tags": ["Leaves"],
                "summary": "Create a draft leave request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateLeaveRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Overlapping request or insufficient balance"},
                    "422": {"description": "Invalid dates or no working days"}
                }
            },
            "get": {
                "tags": ["Leaves"],
                "summary": "List leave requests visible to the caller",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "leave_type_id", "in": "query", "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Leave requests", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/leaves/balance": {
            "get": {
                "tags": ["Leaves"],
                "summary": "Report used and remaining allowance",
                "parameters": [
                    {"name": "leave_type_id", "in": "query", "type": "string", "required": true},
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Balance", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/leaves/{id}": {
            "get": {
                "tags": ["Leaves"],
                "summary": "Get leave request detail",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Leave request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/leaves/{id}/submit": {
            "post": {
                "tags": ["Leaves"],
                "summary": "Submit a draft for approval",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Submitted"},
                    "409": {"description": "Invalid transition"},
                    "422": {"description": "Certificate required"}
                }
            }
        },
        "/leaves/{id}/decision": {
            "post": {
                "tags": ["Leaves"],
                "summary": "Record the manager-tier decision",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "204": {"description": "Recorded"},
                    "409": {"description": "Invalid transition"}
                }
            }
        },
        "/leaves/{id}/final-decision": {
            "post": {
                "tags": ["Leaves"],
                "summary": "Record the administrative sign-off",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "204": {"description": "Recorded"},
                    "409": {"description": "Invalid transition"}
                }
            }
        },
        "/leaves/{id}/cancel": {
            "post": {
                "tags": ["Leaves"],
                "summary": "Cancel an own draft or submitted request",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Cancelled"},
                    "409": {"description": "Invalid transition"}
                }
            }
        },
        "/leaves/{id}/audit": {
            "get": {
                "tags": ["Leaves"],
                "summary": "List the audit trail",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Audit entries", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/leaves/{id}/archive": {
            "get": {
                "tags": ["Leaves"],
                "summary": "Issue a signed download link for the decision document",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Signed token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No archive"}
                }
            }
        },
        "/advances": {
            "post": {
                "tags": ["Advances"],
                "summary": "Create a draft salary advance request",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Advances"],
                "summary": "List advance requests visible to the caller",
                "responses": {
                    "200": {"description": "Advance requests", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/advances/{id}/decision": {
            "post": {
                "tags": ["Advances"],
                "summary": "Record the terminal manager-tier decision",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "204": {"description": "Recorded"},
                    "409": {"description": "Invalid transition"}
                }
            }
        },
        "/exit-permissions": {
            "post": {
                "tags": ["ExitPermissions"],
                "summary": "Create a draft exit permission",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Window exceeds the configured maximum"}
                }
            },
            "get": {
                "tags": ["ExitPermissions"],
                "summary": "List exit permissions visible to the caller",
                "responses": {
                    "200": {"description": "Exit permissions", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List the caller's notifications",
                "parameters": [
                    {"name": "unread", "in": "query", "type": "boolean"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Notifications", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications/{id}/read": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Mark one notification read",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Marked"}
                }
            }
        },
        "/leave-types": {
            "get": {
                "tags": ["Reference"],
                "summary": "List leave types",
                "responses": {
                    "200": {"description": "Leave types", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Reference"],
                "summary": "Create or update a leave type",
                "responses": {
                    "200": {"description": "Leave type", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/holidays": {
            "get": {
                "tags": ["Reference"],
                "summary": "List the holiday calendar",
                "responses": {
                    "200": {"description": "Holidays", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Reference"],
                "summary": "Register a non-working date",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Date already registered"}
                }
            }
        },
        "/settings/workflow": {
            "get": {
                "tags": ["Settings"],
                "summary": "Return the effective workflow settings snapshot",
                "responses": {
                    "200": {"description": "Settings", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Settings"],
                "summary": "Replace the workflow settings",
                "responses": {
                    "200": {"description": "Settings", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/archives/download": {
            "get": {
                "tags": ["Archives"],
                "summary": "Download a decision document with a signed token",
                "parameters": [
                    {"name": "token", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "PDF document"},
                    "403": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateLeaveRequest": {
            "type": "object",
            "required": ["leave_type_id", "start_date", "end_date"],
            "properties": {
                "leave_type_id": {"type": "string"},
                "start_date": {"type": "string", "format": "date-time"},
                "end_date": {"type": "string", "format": "date-time"},
                "half_day": {"type": "boolean"},
                "reason": {"type": "string"}
            }
        },
        "DecisionRequest": {
            "type": "object",
            "required": ["decision"],
            "properties": {
                "decision": {"type": "string", "enum": ["APPROVE", "REJECT"]},
                "comment": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
