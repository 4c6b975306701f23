package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "PROJECT-ALPHA API",
        "description": "Classroom assignments: batches, multiple-choice quizzes, submissions and gradebooks.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "cookieAuth": {"type": "apiKey", "in": "header", "name": "Cookie"},
        "bearerAuth": {"type": "apiKey", "in": "header", "name": "Authorization"}
    },
    "tags": [
        {"name": "Authentication", "description": "Sign-up, sign-in and the session cookie"},
        {"name": "Assignments", "description": "Quiz creation, distribution and submission"},
        {"name": "Batches", "description": "Teacher-owned student groups and gradebooks"}
    ],
    "paths": {
        "/health": {
            "get": {"summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {
                "summary": "Readiness probe",
                "description": "Pings postgres and, when caching is enabled, redis.",
                "responses": {"200": {"description": "Ready"}, "503": {"description": "A dependency is down"}}
            }
        },
        "/metrics": {
            "get": {"summary": "Prometheus metrics", "produces": ["text/plain"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/auth/signup": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a user",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/SignUpRequest"}}],
                "responses": {
                    "201": {"description": "Created; sets the token cookie", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/auth/signin": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/SignInRequest"}}],
                "responses": {
                    "200": {"description": "OK; sets the token cookie", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/auth/logout": {
            "post": {"tags": ["Authentication"], "summary": "Clear the session cookie", "responses": {"200": {"description": "OK"}}}
        },
        "/api/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user",
                "security": [{"cookieAuth": []}, {"bearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/assignments/create": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Create assignment (teacher)",
                "security": [{"cookieAuth": []}, {"bearerAuth": []}],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateAssignmentRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}, "403": {"description": "Forbidden"}, "404": {"description": "Batch not found"}}
            }
        },
        "/api/assignments/assign": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Distribute assignment (teacher)",
                "security": [{"cookieAuth": []}, {"bearerAuth": []}],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/DistributeRequest"}}],
                "responses": {"200": {"description": "Assigned"}, "400": {"description": "Validation error"}, "403": {"description": "Forbidden"}, "404": {"description": "Assignment, batch or students not found"}}
            }
        },
        "/api/assignments/submit": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Submit answers (student)",
                "security": [{"cookieAuth": []}, {"bearerAuth": []}],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/SubmitRequest"}}],
                "responses": {"200": {"description": "Scored"}, "403": {"description": "Forbidden"}, "404": {"description": "Assignment not found"}}
            }
        },
        "/api/assignments/student/{id}": {
            "get": {
                "tags": ["Assignments"],
                "summary": "A student's assignments with status and score",
                "security": [{"cookieAuth": []}, {"bearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Student not found"}}
            }
        },
        "/api/assignments/teacher/{id}": {
            "get": {
                "tags": ["Assignments"],
                "summary": "A teacher's assignments, newest first",
                "security": [{"cookieAuth": []}, {"bearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK; meta.cache_hit reports cache use"}}
            }
        },
        "/api/assignments/activity/{id}": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Audit trail of an assignment, newest first (owning teacher)",
                "security": [{"cookieAuth": []}, {"bearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Assignment not found"}}
            }
        },
        "/api/batches/create": {
            "post": {
                "tags": ["Batches"],
                "summary": "Create batch (teacher)",
                "security": [{"cookieAuth": []}, {"bearerAuth": []}],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateBatchRequest"}}],
                "responses": {"201": {"description": "Created; unknown emails listed in missingEmails"}, "400": {"description": "Validation error"}}
            }
        },
        "/api/batches": {
            "get": {
                "tags": ["Batches"],
                "summary": "List the caller's batches",
                "security": [{"cookieAuth": []}, {"bearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/batches/{id}/gradebook": {
            "get": {
                "tags": ["Batches"],
                "summary": "Download the batch gradebook",
                "produces": ["text/csv", "application/pdf"],
                "security": [{"cookieAuth": []}, {"bearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File"}, "403": {"description": "Forbidden"}, "404": {"description": "Batch not found"}}
            }
        }
    },
    "definitions": {
        "SignUpRequest": {
            "type": "object",
            "required": ["name", "email", "password", "role"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 7},
                "role": {"type": "string", "enum": ["teacher", "student"]}
            }
        },
        "SignInRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "Question": {
            "type": "object",
            "required": ["question", "options", "correctOption"],
            "properties": {
                "question": {"type": "string"},
                "options": {"type": "array", "minItems": 2, "items": {"type": "string"}},
                "correctOption": {"type": "integer", "minimum": 0}
            }
        },
        "CreateAssignmentRequest": {
            "type": "object",
            "required": ["title", "description", "questions", "dueDate"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "questions": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/Question"}},
                "dueDate": {"type": "string", "description": "RFC 3339 timestamp or YYYY-MM-DD"},
                "batchId": {"type": "string"}
            }
        },
        "DistributeRequest": {
            "type": "object",
            "required": ["assignmentId"],
            "properties": {
                "assignmentId": {"type": "string"},
                "studentIds": {"type": "array", "items": {"type": "string"}},
                "batchId": {"type": "string"}
            }
        },
        "SubmitRequest": {
            "type": "object",
            "required": ["assignmentId"],
            "properties": {
                "assignmentId": {"type": "string"},
                "answers": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "CreateBatchRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "studentEmails": {"type": "array", "items": {"type": "string"}}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
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
