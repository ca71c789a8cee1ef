package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "UniTerm API",
        "description": "Exam term scheduling and conflict validation engine",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "ExamTerms", "description": "Exam term proposal and approval lifecycle"},
        {"name": "Validation", "description": "Standalone conflict checks"},
        {"name": "Sessions", "description": "Session calendar"},
        {"name": "Exams", "description": "Exam catalogue"},
        {"name": "Subjects", "description": "Subject reference data"},
        {"name": "Rooms", "description": "Room inventory"},
        {"name": "DemoUsers", "description": "Canned identities for role selection"},
        {"name": "Admin", "description": "Administrative maintenance"}
    ],
    "paths": {
        "/exam-terms": {
            "get": {
                "tags": ["ExamTerms"],
                "summary": "List exam terms",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "field_of_study", "in": "query", "type": "string"},
                    {"name": "study_mode", "in": "query", "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["ExamTerms"],
                "summary": "Propose exam term",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProposeTermRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Room or cohort conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exam-terms/{id}": {
            "get": {
                "tags": ["ExamTerms"],
                "summary": "Get exam term",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exam-terms/{id}/decision": {
            "put": {
                "tags": ["ExamTerms"],
                "summary": "Approve or reject exam term",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecideTermRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Term already finalized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exam-terms/validation/room": {
            "get": {
                "tags": ["Validation"],
                "summary": "Check room availability",
                "parameters": [
                    {"name": "room_name", "in": "query", "required": true, "type": "string"},
                    {"name": "exam_date", "in": "query", "required": true, "type": "string"},
                    {"name": "start_time", "in": "query", "required": true, "type": "string"},
                    {"name": "exclude_term_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exam-terms/validation/students": {
            "get": {
                "tags": ["Validation"],
                "summary": "Check student availability",
                "parameters": [
                    {"name": "exam_date", "in": "query", "required": true, "type": "string"},
                    {"name": "field_of_study", "in": "query", "required": true, "type": "string"},
                    {"name": "study_mode", "in": "query", "required": true, "type": "string"},
                    {"name": "year", "in": "query", "required": true, "type": "integer"},
                    {"name": "exclude_term_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exam-terms/validation/room-capacity": {
            "get": {
                "tags": ["Validation"],
                "summary": "Check room capacity and availability",
                "parameters": [
                    {"name": "room_name", "in": "query", "required": true, "type": "string"},
                    {"name": "exam_date", "in": "query", "required": true, "type": "string"},
                    {"name": "start_time", "in": "query", "required": true, "type": "string"},
                    {"name": "expected_count", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exam-terms/validation/session-date": {
            "get": {
                "tags": ["Validation"],
                "summary": "Check session date",
                "parameters": [
                    {"name": "exam_date", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session-periods": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List session periods",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Sessions"],
                "summary": "Create session period",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSessionPeriodRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session-periods/current": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Current session windows",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List subjects",
                "parameters": [
                    {"name": "field_of_study", "in": "query", "type": "string"},
                    {"name": "study_mode", "in": "query", "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Subjects"],
                "summary": "Create subject",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exams": {
            "get": {
                "tags": ["Exams"],
                "summary": "List exams",
                "parameters": [
                    {"name": "field_of_study", "in": "query", "type": "string"},
                    {"name": "study_mode", "in": "query", "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Exams"],
                "summary": "Create exam",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExamRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exams/{id}": {
            "get": {
                "tags": ["Exams"],
                "summary": "Get exam",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rooms": {
            "get": {
                "tags": ["Rooms"],
                "summary": "List rooms",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Rooms"],
                "summary": "Create room",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRoomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/demo-users": {
            "get": {
                "tags": ["DemoUsers"],
                "summary": "List demo users",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/duplicates": {
            "delete": {
                "tags": ["Admin"],
                "summary": "Remove duplicate rows",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Sweep failed and was rolled back", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ExamTermDetail": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "exam_id": {"type": "string"},
                "exam_date": {"type": "string"},
                "start_time": {"type": "string"},
                "room_name": {"type": "string"},
                "status": {"type": "string"},
                "proposed_by_role": {"type": "string"},
                "proposed_by_name": {"type": "string"},
                "approved_by_role": {"type": "string"},
                "approved_by_name": {"type": "string"},
                "subject_name": {"type": "string"},
                "field_of_study": {"type": "string"},
                "study_mode": {"type": "string"},
                "year": {"type": "integer"},
                "instructor_name": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "SessionWindows": {
            "type": "object",
            "properties": {
                "main": {"$ref": "#/definitions/SessionPeriod"},
                "retake": {"$ref": "#/definitions/SessionPeriod"},
                "active": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "SessionPeriod": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "semester": {"type": "string"},
                "academic_year": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "ProposeTermRequest": {
            "type": "object",
            "properties": {
                "exam_id": {"type": "string"},
                "exam_date": {"type": "string"},
                "start_time": {"type": "string"},
                "room_name": {"type": "string"},
                "proposed_by_role": {"type": "string"},
                "proposed_by_name": {"type": "string"}
            },
            "required": ["exam_id", "exam_date", "start_time", "room_name", "proposed_by_role", "proposed_by_name"]
        },
        "DecideTermRequest": {
            "type": "object",
            "properties": {
                "approved_by_role": {"type": "string"},
                "approved_by_name": {"type": "string"},
                "status": {"type": "string"}
            },
            "required": ["approved_by_role", "approved_by_name", "status"]
        },
        "CreateSessionPeriodRequest": {
            "type": "object",
            "properties": {
                "semester": {"type": "string"},
                "academic_year": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"}
            },
            "required": ["semester", "academic_year", "start_date", "end_date"]
        },
        "CreateSubjectRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "field_of_study": {"type": "string"},
                "study_mode": {"type": "string"},
                "year": {"type": "integer"}
            },
            "required": ["name", "field_of_study", "study_mode", "year"]
        },
        "CreateExamRequest": {
            "type": "object",
            "properties": {
                "subject_id": {"type": "string"},
                "instructor_name": {"type": "string"}
            },
            "required": ["subject_id", "instructor_name"]
        },
        "CreateRoomRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "building": {"type": "string"},
                "capacity": {"type": "integer"},
                "room_type": {"type": "string"}
            },
            "required": ["name", "building", "capacity"]
        },
        "SweepResult": {
            "type": "object",
            "properties": {
                "subjects": {"type": "integer"},
                "exams": {"type": "integer"},
                "exam_terms": {"type": "integer"},
                "rooms": {"type": "integer"},
                "demo_users": {"type": "integer"}
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
                "pagination": {"type": "object"},
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
