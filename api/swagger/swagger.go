package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Teach Assist API",
        "description": "Exam generation, grading, announcements and lesson plans for teachers",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Exams",
            "description": "Exam lifecycle, submissions and grading"
        },
        {
            "name": "Questions",
            "description": "Question sets and printable papers"
        },
        {
            "name": "Exports",
            "description": "Signed paper downloads"
        },
        {
            "name": "Announcements",
            "description": "Formal announcements and delivery links"
        },
        {
            "name": "LessonPlans",
            "description": "Stored lesson plans"
        }
    ],
    "paths": {
        "/exams/generate": {
            "post": {
                "tags": [
                    "Exams"
                ],
                "summary": "Generate a template exam",
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/GenerateExamRequest"
                        }
                    }
                ]
            }
        },
        "/exams/generate/ai": {
            "post": {
                "tags": [
                    "Exams"
                ],
                "summary": "Generate an exam with the language model",
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/GenerateAIExamRequest"
                        }
                    }
                ]
            }
        },
        "/exams/{exam_id}": {
            "get": {
                "tags": [
                    "Exams"
                ],
                "summary": "Get an exam without answers",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "exam_id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        },
        "/exams/{exam_id}/publish": {
            "post": {
                "tags": [
                    "Exams"
                ],
                "summary": "Publish an exam",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "exam_id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        },
        "/exams/{exam_id}/complete": {
            "post": {
                "tags": [
                    "Exams"
                ],
                "summary": "Mark an exam as completed",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "exam_id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        },
        "/exams/{exam_id}/start": {
            "post": {
                "tags": [
                    "Exams"
                ],
                "summary": "Start an exam session",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "exam_id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        },
        "/exams/{exam_id}/submit": {
            "post": {
                "tags": [
                    "Exams"
                ],
                "summary": "Submit answers",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "exam_id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SubmitRequest"
                        }
                    }
                ]
            }
        },
        "/exams/{exam_id}/grade": {
            "post": {
                "tags": [
                    "Exams"
                ],
                "summary": "Grade a submission",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "exam_id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/GradeRequest"
                        }
                    }
                ]
            }
        },
        "/exams/{exam_id}/student/{student_id}": {
            "get": {
                "tags": [
                    "Exams"
                ],
                "summary": "Get a student's result",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "exam_id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "student_id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        },
        "/exams/{exam_id}/download": {
            "get": {
                "tags": [
                    "Exams"
                ],
                "summary": "Download an exam as HTML",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "exam_id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        },
        "/exams/{exam_id}/stats": {
            "get": {
                "tags": [
                    "Exams"
                ],
                "summary": "Exam statistics",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "exam_id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "json",
                            "csv"
                        ]
                    }
                ],
                "produces": [
                    "application/json",
                    "text/csv"
                ]
            }
        },
        "/exams/{exam_id}/paper/export": {
            "post": {
                "tags": [
                    "Exams"
                ],
                "summary": "Queue a PDF export of the exam paper",
                "responses": {
                    "202": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "exam_id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        },
        "/exports/{token}": {
            "get": {
                "tags": [
                    "Exports"
                ],
                "summary": "Download an exported paper",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "token",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/pdf"
                ]
            }
        },
        "/questions": {
            "post": {
                "tags": [
                    "Questions"
                ],
                "summary": "Store question sets",
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/QuestionSet"
                        }
                    }
                ]
            }
        },
        "/questions/exam/{exam_id}": {
            "get": {
                "tags": [
                    "Questions"
                ],
                "summary": "List an exam's questions grouped by category",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "exam_id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        },
        "/questions/exam/{exam_id}/pdf": {
            "get": {
                "tags": [
                    "Questions"
                ],
                "summary": "Render the exam paper as PDF",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "exam_id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/pdf"
                ]
            }
        },
        "/questions/{question_id}": {
            "get": {
                "tags": [
                    "Questions"
                ],
                "summary": "Get a question",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "question_id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        },
        "/announce/generate": {
            "post": {
                "tags": [
                    "Announcements"
                ],
                "summary": "Formalise an announcement",
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/GenerateAnnouncementRequest"
                        }
                    }
                ]
            }
        },
        "/announce/send": {
            "post": {
                "tags": [
                    "Announcements"
                ],
                "summary": "Send an announcement over a channel",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SendAnnouncementRequest"
                        }
                    }
                ]
            }
        },
        "/lesson-plans": {
            "get": {
                "tags": [
                    "LessonPlans"
                ],
                "summary": "List the caller's lesson plans",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "LessonPlans"
                ],
                "summary": "Create a lesson plan",
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateLessonPlanRequest"
                        }
                    }
                ]
            }
        },
        "/lesson-plans/{id}": {
            "get": {
                "tags": [
                    "LessonPlans"
                ],
                "summary": "Get a lesson plan",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        }
    },
    "definitions": {
        "QuestionCounts": {
            "type": "object",
            "properties": {
                "mcq": {
                    "type": "integer"
                },
                "one_mark": {
                    "type": "integer"
                },
                "three_mark": {
                    "type": "integer"
                }
            }
        },
        "GenerateExamRequest": {
            "type": "object",
            "properties": {
                "topic": {
                    "type": "string"
                },
                "syllabus": {
                    "type": "string"
                },
                "counts": {
                    "$ref": "#/definitions/QuestionCounts"
                },
                "difficulty": {
                    "type": "string"
                }
            },
            "required": [
                "topic"
            ]
        },
        "QuestionSpec": {
            "type": "object",
            "properties": {
                "question_type": {
                    "type": "string"
                },
                "count": {
                    "type": "integer"
                },
                "points": {
                    "type": "integer"
                }
            }
        },
        "GenerateAIExamRequest": {
            "type": "object",
            "properties": {
                "topic": {
                    "type": "string"
                },
                "grade_level": {
                    "type": "string"
                },
                "structure": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/QuestionSpec"
                    }
                }
            },
            "required": [
                "topic",
                "structure"
            ]
        },
        "Answer": {
            "type": "object",
            "properties": {
                "question_id": {
                    "type": "integer"
                },
                "response": {
                    "type": "string"
                }
            }
        },
        "SubmitRequest": {
            "type": "object",
            "properties": {
                "session_token": {
                    "type": "string"
                },
                "student_id": {
                    "type": "integer"
                },
                "answers": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Answer"
                    }
                }
            },
            "required": [
                "session_token",
                "answers"
            ]
        },
        "GradeRequest": {
            "type": "object",
            "properties": {
                "submission_id": {
                    "type": "integer"
                },
                "student_id": {
                    "type": "integer"
                },
                "regrade": {
                    "type": "boolean"
                }
            },
            "required": [
                "submission_id"
            ]
        },
        "QuestionSetItem": {
            "type": "object",
            "properties": {
                "question": {
                    "type": "string"
                },
                "options": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "answer": {
                    "type": "string"
                },
                "marks": {
                    "type": "integer"
                }
            }
        },
        "QuestionSet": {
            "type": "object",
            "properties": {
                "exam_id": {
                    "type": "integer"
                },
                "mcq": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/QuestionSetItem"
                    }
                },
                "one_mark": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/QuestionSetItem"
                    }
                },
                "three_mark": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/QuestionSetItem"
                    }
                }
            }
        },
        "GenerateAnnouncementRequest": {
            "type": "object",
            "properties": {
                "raw_text": {
                    "type": "string"
                },
                "tone": {
                    "type": "string"
                }
            },
            "required": [
                "raw_text"
            ]
        },
        "SendAnnouncementRequest": {
            "type": "object",
            "properties": {
                "announcement_id": {
                    "type": "integer"
                },
                "channel": {
                    "type": "string",
                    "enum": [
                        "whatsapp",
                        "email",
                        "sms"
                    ]
                },
                "recipients": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            },
            "required": [
                "announcement_id",
                "channel"
            ]
        },
        "CreateLessonPlanRequest": {
            "type": "object",
            "properties": {
                "topic": {
                    "type": "string"
                },
                "duration_hours": {
                    "type": "integer"
                },
                "plan": {
                    "type": "object"
                }
            },
            "required": [
                "topic",
                "duration_hours",
                "plan"
            ]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "meta": {
                    "type": "object"
                }
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
