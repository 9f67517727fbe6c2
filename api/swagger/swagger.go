package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Edutech Classrooms API",
        "description": "Classroom, membership and teacher collaboration service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
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
            "name": "Auth",
            "description": "Student and teacher accounts"
        },
        {
            "name": "Classrooms",
            "description": "Classroom registry"
        },
        {
            "name": "Teachers",
            "description": "Teacher lookups"
        },
        {
            "name": "Membership",
            "description": "Student join requests and rosters"
        },
        {
            "name": "Collaboration",
            "description": "Shared classroom access between teachers"
        },
        {
            "name": "Exports",
            "description": "Asynchronous roster exports"
        }
    ],
    "paths": {
        "/auth/students/register": {
            "post": {
                "tags": [
                    "Auth"
                ],
                "summary": "Register a student account",
                "responses": {
                    "201": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/RegisterStudentRequest"
                        }
                    }
                ]
            }
        },
        "/auth/teachers/register": {
            "post": {
                "tags": [
                    "Auth"
                ],
                "summary": "Register a teacher account",
                "responses": {
                    "201": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/RegisterTeacherRequest"
                        }
                    }
                ]
            }
        },
        "/auth/students/login": {
            "post": {
                "tags": [
                    "Auth"
                ],
                "summary": "Student login",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/LoginRequest"
                        }
                    }
                ]
            }
        },
        "/auth/teachers/login": {
            "post": {
                "tags": [
                    "Auth"
                ],
                "summary": "Teacher login",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/LoginRequest"
                        }
                    }
                ]
            }
        },
        "/auth/logout": {
            "post": {
                "tags": [
                    "Auth"
                ],
                "summary": "Revoke the current session",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/classrooms": {
            "post": {
                "tags": [
                    "Classrooms"
                ],
                "summary": "Create a classroom owned by the caller",
                "responses": {
                    "201": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateClassroomRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "tags": [
                    "Classrooms"
                ],
                "summary": "Search classrooms by name, school or teacher",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "q",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/classrooms/{slug}": {
            "get": {
                "tags": [
                    "Classrooms"
                ],
                "summary": "Get a classroom by slug",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "slug",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Classroom slug"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/classrooms/{slug}/permission": {
            "patch": {
                "tags": [
                    "Classrooms"
                ],
                "summary": "Toggle approval-required joins",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "slug",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Classroom slug"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdatePermissionRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/teachers": {
            "get": {
                "tags": [
                    "Teachers"
                ],
                "summary": "Look up a teacher by email",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "email",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/teachers/{id}/classrooms": {
            "get": {
                "tags": [
                    "Teachers"
                ],
                "summary": "List the classrooms a teacher can access",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Teacher ID"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/classrooms/{slug}/join": {
            "post": {
                "tags": [
                    "Membership"
                ],
                "summary": "Join a classroom or ask to join it",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "slug",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Classroom slug"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Membership"
                ],
                "summary": "Withdraw a join request or leave a classroom",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "slug",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Classroom slug"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/students/{id}/classrooms": {
            "get": {
                "tags": [
                    "Membership"
                ],
                "summary": "List a student's classrooms with membership status",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Student ID"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/classrooms/{slug}/students": {
            "get": {
                "tags": [
                    "Membership"
                ],
                "summary": "List a classroom's students",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "slug",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Classroom slug"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/classrooms/{slug}/students/{studentId}/accept": {
            "post": {
                "tags": [
                    "Membership"
                ],
                "summary": "Accept a pending join request",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "slug",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Classroom slug"
                    },
                    {
                        "name": "studentId",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Student ID"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/classrooms/{slug}/students/{studentId}/reject": {
            "post": {
                "tags": [
                    "Membership"
                ],
                "summary": "Reject a join request or remove a student",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "slug",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Classroom slug"
                    },
                    {
                        "name": "studentId",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Student ID"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/classrooms/{slug}/collaboration-requests": {
            "get": {
                "tags": [
                    "Collaboration"
                ],
                "summary": "List collaboration requests for a classroom",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "slug",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Classroom slug"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Collaboration"
                ],
                "summary": "Ask the classroom owner for access",
                "responses": {
                    "201": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "slug",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Classroom slug"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/CollaborationRequestPayload"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/classrooms/{slug}/collaboration-requests/{requestId}/accept": {
            "post": {
                "tags": [
                    "Collaboration"
                ],
                "summary": "Accept a collaboration request",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "slug",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Classroom slug"
                    },
                    {
                        "name": "requestId",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Request ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/AcceptCollaborationPayload"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/classrooms/{slug}/collaboration-requests/{requestId}/reject": {
            "post": {
                "tags": [
                    "Collaboration"
                ],
                "summary": "Reject a collaboration request",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "slug",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Classroom slug"
                    },
                    {
                        "name": "requestId",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Request ID"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/classrooms/{slug}/collaboration-requests/{requestId}/cancel": {
            "post": {
                "tags": [
                    "Collaboration"
                ],
                "summary": "Cancel one's own collaboration request",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "slug",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Classroom slug"
                    },
                    {
                        "name": "requestId",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Request ID"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/classrooms/{slug}/collaborators": {
            "post": {
                "tags": [
                    "Collaboration"
                ],
                "summary": "Grant a teacher access without a request",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "slug",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Classroom slug"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AddCollaboratorRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/classrooms/{slug}/exports": {
            "post": {
                "tags": [
                    "Exports"
                ],
                "summary": "Queue a roster export",
                "responses": {
                    "202": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "slug",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Classroom slug"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/RosterExportRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/exports/{id}": {
            "get": {
                "tags": [
                    "Exports"
                ],
                "summary": "Get roster export status",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Export ID"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/exports/download/{token}": {
            "get": {
                "tags": [
                    "Exports"
                ],
                "summary": "Download a finished roster export via signed token",
                "responses": {
                    "200": {
                        "description": "Success",
                        "schema": {
                            "$ref": "#/definitions/Success"
                        }
                    },
                    "default": {
                        "description": "Failure",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "token",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Signed download token"
                    }
                ],
                "produces": [
                    "text/csv",
                    "application/pdf"
                ]
            }
        }
    },
    "definitions": {
        "RegisterStudentRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "parentEmail": {
                    "type": "string"
                },
                "std": {
                    "type": "string"
                },
                "div": {
                    "type": "string"
                },
                "rollNo": {
                    "type": "string"
                },
                "school": {
                    "type": "string"
                },
                "parentsNo": {
                    "type": "string"
                },
                "gender": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            },
            "required": [
                "name",
                "parentEmail",
                "std",
                "div",
                "rollNo",
                "school",
                "parentsNo",
                "gender",
                "password"
            ]
        },
        "RegisterTeacherRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            },
            "required": [
                "name",
                "email",
                "password"
            ]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            },
            "required": [
                "email",
                "password"
            ]
        },
        "CreateClassroomRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "school": {
                    "type": "string"
                },
                "requiresPermission": {
                    "type": "boolean"
                }
            },
            "required": [
                "name"
            ]
        },
        "UpdatePermissionRequest": {
            "type": "object",
            "properties": {
                "requiresPermission": {
                    "type": "boolean"
                }
            },
            "required": [
                "requiresPermission"
            ]
        },
        "CollaborationRequestPayload": {
            "type": "object",
            "properties": {
                "targetTeacherId": {
                    "type": "string"
                }
            }
        },
        "AcceptCollaborationPayload": {
            "type": "object",
            "properties": {
                "requesterId": {
                    "type": "string"
                }
            }
        },
        "AddCollaboratorRequest": {
            "type": "object",
            "properties": {
                "teacherId": {
                    "type": "string"
                }
            },
            "required": [
                "teacherId"
            ]
        },
        "RosterExportRequest": {
            "type": "object",
            "required": [
                "format"
            ],
            "properties": {
                "format": {
                    "type": "string",
                    "enum": [
                        "csv",
                        "pdf"
                    ]
                }
            }
        },
        "Success": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                }
            },
            "additionalProperties": true
        },
        "Failure": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "error": {
                    "type": "string"
                },
                "kind": {
                    "type": "string"
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
