package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "AV Booking API",
        "description": "Automatic allocation and lifecycle management for audiovisual resource reservations",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Solicitudes", "description": "Reservation requests with automatic allocation"},
        {"name": "Salas", "description": "Audiovisual room catalog"},
        {"name": "Videoproyectores", "description": "Projector catalog"},
        {"name": "Equipos", "description": "Equipment catalog"},
        {"name": "TiposEquipo", "description": "Equipment type catalog"},
        {"name": "OcupacionesEspeciales", "description": "Administrative resource blocks"}
    ],
    "paths": {
        "/solicitudes": {
            "get": {
                "tags": ["Solicitudes"],
                "summary": "List reservations",
                "parameters": [
                    {"name": "fecha", "in": "query", "type": "string"},
                    {"name": "estado", "in": "query", "type": "string"},
                    {"name": "servicio", "in": "query", "type": "string"},
                    {"name": "id_usuario", "in": "query", "type": "integer"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Solicitudes"],
                "summary": "Create reservation with automatic allocation",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateReservation"}}
                ],
                "responses": {
                    "201": {"description": "Created, approved or rejected", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/solicitudes/{id}": {
            "get": {
                "tags": ["Solicitudes"],
                "summary": "Get reservation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Solicitudes"],
                "summary": "Update a pending reservation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateReservation"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Reservation is not pending"}
                }
            },
            "delete": {
                "tags": ["Solicitudes"],
                "summary": "Delete a pending reservation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "409": {"description": "Reservation is not pending"}
                }
            }
        },
        "/solicitudes/{id}/estado": {
            "put": {
                "tags": ["Solicitudes"],
                "summary": "Change reservation status (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangeStatus"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Unknown state"},
                    "403": {"description": "Administrator role required"}
                }
            }
        },
        "/solicitudes/{id}/historial": {
            "get": {
                "tags": ["Solicitudes"],
                "summary": "List reservation status history",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/salas": {
            "get": {
                "tags": ["Salas"],
                "summary": "List rooms",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Salas"],
                "summary": "Create room (admin)",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/videoproyectores": {
            "get": {
                "tags": ["Videoproyectores"],
                "summary": "List projectors",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Videoproyectores"],
                "summary": "Create projector (admin)",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/equipos": {
            "get": {
                "tags": ["Equipos"],
                "summary": "List equipment",
                "parameters": [
                    {"name": "tipo", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Equipos"],
                "summary": "Create equipment item (admin)",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/tipos-equipo": {
            "get": {
                "tags": ["TiposEquipo"],
                "summary": "List equipment types",
                "parameters": [
                    {"name": "include_inactive", "in": "query", "type": "boolean"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["TiposEquipo"],
                "summary": "Create equipment type (admin)",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/ocupaciones-especiales": {
            "get": {
                "tags": ["OcupacionesEspeciales"],
                "summary": "List special occupations (admin)",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["OcupacionesEspeciales"],
                "summary": "Block a resource (admin)",
                "responses": {"201": {"description": "Created"}}
            }
        }
    },
    "definitions": {
        "CreateReservation": {
            "type": "object",
            "required": ["fecha", "hora_inicio", "hora_fin", "servicio", "salon", "asignatura", "docente", "celular"],
            "properties": {
                "id_usuario": {"type": "integer"},
                "fecha": {"type": "string", "example": "2026-09-14"},
                "hora_inicio": {"type": "string", "example": "10:00:00"},
                "hora_fin": {"type": "string", "example": "11:30:00"},
                "servicio": {"type": "string", "example": "sala"},
                "salon": {"type": "string"},
                "asignatura": {"type": "string"},
                "docente": {"type": "string"},
                "celular": {"type": "string"},
                "semestre": {"type": "integer"},
                "estudiante": {"type": "string"},
                "programa": {"type": "string"},
                "tipo_actividad": {"type": "string"},
                "numero_asistentes": {"type": "integer"}
            }
        },
        "ChangeStatus": {
            "type": "object",
            "required": ["estado_reserva"],
            "properties": {
                "estado_reserva": {"type": "string", "example": "aprobado"},
                "comentarios": {"type": "string"}
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
