// Package docs holds the OpenAPI document served at /swagger. Regenerate with
// `swag init -g cmd/server/main.go` after changing handler annotations.
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
        "/doors": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Doors"],
                "summary": "List active doors",
                "operationId": "listDoors",
                "parameters": [{"type": "string", "description": "Return 304 if ETag matches", "name": "If-None-Match", "in": "header"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handlers.DoorSummary"}}, "headers": {"ETag": {"type": "string", "description": "Weak ETag for the current catalog"}}},
                    "304": {"description": "Not modified"},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Doors"],
                "summary": "Create a door",
                "operationId": "createDoor",
                "parameters": [{"description": "Door payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateDoorRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.CreateDoorResponse"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/doors/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Doors"],
                "summary": "Get a door with its sub-images and variants",
                "operationId": "getDoor",
                "parameters": [{"type": "string", "description": "Door ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.DoorDetail"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Doors"],
                "summary": "Update a door",
                "operationId": "updateDoor",
                "parameters": [
                    {"type": "string", "description": "Door ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdateDoorRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.UpdateDoorResponse"}},
                    "400": {"description": "Invalid or empty patch", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Doors"],
                "summary": "Soft-delete a door",
                "operationId": "deleteDoor",
                "parameters": [{"type": "string", "description": "Door ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/orders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Orders"],
                "summary": "List orders",
                "operationId": "listOrders",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Order"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Orders"],
                "summary": "Submit an order",
                "operationId": "createOrder",
                "parameters": [
                    {"type": "string", "description": "Client-generated key; retries with the same key replay the order", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Checkout payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateOrderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.OrderResponse"}},
                    "400": {"description": "Invalid payload or unknown door", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "Database busy", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/orders/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Orders"],
                "summary": "Get an order",
                "operationId": "getOrder",
                "parameters": [{"type": "string", "description": "Order ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Order"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Orders"],
                "summary": "Delete an order",
                "operationId": "deleteOrder",
                "parameters": [{"type": "string", "description": "Order ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/orders/complete/{id}": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Orders"],
                "summary": "Mark an order as completed",
                "operationId": "completeOrder",
                "parameters": [{"type": "string", "description": "Order ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.CompleteOrderResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/property": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Enquiries"],
                "summary": "List property enquiries",
                "operationId": "listPropertyEnquiries",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.PropertyEnquiry"}}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Enquiries"],
                "summary": "Submit a property enquiry",
                "operationId": "createPropertyEnquiry",
                "parameters": [{"description": "Enquiry payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.PropertyEnquiry"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.CreateEnquiryResponse"}},
                    "400": {"description": "Missing required field", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/contact": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Enquiries"],
                "summary": "List contact enquiries",
                "operationId": "listContactEnquiries",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.ContactEnquiry"}}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Enquiries"],
                "summary": "Submit a contact enquiry",
                "operationId": "createContactEnquiry",
                "parameters": [{"description": "Enquiry payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.ContactEnquiry"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.CreateEnquiryResponse"}},
                    "400": {"description": "Missing required field", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/subscribe": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Newsletter"],
                "summary": "Subscribe to the newsletter",
                "operationId": "subscribe",
                "parameters": [{"description": "Subscriber email", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SubscribeRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.SubscribeResponse"}},
                    "409": {"description": "Already subscribed", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/images": {
            "post": {
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Images"],
                "summary": "Upload a door image",
                "operationId": "uploadImage",
                "parameters": [
                    {"type": "file", "description": "Image file", "name": "image", "in": "formData"},
                    {"description": "Base64 image", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/handlers.UploadImageRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.UploadImageResponse"}},
                    "502": {"description": "Upload failed", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "Image host not configured", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "code": {"type": "string", "example": "bad_request"},
                "message": {"type": "string"}
            }
        },
        "handlers.MessageResponse": {"type": "object", "properties": {"message": {"type": "string"}}},
        "handlers.DoorSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "price": {"type": "string", "example": "125.50"},
                "type": {"type": "string", "enum": ["Single", "Single Wide", "One and Half", "Double"]},
                "image_url": {"type": "string"}
            }
        },
        "handlers.DoorDetail": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "string"},
                "type": {"type": "string"},
                "stock": {"type": "integer"},
                "image_url": {"type": "string"},
                "sub_images": {"type": "array", "items": {"type": "string"}},
                "variants": {"type": "array", "items": {"$ref": "#/definitions/domain.DoorVariant"}},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handlers.CreateDoorRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "string", "example": "125.50"},
                "type": {"type": "string"},
                "stock": {"type": "integer"},
                "image_url": {"type": "string"},
                "sub_images": {"type": "array", "items": {"type": "string"}},
                "variants": {"type": "array", "items": {"$ref": "#/definitions/handlers.VariantRequest"}}
            }
        },
        "domain.DoorVariant": {
            "type": "object",
            "properties": {
                "color": {"type": "string"},
                "orientation": {"type": "string", "enum": ["left", "right"]},
                "stock": {"type": "integer"}
            }
        },
        "handlers.VariantRequest": {
            "type": "object",
            "properties": {
                "color": {"type": "string", "example": "Walnut"},
                "orientation": {"type": "string", "enum": ["left", "right"]},
                "stock": {"type": "integer", "example": 2}
            }
        },
        "handlers.CreateDoorResponse": {"type": "object", "properties": {"message": {"type": "string"}, "door_id": {"type": "string"}}},
        "handlers.UpdateDoorRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "string"},
                "type": {"type": "string"},
                "stock": {"type": "integer"},
                "image_url": {"type": "string"},
                "sub_images_operations": {"$ref": "#/definitions/handlers.SubImagesOperations"}
            }
        },
        "handlers.SubImagesOperations": {
            "type": "object",
            "properties": {
                "add": {"type": "array", "items": {"type": "string"}},
                "delete": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handlers.UpdateDoorResponse": {"type": "object", "properties": {"message": {"type": "string"}, "door": {"$ref": "#/definitions/handlers.DoorDetail"}}},
        "handlers.OrderItemRequest": {
            "type": "object",
            "properties": {
                "door_id": {"type": "string"},
                "quantity": {"type": "integer"},
                "orientation": {"type": "string", "enum": ["left", "right"]}
            }
        },
        "handlers.CreateOrderRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"},
                "notes": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/handlers.OrderItemRequest"}}
            }
        },
        "handlers.OrderResponse": {"type": "object", "properties": {"message": {"type": "string"}, "order": {"$ref": "#/definitions/domain.Order"}}},
        "handlers.CompleteOrderResponse": {"type": "object", "properties": {"message": {"type": "string"}, "changed": {"type": "boolean"}}},
        "domain.OrderItem": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "order_id": {"type": "string"},
                "door_id": {"type": "string"},
                "door_name": {"type": "string"},
                "quantity": {"type": "integer"},
                "unit_price": {"type": "string"},
                "orientation": {"type": "string"},
                "door_type": {"type": "string"}
            }
        },
        "domain.Order": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "customer_name": {"type": "string"},
                "phone_number": {"type": "string"},
                "email": {"type": "string"},
                "location": {"type": "string"},
                "notes": {"type": "string"},
                "total_price": {"type": "string"},
                "is_confirmed": {"type": "boolean"},
                "created_at": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.OrderItem"}}
            }
        },
        "domain.PropertyEnquiry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "selected_property": {"type": "string"},
                "message": {"type": "string"},
                "resolved": {"type": "string", "enum": ["yes", "no"]},
                "submitted_at": {"type": "string"}
            }
        },
        "domain.ContactEnquiry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "enquiry_type": {"type": "string"},
                "additional_info": {"type": "string"},
                "resolved": {"type": "string", "enum": ["yes", "no"]},
                "submitted_at": {"type": "string"}
            }
        },
        "handlers.CreateEnquiryResponse": {"type": "object", "properties": {"message": {"type": "string"}, "enquiry_id": {"type": "string"}}},
        "handlers.SubscribeRequest": {"type": "object", "properties": {"email": {"type": "string"}}},
        "handlers.SubscribeResponse": {"type": "object", "properties": {"message": {"type": "string"}, "id": {"type": "string"}}},
        "handlers.UploadImageRequest": {"type": "object", "properties": {"image": {"type": "string"}, "name": {"type": "string"}}},
        "handlers.UploadImageResponse": {"type": "object", "properties": {"url": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Airban Doors API",
	Description:      "Catalog, orders, enquiries and newsletter for the Airban Doors storefront.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
