// Order HTTP handlers.
//
// This file exposes REST endpoints for orders:
//   - POST   /orders                 (submit a cart; Idempotency-Key aware)
//   - GET    /orders                 (list)
//   - GET    /orders/{id}            (detail)
//   - POST   /orders/complete/{id}   (mark confirmed)
//   - DELETE /orders/{id}            (soft delete)
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HansOheneba/airban-api/internal/domain"
	"github.com/HansOheneba/airban-api/internal/http/middleware"
	"github.com/HansOheneba/airban-api/internal/services"
)

// OrderService defines order operations consumed by HTTP handlers.
type OrderService interface {
	Submit(ctx context.Context, in services.SubmitOrderInput) (*domain.Order, error)
	Replay(ctx context.Context, key string) (*domain.Order, bool, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Complete(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

//
// DTOs
//

// OrderItemRequest is one cart line.
type OrderItemRequest struct {
	DoorID      string `json:"door_id"     example:"3f1c2d9e-8b7a-4c21-9d55-0e4f6a7b8c9d"`
	Quantity    int    `json:"quantity"    example:"2"`
	Orientation string `json:"orientation" example:"left" enums:"left,right"`
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	Name    string             `json:"name"    example:"Ama Mensah"`
	Email   string             `json:"email"   example:"ama@example.com"`
	Phone   string             `json:"phone"   example:"+233 24 555 1234"`
	Address string             `json:"address" example:"12 Ring Road, Accra"`
	Notes   *string            `json:"notes"   example:"Deliver after 3pm"`
	Items   []OrderItemRequest `json:"items"`
}

// OrderResponse wraps a created order.
type OrderResponse struct {
	Message string       `json:"message" example:"Order created successfully"`
	Order   domain.Order `json:"order"`
}

// CompleteOrderResponse reports whether completing changed the order.
type CompleteOrderResponse struct {
	Message string `json:"message" example:"Order marked as completed."`
	Changed bool   `json:"changed" example:"true"`
}

//
// Handlers
//

// CreateOrder godoc
// @ID          createOrder
// @Summary     Submit an order
// @Description Prices every line from the live catalog and stores the order atomically.
// @Description A repeated Idempotency-Key returns the original order with Idempotency-Replayed: true.
// @Tags        Orders
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header    string                       false  "Client retry key"
// @Param       body             body      handlers.CreateOrderRequest  true   "Order payload"
// @Success     201              {object}  handlers.OrderResponse
// @Failure     400              {object}  handlers.ErrorResponse  "Validation error or unknown door"
// @Failure     429              {object}  handlers.ErrorResponse  "Rate limited"
// @Failure     503              {object}  handlers.ErrorResponse  "Database busy"
// @Failure     500              {object}  handlers.ErrorResponse  "Internal error"
// @Router      /orders [post]
func (h *Handlers) CreateOrder(c *gin.Context) {
	ctx := c.Request.Context()
	key, _ := middleware.GetIdempotencyKey(c)

	if middleware.IsReplay(c) {
		prev, found, err := h.orders.Replay(ctx, key)
		if err != nil {
			failService(c, err)
			return
		}
		if found {
			c.Header(middleware.HeaderIdempotencyReplayed, "true")
			ok(c, http.StatusCreated, OrderResponse{Message: "Order created successfully", Order: *prev})
			return
		}
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	in := services.SubmitOrderInput{
		CustomerName:   req.Name,
		PhoneNumber:    req.Phone,
		Email:          req.Email,
		Location:       req.Address,
		Notes:          req.Notes,
		Items:          make([]services.OrderLine, 0, len(req.Items)),
		IdempotencyKey: key,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, services.OrderLine{DoorID: it.DoorID, Quantity: it.Quantity, Orientation: it.Orientation})
	}

	o, err := h.orders.Submit(ctx, in)
	if errors.Is(err, services.ErrDoorNotFound) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, OrderResponse{Message: "Order created successfully", Order: *o})
}

// ListOrders godoc
// @ID          listOrders
// @Summary     List orders
// @Description Returns every order that has not been deleted, newest first, with items.
// @Tags        Orders
// @Produce     json
// @Success     200  {array}   domain.Order
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /orders [get]
func (h *Handlers) ListOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	ok(c, http.StatusOK, orders)
}

// GetOrder godoc
// @ID          getOrder
// @Summary     Get an order
// @Tags        Orders
// @Produce     json
// @Param       id   path      string  true  "Order ID"
// @Success     200  {object}  domain.Order
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /orders/{id} [get]
func (h *Handlers) GetOrder(c *gin.Context) {
	o, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, o)
}

// CompleteOrder godoc
// @ID          completeOrder
// @Summary     Mark an order as completed
// @Description changed is false when the order was already completed.
// @Tags        Orders
// @Produce     json
// @Param       id   path      string  true  "Order ID"
// @Success     200  {object}  handlers.CompleteOrderResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /orders/complete/{id} [post]
func (h *Handlers) CompleteOrder(c *gin.Context) {
	changed, err := h.orders.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	msg := "Order marked as completed."
	if !changed {
		msg = "Order was already completed."
	}
	ok(c, http.StatusOK, CompleteOrderResponse{Message: msg, Changed: changed})
}

// DeleteOrder godoc
// @ID          deleteOrder
// @Summary     Delete an order
// @Tags        Orders
// @Produce     json
// @Param       id   path      string  true  "Order ID"
// @Success     200  {object}  handlers.MessageResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /orders/{id} [delete]
func (h *Handlers) DeleteOrder(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: "Order deleted successfully."})
}
