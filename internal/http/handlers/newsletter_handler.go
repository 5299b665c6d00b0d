package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HansOheneba/airban-api/internal/domain"
)

// NewsletterService registers newsletter subscribers.
type NewsletterService interface {
	Subscribe(ctx context.Context, email string) (*domain.Subscriber, error)
}

// SubscribeRequest is the newsletter signup payload.
type SubscribeRequest struct {
	Email string `json:"email" example:"ama@example.com"`
}

// SubscribeResponse acknowledges a new subscriber.
type SubscribeResponse struct {
	Message string `json:"message" example:"Subscribed successfully"`
	ID      string `json:"id"      example:"5a6b7c8d-9e0f-4a1b-8c2d-3e4f5a6b7c8d"`
}

// Subscribe godoc
// @ID          subscribe
// @Summary     Subscribe to the newsletter
// @Description Stores the email once and sends a welcome email.
// @Tags        Newsletter
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.SubscribeRequest  true  "Subscriber email"
// @Success     201   {object}  handlers.SubscribeResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Invalid email"
// @Failure     409   {object}  handlers.ErrorResponse  "Already subscribed"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /subscribe [post]
func (h *Handlers) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	sub, err := h.newsletter.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, SubscribeResponse{Message: "Subscribed successfully", ID: sub.ID})
}
