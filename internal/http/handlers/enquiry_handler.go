// Enquiry HTTP handlers.
//
// Property and contact enquiries share one generic handler set mounted
// twice, under /property and /contact:
//   - POST   /{kind}                  (submit)
//   - GET    /{kind}                  (list)
//   - GET    /{kind}/{id}             (detail)
//   - POST   /{kind}/{id}/resolve     (resolved = yes)
//   - POST   /{kind}/{id}/unresolve   (resolved = no)
//   - DELETE /{kind}/{id}             (hard delete)
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HansOheneba/airban-api/internal/domain"
)

// EnquiryService defines the operations on one enquiry variant T.
type EnquiryService[T any] interface {
	Submit(ctx context.Context, e *T) (*T, error)
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	SetResolved(ctx context.Context, id string, resolved bool) error
	Delete(ctx context.Context, id string) error
}

// EnquiryHandlers serves one enquiry variant. Label prefixes response
// messages ("Property enquiry", "Contact enquiry").
type EnquiryHandlers[T any, P interface {
	*T
	domain.EnquiryRecord
}] struct {
	svc   EnquiryService[T]
	label string
}

// NewEnquiryHandlers binds svc to a handler set.
func NewEnquiryHandlers[T any, P interface {
	*T
	domain.EnquiryRecord
}](svc EnquiryService[T], label string) *EnquiryHandlers[T, P] {
	return &EnquiryHandlers[T, P]{svc: svc, label: label}
}

// CreateEnquiryResponse acknowledges a stored enquiry.
type CreateEnquiryResponse struct {
	Message   string `json:"message"    example:"Property enquiry submitted successfully"`
	EnquiryID string `json:"enquiry_id" example:"9b2e6f1a-4c3d-4e5f-8a9b-0c1d2e3f4a5b"`
}

// Create godoc
// @ID          createPropertyEnquiry
// @Summary     Submit a property enquiry
// @Tags        Enquiries
// @Accept      json
// @Produce     json
// @Param       body  body      domain.PropertyEnquiry  true  "Enquiry payload"
// @Success     201   {object}  handlers.CreateEnquiryResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Missing required field"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /property [post]
func (h *EnquiryHandlers[T, P]) Create(c *gin.Context) {
	var e T
	if err := c.ShouldBindJSON(&e); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	saved, err := h.svc.Submit(c.Request.Context(), &e)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, CreateEnquiryResponse{
		Message:   h.label + " submitted successfully",
		EnquiryID: P(saved).Header().ID,
	})
}

// List godoc
// @ID          listPropertyEnquiries
// @Summary     List property enquiries
// @Tags        Enquiries
// @Produce     json
// @Success     200  {array}   domain.PropertyEnquiry
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /property [get]
func (h *EnquiryHandlers[T, P]) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	if list == nil {
		list = []T{}
	}
	ok(c, http.StatusOK, list)
}

// Get godoc
// @ID          getPropertyEnquiry
// @Summary     Get a property enquiry
// @Tags        Enquiries
// @Produce     json
// @Param       id   path      string  true  "Enquiry ID"
// @Success     200  {object}  domain.PropertyEnquiry
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /property/{id} [get]
func (h *EnquiryHandlers[T, P]) Get(c *gin.Context) {
	e, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, e)
}

// Resolve godoc
// @ID          resolvePropertyEnquiry
// @Summary     Mark a property enquiry as resolved
// @Tags        Enquiries
// @Produce     json
// @Param       id   path      string  true  "Enquiry ID"
// @Success     200  {object}  handlers.MessageResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /property/{id}/resolve [post]
func (h *EnquiryHandlers[T, P]) Resolve(c *gin.Context) { h.setResolved(c, true) }

// Unresolve godoc
// @ID          unresolvePropertyEnquiry
// @Summary     Mark a property enquiry as unresolved
// @Tags        Enquiries
// @Produce     json
// @Param       id   path      string  true  "Enquiry ID"
// @Success     200  {object}  handlers.MessageResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /property/{id}/unresolve [post]
func (h *EnquiryHandlers[T, P]) Unresolve(c *gin.Context) { h.setResolved(c, false) }

func (h *EnquiryHandlers[T, P]) setResolved(c *gin.Context, resolved bool) {
	if err := h.svc.SetResolved(c.Request.Context(), c.Param("id"), resolved); err != nil {
		failService(c, err)
		return
	}
	state := "resolved"
	if !resolved {
		state = "unresolved"
	}
	ok(c, http.StatusOK, MessageResponse{Message: h.label + " marked as " + state})
}

// Delete godoc
// @ID          deletePropertyEnquiry
// @Summary     Delete a property enquiry
// @Tags        Enquiries
// @Produce     json
// @Param       id   path      string  true  "Enquiry ID"
// @Success     200  {object}  handlers.MessageResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /property/{id} [delete]
func (h *EnquiryHandlers[T, P]) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: h.label + " deleted successfully"})
}
