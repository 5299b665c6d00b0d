// Package handlers provides HTTP handler implementations for the public API.
//
// Handlers are transport-thin: they decode requests, call the application
// services through the interfaces declared next to each handler, and
// translate results into JSON responses or the ErrorResponse envelope.
package handlers

import "github.com/HansOheneba/airban-api/internal/domain"

// Handlers groups the catalog, order, newsletter and image endpoints. The
// enquiry endpoints live on the Property and Contact handler sets.
type Handlers struct {
	catalog    CatalogService
	orders     OrderService
	newsletter NewsletterService
	images     ImageUploader

	Property *EnquiryHandlers[domain.PropertyEnquiry, *domain.PropertyEnquiry]
	Contact  *EnquiryHandlers[domain.ContactEnquiry, *domain.ContactEnquiry]
}

// Services bundles the dependencies of New. Images may be nil, in which case
// uploads answer 503.
type Services struct {
	Catalog    CatalogService
	Orders     OrderService
	Property   EnquiryService[domain.PropertyEnquiry]
	Contact    EnquiryService[domain.ContactEnquiry]
	Newsletter NewsletterService
	Images     ImageUploader
}

// New constructs a Handlers instance bound to the given services.
func New(s Services) *Handlers {
	return &Handlers{
		catalog:    s.Catalog,
		orders:     s.Orders,
		newsletter: s.Newsletter,
		images:     s.Images,
		Property:   NewEnquiryHandlers[domain.PropertyEnquiry, *domain.PropertyEnquiry](s.Property, "Property enquiry"),
		Contact:    NewEnquiryHandlers[domain.ContactEnquiry, *domain.ContactEnquiry](s.Contact, "Contact enquiry"),
	}
}
