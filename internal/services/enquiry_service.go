package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/HansOheneba/airban-api/internal/domain"
	"github.com/HansOheneba/airban-api/internal/notify"
	"github.com/HansOheneba/airban-api/internal/repo"
)

// enquiryRecord constrains P to the pointer type of an enquiry model T.
type enquiryRecord[T any] interface {
	*T
	domain.EnquiryRecord
}

// EnquiryService stores one enquiry variant. Use NewPropertyEnquiryService
// or NewContactEnquiryService.
type EnquiryService[T any, P enquiryRecord[T]] struct {
	DB             *gorm.DB
	Notifier       notify.Notifier
	AcquireTimeout time.Duration

	// check validates and normalizes the variant-specific fields.
	check func(*T) error
	// event wraps a stored enquiry for the notifier.
	event func(*T) notify.Event
}

// PropertyEnquiryService handles enquiries about listed properties.
type PropertyEnquiryService = EnquiryService[domain.PropertyEnquiry, *domain.PropertyEnquiry]

// ContactEnquiryService handles general contact-form enquiries.
type ContactEnquiryService = EnquiryService[domain.ContactEnquiry, *domain.ContactEnquiry]

// NewPropertyEnquiryService requires selected_property on top of the
// shared contact fields.
func NewPropertyEnquiryService(db *gorm.DB, n notify.Notifier, acquire time.Duration) *PropertyEnquiryService {
	return &PropertyEnquiryService{
		DB:             db,
		Notifier:       n,
		AcquireTimeout: acquire,
		check: func(e *domain.PropertyEnquiry) (err error) {
			e.SelectedProperty, err = required("selected_property", e.SelectedProperty)
			return err
		},
		event: func(e *domain.PropertyEnquiry) notify.Event {
			return notify.Event{Kind: notify.KindPropertyEnquiry, Property: e}
		},
	}
}

// NewContactEnquiryService requires enquiry_type on top of the shared
// contact fields.
func NewContactEnquiryService(db *gorm.DB, n notify.Notifier, acquire time.Duration) *ContactEnquiryService {
	return &ContactEnquiryService{
		DB:             db,
		Notifier:       n,
		AcquireTimeout: acquire,
		check: func(e *domain.ContactEnquiry) (err error) {
			e.EnquiryType, err = required("enquiry_type", e.EnquiryType)
			return err
		},
		event: func(e *domain.ContactEnquiry) notify.Event {
			return notify.Event{Kind: notify.KindContactEnquiry, Contact: e}
		},
	}
}

func checkHeader(h *domain.Enquiry) (err error) {
	if h.FirstName, err = required("first_name", h.FirstName); err != nil {
		return err
	}
	if h.LastName, err = required("last_name", h.LastName); err != nil {
		return err
	}
	if h.Email, err = requiredEmail("email", h.Email); err != nil {
		return err
	}
	if h.Phone, err = required("phone", h.Phone); err != nil {
		return err
	}
	return nil
}

// Submit validates e, stores it unresolved, and emits the enquiry event.
func (s *EnquiryService[T, P]) Submit(ctx context.Context, e *T) (*T, error) {
	if err := checkHeader(P(e).Header()); err != nil {
		return nil, err
	}
	if s.check != nil {
		if err := s.check(e); err != nil {
			return nil, err
		}
	}
	err := within(ctx, s.AcquireTimeout, func(ctx context.Context) error {
		return repo.CreateEnquiry(ctx, s.DB, P(e))
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", P(e).TableName(), err)
	}
	if s.Notifier != nil && s.event != nil {
		ev := s.event(e)
		ev.OccurredAt = time.Now().UTC()
		s.Notifier.Notify(ctx, ev)
	}
	return e, nil
}

// List returns every enquiry of this variant, newest first.
func (s *EnquiryService[T, P]) List(ctx context.Context) ([]T, error) {
	var out []T
	err := within(ctx, s.AcquireTimeout, func(ctx context.Context) (err error) {
		out, err = repo.ListEnquiries[T](ctx, s.DB)
		return err
	})
	if out == nil {
		out = []T{}
	}
	return out, err
}

// Get returns one enquiry.
func (s *EnquiryService[T, P]) Get(ctx context.Context, id string) (*T, error) {
	var out *T
	err := within(ctx, s.AcquireTimeout, func(ctx context.Context) error {
		e, err := repo.GetEnquiry[T](ctx, s.DB, id)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrEnquiryNotFound
		}
		out = e
		return err
	})
	return out, err
}

// SetResolved sets the resolved flag. Repeating the current value succeeds.
func (s *EnquiryService[T, P]) SetResolved(ctx context.Context, id string, resolved bool) error {
	value := domain.ResolvedNo
	if resolved {
		value = domain.ResolvedYes
	}
	return within(ctx, s.AcquireTimeout, func(ctx context.Context) error {
		err := repo.SetEnquiryResolved[T](ctx, s.DB, id, value)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrEnquiryNotFound
		}
		return err
	})
}

// Delete removes the enquiry permanently.
func (s *EnquiryService[T, P]) Delete(ctx context.Context, id string) error {
	return within(ctx, s.AcquireTimeout, func(ctx context.Context) error {
		err := repo.DeleteEnquiry[T](ctx, s.DB, id)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrEnquiryNotFound
		}
		return err
	})
}
