// Package notify delivers best-effort side effects after a write has
// committed: customer and admin emails, and domain events for downstream
// consumers. Producers hand an Event to a Notifier and move on; delivery
// failures are logged and counted here and never reach the producer.
package notify

import (
	"context"
	"time"

	"github.com/HansOheneba/airban-api/internal/domain"
)

// Kind names what happened.
type Kind string

const (
	KindOrderPlaced     Kind = "order.placed"
	KindPropertyEnquiry Kind = "enquiry.property"
	KindContactEnquiry  Kind = "enquiry.contact"
	KindSubscribed      Kind = "subscriber.created"
)

// Event is emitted after a successful commit. Exactly one subject pointer is
// set, matching Kind.
type Event struct {
	Kind       Kind      `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`

	Order      *domain.Order           `json:"order,omitempty"`
	Property   *domain.PropertyEnquiry `json:"property_enquiry,omitempty"`
	Contact    *domain.ContactEnquiry  `json:"contact_enquiry,omitempty"`
	Subscriber *domain.Subscriber      `json:"subscriber,omitempty"`
}

// SubjectID returns the id of the record the event is about.
func (e Event) SubjectID() string {
	switch {
	case e.Order != nil:
		return e.Order.ID
	case e.Property != nil:
		return e.Property.ID
	case e.Contact != nil:
		return e.Contact.ID
	case e.Subscriber != nil:
		return e.Subscriber.ID
	}
	return ""
}

// Notifier accepts post-commit events. Implementations must not block on
// slow downstreams and must not report failures to the caller.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// Fanout delivers every event to each notifier in order.
type Fanout []Notifier

// Notify forwards ev to every non-nil member.
func (f Fanout) Notify(ctx context.Context, ev Event) {
	for _, n := range f {
		if n != nil {
			n.Notify(ctx, ev)
		}
	}
}

type discard struct{}

func (discard) Notify(context.Context, Event) {}

// Discard drops every event.
var Discard Notifier = discard{}
