// Package services – OrderService
//
// This file implements OrderService, which owns the order lifecycle: atomic
// submission with catalog price snapshots, confirmation, soft deletion, and
// reads with door names joined in. Submissions may carry an idempotency key;
// retries with the same key replay the original order.
//
// Observability: Submit is OpenTelemetry-instrumented and counted by outcome
// in airban_orders_submitted_total.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/HansOheneba/airban-api/internal/domain"
	"github.com/HansOheneba/airban-api/internal/notify"
	"github.com/HansOheneba/airban-api/internal/repo"
)

// IdempotencyScopeOrders namespaces idempotency keys for order submission.
const IdempotencyScopeOrders = "orders"

var ordersSubmitted = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "airban_orders_submitted_total",
		Help: "Order submissions by outcome.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(ordersSubmitted)
}

// OrderLine is one requested cart line.
type OrderLine struct {
	DoorID      string
	Quantity    int
	Orientation string
}

// SubmitOrderInput is a customer's checkout request.
type SubmitOrderInput struct {
	CustomerName   string
	PhoneNumber    string
	Email          string
	Location       string
	Notes          *string
	Items          []OrderLine
	IdempotencyKey string
}

// OrderService coordinates order persistence and post-commit notification.
type OrderService struct {
	DB             *gorm.DB
	Notifier       notify.Notifier
	AcquireTimeout time.Duration
	IdempotencyTTL time.Duration
}

// errIdemTaken aborts a submission whose key was recorded concurrently.
var errIdemTaken = errors.New("idempotency key already recorded")

// Submit validates in, then creates the order and its items in one
// transaction. Unit prices and door types are copied from the active catalog
// at this moment; an unknown or deleted door aborts the whole submission.
func (s *OrderService) Submit(ctx context.Context, in SubmitOrderInput) (*domain.Order, error) {
	tr := otel.Tracer("services/OrderService")
	ctx, span := tr.Start(ctx, "Submit",
		trace.WithAttributes(
			attribute.Int("order.items", len(in.Items)),
			attribute.Bool("order.idempotent", in.IdempotencyKey != ""),
		),
	)
	defer span.End()

	o, err := in.normalize()
	if err != nil {
		ordersSubmitted.WithLabelValues("invalid").Inc()
		return nil, err
	}

	err = within(ctx, s.AcquireTimeout, func(ctx context.Context) error {
		if in.IdempotencyKey != "" {
			if err := repo.PurgeExpiredIdempotency(ctx, s.DB, IdempotencyScopeOrders, in.IdempotencyKey, time.Now().UTC()); err != nil {
				return fmt.Errorf("purge idempotency: %w", err)
			}
		}
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			total := decimal.Zero
			for i := range o.Items {
				it := &o.Items[i]
				door, err := repo.GetActiveDoor(ctx, tx, it.DoorID, false)
				if errors.Is(err, repo.ErrNotFound) {
					return fmt.Errorf("%w: %s", ErrDoorNotFound, it.DoorID)
				}
				if err != nil {
					return fmt.Errorf("load door %s: %w", it.DoorID, err)
				}
				it.UnitPrice = door.Price
				it.DoorType = door.Type
				it.DoorName = door.Name
				total = total.Add(it.LineTotal())
			}
			o.TotalPrice = total

			if err := repo.CreateOrder(ctx, tx, o); err != nil {
				return fmt.Errorf("create order: %w", err)
			}
			if in.IdempotencyKey != "" {
				_, err := repo.CreateIdempotency(ctx, tx, IdempotencyScopeOrders, in.IdempotencyKey, o.ID, 201, s.IdempotencyTTL)
				if errors.Is(err, repo.ErrDuplicate) {
					return errIdemTaken
				}
				if err != nil {
					return fmt.Errorf("record idempotency: %w", err)
				}
			}
			return nil
		})
	})

	switch {
	case errors.Is(err, errIdemTaken):
		prev, ok, rerr := s.Replay(ctx, in.IdempotencyKey)
		if rerr != nil {
			return nil, rerr
		}
		if !ok {
			return nil, fmt.Errorf("idempotency key %q recorded without an order", in.IdempotencyKey)
		}
		ordersSubmitted.WithLabelValues("replayed").Inc()
		return prev, nil
	case errors.Is(err, ErrDoorNotFound):
		ordersSubmitted.WithLabelValues("door_not_found").Inc()
		return nil, err
	case err != nil:
		ordersSubmitted.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "submit order")
		return nil, err
	}
	ordersSubmitted.WithLabelValues("created").Inc()
	span.SetAttributes(attribute.String("order.id", o.ID))

	saved := o
	rerr := within(ctx, s.AcquireTimeout, func(ctx context.Context) error {
		got, err := repo.GetActiveOrder(ctx, s.DB, o.ID)
		if err == nil {
			saved = got
		}
		return err
	})
	if rerr != nil {
		log.Ctx(ctx).Warn().Err(rerr).Str("order_id", o.ID).Msg("re-read committed order")
	}

	if s.Notifier != nil {
		s.Notifier.Notify(ctx, notify.Event{Kind: notify.KindOrderPlaced, OccurredAt: time.Now().UTC(), Order: saved})
	}
	return saved, nil
}

// normalize validates the request and builds the unsaved order. No database
// access happens here.
func (in SubmitOrderInput) normalize() (*domain.Order, error) {
	name, err := required("customer_name", in.CustomerName)
	if err != nil {
		return nil, err
	}
	email, err := requiredEmail("email", in.Email)
	if err != nil {
		return nil, err
	}
	phone, err := required("phone_number", in.PhoneNumber)
	if err != nil {
		return nil, err
	}
	location, err := required("location", in.Location)
	if err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, invalid("items", "items must contain at least one door")
	}

	now := time.Now().UTC()
	o := &domain.Order{
		ID:           uuid.NewString(),
		CustomerName: name,
		PhoneNumber:  phone,
		Email:        email,
		Location:     location,
		CreatedAt:    now,
		Items:        make([]domain.OrderItem, 0, len(in.Items)),
	}
	if in.Notes != nil {
		if n := strings.TrimSpace(*in.Notes); n != "" {
			o.Notes = &n
		}
	}
	for i, line := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		doorID := strings.TrimSpace(line.DoorID)
		if doorID == "" {
			return nil, invalid(field+".door_id", "%s.door_id is required", field)
		}
		if line.Quantity <= 0 {
			return nil, invalid(field+".quantity", "%s.quantity must be greater than zero", field)
		}
		orient, ok := domain.ParseOrientation(strings.TrimSpace(line.Orientation))
		if !ok {
			return nil, invalid(field+".orientation", "%s.orientation must be \"left\" or \"right\"", field)
		}
		o.Items = append(o.Items, domain.OrderItem{
			ID:          uuid.NewString(),
			OrderID:     o.ID,
			Position:    i,
			DoorID:      doorID,
			Quantity:    line.Quantity,
			Orientation: orient,
		})
	}
	return o, nil
}

// Replay returns the order recorded under an unexpired idempotency key.
func (s *OrderService) Replay(ctx context.Context, key string) (*domain.Order, bool, error) {
	if strings.TrimSpace(key) == "" {
		return nil, false, nil
	}
	var out *domain.Order
	err := within(ctx, s.AcquireTimeout, func(ctx context.Context) error {
		rec, err := repo.GetIdempotency(ctx, s.DB, IdempotencyScopeOrders, key, time.Now().UTC())
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("lookup idempotency: %w", err)
		}
		o, err := repo.GetActiveOrder(ctx, s.DB, rec.ResourceID)
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load order: %w", err)
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, out != nil, nil
}

// HasReplay reports whether key maps to an unexpired recorded submission.
func (s *OrderService) HasReplay(ctx context.Context, key string) (bool, error) {
	var found bool
	err := within(ctx, s.AcquireTimeout, func(ctx context.Context) error {
		_, err := repo.GetIdempotency(ctx, s.DB, IdempotencyScopeOrders, key, time.Now().UTC())
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		found = err == nil
		return err
	})
	return found, err
}

// Get returns an active order with items and door names.
func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	var out *domain.Order
	err := within(ctx, s.AcquireTimeout, func(ctx context.Context) error {
		o, err := repo.GetActiveOrder(ctx, s.DB, id)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrOrderNotFound
		}
		out = o
		return err
	})
	return out, err
}

// List returns active orders, newest first.
func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	err := within(ctx, s.AcquireTimeout, func(ctx context.Context) (err error) {
		out, err = repo.ListActiveOrders(ctx, s.DB)
		return err
	})
	return out, err
}

// Complete marks an active order as confirmed. changed is false when it was
// already confirmed.
func (s *OrderService) Complete(ctx context.Context, id string) (bool, error) {
	var changed bool
	err := within(ctx, s.AcquireTimeout, func(ctx context.Context) error {
		c, err := repo.ConfirmOrder(ctx, s.DB, id)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrOrderNotFound
		}
		changed = c
		return err
	})
	return changed, err
}

// Delete soft-deletes an active order and releases any idempotency key that
// recorded it, so a retry with that key submits a new order.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	return within(ctx, s.AcquireTimeout, func(ctx context.Context) error {
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			err := repo.SoftDeleteOrder(ctx, tx, id)
			if errors.Is(err, repo.ErrNotFound) {
				return ErrOrderNotFound
			}
			if err != nil {
				return err
			}
			if err := repo.ReleaseIdempotency(ctx, tx, IdempotencyScopeOrders, id); err != nil {
				return fmt.Errorf("release idempotency: %w", err)
			}
			return nil
		})
	})
}
