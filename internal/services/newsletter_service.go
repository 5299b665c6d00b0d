package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/HansOheneba/airban-api/internal/domain"
	"github.com/HansOheneba/airban-api/internal/notify"
	"github.com/HansOheneba/airban-api/internal/repo"
)

// NewsletterService registers newsletter subscribers.
type NewsletterService struct {
	DB             *gorm.DB
	Notifier       notify.Notifier
	AcquireTimeout time.Duration
}

// Subscribe stores email (trimmed, lower-cased) and sends the welcome email.
// A repeat subscription returns ErrAlreadySubscribed and stores nothing.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (*domain.Subscriber, error) {
	email, err := requiredEmail("email", strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	var sub *domain.Subscriber
	err = within(ctx, s.AcquireTimeout, func(ctx context.Context) (err error) {
		sub, err = repo.CreateSubscriber(ctx, s.DB, email)
		return err
	})
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, ErrAlreadySubscribed
	}
	if err != nil {
		return nil, fmt.Errorf("create subscriber: %w", err)
	}

	if s.Notifier != nil {
		s.Notifier.Notify(ctx, notify.Event{Kind: notify.KindSubscribed, OccurredAt: time.Now().UTC(), Subscriber: sub})
	}
	return sub, nil
}
