package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HansOheneba/airban-api/internal/domain"
)

// CreateSubscriber inserts a subscriber. The unique index on email makes a
// repeat insert fail with ErrDuplicate, which is how re-subscriptions are
// detected.
func CreateSubscriber(ctx context.Context, db *gorm.DB, email string) (*domain.Subscriber, error) {
	s := &domain.Subscriber{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, translate(err)
	}
	return s, nil
}
