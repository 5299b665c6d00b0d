// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the Idempotency
// model used to make order submission safe to retry.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HansOheneba/airban-api/internal/domain"
)

// GetIdempotency returns a non-expired record for (scope, key) or ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, scope, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where("scope = ? AND idem_key = ? AND expires_at > ?", scope, key, now).
		First(&rec).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// CreateIdempotency inserts a record and returns ErrDuplicate when (scope, key)
// already exists, including expired rows that have not been purged yet.
func CreateIdempotency(ctx context.Context, db *gorm.DB, scope, key, resourceID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	now := time.Now().UTC()
	rec := &domain.Idempotency{
		ID:         uuid.NewString(),
		Scope:      scope,
		Key:        key,
		ResourceID: resourceID,
		Status:     status,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, translate(err)
	}
	return rec, nil
}

// PurgeExpiredIdempotency deletes records whose TTL has passed so their keys
// can be reused.
func PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, scope, key string, now time.Time) error {
	return db.WithContext(ctx).
		Where("scope = ? AND idem_key = ? AND expires_at <= ?", scope, key, now).
		Delete(&domain.Idempotency{}).Error
}

// ReleaseIdempotency deletes every record in scope that points at resourceID,
// freeing its keys for new submissions.
func ReleaseIdempotency(ctx context.Context, db *gorm.DB, scope, resourceID string) error {
	return db.WithContext(ctx).
		Where("scope = ? AND resource_id = ?", scope, resourceID).
		Delete(&domain.Idempotency{}).Error
}
