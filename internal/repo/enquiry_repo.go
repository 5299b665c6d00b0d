// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides generic repository functions shared by
// property and contact enquiries. T is the enquiry model type
// (domain.PropertyEnquiry or domain.ContactEnquiry); GORM resolves the table
// from its TableName method.
//
// Enquiries are hard-deleted.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HansOheneba/airban-api/internal/domain"
)

// CreateEnquiry assigns ID, resolved="no" and submitted_at, then inserts rec.
func CreateEnquiry(ctx context.Context, db *gorm.DB, rec domain.EnquiryRecord) error {
	h := rec.Header()
	h.ID = uuid.NewString()
	h.Resolved = domain.ResolvedNo
	h.SubmittedAt = time.Now().UTC()
	return translate(db.WithContext(ctx).Create(rec).Error)
}

// ListEnquiries returns every enquiry of type T, newest first.
func ListEnquiries[T any](ctx context.Context, db *gorm.DB) ([]T, error) {
	var out []T
	err := db.WithContext(ctx).
		Order("submitted_at desc").
		Find(&out).Error
	return out, err
}

// GetEnquiry loads one enquiry of type T.
func GetEnquiry[T any](ctx context.Context, db *gorm.DB, id string) (*T, error) {
	var e T
	if err := db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

// SetEnquiryResolved writes the resolved flag ("yes" or "no"). Writing the
// current value is not an error; only a missing row yields ErrNotFound.
func SetEnquiryResolved[T any](ctx context.Context, db *gorm.DB, id, value string) error {
	res := db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Update("resolved", value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// MySQL reports zero affected rows when the value is unchanged.
	var n int64
	if err := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteEnquiry physically removes an enquiry of type T.
func DeleteEnquiry[T any](ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
