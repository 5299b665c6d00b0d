// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for doors, their
// sub-images and their variants.
//
// Every door accessor applies the activeDoors scope: a soft-deleted door is
// indistinguishable from a missing one. There is deliberately no unscoped
// accessor; historical order items reach door names through the order join.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HansOheneba/airban-api/internal/domain"
)

func activeDoors(db *gorm.DB) *gorm.DB {
	return db.Where("doors.is_deleted = ?", false)
}

// CreateDoor inserts d (assigning ID and timestamps), one DoorImage per URL and
// every entry of d.Variants. Callers wanting atomicity pass a transaction
// handle.
func CreateDoor(ctx context.Context, db *gorm.DB, d *domain.Door, imageURLs []string) error {
	now := time.Now().UTC()
	d.ID = uuid.NewString()
	d.IsDeleted = false
	d.CreatedAt = now
	d.UpdatedAt = now
	variants := d.Variants
	if err := db.WithContext(ctx).Omit("Images", "Variants").Create(d).Error; err != nil {
		return translate(err)
	}
	imgs, err := AddDoorImages(ctx, db, d.ID, imageURLs)
	if err != nil {
		return err
	}
	d.Images = imgs
	if d.Variants, err = AddDoorVariants(ctx, db, d.ID, variants); err != nil {
		return err
	}
	return nil
}

// ListActiveDoors returns non-deleted doors, newest first, without images.
func ListActiveDoors(ctx context.Context, db *gorm.DB) ([]domain.Door, error) {
	var out []domain.Door
	err := db.WithContext(ctx).
		Scopes(activeDoors).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// GetActiveDoor loads a non-deleted door. withImages preloads its sub-images
// in insertion order and its variants ordered by colour then orientation.
func GetActiveDoor(ctx context.Context, db *gorm.DB, id string, withImages bool) (*domain.Door, error) {
	q := db.WithContext(ctx).Scopes(activeDoors)
	if withImages {
		q = q.Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("color asc, orientation asc")
		})
	}
	var d domain.Door
	if err := q.Where("id = ?", id).First(&d).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

// UpdateDoorColumns applies cols to an active door. cols must already be
// restricted to mutable columns; updated_at is set here.
func UpdateDoorColumns(ctx context.Context, db *gorm.DB, id string, cols map[string]any) error {
	cols["updated_at"] = time.Now().UTC()
	res := db.WithContext(ctx).
		Model(&domain.Door{}).
		Scopes(activeDoors).
		Where("id = ?", id).
		Updates(cols)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddDoorImages inserts one image row per URL and returns the new rows.
func AddDoorImages(ctx context.Context, db *gorm.DB, doorID string, urls []string) ([]domain.DoorImage, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	now := time.Now().UTC()
	imgs := make([]domain.DoorImage, 0, len(urls))
	for i, u := range urls {
		imgs = append(imgs, domain.DoorImage{
			ID:       uuid.NewString(),
			DoorID:   doorID,
			ImageURL: u,
			// Spread timestamps so reads keep the submitted order.
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
		})
	}
	if err := db.WithContext(ctx).Create(&imgs).Error; err != nil {
		return nil, translate(err)
	}
	return imgs, nil
}

// AddDoorVariants inserts vs for the door, assigning IDs, and returns the
// stored rows.
func AddDoorVariants(ctx context.Context, db *gorm.DB, doorID string, vs []domain.DoorVariant) ([]domain.DoorVariant, error) {
	if len(vs) == 0 {
		return nil, nil
	}
	out := make([]domain.DoorVariant, 0, len(vs))
	for _, v := range vs {
		v.ID = uuid.NewString()
		v.DoorID = doorID
		if v.Orientation == "" {
			v.Orientation = domain.OrientationLeft
		}
		out = append(out, v)
	}
	if err := db.WithContext(ctx).Create(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// DeleteDoorImages removes the door's images whose URL matches any of urls and
// reports how many rows went away.
func DeleteDoorImages(ctx context.Context, db *gorm.DB, doorID string, urls []string) (int64, error) {
	if len(urls) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).
		Where("door_id = ? AND image_url IN ?", doorID, urls).
		Delete(&domain.DoorImage{})
	return res.RowsAffected, res.Error
}

// SoftDeleteDoor flags an active door as deleted.
func SoftDeleteDoor(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.Door{}).
		Scopes(activeDoors).
		Where("id = ?", id).
		Updates(map[string]any{"is_deleted": true, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
