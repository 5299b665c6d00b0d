// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for orders and
// their line items.
//
// Orders are soft-deleted. All accessors here scope to is_deleted = false, so
// a deleted order reads exactly like a missing one. Line items are read with
// a LEFT JOIN on doors to annotate door_name; the join ignores the door's
// soft-delete flag so history stays readable after a door is retired.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/HansOheneba/airban-api/internal/domain"
)

func activeOrders(db *gorm.DB) *gorm.DB {
	return db.Where("orders.is_deleted = ?", false)
}

// CreateOrder inserts the order header followed by its items. IDs, positions
// and timestamps must already be set by the caller. Pass a transaction handle
// so header and items commit together.
func CreateOrder(ctx context.Context, db *gorm.DB, o *domain.Order) error {
	if err := db.WithContext(ctx).Omit("Items").Create(o).Error; err != nil {
		return translate(err)
	}
	if len(o.Items) == 0 {
		return nil
	}
	if err := db.WithContext(ctx).Create(&o.Items).Error; err != nil {
		return translate(err)
	}
	return nil
}

// GetActiveOrder loads a non-deleted order with its items and door names.
func GetActiveOrder(ctx context.Context, db *gorm.DB, id string) (*domain.Order, error) {
	var o domain.Order
	err := db.WithContext(ctx).
		Scopes(activeOrders).
		Where("id = ?", id).
		First(&o).Error
	if err != nil {
		return nil, translate(err)
	}
	items, err := loadOrderItems(ctx, db, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return &o, nil
}

// ListActiveOrders returns non-deleted orders, newest first, each with items.
func ListActiveOrders(ctx context.Context, db *gorm.DB) ([]domain.Order, error) {
	var out []domain.Order
	err := db.WithContext(ctx).
		Scopes(activeOrders).
		Order("created_at desc").
		Find(&out).Error
	if err != nil || len(out) == 0 {
		return out, err
	}

	ids := make([]string, len(out))
	for i := range out {
		ids[i] = out[i].ID
	}
	items, err := loadOrderItems(ctx, db, ids...)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
	}
	return out, nil
}

func loadOrderItems(ctx context.Context, db *gorm.DB, orderIDs ...string) (map[string][]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := db.WithContext(ctx).
		Model(&domain.OrderItem{}).
		Select("order_items.*, COALESCE(doors.name, '') AS door_name").
		Joins("LEFT JOIN doors ON doors.id = order_items.door_id").
		Where("order_items.order_id IN ?", orderIDs).
		Order("order_items.position asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	byOrder := make(map[string][]domain.OrderItem, len(orderIDs))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	return byOrder, nil
}

// ConfirmOrder sets is_confirmed on an active order. changed is false when
// the order was already confirmed.
func ConfirmOrder(ctx context.Context, db *gorm.DB, id string) (changed bool, err error) {
	var cur domain.Order
	err = db.WithContext(ctx).
		Scopes(activeOrders).
		Select("id", "is_confirmed").
		Where("id = ?", id).
		First(&cur).Error
	if err != nil {
		return false, translate(err)
	}
	if cur.IsConfirmed {
		return false, nil
	}
	res := db.WithContext(ctx).
		Model(&domain.Order{}).
		Scopes(activeOrders).
		Where("id = ? AND is_confirmed = ?", id, false).
		Update("is_confirmed", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SoftDeleteOrder flags an active order as deleted.
func SoftDeleteOrder(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.Order{}).
		Scopes(activeOrders).
		Where("id = ?", id).
		Update("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
