package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/HansOheneba/airban-api/internal/domain"
)

// DoorStats returns the number of active doors and the greatest UpdatedAt
// among them. It backs the catalog list ETag. With no active doors the
// timestamp is nil.
func DoorStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	if err = activeDoors(db.WithContext(ctx)).Model(&domain.Door{}).Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Ordered scan rather than MAX(): SQLite returns MAX() over datetimes as TEXT.
	var row struct {
		UpdatedAt time.Time
	}
	err = activeDoors(db.WithContext(ctx)).Model(&domain.Door{}).
		Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error
	if err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
