package domain

import "time"

// Idempotency records the outcome of a request made with an Idempotency-Key,
// keyed by (scope, key). A retry with the same key inside the TTL replays the
// stored resource instead of repeating side effects.
type Idempotency struct {
	ID         string    `gorm:"type:char(36);primaryKey"`
	Scope      string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_idempotency_scope_key,priority:1"`
	Key        string    `gorm:"column:idem_key;type:varchar(200);not null;uniqueIndex:ux_idempotency_scope_key,priority:2"`
	ResourceID string    `gorm:"type:char(36);not null;index"`
	Status     int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime"`
	ExpiresAt  time.Time `gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
