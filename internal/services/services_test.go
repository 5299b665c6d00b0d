package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/HansOheneba/airban-api/internal/domain"
	"github.com/HansOheneba/airban-api/internal/notify"
	"github.com/HansOheneba/airban-api/internal/repo"
)

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// recorder is a Notifier that keeps every event.
type recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recorder) Notify(_ context.Context, ev notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []notify.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.Kind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intp(n int) *int       { return &n }
func strp(s string) *string { return &s }

func mustDoor(t *testing.T, cat *CatalogService, name, price string) *domain.Door {
	t.Helper()
	d, err := cat.Create(context.Background(), NewDoor{
		Name:        name,
		Description: name + " door",
		Price:       dec(price),
		Type:        string(domain.DoorSingle),
		Stock:       intp(3),
		ImageURL:    "https://img.example.com/" + name + ".jpg",
	})
	if err != nil {
		t.Fatalf("create door %s: %v", name, err)
	}
	return d
}

func TestWithin_MapsOwnDeadlineToBusy(t *testing.T) {
	err := within(context.Background(), 10*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, ErrDatabaseBusy) {
		t.Fatalf("want ErrDatabaseBusy, got %v", err)
	}

	parent, cancel := context.WithCancel(context.Background())
	cancel()
	err = within(parent, time.Second, func(ctx context.Context) error { return ctx.Err() })
	if errors.Is(err, ErrDatabaseBusy) || !errors.Is(err, context.Canceled) {
		t.Fatalf("caller cancellation must pass through, got %v", err)
	}

	if err := within(context.Background(), 0, func(context.Context) error { return nil }); err != nil {
		t.Fatalf("zero timeout: %v", err)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := invalid("email", "%s is required", "email")
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "email" || ve.Error() != "email is required" {
		t.Fatalf("unexpected validation error: %#v", err)
	}
}
