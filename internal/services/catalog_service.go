package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/HansOheneba/airban-api/internal/cache"
	"github.com/HansOheneba/airban-api/internal/domain"
	"github.com/HansOheneba/airban-api/internal/repo"
)

// NewDoor is the input for CatalogService.Create.
type NewDoor struct {
	Name        string
	Description string
	Price       *decimal.Decimal
	Type        string
	Stock       *int
	ImageURL    string
	SubImages   []string
	Variants    []NewVariant
}

// NewVariant is one colour/orientation stock line of a NewDoor. An empty
// Orientation means left.
type NewVariant struct {
	Color       string
	Orientation string
	Stock       int
}

func (v NewVariant) check() (domain.DoorVariant, error) {
	color, err := required("variants.color", v.Color)
	if err != nil {
		return domain.DoorVariant{}, err
	}
	if len(color) > 50 {
		return domain.DoorVariant{}, invalid("variants.color", "color must be at most 50 characters")
	}
	o, ok := domain.ParseOrientation(strings.ToLower(strings.TrimSpace(v.Orientation)))
	if !ok {
		return domain.DoorVariant{}, invalid("variants.orientation", "orientation must be left or right")
	}
	if v.Stock < 0 {
		return domain.DoorVariant{}, invalid("variants.stock", "stock must not be negative")
	}
	return domain.DoorVariant{Color: color, Orientation: o, Stock: v.Stock}, nil
}

// DoorPatch is a partial door update. Nil fields are left untouched.
// AddImages and DeleteImages edit the sub-image set by URL.
type DoorPatch struct {
	Name         *string
	Description  *string
	Price        *decimal.Decimal
	Type         *string
	Stock        *int
	ImageURL     *string
	AddImages    []string
	DeleteImages []string
}

// Empty reports whether p carries no field and no image operation.
func (p DoorPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.Type == nil &&
		p.Stock == nil && p.ImageURL == nil && len(p.AddImages) == 0 && len(p.DeleteImages) == 0
}

// columns validates p and maps it onto door columns.
func (p DoorPatch) columns() (map[string]any, error) {
	cols := map[string]any{}
	if p.Name != nil {
		v, err := required("name", *p.Name)
		if err != nil {
			return nil, err
		}
		cols["name"] = v
	}
	if p.Description != nil {
		v, err := required("description", *p.Description)
		if err != nil {
			return nil, err
		}
		cols["description"] = v
	}
	if p.ImageURL != nil {
		v, err := required("image_url", *p.ImageURL)
		if err != nil {
			return nil, err
		}
		cols["image_url"] = v
	}
	if p.Price != nil {
		if err := checkPrice(*p.Price); err != nil {
			return nil, err
		}
		cols["price"] = *p.Price
	}
	if p.Type != nil {
		t, err := checkDoorType(*p.Type)
		if err != nil {
			return nil, err
		}
		cols["type"] = t
	}
	if p.Stock != nil {
		if *p.Stock < 0 {
			return nil, invalid("stock", "stock must not be negative")
		}
		cols["stock"] = *p.Stock
	}
	return cols, nil
}

// dropUnchanged removes the entries of cols that already match d.
func dropUnchanged(d *domain.Door, cols map[string]any) {
	for k, v := range cols {
		var same bool
		switch k {
		case "name":
			same = v.(string) == d.Name
		case "description":
			same = v.(string) == d.Description
		case "image_url":
			same = v.(string) == d.ImageURL
		case "price":
			same = v.(decimal.Decimal).Equal(d.Price)
		case "type":
			same = v.(domain.DoorType) == d.Type
		case "stock":
			same = v.(int) == d.Stock
		}
		if same {
			delete(cols, k)
		}
	}
}

func checkPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return invalid("price", "price must not be negative")
	}
	return nil
}

func checkDoorType(s string) (domain.DoorType, error) {
	t := domain.DoorType(s)
	if !t.Valid() {
		names := make([]string, len(domain.DoorTypes))
		for i, v := range domain.DoorTypes {
			names[i] = string(v)
		}
		return "", invalid("type", "type must be one of: %s", strings.Join(names, ", "))
	}
	return t, nil
}

// cleanURLs trims urls and drops blanks.
func cleanURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// CatalogService manages doors and their sub-images. The active door list is
// optionally served through Cache.
type CatalogService struct {
	DB             *gorm.DB
	Cache          cache.Cache
	CacheTTL       time.Duration
	AcquireTimeout time.Duration
}

func (s *CatalogService) listKey() string {
	return s.Cache.GenerateKey("doors", "active")
}

// ListActive returns non-deleted doors, newest first.
func (s *CatalogService) ListActive(ctx context.Context) ([]domain.Door, error) {
	tr := otel.Tracer("services/CatalogService")
	ctx, span := tr.Start(ctx, "ListActive")
	defer span.End()

	if s.Cache != nil {
		raw, err := s.Cache.Get(ctx, s.listKey())
		switch {
		case err != nil:
			log.Ctx(ctx).Warn().Err(err).Msg("catalog cache read")
		case raw != "":
			var doors []domain.Door
			if err := json.Unmarshal([]byte(raw), &doors); err == nil {
				span.SetAttributes(attribute.Bool("cache.hit", true))
				return doors, nil
			}
			log.Ctx(ctx).Warn().Msg("catalog cache entry unreadable")
		}
	}

	var doors []domain.Door
	err := within(ctx, s.AcquireTimeout, func(ctx context.Context) (err error) {
		doors, err = repo.ListActiveDoors(ctx, s.DB)
		return err
	})
	if err != nil {
		return nil, err
	}
	if doors == nil {
		doors = []domain.Door{}
	}

	if s.Cache != nil {
		if b, err := json.Marshal(doors); err == nil {
			if err := s.Cache.Set(ctx, s.listKey(), string(b), s.CacheTTL); err != nil {
				log.Ctx(ctx).Warn().Err(err).Msg("catalog cache write")
			}
		}
	}
	return doors, nil
}

// Stats reports the active door count and latest update time, used to
// fingerprint the catalog list.
func (s *CatalogService) Stats(ctx context.Context) (count int64, latest *time.Time, err error) {
	err = within(ctx, s.AcquireTimeout, func(ctx context.Context) error {
		count, latest, err = repo.DoorStats(ctx, s.DB)
		return err
	})
	return count, latest, err
}

// Get returns an active door with its sub-images.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Door, error) {
	var out *domain.Door
	err := within(ctx, s.AcquireTimeout, func(ctx context.Context) error {
		d, err := repo.GetActiveDoor(ctx, s.DB, id, true)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrDoorNotFound
		}
		out = d
		return err
	})
	return out, err
}

// Create validates in and stores the door with its sub-images and variants
// atomically.
func (s *CatalogService) Create(ctx context.Context, in NewDoor) (*domain.Door, error) {
	name, err := required("name", in.Name)
	if err != nil {
		return nil, err
	}
	desc, err := required("description", in.Description)
	if err != nil {
		return nil, err
	}
	img, err := required("image_url", in.ImageURL)
	if err != nil {
		return nil, err
	}
	if in.Price == nil {
		return nil, invalid("price", "price is required")
	}
	if err := checkPrice(*in.Price); err != nil {
		return nil, err
	}
	typ, err := checkDoorType(in.Type)
	if err != nil {
		return nil, err
	}
	stock := 0
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, invalid("stock", "stock must not be negative")
		}
		stock = *in.Stock
	}
	variants := make([]domain.DoorVariant, 0, len(in.Variants))
	for _, nv := range in.Variants {
		v, err := nv.check()
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}

	d := &domain.Door{
		Name:        name,
		Description: desc,
		Price:       *in.Price,
		Type:        typ,
		Stock:       stock,
		ImageURL:    img,
		Variants:    variants,
	}
	err = within(ctx, s.AcquireTimeout, func(ctx context.Context) error {
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return repo.CreateDoor(ctx, tx, d, cleanURLs(in.SubImages))
		})
	})
	if err != nil {
		return nil, fmt.Errorf("create door: %w", err)
	}
	s.invalidate(ctx)
	return d, nil
}

// Update applies p to an active door. changed is false when every field in p
// already holds the stored value and every image operation was a no-op.
func (s *CatalogService) Update(ctx context.Context, id string, p DoorPatch) (*domain.Door, bool, error) {
	tr := otel.Tracer("services/CatalogService")
	ctx, span := tr.Start(ctx, "Update", trace.WithAttributes(attribute.String("door.id", id)))
	defer span.End()

	cols, err := p.columns()
	if err != nil {
		return nil, false, err
	}
	add, del := cleanURLs(p.AddImages), cleanURLs(p.DeleteImages)

	var changed bool
	err = within(ctx, s.AcquireTimeout, func(ctx context.Context) error {
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			cur, err := repo.GetActiveDoor(ctx, tx, id, false)
			if err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return ErrDoorNotFound
				}
				return err
			}
			dropUnchanged(cur, cols)
			added, err := repo.AddDoorImages(ctx, tx, id, add)
			if err != nil {
				return fmt.Errorf("add images: %w", err)
			}
			removed, err := repo.DeleteDoorImages(ctx, tx, id, del)
			if err != nil {
				return fmt.Errorf("delete images: %w", err)
			}
			changed = len(cols) > 0 || len(added) > 0 || removed > 0
			if !changed {
				return nil
			}
			return repo.UpdateDoorColumns(ctx, tx, id, cols)
		})
	})
	if err != nil {
		return nil, false, err
	}
	if changed {
		s.invalidate(ctx)
	}

	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, changed, err
	}
	return d, changed, nil
}

// Delete soft-deletes an active door. Existing order items keep their
// snapshot and still join the door's name.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	err := within(ctx, s.AcquireTimeout, func(ctx context.Context) error {
		err := repo.SoftDeleteDoor(ctx, s.DB, id)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrDoorNotFound
		}
		return err
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, s.listKey()); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("catalog cache invalidate")
	}
}
