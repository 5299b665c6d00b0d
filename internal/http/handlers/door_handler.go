// Door catalog HTTP handlers.
//
// This file exposes REST endpoints for the catalog:
//   - GET    /doors        (list active doors, summary view)
//   - GET    /doors/{id}   (door detail with sub-images and variants)
//   - POST   /doors        (create)
//   - PATCH  /doors/{id}   (partial update, sub-image add/delete)
//   - DELETE /doors/{id}   (soft delete)
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/HansOheneba/airban-api/internal/domain"
	"github.com/HansOheneba/airban-api/internal/services"
)

// CatalogService defines the door operations consumed by HTTP handlers.
type CatalogService interface {
	ListActive(ctx context.Context) ([]domain.Door, error)
	Get(ctx context.Context, id string) (*domain.Door, error)
	Create(ctx context.Context, in services.NewDoor) (*domain.Door, error)
	Update(ctx context.Context, id string, p services.DoorPatch) (*domain.Door, bool, error)
	Delete(ctx context.Context, id string) error
}

// catalogStats is implemented by catalogs that can fingerprint the active
// list cheaply.
type catalogStats interface {
	Stats(ctx context.Context) (int64, *time.Time, error)
}

//
// DTOs
//

// DoorSummary is the list view of a door.
type DoorSummary struct {
	ID       string          `json:"id"        example:"3f1c2d9e-8b7a-4c21-9d55-0e4f6a7b8c9d"`
	Name     string          `json:"name"      example:"Classic Oak"`
	Price    decimal.Decimal `json:"price"     swaggertype:"string" example:"125.50"`
	Type     domain.DoorType `json:"type"      swaggertype:"string" example:"Single"`
	ImageURL string          `json:"image_url" example:"https://i.ibb.co/abc/oak.jpg"`
}

// DoorDetail is a door with the URLs of its sub-images and its
// colour/orientation variants.
type DoorDetail struct {
	domain.Door
	SubImages []string             `json:"sub_images"`
	Variants  []domain.DoorVariant `json:"variants"`
}

// VariantRequest describes one colour/orientation stock line of a door.
type VariantRequest struct {
	Color       string `json:"color"       example:"Walnut"`
	Orientation string `json:"orientation" example:"left" enums:"left,right"`
	Stock       int    `json:"stock"       example:"2"`
}

// CreateDoorRequest is the JSON payload for creating a door. Price accepts a
// JSON number or a decimal string.
type CreateDoorRequest struct {
	Name        string           `json:"name"        example:"Classic Oak"`
	Description string           `json:"description" example:"Solid oak panel door"`
	Price       *decimal.Decimal `json:"price"       swaggertype:"string" example:"125.50"`
	Type        string           `json:"type"        example:"Single"`
	Stock       *int             `json:"stock"       example:"4"`
	ImageURL    string           `json:"image_url"   example:"https://i.ibb.co/abc/oak.jpg"`
	SubImages   []string         `json:"sub_images"`
	Variants    []VariantRequest `json:"variants"`
}

// CreateDoorResponse acknowledges a created door.
type CreateDoorResponse struct {
	Message string `json:"message" example:"Door created successfully"`
	DoorID  string `json:"door_id" example:"3f1c2d9e-8b7a-4c21-9d55-0e4f6a7b8c9d"`
}

// UpdateDoorRequest is a partial update. Omitted fields are left unchanged.
type UpdateDoorRequest struct {
	Name                *string              `json:"name"`
	Description         *string              `json:"description"`
	Price               *decimal.Decimal     `json:"price" swaggertype:"string"`
	Type                *string              `json:"type"`
	Stock               *int                 `json:"stock"`
	ImageURL            *string              `json:"image_url"`
	SubImagesOperations *SubImagesOperations `json:"sub_images_operations"`
}

// SubImagesOperations adds and removes sub-images by URL.
type SubImagesOperations struct {
	Add    []string `json:"add"`
	Delete []string `json:"delete"`
}

// UpdateDoorResponse returns the door after a successful update.
type UpdateDoorResponse struct {
	Message string     `json:"message" example:"Door updated successfully"`
	Door    DoorDetail `json:"door"`
}

func toDetail(d *domain.Door) DoorDetail {
	urls := make([]string, 0, len(d.Images))
	for _, img := range d.Images {
		urls = append(urls, img.ImageURL)
	}
	variants := d.Variants
	if variants == nil {
		variants = []domain.DoorVariant{}
	}
	return DoorDetail{Door: *d, SubImages: urls, Variants: variants}
}

//
// Handlers
//

// ListDoors godoc
// @ID          listDoors
// @Summary     List doors
// @Description Returns every door in the catalog, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Doors
// @Produce     json
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Success     200  {array}   handlers.DoorSummary
// @Header      200  {string}  ETag  "Weak ETag for the current catalog"
// @Success     304  "Not modified"
// @Failure     503  {object}  handlers.ErrorResponse  "Database busy"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /doors [get]
func (h *Handlers) ListDoors(c *gin.Context) {
	ctx := c.Request.Context()

	// ETag pre-check (best effort).
	if st, isStats := h.catalog.(catalogStats); isStats {
		if count, latest, err := st.Stats(ctx); err == nil {
			var ts int64
			if latest != nil {
				ts = latest.UnixNano()
			}
			etag := fmt.Sprintf(`W/"doors:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	doors, err := h.catalog.ListActive(ctx)
	if err != nil {
		failService(c, err)
		return
	}
	out := make([]DoorSummary, 0, len(doors))
	for _, d := range doors {
		out = append(out, DoorSummary{ID: d.ID, Name: d.Name, Price: d.Price, Type: d.Type, ImageURL: d.ImageURL})
	}
	ok(c, http.StatusOK, out)
}

// GetDoor godoc
// @ID          getDoor
// @Summary     Get a door
// @Tags        Doors
// @Produce     json
// @Param       id   path      string  true  "Door ID"
// @Success     200  {object}  handlers.DoorDetail
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /doors/{id} [get]
func (h *Handlers) GetDoor(c *gin.Context) {
	d, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, toDetail(d))
}

// CreateDoor godoc
// @ID          createDoor
// @Summary     Create a door
// @Description Adds a door with its sub-images and variants to the catalog.
// @Tags        Doors
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.CreateDoorRequest  true  "Door payload"
// @Success     201   {object}  handlers.CreateDoorResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Validation error"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /doors [post]
func (h *Handlers) CreateDoor(c *gin.Context) {
	var req CreateDoorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	variants := make([]services.NewVariant, 0, len(req.Variants))
	for _, v := range req.Variants {
		variants = append(variants, services.NewVariant{Color: v.Color, Orientation: v.Orientation, Stock: v.Stock})
	}
	d, err := h.catalog.Create(c.Request.Context(), services.NewDoor{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Type:        req.Type,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		SubImages:   req.SubImages,
		Variants:    variants,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, CreateDoorResponse{Message: "Door created successfully", DoorID: d.ID})
}

// UpdateDoor godoc
// @ID          updateDoor
// @Summary     Update a door
// @Description Applies a partial update. sub_images_operations.add and .delete edit sub-images by URL.
// @Tags        Doors
// @Accept      json
// @Produce     json
// @Param       id    path      string                      true  "Door ID"
// @Param       body  body      handlers.UpdateDoorRequest  true  "Fields to change"
// @Success     200   {object}  handlers.UpdateDoorResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Validation error or no changes"
// @Failure     404   {object}  handlers.ErrorResponse  "Not found"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /doors/{id} [patch]
func (h *Handlers) UpdateDoor(c *gin.Context) {
	var req UpdateDoorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	patch := services.DoorPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Type:        req.Type,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}
	if ops := req.SubImagesOperations; ops != nil {
		patch.AddImages = ops.Add
		patch.DeleteImages = ops.Delete
	}
	if patch.Empty() {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "no data provided for update")
		return
	}

	d, changed, err := h.catalog.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		failService(c, err)
		return
	}
	if !changed {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "no changes were made")
		return
	}
	ok(c, http.StatusOK, UpdateDoorResponse{Message: "Door updated successfully", Door: toDetail(d)})
}

// DeleteDoor godoc
// @ID          deleteDoor
// @Summary     Delete a door
// @Description Hides the door from the catalog. Past orders keep referencing it.
// @Tags        Doors
// @Produce     json
// @Param       id   path      string  true  "Door ID"
// @Success     200  {object}  handlers.MessageResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /doors/{id} [delete]
func (h *Handlers) DeleteDoor(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: "Door deleted successfully"})
}
