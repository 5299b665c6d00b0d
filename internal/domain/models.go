// Package domain defines the persistence models for the door catalog, orders,
// customer enquiries, and newsletter subscribers. These types are mapped with
// GORM and shared by the repository, service, and HTTP layers.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DoorType enumerates the door variants the catalog sells.
type DoorType string

const (
	DoorSingle     DoorType = "Single"
	DoorSingleWide DoorType = "Single Wide"
	DoorOneAndHalf DoorType = "One and Half"
	DoorDouble     DoorType = "Double"
)

// DoorTypes lists every valid DoorType in display order.
var DoorTypes = []DoorType{DoorSingle, DoorSingleWide, DoorOneAndHalf, DoorDouble}

// Valid reports whether t is one of DoorTypes. Matching is exact.
func (t DoorType) Valid() bool {
	for _, v := range DoorTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Orientation is the hinge side of a door variant or an ordered door.
type Orientation string

const (
	OrientationLeft  Orientation = "left"
	OrientationRight Orientation = "right"
)

// ParseOrientation validates s. An empty string yields OrientationLeft.
func ParseOrientation(s string) (Orientation, bool) {
	switch Orientation(s) {
	case "":
		return OrientationLeft, true
	case OrientationLeft, OrientationRight:
		return Orientation(s), true
	}
	return "", false
}

// Door is a catalog item. Doors are never physically removed: IsDeleted hides
// them from the catalog while historical order items keep referencing them.
type Door struct {
	ID          string          `json:"id"          gorm:"type:char(36);primaryKey"`
	Name        string          `json:"name"        gorm:"type:varchar(255);not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Price       decimal.Decimal `json:"price"       gorm:"type:decimal(10,2);not null"`
	Type        DoorType        `json:"type"        gorm:"type:varchar(32);not null"`
	Stock       int             `json:"stock"       gorm:"not null;default:0"`
	ImageURL    string          `json:"image_url"   gorm:"type:varchar(512);not null"`
	IsDeleted   bool            `json:"-"           gorm:"not null;default:false;index:idx_doors_active,priority:1"`
	CreatedAt   time.Time       `json:"created_at"  gorm:"index:idx_doors_active,priority:2"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Images are the door's sub-images, removed with the door row.
	Images []DoorImage `json:"-" gorm:"foreignKey:DoorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	// Variants are the colour/orientation stock lines of the door.
	Variants []DoorVariant `json:"-" gorm:"foreignKey:DoorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Door.
func (Door) TableName() string { return "doors" }

// DoorImage is an additional picture attached to a Door.
type DoorImage struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	DoorID    string    `json:"door_id"   gorm:"type:char(36);not null;index"`
	ImageURL  string    `json:"image_url" gorm:"type:varchar(512);not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for DoorImage.
func (DoorImage) TableName() string { return "door_images" }

// DoorVariant is a colour and hinge-side combination of a Door with its own
// stock count.
type DoorVariant struct {
	ID          string      `json:"-"           gorm:"type:char(36);primaryKey"`
	DoorID      string      `json:"-"           gorm:"type:char(36);not null;index"`
	Color       string      `json:"color"       gorm:"type:varchar(50);not null"`
	Orientation Orientation `json:"orientation" gorm:"type:varchar(8);not null;default:left"`
	Stock       int         `json:"stock"       gorm:"not null;default:0"`
}

// TableName returns the database table name for DoorVariant.
func (DoorVariant) TableName() string { return "door_variants" }

// Order is a customer's submitted cart.
//
// TotalPrice is fixed at creation to the sum of its items' UnitPrice ×
// Quantity and is never recomputed from current catalog prices.
type Order struct {
	ID           string          `json:"id"            gorm:"type:char(36);primaryKey"`
	CustomerName string          `json:"customer_name" gorm:"type:varchar(255);not null"`
	PhoneNumber  string          `json:"phone_number"  gorm:"type:varchar(64);not null"`
	Email        string          `json:"email"         gorm:"type:varchar(255);not null"`
	Location     string          `json:"location"      gorm:"type:text;not null"`
	Notes        *string         `json:"notes"         gorm:"type:text"`
	TotalPrice   decimal.Decimal `json:"total_price"   gorm:"type:decimal(12,2);not null"`
	IsConfirmed  bool            `json:"is_confirmed"  gorm:"not null;default:false"`
	IsDeleted    bool            `json:"-"             gorm:"not null;default:false;index:idx_orders_active,priority:1"`
	CreatedAt    time.Time       `json:"created_at"    gorm:"index:idx_orders_active,priority:2"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Order.
func (Order) TableName() string { return "orders" }

// OrderItem is one line of an Order.
//
// UnitPrice and DoorType are snapshots of the door at order time. DoorID is a
// plain reference (no foreign key) because the door may later be soft-deleted.
// DoorName is filled by a join when reading and is never stored.
type OrderItem struct {
	ID          string          `json:"id"          gorm:"type:char(36);primaryKey"`
	OrderID     string          `json:"order_id"    gorm:"type:char(36);not null;index:idx_order_items_order,priority:1"`
	Position    int             `json:"-"           gorm:"not null;default:0;index:idx_order_items_order,priority:2"`
	DoorID      string          `json:"door_id"     gorm:"type:char(36);not null;index"`
	DoorName    string          `json:"door_name"   gorm:"->;-:migration"`
	Quantity    int             `json:"quantity"    gorm:"not null"`
	UnitPrice   decimal.Decimal `json:"unit_price"  gorm:"type:decimal(10,2);not null"`
	Orientation Orientation     `json:"orientation" gorm:"type:varchar(8);not null;default:'left'"`
	DoorType    DoorType        `json:"door_type"   gorm:"type:varchar(32);not null"`
}

// TableName returns the database table name for OrderItem.
func (OrderItem) TableName() string { return "order_items" }

// LineTotal returns UnitPrice × Quantity.
func (it OrderItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Resolved flag values for enquiries.
const (
	ResolvedYes = "yes"
	ResolvedNo  = "no"
)

// Enquiry holds the columns shared by property and contact enquiries.
// It is embedded in both variants, which live in separate tables.
type Enquiry struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	FirstName   string    `json:"first_name"   gorm:"type:varchar(255);not null"`
	LastName    string    `json:"last_name"    gorm:"type:varchar(255);not null"`
	Email       string    `json:"email"        gorm:"type:varchar(255);not null"`
	Phone       string    `json:"phone"        gorm:"type:varchar(64);not null"`
	Resolved    string    `json:"resolved"     gorm:"type:varchar(3);not null;default:'no'"`
	SubmittedAt time.Time `json:"submitted_at" gorm:"not null;index"`
}

// Header returns the shared enquiry columns.
func (e *Enquiry) Header() *Enquiry { return e }

// FullName joins first and last name.
func (e *Enquiry) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// PropertyEnquiry is an enquiry about a specific listed property.
type PropertyEnquiry struct {
	Enquiry
	SelectedProperty string `json:"selected_property" gorm:"type:varchar(255);not null"`
	Message          string `json:"message"           gorm:"type:text"`
}

// TableName returns the database table name for PropertyEnquiry.
func (PropertyEnquiry) TableName() string { return "property_enquiries" }

// ContactEnquiry is a general contact-form enquiry.
type ContactEnquiry struct {
	Enquiry
	EnquiryType    string `json:"enquiry_type"    gorm:"type:varchar(100);not null"`
	AdditionalInfo string `json:"additional_info" gorm:"type:text"`
}

// TableName returns the database table name for ContactEnquiry.
func (ContactEnquiry) TableName() string { return "contact_enquiries" }

// EnquiryRecord is implemented by *PropertyEnquiry and *ContactEnquiry.
type EnquiryRecord interface {
	TableName() string
	Header() *Enquiry
}

// Subscriber is a newsletter recipient. Email is unique; rows are immutable.
type Subscriber struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Email     string    `json:"email"      gorm:"type:varchar(255);not null;uniqueIndex:ux_subscribers_email"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Subscriber.
func (Subscriber) TableName() string { return "subscribers" }
