package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/HansOheneba/airban-api/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Recipient labels used in logs and metrics.
const (
	RecipientCustomer = "customer"
	RecipientAdmin    = "admin"
)

// MailSettings configures senders and the admin inbox.
type MailSettings struct {
	FromOrders   string
	FromGeneral  string
	AdminEmail   string // admin alerts are skipped when empty
	DashboardURL string
}

// Envelope is a rendered message and who it is for.
type Envelope struct {
	Recipient string
	Message   Message
}

// Composer renders the emails for an Event.
type Composer struct {
	tmpl     *template.Template
	settings MailSettings
}

// NewComposer parses the embedded templates.
func NewComposer(s MailSettings) (*Composer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.DashboardURL = strings.TrimRight(s.DashboardURL, "/")
	return &Composer{tmpl: t, settings: s}, nil
}

type itemView struct {
	Name        string
	Orientation string
	Quantity    int
	UnitPrice   string
	LineTotal   string
}

type orderView struct {
	Name         string
	Notes        string
	Total        string
	Items        []itemView
	Order        *domain.Order
	DashboardURL string
}

type enquiryField struct {
	Label string
	Value string
}

type enquiryView struct {
	Name         string
	Topic        string
	Path         string
	Header       *domain.Enquiry
	Fields       []enquiryField
	DashboardURL string
}

// Compose returns the messages for ev. Unknown kinds and events without a
// subject yield no messages.
func (c *Composer) Compose(ev Event) ([]Envelope, error) {
	switch {
	case ev.Kind == KindOrderPlaced && ev.Order != nil:
		return c.order(ev.Order)
	case ev.Kind == KindPropertyEnquiry && ev.Property != nil:
		p := ev.Property
		return c.enquiry(&p.Enquiry, "property enquiry", "property", []enquiryField{
			{"Property", p.SelectedProperty},
			{"Message", p.Message},
		})
	case ev.Kind == KindContactEnquiry && ev.Contact != nil:
		ce := ev.Contact
		return c.enquiry(&ce.Enquiry, "contact enquiry", "contact", []enquiryField{
			{"Enquiry type", ce.EnquiryType},
			{"Additional info", ce.AdditionalInfo},
		})
	case ev.Kind == KindSubscribed && ev.Subscriber != nil:
		html, err := c.render("welcome.html", ev.Subscriber)
		if err != nil {
			return nil, err
		}
		return []Envelope{{
			Recipient: RecipientCustomer,
			Message: Message{
				From:    c.settings.FromGeneral,
				To:      []string{ev.Subscriber.Email},
				Subject: "Welcome to the Airban Doors newsletter",
				HTML:    html,
			},
		}}, nil
	}
	return nil, nil
}

func (c *Composer) order(o *domain.Order) ([]Envelope, error) {
	v := orderView{
		Name:         displayName(o.CustomerName),
		Total:        o.TotalPrice.StringFixed(2),
		Order:        o,
		DashboardURL: c.settings.DashboardURL,
	}
	if o.Notes != nil {
		v.Notes = *o.Notes
	}
	for _, it := range o.Items {
		name := it.DoorName
		if name == "" {
			name = it.DoorID
		}
		v.Items = append(v.Items, itemView{
			Name:        name,
			Orientation: string(it.Orientation),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.StringFixed(2),
			LineTotal:   it.LineTotal().StringFixed(2),
		})
	}

	customer, err := c.render("order_customer.html", v)
	if err != nil {
		return nil, err
	}
	out := []Envelope{{
		Recipient: RecipientCustomer,
		Message: Message{
			From:    c.settings.FromOrders,
			To:      []string{o.Email},
			Subject: "Your Airban Doors Order Confirmation",
			HTML:    customer,
		},
	}}
	if c.settings.AdminEmail == "" {
		return out, nil
	}
	admin, err := c.render("order_admin.html", v)
	if err != nil {
		return nil, err
	}
	return append(out, Envelope{
		Recipient: RecipientAdmin,
		Message: Message{
			From:    c.settings.FromOrders,
			To:      []string{c.settings.AdminEmail},
			ReplyTo: o.Email,
			Subject: "New Order Received from " + v.Name,
			HTML:    admin,
		},
	}), nil
}

func (c *Composer) enquiry(h *domain.Enquiry, topic, path string, fields []enquiryField) ([]Envelope, error) {
	v := enquiryView{
		Name:         displayName(h.FullName()),
		Topic:        topic,
		Path:         path,
		Header:       h,
		Fields:       fields,
		DashboardURL: c.settings.DashboardURL,
	}
	customer, err := c.render("enquiry_customer.html", v)
	if err != nil {
		return nil, err
	}
	out := []Envelope{{
		Recipient: RecipientCustomer,
		Message: Message{
			From:    c.settings.FromGeneral,
			To:      []string{h.Email},
			Subject: "We received your " + topic,
			HTML:    customer,
		},
	}}
	if c.settings.AdminEmail == "" {
		return out, nil
	}
	admin, err := c.render("enquiry_admin.html", v)
	if err != nil {
		return nil, err
	}
	return append(out, Envelope{
		Recipient: RecipientAdmin,
		Message: Message{
			From:    c.settings.FromGeneral,
			To:      []string{c.settings.AdminEmail},
			ReplyTo: h.Email,
			Subject: fmt.Sprintf("New %s from %s", topic, v.Name),
			HTML:    admin,
		},
	}), nil
}

// displayName title-cases a customer name. Casers are not safe for
// concurrent use, so each call builds its own.
func displayName(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}

func (c *Composer) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := c.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
