package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of due dates.
const DateLayout = "2006-01-02"

const (
	DefaultClientType = "RI"
	DefaultTaxName    = "IVA"
	DefaultAssignee   = "Sin Asignar"
)

// Date is a calendar day in YYYY-MM-DD form.
//
// Dates are bucketed by string equality and compared as local midnight; no
// time-zone normalization is applied.
type Date string

func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	// FastAPI may serialize a date as a full timestamp; keep the day part.
	if len(s) > len(DateLayout) && s[len(DateLayout)] == 'T' {
		s = s[:len(DateLayout)]
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return Date(s), nil
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

func (d Date) String() string { return string(d) }

func (d Date) IsZero() bool { return d == "" }

// In returns local midnight of d in loc, or the zero time when d is invalid.
func (d Date) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, string(d), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Localized renders d the way es-AR locale does: d/m/yyyy.
func (d Date) Localized() string {
	t := d.In(time.UTC)
	if t.IsZero() {
		return string(d)
	}
	return t.Format("2/1/2006")
}

// Short renders d as d/m.
func (d Date) Short() string {
	t := d.In(time.UTC)
	if t.IsZero() {
		return string(d)
	}
	return t.Format("2/1")
}

// DayMonth renders d as dd/mm.
func (d Date) DayMonth() string {
	t := d.In(time.UTC)
	if t.IsZero() {
		return string(d)
	}
	return t.Format("02/01")
}

// ID is an opaque record identifier. The backend sends integers; strings are
// accepted too.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s", string(b))
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

type Status string

const (
	StatusPending   Status = "Pending"
	StatusPresented Status = "Presented"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusPresented
}

// Badge is the single status label shown for an obligation.
type Badge int

const (
	BadgePending Badge = iota
	BadgeLate
	BadgePresented
)

func (b Badge) String() string {
	switch b {
	case BadgePresented:
		return "Presented"
	case BadgeLate:
		return "Late"
	default:
		return "Pending"
	}
}

// Obligation is a tax filing requirement for a client, as served by the
// dashboard endpoint.
type Obligation struct {
	ID         ID     `json:"id"`
	ClientName string `json:"client_name"`
	CUIT       string `json:"cuit"`
	ClientType string `json:"client_type,omitempty"`
	TaxName    string `json:"tax_name,omitempty"`
	DueDate    Date   `json:"due_date"`
	Period     string `json:"period"`
	Status     Status `json:"status"`
	Assignee   string `json:"assignee,omitempty"`
	DaysLeft   *int   `json:"days_left,omitempty"`
}

// IsLate reports whether o is Pending and its due day (local midnight) is
// strictly before now.
func (o Obligation) IsLate(now time.Time) bool {
	if o.Status != StatusPending {
		return false
	}
	due := o.DueDate.In(now.Location())
	if due.IsZero() {
		return false
	}
	return due.Before(now)
}

func (o Obligation) Badge(now time.Time) Badge {
	switch {
	case o.Status == StatusPresented:
		return BadgePresented
	case o.IsLate(now):
		return BadgeLate
	default:
		return BadgePending
	}
}

func (o Obligation) Presented() bool { return o.Status == StatusPresented }

// AssigneeLabel is the assignee for display; blank reads as DefaultAssignee.
func (o Obligation) AssigneeLabel() string {
	if a := strings.TrimSpace(o.Assignee); a != "" {
		return a
	}
	return DefaultAssignee
}

func (o Obligation) Unassigned() bool { return o.AssigneeLabel() == DefaultAssignee }

// Normalize applies display defaults to optional fields.
func (o *Obligation) Normalize() {
	o.ID = ID(strings.TrimSpace(string(o.ID)))
	o.ClientName = strings.TrimSpace(o.ClientName)
	o.CUIT = strings.TrimSpace(o.CUIT)
	if strings.TrimSpace(o.ClientType) == "" {
		o.ClientType = DefaultClientType
	}
	if strings.TrimSpace(o.TaxName) == "" {
		o.TaxName = DefaultTaxName
	}
	if strings.TrimSpace(o.Assignee) == "" {
		o.Assignee = DefaultAssignee
	}
	if d, err := ParseDate(string(o.DueDate)); err == nil {
		o.DueDate = d
	}
}

func (o Obligation) Validate() error {
	if o.ID == "" {
		return errors.New("obligation: missing id")
	}
	if _, err := ParseDate(string(o.DueDate)); err != nil {
		return fmt.Errorf("obligation %s: %w", o.ID, err)
	}
	if !o.Status.Valid() {
		return fmt.Errorf("obligation %s: unknown status %q", o.ID, o.Status)
	}
	return nil
}

// Client is a studio client as listed by the clients endpoint.
type Client struct {
	ID         ID     `json:"id,omitempty"`
	Name       string `json:"name"`
	CUIT       string `json:"cuit"`
	ClientType string `json:"client_type,omitempty"`
	Taxes      string `json:"taxes,omitempty"`
}

func (c *Client) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.CUIT = strings.TrimSpace(c.CUIT)
}

func (c Client) Validate() error {
	if c.CUIT == "" {
		return fmt.Errorf("client %q: missing cuit", c.Name)
	}
	return nil
}
