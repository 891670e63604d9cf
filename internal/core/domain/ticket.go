package domain

import (
	"errors"
	"time"
)

// Category routes a ticket to exactly one fulfillment queue.
type Category string

const (
	CategoryBuffet    Category = "buffet"
	CategoryITSupport Category = "it_support"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c == CategoryBuffet || c == CategoryITSupport
}

// TicketStatus is the lifecycle state of a ticket. Done is terminal.
type TicketStatus string

const (
	StatusNew  TicketStatus = "new"
	StatusDone TicketStatus = "done"
)

var ErrTicketNotFound = errors.New("ticket not found")
var ErrInvalidCategory = errors.New("invalid ticket category")
var ErrInvalidRequester = errors.New("requester identity is missing")
var ErrItemUnavailable = errors.New("item is not on the available menu")
var ErrStoreUnavailable = errors.New("durable store unavailable")

// Ticket is a single service request. RequesterName and RequesterLocation
// are snapshots captured at creation; later profile edits never touch
// historical tickets.
type Ticket struct {
	ID                string       `json:"id" bson:"_id,omitempty"`
	RequesterName     string       `json:"requester_name" bson:"requester_name"`
	RequesterLocation string       `json:"requester_location" bson:"requester_location"`
	Category          Category     `json:"category" bson:"category"`
	Item              string       `json:"item" bson:"item"`
	Details           string       `json:"details,omitempty" bson:"details,omitempty"`
	Status            TicketStatus `json:"status" bson:"status"`
	CreatedAt         time.Time    `json:"created_at" bson:"created_at"`
	// DateKey and MonthKey are computed once at write time so historical
	// reports stay stable even if clock or timezone handling changes later.
	DateKey  string `json:"date_key" bson:"date_key"`
	MonthKey string `json:"month_key" bson:"month_key"`
}

// DateKeyFor formats t as the per-day report key.
func DateKeyFor(t time.Time) string {
	return t.Format("2006-01-02")
}

// MonthKeyFor formats t as the per-month report key.
func MonthKeyFor(t time.Time) string {
	return t.Format("2006-01")
}
