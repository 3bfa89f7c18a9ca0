package domain

import (
	"time"

	"github.com/google/uuid"
)

// Ticket is one admin-defined ticket category for the live shows.
type Ticket struct {
	ID            uuid.UUID `json:"id"`
	Type          string    `json:"type"` // regular, vip, table
	Name          string    `json:"name"`
	Price         int64     `json:"price"`
	TotalQuantity int       `json:"totalQuantity"`
	SoldQuantity  int       `json:"soldQuantity"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Available returns the number of tickets still on sale.
func (t *Ticket) Available() int {
	n := t.TotalQuantity - t.SoldQuantity
	if n < 0 {
		return 0
	}
	return n
}

type PurchaseItem struct {
	TicketID   uuid.UUID `json:"ticketId"`
	TicketType string    `json:"ticketType"`
	Quantity   int       `json:"quantity"`
	UnitPrice  int64     `json:"unitPrice"`
	Subtotal   int64     `json:"subtotal"`
}

// TicketPurchase records one checkout. TicketNumbers is generated exactly
// once, when the payment is first confirmed.
type TicketPurchase struct {
	ID            uuid.UUID      `json:"id"`
	Reference     string         `json:"reference"`
	PurchaserName string         `json:"purchaserName"`
	Email         string         `json:"email"`
	PhoneNumber   string         `json:"phoneNumber,omitempty"`
	Items         []PurchaseItem `json:"items"`
	TotalAmount   int64          `json:"totalAmount"`
	PaymentStatus PaymentStatus  `json:"paymentStatus"`
	TicketNumbers []string       `json:"ticketNumbers,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// TotalQuantity is the number of individual tickets across all line items.
func (p *TicketPurchase) TotalQuantity() int {
	var n int
	for _, it := range p.Items {
		n += it.Quantity
	}
	return n
}

// ComputeTotal recalculates line subtotals and the purchase total.
func (p *TicketPurchase) ComputeTotal() {
	var total int64
	for i := range p.Items {
		p.Items[i].Subtotal = int64(p.Items[i].Quantity) * p.Items[i].UnitPrice
		total += p.Items[i].Subtotal
	}
	p.TotalAmount = total
}
