package orderbookv1

import "time"

// Side represents which side of the book an order rests on.
type Side string

const (
	// SideBid represents a buy order.
	SideBid Side = "bid"
	// SideAsk represents a sell order.
	SideAsk Side = "ask"
)

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == SideBid {
		return SideAsk
	}
	return SideBid
}

// Valid reports whether the side is one of the two known sides.
func (s Side) Valid() bool {
	return s == SideBid || s == SideAsk
}

// Order represents a single order in the order book. Orders are plain values:
// the book never hands out a shared mutable order, it replaces the stored
// record instead.
type Order struct {
	ID        int64     `json:"id"`
	TraderID  string    `json:"traderID"` // opaque reference, optional
	Side      Side      `json:"side"`
	Price     int64     `json:"price"` // limit price in ticks
	Qty       int64     `json:"qty"`   // remaining quantity
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PlaceOrderRequest represents a request to place an order in the order book.
type PlaceOrderRequest struct {
	TraderID string `json:"traderID"`
	Side     Side   `json:"side"`
	Price    int64  `json:"price"`
	Qty      int64  `json:"qty"`
}

// NewOrder creates a new order with the given parameters. Timestamps are
// bound to the actual call time.
func NewOrder(traderID string, side Side, price, qty int64) Order {
	now := time.Now()
	return Order{
		TraderID:  traderID,
		Side:      side,
		Price:     price,
		Qty:       qty,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsBid checks if the order is a bid (buy) order.
func (o Order) IsBid() bool {
	return o.Side == SideBid
}

// IsAsk checks if the order is an ask (sell) order.
func (o Order) IsAsk() bool {
	return o.Side == SideAsk
}

// IsFilled checks if the order is filled (remaining quantity is zero).
func (o Order) IsFilled() bool {
	return o.Qty == 0
}

// WithQty returns a copy of the order with the remaining quantity replaced
// and the modification instant refreshed.
func (o Order) WithQty(qty int64) Order {
	o.Qty = qty
	o.UpdatedAt = time.Now()
	return o
}
