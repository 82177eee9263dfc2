// Package orderbook implements a value-oriented limit order book for a single
// instrument. A Book is never mutated in place: every operation returns a new
// Book that shares unmodified structure with its parent, so callers can hold
// on to any number of past book states at once.
package orderbook

import (
	"github.com/benbjohnson/immutable"

	orderbookv1 "github.com/muhammadchandra19/limit-order-book/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/limit-order-book/pkg/avltree"
	"github.com/muhammadchandra19/limit-order-book/pkg/errors"
)

// Book is the full state of the order book. The two price indexes keep one
// FIFO queue of order ids per occupied price level; full order records live
// in the active order table. An id is in the table exactly when it is in the
// queue of its side and price.
type Book struct {
	asks *avltree.Tree[int64, orderbookv1.OrderQueue]
	bids *avltree.Tree[int64, orderbookv1.OrderQueue]

	activeOrders *immutable.Map[int64, orderbookv1.Order]
	transactions *immutable.List[orderbookv1.Transaction]

	nextOrderID       int64
	nextTransactionID int64
	volumeTraded      int64
	volumePending     int64
}

// Level is an aggregated view of one occupied price level.
type Level struct {
	Price  int64   `json:"price"`
	Qty    int64   `json:"qty"`
	Orders []int64 `json:"orders"` // ids in time priority
}

// NewBook creates an empty book. Order and transaction ids start at 1.
func NewBook() *Book {
	return &Book{
		asks:              avltree.New[int64, orderbookv1.OrderQueue](avltree.Ascending[int64]()),
		bids:              avltree.New[int64, orderbookv1.OrderQueue](avltree.Ascending[int64]()),
		activeOrders:      immutable.NewMap[int64, orderbookv1.Order](nil),
		transactions:      immutable.NewList[orderbookv1.Transaction](),
		nextOrderID:       1,
		nextTransactionID: 1,
	}
}

// clone makes a shallow copy. All compound fields are persistent structures,
// so sharing them between the copies is safe.
func (b *Book) clone() *Book {
	c := *b
	return &c
}

func (b *Book) sideIndex(side orderbookv1.Side) *avltree.Tree[int64, orderbookv1.OrderQueue] {
	if side == orderbookv1.SideBid {
		return b.bids
	}
	return b.asks
}

func (b *Book) setSideIndex(side orderbookv1.Side, tree *avltree.Tree[int64, orderbookv1.OrderQueue]) {
	if side == orderbookv1.SideBid {
		b.bids = tree
	} else {
		b.asks = tree
	}
}

// InsertActiveOrder returns a book with the order recorded in the active
// order table, overwriting any record under the same id.
func (b *Book) InsertActiveOrder(order orderbookv1.Order) *Book {
	c := b.clone()
	c.activeOrders = b.activeOrders.Set(order.ID, order)
	return c
}

// RemoveActiveOrder returns a book with the order dropped from the active
// order table. Its remaining quantity leaves the pending volume. No-op when
// the id is not active.
func (b *Book) RemoveActiveOrder(id int64) *Book {
	order, ok := b.activeOrders.Get(id)
	if !ok {
		return b
	}

	c := b.clone()
	c.activeOrders = b.activeOrders.Delete(id)
	c.volumePending -= order.Qty
	return c
}

// UpdateActiveOrder returns a book with the stored order record replaced by
// update(current). Pending volume tracks the quantity delta.
func (b *Book) UpdateActiveOrder(id int64, update func(orderbookv1.Order) orderbookv1.Order) (*Book, error) {
	order, ok := b.activeOrders.Get(id)
	if !ok {
		return nil, errors.NewTracer(errors.OrderNotFoundError, "order id is not active")
	}

	updated := update(order)
	c := b.clone()
	c.activeOrders = b.activeOrders.Set(id, updated)
	c.volumePending += updated.Qty - order.Qty
	return c, nil
}

// EnqueueActiveOrder returns a book with the order's id appended to the FIFO
// queue at its price level, creating the level when it does not exist yet.
// The order must already be in the active order table.
func (b *Book) EnqueueActiveOrder(order orderbookv1.Order) (*Book, error) {
	stored, ok := b.activeOrders.Get(order.ID)
	if !ok {
		return nil, errors.NewTracer(errors.OrderNotFoundError, "enqueue requires an active order")
	}

	index := b.sideIndex(order.Side)
	queue := index.Get(order.Price, orderbookv1.NewOrderQueue())

	c := b.clone()
	c.setSideIndex(order.Side, index.Put(order.Price, queue.Push(order.ID)))
	c.volumePending += stored.Qty
	return c, nil
}

// AdvanceQueue returns a book with the head id removed from the queue at the
// given price level. A level whose queue is empty after the removal (or was
// already empty) is deleted from its index outright, so an indexed price
// always holds at least one order and best-price lookups stay correct.
func (b *Book) AdvanceQueue(side orderbookv1.Side, price int64) *Book {
	index := b.sideIndex(side)
	advanced := index.Get(price, orderbookv1.NewOrderQueue()).Advance()

	c := b.clone()
	if advanced.IsEmpty() {
		c.setSideIndex(side, index.Delete(price))
	} else {
		c.setSideIndex(side, index.Put(price, advanced))
	}
	return c
}

// GetActiveOrder returns the stored record for an active order id.
func (b *Book) GetActiveOrder(id int64) (orderbookv1.Order, bool) {
	return b.activeOrders.Get(id)
}

// GetOrderQueue returns the FIFO queue at a price level.
func (b *Book) GetOrderQueue(side orderbookv1.Side, price int64) (orderbookv1.OrderQueue, bool) {
	queue := b.sideIndex(side).Get(price, orderbookv1.NewOrderQueue())
	if queue.IsEmpty() {
		return orderbookv1.OrderQueue{}, false
	}
	return queue, true
}

// BestBid returns the highest-priced bid level.
func (b *Book) BestBid() (Level, bool) {
	price, queue, ok := b.bids.Last()
	if !ok {
		return Level{}, false
	}
	return b.level(price, queue), true
}

// BestAsk returns the lowest-priced ask level.
func (b *Book) BestAsk() (Level, bool) {
	price, queue, ok := b.asks.First()
	if !ok {
		return Level{}, false
	}
	return b.level(price, queue), true
}

// Depth returns up to limit aggregated levels of one side, best first. A
// limit <= 0 returns every level.
func (b *Book) Depth(side orderbookv1.Side, limit int) []Level {
	index := b.sideIndex(side)
	levels := make([]Level, 0, index.Len())
	for price, queue := range index.All() {
		levels = append(levels, b.level(price, queue))
	}

	// Bids are indexed ascending; best bid is the highest price.
	if side == orderbookv1.SideBid {
		for i, j := 0, len(levels)-1; i < j; i, j = i+1, j-1 {
			levels[i], levels[j] = levels[j], levels[i]
		}
	}
	if limit > 0 && len(levels) > limit {
		levels = levels[:limit]
	}
	return levels
}

func (b *Book) level(price int64, queue orderbookv1.OrderQueue) Level {
	ids := queue.IDs()
	var qty int64
	for _, id := range ids {
		if order, ok := b.activeOrders.Get(id); ok {
			qty += order.Qty
		}
	}
	return Level{Price: price, Qty: qty, Orders: ids}
}

// Transactions returns the fill log, most recent first.
func (b *Book) Transactions() []orderbookv1.Transaction {
	out := make([]orderbookv1.Transaction, 0, b.transactions.Len())
	itr := b.transactions.Iterator()
	for !itr.Done() {
		_, tx := itr.Next()
		out = append(out, tx)
	}
	return out
}

// NextOrderID returns the id the next incoming order without one will get.
func (b *Book) NextOrderID() int64 {
	return b.nextOrderID
}

// ActiveOrderCount returns the number of resting orders.
func (b *Book) ActiveOrderCount() int {
	return b.activeOrders.Len()
}

// TransactionCount returns the number of recorded fills.
func (b *Book) TransactionCount() int {
	return b.transactions.Len()
}

// AskLevelCount returns the number of occupied ask price levels.
func (b *Book) AskLevelCount() int {
	return b.asks.Len()
}

// BidLevelCount returns the number of occupied bid price levels.
func (b *Book) BidLevelCount() int {
	return b.bids.Len()
}

// AskIndexHeight returns the height of the ask price index.
func (b *Book) AskIndexHeight() int {
	return b.asks.Height()
}

// BidIndexHeight returns the height of the bid price index.
func (b *Book) BidIndexHeight() int {
	return b.bids.Height()
}

// VolumeTraded returns the cumulative filled quantity.
func (b *Book) VolumeTraded() int64 {
	return b.volumeTraded
}

// VolumePending returns the total resting quantity across both sides.
func (b *Book) VolumePending() int64 {
	return b.volumePending
}
