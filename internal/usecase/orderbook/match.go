package orderbook

import (
	orderbookv1 "github.com/muhammadchandra19/limit-order-book/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/limit-order-book/pkg/errors"
)

// PriceMatch runs an incoming order against the book with price then time
// priority. The order executes against the best opposing level for as long
// as prices cross and quantity remains; whatever is left over is enqueued as
// a resting order. An order with no remaining quantity leaves the book
// untouched.
//
// An order arriving with id 0 is assigned the next free id; an order
// carrying its own id moves the counter past it.
func (b *Book) PriceMatch(order orderbookv1.Order) (*Book, error) {
	if !order.Side.Valid() || order.Qty < 0 || order.Price <= 0 {
		return nil, errors.NewTracer(errors.InvalidOrderError, "order fails admission checks")
	}
	if order.IsFilled() {
		return b, nil
	}

	book := b.clone()
	if order.ID == 0 {
		order.ID = book.nextOrderID
		book.nextOrderID++
	} else if order.ID >= book.nextOrderID {
		book.nextOrderID = order.ID + 1
	}

	live := order
	for !live.IsFilled() {
		best, ok := book.bestOpposing(live.Side)
		if !ok || !crosses(live, best) {
			return book.rest(live)
		}

		var err error
		book, live, err = book.ExecuteOrder(live, best)
		if err != nil {
			return nil, err
		}
	}
	return book, nil
}

// ExecuteOrder fills live against the order at the head of the opposing
// queue at pricePoint, honoring time priority within the level. It returns
// the advanced book and the live order with its remaining quantity reduced.
// The level must exist and its head must be active; anything else is a
// broken book.
func (b *Book) ExecuteOrder(live orderbookv1.Order, pricePoint int64) (*Book, orderbookv1.Order, error) {
	side := live.Side.Opposite()
	index := b.sideIndex(side)
	if !index.Contains(pricePoint) {
		return nil, live, errors.NewTracer(errors.PriceLevelMissingError, "no opposing level at price point")
	}

	queue := index.Get(pricePoint, orderbookv1.NewOrderQueue())
	headID, ok := queue.Peek()
	if !ok {
		return nil, live, errors.NewTracer(errors.EmptyQueueError, "indexed level holds an empty queue")
	}
	resting, ok := b.activeOrders.Get(headID)
	if !ok {
		return nil, live, errors.NewTracer(errors.OrderNotFoundError, "queued order id is not active")
	}

	if resting.Qty > live.Qty {
		// Resting order survives with reduced quantity.
		fill := live.Qty
		next, err := b.UpdateActiveOrder(headID, func(o orderbookv1.Order) orderbookv1.Order {
			return o.WithQty(o.Qty - fill)
		})
		if err != nil {
			return nil, live, err
		}
		return next.RegisterTransaction(live, resting), live.WithQty(0), nil
	}

	// Resting order fully consumed: retire it and advance the queue.
	next := b.RemoveActiveOrder(headID).AdvanceQueue(side, pricePoint)
	return next.RegisterTransaction(live, resting), live.WithQty(live.Qty - resting.Qty), nil
}

// RegisterTransaction appends the fill record for operative executing
// against resting, using the quantities both orders held going into the
// fill. The log keeps the most recent transaction first.
func (b *Book) RegisterTransaction(operative, resting orderbookv1.Order) *Book {
	tx := orderbookv1.NewTransaction(b.nextTransactionID, operative, resting)

	c := b.clone()
	c.transactions = b.transactions.Prepend(tx)
	c.nextTransactionID++
	c.volumeTraded += tx.Qty
	return c
}

// CancelOrder removes a resting order from the book without a fill. The
// order leaves both the active order table and its price level queue; a
// level that runs empty disappears from the index.
func (b *Book) CancelOrder(id int64) (*Book, error) {
	order, ok := b.activeOrders.Get(id)
	if !ok {
		return nil, errors.NewTracer(errors.OrderNotFoundError, "order id is not active")
	}

	next := b.RemoveActiveOrder(id)

	index := next.sideIndex(order.Side)
	trimmed := index.Get(order.Price, orderbookv1.NewOrderQueue()).Delete(id)

	c := next.clone()
	if trimmed.IsEmpty() {
		c.setSideIndex(order.Side, index.Delete(order.Price))
	} else {
		c.setSideIndex(order.Side, index.Put(order.Price, trimmed))
	}
	return c, nil
}

// rest admits live as a resting order: into the active table first, then
// onto its level's queue.
func (b *Book) rest(live orderbookv1.Order) (*Book, error) {
	return b.InsertActiveOrder(live).EnqueueActiveOrder(live)
}

func (b *Book) bestOpposing(side orderbookv1.Side) (int64, bool) {
	if side == orderbookv1.SideBid {
		price, _, ok := b.asks.First()
		return price, ok
	}
	price, _, ok := b.bids.Last()
	return price, ok
}

// crosses reports whether an order is willing to trade at the best opposing
// price.
func crosses(order orderbookv1.Order, bestOpposing int64) bool {
	if order.IsBid() {
		return bestOpposing <= order.Price
	}
	return bestOpposing >= order.Price
}
