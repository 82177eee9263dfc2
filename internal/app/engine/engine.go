// Package engine hosts the order book behind a serialized submission front.
// The book itself is a persistent value, so the engine keeps a window of
// past versions around for point-in-time queries at no copying cost.
package engine

import (
	"context"
	"sync"

	orderbookv1 "github.com/muhammadchandra19/limit-order-book/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/limit-order-book/internal/usecase/orderbook"
	"github.com/muhammadchandra19/limit-order-book/pkg/config"
	"github.com/muhammadchandra19/limit-order-book/pkg/logger"
)

// Engine processes orders against a single-instrument book.
type Engine struct {
	logger logger.Interface
	config *config.Config

	mu      sync.RWMutex
	book    *orderbook.Book
	history []*orderbook.Book

	historyDepth int
	totalFills   int64
}

// NewEngine creates a new instance of Engine with the provided dependencies.
func NewEngine(log logger.Interface, cfg *config.Config) *Engine {
	opts := DefaultEngineOptions()
	if cfg.Engine.HistoryDepth > 0 {
		opts.HistoryDepth = cfg.Engine.HistoryDepth
	}
	return NewEngineWithOptions(log, cfg, opts)
}

// NewEngineWithOptions creates a new engine with custom options.
func NewEngineWithOptions(log logger.Interface, cfg *config.Config, options *Options) *Engine {
	return &Engine{
		logger:       log,
		config:       cfg,
		book:         orderbook.NewBook(),
		historyDepth: options.HistoryDepth,
	}
}

// Submit runs one order through the matching path and installs the advanced
// book. It returns the order as admitted, with its assigned id and the
// quantity still resting after matching.
func (e *Engine) Submit(ctx context.Context, req orderbookv1.PlaceOrderRequest) (orderbookv1.Order, error) {
	order := orderbookv1.NewOrder(req.TraderID, req.Side, req.Price, req.Qty)

	e.mu.Lock()
	defer e.mu.Unlock()

	assigned := e.book.NextOrderID()
	next, err := e.book.PriceMatch(order)
	if err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "pair",
			Value: e.config.Pair,
		})
		return orderbookv1.Order{}, err
	}

	if next.NextOrderID() > assigned {
		order.ID = assigned
	}
	fills := next.TransactionCount() - e.book.TransactionCount()
	e.totalFills += int64(fills)
	if next != e.book {
		e.pushHistory(e.book)
		e.book = next
	}

	if resting, ok := next.GetActiveOrder(order.ID); ok {
		order = resting
	} else {
		order = order.WithQty(0)
	}

	e.logger.InfoContext(ctx, "order processed", logger.Field{
		Key:   "pair",
		Value: e.config.Pair,
	}, logger.Field{
		Key:   "order_id",
		Value: order.ID,
	}, logger.Field{
		Key:   "fills",
		Value: fills,
	}, logger.Field{
		Key:   "resting_qty",
		Value: order.Qty,
	})
	return order, nil
}

// Cancel removes a resting order from the book.
func (e *Engine) Cancel(ctx context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := e.book.CancelOrder(id)
	if err != nil {
		e.logger.WarnContext(ctx, "cancel rejected", logger.Field{
			Key:   "order_id",
			Value: id,
		})
		return err
	}

	e.pushHistory(e.book)
	e.book = next

	e.logger.InfoContext(ctx, "order cancelled", logger.Field{
		Key:   "pair",
		Value: e.config.Pair,
	}, logger.Field{
		Key:   "order_id",
		Value: id,
	})
	return nil
}

// Book returns the current book version. The returned value is immutable
// and safe to read without further coordination.
func (e *Engine) Book() *orderbook.Book {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.book
}

// History returns the retained past book versions, oldest first. The current
// book is not included.
func (e *Engine) History() []*orderbook.Book {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]*orderbook.Book, len(e.history))
	copy(out, e.history)
	return out
}

// Depth returns up to limit aggregated levels of one side of the current
// book, best first.
func (e *Engine) Depth(side orderbookv1.Side, limit int) []orderbook.Level {
	return e.Book().Depth(side, limit)
}

// BestBid returns the highest-priced bid level of the current book.
func (e *Engine) BestBid() (orderbook.Level, bool) {
	return e.Book().BestBid()
}

// BestAsk returns the lowest-priced ask level of the current book.
func (e *Engine) BestAsk() (orderbook.Level, bool) {
	return e.Book().BestAsk()
}

// TotalFills returns the number of fills executed since start.
func (e *Engine) TotalFills() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.totalFills
}

func (e *Engine) pushHistory(b *orderbook.Book) {
	if e.historyDepth <= 0 {
		return
	}
	e.history = append(e.history, b)
	if len(e.history) > e.historyDepth {
		e.history = e.history[len(e.history)-e.historyDepth:]
	}
}
