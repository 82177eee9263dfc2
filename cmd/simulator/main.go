// Command simulator drives the matching engine with a synthetic order flow
// and reports the resulting book. Prices are generated in decimal terms and
// converted to integer ticks before they reach the engine.
package main

import (
	"context"
	"math/rand"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	app "github.com/muhammadchandra19/limit-order-book/internal/app/engine"
	orderbookv1 "github.com/muhammadchandra19/limit-order-book/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/limit-order-book/pkg/config"
	"github.com/muhammadchandra19/limit-order-book/pkg/logger"
	"github.com/muhammadchandra19/limit-order-book/pkg/util"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	config.MustLoad(cfg)

	l, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.LogLevel)))
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	defer log.Sync() //nolint:errcheck

	ctx := util.WithRequestID(context.Background(), "")
	engine := app.NewEngine(log, cfg)

	tick := decimal.RequireFromString(cfg.Sim.TickSize)
	midTicks := decimal.RequireFromString(cfg.Sim.MidPrice).Div(tick).IntPart()
	bandTicks := decimal.RequireFromString(cfg.Sim.PriceBand).Div(tick).IntPart()

	rng := rand.New(rand.NewSource(cfg.Sim.Seed))
	traders := make([]string, cfg.Sim.Traders)
	for i := range traders {
		traders[i] = ulid.Make().String()
	}

	log.Info("Simulator started", logger.Field{
		Key:   "pair",
		Value: cfg.Pair,
	}, logger.Field{
		Key:   "orders",
		Value: cfg.Sim.Orders,
	}, logger.Field{
		Key:   "mid_ticks",
		Value: midTicks,
	})

	var rested []int64
	var rejected int
	for i := 0; i < cfg.Sim.Orders; i++ {
		side := orderbookv1.SideBid
		if rng.Intn(2) == 0 {
			side = orderbookv1.SideAsk
		}

		order, err := engine.Submit(ctx, orderbookv1.PlaceOrderRequest{
			TraderID: traders[rng.Intn(len(traders))],
			Side:     side,
			Price:    midTicks + rng.Int63n(2*bandTicks+1) - bandTicks,
			Qty:      1 + rng.Int63n(cfg.Sim.MaxQty),
		})
		if err != nil {
			rejected++
			continue
		}
		if order.Qty > 0 {
			rested = append(rested, order.ID)
		}

		// A slice of the resting flow gets pulled again, as real flow would.
		if len(rested) > 0 && rng.Intn(20) == 0 {
			idx := rng.Intn(len(rested))
			if err := engine.Cancel(ctx, rested[idx]); err == nil {
				rested = append(rested[:idx], rested[idx+1:]...)
			}
		}
	}

	book := engine.Book()
	summary := []logger.Field{
		{Key: "pair", Value: cfg.Pair},
		{Key: "active_orders", Value: book.ActiveOrderCount()},
		{Key: "bid_levels", Value: book.BidLevelCount()},
		{Key: "ask_levels", Value: book.AskLevelCount()},
		{Key: "bid_index_height", Value: book.BidIndexHeight()},
		{Key: "ask_index_height", Value: book.AskIndexHeight()},
		{Key: "fills", Value: engine.TotalFills()},
		{Key: "volume_traded", Value: book.VolumeTraded()},
		{Key: "volume_pending", Value: book.VolumePending()},
		{Key: "rejected", Value: rejected},
	}
	if bid, ok := book.BestBid(); ok {
		summary = append(summary, logger.Field{
			Key:   "best_bid",
			Value: decimal.NewFromInt(bid.Price).Mul(tick).String(),
		})
	}
	if ask, ok := book.BestAsk(); ok {
		summary = append(summary, logger.Field{
			Key:   "best_ask",
			Value: decimal.NewFromInt(ask.Price).Mul(tick).String(),
		})
	}
	log.InfoContext(ctx, "Simulation complete", summary...)
}
