package engine

import (
	"context"
	"testing"

	orderbookv1 "github.com/muhammadchandra19/limit-order-book/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/limit-order-book/pkg/config"
	"github.com/muhammadchandra19/limit-order-book/pkg/logger"
)

func setupBenchmarkEngine(b *testing.B) *Engine {
	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.ErrorLevel))
	if err != nil {
		b.Fatal(err)
	}

	cfg := &config.Config{
		Pair:   "BTC/USD",
		Engine: config.EngineConfig{HistoryDepth: 16},
	}
	return NewEngine(log, cfg)
}

func benchmarkRequest(i int) orderbookv1.PlaceOrderRequest {
	side := orderbookv1.SideBid
	price := int64(50000 - i%100)
	if i%2 == 0 {
		side = orderbookv1.SideAsk
		price = int64(50001 + i%100)
	}
	return orderbookv1.PlaceOrderRequest{
		TraderID: "bench",
		Side:     side,
		Price:    price,
		Qty:      10,
	}
}

func BenchmarkEngine_SubmitRestingOrders(b *testing.B) {
	e := setupBenchmarkEngine(b)
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = e.Submit(ctx, benchmarkRequest(i))
	}
}

func BenchmarkEngine_SubmitCrossingOrders(b *testing.B) {
	e := setupBenchmarkEngine(b)
	ctx := context.Background()

	// Liquidity for the crossing flow to trade against.
	for i := 0; i < 1000; i++ {
		_, _ = e.Submit(ctx, orderbookv1.PlaceOrderRequest{
			TraderID: "seller",
			Side:     orderbookv1.SideAsk,
			Price:    int64(50000 + i),
			Qty:      1000,
		})
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = e.Submit(ctx, orderbookv1.PlaceOrderRequest{
			TraderID: "buyer",
			Side:     orderbookv1.SideBid,
			Price:    51000,
			Qty:      5,
		})
	}
}

func BenchmarkEngine_DepthQueries(b *testing.B) {
	e := setupBenchmarkEngine(b)
	ctx := context.Background()

	for i := 0; i < 500; i++ {
		_, _ = e.Submit(ctx, benchmarkRequest(i))
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = e.Depth(orderbookv1.SideBid, 10)
		_ = e.Depth(orderbookv1.SideAsk, 10)
	}
}
