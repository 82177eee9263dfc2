package orderbookv1

import "time"

// TransactionType tags which of the two orders of a fill was fully consumed.
// The operative (incoming) side is named first.
type TransactionType string

const (
	// TransactionBidFullAskFull - operative bid and resting ask both consumed exactly.
	TransactionBidFullAskFull TransactionType = "bid_full_ask_full"
	// TransactionBidFullAskPartial - operative bid consumed, resting ask reduced.
	TransactionBidFullAskPartial TransactionType = "bid_full_ask_partial"
	// TransactionBidPartialAskFull - resting ask consumed, operative bid still live.
	TransactionBidPartialAskFull TransactionType = "bid_partial_ask_full"
	// TransactionAskFullBidFull - operative ask and resting bid both consumed exactly.
	TransactionAskFullBidFull TransactionType = "ask_full_bid_full"
	// TransactionAskFullBidPartial - operative ask consumed, resting bid reduced.
	TransactionAskFullBidPartial TransactionType = "ask_full_bid_partial"
	// TransactionAskPartialBidFull - resting bid consumed, operative ask still live.
	TransactionAskPartialBidFull TransactionType = "ask_partial_bid_full"
)

// Transaction records one fill between an operative order and a resting
// order. It is created once and never mutated afterwards.
type Transaction struct {
	ID             int64           `json:"id"`
	Type           TransactionType `json:"type"`
	Bid            Order           `json:"bid"` // bid-side snapshot at fill time
	Ask            Order           `json:"ask"` // ask-side snapshot at fill time
	Price          int64           `json:"price"`
	Qty            int64           `json:"qty"`
	AcknowledgedAt time.Time       `json:"acknowledgedAt"`
}

// NewTransaction builds the fill record for operative executing against
// resting. Quantities are taken at the moment of the call; the execution
// price is always the resting order's limit price.
func NewTransaction(id int64, operative, resting Order) Transaction {
	bid, ask := operative, resting
	if operative.IsAsk() {
		bid, ask = resting, operative
	}

	return Transaction{
		ID:             id,
		Type:           classifyFill(operative, resting),
		Bid:            bid,
		Ask:            ask,
		Price:          resting.Price,
		Qty:            min(operative.Qty, resting.Qty),
		AcknowledgedAt: time.Now(),
	}
}

func classifyFill(operative, resting Order) TransactionType {
	if operative.IsBid() {
		switch {
		case operative.Qty == resting.Qty:
			return TransactionBidFullAskFull
		case operative.Qty < resting.Qty:
			return TransactionBidFullAskPartial
		default:
			return TransactionBidPartialAskFull
		}
	}

	switch {
	case operative.Qty == resting.Qty:
		return TransactionAskFullBidFull
	case operative.Qty < resting.Qty:
		return TransactionAskFullBidPartial
	default:
		return TransactionAskPartialBidFull
	}
}
