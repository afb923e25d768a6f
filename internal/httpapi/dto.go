// Package httpapi is the HTTP front end over the exchange multiplexer,
// adapted from the teacher's src/handlers + src/models to address a
// per-ticker engine.MatchingCore through exchange.Exchange instead of a
// single global matcher.
package httpapi

type SubmitOrderRequest struct {
	Side     string  `json:"side"`
	Type     string  `json:"type"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

type SubmitOrderResponse struct {
	OrderID uint64 `json:"order_id"`
	Message string `json:"message,omitempty"`
}

type CancelOrderResponse struct {
	OrderID uint64 `json:"order_id"`
	Status  string `json:"status"`
}

type EditOrderRequest struct {
	Side     string  `json:"side"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type QuoteResponse struct {
	Ticker  string  `json:"ticker"`
	BestBid float64 `json:"best_bid"`
	BestAsk float64 `json:"best_ask"`
	Price   float64 `json:"price"`
}

type OrderStatusResponse struct {
	OrderID        uint64  `json:"order_id"`
	Side           string  `json:"side"`
	Type           string  `json:"type"`
	Price          float64 `json:"price"`
	Quantity       float64 `json:"quantity"`
	RemainingQty   float64 `json:"remaining_quantity"`
	Status         string  `json:"status"`
	TimestampMilli int64   `json:"timestamp_ms"`
}

type ListTickerRequest struct {
	IPOPrice float64 `json:"ipo_price"`
	IPOQty   float64 `json:"ipo_qty"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Tickers       int    `json:"tickers"`
}
