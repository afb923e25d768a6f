package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"matchbook/internal/engine"
	"matchbook/internal/exchange"
)

type ExchangeHandler struct {
	Exchange  *exchange.Exchange
	StartTime time.Time
}

func NewExchangeHandler(ex *exchange.Exchange) *ExchangeHandler {
	return &ExchangeHandler{Exchange: ex, StartTime: time.Now()}
}

func (h *ExchangeHandler) ListTicker(c *fiber.Ctx) error {
	ticker := c.Params("ticker")

	var req ListTickerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request: malformed JSON"})
	}

	h.Exchange.List(ticker, req.IPOPrice, req.IPOQty)

	log.Info().Str("ticker", ticker).Float64("ipo_price", req.IPOPrice).Float64("ipo_qty", req.IPOQty).Msg("ticker listed")
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ExchangeHandler) SubmitOrder(c *fiber.Ctx) error {
	ticker := c.Params("ticker")

	var req SubmitOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Str("ip", c.IP()).Msg("invalid request: malformed JSON")
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request: malformed JSON"})
	}

	side, typ, err := parseSideType(req.Side, req.Type)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	id, err := h.Exchange.PlaceOrder(ticker, side, typ, req.Quantity, req.Price)
	if err != nil {
		return h.rejectResponse(c, err)
	}

	log.Info().Str("ticker", ticker).Uint64("order_id", uint64(id)).Str("side", req.Side).Str("type", req.Type).Msg("order submitted")
	return c.Status(fiber.StatusCreated).JSON(SubmitOrderResponse{OrderID: uint64(id), Message: "order accepted"})
}

func (h *ExchangeHandler) CancelOrder(c *fiber.Ctx) error {
	ticker := c.Params("ticker")
	id, err := parseOrderID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid order id"})
	}

	ok, err := h.Exchange.CancelOrder(ticker, id)
	if !ok {
		return h.rejectResponse(c, err)
	}

	log.Info().Str("ticker", ticker).Uint64("order_id", uint64(id)).Msg("order cancelled")
	return c.Status(fiber.StatusOK).JSON(CancelOrderResponse{OrderID: uint64(id), Status: "CANCELLED"})
}

func (h *ExchangeHandler) EditOrder(c *fiber.Ctx) error {
	ticker := c.Params("ticker")
	id, err := parseOrderID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid order id"})
	}

	var req EditOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request: malformed JSON"})
	}

	side, _, err := parseSideType(req.Side, "LIMIT")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	newID, err := h.Exchange.EditOrder(ticker, id, side, req.Quantity, req.Price)
	if newID == 0 {
		return h.rejectResponse(c, err)
	}

	log.Info().Str("ticker", ticker).Uint64("old_order_id", uint64(id)).Uint64("new_order_id", uint64(newID)).Msg("order edited")
	return c.Status(fiber.StatusOK).JSON(SubmitOrderResponse{OrderID: uint64(newID), Message: "order replaced"})
}

func (h *ExchangeHandler) GetOrderStatus(c *fiber.Ctx) error {
	ticker := c.Params("ticker")
	id, err := parseOrderID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid order id"})
	}

	order, ok := h.Exchange.GetOrder(ticker, id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "order not found"})
	}

	return c.Status(fiber.StatusOK).JSON(OrderStatusResponse{
		OrderID:        uint64(order.ID),
		Side:           string(order.Side),
		Type:           string(order.Type),
		Price:          order.WorkPrice,
		Quantity:       order.OrigQty,
		RemainingQty:   order.RemQty,
		Status:         string(order.Status),
		TimestampMilli: order.Arrival.UnixMilli(),
	})
}

func (h *ExchangeHandler) GetQuote(c *fiber.Ctx) error {
	ticker := c.Params("ticker")
	return c.Status(fiber.StatusOK).JSON(QuoteResponse{
		Ticker:  ticker,
		BestBid: h.Exchange.GetBestBid(ticker),
		BestAsk: h.Exchange.GetBestAsk(ticker),
		Price:   h.Exchange.GetPrice(ticker),
	})
}

func (h *ExchangeHandler) HealthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(HealthResponse{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.StartTime).Seconds()),
		Tickers:       len(h.Exchange.Tickers()),
	})
}

func (h *ExchangeHandler) rejectResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, engine.ErrUnknownOrder):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, engine.ErrShuttingDown):
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: err.Error()})
	case err == nil:
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "rejected"})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}
}

func parseSideType(rawSide, rawType string) (engine.Side, engine.OrderType, error) {
	var side engine.Side
	switch rawSide {
	case "BID", "BUY":
		side = engine.SideBid
	case "ASK", "SELL":
		side = engine.SideAsk
	default:
		return "", "", errors.New("side must be BID or ASK")
	}

	var typ engine.OrderType
	switch rawType {
	case "LIMIT":
		typ = engine.TypeLimit
	case "MARKET":
		typ = engine.TypeMarket
	default:
		return "", "", errors.New("type must be LIMIT or MARKET")
	}

	return side, typ, nil
}

func parseOrderID(raw string) (engine.OrderID, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return engine.OrderID(v), nil
}
