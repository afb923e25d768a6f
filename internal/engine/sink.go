package engine

import "github.com/rs/zerolog"

// LogSink is the default EventSink: a textual event printer backed by
// zerolog, the way spec.md names as one acceptable sink implementation.
// Mirrors the teacher's logging style (src/logger) but takes an injected
// logger instead of reaching for a package global — the core's ambient
// stack carries no global mutable state.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Handle(e Event) {
	evt := s.log.Info().
		Str("kind", string(e.Kind)).
		Uint64("order_id", uint64(e.OrderID)).
		Str("side", string(e.Side)).
		Str("type", string(e.Type)).
		Float64("qty", e.Qty).
		Float64("price", e.Price).
		Time("timestamp", e.Timestamp)
	if e.TradeID != "" {
		evt = evt.Str("trade_id", e.TradeID)
	}
	if e.Reason != "" {
		evt = evt.Str("reason", e.Reason)
	}
	evt.Msg("order event")
}
