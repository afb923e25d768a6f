package main

import (
	"os"
	"strconv"
	"strings"

	"matchbook/internal/exchange"
	"matchbook/internal/logger"
	"matchbook/internal/simulate"
)

// main is the Go port of original_source/tmp.cpp's main(): build an
// exchange, fan a Monte Carlo flow out across several tickers
// concurrently, join, and print stats.
func main() {
	logger.InitLogger()
	log := logger.Component("simulate")

	tickers := splitOrDefault(os.Getenv("SIM_TICKERS"), []string{"AAPL", "TSLA", "AMZN", "NVDA"})
	numOrders := envInt("SIM_ORDERS_PER_TICKER", 10000)
	ipoPrice := envFloat("SIM_IPO_PRICE", 100.0)
	ipoQty := envFloat("SIM_IPO_QTY", 10000)
	volatility := envFloat("SIM_VOLATILITY", 0.5)
	skew := envFloat("SIM_SKEW", 0.5)
	cancelProbability := envFloat("SIM_CANCEL_PROBABILITY", 0.05)

	ex := exchange.New(log, nil)

	params := make([]simulate.Params, 0, len(tickers))
	for _, t := range tickers {
		params = append(params, simulate.Params{
			Ticker:            t,
			NumOrders:         numOrders,
			IPOPrice:          ipoPrice,
			IPOQty:            ipoQty,
			Volatility:        volatility,
			Skew:              skew,
			CancelProbability: cancelProbability,
		})
	}

	log.Info().Int("tickers", len(params)).Int("orders_per_ticker", numOrders).Msg("starting simulation")

	results := simulate.RunMany(ex, params)

	for _, s := range results {
		simulate.LogStats(log, s)
	}

	ex.Shutdown()
	logger.CloseLogger()
}

func splitOrDefault(raw string, def []string) []string {
	if raw == "" {
		return def
	}
	return strings.Split(raw, ",")
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}
