// Package metrics Prometheus 指標（HTTP 與帳本操作）
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

var (
	// HTTPRequestsTotal 請求次數
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftee_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration 響應耗時
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "giftee_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "path"},
	)

	ledgerOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftee_ledger_operations_total",
			Help: "Ledger use case executions by operation and result code",
		},
		[]string{"operation", "result"},
	)

	pointsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftee_points_total",
			Help: "Absolute points moved, by history type",
		},
		[]string{"type"},
	)

	cardAmountTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftee_card_amount_total",
			Help: "Gift card amount moved in major currency units, by transaction type",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(ledgerOperationsTotal)
	prometheus.MustRegister(pointsTotal)
	prometheus.MustRegister(cardAmountTotal)
}

// ObserveOperation 記錄一次 Use Case 執行結果
//
// result 為 "ok"、DomainError 的 Code，或 "internal"。
func ObserveOperation(operation string, err error) {
	ledgerOperationsTotal.WithLabelValues(operation, resultLabel(err)).Inc()
}

// AddPoints 累計積分變動量（取絕對值）
func AddPoints(historyType string, points int) {
	if points < 0 {
		points = -points
	}
	if points == 0 {
		return
	}
	pointsTotal.WithLabelValues(historyType).Add(float64(points))
}

// AddCardAmount 累計卡片金額變動
func AddCardAmount(txType string, amount shared.Money) {
	f, _ := amount.Decimal().Float64()
	if f <= 0 {
		return
	}
	cardAmountTotal.WithLabelValues(txType).Add(f)
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return string(domainErr.Code)
	}
	return "internal"
}
