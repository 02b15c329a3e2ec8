package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NoteChain Metrics Collector
// Provides metrics for monitoring issuance and pool activity

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all NoteChain metrics
type Collector struct {
	// Pool metrics
	PoolsCreated *prometheus.CounterVec
	PoolsByState *prometheus.GaugeVec
	PoolAssets   *prometheus.GaugeVec
	PoolShares   *prometheus.GaugeVec

	// Subscription metrics
	DepositsTotal    *prometheus.CounterVec
	DepositVolume    *prometheus.CounterVec
	WithdrawalsTotal *prometheus.CounterVec
	WithdrawalVolume *prometheus.CounterVec

	// Lifecycle metrics
	SettlementsTotal *prometheus.CounterVec
	SettlementValue  *prometheus.CounterVec
	MaturitiesTotal  *prometheus.CounterVec
	YieldPaidTotal   *prometheus.CounterVec
	ShutdownsTotal   *prometheus.CounterVec
	LifecycleLatency *prometheus.HistogramVec

	// Escrow metrics
	EscrowBalance  *prometheus.GaugeVec
	EscrowReleases *prometheus.CounterVec
	EscrowReturns  *prometheus.CounterVec

	// API metrics
	APIRequestsTotal  *prometheus.CounterVec
	APIRequestLatency *prometheus.HistogramVec
	APIErrorsTotal    *prometheus.CounterVec

	// WebSocket metrics
	WSConnectionsActive *prometheus.GaugeVec
	WSMessagesTotal     *prometheus.CounterVec

	// System metrics
	BlockHeight prometheus.Gauge
	BlockTime   *prometheus.HistogramVec
}

// GetCollector returns the singleton metrics collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
	})
	return collector
}

// newCollector creates a new metrics collector
func newCollector() *Collector {
	c := &Collector{}

	// Pool metrics
	c.PoolsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notechain",
			Subsystem: "pools",
			Name:      "created_total",
			Help:      "Total number of pools created",
		},
		[]string{"instrument_type", "denom"},
	)

	c.PoolsByState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "notechain",
			Subsystem: "pools",
			Name:      "by_state",
			Help:      "Number of pools in each lifecycle state",
		},
		[]string{"state"},
	)

	c.PoolAssets = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "notechain",
			Subsystem: "pools",
			Name:      "assets",
			Help:      "Total assets held per pool",
		},
		[]string{"pool_id", "denom"},
	)

	c.PoolShares = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "notechain",
			Subsystem: "pools",
			Name:      "shares",
			Help:      "Total shares outstanding per pool",
		},
		[]string{"pool_id"},
	)

	// Subscription metrics
	c.DepositsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notechain",
			Subsystem: "subscriptions",
			Name:      "deposits_total",
			Help:      "Total number of deposits",
		},
		[]string{"pool_id"},
	)

	c.DepositVolume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notechain",
			Subsystem: "subscriptions",
			Name:      "deposit_volume",
			Help:      "Total deposit volume in base units",
		},
		[]string{"pool_id", "denom"},
	)

	c.WithdrawalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notechain",
			Subsystem: "subscriptions",
			Name:      "withdrawals_total",
			Help:      "Total number of withdrawals",
		},
		[]string{"pool_id"},
	)

	c.WithdrawalVolume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notechain",
			Subsystem: "subscriptions",
			Name:      "withdrawal_volume",
			Help:      "Total withdrawal volume in base units",
		},
		[]string{"pool_id", "denom"},
	)

	// Lifecycle metrics
	c.SettlementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notechain",
			Subsystem: "lifecycle",
			Name:      "settlements_total",
			Help:      "Total number of settlements to issuers",
		},
		[]string{"instrument_type"},
	)

	c.SettlementValue = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notechain",
			Subsystem: "lifecycle",
			Name:      "settlement_value",
			Help:      "Total principal released to issuers",
		},
		[]string{"denom"},
	)

	c.MaturitiesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notechain",
			Subsystem: "lifecycle",
			Name:      "maturities_total",
			Help:      "Total number of processed maturities",
		},
		[]string{"instrument_type"},
	)

	c.YieldPaidTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notechain",
			Subsystem: "lifecycle",
			Name:      "yield_paid_total",
			Help:      "Total yield paid over principal at maturity",
		},
		[]string{"denom"},
	)

	c.ShutdownsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notechain",
			Subsystem: "lifecycle",
			Name:      "shutdowns_total",
			Help:      "Total number of emergency shutdowns",
		},
		[]string{"instrument_type"},
	)

	c.LifecycleLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "notechain",
			Subsystem: "lifecycle",
			Name:      "latency_ms",
			Help:      "Latency of lifecycle operations in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"operation"},
	)

	// Escrow metrics
	c.EscrowBalance = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "notechain",
			Subsystem: "escrow",
			Name:      "balance",
			Help:      "Escrowed principal per pool",
		},
		[]string{"pool_id", "denom"},
	)

	c.EscrowReleases = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notechain",
			Subsystem: "escrow",
			Name:      "releases_total",
			Help:      "Total escrow releases to issuers",
		},
		[]string{"denom"},
	)

	c.EscrowReturns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notechain",
			Subsystem: "escrow",
			Name:      "returns_total",
			Help:      "Total emergency escrow returns",
		},
		[]string{"denom"},
	)

	// API metrics
	c.APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notechain",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total API requests",
		},
		[]string{"method", "path", "status"},
	)

	c.APIRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "notechain",
			Subsystem: "api",
			Name:      "request_latency_ms",
			Help:      "API request latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"method", "path"},
	)

	c.APIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notechain",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Total API errors",
		},
		[]string{"method", "path", "code"},
	)

	// WebSocket metrics
	c.WSConnectionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "notechain",
			Subsystem: "websocket",
			Name:      "connections_active",
			Help:      "Number of active WebSocket connections",
		},
		[]string{},
	)

	c.WSMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notechain",
			Subsystem: "websocket",
			Name:      "messages_total",
			Help:      "Total WebSocket messages sent",
		},
		[]string{"channel"},
	)

	// System metrics
	c.BlockHeight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "notechain",
			Subsystem: "system",
			Name:      "block_height",
			Help:      "Current block height",
		},
	)

	c.BlockTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "notechain",
			Subsystem: "system",
			Name:      "block_time_ms",
			Help:      "Block time in milliseconds",
			Buckets:   []float64{500, 1000, 2000, 3000, 5000, 10000},
		},
		[]string{},
	)

	c.register()
	return c
}

// register registers all metrics with the default registry
func (c *Collector) register() {
	prometheus.MustRegister(c.PoolsCreated)
	prometheus.MustRegister(c.PoolsByState)
	prometheus.MustRegister(c.PoolAssets)
	prometheus.MustRegister(c.PoolShares)

	prometheus.MustRegister(c.DepositsTotal)
	prometheus.MustRegister(c.DepositVolume)
	prometheus.MustRegister(c.WithdrawalsTotal)
	prometheus.MustRegister(c.WithdrawalVolume)

	prometheus.MustRegister(c.SettlementsTotal)
	prometheus.MustRegister(c.SettlementValue)
	prometheus.MustRegister(c.MaturitiesTotal)
	prometheus.MustRegister(c.YieldPaidTotal)
	prometheus.MustRegister(c.ShutdownsTotal)
	prometheus.MustRegister(c.LifecycleLatency)

	prometheus.MustRegister(c.EscrowBalance)
	prometheus.MustRegister(c.EscrowReleases)
	prometheus.MustRegister(c.EscrowReturns)

	prometheus.MustRegister(c.APIRequestsTotal)
	prometheus.MustRegister(c.APIRequestLatency)
	prometheus.MustRegister(c.APIErrorsTotal)

	prometheus.MustRegister(c.WSConnectionsActive)
	prometheus.MustRegister(c.WSMessagesTotal)

	prometheus.MustRegister(c.BlockHeight)
	prometheus.MustRegister(c.BlockTime)
}

// ============ Recording Helpers ============

// RecordPoolCreated records a pool creation
func (c *Collector) RecordPoolCreated(instrumentType, denom string) {
	c.PoolsCreated.WithLabelValues(instrumentType, denom).Inc()
}

// RecordDeposit records a subscription deposit
func (c *Collector) RecordDeposit(poolID, denom string, amount float64) {
	c.DepositsTotal.WithLabelValues(poolID).Inc()
	c.DepositVolume.WithLabelValues(poolID, denom).Add(amount)
}

// RecordWithdrawal records a share redemption
func (c *Collector) RecordWithdrawal(poolID, denom string, amount float64) {
	c.WithdrawalsTotal.WithLabelValues(poolID).Inc()
	c.WithdrawalVolume.WithLabelValues(poolID, denom).Add(amount)
}

// RecordSettlement records a settlement to an issuer
func (c *Collector) RecordSettlement(instrumentType, denom string, principal float64) {
	c.SettlementsTotal.WithLabelValues(instrumentType).Inc()
	c.SettlementValue.WithLabelValues(denom).Add(principal)
	c.EscrowReleases.WithLabelValues(denom).Inc()
}

// RecordMaturity records a processed maturity and the yield over principal
func (c *Collector) RecordMaturity(instrumentType, denom string, yield float64) {
	c.MaturitiesTotal.WithLabelValues(instrumentType).Inc()
	if yield > 0 {
		c.YieldPaidTotal.WithLabelValues(denom).Add(yield)
	}
}

// RecordShutdown records an emergency shutdown
func (c *Collector) RecordShutdown(instrumentType string) {
	c.ShutdownsTotal.WithLabelValues(instrumentType).Inc()
}

// RecordLifecycleLatency records the latency of a lifecycle operation
func (c *Collector) RecordLifecycleLatency(operation string, latencyMs float64) {
	c.LifecycleLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordEscrowBalance records the escrowed principal for a pool
func (c *Collector) RecordEscrowBalance(poolID, denom string, balance float64) {
	c.EscrowBalance.WithLabelValues(poolID, denom).Set(balance)
}

// RecordAPIRequest records an API request
func (c *Collector) RecordAPIRequest(method, path, status string, latencyMs float64) {
	c.APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.APIRequestLatency.WithLabelValues(method, path).Observe(latencyMs)
}

// RecordWSConnection records WebSocket connection changes
func (c *Collector) RecordWSConnection(delta int) {
	c.WSConnectionsActive.WithLabelValues().Add(float64(delta))
}

// RecordWSMessage records a WebSocket message
func (c *Collector) RecordWSMessage(channel string) {
	c.WSMessagesTotal.WithLabelValues(channel).Inc()
}

// UpdateBlockHeight updates the chain height gauge
func (c *Collector) UpdateBlockHeight(height int64) {
	c.BlockHeight.Set(float64(height))
}

// ============ HTTP Handler ============

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for measuring latency
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed time in milliseconds
func (t *Timer) ElapsedMs() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
