package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/structuredfi/notechain/api/handlers"
	"github.com/structuredfi/notechain/api/middleware"
	"github.com/structuredfi/notechain/api/types"
	"github.com/structuredfi/notechain/api/websocket"
	"github.com/structuredfi/notechain/metrics"
)

// Server represents the gateway server
type Server struct {
	httpServer *http.Server
	wsServer   *websocket.Server
	config     *Config
	mockMode   bool

	// Services
	poolService     types.PoolService
	positionService types.PositionService

	// Handlers
	poolHandler     *handlers.PoolHandler
	positionHandler *handlers.PositionHandler

	// Rate limiter
	rateLimiter *middleware.RateLimiter
}

// Config contains server configuration
type Config struct {
	Host             string
	Port             int
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	MockMode         bool
	DisableRateLimit bool // For testing purposes

	// Interval between pool snapshot refreshes pushed to WebSocket subscribers
	SnapshotInterval time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Host:             "0.0.0.0",
		Port:             8080,
		ReadTimeout:      30 * time.Second,
		WriteTimeout:     30 * time.Second,
		SnapshotInterval: 2 * time.Second,
	}
}

// NewServer creates a gateway server backed by the mock service
func NewServer(config *Config) *Server {
	mockService := NewMockService()
	return NewServerWithServices(config, mockService, mockService)
}

// NewServerWithServices creates a gateway server with custom services
func NewServerWithServices(config *Config, poolSvc types.PoolService, positionSvc types.PositionService) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if config.SnapshotInterval == 0 {
		config.SnapshotInterval = 2 * time.Second
	}

	wsConfig := websocket.DefaultServerConfig()
	wsConfig.Port = config.Port

	s := &Server{
		config:          config,
		wsServer:        websocket.NewServer(wsConfig),
		mockMode:        config.MockMode,
		poolService:     poolSvc,
		positionService: positionSvc,
		rateLimiter:     middleware.NewRateLimiter(middleware.DefaultRateLimitConfig()),
	}

	s.poolHandler = handlers.NewPoolHandler(s.poolService)
	s.positionHandler = handlers.NewPositionHandler(s.positionService)

	return s
}

// Start starts the gateway server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// Health check (support both /health and /v1/health for compatibility)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/health", s.handleHealth)

	// Pool endpoints (read-only)
	mux.HandleFunc("/v1/pools", s.poolHandler.HandlePools)
	mux.HandleFunc("/v1/pools/", s.poolHandler.HandlePool)

	// Position endpoints (read-only)
	mux.HandleFunc("/v1/positions", s.positionHandler.HandlePositions)
	mux.HandleFunc("/v1/positions/", s.positionHandler.HandlePosition)

	// Registry roles
	mux.HandleFunc("/v1/roles", s.poolHandler.HandleRoles)

	// Prometheus metrics
	mux.Handle("/metrics", metrics.Handler())

	// WebSocket
	mux.HandleFunc("/ws", s.wsServer.HandleWebSocket)

	// Apply middleware chain: CORS -> RateLimit -> Handler
	var handler http.Handler
	if s.config.DisableRateLimit {
		handler = corsMiddleware(instrument(mux))
	} else {
		handler = corsMiddleware(
			middleware.RateLimitMiddleware(s.rateLimiter)(instrument(mux)),
		)
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	// Start WebSocket hub
	go s.wsServer.GetHub().Run()

	// Push pool snapshots to subscribers
	go s.runSnapshotLoop()

	log.Printf("Gateway server starting on %s (mock mode: %v)", addr, s.mockMode)
	if s.config.DisableRateLimit {
		log.Printf("Rate limiting DISABLED (for testing)")
	}
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	s.rateLimiter.Stop()
	return s.httpServer.Shutdown(ctx)
}

// WSServer exposes the WebSocket server for event publication
func (s *Server) WSServer() *websocket.Server {
	return s.wsServer
}

// runSnapshotLoop periodically refreshes pool snapshots for WebSocket subscribers
func (s *Server) runSnapshotLoop() {
	ticker := time.NewTicker(s.config.SnapshotInterval)
	defer ticker.Stop()

	for range ticker.C {
		pools, err := s.poolService.ListPools("")
		if err != nil {
			continue
		}
		now := nowMillis()
		for _, pool := range pools {
			s.wsServer.BroadcastPoolStatus(&websocket.PoolStatusMessage{
				PoolID:       pool.PoolID,
				Status:       pool.Status,
				TotalShares:  pool.TotalShares,
				TotalAssets:  pool.TotalAssets,
				MaturityDate: pool.MaturityDate,
				Timestamp:    now,
			})
		}
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	mode := "keeper"
	if s.mockMode {
		mode = "mock"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","mode":%q,"timestamp":%d}`, mode, time.Now().Unix())
}

// instrument records request metrics for every handler
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := metrics.NewTimer()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.GetCollector().RecordAPIRequest(r.Method, r.URL.Path, strconv.Itoa(rec.status), timer.ElapsedMs())
	})
}

// statusRecorder captures the response status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Investor-Address")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
