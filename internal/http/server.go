package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"ledgerly/internal/insight"
	"ledgerly/internal/ledger"
	"ledgerly/internal/log"
	"ledgerly/internal/middleware/ratelimit"
	"ledgerly/internal/middleware/security"
	"ledgerly/internal/middleware/trace"
	"ledgerly/internal/services"
)

// Deps are the collaborators the API serves from. Insights may be nil, in
// which case the insight endpoint answers 503.
type Deps struct {
	Repo         *ledger.Repository
	Transactions *services.TransactionService
	Dashboard    *services.DashboardService
	Insights     *insight.Service
	Logger       *log.Logger

	// ClientIP defaults to a resolver trusting loopback and private ranges.
	ClientIP *security.ClientIPResolver
	// InsightLimit bounds insight requests per client.
	InsightLimit ratelimit.Config
}

type Server struct {
	http.Server
	repo         *ledger.Repository
	transactions *services.TransactionService
	dashboard    *services.DashboardService
	insights     *insight.Service
	logger       *log.Logger

	clientIP       *security.ClientIPResolver
	tracer         *trace.Middleware
	insightLimiter *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. The insight rate limiter's cleanup starts immediately and
// stops in Shutdown.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.Discard()
	}
	clientIP := deps.ClientIP
	if clientIP == nil {
		clientIP, _ = security.NewClientIPResolver()
	}

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		repo:           deps.Repo,
		transactions:   deps.Transactions,
		dashboard:      deps.Dashboard,
		insights:       deps.Insights,
		logger:         logger.WithComponent(log.ComponentHTTP),
		clientIP:       clientIP,
		tracer:         trace.NewMiddleware(),
		insightLimiter: ratelimit.NewLimiter(deps.InsightLimit),
	}
	s.insightLimiter.Start()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /api/categories", s.handleCategories)

	mux.HandleFunc("POST /api/import", s.handleImport)
	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("GET /api/report", s.handleReport)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	limit := s.insightLimiter.Middleware(s.clientIP.ClientIP, s.handleRateLimited)
	mux.Handle("POST /api/insights", limit(http.HandlerFunc(s.handleInsights)))

	mux.HandleFunc("GET /api/pending/edit", s.handleGetPendingEdit)
	mux.HandleFunc("PUT /api/pending/edit", s.handleSetPendingEdit)
	mux.HandleFunc("DELETE /api/pending/edit", s.handleClearPendingEdit)
	mux.HandleFunc("POST /api/pending/edit/new", s.handleNewDraft)
	mux.HandleFunc("GET /api/pending/deletion", s.handleGetPendingDeletion)
	mux.HandleFunc("PUT /api/pending/deletion", s.handleSetPendingDeletion)
	mux.HandleFunc("DELETE /api/pending/deletion", s.handleClearPendingDeletion)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	requestLog := log.Middleware(logger, trace.FromRequest, s.clientIP.ClientIP)
	s.Handler = s.tracer.Middleware(requestLog(headers.Middleware(mux)))

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.insightLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
		m := s.tracer.GetMetrics()
		s.logger.WithComponent(log.ComponentTrace).Info("Request totals",
			log.FieldOperation, log.OpShutdown,
			"total_requests", m.TotalRequests,
			"in_flight", m.InFlight)
	})
	return shutdownErr
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.clientIP.ClientIP(r),
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded. Please try again later.").Write(w)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ready"))
}
