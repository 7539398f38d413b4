package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/obidov404/ZetShopUZ/internal/metrics"
	"github.com/obidov404/ZetShopUZ/internal/probe"
	"github.com/obidov404/ZetShopUZ/internal/supervisor"
)

// IdentityProber is the outbound bot identity check used by the health
// endpoints. The health server always makes its own call rather than asking
// the child process.
type IdentityProber interface {
	CheckIdentity(ctx context.Context) (probe.BotIdentity, error)
}

// Router provides the health HTTP surface.
// Endpoints:
//
//	GET /health   machine-readable liveness payload (503 when degraded)
//	GET /         HTML status page
//	GET /status   same page
//	GET /metrics  Prometheus exposition
//
// All other paths return 404.
type Router struct {
	prober   IdentityProber
	snapshot func() supervisor.Snapshot
	stats    func() probe.SystemStats
	timeout  time.Duration
}

// NewRouter wires the health surface to a prober and a supervisor snapshot
// accessor.
func NewRouter(p IdentityProber, snapshot func() supervisor.Snapshot) *Router {
	return &Router{
		prober:   p,
		snapshot: snapshot,
		stats:    probe.CollectSystemStats,
		timeout:  30 * time.Second,
	}
}

// Handler returns an http.Handler powered by gin that can be mounted in any
// server/mux.
func (r *Router) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	g := gin.New()
	g.Use(gin.Recovery())
	g.GET("/health", r.handleHealth)
	g.GET("/", r.handleStatusPage)
	g.GET("/status", r.handleStatusPage)
	g.GET("/metrics", gin.WrapH(metrics.Handler()))
	return g
}

// NewServer starts a standalone HTTP server on addr using this router. The
// caller shuts it down via http.Server's Shutdown or Close. A failed bind
// leaves the daemon without a health surface, so it is logged loudly.
func NewServer(addr string, r *Router, log *slog.Logger) *http.Server {
	server := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health server failed", "addr", addr, "error", err)
		}
	}()
	return server
}

type botStatus struct {
	Status   string `json:"status"`
	BotID    int64  `json:"bot_id,omitempty"`
	Username string `json:"bot_username,omitempty"`
	Error    string `json:"error,omitempty"`
}

type systemStatus struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskPercent   float64 `json:"disk_percent"`
	Error         string  `json:"error,omitempty"`
}

type processStatus struct {
	Status       string `json:"status"`
	RestartCount int    `json:"restart_count"`
}

type healthResponse struct {
	Status    string        `json:"status"`
	Bot       botStatus     `json:"bot"`
	System    systemStatus  `json:"system"`
	Process   processStatus `json:"process"`
	Timestamp time.Time     `json:"timestamp"`
}

// probeAll gathers the full health picture. It never fails: degraded parts
// carry error markers instead.
func (r *Router) probeAll(ctx context.Context) (healthResponse, bool) {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	bot := botStatus{Status: "online"}
	identity, err := r.prober.CheckIdentity(cctx)
	if err != nil {
		bot = botStatus{Status: "offline", Error: err.Error()}
		metrics.IncHealthProbe("failure")
	} else {
		bot.BotID = identity.ID
		bot.Username = identity.Username
		metrics.IncHealthProbe("success")
	}

	st := r.stats()
	snap := r.snapshot()

	proc := processStatus{Status: string(snap.State), RestartCount: snap.RestartCount}
	healthy := err == nil && snap.ChildRunning

	status := "degraded"
	if healthy {
		status = "healthy"
	}
	return healthResponse{
		Status: status,
		Bot:    bot,
		System: systemStatus{
			CPUPercent:    st.CPUPercent,
			MemoryPercent: st.MemoryPercent,
			DiskPercent:   st.DiskPercent,
			Error:         st.Err,
		},
		Process:   proc,
		Timestamp: time.Now(),
	}, healthy
}

func (r *Router) handleHealth(c *gin.Context) {
	resp, healthy := r.probeAll(c.Request.Context())
	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}
