package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// Checker verifies that an infrastructure dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a ping function to Checker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

// Check is a named dependency check. A failing optional check degrades the
// report but keeps the endpoint at 200.
type Check struct {
	Name     string
	Checker  Checker
	Optional bool
}

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusError    = "error"
)

type CheckResult struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latencyMs"`
	Optional  bool   `json:"optional,omitempty"`
}

type Report struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

type Handler struct {
	checks  []Check
	timeout time.Duration
	logger  *slog.Logger
}

func NewHandler(logger *slog.Logger, checks ...Check) *Handler {
	return &Handler{checks: checks, timeout: 3 * time.Second, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.check)
	return r
}

// Run checks every dependency concurrently.
func (h *Handler) Run(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var (
		mu     sync.Mutex
		report = Report{Status: StatusOK, Checks: make(map[string]CheckResult, len(h.checks))}
	)

	var g errgroup.Group
	for _, c := range h.checks {
		g.Go(func() error {
			start := time.Now()
			err := c.Checker.Check(ctx)
			res := CheckResult{
				Status:    StatusOK,
				LatencyMS: time.Since(start).Milliseconds(),
				Optional:  c.Optional,
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				h.logger.Error("health check failed", "name", c.Name, "optional", c.Optional, "error", err)
				res.Status = StatusError
				switch {
				case !c.Optional:
					report.Status = StatusError
				case report.Status == StatusOK:
					report.Status = StatusDegraded
				}
			}
			report.Checks[c.Name] = res
			return nil
		})
	}
	_ = g.Wait()

	return report
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	report := h.Run(r.Context())

	status := http.StatusOK
	if report.Status == StatusError {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(report)
}
