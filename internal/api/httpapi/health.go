package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dtroode/memoria-server/internal/logger"
)

// Pinger checks a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Health reports whether the database answers.
type Health struct {
	db      Pinger
	timeout time.Duration
	logger  *logger.Logger
	now     func() time.Time
}

// NewHealth creates a new Health handler.
func NewHealth(db Pinger, logger *logger.Logger) *Health {
	return &Health{
		db:      db,
		timeout: 2 * time.Second,
		logger:  logger,
		now:     time.Now,
	}
}

func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Timestamp: h.now().UTC().Format(time.RFC3339)}
	status := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("Health handler: database ping failed",
			"error", err.Error())
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}
