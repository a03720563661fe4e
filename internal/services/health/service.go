package health

import (
	"context"
	"database/sql"
	"time"
)

// Service encapsulates health-related checks.
type Service struct {
	db *sql.DB
}

// NewService constructs a new health service. A nil db means the app is
// running on the in-memory store.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Status returns the health payload, pinging the database when present.
func (s *Service) Status(ctx context.Context) map[string]any {
	payload := map[string]any{"ok": true, "database": "memory"}
	if s.db == nil {
		return payload
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		payload["ok"] = false
		payload["database"] = "down"
		return payload
	}
	payload["database"] = "up"
	return payload
}
