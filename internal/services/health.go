package services

import (
	"context"
	"time"

	"github.com/vidtube/vidtube/internal/errs"
)

// Pinger is anything whose liveness can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	db Pinger
}

func NewHealthService(db Pinger) *HealthService {
	return &HealthService{db: db}
}

type HealthStatus struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

func (s *HealthService) Check(ctx context.Context) (*HealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.db.Ping(ctx); err != nil {
		return nil, errs.Internal(err, "Database is unreachable")
	}
	return &HealthStatus{Status: "OK", Time: time.Now()}, nil
}
