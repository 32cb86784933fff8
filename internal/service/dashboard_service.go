package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/goliter/classsight-api/internal/models"
	appErrors "github.com/goliter/classsight-api/pkg/errors"
)

const (
	cacheKeyOverview   = "dashboard:overview"
	cacheKeyDepartment = "dashboard:departments"
)

type statsRepository interface {
	Overview(ctx context.Context) (*models.DashboardOverview, error)
	DepartmentBreakdown(ctx context.Context) ([]models.DepartmentBreakdown, error)
}

type cacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// DashboardService serves aggregate statistics with a Redis read-through
// cache in front of the live queries.
type DashboardService struct {
	stats   statsRepository
	cache   cacheRepository
	ttl     time.Duration
	logger  *zap.Logger
	metrics *MetricsService
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(stats statsRepository, cache cacheRepository, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{stats: stats, cache: cache, ttl: ttl, logger: logger}
}

// WithMetrics attaches a metrics service recording cache hit/miss outcomes.
func (s *DashboardService) WithMetrics(metrics *MetricsService) *DashboardService {
	s.metrics = metrics
	return s
}

// Overview returns entity counts and status distributions.
func (s *DashboardService) Overview(ctx context.Context) (*models.DashboardOverview, error) {
	var cached models.DashboardOverview
	if err := s.cache.Get(ctx, cacheKeyOverview, &cached); err == nil {
		s.metrics.RecordCacheOperation(true)
		return &cached, nil
	} else if !appErrors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("dashboard cache read failed", zap.Error(err))
	} else {
		s.metrics.RecordCacheOperation(false)
	}

	overview, err := s.stats.Overview(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute overview")
	}
	if err := s.cache.Set(ctx, cacheKeyOverview, overview, s.ttl); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
	return overview, nil
}

// DepartmentBreakdown returns per-department population counts.
func (s *DashboardService) DepartmentBreakdown(ctx context.Context) ([]models.DepartmentBreakdown, error) {
	var cached []models.DepartmentBreakdown
	if err := s.cache.Get(ctx, cacheKeyDepartment, &cached); err == nil {
		s.metrics.RecordCacheOperation(true)
		return cached, nil
	} else if !appErrors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("dashboard cache read failed", zap.Error(err))
	} else {
		s.metrics.RecordCacheOperation(false)
	}

	breakdown, err := s.stats.DepartmentBreakdown(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute department breakdown")
	}
	if err := s.cache.Set(ctx, cacheKeyDepartment, breakdown, s.ttl); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
	return breakdown, nil
}

// Invalidate drops cached aggregates. Mutating handlers call this so the
// dashboard never serves counts older than the TTL after a write.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, cacheKeyOverview, cacheKeyDepartment); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
