package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/omran-academy/academy-api/internal/models"
	appErrors "github.com/omran-academy/academy-api/pkg/errors"
)

const dashboardStatsKey = "dashboard:stats"

type courseCounter interface {
	Count(ctx context.Context) (int, error)
}

type enrollmentCounter interface {
	CountByStatus(ctx context.Context) (*models.EnrollmentCounts, error)
}

type statsCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type cacheMetrics interface {
	CacheHit()
	CacheMiss()
}

// DashboardService assembles the back-office overview snapshot with a short
// cache in front of the counting queries.
type DashboardService struct {
	courses     courseCounter
	enrollments enrollmentCounter
	cache       statsCache
	metrics     cacheMetrics
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewDashboardService constructs DashboardService. cache and metrics may be nil.
func NewDashboardService(courses courseCounter, enrollments enrollmentCounter, cache statsCache, metrics cacheMetrics, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DashboardService{courses: courses, enrollments: enrollments, cache: cache, metrics: metrics, cacheTTL: cacheTTL, logger: logger}
}

// Stats returns counters for courses and enrollments by status. Cache
// failures degrade to direct queries.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	if s.cache != nil {
		var cached models.DashboardStats
		hit, err := s.cache.GetJSON(ctx, dashboardStatsKey, &cached)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		} else if hit {
			s.recordCacheHit()
			return &cached, nil
		}
		s.recordCacheMiss()
	}

	courseTotal, err := s.courses.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count courses")
	}
	counts, err := s.enrollments.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}

	stats := &models.DashboardStats{
		Courses:     courseTotal,
		Enrollments: *counts,
		GeneratedAt: time.Now().UTC(),
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, dashboardStatsKey, stats, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

// Invalidate drops the cached snapshot so the next read recomputes it.
// Called after catalog or enrollment mutations; failures only log.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, dashboardStatsKey); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

func (s *DashboardService) recordCacheHit() {
	if s.metrics != nil {
		s.metrics.CacheHit()
	}
}

func (s *DashboardService) recordCacheMiss() {
	if s.metrics != nil {
		s.metrics.CacheMiss()
	}
}
