package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/hrms-suite/ledger-api/pkg/errors"
)

// CacheRepository abstracts persistence for cached report payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ReportCacheKey identifies one cached person-month summary.
type ReportCacheKey struct {
	PersonID string
	Year     int
	Month    int
}

// String renders the Redis key for this person-month.
func (k ReportCacheKey) String() string {
	return fmt.Sprintf("reports:%s:%d-%02d", k.PersonID, k.Year, k.Month)
}

func personReportsPattern(personID string) string {
	return fmt.Sprintf("reports:%s:*", personID)
}

const allReportsPattern = "reports:*"

// ReportCache caches monthly report summaries. Writes to the attendance or
// leave ledgers invalidate one person's months; calendar changes invalidate
// every cached month.
type ReportCache struct {
	repo    CacheRepository
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	enabled bool
}

// NewReportCache constructs the cache. A nil repository or enabled=false
// turns every operation into a no-op.
func NewReportCache(repo CacheRepository, metrics *MetricsService, ttl time.Duration, logger *zap.Logger, enabled bool) *ReportCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ReportCache{repo: repo, metrics: metrics, ttl: ttl, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *ReportCache) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// GetMonthly attempts to load one person-month. It returns true on a hit.
func (s *ReportCache) GetMonthly(ctx context.Context, key ReportCacheKey, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key.String(), dest)
	duration := time.Since(start)
	if err != nil {
		s.metrics.RecordCacheOperation(false, duration)
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		if s.logger != nil {
			s.logger.Warn("report cache get failed", zap.String("key", key.String()), zap.Error(err))
		}
		return false, err
	}
	s.metrics.RecordCacheOperation(true, duration)
	return true, nil
}

// SetMonthly stores one person-month summary under the cache TTL.
func (s *ReportCache) SetMonthly(ctx context.Context, key ReportCacheKey, value interface{}) error {
	if !s.Enabled() {
		return nil
	}
	start := time.Now()
	err := s.repo.Set(ctx, key.String(), value, s.ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil && s.logger != nil {
		s.logger.Warn("report cache set failed", zap.String("key", key.String()), zap.Error(err))
	}
	return err
}

// InvalidatePerson drops every cached month for one person.
func (s *ReportCache) InvalidatePerson(ctx context.Context, personID string) error {
	return s.invalidate(ctx, personReportsPattern(personID))
}

// InvalidateAll drops every cached month. Used when the calendar itself
// changes, since that shifts every person's working-day counts.
func (s *ReportCache) InvalidateAll(ctx context.Context) error {
	return s.invalidate(ctx, allReportsPattern)
}

func (s *ReportCache) invalidate(ctx context.Context, pattern string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		if s.logger != nil {
			s.logger.Warn("report cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		}
		return err
	}
	return nil
}
