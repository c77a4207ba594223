package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrms-suite/ledger-api/internal/models"
)

func TestReportCacheKeyString(t *testing.T) {
	key := ReportCacheKey{PersonID: "emp-1", Year: 2026, Month: 6}
	assert.Equal(t, "reports:emp-1:2026-06", key.String())

	padded := ReportCacheKey{PersonID: "emp-2", Year: 2026, Month: 11}
	assert.Equal(t, "reports:emp-2:2026-11", padded.String())
}

func TestReportCacheInvalidatePersonScopesToOwner(t *testing.T) {
	repo := newCacheRepoStub()
	cache := NewReportCache(repo, nil, time.Minute, nil, true)
	ctx := context.Background()

	keyA := ReportCacheKey{PersonID: "emp-1", Year: 2026, Month: 6}
	keyB := ReportCacheKey{PersonID: "emp-2", Year: 2026, Month: 6}
	require.NoError(t, cache.SetMonthly(ctx, keyA, models.MonthlyStats{PersonID: "emp-1"}))
	require.NoError(t, cache.SetMonthly(ctx, keyB, models.MonthlyStats{PersonID: "emp-2"}))

	require.NoError(t, cache.InvalidatePerson(ctx, "emp-1"))

	var out models.MonthlyStats
	hit, err := cache.GetMonthly(ctx, keyA, &out)
	require.NoError(t, err)
	assert.False(t, hit)

	hit, err = cache.GetMonthly(ctx, keyB, &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "emp-2", out.PersonID)
}

func TestReportCacheInvalidateAll(t *testing.T) {
	repo := newCacheRepoStub()
	cache := NewReportCache(repo, nil, time.Minute, nil, true)
	ctx := context.Background()

	key := ReportCacheKey{PersonID: "emp-1", Year: 2026, Month: 6}
	require.NoError(t, cache.SetMonthly(ctx, key, models.MonthlyStats{PersonID: "emp-1"}))
	require.NoError(t, cache.InvalidateAll(ctx))

	var out models.MonthlyStats
	hit, err := cache.GetMonthly(ctx, key, &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestReportCacheDisabledIsNoop(t *testing.T) {
	cache := NewReportCache(newCacheRepoStub(), nil, time.Minute, nil, false)
	ctx := context.Background()

	key := ReportCacheKey{PersonID: "emp-1", Year: 2026, Month: 6}
	require.NoError(t, cache.SetMonthly(ctx, key, models.MonthlyStats{}))

	var out models.MonthlyStats
	hit, err := cache.GetMonthly(ctx, key, &out)
	require.NoError(t, err)
	assert.False(t, hit)

	var nilCache *ReportCache
	assert.False(t, nilCache.Enabled())
}
