package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/barstock/revisor/internal/apperr"
	"github.com/barstock/revisor/internal/cache"
	"github.com/barstock/revisor/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeStore struct {
	totals  InventoryTotals
	loss    decimal.Decimal
	buckets []LossBucket
	recent  []models.Revision
	since   time.Time
	calls   int
	err     error
}

func (f *fakeStore) InventoryTotals(context.Context, uuid.UUID) (InventoryTotals, error) {
	f.calls++
	return f.totals, f.err
}

func (f *fakeStore) CompletedLossSince(_ context.Context, _ uuid.UUID, since time.Time) (decimal.Decimal, error) {
	f.since = since
	return f.loss, nil
}

func (f *fakeStore) CompletedLossByDay(context.Context, uuid.UUID, time.Time) ([]LossBucket, error) {
	return f.buckets, nil
}

func (f *fakeStore) RecentRevisions(_ context.Context, _ uuid.UUID, limit int) ([]models.Revision, error) {
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

// mapCache is a versioned in-process cache with the same JSON round trip as Redis.
type mapCache struct {
	versions map[string]int64
	entries  map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{versions: map[string]int64{}, entries: map[string][]byte{}}
}

func (m *mapCache) Version(_ context.Context, ns string) (int64, error) { return m.versions[ns], nil }

func (m *mapCache) Get(_ context.Context, ns string, v int64, key string, dest any) (bool, error) {
	raw, ok := m.entries[fmt.Sprintf("%s:%d:%s", ns, v, key)]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *mapCache) Set(_ context.Context, ns string, v int64, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[fmt.Sprintf("%s:%d:%s", ns, v, key)] = raw
	return nil
}

func (m *mapCache) Invalidate(_ context.Context, namespaces ...string) error {
	for _, ns := range namespaces {
		m.versions[ns]++
	}
	return nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
}

func TestSummary_AggregatesAndCaches(t *testing.T) {
	store := &fakeStore{
		totals: InventoryTotals{CostValue: decimal.RequireFromString("1234.50"), LowStock: 2, Items: 9},
		loss:   decimal.RequireFromString("61.25"),
	}
	for i := 0; i < 7; i++ {
		store.recent = append(store.recent, models.Revision{ID: uuid.New(), Status: models.RevisionStatusDraft})
	}
	mc := newMapCache()
	svc := NewService(store, mc, zaptest.NewLogger(t))
	svc.now = fixedNow
	owner := uuid.New()
	ctx := context.Background()

	s, err := svc.Summary(ctx, owner)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1234.5").Equal(s.TotalCostValue))
	assert.True(t, decimal.RequireFromString("61.25").Equal(s.TotalLossLast7Days))
	assert.Equal(t, int64(2), s.LowStockCount)
	assert.Equal(t, int64(9), s.InventoryCount)
	assert.Len(t, s.RecentRevisions, 5)
	assert.Equal(t, fixedNow().Add(-7*24*time.Hour), store.since)

	_, err = svc.Summary(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)

	require.NoError(t, mc.Invalidate(ctx, cache.DashboardNamespace(owner)))
	_, err = svc.Summary(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)
}

func TestSummary_StoreFailure(t *testing.T) {
	svc := NewService(&fakeStore{err: errors.New("timeout")}, cache.Noop{}, zaptest.NewLogger(t))

	_, err := svc.Summary(context.Background(), uuid.New())
	assert.Equal(t, "Failed to fetch dashboard", apperr.PublicMessage(err))

	_, err = svc.Summary(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestLossChart_FillsEmptyDays(t *testing.T) {
	store := &fakeStore{buckets: []LossBucket{
		{Day: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), Total: decimal.RequireFromString("50")},
		{Day: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), Total: decimal.RequireFromString("4.20")},
	}}
	svc := NewService(store, cache.Noop{}, zaptest.NewLogger(t))
	svc.now = fixedNow

	chart, err := svc.LossChart(context.Background(), uuid.New(), 5)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-06", chart.From)
	assert.Equal(t, "2026-03-10", chart.To)
	require.Len(t, chart.Points, 5)
	assert.True(t, chart.Points[0].Loss.IsZero())
	assert.True(t, decimal.RequireFromString("50").Equal(chart.Points[2].Loss))
	assert.True(t, decimal.RequireFromString("54.2").Equal(chart.Total))

	_, err = svc.LossChart(context.Background(), uuid.New(), 0)
	assert.ErrorIs(t, err, apperr.Validation(""))
}

func TestGormStoreInventoryTotals(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`COALESCE(SUM(in_stock * purchase_price), 0) AS cost_value`)).
		WillReturnRows(sqlmock.NewRows([]string{"cost_value", "low_stock", "items"}).AddRow("812.40", 3, 14))

	totals, err := NewGormStore(db).InventoryTotals(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("812.4").Equal(totals.CostValue))
	assert.Equal(t, int64(3), totals.LowStock)
	assert.Equal(t, int64(14), totals.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}
