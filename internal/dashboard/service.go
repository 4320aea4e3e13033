package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/barstock/revisor/internal/apperr"
	"github.com/barstock/revisor/internal/cache"
	"github.com/barstock/revisor/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	lossWindow      = 7 * 24 * time.Hour
	recentRevisions = 5
	maxChartDays    = 90
)

type RecentRevision struct {
	ID           uuid.UUID             `json:"id"`
	Date         time.Time             `json:"date"`
	Status       models.RevisionStatus `json:"status"`
	TotalLoss    decimal.Decimal       `json:"totalLoss"`
	ItemsCounted int                   `json:"itemsCounted"`
}

type Summary struct {
	TotalCostValue     decimal.Decimal  `json:"totalCostValue"`
	TotalLossLast7Days decimal.Decimal  `json:"totalLossLast7Days"`
	LowStockCount      int64            `json:"lowStockCount"`
	InventoryCount     int64            `json:"inventoryCount"`
	RecentRevisions    []RecentRevision `json:"recentRevisions"`
}

type LossPoint struct {
	Label string          `json:"label"`
	Loss  decimal.Decimal `json:"loss"`
}

type LossChart struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Points []LossPoint     `json:"points"`
	Total  decimal.Decimal `json:"total"`
}

type Service struct {
	store Store
	cache cache.Cache
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store Store, c cache.Cache, log *zap.Logger) *Service {
	return &Service{store: store, cache: c, log: log, now: time.Now}
}

// Summary aggregates the owner's inventory value, recent losses and latest
// revisions. Results are cached until a revision or inventory write.
func (s *Service) Summary(ctx context.Context, owner uuid.UUID) (*Summary, error) {
	if owner == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}

	summary, err := cache.Fetch(ctx, s.cache, cache.DashboardNamespace(owner), "summary", func() (*Summary, error) {
		return s.load(ctx, owner)
	})
	if err != nil {
		s.log.Error("dashboard summary failed", zap.Stringer("owner", owner), zap.Error(err))
		return nil, apperr.Persistence("Failed to fetch dashboard", err)
	}
	return summary, nil
}

func (s *Service) load(ctx context.Context, owner uuid.UUID) (*Summary, error) {
	totals, err := s.store.InventoryTotals(ctx, owner)
	if err != nil {
		return nil, err
	}
	loss, err := s.store.CompletedLossSince(ctx, owner, s.now().Add(-lossWindow))
	if err != nil {
		return nil, err
	}
	revs, err := s.store.RecentRevisions(ctx, owner, recentRevisions)
	if err != nil {
		return nil, err
	}

	recent := make([]RecentRevision, 0, len(revs))
	for _, rev := range revs {
		recent = append(recent, RecentRevision{
			ID:           rev.ID,
			Date:         rev.Date,
			Status:       rev.Status,
			TotalLoss:    rev.TotalLoss,
			ItemsCounted: rev.ItemsCounted,
		})
	}

	return &Summary{
		TotalCostValue:     totals.CostValue,
		TotalLossLast7Days: loss,
		LowStockCount:      totals.LowStock,
		InventoryCount:     totals.Items,
		RecentRevisions:    recent,
	}, nil
}

// LossChart returns one point per calendar day for the last days days,
// today included. Days without a completed revision have zero loss.
func (s *Service) LossChart(ctx context.Context, owner uuid.UUID, days int) (*LossChart, error) {
	if owner == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	if days < 1 || days > maxChartDays {
		return nil, apperr.Validation(fmt.Sprintf("days must be between 1 and %d", maxChartDays))
	}

	now := s.now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := end.AddDate(0, 0, -(days - 1))

	chart, err := cache.Fetch(ctx, s.cache, cache.DashboardNamespace(owner), fmt.Sprintf("loss:%d:%s", days, end.Format("2006-01-02")), func() (*LossChart, error) {
		rows, err := s.store.CompletedLossByDay(ctx, owner, start)
		if err != nil {
			return nil, err
		}

		byDay := make(map[string]decimal.Decimal, len(rows))
		for _, r := range rows {
			label := r.Day.Format("2006-01-02")
			byDay[label] = byDay[label].Add(r.Total)
		}

		out := &LossChart{
			From:   start.Format("2006-01-02"),
			To:     end.Format("2006-01-02"),
			Points: make([]LossPoint, 0, days),
			Total:  decimal.Zero,
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			label := d.Format("2006-01-02")
			loss := byDay[label]
			out.Points = append(out.Points, LossPoint{Label: label, Loss: loss})
			out.Total = out.Total.Add(loss)
		}
		return out, nil
	})
	if err != nil {
		s.log.Error("loss chart failed", zap.Stringer("owner", owner), zap.Error(err))
		return nil, apperr.Persistence("Failed to fetch loss chart", err)
	}
	return chart, nil
}
