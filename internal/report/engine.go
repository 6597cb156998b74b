// Package report builds the dashboard summary and keeps it cache-aside.
package report

import (
	"cmp"
	"context"
	"slices"
	"sync/atomic"
	"time"

	"github.com/dtarqui/project-ci-cd-sub000/internal/cache"
	"github.com/dtarqui/project-ci-cd-sub000/internal/domain"
)

const (
	SummaryCacheKey = "backoffice:dashboard:summary"

	topProductLimit = 5
	recentSaleLimit = 5
	defaultCacheTTL = 30 * time.Second
)

// Snapshot is the catalog state a summary is computed from.
type Snapshot struct {
	Products  []domain.Product
	Customers []domain.Customer
	Sales     []domain.Sale
}

type Loader func(ctx context.Context) (Snapshot, error)

type Engine struct {
	cache    cache.SummaryCache
	cacheTTL time.Duration

	// generation is bumped by Invalidate so a build that raced a mutation
	// is not written back.
	generation atomic.Uint64
}

func NewEngine(cacheStore cache.SummaryCache, cacheTTL time.Duration) *Engine {
	if cacheStore == nil {
		cacheStore = cache.NoopSummaryCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	return &Engine{
		cache:    cacheStore,
		cacheTTL: cacheTTL,
	}
}

// Summary returns the cached summary when present, otherwise loads a snapshot,
// builds the summary and stores it. Cache failures fall through to a fresh
// build. A summary is not stored when Invalidate ran while it was loading.
func (e *Engine) Summary(ctx context.Context, now time.Time, load Loader) (domain.DashboardSummary, error) {
	if cached, ok, err := e.cache.Get(ctx, SummaryCacheKey); err == nil && ok {
		return *cached, nil
	}

	generation := e.generation.Load()
	snapshot, err := load(ctx)
	if err != nil {
		return domain.DashboardSummary{}, err
	}

	summary := Build(snapshot, now)
	if e.generation.Load() == generation {
		_ = e.cache.Set(ctx, SummaryCacheKey, &summary, e.cacheTTL)
	}
	return summary, nil
}

func (e *Engine) Invalidate(ctx context.Context) error {
	e.generation.Add(1)
	return e.cache.Delete(ctx, SummaryCacheKey)
}

// Build computes the summary. Only Completed sales count as revenue and feed
// the top product ranking.
func Build(snapshot Snapshot, now time.Time) domain.DashboardSummary {
	summary := domain.DashboardSummary{
		SalesCount: len(snapshot.Sales),
		SalesByStatus: map[string]int{
			domain.SaleStatusCompleted: 0,
			domain.SaleStatusPending:   0,
			domain.SaleStatusCancelled: 0,
		},
		ProductCount:  len(snapshot.Products),
		CustomerCount: len(snapshot.Customers),
		TopProducts:   []domain.TopProduct{},
		RecentSales:   []domain.Sale{},
		GeneratedAt:   now.UTC(),
	}

	for _, product := range snapshot.Products {
		switch domain.StockStatusFor(product.Stock) {
		case domain.StockStatusLow:
			summary.LowStockCount++
		case domain.StockStatusOut:
			summary.OutOfStockCount++
		}
	}

	for _, customer := range snapshot.Customers {
		if customer.Status == domain.CustomerStatusActive {
			summary.ActiveCustomerCount++
		}
	}

	ranking := make(map[int64]*domain.TopProduct)
	for _, sale := range snapshot.Sales {
		summary.SalesByStatus[sale.Status]++
		switch sale.Status {
		case domain.SaleStatusCompleted:
			summary.RevenueCents += sale.TotalCents
		case domain.SaleStatusPending:
			summary.PendingRevenueCents += sale.TotalCents
			continue
		default:
			continue
		}

		for _, item := range sale.Items {
			entry, ok := ranking[item.ProductID]
			if !ok {
				entry = &domain.TopProduct{ProductID: item.ProductID, Name: item.Name}
				ranking[item.ProductID] = entry
			}
			entry.Quantity += item.Quantity
			entry.RevenueCents += item.LineTotalCents
		}
	}

	for _, entry := range ranking {
		summary.TopProducts = append(summary.TopProducts, *entry)
	}
	slices.SortFunc(summary.TopProducts, func(a, b domain.TopProduct) int {
		if c := cmp.Compare(b.Quantity, a.Quantity); c != 0 {
			return c
		}
		if c := cmp.Compare(b.RevenueCents, a.RevenueCents); c != 0 {
			return c
		}
		return cmp.Compare(a.ProductID, b.ProductID)
	})
	if len(summary.TopProducts) > topProductLimit {
		summary.TopProducts = summary.TopProducts[:topProductLimit]
	}

	recent := slices.Clone(snapshot.Sales)
	slices.SortFunc(recent, func(a, b domain.Sale) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if len(recent) > recentSaleLimit {
		recent = recent[:recentSaleLimit]
	}
	summary.RecentSales = append(summary.RecentSales, recent...)

	return summary
}
