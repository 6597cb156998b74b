package service

import (
	"context"

	"github.com/dtarqui/project-ci-cd-sub000/internal/domain"
	"github.com/dtarqui/project-ci-cd-sub000/internal/report"
)

func (s *Service) DashboardSummary(ctx context.Context) (domain.DashboardSummary, error) {
	return s.summaries.Summary(ctx, s.timestamp(), s.loadSnapshot)
}

func (s *Service) loadSnapshot(ctx context.Context) (report.Snapshot, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return report.Snapshot{}, err
	}
	customers, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return report.Snapshot{}, err
	}
	sales, err := s.repo.ListSales(ctx, domain.SaleFilter{})
	if err != nil {
		return report.Snapshot{}, err
	}
	return report.Snapshot{Products: products, Customers: customers, Sales: sales}, nil
}
