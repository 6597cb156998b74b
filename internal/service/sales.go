package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dtarqui/project-ci-cd-sub000/internal/domain"
	"github.com/dtarqui/project-ci-cd-sub000/internal/pricing"
)

// CreateSale prices every line at the product's current price and stores the
// sale in one call. Nothing is persisted when any reference fails to resolve.
// Stock and customer totals are left untouched.
func (s *Service) CreateSale(ctx context.Context, req domain.SaleCreateRequest) (domain.Sale, error) {
	if req.CustomerID == 0 || len(req.Items) == 0 {
		return domain.Sale{}, fmt.Errorf("%w: customerId and items are required", domain.ErrMissingFields)
	}
	ids := make([]int64, 0, len(req.Items))
	for i, item := range req.Items {
		if item.ProductID == 0 {
			return domain.Sale{}, fmt.Errorf("%w: item %d has no productId", domain.ErrMissingFields, i)
		}
		if item.Quantity < 1 {
			return domain.Sale{}, fmt.Errorf("%w: item %d quantity must be at least 1", domain.ErrInvalidRequest, i)
		}
		ids = append(ids, item.ProductID)
	}
	if req.DiscountCents < 0 {
		return domain.Sale{}, fmt.Errorf("%w: discount must not be negative", domain.ErrInvalidRequest)
	}

	status := domain.SaleStatusCompleted
	if strings.TrimSpace(req.Status) != "" {
		parsed, ok := domain.ParseSaleStatus(req.Status)
		if !ok {
			return domain.Sale{}, fmt.Errorf("%w: unknown sale status %q", domain.ErrInvalidRequest, req.Status)
		}
		status = parsed
	}

	customer, err := s.repo.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		return domain.Sale{}, translateNotFound(err, domain.ErrCustomerNotFound, req.CustomerID)
	}

	products, err := s.repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return domain.Sale{}, err
	}

	items := make([]domain.SaleItem, 0, len(req.Items))
	lineTotals := make([]int64, 0, len(req.Items))
	for _, requested := range req.Items {
		product, ok := products[requested.ProductID]
		if !ok {
			return domain.Sale{}, fmt.Errorf("%w: id %d", domain.ErrProductNotFound, requested.ProductID)
		}
		line, err := pricing.LineTotal(product.PriceCents, requested.Quantity)
		if err != nil {
			return domain.Sale{}, fmt.Errorf("%w: line total for product %d: %v", domain.ErrInvalidRequest, product.ID, err)
		}
		items = append(items, domain.SaleItem{
			ProductID:      product.ID,
			Name:           product.Name,
			Quantity:       requested.Quantity,
			UnitPriceCents: product.PriceCents,
			LineTotalCents: line,
		})
		lineTotals = append(lineTotals, line)
	}

	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = domain.DefaultPaymentMethod
	}

	totals, err := pricing.Compute(lineTotals, req.DiscountCents)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("%w: sale total: %v", domain.ErrInvalidRequest, err)
	}
	now := s.timestamp()
	created, err := s.repo.CreateSale(ctx, domain.Sale{
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		Items:         items,
		SubtotalCents: totals.SubtotalCents,
		TaxCents:      totals.TaxCents,
		DiscountCents: totals.DiscountCents,
		TotalCents:    totals.TotalCents,
		Status:        status,
		PaymentMethod: paymentMethod,
		Notes:         strings.TrimSpace(req.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return domain.Sale{}, err
	}

	s.invalidateSummary(ctx, "sale create")
	return *created, nil
}

// UpdateSale changes only the supplied fields. Cancelled is terminal: a
// cancelled sale can be re-cancelled but not reopened.
func (s *Service) UpdateSale(ctx context.Context, id int64, req domain.SaleUpdateRequest) (domain.Sale, error) {
	existing, err := s.repo.GetSale(ctx, id)
	if err != nil {
		return domain.Sale{}, translateNotFound(err, domain.ErrSaleNotFound, id)
	}

	updated := *existing
	if req.Status != nil {
		status, ok := domain.ParseSaleStatus(*req.Status)
		if !ok {
			return domain.Sale{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, *req.Status)
		}
		if existing.Status == domain.SaleStatusCancelled && status != domain.SaleStatusCancelled {
			return domain.Sale{}, fmt.Errorf("%w: sale %d is cancelled", domain.ErrInvalidStatus, id)
		}
		updated.Status = status
	}
	if req.PaymentMethod != nil {
		if method := strings.TrimSpace(*req.PaymentMethod); method != "" {
			updated.PaymentMethod = method
		}
	}
	if req.Notes != nil {
		updated.Notes = strings.TrimSpace(*req.Notes)
	}
	updated.UpdatedAt = s.timestamp()

	saved, err := s.repo.UpdateSale(ctx, updated)
	if err != nil {
		return domain.Sale{}, translateNotFound(err, domain.ErrSaleNotFound, id)
	}

	s.invalidateSummary(ctx, "sale update")
	return *saved, nil
}

func (s *Service) CancelSale(ctx context.Context, id int64) (domain.Sale, error) {
	status := domain.SaleStatusCancelled
	return s.UpdateSale(ctx, id, domain.SaleUpdateRequest{Status: &status})
}

func (s *Service) ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	filter.Status = strings.TrimSpace(filter.Status)
	return s.repo.ListSales(ctx, filter)
}

func (s *Service) GetSale(ctx context.Context, id int64) (domain.Sale, error) {
	sale, err := s.repo.GetSale(ctx, id)
	if err != nil {
		return domain.Sale{}, translateNotFound(err, domain.ErrSaleNotFound, id)
	}
	return *sale, nil
}

func (s *Service) DeleteSale(ctx context.Context, id int64) error {
	if err := s.repo.DeleteSale(ctx, id); err != nil {
		return translateNotFound(err, domain.ErrSaleNotFound, id)
	}
	s.invalidateSummary(ctx, "sale delete")
	return nil
}
