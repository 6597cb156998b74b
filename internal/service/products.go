package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dtarqui/project-ci-cd-sub000/internal/domain"
)

// ListProducts applies category, search and sort. Sort keys are name, price,
// stock, sales and id; a leading "-" reverses the order and unknown keys fall
// back to id order.
func (s *Service) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	category := strings.TrimSpace(filter.Category)
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	result := make([]domain.Product, 0, len(products))
	for _, product := range products {
		if category != "" && !strings.EqualFold(product.Category, category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(product.Name), search) &&
			!strings.Contains(strings.ToLower(product.Category), search) {
			continue
		}
		result = append(result, product.WithStockStatus())
	}

	sortProducts(result, filter.Sort)
	return result, nil
}

func sortProducts(products []domain.Product, key string) {
	key = strings.ToLower(strings.TrimSpace(key))
	desc := strings.HasPrefix(key, "-")
	key = strings.TrimPrefix(key, "-")

	var compare func(a, b domain.Product) int
	switch key {
	case "name":
		compare = func(a, b domain.Product) int { return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) }
	case "price":
		compare = func(a, b domain.Product) int { return cmp.Compare(a.PriceCents, b.PriceCents) }
	case "stock":
		compare = func(a, b domain.Product) int { return cmp.Compare(a.Stock, b.Stock) }
	case "sales":
		compare = func(a, b domain.Product) int { return cmp.Compare(a.Sales, b.Sales) }
	default:
		compare = func(domain.Product, domain.Product) int { return 0 }
	}

	slices.SortStableFunc(products, func(a, b domain.Product) int {
		c := compare(a, b)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if desc {
			return -c
		}
		return c
	})
}

func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(products))
	categories := make([]string, 0, len(products))
	for _, product := range products {
		if _, ok := seen[product.Category]; ok {
			continue
		}
		seen[product.Category] = struct{}{}
		categories = append(categories, product.Category)
	}
	slices.Sort(categories)
	return categories, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, translateNotFound(err, domain.ErrProductNotFound, id)
	}
	return product.WithStockStatus(), nil
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	category := strings.TrimSpace(req.Category)
	if name == "" || category == "" {
		return domain.Product{}, fmt.Errorf("%w: name and category are required", domain.ErrMissingFields)
	}
	if req.PriceCents < 0 {
		return domain.Product{}, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidRequest)
	}
	if req.Stock < 0 {
		return domain.Product{}, fmt.Errorf("%w: stock must not be negative", domain.ErrInvalidRequest)
	}

	now := s.timestamp()
	created, err := s.repo.CreateProduct(ctx, domain.Product{
		Name:       name,
		Category:   category,
		PriceCents: req.PriceCents,
		Stock:      req.Stock,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return domain.Product{}, err
	}

	s.invalidateSummary(ctx, "product create")
	return created.WithStockStatus(), nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, req domain.ProductUpdateRequest) (domain.Product, error) {
	existing, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, translateNotFound(err, domain.ErrProductNotFound, id)
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, fmt.Errorf("%w: name must not be empty", domain.ErrInvalidRequest)
		}
		updated.Name = name
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return domain.Product{}, fmt.Errorf("%w: category must not be empty", domain.ErrInvalidRequest)
		}
		updated.Category = category
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			return domain.Product{}, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidRequest)
		}
		updated.PriceCents = *req.PriceCents
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return domain.Product{}, fmt.Errorf("%w: stock must not be negative", domain.ErrInvalidRequest)
		}
		updated.Stock = *req.Stock
	}
	updated.UpdatedAt = s.timestamp()

	saved, err := s.repo.UpdateProduct(ctx, updated)
	if err != nil {
		return domain.Product{}, translateNotFound(err, domain.ErrProductNotFound, id)
	}

	s.invalidateSummary(ctx, "product update")
	return saved.WithStockStatus(), nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return translateNotFound(err, domain.ErrProductNotFound, id)
	}
	s.invalidateSummary(ctx, "product delete")
	return nil
}
