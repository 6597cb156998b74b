package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtarqui/project-ci-cd-sub000/internal/cache"
	"github.com/dtarqui/project-ci-cd-sub000/internal/domain"
	"github.com/dtarqui/project-ci-cd-sub000/internal/report"
	"github.com/dtarqui/project-ci-cd-sub000/internal/store/memory"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newTestService() *Service {
	repo := memory.NewSeeded()
	summaries := report.NewEngine(cache.NoopSummaryCache{}, 5*time.Second)
	return New(repo, summaries, WithClock(func() time.Time { return fixedNow }))
}

func strPtr(v string) *string { return &v }

func TestCreateSaleComputesTotals(t *testing.T) {
	svc := newTestService()

	sale, err := svc.CreateSale(context.Background(), domain.SaleCreateRequest{
		CustomerID: 1,
		Items: []domain.SaleItemRequest{
			{ProductID: 1, Quantity: 1},
			{ProductID: 9, Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(20000), sale.SubtotalCents)
	assert.Equal(t, int64(2600), sale.TaxCents)
	assert.Equal(t, int64(0), sale.DiscountCents)
	assert.Equal(t, int64(22600), sale.TotalCents)
	assert.Equal(t, domain.SaleStatusCompleted, sale.Status)
	assert.Equal(t, domain.DefaultPaymentMethod, sale.PaymentMethod)
	assert.Equal(t, "Ana Torres", sale.CustomerName)
	assert.Equal(t, fixedNow, sale.CreatedAt)
	assert.Equal(t, sale.CreatedAt, sale.UpdatedAt)

	require.Len(t, sale.Items, 2)
	assert.Equal(t, domain.SaleItem{ProductID: 1, Name: "Mechanical Keyboard", Quantity: 1, UnitPriceCents: 10000, LineTotalCents: 10000}, sale.Items[0])
	assert.Equal(t, domain.SaleItem{ProductID: 9, Name: "HD Webcam", Quantity: 2, UnitPriceCents: 5000, LineTotalCents: 10000}, sale.Items[1])
}

func TestCreateSaleAssignsSequentialIDs(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	req := domain.SaleCreateRequest{CustomerID: 2, Items: []domain.SaleItemRequest{{ProductID: 3, Quantity: 1}}}

	first, err := svc.CreateSale(ctx, req)
	require.NoError(t, err)
	second, err := svc.CreateSale(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID+1, second.ID)
}

func TestCreateSaleUsesCurrentProductPrice(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	price := int64(12345)
	_, err := svc.UpdateProduct(ctx, 1, domain.ProductUpdateRequest{PriceCents: &price})
	require.NoError(t, err)

	sale, err := svc.CreateSale(ctx, domain.SaleCreateRequest{
		CustomerID: 1,
		Items:      []domain.SaleItemRequest{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12345), sale.Items[0].UnitPriceCents)
}

func TestCreateSaleDiscountFloorsTotalAtZero(t *testing.T) {
	svc := newTestService()

	sale, err := svc.CreateSale(context.Background(), domain.SaleCreateRequest{
		CustomerID:    1,
		Items:         []domain.SaleItemRequest{{ProductID: 9, Quantity: 1}},
		DiscountCents: 1_000_000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), sale.TotalCents)
	assert.Equal(t, int64(1_000_000), sale.DiscountCents)
}

func TestCreateSaleTotalsInvariant(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for _, discount := range []int64{0, 1, 99, 2599, 50_000} {
		sale, err := svc.CreateSale(ctx, domain.SaleCreateRequest{
			CustomerID: 3,
			Items: []domain.SaleItemRequest{
				{ProductID: 3, Quantity: 3},
				{ProductID: 5, Quantity: 1},
			},
			DiscountCents: discount,
		})
		require.NoError(t, err)

		var subtotal int64
		for _, item := range sale.Items {
			assert.Equal(t, item.UnitPriceCents*int64(item.Quantity), item.LineTotalCents)
			subtotal += item.LineTotalCents
		}
		assert.Equal(t, subtotal, sale.SubtotalCents)
		assert.Equal(t, max(0, sale.SubtotalCents+sale.TaxCents-discount), sale.TotalCents)
	}
}

func TestCreateSaleValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  domain.SaleCreateRequest
		want error
	}{
		{"missing customer", domain.SaleCreateRequest{Items: []domain.SaleItemRequest{{ProductID: 1, Quantity: 1}}}, domain.ErrMissingFields},
		{"no items", domain.SaleCreateRequest{CustomerID: 1}, domain.ErrMissingFields},
		{"item without product", domain.SaleCreateRequest{CustomerID: 1, Items: []domain.SaleItemRequest{{Quantity: 1}}}, domain.ErrMissingFields},
		{"zero quantity", domain.SaleCreateRequest{CustomerID: 1, Items: []domain.SaleItemRequest{{ProductID: 1}}}, domain.ErrInvalidRequest},
		{"negative discount", domain.SaleCreateRequest{CustomerID: 1, Items: []domain.SaleItemRequest{{ProductID: 1, Quantity: 1}}, DiscountCents: -1}, domain.ErrInvalidRequest},
		{"unknown status", domain.SaleCreateRequest{CustomerID: 1, Items: []domain.SaleItemRequest{{ProductID: 1, Quantity: 1}}, Status: "Shipped"}, domain.ErrInvalidRequest},
		{"unknown customer", domain.SaleCreateRequest{CustomerID: 999, Items: []domain.SaleItemRequest{{ProductID: 1, Quantity: 1}}}, domain.ErrCustomerNotFound},
		{"unknown product", domain.SaleCreateRequest{CustomerID: 1, Items: []domain.SaleItemRequest{{ProductID: 1, Quantity: 1}, {ProductID: 999, Quantity: 1}}}, domain.ErrProductNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSale(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateSaleUnknownProductPersistsNothing(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	before, err := svc.ListSales(ctx, domain.SaleFilter{})
	require.NoError(t, err)

	_, err = svc.CreateSale(ctx, domain.SaleCreateRequest{
		CustomerID: 1,
		Items:      []domain.SaleItemRequest{{ProductID: 1, Quantity: 1}, {ProductID: 404, Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	after, err := svc.ListSales(ctx, domain.SaleFilter{})
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestCreateSaleRejectsTotalsOutsideCentRange(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	before, err := svc.ListSales(ctx, domain.SaleFilter{})
	require.NoError(t, err)

	_, err = svc.CreateSale(ctx, domain.SaleCreateRequest{
		CustomerID: 1,
		Items:      []domain.SaleItemRequest{{ProductID: 1, Quantity: 100000000000000}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Equal(t, "INVALID_REQUEST", domain.CodeOf(err))

	after, err := svc.ListSales(ctx, domain.SaleFilter{})
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestCreateSaleAcceptsStatusCaseInsensitively(t *testing.T) {
	svc := newTestService()

	sale, err := svc.CreateSale(context.Background(), domain.SaleCreateRequest{
		CustomerID:    1,
		Items:         []domain.SaleItemRequest{{ProductID: 1, Quantity: 1}},
		Status:        "pending",
		PaymentMethod: "Card",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SaleStatusPending, sale.Status)
	assert.Equal(t, "Card", sale.PaymentMethod)
}

func TestSaleRoundTrip(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateSale(ctx, domain.SaleCreateRequest{
		CustomerID:    2,
		Items:         []domain.SaleItemRequest{{ProductID: 3, Quantity: 3}, {ProductID: 10, Quantity: 1}},
		DiscountCents: 250,
		Notes:         "gift wrap",
	})
	require.NoError(t, err)

	fetched, err := svc.GetSale(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
}

func TestUpdateSaleRejectsUnknownStatus(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	before, err := svc.GetSale(ctx, 1)
	require.NoError(t, err)

	_, err = svc.UpdateSale(ctx, 1, domain.SaleUpdateRequest{Status: strPtr("Shipped"), Notes: strPtr("changed")})
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.Equal(t, "INVALID_STATUS", domain.CodeOf(err))

	after, err := svc.GetSale(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateSaleChangesOnlySuppliedFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	before, err := svc.GetSale(ctx, 3)
	require.NoError(t, err)

	updated, err := svc.UpdateSale(ctx, 3, domain.SaleUpdateRequest{Status: strPtr("completed")})
	require.NoError(t, err)

	assert.Equal(t, domain.SaleStatusCompleted, updated.Status)
	assert.Equal(t, before.PaymentMethod, updated.PaymentMethod)
	assert.Equal(t, before.Notes, updated.Notes)
	assert.Equal(t, before.TotalCents, updated.TotalCents)
	assert.Equal(t, before.CreatedAt, updated.CreatedAt)
	assert.Equal(t, fixedNow, updated.UpdatedAt)
}

func TestUpdateSaleCannotReopenCancelled(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.UpdateSale(ctx, 4, domain.SaleUpdateRequest{Status: strPtr(domain.SaleStatusCompleted)})
	require.ErrorIs(t, err, domain.ErrInvalidStatus)

	sale, err := svc.GetSale(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, domain.SaleStatusCancelled, sale.Status)

	// notes can still change on a cancelled sale
	sale, err = svc.UpdateSale(ctx, 4, domain.SaleUpdateRequest{Notes: strPtr("refund issued")})
	require.NoError(t, err)
	assert.Equal(t, "refund issued", sale.Notes)
}

func TestUpdateSaleUnknownID(t *testing.T) {
	svc := newTestService()

	_, err := svc.UpdateSale(context.Background(), 999, domain.SaleUpdateRequest{Notes: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
}

func TestCancelSaleIsIdempotent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.CancelSale(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.SaleStatusCancelled, first.Status)

	second, err := svc.CancelSale(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.SaleStatusCancelled, second.Status)

	_, err = svc.CancelSale(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
}

func TestListSalesFiltersAreConjunctive(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	completed, err := svc.ListSales(ctx, domain.SaleFilter{Status: "COMPLETED"})
	require.NoError(t, err)
	require.Len(t, completed, 2)

	byCustomer, err := svc.ListSales(ctx, domain.SaleFilter{Status: "completed", CustomerID: 2})
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)
	assert.Equal(t, int64(2), byCustomer[0].CustomerID)

	none, err := svc.ListSales(ctx, domain.SaleFilter{Status: "pending", CustomerID: 2})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteSale(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.DeleteSale(ctx, 2))
	_, err := svc.GetSale(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
	assert.ErrorIs(t, svc.DeleteSale(ctx, 2), domain.ErrSaleNotFound)
}

func TestDeletedCustomerIsNotFound(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.DeleteCustomer(ctx, 3))

	_, err := svc.GetCustomer(ctx, 3)
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
	assert.Equal(t, "CUSTOMER_NOT_FOUND", domain.CodeOf(err))

	_, err = svc.CreateSale(ctx, domain.SaleCreateRequest{CustomerID: 3, Items: []domain.SaleItemRequest{{ProductID: 1, Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestCreateCustomerValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  domain.CustomerCreateRequest
		want error
	}{
		{"missing phone", domain.CustomerCreateRequest{Name: "Luis", Email: "luis@example.com"}, domain.ErrMissingFields},
		{"email without at", domain.CustomerCreateRequest{Name: "Luis", Email: "luis.example.com", Phone: "5550001111"}, domain.ErrInvalidRequest},
		{"short phone", domain.CustomerCreateRequest{Name: "Luis", Email: "luis@example.com", Phone: "555"}, domain.ErrInvalidRequest},
		{"unknown status", domain.CustomerCreateRequest{Name: "Luis", Email: "luis@example.com", Phone: "5550001111", Status: "VIP"}, domain.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCustomer(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateCustomerDefaultsToActive(t *testing.T) {
	svc := newTestService()

	customer, err := svc.CreateCustomer(context.Background(), domain.CustomerCreateRequest{
		Name:  "Luis Paz",
		Email: "luis@example.com",
		Phone: "5550001111",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), customer.ID)
	assert.Equal(t, domain.CustomerStatusActive, customer.Status)
	assert.Equal(t, fixedNow, customer.RegisteredDate)
}

func TestUpdateCustomerPartial(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	updated, err := svc.UpdateCustomer(ctx, 1, domain.CustomerUpdateRequest{City: strPtr("Tarija"), Status: strPtr("inactive")})
	require.NoError(t, err)
	assert.Equal(t, "Tarija", updated.City)
	assert.Equal(t, domain.CustomerStatusInactive, updated.Status)
	assert.Equal(t, "Ana Torres", updated.Name)

	_, err = svc.UpdateCustomer(ctx, 1, domain.CustomerUpdateRequest{Email: strPtr("broken")})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestListCustomersFilters(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	inactive, err := svc.ListCustomers(ctx, domain.CustomerFilter{Status: "inactive"})
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, "Diego Rojas", inactive[0].Name)

	inLaPaz, err := svc.ListCustomers(ctx, domain.CustomerFilter{Search: "la paz"})
	require.NoError(t, err)
	assert.Len(t, inLaPaz, 2)
}

func TestProductStockStatusDerived(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	products, err := svc.ListProducts(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	for _, p := range products {
		assert.Equal(t, domain.StockStatusFor(p.Stock), p.Status, "product %d", p.ID)
	}

	stock := 0
	updated, err := svc.UpdateProduct(ctx, 1, domain.ProductUpdateRequest{Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, domain.StockStatusOut, updated.Status)
}

func TestListProductsFilterAndSort(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	accessories, err := svc.ListProducts(ctx, domain.ProductFilter{Category: "accessories", Sort: "-price"})
	require.NoError(t, err)
	require.Len(t, accessories, 4)
	for i := 1; i < len(accessories); i++ {
		assert.GreaterOrEqual(t, accessories[i-1].PriceCents, accessories[i].PriceCents)
	}

	found, err := svc.ListProducts(ctx, domain.ProductFilter{Search: "KEYBOARD"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int64(1), found[0].ID)

	byName, err := svc.ListProducts(ctx, domain.ProductFilter{Sort: "name"})
	require.NoError(t, err)
	assert.Equal(t, "27in Monitor", byName[0].Name)

	fallback, err := svc.ListProducts(ctx, domain.ProductFilter{Sort: "colour"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), fallback[0].ID)
}

func TestListCategoriesSortedAndDistinct(t *testing.T) {
	svc := newTestService()

	categories, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Accessories", "Audio", "Computers", "Displays", "Furniture", "Storage"}, categories)
}

func TestProductIDsNotReusedAfterDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.DeleteProduct(ctx, 10))
	created, err := svc.CreateProduct(ctx, domain.ProductCreateRequest{Name: "Dock", Category: "Accessories", PriceCents: 8900, Stock: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)
	assert.Equal(t, domain.StockStatusLow, created.Status)
}

func TestCreateProductValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, domain.ProductCreateRequest{Name: "Dock"})
	assert.ErrorIs(t, err, domain.ErrMissingFields)

	_, err = svc.CreateProduct(ctx, domain.ProductCreateRequest{Name: "Dock", Category: "Accessories", PriceCents: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.GetProduct(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestGetUser(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	user, err := svc.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)

	_, err = svc.GetUser(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

type countingCache struct {
	cache.NoopSummaryCache
	deletes int
}

func (c *countingCache) Delete(context.Context, string) error {
	c.deletes++
	return nil
}

type failingCache struct {
	cache.NoopSummaryCache
}

func (failingCache) Delete(context.Context, string) error {
	return errors.New("redis down")
}

func TestMutationsInvalidateDashboardSummary(t *testing.T) {
	counter := &countingCache{}
	svc := New(memory.NewSeeded(), report.NewEngine(counter, time.Minute))
	ctx := context.Background()

	_, err := svc.CreateSale(ctx, domain.SaleCreateRequest{CustomerID: 1, Items: []domain.SaleItemRequest{{ProductID: 1, Quantity: 1}}})
	require.NoError(t, err)
	_, err = svc.CancelSale(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteProduct(ctx, 2))

	assert.Equal(t, 3, counter.deletes)
}

func TestInvalidationFailureDoesNotFailMutation(t *testing.T) {
	svc := New(memory.NewSeeded(), report.NewEngine(failingCache{}, time.Minute))

	_, err := svc.CreateSale(context.Background(), domain.SaleCreateRequest{CustomerID: 1, Items: []domain.SaleItemRequest{{ProductID: 1, Quantity: 1}}})
	assert.NoError(t, err)
}

func TestDashboardSummaryFromSeed(t *testing.T) {
	svc := newTestService()

	summary, err := svc.DashboardSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(22600+8311), summary.RevenueCents)
	assert.Equal(t, int64(184132), summary.PendingRevenueCents)
	assert.Equal(t, 4, summary.SalesCount)
	assert.Equal(t, 10, summary.ProductCount)
	assert.Equal(t, 4, summary.LowStockCount)
	assert.Equal(t, 1, summary.OutOfStockCount)
	assert.Equal(t, 5, summary.CustomerCount)
	assert.Equal(t, 4, summary.ActiveCustomerCount)
	require.NotEmpty(t, summary.TopProducts)
	assert.Equal(t, int64(3), summary.TopProducts[0].ProductID)
	assert.Equal(t, fixedNow, summary.GeneratedAt)
}
