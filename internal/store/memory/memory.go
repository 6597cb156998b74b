package memory

import (
	"cmp"
	"context"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dtarqui/project-ci-cd-sub000/internal/domain"
	"github.com/dtarqui/project-ci-cd-sub000/internal/pricing"
	"github.com/dtarqui/project-ci-cd-sub000/internal/store"
)

// Store is the in-process repository. Ids come from per-collection
// high-water marks, so a deleted id is never handed out again.
type Store struct {
	mu             sync.RWMutex
	products       map[int64]domain.Product
	customers      map[int64]domain.Customer
	sales          map[int64]domain.Sale
	users          map[int64]domain.User
	lastProductID  int64
	lastCustomerID int64
	lastSaleID     int64
}

var _ store.Repository = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		products:  make(map[int64]domain.Product),
		customers: make(map[int64]domain.Customer),
		sales:     make(map[int64]domain.Sale),
		users:     make(map[int64]domain.User),
	}
}

// NewSeeded returns a store filled with the demo catalog, customers, sales
// and users the dashboard ships with.
func NewSeeded() *Store {
	s := New()
	now := time.Now().UTC().Truncate(time.Second)
	day := 24 * time.Hour

	products := []domain.Product{
		{Name: "Mechanical Keyboard", Category: "Accessories", PriceCents: 10000, Stock: 45, Sales: 120},
		{Name: "Laptop Pro 14", Category: "Computers", PriceCents: 129999, Stock: 12, Sales: 34},
		{Name: "Wireless Mouse", Category: "Accessories", PriceCents: 2599, Stock: 150, Sales: 310},
		{Name: "27in Monitor", Category: "Displays", PriceCents: 32950, Stock: 8, Sales: 41},
		{Name: "USB-C Hub", Category: "Accessories", PriceCents: 4575, Stock: 0, Sales: 88},
		{Name: "Office Chair", Category: "Furniture", PriceCents: 18900, Stock: 22, Sales: 19},
		{Name: "Standing Desk", Category: "Furniture", PriceCents: 45900, Stock: 5, Sales: 11},
		{Name: "Noise Cancelling Headphones", Category: "Audio", PriceCents: 27999, Stock: 30, Sales: 57},
		{Name: "HD Webcam", Category: "Accessories", PriceCents: 5000, Stock: 64, Sales: 73},
		{Name: "Portable SSD 1TB", Category: "Storage", PriceCents: 11950, Stock: 17, Sales: 66},
	}
	for i, p := range products {
		p.ID = int64(i + 1)
		p.CreatedAt = now.Add(-90 * day)
		p.UpdatedAt = now.Add(-time.Duration(i) * day)
		last := now.Add(-time.Duration(i+1) * day)
		p.LastSale = &last
		s.products[p.ID] = p
	}
	s.lastProductID = int64(len(products))

	customers := []domain.Customer{
		{Name: "Ana Torres", Email: "ana.torres@example.com", Phone: "5551234567", Address: "Av. Central 120", City: "La Paz", PostalCode: "0201", TotalSpentCents: 125000, Purchases: 7},
		{Name: "Bruno Diaz", Email: "bruno.diaz@example.com", Phone: "5559876543", City: "Cochabamba", TotalSpentCents: 48900, Purchases: 3},
		{Name: "Carla Mendez", Email: "carla.mendez@example.com", Phone: "5554567890", Address: "Calle 21 #45", City: "Santa Cruz", PostalCode: "0301", TotalSpentCents: 0, Purchases: 0},
		{Name: "Diego Rojas", Email: "diego.rojas@example.com", Phone: "5557654321", City: "Sucre", Status: domain.CustomerStatusInactive, TotalSpentCents: 15990, Purchases: 1},
		{Name: "Elena Vargas", Email: "elena.vargas@example.com", Phone: "5552223344", City: "La Paz", TotalSpentCents: 310450, Purchases: 12},
	}
	for i, c := range customers {
		c.ID = int64(i + 1)
		if c.Status == "" {
			c.Status = domain.CustomerStatusActive
		}
		c.RegisteredDate = now.Add(-time.Duration(180-i*20) * day)
		s.customers[c.ID] = c
	}
	s.lastCustomerID = int64(len(customers))

	seedSales := []struct {
		customerID int64
		items      []domain.SaleItemRequest
		discount   int64
		status     string
		payment    string
		notes      string
		age        time.Duration
	}{
		{1, []domain.SaleItemRequest{{ProductID: 1, Quantity: 1}, {ProductID: 9, Quantity: 2}}, 0, domain.SaleStatusCompleted, "Card", "", 6 * day},
		{2, []domain.SaleItemRequest{{ProductID: 3, Quantity: 3}}, 500, domain.SaleStatusCompleted, "Cash", "Loyalty discount", 4 * day},
		{5, []domain.SaleItemRequest{{ProductID: 2, Quantity: 1}, {ProductID: 4, Quantity: 1}}, 0, domain.SaleStatusPending, "Transfer", "Awaiting bank confirmation", 2 * day},
		{4, []domain.SaleItemRequest{{ProductID: 8, Quantity: 1}}, 0, domain.SaleStatusCancelled, "Card", "Customer cancelled", day},
	}
	for i, seed := range seedSales {
		lines := make([]int64, 0, len(seed.items))
		items := make([]domain.SaleItem, 0, len(seed.items))
		for _, it := range seed.items {
			p := s.products[it.ProductID]
			line, err := pricing.LineTotal(p.PriceCents, it.Quantity)
			if err != nil {
				log.Fatalf("[memory-store] failed to price seed sale %d: %v", i+1, err)
			}
			lines = append(lines, line)
			items = append(items, domain.SaleItem{
				ProductID:      p.ID,
				Name:           p.Name,
				Quantity:       it.Quantity,
				UnitPriceCents: p.PriceCents,
				LineTotalCents: line,
			})
		}
		totals, err := pricing.Compute(lines, seed.discount)
		if err != nil {
			log.Fatalf("[memory-store] failed to price seed sale %d: %v", i+1, err)
		}
		at := now.Add(-seed.age)
		sale := domain.Sale{
			ID:            int64(i + 1),
			CustomerID:    seed.customerID,
			CustomerName:  s.customers[seed.customerID].Name,
			Items:         items,
			SubtotalCents: totals.SubtotalCents,
			TaxCents:      totals.TaxCents,
			DiscountCents: totals.DiscountCents,
			TotalCents:    totals.TotalCents,
			Status:        seed.status,
			PaymentMethod: seed.payment,
			Notes:         seed.notes,
			CreatedAt:     at,
			UpdatedAt:     at,
		}
		s.sales[sale.ID] = sale
	}
	s.lastSaleID = int64(len(seedSales))

	users, err := store.SeedUsers(now)
	if err != nil {
		log.Fatalf("[memory-store] failed to seed users: %v", err)
	}
	for _, u := range users {
		s.users[u.ID] = u
	}

	return s
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	slices.SortFunc(products, func(a, b domain.Product) int { return cmp.Compare(a.ID, b.ID) })
	return products, nil
}

func (s *Store) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.products[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	return &product, nil
}

func (s *Store) GetProductsByIDs(_ context.Context, ids []int64) (map[int64]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[int64]domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastProductID++
	product.ID = s.lastProductID
	s.products[product.ID] = product
	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.products[product.ID] = product
	updated := product
	return &updated, nil
}

func (s *Store) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *Store) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customers := make([]domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		customers = append(customers, c)
	}
	slices.SortFunc(customers, func(a, b domain.Customer) int { return cmp.Compare(a.ID, b.ID) })
	return customers, nil
}

func (s *Store) GetCustomer(_ context.Context, id int64) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customer, exists := s.customers[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	return &customer, nil
}

func (s *Store) CreateCustomer(_ context.Context, customer domain.Customer) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastCustomerID++
	customer.ID = s.lastCustomerID
	s.customers[customer.ID] = customer
	created := customer
	return &created, nil
}

func (s *Store) UpdateCustomer(_ context.Context, customer domain.Customer) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[customer.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.customers[customer.ID] = customer
	updated := customer
	return &updated, nil
}

func (s *Store) DeleteCustomer(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.customers, id)
	return nil
}

func (s *Store) ListSales(_ context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := strings.TrimSpace(filter.Status)
	sales := make([]domain.Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		if status != "" && !strings.EqualFold(sale.Status, status) {
			continue
		}
		if filter.CustomerID != 0 && sale.CustomerID != filter.CustomerID {
			continue
		}
		sales = append(sales, copySale(sale))
	}
	slices.SortFunc(sales, func(a, b domain.Sale) int { return cmp.Compare(a.ID, b.ID) })
	return sales, nil
}

func (s *Store) GetSale(_ context.Context, id int64) (*domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sale, exists := s.sales[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copied := copySale(sale)
	return &copied, nil
}

func (s *Store) CreateSale(_ context.Context, sale domain.Sale) (*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSaleID++
	sale.ID = s.lastSaleID
	s.sales[sale.ID] = copySale(sale)
	created := copySale(sale)
	return &created, nil
}

func (s *Store) UpdateSale(_ context.Context, sale domain.Sale) (*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sales[sale.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.sales[sale.ID] = copySale(sale)
	updated := copySale(sale)
	return &updated, nil
}

func (s *Store) DeleteSale(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sales[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.sales, id)
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.TrimSpace(email)
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			found := user
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UpdateUserPassword(_ context.Context, id int64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[id]
	if !exists {
		return store.ErrNotFound
	}
	user.PasswordHash = passwordHash
	s.users[id] = user
	return nil
}

func copySale(sale domain.Sale) domain.Sale {
	sale.Items = slices.Clone(sale.Items)
	return sale
}
