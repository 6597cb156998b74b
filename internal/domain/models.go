package domain

import "time"

type Product struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	PriceCents int64      `json:"priceCents"`
	Stock      int        `json:"stock"`
	Status     string     `json:"status"`
	Sales      int        `json:"sales"`
	LastSale   *time.Time `json:"lastSale,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type ProductCreateRequest struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	PriceCents int64  `json:"priceCents"`
	Stock      int    `json:"stock"`
}

type ProductUpdateRequest struct {
	Name       *string `json:"name,omitempty"`
	Category   *string `json:"category,omitempty"`
	PriceCents *int64  `json:"priceCents,omitempty"`
	Stock      *int    `json:"stock,omitempty"`
}

type ProductFilter struct {
	Category string
	Search   string
	Sort     string
}

type Customer struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Address         string    `json:"address,omitempty"`
	City            string    `json:"city,omitempty"`
	PostalCode      string    `json:"postalCode,omitempty"`
	Status          string    `json:"status"`
	TotalSpentCents int64     `json:"totalSpentCents"`
	Purchases       int       `json:"purchases"`
	RegisteredDate  time.Time `json:"registeredDate"`
}

type CustomerCreateRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Status     string `json:"status"`
}

type CustomerUpdateRequest struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	PostalCode *string `json:"postalCode,omitempty"`
	Status     *string `json:"status,omitempty"`
}

type CustomerFilter struct {
	Search string
	Status string
}

type SaleItem struct {
	ProductID      int64  `json:"productId"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	LineTotalCents int64  `json:"lineTotalCents"`
}

type Sale struct {
	ID            int64      `json:"id"`
	CustomerID    int64      `json:"customerId"`
	CustomerName  string     `json:"customerName"`
	Items         []SaleItem `json:"items"`
	SubtotalCents int64      `json:"subtotalCents"`
	TaxCents      int64      `json:"taxCents"`
	DiscountCents int64      `json:"discountCents"`
	TotalCents    int64      `json:"totalCents"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"paymentMethod"`
	Notes         string     `json:"notes"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type SaleItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type SaleCreateRequest struct {
	CustomerID    int64             `json:"customerId"`
	Items         []SaleItemRequest `json:"items"`
	DiscountCents int64             `json:"discountCents"`
	PaymentMethod string            `json:"paymentMethod"`
	Notes         string            `json:"notes"`
	Status        string            `json:"status,omitempty"`
}

type SaleUpdateRequest struct {
	Status        *string `json:"status,omitempty"`
	PaymentMethod *string `json:"paymentMethod,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// SaleFilter fields are optional; zero values match everything.
type SaleFilter struct {
	Status     string
	CustomerID int64
}

// User is the persistence model for dashboard accounts. PasswordHash never
// leaves the process.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	User      User   `json:"user"`
	ExpiresAt string `json:"expiresAt"`
}

type TopProduct struct {
	ProductID    int64  `json:"productId"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	RevenueCents int64  `json:"revenueCents"`
}

type DashboardSummary struct {
	RevenueCents        int64          `json:"revenueCents"`
	PendingRevenueCents int64          `json:"pendingRevenueCents"`
	SalesCount          int            `json:"salesCount"`
	SalesByStatus       map[string]int `json:"salesByStatus"`
	ProductCount        int            `json:"productCount"`
	LowStockCount       int            `json:"lowStockCount"`
	OutOfStockCount     int            `json:"outOfStockCount"`
	CustomerCount       int            `json:"customerCount"`
	ActiveCustomerCount int            `json:"activeCustomerCount"`
	TopProducts         []TopProduct   `json:"topProducts"`
	RecentSales         []Sale         `json:"recentSales"`
	GeneratedAt         time.Time      `json:"generatedAt"`
}

const (
	StockStatusIn  = "In Stock"
	StockStatusLow = "Low Stock"
	StockStatusOut = "Out of Stock"

	// LowStockThreshold is the highest stock level still reported as low.
	LowStockThreshold = 20
)

const (
	SaleStatusCompleted = "Completed"
	SaleStatusPending   = "Pending"
	SaleStatusCancelled = "Cancelled"
)

const (
	CustomerStatusActive   = "Active"
	CustomerStatusInactive = "Inactive"
)

const DefaultPaymentMethod = "Cash"
