package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dtarqui/project-ci-cd-sub000/internal/domain"
)

func (a *API) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		query := r.URL.Query()
		products, err := a.service.ListProducts(r.Context(), domain.ProductFilter{
			Category: query.Get("category"),
			Search:   query.Get("search"),
			Sort:     query.Get("sort"),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeList(w, products)
	case http.MethodPost:
		var req domain.ProductCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		product, err := a.service.CreateProduct(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, product, "Product created")
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleProductActions(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/api/products/")
	if len(parts) != 1 {
		a.handleNotFound(w, r)
		return
	}

	if parts[0] == "categories" {
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		categories, err := a.service.ListCategories(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeList(w, categories)
		return
	}

	id, err := parseID(parts[0])
	if err != nil {
		writeError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		product, err := a.service.GetProduct(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, product, "")
	case http.MethodPut, http.MethodPatch:
		var req domain.ProductUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		product, err := a.service.UpdateProduct(r.Context(), id, req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, product, "Product updated")
	case http.MethodDelete:
		if err := a.service.DeleteProduct(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]int64{"id": id}, "Product deleted")
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleCustomers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		query := r.URL.Query()
		customers, err := a.service.ListCustomers(r.Context(), domain.CustomerFilter{
			Search: query.Get("search"),
			Status: query.Get("status"),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeList(w, customers)
	case http.MethodPost:
		var req domain.CustomerCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		customer, err := a.service.CreateCustomer(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, customer, "Customer created")
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleCustomerActions(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/api/customers/")
	if len(parts) != 1 {
		a.handleNotFound(w, r)
		return
	}
	id, err := parseID(parts[0])
	if err != nil {
		writeError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		customer, err := a.service.GetCustomer(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, customer, "")
	case http.MethodPut, http.MethodPatch:
		var req domain.CustomerUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		customer, err := a.service.UpdateCustomer(r.Context(), id, req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, customer, "Customer updated")
	case http.MethodDelete:
		if err := a.service.DeleteCustomer(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]int64{"id": id}, "Customer deleted")
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleSales(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter, err := saleFilterFromQuery(r)
		if err != nil {
			writeError(w, err)
			return
		}
		sales, err := a.service.ListSales(r.Context(), filter)
		if err != nil {
			writeError(w, err)
			return
		}
		writeList(w, sales)
	case http.MethodPost:
		var req domain.SaleCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		sale, err := a.service.CreateSale(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, sale, "Sale created")
	default:
		writeMethodNotAllowed(w)
	}
}

func saleFilterFromQuery(r *http.Request) (domain.SaleFilter, error) {
	query := r.URL.Query()
	filter := domain.SaleFilter{Status: query.Get("status")}
	if raw := strings.TrimSpace(query.Get("customerId")); raw != "" {
		customerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return domain.SaleFilter{}, domain.ErrInvalidRequest
		}
		filter.CustomerID = customerID
	}
	return filter, nil
}

func (a *API) handleSaleActions(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/api/sales/")
	if len(parts) == 0 || len(parts) > 2 || (len(parts) == 2 && parts[1] != "cancel") {
		a.handleNotFound(w, r)
		return
	}
	id, err := parseID(parts[0])
	if err != nil {
		writeError(w, err)
		return
	}

	if len(parts) == 2 {
		if r.Method != http.MethodPost && r.Method != http.MethodPatch {
			writeMethodNotAllowed(w)
			return
		}
		sale, err := a.service.CancelSale(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, sale, "Sale cancelled")
		return
	}

	switch r.Method {
	case http.MethodGet:
		sale, err := a.service.GetSale(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, sale, "")
	case http.MethodPut, http.MethodPatch:
		var req domain.SaleUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		sale, err := a.service.UpdateSale(r.Context(), id, req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, sale, "Sale updated")
	case http.MethodDelete:
		if err := a.service.DeleteSale(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]int64{"id": id}, "Sale deleted")
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	summary, err := a.service.DashboardSummary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, summary, "")
}
