package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dtarqui/project-ci-cd-sub000/internal/domain"
)

const minPhoneLength = 10

func (s *Service) ListCustomers(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	customers, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	status := strings.TrimSpace(filter.Status)

	result := make([]domain.Customer, 0, len(customers))
	for _, customer := range customers {
		if status != "" && !strings.EqualFold(customer.Status, status) {
			continue
		}
		if search != "" && !customerMatches(customer, search) {
			continue
		}
		result = append(result, customer)
	}
	return result, nil
}

func customerMatches(customer domain.Customer, needle string) bool {
	for _, field := range []string{customer.Name, customer.Email, customer.Phone, customer.City} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	customer, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return domain.Customer{}, translateNotFound(err, domain.ErrCustomerNotFound, id)
	}
	return *customer, nil
}

func (s *Service) CreateCustomer(ctx context.Context, req domain.CustomerCreateRequest) (domain.Customer, error) {
	customer := domain.Customer{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Phone:      strings.TrimSpace(req.Phone),
		Address:    strings.TrimSpace(req.Address),
		City:       strings.TrimSpace(req.City),
		PostalCode: strings.TrimSpace(req.PostalCode),
		Status:     domain.CustomerStatusActive,
	}
	if customer.Name == "" || customer.Email == "" || customer.Phone == "" {
		return domain.Customer{}, fmt.Errorf("%w: name, email and phone are required", domain.ErrMissingFields)
	}
	if strings.TrimSpace(req.Status) != "" {
		status, ok := domain.ParseCustomerStatus(req.Status)
		if !ok {
			return domain.Customer{}, fmt.Errorf("%w: unknown customer status %q", domain.ErrInvalidRequest, req.Status)
		}
		customer.Status = status
	}
	if err := validateContact(customer); err != nil {
		return domain.Customer{}, err
	}
	customer.RegisteredDate = s.timestamp()

	created, err := s.repo.CreateCustomer(ctx, customer)
	if err != nil {
		return domain.Customer{}, err
	}

	s.invalidateSummary(ctx, "customer create")
	return *created, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, req domain.CustomerUpdateRequest) (domain.Customer, error) {
	existing, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return domain.Customer{}, translateNotFound(err, domain.ErrCustomerNotFound, id)
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Customer{}, fmt.Errorf("%w: name must not be empty", domain.ErrInvalidRequest)
		}
		updated.Name = name
	}
	if req.Email != nil {
		updated.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		updated.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		updated.Address = strings.TrimSpace(*req.Address)
	}
	if req.City != nil {
		updated.City = strings.TrimSpace(*req.City)
	}
	if req.PostalCode != nil {
		updated.PostalCode = strings.TrimSpace(*req.PostalCode)
	}
	if req.Status != nil {
		status, ok := domain.ParseCustomerStatus(*req.Status)
		if !ok {
			return domain.Customer{}, fmt.Errorf("%w: unknown customer status %q", domain.ErrInvalidRequest, *req.Status)
		}
		updated.Status = status
	}
	if err := validateContact(updated); err != nil {
		return domain.Customer{}, err
	}

	saved, err := s.repo.UpdateCustomer(ctx, updated)
	if err != nil {
		return domain.Customer{}, translateNotFound(err, domain.ErrCustomerNotFound, id)
	}

	s.invalidateSummary(ctx, "customer update")
	return *saved, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCustomer(ctx, id); err != nil {
		return translateNotFound(err, domain.ErrCustomerNotFound, id)
	}
	s.invalidateSummary(ctx, "customer delete")
	return nil
}

func validateContact(customer domain.Customer) error {
	if !strings.Contains(customer.Email, "@") {
		return fmt.Errorf("%w: email must contain @", domain.ErrInvalidRequest)
	}
	if len(customer.Phone) < minPhoneLength {
		return fmt.Errorf("%w: phone must have at least %d characters", domain.ErrInvalidRequest, minPhoneLength)
	}
	return nil
}
