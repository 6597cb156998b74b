package domain

import "errors"

// Error is a failure the HTTP layer can report by code. Wrap it with
// fmt.Errorf("%w: ...") to add context; errors.Is still matches the sentinel.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrInvalidRequest = &Error{Code: "INVALID_REQUEST", Message: "invalid request"}
	ErrMissingFields  = &Error{Code: "MISSING_FIELDS", Message: "missing required fields"}
	ErrInvalidStatus  = &Error{Code: "INVALID_STATUS", Message: "invalid status"}
	ErrInvalidID      = &Error{Code: "INVALID_ID", Message: "invalid id"}

	ErrProductNotFound  = &Error{Code: "PRODUCT_NOT_FOUND", Message: "product not found"}
	ErrCustomerNotFound = &Error{Code: "CUSTOMER_NOT_FOUND", Message: "customer not found"}
	ErrSaleNotFound     = &Error{Code: "SALE_NOT_FOUND", Message: "sale not found"}
	ErrUserNotFound     = &Error{Code: "USER_NOT_FOUND", Message: "user not found"}

	ErrMissingAuthToken   = &Error{Code: "MISSING_AUTH_TOKEN", Message: "authorization token required"}
	ErrInvalidTokenFormat = &Error{Code: "INVALID_TOKEN_FORMAT", Message: "authorization header must use the Bearer scheme"}
	ErrInvalidToken       = &Error{Code: "INVALID_TOKEN", Message: "invalid token"}
	ErrInvalidCredentials = &Error{Code: "INVALID_CREDENTIALS", Message: "invalid credentials"}
)

// CodeOf returns the code of the first *Error in err's chain, or "" when
// err carries none.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
