// api/errors/decision_errors.go
package errors

import "errors"

var (
	ErrInvalidDecisionRequest = errors.New("invalid decision request")
	ErrCatalogUnavailable     = errors.New("policy catalog unavailable")
	ErrDatabaseOperation      = errors.New("database operation failed")
	ErrInternalServer         = errors.New("internal server error")
)
