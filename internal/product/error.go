package product

import "tokoline-be/internal/apperror"

var (
	ErrProductNotFound = apperror.New(apperror.NotFound, "product not found")
	ErrInvalidPrice    = apperror.New(apperror.Validation, "product price must be positive")
	ErrInvalidStock    = apperror.New(apperror.Validation, "product stock cannot be negative")
)
