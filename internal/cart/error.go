package cart

import "tokoline-be/internal/apperror"

var (
	// -- Validation & Input --
	ErrInvalidQuantity = apperror.New(apperror.Validation, "quantity must be at least 1")

	// -- Resource State --
	ErrCartNotFound     = apperror.New(apperror.NotFound, "cart not found")
	ErrCartItemNotFound = apperror.New(apperror.NotFound, "cart item not found")
)
