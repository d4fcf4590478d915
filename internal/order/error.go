package order

import "tokoline-be/internal/apperror"

var (
	ErrOrderNotFound            = apperror.New(apperror.NotFound, "order not found")
	ErrInvalidTransition        = apperror.New(apperror.Validation, "order can only be cancelled while pending")
	ErrInvalidPaymentMethod     = apperror.New(apperror.Validation, "invalid payment method")
	ErrUnknownTransactionStatus = apperror.New(apperror.UnknownStatus, "unknown transaction status")
	ErrFraudulentCallback       = apperror.New(apperror.Validation, "callback flagged as fraudulent")
)
