package user

import "tokoline-be/internal/apperror"

var (
	ErrUserNotFound       = apperror.New(apperror.NotFound, "user not found")
	ErrEmailExists        = apperror.New(apperror.Conflict, "email already registered")
	ErrInvalidCredentials = apperror.New(apperror.Validation, "invalid email or password")
)
