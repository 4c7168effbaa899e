package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound             = errors.New("entity not found")
	ErrAlreadyExists        = errors.New("entity already exists")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrNoActiveSubscription = errors.New("no active subscription")
	ErrInvalidDuration      = errors.New("invalid duration")
	ErrCodeNotFound         = errors.New("activation code not found")
	ErrCodeAlreadyRedeemed  = errors.New("activation code already redeemed")
	ErrCodeExpired          = errors.New("activation code expired")
	ErrPassInProgress       = errors.New("reconciliation pass already in progress")

	// Infrastructure-layer errors surfaced through repositories.
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid execution context")
)
