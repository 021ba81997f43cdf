package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientFunds indicates that a debit would push an account balance below zero.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrConflict indicates that a store transaction lost an optimistic concurrency
// race. Callers that can safely re-run the whole operation should retry a
// bounded number of times before surfacing the failure.
var ErrConflict = errors.New("transaction conflict")

// ErrRoomClosed indicates an operation on a room that has already been closed.
var ErrRoomClosed = errors.New("room is closed")
