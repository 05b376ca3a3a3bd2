// Package services defines the record store for client records.
// This file centralizes the store's error values so that callers can match
// them with errors.Is / errors.As.
//
// These errors carry no user-facing wording; translation into messages
// shown to the user is performed by the shell.
package services

import (
	"errors"
	"fmt"

	"github.com/tbourn/cadastro-clientes/internal/domain"
)

var (
	// ErrStorageUnavailable indicates the backing SQLite file could not be
	// opened, read or written, or that the store was already shut down.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrUniquenessViolation is returned when a create would duplicate the
	// CPF, RG or Email of a live record.
	ErrUniquenessViolation = errors.New("uniqueness violation")

	// ErrInvalidInput is returned when a required field is empty.
	ErrInvalidInput = errors.New("invalid input")

	errStoreClosed = errors.New("store is shut down")
)

// StorageError wraps a database failure with the store operation that hit it.
// It matches ErrStorageUnavailable.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorageUnavailable, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is reports a match against ErrStorageUnavailable.
func (e *StorageError) Is(target error) bool { return target == ErrStorageUnavailable }

// UniquenessError names the unique field that conflicted with a live record.
// It matches ErrUniquenessViolation.
type UniquenessError struct {
	Field domain.Field
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("%s: %s already registered", ErrUniquenessViolation, e.Field)
}

// Is reports a match against ErrUniquenessViolation.
func (e *UniquenessError) Is(target error) bool { return target == ErrUniquenessViolation }

// InvalidInputError names the first required field found empty.
// It matches ErrInvalidInput.
type InvalidInputError struct {
	Field domain.Field
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s is required", ErrInvalidInput, e.Field)
}

// Is reports a match against ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }
