package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tbourn/cadastro-clientes/internal/domain"
)

func TestErrorTypes_MatchSentinels(t *testing.T) {
	cause := errors.New("boom")
	serr := &StorageError{Op: "list", Err: cause}
	if !errors.Is(serr, ErrStorageUnavailable) || !errors.Is(serr, cause) {
		t.Fatalf("StorageError should match sentinel and cause: %v", serr)
	}
	if !strings.Contains(serr.Error(), "list") || !strings.Contains(serr.Error(), "boom") {
		t.Fatalf("StorageError message = %q", serr.Error())
	}

	uerr := &UniquenessError{Field: domain.FieldEmail}
	wrapped := fmt.Errorf("shell: %w", uerr)
	if !errors.Is(wrapped, ErrUniquenessViolation) {
		t.Fatalf("wrapped UniquenessError should match sentinel")
	}
	if errors.Is(uerr, ErrStorageUnavailable) {
		t.Fatalf("UniquenessError must not match ErrStorageUnavailable")
	}
	if !strings.Contains(uerr.Error(), "email") {
		t.Fatalf("UniquenessError message = %q", uerr.Error())
	}

	ierr := &InvalidInputError{Field: domain.FieldPhone}
	if !errors.Is(ierr, ErrInvalidInput) || errors.Is(ierr, ErrUniquenessViolation) {
		t.Fatalf("InvalidInputError matching is wrong")
	}
	if !strings.Contains(ierr.Error(), "phone") {
		t.Fatalf("InvalidInputError message = %q", ierr.Error())
	}
}
