// Package services – ClientStore
//
// This file implements ClientStore, the durable and constraint-enforcing
// collection of client records. It owns the single SQLite handle for the
// lifetime of the process: OpenClientStore acquires it, Shutdown releases it.
//
// Invariants:
//   - ids are assigned by SQLite (AUTOINCREMENT) and never reused.
//   - cpf, rg and email are each unique across live records; a violating
//     create leaves the table unchanged and returns a *UniquenessError.
//   - every field is required to be non-blank; formats are not checked.
//
// Service-level errors (ErrStorageUnavailable, ErrUniquenessViolation,
// ErrInvalidInput) are returned for predictable cases so the shell can map
// them to user messages consistently.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/cadastro-clientes/internal/domain"
	"github.com/tbourn/cadastro-clientes/internal/observability"
	"github.com/tbourn/cadastro-clientes/internal/repo"
	"github.com/tbourn/cadastro-clientes/internal/sysutil"
)

// ClientStore is the record store for client records. It is not safe for
// concurrent use; the application drives it from a single goroutine.
type ClientStore struct {
	path       string
	db         *gorm.DB
	gormLogger logger.Interface
	metrics    *observability.Metrics
}

// Option customizes a ClientStore.
type Option func(*ClientStore)

// WithMetrics records store outcomes on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *ClientStore) { s.metrics = m }
}

// WithGormLogger routes SQL logging to l. The default is silent.
func WithGormLogger(l logger.Interface) Option {
	return func(s *ClientStore) { s.gormLogger = l }
}

// OpenClientStore opens (or creates) the SQLite file at path and ensures the
// schema exists. Failures are returned as *StorageError.
func OpenClientStore(ctx context.Context, path string, opts ...Option) (*ClientStore, error) {
	s := &ClientStore{path: path}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Initialize(ctx); err != nil {
		_ = s.Shutdown()
		return nil, err
	}
	return s, nil
}

// Path returns the SQLite file backing the store.
func (s *ClientStore) Path() string { return s.path }

// Initialize opens the connection when needed and migrates the schema.
// It is safe to call on an already initialized store, and reopens the file
// after a Shutdown.
func (s *ClientStore) Initialize(ctx context.Context) error {
	if s.db == nil {
		db, err := repo.OpenSQLite(s.path, s.gormLogger)
		if err != nil {
			return &StorageError{Op: "initialize", Err: err}
		}
		s.db = db
	}
	if err := repo.AutoMigrate(s.db.WithContext(ctx)); err != nil {
		return &StorageError{Op: "initialize", Err: err}
	}
	sysutil.LoggerFrom(ctx).Debug().Str("path", s.path).Msg("client store ready")
	return nil
}

// Create validates in and inserts it, returning the assigned id.
//
// Errors:
//   - *InvalidInputError when a field is blank (nothing is written).
//   - *UniquenessError naming cpf, rg or email when a live record already
//     holds that value (nothing is written).
//   - *StorageError for any other database failure.
func (s *ClientStore) Create(ctx context.Context, in domain.ClientInput) (uint, error) {
	lg := sysutil.LoggerFrom(ctx)

	if err := validateInput(in); err != nil {
		s.metrics.CreateFailed(observability.ReasonInvalidInput)
		return 0, err
	}
	db, err := s.handle("create")
	if err != nil {
		s.metrics.CreateFailed(observability.ReasonStorage)
		return 0, err
	}

	var id uint
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := repo.CreateClient(ctx, tx, in)
		if err != nil {
			if f, ok := uniqueColumn(err); ok {
				return &UniquenessError{Field: f}
			}
			if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err) {
				// Driver did not name the column; find it.
				f, lookupErr := conflictingField(ctx, tx, in)
				if lookupErr != nil {
					return lookupErr
				}
				return &UniquenessError{Field: f}
			}
			return err
		}
		id = c.ID
		return nil
	})

	var uerr *UniquenessError
	switch {
	case err == nil:
		s.metrics.ClientCreated()
		lg.Info().Uint("client_id", id).Msg("client created")
		return id, nil
	case errors.As(err, &uerr):
		s.metrics.CreateFailed(observability.ReasonUniqueness)
		lg.Info().Str("field", string(uerr.Field)).Msg("client rejected: duplicate")
		return 0, uerr
	default:
		s.metrics.CreateFailed(observability.ReasonStorage)
		return 0, &StorageError{Op: "create", Err: err}
	}
}

// List returns a snapshot of all live records in insertion order.
func (s *ClientStore) List(ctx context.Context) ([]domain.Client, error) {
	db, err := s.handle("list")
	if err != nil {
		return nil, err
	}
	out, err := repo.ListClients(ctx, db)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return out, nil
}

// Find returns the record with the given id. Absence is reported by the
// boolean, not as an error.
func (s *ClientStore) Find(ctx context.Context, id uint) (domain.Client, bool, error) {
	db, err := s.handle("find")
	if err != nil {
		return domain.Client{}, false, err
	}
	c, err := repo.GetClient(ctx, db, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Client{}, false, nil
		}
		return domain.Client{}, false, &StorageError{Op: "find", Err: err}
	}
	return *c, true, nil
}

// Delete removes the record with the given id. Deleting an id that does not
// exist succeeds silently.
func (s *ClientStore) Delete(ctx context.Context, id uint) error {
	db, err := s.handle("delete")
	if err != nil {
		return err
	}
	n, err := repo.DeleteClient(ctx, db, id)
	if err != nil {
		return &StorageError{Op: "delete", Err: err}
	}
	lg := sysutil.LoggerFrom(ctx)
	if n == 0 {
		lg.Debug().Uint("client_id", id).Msg("delete: no such client")
		return nil
	}
	s.metrics.ClientDeleted()
	lg.Info().Uint("client_id", id).Msg("client deleted")
	return nil
}

// Count returns the number of live records.
func (s *ClientStore) Count(ctx context.Context) (int64, error) {
	db, err := s.handle("count")
	if err != nil {
		return 0, err
	}
	n, err := repo.CountClients(ctx, db)
	if err != nil {
		return 0, &StorageError{Op: "count", Err: err}
	}
	return n, nil
}

// Shutdown releases the SQLite handle. Calling it more than once is a no-op.
func (s *ClientStore) Shutdown() error {
	if s.db == nil {
		return nil
	}
	err := repo.Close(s.db)
	s.db = nil
	if err != nil {
		return &StorageError{Op: "shutdown", Err: err}
	}
	return nil
}

func (s *ClientStore) handle(op string) (*gorm.DB, error) {
	if s.db == nil {
		return nil, &StorageError{Op: op, Err: errStoreClosed}
	}
	return s.db, nil
}

// validateInput returns an *InvalidInputError for the first blank field in
// form order.
func validateInput(in domain.ClientInput) error {
	for _, f := range domain.InputFields {
		if strings.TrimSpace(in.Value(f)) == "" {
			return &InvalidInputError{Field: f}
		}
	}
	return nil
}

// conflictingField looks up which unique field of in is already taken.
func conflictingField(ctx context.Context, tx *gorm.DB, in domain.ClientInput) (domain.Field, error) {
	for _, f := range domain.UniqueFields {
		taken, err := repo.ClientExists(ctx, tx, f, in.Value(f))
		if err != nil {
			return "", err
		}
		if taken {
			return f, nil
		}
	}
	return "", errors.New("unique constraint failed on unknown column")
}

// uniqueColumnRE extracts the column from SQLite's
// "UNIQUE constraint failed: clients.cpf" message.
var uniqueColumnRE = regexp.MustCompile(`(?i)unique constraint failed: \w+\.(\w+)`)

// uniqueColumn returns the unique field named in a SQLite constraint error.
func uniqueColumn(err error) (domain.Field, bool) {
	m := uniqueColumnRE.FindStringSubmatch(err.Error())
	if m == nil {
		return "", false
	}
	f := domain.Field(strings.ToLower(m[1]))
	if !f.IsUnique() {
		return "", false
	}
	return f, true
}

// isDuplicate attempts to detect unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
