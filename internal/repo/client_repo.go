// Package repo implements the data persistence layer for client records,
// backed by GORM. This file provides repository functions for the Client model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: no business logic, only CRUD persistence and query composition.
//
// Error semantics:
//   - When a client is not found, GetClient returns gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated. Translation into typed errors is
//     done by services.ClientStore.
package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tbourn/cadastro-clientes/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateClient inserts a new client row. The id is assigned by SQLite and
// written back into the returned record.
func CreateClient(ctx context.Context, db *gorm.DB, in domain.ClientInput) (*domain.Client, error) {
	c := &domain.Client{
		Name:    in.Name,
		Address: in.Address,
		Phone:   in.Phone,
		CPF:     in.CPF,
		RG:      in.RG,
		Email:   in.Email,
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ListClients returns all clients ordered by id ascending, which is
// insertion order since ids are monotonic. It returns an empty, non-nil
// slice when the table is empty.
func ListClients(ctx context.Context, db *gorm.DB) ([]domain.Client, error) {
	out := []domain.Client{}
	err := db.WithContext(ctx).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// GetClient fetches a single client by id, or ErrNotFound if missing.
func GetClient(ctx context.Context, db *gorm.DB, id uint) (*domain.Client, error) {
	var c domain.Client
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteClient removes the client with the given id and reports how many
// rows were removed (0 or 1).
func DeleteClient(ctx context.Context, db *gorm.DB, id uint) (int64, error) {
	res := db.WithContext(ctx).Delete(&domain.Client{}, id)
	return res.RowsAffected, res.Error
}

// CountClients uses a raw COUNT so a missing table surfaces as an error.
func CountClients(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM clients").Scan(&total).Error
	return total, err
}

// ClientExists reports whether a live client holds value in the unique
// column f. Only fields with a uniqueness constraint may be queried.
func ClientExists(ctx context.Context, db *gorm.DB, f domain.Field, value string) (bool, error) {
	if !f.IsUnique() {
		return false, fmt.Errorf("field %q is not unique", f)
	}
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Client{}).
		Where(fmt.Sprintf("%s = ?", f), value).
		Count(&n).Error
	return n > 0, err
}
