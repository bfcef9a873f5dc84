// Package store persists forum entities with GORM.
//
// Every store reads the active transaction from the context (see TxManager),
// so a service can run existence checks and writes atomically.
package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vnkhanh/forohub-backend/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// AutoMigrate creates or updates the forum schema.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Topic{},
		&models.Reply{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// translate maps gorm errors to store errors. The db must be opened with
// gorm.Config{TranslateError: true} for unique violations to be recognised.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

func exists(db *gorm.DB, model any, query string, args ...any) (bool, error) {
	var count int64
	if err := db.Model(model).Where(query, args...).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
