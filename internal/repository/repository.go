package repository

import (
	"errors"

	"github.com/Fi44er/points_bot/utils"
	"gorm.io/gorm"
)

// ErrNotFound is returned by mutations that matched no row. Lookups return
// nil, nil instead.
var ErrNotFound = errors.New("record not found")

type Repository struct {
	db     *gorm.DB
	logger *utils.Logger
}

func NewRepository(db *gorm.DB, logger *utils.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}
