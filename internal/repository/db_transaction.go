package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

func (r *Repository) BeginTransaction(ctx context.Context) (*gorm.DB, error) {
	r.logger.Debug("Starting transaction...")
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		r.logger.Errorf("Failed to start transaction: %v", tx.Error)
		return nil, tx.Error
	}
	return tx, nil
}

func (r *Repository) Commit(tx *gorm.DB) error {
	r.logger.Debug("Committing transaction...")
	if err := tx.Commit().Error; err != nil {
		r.logger.Errorf("Failed to commit transaction: %v", err)
		return err
	}
	return nil
}

func (r *Repository) Rollback(tx *gorm.DB) {
	r.logger.Debug("Rolling back transaction...")
	_ = tx.Rollback().Error
}

// WithTransaction returns a repository whose queries all run on tx.
func (r *Repository) WithTransaction(tx *gorm.DB) *Repository {
	return &Repository{db: tx, logger: r.logger}
}

// InTransaction runs fn inside one database transaction. Any error or panic
// from fn rolls it back.
func (r *Repository) InTransaction(ctx context.Context, fn func(repo *Repository) error) (err error) {
	tx, err := r.BeginTransaction(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Errorf("Panic occurred: %v", p)
			r.Rollback(tx)
			panic(p)
		}
	}()

	if err = fn(r.WithTransaction(tx)); err != nil {
		r.Rollback(tx)
		return err
	}

	if err = r.Commit(tx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
