package service

import (
	"context"

	"github.com/Fi44er/points_bot/internal/repository"
)

type store struct {
	*repository.Repository
}

// NewStore adapts the gorm repository to the Repository interface.
func NewStore(r *repository.Repository) Repository {
	return store{r}
}

func (s store) InTransaction(ctx context.Context, fn func(repo Repository) error) error {
	return s.Repository.InTransaction(ctx, func(r *repository.Repository) error {
		return fn(store{r})
	})
}
