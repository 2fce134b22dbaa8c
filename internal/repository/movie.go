package repository

import (
	"context"

	"watchlist/internal/domain"
)

// MovieRepository exposes persistence operations for Movie entries.
type MovieRepository interface {
	Create(ctx context.Context, movie *domain.Movie) (int64, error)
	Update(ctx context.Context, movie *domain.Movie) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Movie, error)
	List(ctx context.Context) ([]domain.Movie, error)
}
