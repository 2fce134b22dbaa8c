package orm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"watchlist/internal/domain"
	"watchlist/internal/repository"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) repository.MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) Create(ctx context.Context, movie *domain.Movie) (int64, error) {
	if err := r.db.WithContext(ctx).Create(movie).Error; err != nil {
		return 0, fmt.Errorf("insert movie: %w", err)
	}
	return movie.ID, nil
}

func (r *MovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	res := r.db.WithContext(ctx).
		Model(movie).
		Select("Title", "Year", "UpdatedAt").
		Updates(movie)
	if res.Error != nil {
		return fmt.Errorf("update movie: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("movie %d: %w", movie.ID, repository.ErrNotFound)
	}
	return nil
}

func (r *MovieRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Movie{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete movie: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("movie %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *MovieRepository) Get(ctx context.Context, id int64) (*domain.Movie, error) {
	var movie domain.Movie
	if err := r.db.WithContext(ctx).First(&movie, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("movie %d: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("query movie: %w", err)
	}
	return &movie, nil
}

func (r *MovieRepository) List(ctx context.Context) ([]domain.Movie, error) {
	var movies []domain.Movie
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	return movies, nil
}
