package service

import (
	"context"

	"watchlist/internal/domain"
	"watchlist/internal/repository"
)

// MovieService coordinates watchlist entry operations backed by a repository.
type MovieService interface {
	ListMovies(ctx context.Context) ([]domain.Movie, error)
	GetMovie(ctx context.Context, id int64) (*domain.Movie, error)
	CreateMovie(ctx context.Context, title, year string) (*domain.Movie, error)
	UpdateMovie(ctx context.Context, id int64, title, year string) (*domain.Movie, error)
	DeleteMovie(ctx context.Context, id int64) error
}

type movieService struct {
	movies repository.MovieRepository
}

func NewMovieService(movies repository.MovieRepository) MovieService {
	return &movieService{movies: movies}
}

func (s *movieService) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	return s.movies.List(ctx)
}

func (s *movieService) GetMovie(ctx context.Context, id int64) (*domain.Movie, error) {
	return s.movies.Get(ctx, id)
}

func (s *movieService) CreateMovie(ctx context.Context, title, year string) (*domain.Movie, error) {
	if err := ValidateMovie(title, year); err != nil {
		return nil, err
	}

	movie := &domain.Movie{Title: title, Year: year}
	if _, err := s.movies.Create(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

// UpdateMovie looks the entry up before validating, so a missing id reports
// ErrNotFound whatever the input.
func (s *movieService) UpdateMovie(ctx context.Context, id int64, title, year string) (*domain.Movie, error) {
	movie, err := s.movies.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateMovie(title, year); err != nil {
		return nil, err
	}

	movie.Title = title
	movie.Year = year
	if err := s.movies.Update(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, id int64) error {
	return s.movies.Delete(ctx, id)
}
