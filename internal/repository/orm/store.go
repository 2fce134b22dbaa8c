package orm

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"watchlist/internal/domain"
	"watchlist/internal/repository"
)

var models = []any{
	&domain.User{},
	&domain.Movie{},
}

// Store bundles the repositories sharing one gorm handle.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() repository.UserRepository {
	return NewUserRepository(s.db)
}

func (s *Store) Movies() repository.MovieRepository {
	return NewMovieRepository(s.db)
}

// Migrate creates missing tables and columns.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Drop removes every table owned by the application.
func (s *Store) Drop(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Migrator().DropTable(models...); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return nil
}

// Transaction runs fn against a Store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
