package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"watchlist/internal/domain"
	"watchlist/internal/repository/orm"
)

// OpenStore opens a migrated sqlite store in a per-test directory. The store
// is closed through t.Cleanup.
func OpenStore(t *testing.T) *orm.Store {
	t.Helper()
	db, err := orm.Open(orm.Config{
		Driver: orm.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "watchlist.db"),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	store := orm.NewStore(db)
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return store
}

// CreateUser stores a user with the given credentials and returns it.
func CreateUser(t *testing.T, store *orm.Store, name, username, password string) *domain.User {
	t.Helper()
	user := &domain.User{Name: name, Username: username}
	if err := user.SetPassword(password); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if _, err := store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreateMovie stores a movie and returns it.
func CreateMovie(t *testing.T, store *orm.Store, title, year string) *domain.Movie {
	t.Helper()
	movie := &domain.Movie{Title: title, Year: year}
	if _, err := store.Movies().Create(context.Background(), movie); err != nil {
		t.Fatalf("create movie: %v", err)
	}
	return movie
}
