// Package backup exports the watchlist to object storage as a JSON document.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"watchlist/internal/domain"
	"watchlist/internal/repository"
	"watchlist/internal/storage"
)

const contentType = "application/json"

// Snapshot is the exported document. Password hashes are never included.
type Snapshot struct {
	TakenAt time.Time `json:"taken_at"`
	Users   []User    `json:"users"`
	Movies  []Movie   `json:"movies"`
}

type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type Movie struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Year  string `json:"year"`
}

// Exporter builds snapshots and uploads them.
type Exporter struct {
	users   repository.UserRepository
	movies  repository.MovieRepository
	storage storage.Service
	opts    storage.UploadOptions
	now     func() time.Time
}

func NewExporter(users repository.UserRepository, movies repository.MovieRepository, store storage.Service, bucket, keyPrefix string) *Exporter {
	return &Exporter{
		users:   users,
		movies:  movies,
		storage: store,
		opts: storage.UploadOptions{
			Bucket:      bucket,
			KeyPrefix:   keyPrefix,
			ContentType: contentType,
		},
		now: time.Now,
	}
}

// Snapshot reads the current users and movies.
func (e *Exporter) Snapshot(ctx context.Context) (*Snapshot, error) {
	users, err := e.users.List(ctx)
	if err != nil {
		return nil, err
	}
	movies, err := e.movies.List(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		TakenAt: e.now().UTC(),
		Users:   make([]User, len(users)),
		Movies:  make([]Movie, len(movies)),
	}
	for i := range users {
		snap.Users[i] = userRecord(users[i])
	}
	for i := range movies {
		snap.Movies[i] = movieRecord(movies[i])
	}
	return snap, nil
}

// Run uploads a fresh snapshot and returns its location.
func (e *Exporter) Run(ctx context.Context) (string, error) {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("build snapshot: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	name := fmt.Sprintf("watchlist-%s.json", snap.TakenAt.Format("20060102T150405Z"))
	return e.storage.Upload(ctx, name, bytes.NewReader(data), e.opts)
}

// List returns the backups stored under the configured prefix.
func (e *Exporter) List(ctx context.Context) ([]storage.ObjectInfo, error) {
	return e.storage.ListObjects(ctx, e.opts.Bucket, e.opts.KeyPrefix)
}

func userRecord(u domain.User) User {
	return User{ID: u.ID, Name: u.Name, Username: u.Username}
}

func movieRecord(m domain.Movie) Movie {
	return Movie{ID: m.ID, Title: m.Title, Year: m.Year}
}
