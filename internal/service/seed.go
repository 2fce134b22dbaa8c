package service

import (
	"context"
	"fmt"

	"watchlist/internal/domain"
	"watchlist/internal/repository"
)

// DemoOwnerName is the display name given to the seeded user.
const DemoOwnerName = "Grey Li"

// DemoMovies is the list inserted by Seed.
var DemoMovies = []domain.Movie{
	{Title: "My Neighbor Totoro", Year: "1988"},
	{Title: "Dead Poets Society", Year: "1989"},
	{Title: "A Perfect World", Year: "1993"},
	{Title: "Leon", Year: "1994"},
	{Title: "Mahjong", Year: "1996"},
	{Title: "Swallowtail Butterfly", Year: "1996"},
	{Title: "King of Comedy", Year: "1999"},
	{Title: "Devils on the Doorstep", Year: "1999"},
	{Title: "WALL-E", Year: "2008"},
	{Title: "The Pork of Music", Year: "2012"},
}

// Seed inserts the demo owner and movies. Callers run it inside a
// transaction so a failure leaves nothing behind.
func Seed(ctx context.Context, users repository.UserRepository, movies repository.MovieRepository) error {
	if _, err := users.Create(ctx, &domain.User{Name: DemoOwnerName}); err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	for _, m := range DemoMovies {
		movie := m
		if _, err := movies.Create(ctx, &movie); err != nil {
			return fmt.Errorf("seed movie %q: %w", m.Title, err)
		}
	}
	return nil
}
