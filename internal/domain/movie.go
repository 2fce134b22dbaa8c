package domain

import "time"

// Movie is a single watchlist entry.
type Movie struct {
	ID        int64  `gorm:"primaryKey"`
	Title     string `gorm:"size:60;not null"`
	Year      string `gorm:"size:4;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
