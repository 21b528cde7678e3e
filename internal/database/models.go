package database

import (
	"time"

	"gorm.io/gorm"
)

// WatchHistory is one watched episode. Episodes are unique by token.
type WatchHistory struct {
	ID           uint      `gorm:"primaryKey"`
	AnimeSlug    string    `gorm:"not null;index"`
	AnimeTitle   string    `gorm:"not null"`
	AnimePoster  string    `gorm:"default:''"`
	EpisodeSlug  string    `gorm:"not null;uniqueIndex"`
	EpisodeTitle string    `gorm:"default:''"`
	Progress     float64   `gorm:"not null;default:0"` // 0-100 percent
	CurrentTime  int       `gorm:"column:position;not null;default:0"` // seconds
	Duration     int       `gorm:"not null;default:0"` // seconds
	WatchedAt    time.Time `gorm:"index"`
}

// TableName overrides the table name
func (WatchHistory) TableName() string {
	return "watch_history"
}

// Favorite is a bookmarked anime. Anime are unique by token.
type Favorite struct {
	ID          uint      `gorm:"primaryKey"`
	AnimeSlug   string    `gorm:"not null;uniqueIndex"`
	AnimeTitle  string    `gorm:"not null"`
	AnimePoster string    `gorm:"default:''"`
	AddedAt     time.Time `gorm:"index"`
}

// TableName overrides the table name
func (Favorite) TableName() string {
	return "favorites"
}

// Migrate runs GORM AutoMigrate for all models
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&WatchHistory{},
		&Favorite{},
	)
}
