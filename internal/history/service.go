package history

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/justchokingaround/anistream/internal/database"
)

const (
	// DefaultMaxItems caps the watch history
	DefaultMaxItems = 50
	// DefaultMaxFavorites caps the favorites list
	DefaultMaxFavorites = 100
	// DefaultContinueLimit is the size of the continue-watching shelf
	DefaultContinueLimit = 10
	// FinishedThreshold is the progress percent at which an episode counts
	// as watched
	FinishedThreshold = 90
)

// Service provides watch history and favorites management. Both lists are
// most-recent-first and bounded; the oldest entries are evicted on insert.
type Service struct {
	db           *gorm.DB
	maxItems     int
	maxFavorites int
	now          func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithLimits overrides the list caps. Non-positive values keep the default.
func WithLimits(maxItems, maxFavorites int) Option {
	return func(s *Service) {
		if maxItems > 0 {
			s.maxItems = maxItems
		}
		if maxFavorites > 0 {
			s.maxFavorites = maxFavorites
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new history service
func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		db:           db,
		maxItems:     DefaultMaxItems,
		maxFavorites: DefaultMaxFavorites,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddToWatchHistory records an episode as the most recently watched one,
// replacing any previous entry for the same episode token
func (s *Service) AddToWatchHistory(entry database.WatchHistory) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	if entry.EpisodeSlug == "" {
		return fmt.Errorf("episode slug is required")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("episode_slug = ?", entry.EpisodeSlug).Delete(&database.WatchHistory{}).Error; err != nil {
			return fmt.Errorf("failed to replace history entry: %w", err)
		}

		entry.ID = 0
		entry.WatchedAt = s.now().UTC()
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to add history entry: %w", err)
		}

		return evict(tx, &database.WatchHistory{}, "watched_at DESC, id DESC", s.maxItems)
	})
}

// UpdateProgress stores playback progress of an episode already in the
// history. It reports whether the episode was found.
func (s *Service) UpdateProgress(episodeSlug string, progress float64, currentTime, duration int) (bool, error) {
	if s.db == nil {
		return false, fmt.Errorf("database connection is nil")
	}

	result := s.db.Model(&database.WatchHistory{}).
		Where("episode_slug = ?", episodeSlug).
		Updates(map[string]interface{}{
			"progress":   progress,
			"position":   currentTime,
			"duration":   duration,
			"watched_at": s.now().UTC(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to update progress: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Remove deletes an episode from the history
func (s *Service) Remove(episodeSlug string) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	return s.db.Where("episode_slug = ?", episodeSlug).Delete(&database.WatchHistory{}).Error
}

// Clear deletes the whole watch history
func (s *Service) Clear() error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	return s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&database.WatchHistory{}).Error
}

// List returns the history, most recent first. limit <= 0 returns everything.
func (s *Service) List(limit int) ([]database.WatchHistory, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := s.db.Order("watched_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var items []database.WatchHistory
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	return items, nil
}

// ContinueWatching returns unfinished episodes, most recent first
func (s *Service) ContinueWatching(limit int) ([]database.WatchHistory, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if limit <= 0 {
		limit = DefaultContinueLimit
	}

	var items []database.WatchHistory
	err := s.db.Where("progress < ?", FinishedThreshold).
		Order("watched_at DESC, id DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch continue watching: %w", err)
	}
	return items, nil
}

// AddFavorite bookmarks an anime. Adding an anime that is already a
// favorite is a no-op and reports false.
func (s *Service) AddFavorite(fav database.Favorite) (bool, error) {
	if s.db == nil {
		return false, fmt.Errorf("database connection is nil")
	}
	if fav.AnimeSlug == "" {
		return false, fmt.Errorf("anime slug is required")
	}

	added := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing database.Favorite
		err := tx.Where("anime_slug = ?", fav.AnimeSlug).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up favorite: %w", err)
		}

		fav.ID = 0
		fav.AddedAt = s.now().UTC()
		if err := tx.Create(&fav).Error; err != nil {
			return fmt.Errorf("failed to add favorite: %w", err)
		}
		added = true

		return evict(tx, &database.Favorite{}, "added_at DESC, id DESC", s.maxFavorites)
	})
	return added, err
}

// RemoveFavorite deletes a favorite
func (s *Service) RemoveFavorite(animeSlug string) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	return s.db.Where("anime_slug = ?", animeSlug).Delete(&database.Favorite{}).Error
}

// IsFavorite reports whether an anime is bookmarked
func (s *Service) IsFavorite(animeSlug string) (bool, error) {
	if s.db == nil {
		return false, fmt.Errorf("database connection is nil")
	}

	var count int64
	if err := s.db.Model(&database.Favorite{}).Where("anime_slug = ?", animeSlug).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}

// ListFavorites returns favorites, most recently added first
func (s *Service) ListFavorites() ([]database.Favorite, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var items []database.Favorite
	if err := s.db.Order("added_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch favorites: %w", err)
	}
	return items, nil
}

// evict deletes every row of model beyond the first max in order
func evict(tx *gorm.DB, model interface{}, order string, max int) error {
	var ids []uint
	if err := tx.Model(model).Order(order).Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}
	if len(ids) <= max {
		return nil
	}

	if err := tx.Where("id IN ?", ids[max:]).Delete(model).Error; err != nil {
		return fmt.Errorf("failed to evict entries: %w", err)
	}
	return nil
}
