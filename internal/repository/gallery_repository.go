package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/basel-ax/dreamator/internal/domain"
)

// DefaultGalleryKey is the key the gallery is stored under.
const DefaultGalleryKey = "dreamator-gallery"

// GalleryRepository stores the whole gallery as one JSON value.
type GalleryRepository struct {
	store KVStore
	key   string
}

var _ domain.GalleryStore = (*GalleryRepository)(nil)

// NewGalleryRepository creates a gallery repository on top of store.
func NewGalleryRepository(store KVStore, key string) *GalleryRepository {
	if key == "" {
		key = DefaultGalleryKey
	}
	return &GalleryRepository{store: store, key: key}
}

// LoadAll returns the persisted gallery, newest first. Missing or
// unreadable data yields an empty gallery.
func (r *GalleryRepository) LoadAll(ctx context.Context) []domain.GeneratedImage {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Str("key", r.key).Msg("Failed to read gallery")
		}
		return []domain.GeneratedImage{}
	}

	var images []domain.GeneratedImage
	if err := json.Unmarshal(data, &images); err != nil {
		log.Warn().Err(err).Str("key", r.key).Msg("Stored gallery is corrupt, starting empty")
		return []domain.GeneratedImage{}
	}
	if images == nil {
		return []domain.GeneratedImage{}
	}
	return images
}

// SaveAll overwrites the persisted gallery. Failures are logged only.
func (r *GalleryRepository) SaveAll(ctx context.Context, images []domain.GeneratedImage) {
	if images == nil {
		images = []domain.GeneratedImage{}
	}
	data, err := json.Marshal(images)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode gallery")
		return
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		log.Error().Err(err).Str("key", r.key).Int("count", len(images)).Msg("Failed to save gallery")
	}
}
