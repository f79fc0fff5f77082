package domain

import "context"

// ImageGenerator defines the interface for image generation operations
type ImageGenerator interface {
	// FetchGeneratedImage requests a single image. With keepSeed and a
	// non-zero settings.Seed the seed is reused, otherwise a fresh one is drawn.
	FetchGeneratedImage(ctx context.Context, prompt string, settings GenerationSettings, keepSeed bool) (*GeneratedImage, error)

	// FetchGeneratedImages requests count images concurrently, each with its
	// own random seed. Either all succeed or an error is returned.
	FetchGeneratedImages(ctx context.Context, prompt, model string, count int) ([]GeneratedImage, error)
}

// ImageFetcher downloads the bytes behind an image URL.
type ImageFetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// GalleryStore persists the gallery as a whole value.
// Both operations are best effort and never fail to the caller.
type GalleryStore interface {
	LoadAll(ctx context.Context) []GeneratedImage
	SaveAll(ctx context.Context, images []GeneratedImage)
}

// Sharer hands an image to a share target.
type Sharer interface {
	Share(ctx context.Context, data ShareData) error
}
