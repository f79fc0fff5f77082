package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/basel-ax/dreamator/internal/domain"
)

// Generator is the single-image backend used by the service.
type Generator interface {
	GenerateImage(ctx context.Context, prompt string, settings domain.GenerationSettings, keepSeed bool) (*domain.GeneratedImage, error)
}

// ImageGenerationService implements the domain.ImageGenerator interface
type ImageGenerationService struct {
	client    Generator
	batchSize int
}

var _ domain.ImageGenerator = (*ImageGenerationService)(nil)

// NewImageGenerationService creates a new image generation service.
// batchSize is used when FetchGeneratedImages is called with a non-positive count.
func NewImageGenerationService(client Generator, batchSize int) *ImageGenerationService {
	if batchSize <= 0 {
		batchSize = 2
	}
	return &ImageGenerationService{
		client:    client,
		batchSize: batchSize,
	}
}

// FetchGeneratedImage requests a single image.
func (s *ImageGenerationService) FetchGeneratedImage(ctx context.Context, prompt string, settings domain.GenerationSettings, keepSeed bool) (*domain.GeneratedImage, error) {
	return s.client.GenerateImage(ctx, prompt, settings, keepSeed)
}

// FetchGeneratedImages requests count images concurrently and waits for all
// of them. The first failure cancels the remaining requests and is returned.
func (s *ImageGenerationService) FetchGeneratedImages(ctx context.Context, prompt, model string, count int) ([]domain.GeneratedImage, error) {
	if count <= 0 {
		count = s.batchSize
	}

	images := make([]domain.GeneratedImage, count)
	g, gctx := errgroup.WithContext(ctx)
	for i := range count {
		g.Go(func() error {
			img, err := s.client.GenerateImage(gctx, prompt, domain.GenerationSettings{Model: model}, false)
			if err != nil {
				return err
			}
			images[i] = *img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().Int("count", count).Str("model", model).Msg("Batch generated")
	return images, nil
}
