package app

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/basel-ax/dreamator/internal/domain"
)

type generateCall struct {
	prompt   string
	settings domain.GenerationSettings
	keepSeed bool
}

// fakeGenerator mimics the generation service: fresh seeds count up from
// nextSeed, kept seeds are reused.
type fakeGenerator struct {
	mu       sync.Mutex
	nextSeed int64
	calls    []generateCall
	err      error
	started  chan struct{}
	release  chan struct{}
}

func (f *fakeGenerator) FetchGeneratedImage(ctx context.Context, prompt string, settings domain.GenerationSettings, keepSeed bool) (*domain.GeneratedImage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, generateCall{prompt, settings, keepSeed})
	err := f.err
	seed := settings.Seed
	if !keepSeed || seed == 0 {
		f.nextSeed++
		seed = f.nextSeed
	}
	id := fmt.Sprintf("img-%d-%d", seed, len(f.calls))
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return &domain.GeneratedImage{
		ID:       id,
		URL:      fmt.Sprintf("https://example.test/%s?seed=%d", prompt, seed),
		Prompt:   prompt,
		Settings: domain.ImageSettings{Seed: seed, Model: settings.Model},
	}, nil
}

func (f *fakeGenerator) FetchGeneratedImages(ctx context.Context, prompt, model string, count int) ([]domain.GeneratedImage, error) {
	if f.started != nil {
		close(f.started)
		<-f.release
	}
	images := make([]domain.GeneratedImage, 0, count)
	for range count {
		img, err := f.FetchGeneratedImage(ctx, prompt, domain.GenerationSettings{Model: model}, false)
		if err != nil {
			return nil, err
		}
		images = append(images, *img)
	}
	return images, nil
}

// fakeGallery keeps the gallery in memory and counts saves.
type fakeGallery struct {
	mu     sync.Mutex
	images []domain.GeneratedImage
	saves  int
}

func (g *fakeGallery) LoadAll(context.Context) []domain.GeneratedImage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.images)
}

func (g *fakeGallery) SaveAll(_ context.Context, images []domain.GeneratedImage) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.images = slices.Clone(images)
	g.saves++
}

type fakeFetcher struct {
	data []byte
	err  error
	urls []string
}

func (f *fakeFetcher) FetchBytes(_ context.Context, url string) ([]byte, error) {
	f.urls = append(f.urls, url)
	return f.data, f.err
}

type fakeSharer struct {
	shared []domain.ShareData
	err    error
}

func (f *fakeSharer) Share(_ context.Context, data domain.ShareData) error {
	f.shared = append(f.shared, data)
	return f.err
}
