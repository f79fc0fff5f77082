package service

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basel-ax/dreamator/internal/domain"
)

// fakeClient hands out increasing seeds and can be told to fail a given call.
type fakeClient struct {
	mu       sync.Mutex
	calls    []fakeCall
	seq      atomic.Int64
	failCall int64
	failErr  error
	block    chan struct{}
}

type fakeCall struct {
	prompt   string
	settings domain.GenerationSettings
	keepSeed bool
}

func (f *fakeClient) GenerateImage(ctx context.Context, prompt string, settings domain.GenerationSettings, keepSeed bool) (*domain.GeneratedImage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{prompt, settings, keepSeed})
	f.mu.Unlock()

	n := f.seq.Add(1)
	if f.failErr != nil && n == f.failCall {
		return nil, f.failErr
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	seed := settings.Seed
	if !keepSeed || seed == 0 {
		seed = 1000 + n
	}
	return &domain.GeneratedImage{
		ID:       strconv.FormatInt(n, 10),
		URL:      "https://example.test/" + strconv.FormatInt(seed, 10),
		Prompt:   prompt,
		Settings: domain.ImageSettings{Seed: seed, Model: settings.Model},
	}, nil
}

func TestFetchGeneratedImages_AllSucceed(t *testing.T) {
	client := &fakeClient{}
	svc := NewImageGenerationService(client, 2)

	images, err := svc.FetchGeneratedImages(context.Background(), "a cat", "anime", 2)
	require.NoError(t, err)
	require.Len(t, images, 2)

	assert.NotEqual(t, images[0].Settings.Seed, images[1].Settings.Seed)
	for _, call := range client.calls {
		assert.Equal(t, "a cat", call.prompt)
		assert.Equal(t, "anime", call.settings.Model)
		assert.Zero(t, call.settings.Seed)
		assert.False(t, call.keepSeed)
	}
}

func TestFetchGeneratedImages_DefaultCount(t *testing.T) {
	client := &fakeClient{}
	svc := NewImageGenerationService(client, 3)

	images, err := svc.FetchGeneratedImages(context.Background(), "a cat", "", 0)
	require.NoError(t, err)
	assert.Len(t, images, 3)
}

func TestFetchGeneratedImages_OneFailureFailsBatch(t *testing.T) {
	client := &fakeClient{
		failCall: 1,
		failErr:  domain.ErrServiceUnavailable,
		block:    make(chan struct{}),
	}
	svc := NewImageGenerationService(client, 2)

	images, err := svc.FetchGeneratedImages(context.Background(), "a cat", "anime", 4)
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	assert.Nil(t, images)
}

func TestFetchGeneratedImage_Delegates(t *testing.T) {
	client := &fakeClient{}
	svc := NewImageGenerationService(client, 2)

	img, err := svc.FetchGeneratedImage(context.Background(), "a cat, wearing a hat", domain.GenerationSettings{Model: "anime", Seed: 12345}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), img.Settings.Seed)
	require.Len(t, client.calls, 1)
	assert.True(t, client.calls[0].keepSeed)
}

func TestFetchGeneratedImages_EmptyPrompt(t *testing.T) {
	client := &fakeClient{failCall: 1, failErr: domain.ErrEmptyPrompt}
	svc := NewImageGenerationService(client, 2)

	_, err := svc.FetchGeneratedImages(context.Background(), "  ", "anime", 1)
	assert.ErrorIs(t, err, domain.ErrEmptyPrompt)
}
