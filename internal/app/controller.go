package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/basel-ax/dreamator/internal/domain"
)

const (
	shareTitle = "Check out this AI-generated image!"
	shareText  = "Created with Dreamator AI"

	msgGenerated  = "Images generated successfully!"
	msgDownloaded = "Image downloaded successfully!"
)

// Dependencies are the collaborators the Controller drives.
type Dependencies struct {
	Generator domain.ImageGenerator
	Fetcher   domain.ImageFetcher
	Gallery   domain.GalleryStore
	Sharer    domain.Sharer
}

// Options tunes the Controller.
type Options struct {
	BatchSize   int
	DownloadDir string
}

// Controller orchestrates user actions and owns the application state.
// Observers receive a copy of the state after every change.
type Controller struct {
	deps Dependencies
	opts Options

	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
}

// NewController creates a controller and loads the persisted gallery.
func NewController(ctx context.Context, deps Dependencies, opts Options) *Controller {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 2
	}
	if opts.DownloadDir == "" {
		opts.DownloadDir = "."
	}
	return &Controller{
		deps: deps,
		opts: opts,
		state: State{
			Page:    PageHome,
			Results: []ResultView{},
			Gallery: deps.Gallery.LoadAll(ctx),
		},
		subs: make(map[int]func(State)),
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe registers fn to be called after every state change.
// The returned function removes the subscription.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// update applies fn to the state under the lock, then notifies subscribers.
func (c *Controller) update(fn func(s *State)) {
	c.mu.Lock()
	fn(&c.state)
	snapshot := c.state.clone()
	subs := make([]func(State), 0, len(c.subs))
	for _, s := range c.subs {
		subs = append(subs, s)
	}
	c.mu.Unlock()

	for _, s := range subs {
		s(snapshot)
	}
}

// Navigate switches the visible page.
func (c *Controller) Navigate(page Page) {
	c.update(func(s *State) { s.Page = page })
}

// Generate requests a batch of images for prompt, shows them as the
// current results and prepends them to the gallery.
func (c *Controller) Generate(ctx context.Context, prompt, model string) ([]domain.GeneratedImage, error) {
	var busy bool
	c.update(func(s *State) {
		if s.IsGenerating {
			busy = true
			return
		}
		s.IsGenerating = true
		s.Message = ""
	})
	if busy {
		return nil, domain.ErrBusy
	}

	images, err := c.deps.Generator.FetchGeneratedImages(ctx, prompt, model, c.opts.BatchSize)
	if err != nil {
		log.Error().Err(err).Str("prompt", prompt).Str("model", model).Msg("Error generating images")
		c.update(func(s *State) {
			s.IsGenerating = false
			s.Message = domain.UserMessage(err)
		})
		return nil, err
	}

	results := make([]ResultView, len(images))
	for i, img := range images {
		results[i] = ResultView{GeneratedImage: img}
	}

	c.update(func(s *State) {
		s.Results = results
		s.Gallery = append(append(make([]domain.GeneratedImage, 0, len(images)+len(s.Gallery)), images...), s.Gallery...)
		c.deps.Gallery.SaveAll(ctx, s.Gallery)
		s.IsGenerating = false
		s.Message = msgGenerated
	})
	return images, nil
}

// Edit regenerates result index with "<original prompt>, <editPrompt>" while
// keeping the original seed and model. The matching gallery entry, if any,
// is replaced; otherwise the gallery is left unchanged. A blank editPrompt
// is a no-op and returns (nil, nil).
func (c *Controller) Edit(ctx context.Context, index int, editPrompt string) (*domain.GeneratedImage, error) {
	if strings.TrimSpace(editPrompt) == "" {
		return nil, nil
	}

	var (
		original domain.GeneratedImage
		err      error
	)
	c.update(func(s *State) {
		if index < 0 || index >= len(s.Results) {
			err = fmt.Errorf("%w: %d", domain.ErrInvalidIndex, index)
			return
		}
		s.Results[index].IsLoading = true
		original = s.Results[index].GeneratedImage
	})
	if err != nil {
		return nil, err
	}

	combined := original.Prompt + ", " + editPrompt
	result, err := c.deps.Generator.FetchGeneratedImage(ctx, combined, domain.GenerationSettings{
		Model: original.Settings.Model,
		Seed:  original.Settings.Seed,
	}, true)
	if err != nil {
		log.Error().Err(err).Int("index", index).Msg("Error editing image")
		c.update(func(s *State) {
			if i := c.resultIndex(s, index, original.ID); i >= 0 {
				s.Results[i].IsLoading = false
			}
			s.Message = domain.UserMessage(err)
		})
		return nil, err
	}

	edited := original
	edited.URL = result.URL
	edited.Prompt = combined

	c.update(func(s *State) {
		if i := c.resultIndex(s, index, original.ID); i >= 0 {
			s.Results[i] = ResultView{GeneratedImage: edited}
		}
		if gi := galleryIndexFor(s.Gallery, original); gi >= 0 {
			s.Gallery[gi] = edited
			c.deps.Gallery.SaveAll(ctx, s.Gallery)
		} else {
			log.Debug().Int64("seed", original.Settings.Seed).Msg("Edited image has no gallery entry")
		}
	})
	return &edited, nil
}

// resultIndex returns index if that slot still holds the image with id.
func (c *Controller) resultIndex(s *State, index int, id string) int {
	if index < len(s.Results) && s.Results[index].ID == id {
		return index
	}
	return -1
}

func (c *Controller) resultAt(index int) (domain.GeneratedImage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.state.Results) {
		return domain.GeneratedImage{}, fmt.Errorf("%w: %d", domain.ErrInvalidIndex, index)
	}
	return c.state.Results[index].GeneratedImage, nil
}

// DownloadBytes fetches the image of result index and returns it with the
// file name to save it under.
func (c *Controller) DownloadBytes(ctx context.Context, index int, filename string) (string, []byte, error) {
	img, err := c.resultAt(index)
	if err != nil {
		return "", nil, err
	}

	data, err := c.deps.Fetcher.FetchBytes(ctx, img.URL)
	if err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
		log.Error().Err(err).Str("url", img.URL).Msg("Failed to download image")
		c.update(func(s *State) { s.Message = domain.UserMessage(err) })
		return "", nil, err
	}
	return downloadName(filename), data, nil
}

// Download saves the image of result index into the download directory and
// returns the written path.
func (c *Controller) Download(ctx context.Context, index int, filename string) (string, error) {
	name, data, err := c.DownloadBytes(ctx, index, filename)
	if err != nil {
		return "", err
	}

	path := filepath.Join(c.opts.DownloadDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
		log.Error().Err(err).Str("path", path).Msg("Failed to save image")
		c.update(func(s *State) { s.Message = domain.UserMessage(err) })
		return "", err
	}

	c.update(func(s *State) { s.Message = msgDownloaded })
	return path, nil
}

// Share hands result index to the sharer. Share failures are only logged.
func (c *Controller) Share(ctx context.Context, index int) (domain.ShareData, error) {
	img, err := c.resultAt(index)
	if err != nil {
		return domain.ShareData{}, err
	}

	data := domain.ShareData{Title: shareTitle, Text: shareText, URL: img.URL}
	if c.deps.Sharer != nil {
		if err := c.deps.Sharer.Share(ctx, data); err != nil {
			log.Error().Err(err).Str("url", img.URL).Msg("Error sharing image")
		}
	}
	return data, nil
}

// downloadName sanitises filename, generating one when empty and adding a
// .png extension when missing.
func downloadName(filename string) string {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "dreamator-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
	}
	if filepath.Ext(name) == "" {
		name += ".png"
	}
	return name
}
