package pollinations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/basel-ax/dreamator/internal/domain"
)

// Client represents the Pollinations image API client
type Client struct {
	httpClient *http.Client
	builder    *RequestBuilder
}

// NewClient creates a new Pollinations API client. A zero timeout leaves the
// transport without a deadline.
func NewClient(builder *RequestBuilder, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		builder: builder,
	}
}

// GenerateImage builds the request URL, issues the GET and validates the response.
// Failures are always one of the domain generation errors.
func (c *Client) GenerateImage(ctx context.Context, prompt string, settings domain.GenerationSettings, keepSeed bool) (*domain.GeneratedImage, error) {
	img, err := c.generateImage(ctx, prompt, settings, keepSeed)
	if err != nil {
		log.Error().Err(err).Str("prompt", prompt).Msg("Error generating image")
		if isGenerationError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}
	return img, nil
}

func (c *Client) generateImage(ctx context.Context, prompt string, settings domain.GenerationSettings, keepSeed bool) (*domain.GeneratedImage, error) {
	reqURL, resolved, err := c.builder.Build(prompt, settings, keepSeed)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusInternalServerError {
			return nil, domain.ErrServiceUnavailable
		}
		return nil, fmt.Errorf("%w: unexpected status %s", domain.ErrInvalidResponse, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: content type %q", domain.ErrInvalidResponse, contentType)
	}

	log.Debug().
		Str("url", reqURL).
		Int64("seed", resolved.Seed).
		Str("model", resolved.Model).
		Msg("Image generated")

	return &domain.GeneratedImage{
		ID:     uuid.NewString(),
		URL:    reqURL,
		Prompt: strings.TrimSpace(prompt),
		Settings: domain.ImageSettings{
			Seed:  resolved.Seed,
			Model: resolved.Model,
		},
	}, nil
}

// FetchBytes downloads the image at url.
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

func isGenerationError(err error) bool {
	return errors.Is(err, domain.ErrEmptyPrompt) ||
		errors.Is(err, domain.ErrServiceUnavailable) ||
		errors.Is(err, domain.ErrInvalidResponse) ||
		errors.Is(err, domain.ErrGenerationFailed)
}
