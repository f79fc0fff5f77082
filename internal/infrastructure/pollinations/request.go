package pollinations

import (
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"

	"github.com/basel-ax/dreamator/internal/domain"
)

const (
	// DefaultBaseURL is the generation endpoint; the prompt is appended as a path segment.
	DefaultBaseURL = "https://image.pollinations.ai/prompt"

	// MaxSeed is the exclusive upper bound of generated seeds.
	MaxSeed = 2147483647
)

// fixedParams are sent verbatim with every request.
var fixedParams = [][2]string{
	{"enhance", "true"},
	{"nologo", "true"},
	{"private", "true"},
	{"safe", "false"},
	{"width", "1024"},
	{"height", "1024"},
	{"guidance", "8"},
	{"steps", "30"},
}

// SeedSource draws a seed in [0, MaxSeed).
type SeedSource func() int64

// RandomSeed is the default SeedSource.
func RandomSeed() int64 {
	return rand.Int64N(MaxSeed)
}

// RequestBuilder turns a prompt and settings into a request URL.
type RequestBuilder struct {
	baseURL string
	catalog *domain.Catalog
	seed    SeedSource
}

// NewRequestBuilder creates a builder. Empty baseURL, nil catalog and nil
// seed fall back to the defaults.
func NewRequestBuilder(baseURL string, catalog *domain.Catalog, seed SeedSource) *RequestBuilder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if catalog == nil {
		catalog = domain.DefaultCatalog()
	}
	if seed == nil {
		seed = RandomSeed
	}
	return &RequestBuilder{
		baseURL: strings.TrimRight(baseURL, "/"),
		catalog: catalog,
		seed:    seed,
	}
}

// Build returns the request URL for prompt along with the settings actually used.
// The seed is reused only when keepSeed is set and settings.Seed is non-zero.
func (b *RequestBuilder) Build(prompt string, settings domain.GenerationSettings, keepSeed bool) (string, domain.GenerationSettings, error) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return "", domain.GenerationSettings{}, domain.ErrEmptyPrompt
	}

	seed := settings.Seed
	if !keepSeed || seed == 0 {
		seed = b.seed()
	}

	style := b.catalog.Lookup(settings.Model)
	enhanced := trimmed + style.PromptSuffix

	params := url.Values{}
	params.Set("seed", strconv.FormatInt(seed, 10))
	for _, p := range fixedParams {
		params.Set(p[0], p[1])
	}

	resolved := domain.GenerationSettings{
		Model:   style.ID,
		Seed:    seed,
		Enhance: true,
	}
	return b.baseURL + "/" + url.PathEscape(enhanced) + "?" + params.Encode(), resolved, nil
}
