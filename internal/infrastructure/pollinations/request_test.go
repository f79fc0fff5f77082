package pollinations

import (
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basel-ax/dreamator/internal/domain"
)

// sequenceSeed returns 1, 2, 3, ... on successive calls.
func sequenceSeed() SeedSource {
	var n int64
	return func() int64 {
		n++
		return n
	}
}

func decodedPrompt(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(u.Path, "/prompt/"), "path %q", u.Path)
	return strings.TrimPrefix(u.Path, "/prompt/")
}

func query(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query()
}

func TestBuild_PromptWithStyleSuffix(t *testing.T) {
	catalog := domain.DefaultCatalog()
	b := NewRequestBuilder("", catalog, sequenceSeed())

	for _, style := range catalog.List() {
		raw, resolved, err := b.Build("  a cat / on a roof?  ", domain.GenerationSettings{Model: style.ID}, false)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(raw, DefaultBaseURL+"/"))
		assert.Equal(t, "a cat / on a roof?"+style.PromptSuffix, decodedPrompt(t, raw))
		assert.Equal(t, style.ID, resolved.Model)
		assert.True(t, resolved.Enhance)
	}
}

func TestBuild_FixedParameters(t *testing.T) {
	b := NewRequestBuilder("", nil, func() int64 { return 42 })

	raw, _, err := b.Build("a cat", domain.GenerationSettings{}, false)
	require.NoError(t, err)

	q := query(t, raw)
	want := map[string]string{
		"seed":     "42",
		"enhance":  "true",
		"nologo":   "true",
		"private":  "true",
		"safe":     "false",
		"width":    "1024",
		"height":   "1024",
		"guidance": "8",
		"steps":    "30",
	}
	assert.Len(t, q, len(want))
	for k, v := range want {
		assert.Equal(t, v, q.Get(k), "param %s", k)
	}
}

func TestBuild_UnknownStyleMatchesDefault(t *testing.T) {
	build := func(model string) (string, domain.GenerationSettings) {
		b := NewRequestBuilder("", nil, func() int64 { return 7 })
		raw, resolved, err := b.Build("a cat", domain.GenerationSettings{Model: model}, false)
		require.NoError(t, err)
		return raw, resolved
	}

	want, wantSettings := build(domain.DefaultStyleID)
	for _, model := range []string{"", "no-such-style"} {
		got, gotSettings := build(model)
		assert.Equal(t, want, got)
		assert.Equal(t, wantSettings, gotSettings)
	}
}

func TestBuild_SeedResolution(t *testing.T) {
	tests := []struct {
		name     string
		seed     int64
		keepSeed bool
		want     string
	}{
		{"keep supplied seed", 12345, true, "12345"},
		{"fresh seed without keepSeed", 12345, false, "1"},
		{"fresh seed when seed unset", 0, true, "1"},
		{"fresh seed when nothing kept", 0, false, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewRequestBuilder("", nil, sequenceSeed())
			raw, resolved, err := b.Build("a cat", domain.GenerationSettings{Seed: tt.seed}, tt.keepSeed)
			require.NoError(t, err)
			assert.Equal(t, tt.want, query(t, raw).Get("seed"))
			assert.Equal(t, tt.want, strconv.FormatInt(resolved.Seed, 10))
		})
	}
}

func TestBuild_RandomSeedsInRange(t *testing.T) {
	b := NewRequestBuilder("", nil, nil)

	var prev int64 = -1
	for range 200 {
		_, resolved, err := b.Build("a cat", domain.GenerationSettings{}, false)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, resolved.Seed, int64(0))
		assert.Less(t, resolved.Seed, int64(MaxSeed))
		assert.NotEqual(t, prev, resolved.Seed)
		prev = resolved.Seed
	}
}

func TestBuild_EmptyPrompt(t *testing.T) {
	b := NewRequestBuilder("", nil, nil)
	for _, prompt := range []string{"", "   ", "\t\n"} {
		_, _, err := b.Build(prompt, domain.GenerationSettings{Model: "anime"}, false)
		assert.ErrorIs(t, err, domain.ErrEmptyPrompt)
	}
}

func TestBuild_CustomBaseURL(t *testing.T) {
	b := NewRequestBuilder("http://localhost:9999/prompt/", nil, func() int64 { return 1 })
	raw, _, err := b.Build("x", domain.GenerationSettings{}, false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "http://localhost:9999/prompt/x?"), raw)
}
