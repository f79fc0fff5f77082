package domain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_Order(t *testing.T) {
	styles := DefaultCatalog().List()
	require.Len(t, styles, 4)

	ids := make([]string, len(styles))
	for i, s := range styles {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"balanced", "photorealistic", "anime", "3d"}, ids)
	assert.Equal(t, DefaultStyleID, styles[0].ID)
	assert.Empty(t, styles[0].PromptSuffix)
}

func TestCatalog_LookupFallsBackToFirst(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, "anime", c.Lookup("anime").ID)
	assert.Equal(t, DefaultStyleID, c.Lookup("watercolor").ID)
	assert.Equal(t, DefaultStyleID, c.Lookup("").ID)
	assert.True(t, c.Has("3d"))
	assert.False(t, c.Has("watercolor"))
}

func TestCatalog_ListIsACopy(t *testing.T) {
	c := DefaultCatalog()
	styles := c.List()
	styles[0].PromptSuffix = "mutated"

	assert.Empty(t, c.Lookup(DefaultStyleID).PromptSuffix)
}

func TestNewCatalog_Rejects(t *testing.T) {
	_, err := NewCatalog(nil)
	assert.Error(t, err)

	_, err = NewCatalog([]StyleOption{{ID: ""}})
	assert.Error(t, err)

	_, err = NewCatalog([]StyleOption{{ID: "a"}, {ID: "a"}})
	assert.ErrorContains(t, err, "duplicate")
}

func TestLoadCatalog(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		c, err := LoadCatalog("")
		require.NoError(t, err)
		assert.Len(t, c.List(), 4)
	})

	t.Run("extra styles appended", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "styles.yaml")
		content := `styles:
  - id: watercolor
    label: Watercolor
    description: Soft painted look
    promptSuffix: ", watercolor painting"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		c, err := LoadCatalog(path)
		require.NoError(t, err)
		styles := c.List()
		require.Len(t, styles, 5)
		assert.Equal(t, DefaultStyleID, styles[0].ID)
		assert.Equal(t, ", watercolor painting", c.Lookup("watercolor").PromptSuffix)
	})

	t.Run("builtin id cannot be redefined", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "styles.yaml")
		require.NoError(t, os.WriteFile(path, []byte("styles:\n  - id: anime\n"), 0o644))

		_, err := LoadCatalog(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrEmptyPrompt, "Prompt is required"},
		{fmt.Errorf("wrapped: %w", ErrServiceUnavailable), "The image generation service is currently unavailable. Please try again later."},
		{fmt.Errorf("%w: unexpected status 404 Not Found", ErrInvalidResponse), "Invalid response from the server"},
		{fmt.Errorf("%w: %w", ErrGenerationFailed, errors.New("dial tcp")), "Failed to generate image. Please try again."},
		{errors.New("anything else"), "Failed to generate image. Please try again."},
		{ErrDownloadFailed, `Failed to download image. Please try right-clicking and "Save Image As" instead.`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UserMessage(tt.err))
	}
}
