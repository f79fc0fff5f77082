package app

import (
	"slices"

	"github.com/basel-ax/dreamator/internal/domain"
)

// Page identifies the view currently shown.
type Page string

const (
	PageHome    Page = "home"
	PageGallery Page = "gallery"
)

// ResultView is a displayed result together with its transient UI flags.
type ResultView struct {
	domain.GeneratedImage
	IsLoading bool `json:"isLoading"`
}

// State is the complete application state owned by the Controller.
type State struct {
	Page         Page                    `json:"page"`
	Results      []ResultView            `json:"results"`
	Gallery      []domain.GeneratedImage `json:"gallery"`
	IsGenerating bool                    `json:"isGenerating"`
	Message      string                  `json:"message"`
}

func (s State) clone() State {
	s.Results = slices.Clone(s.Results)
	s.Gallery = slices.Clone(s.Gallery)
	if s.Results == nil {
		s.Results = []ResultView{}
	}
	if s.Gallery == nil {
		s.Gallery = []domain.GeneratedImage{}
	}
	return s
}

// galleryIndexFor finds the gallery slot holding img: by ID when possible,
// otherwise the first entry with the same seed. Returns -1 if none matches.
func galleryIndexFor(gallery []domain.GeneratedImage, img domain.GeneratedImage) int {
	if img.ID != "" {
		if i := slices.IndexFunc(gallery, func(g domain.GeneratedImage) bool { return g.ID == img.ID }); i >= 0 {
			return i
		}
	}
	return slices.IndexFunc(gallery, func(g domain.GeneratedImage) bool {
		return g.Settings.Seed == img.Settings.Seed
	})
}
