package domain

// GenerationSettings holds the parameters of a single image request.
// A zero Seed means "unset".
type GenerationSettings struct {
	Model   string
	Seed    int64
	Enhance bool
}

// ImageSettings is the part of the settings persisted with an image.
type ImageSettings struct {
	Seed  int64  `json:"seed"`
	Model string `json:"model"`
}

// GeneratedImage represents a successfully generated image.
// URL is both the request URL and the durable address of the image.
type GeneratedImage struct {
	ID       string        `json:"id,omitempty"`
	URL      string        `json:"url"`
	Prompt   string        `json:"prompt"`
	Settings ImageSettings `json:"settings"`
}

// ShareData is what gets handed to the platform share capability.
type ShareData struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}
