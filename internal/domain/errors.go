package domain

import "errors"

var (
	// Generation errors
	ErrEmptyPrompt        = errors.New("prompt is required")
	ErrServiceUnavailable = errors.New("image generation service unavailable")
	ErrInvalidResponse    = errors.New("invalid response from image service")
	ErrGenerationFailed   = errors.New("image generation failed")

	// Controller errors
	ErrBusy           = errors.New("a generation is already in progress")
	ErrInvalidIndex   = errors.New("no image at this index")
	ErrDownloadFailed = errors.New("image download failed")
)

// UserMessage returns the short status text shown to the user for err.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyPrompt):
		return "Prompt is required"
	case errors.Is(err, ErrServiceUnavailable):
		return "The image generation service is currently unavailable. Please try again later."
	case errors.Is(err, ErrInvalidResponse):
		return "Invalid response from the server"
	case errors.Is(err, ErrBusy):
		return "Please wait for the current generation to finish."
	case errors.Is(err, ErrInvalidIndex):
		return "That image no longer exists."
	case errors.Is(err, ErrDownloadFailed):
		return `Failed to download image. Please try right-clicking and "Save Image As" instead.`
	default:
		return "Failed to generate image. Please try again."
	}
}
