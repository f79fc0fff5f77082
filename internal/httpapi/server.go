package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/basel-ax/dreamator/internal/app"
	"github.com/basel-ax/dreamator/internal/domain"
)

// Server exposes the controller over HTTP.
type Server struct {
	controller     *app.Controller
	catalog        *domain.Catalog
	defaultModel   string
	allowedOrigins []string
}

// New creates a Server.
func New(controller *app.Controller, catalog *domain.Catalog, defaultModel string, allowedOrigins []string) *Server {
	return &Server{
		controller:     controller,
		catalog:        catalog,
		defaultModel:   defaultModel,
		allowedOrigins: allowedOrigins,
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
}

type editRequest struct {
	Index      int    `json:"index"`
	EditPrompt string `json:"editPrompt"`
}

type homeView struct {
	Results      []app.ResultView `json:"results"`
	IsGenerating bool             `json:"isGenerating"`
	Message      string           `json:"message"`
}

type galleryView struct {
	Images []domain.GeneratedImage `json:"images"`
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins(),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", s.handleHome)
	r.Get("/gallery", s.handleGallery)

	r.Route("/api", func(api chi.Router) {
		api.Get("/styles", s.handleStyles)
		api.Get("/state", s.handleState)
		api.Post("/generate", s.handleGenerate)
		api.Post("/edit", s.handleEdit)
		api.Get("/results/{index}/download", s.handleDownload)
		api.Post("/results/{index}/share", s.handleShare)
	})

	return r
}

func (s *Server) origins() []string {
	if len(s.allowedOrigins) == 0 {
		return []string{"*"}
	}
	return s.allowedOrigins
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.controller.Navigate(app.PageHome)
	st := s.controller.State()
	writeJSON(w, http.StatusOK, homeView{
		Results:      st.Results,
		IsGenerating: st.IsGenerating,
		Message:      st.Message,
	})
}

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	s.controller.Navigate(app.PageGallery)
	writeJSON(w, http.StatusOK, galleryView{Images: s.controller.State().Gallery})
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"styles":       s.catalog.List(),
		"defaultModel": s.defaultModel,
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.State())
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return
	}
	if req.Model == "" {
		req.Model = s.defaultModel
	}

	if _, err := s.controller.Generate(r.Context(), req.Prompt, req.Model); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	st := s.controller.State()
	writeJSON(w, http.StatusOK, homeView{Results: st.Results, Message: st.Message})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return
	}

	img, err := s.controller.Edit(r.Context(), req.Index, req.EditPrompt)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"image": img})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", domain.ErrInvalidIndex, err))
		return
	}

	name, data, err := s.controller.DownloadBytes(r.Context(), index, fmt.Sprintf("dreamator-%d", index+1))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Warn().Err(err).Msg("Failed to write download response")
	}
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", domain.ErrInvalidIndex, err))
		return
	}

	data, err := s.controller.Share(r.Context(), index)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyPrompt):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidIndex):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{
		"error":   err.Error(),
		"message": domain.UserMessage(err),
	})
}
