package chat

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mkondo/teamlink/internal/auth"
	"github.com/mkondo/teamlink/pkg/response"
	"github.com/rs/zerolog/log"
)

// Handler handles HTTP requests for threads and messages
type Handler struct {
	app *App
}

// NewHandler creates a new chat handler
func NewHandler(app *App) *Handler {
	return &Handler{app: app}
}

// Routes returns the router for chat endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/threads", h.OpenThread)
	r.Get("/threads", h.ListThreads)
	r.Get("/threads/{id}/messages", h.ListMessages)
	r.Post("/threads/{id}/messages", h.Send)
	r.Post("/threads/{id}/read", h.MarkRead)
	return r
}

// OpenThread handles POST /chat/threads
func (h *Handler) OpenThread(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "authorization required")
		return
	}

	var req OpenThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	thread, err := h.app.GetOrCreateDirectThread(r.Context(), user.ID, req.TeamAID, req.TeamBID)
	if err != nil {
		log.Error().Err(err).Msg("open thread failed")
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, thread)
}

// ListThreads handles GET /chat/threads?team_id=
func (h *Handler) ListThreads(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "authorization required")
		return
	}
	teamID, err := uuid.Parse(r.URL.Query().Get("team_id"))
	if err != nil {
		response.BadRequest(w, "invalid team_id")
		return
	}
	threads, err := h.app.ListThreads(r.Context(), user.ID, teamID)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, threads)
}

// ListMessages handles GET /chat/threads/{id}/messages
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "authorization required")
		return
	}
	threadID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid thread id")
		return
	}
	messages, err := h.app.ListMessages(r.Context(), threadID, user.ID)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, messages)
}

// Send handles POST /chat/threads/{id}/messages
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "authorization required")
		return
	}
	threadID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid thread id")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	msg, err := h.app.Send(r.Context(), threadID, user.ID, req.TeamID, req.Body)
	if err != nil {
		log.Error().Err(err).Str("thread_id", threadID.String()).Msg("send failed")
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, msg)
}

// MarkRead handles POST /chat/threads/{id}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "authorization required")
		return
	}
	threadID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid thread id")
		return
	}
	if err := h.app.MarkRead(r.Context(), threadID, user.ID); err != nil {
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, nil)
}
