package requests

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mkondo/teamlink/internal/auth"
	"github.com/mkondo/teamlink/internal/models"
	"github.com/mkondo/teamlink/pkg/response"
	"github.com/rs/zerolog/log"
)

// Handler handles HTTP requests for the negotiation lifecycle
type Handler struct {
	app *App
}

// NewHandler creates a new requests handler
func NewHandler(app *App) *Handler {
	return &Handler{app: app}
}

// Routes returns the router for request endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Submit)
	r.Get("/", h.ListMine)
	r.Get("/slot/{slotId}", h.ListBySlot)
	r.Post("/{id}/accept", h.Accept)
	r.Post("/{id}/reject", h.Reject)
	r.Post("/{id}/cancel", h.Cancel)
	return r
}

// Submit handles POST /requests
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "authorization required")
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	created, err := h.app.Submit(r.Context(), req.SlotID, req.TeamID, user.ID)
	if err != nil {
		log.Error().Err(err).Str("slot_id", req.SlotID.String()).Msg("submit request failed")
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

// Accept handles POST /requests/{id}/accept
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.app.Accept)
}

// Reject handles POST /requests/{id}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.app.Reject)
}

// Cancel handles POST /requests/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.app.Cancel)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, requestID, callerUserID uuid.UUID) (*models.MatchRequest, error)) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "authorization required")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid request id")
		return
	}
	updated, err := fn(r.Context(), id, user.ID)
	if err != nil {
		log.Error().Err(err).Str("request_id", id.String()).Msg("request transition failed")
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

// ListMine handles GET /requests
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "authorization required")
		return
	}
	list, err := h.app.ListRequestsByUser(r.Context(), user.ID)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, list)
}

// ListBySlot handles GET /requests/slot/{slotId}
func (h *Handler) ListBySlot(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "authorization required")
		return
	}
	slotID, err := uuid.Parse(chi.URLParam(r, "slotId"))
	if err != nil {
		response.BadRequest(w, "invalid slot id")
		return
	}
	list, err := h.app.ListRequestsBySlot(r.Context(), slotID, user.ID)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, list)
}
