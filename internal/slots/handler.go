package slots

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mkondo/teamlink/internal/auth"
	"github.com/mkondo/teamlink/pkg/response"
	"github.com/rs/zerolog/log"
)

// Handler handles HTTP requests for slot operations
type Handler struct {
	app *App
}

// NewHandler creates a new slots handler
func NewHandler(app *App) *Handler {
	return &Handler{app: app}
}

// Routes returns the router for slot endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/calendar", h.Calendar)
	r.Get("/{id}", h.GetByID)
	return r
}

// List handles GET /slots?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.app.ListSlots(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		log.Error().Err(err).Msg("list slots failed")
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, summaries)
}

// Calendar handles GET /slots/calendar?from=&to= returning per-day counts.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.app.ListSlots(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		log.Error().Err(err).Msg("slot calendar failed")
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, CountByDate(summaries))
}

// Create handles POST /slots
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "authorization required")
		return
	}

	var req CreateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	slot, err := h.app.CreateSlot(r.Context(), user.ID, req)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("create slot failed")
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, slot)
}

// GetByID handles GET /slots/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid slot id")
		return
	}
	slot, err := h.app.GetSlot(r.Context(), id)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, slot)
}
