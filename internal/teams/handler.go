package teams

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mkondo/teamlink/internal/auth"
	"github.com/mkondo/teamlink/pkg/response"
	"github.com/rs/zerolog/log"
)

// Handler handles HTTP requests for the team read surface and match
// suggestions.
type Handler struct {
	app *App
}

// NewHandler creates a new teams handler
func NewHandler(app *App) *Handler {
	return &Handler{app: app}
}

// Routes returns the router for team endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/mine", h.ListMine)
	r.Get("/matches", h.Matches)
	r.Get("/{id}", h.GetByID)
	r.Get("/venues/{id}", h.GetVenue)
	return r
}

// List handles GET /teams
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.app.ListTeams(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list teams failed")
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, teams)
}

// ListMine handles GET /teams/mine
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "authorization required")
		return
	}
	teams, err := h.app.ListTeamsByOwner(r.Context(), user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("list own teams failed")
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, teams)
}

// Matches handles GET /teams/matches?date=YYYY-MM-DD returning ranked
// candidate pairs for that date.
func (h *Handler) Matches(w http.ResponseWriter, r *http.Request) {
	pairs, err := h.app.BuildMatches(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		log.Error().Err(err).Msg("build matches failed")
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, pairs)
}

// GetByID handles GET /teams/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid team id")
		return
	}
	team, err := h.app.GetTeam(r.Context(), id)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, team)
}

// GetVenue handles GET /teams/venues/{id}
func (h *Handler) GetVenue(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid venue id")
		return
	}
	venue, err := h.app.GetVenue(r.Context(), id)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, venue)
}
