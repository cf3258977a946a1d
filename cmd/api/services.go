package main

import (
	"database/sql"

	"github.com/jonboulle/clockwork"

	"github.com/mkondo/teamlink/internal/chat"
	"github.com/mkondo/teamlink/internal/db"
	"github.com/mkondo/teamlink/internal/requests"
	"github.com/mkondo/teamlink/internal/slots"
	"github.com/mkondo/teamlink/internal/teams"
)

type Services struct {
	Teams    *teams.Handler
	Slots    *slots.Handler
	Requests *requests.Handler
	Chat     *chat.Handler
}

func setupServices(database *sql.DB) *Services {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer → Handler layer
	queries := db.New(database)

	// Teams (read surface + match suggestions)
	teamsRepo := teams.NewRepository(queries)
	teamsApp := teams.NewApp(teamsRepo)
	teamsHandler := teams.NewHandler(teamsApp)

	// Slots
	slotsRepo := slots.NewRepository(queries)
	slotsApp := slots.NewApp(slotsRepo, teamsApp)
	slotsHandler := slots.NewHandler(slotsApp)

	// Requests
	requestsRepo := requests.NewRepository(queries)
	requestsApp := requests.NewApp(requestsRepo, slotsApp, teamsApp)
	requestsHandler := requests.NewHandler(requestsApp)

	// Chat
	chatRepo := chat.NewRepository(queries, database)
	chatApp := chat.NewApp(chatRepo, teamsApp, clockwork.NewRealClock())
	chatHandler := chat.NewHandler(chatApp)

	return &Services{
		Teams:    teamsHandler,
		Slots:    slotsHandler,
		Requests: requestsHandler,
		Chat:     chatHandler,
	}
}
