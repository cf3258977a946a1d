package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mkondo/teamlink/internal/auth"
)

func setupServer(cfg *Config, services *Services) *http.Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})
	r.Use(c.Handler)

	setupHealthCheck(r)

	// Authenticated API surface
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(auth.HeaderSession{}))
		r.Mount("/teams", services.Teams.Routes())
		r.Mount("/slots", services.Slots.Routes())
		r.Mount("/requests", services.Requests.Routes())
		r.Mount("/chat", services.Chat.Routes())
	})

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.port()),
		Handler: h2c.NewHandler(r, &http2.Server{}),
	}
}

func setupHealthCheck(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}
