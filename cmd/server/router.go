package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/phrazzld/flashquest/internal/api"
	apiMiddleware "github.com/phrazzld/flashquest/internal/api/middleware"
	"github.com/phrazzld/flashquest/internal/api/shared"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: app.config.Server.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", shared.TraceIDHeader},
		ExposedHeaders: []string{shared.TraceIDHeader},
	}).Handler)

	economyHandler := api.NewEconomyHandler(app.ledger, app.logger)
	setHandler := api.NewSetHandler(app.collection, app.logger)
	avatarHandler := api.NewUnlockHandler(app.avatars, app.logger)
	backgroundHandler := api.NewUnlockHandler(app.backgrounds, app.logger)
	gameHandler := api.NewGameHandler(app.tickets, app.games, app.logger)
	petHandler := api.NewPetHandler(app.pets, app.logger)
	quizHandler := api.NewQuizHandler(app.quiz, app.logger)
	changesHandler := api.NewChangesHandler(app.tracker)

	r.Route("/api", func(r chi.Router) {
		r.Get("/coins", economyHandler.GetBalance)
		r.Post("/coins/credit", economyHandler.Credit)
		r.Post("/coins/debit", economyHandler.Debit)
		r.Get("/catalog", economyHandler.GetCatalog)

		r.Route("/sets", func(r chi.Router) {
			r.Get("/", setHandler.ListSets)
			r.Post("/", setHandler.CreateSet)
			r.Post("/import", setHandler.ImportSet)
			r.Get("/{id}", setHandler.GetSet)
			r.Patch("/{id}", setHandler.RenameSet)
			r.Delete("/{id}", setHandler.DeleteSet)
			r.Post("/{id}/cards", setHandler.AddCard)
			r.Put("/{id}/cards/{index}", setHandler.UpdateCard)
			r.Delete("/{id}/cards/{index}", setHandler.DeleteCard)
		})

		mountUnlocks(r, "/avatars", avatarHandler)
		mountUnlocks(r, "/backgrounds", backgroundHandler)

		r.Route("/games", func(r chi.Router) {
			r.Get("/", gameHandler.ListGames)
			r.Post("/{id}/purchase", gameHandler.PurchaseTicket)
			r.Post("/{id}/play", gameHandler.Play)
			r.Post("/plays/{playID}/complete", gameHandler.Complete)
		})

		r.Route("/pets", func(r chi.Router) {
			r.Get("/", petHandler.ListPets)
			r.Post("/{id}/purchase", petHandler.Purchase)
			r.Post("/{id}/feed", petHandler.Feed)
			r.Post("/{id}/revive", petHandler.Revive)
		})

		r.Route("/quiz", func(r chi.Router) {
			r.Post("/", quizHandler.Start)
			r.Get("/{id}", quizHandler.Get)
			r.Post("/{id}/reveal", quizHandler.Reveal)
			r.Post("/{id}/grade", quizHandler.Grade)
			r.Post("/{id}/answer", quizHandler.Answer)
			r.Delete("/{id}", quizHandler.End)
		})

		r.Get("/changes", changesHandler.GetChanges)

		if app.config.Server.DevTools {
			devHandler := api.NewDevHandler(app.dev, app.logger)
			r.Post("/dev/coins", devHandler.GrantCoins)
			r.Post("/dev/reset", devHandler.Reset)
		}
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}

func mountUnlocks(r chi.Router, prefix string, h *api.UnlockHandler) {
	r.Route(prefix, func(r chi.Router) {
		r.Get("/", h.GetState)
		r.Post("/{id}/purchase", h.Purchase)
		r.Post("/{id}/equip", h.Equip)
	})
}

