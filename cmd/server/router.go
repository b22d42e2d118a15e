package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Pr0gger1/bank-api/internal/api"
	apiMiddleware "github.com/Pr0gger1/bank-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(app.authService)
	cardHandler := api.NewCardHandler(app.cardService)
	transferHandler := api.NewTransferHandler(app.transferService)
	userHandler := api.NewUserHandler(app.userService)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.authService)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/auth/logout", authHandler.Logout)

			// Card endpoints available to every authenticated user
			r.Get("/cards", cardHandler.SearchCards)
			r.Get("/cards/{id}", cardHandler.GetCard)
			r.Get("/cards/{id}/balance", cardHandler.GetBalance)

			// Funds transfer
			r.Post("/transactions", transferHandler.Transfer)

			// Admin-only card and user management
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAdmin)

				r.Post("/cards", cardHandler.CreateCard)
				r.Post("/cards/{id}/block", cardHandler.BlockCard)
				r.Post("/cards/{id}/activate", cardHandler.ActivateCard)
				r.Delete("/cards/{id}", cardHandler.DeleteCard)

				r.Get("/users", userHandler.ListUsers)
				r.Get("/users/{id}", userHandler.GetUser)
				r.Put("/users/{id}", userHandler.UpdateUser)
				r.Delete("/users/{id}", userHandler.DeleteUser)
			})
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
