package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes registers the public, logged in and admin routes
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)

		// Catalog
		r.Get("/games", handlers.gameHandler.getGames())
		r.Get("/games/{gameID}", handlers.gameHandler.getGame())
		r.Get("/categories", handlers.categoryHandler.getCategories())
		r.Get("/categories/{categoryID}", handlers.categoryHandler.getCategory())
		r.Get("/platforms", handlers.platformHandler.getPlatforms())
		r.Get("/platforms/{platformID}", handlers.platformHandler.getPlatform())

		// Accounts
		r.Post("/register", handlers.accountHandler.register())
		r.Post("/login", handlers.accountHandler.login())
		r.Post("/logout", handlers.accountHandler.logout())
		r.Get("/account", handlers.accountHandler.whoAmI())

		// Logged in
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.requireAuth)
			r.Post("/games/{gameID}/rating", handlers.reviewHandler.rateGame())
		})

		// Administrators
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware.requireAdmin)
			r.Post("/games", handlers.adminHandler.createGame())
			r.Put("/games/{gameID}", handlers.adminHandler.updateGame())
			r.Delete("/games/{gameID}", handlers.adminHandler.deleteGame())
			r.Post("/categories", handlers.adminHandler.createCategory())
			r.Put("/categories/{categoryID}", handlers.adminHandler.updateCategory())
			r.Delete("/categories/{categoryID}", handlers.adminHandler.deleteCategory())
		})
	})
}
