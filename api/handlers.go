package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/game-catalog-backend/database"
	"github.com/rpupo63/game-catalog-backend/errs"
	"github.com/rpupo63/game-catalog-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, deps dependencies, sessions sessions) *routeHandlers {
	catalog := services.NewCatalog(db.Query(), deps.images)
	reviews := services.NewReviews(db.Query())
	accounts := deps.accounts
	if accounts == nil {
		accounts = services.NewAccounts(db.Query())
	}

	return &routeHandlers{
		gameHandler:     newGameHandler(catalog, reviews),
		categoryHandler: newCategoryHandler(catalog),
		platformHandler: newPlatformHandler(catalog),
		accountHandler:  newAccountHandler(accounts, sessions),
		reviewHandler:   newReviewHandler(reviews),
		adminHandler:    newAdminHandler(catalog),
	}
}

// urlID reads a positive numeric id from the route parameter param.
func urlID(r *http.Request, param string) (uint, error) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		return 0, errs.NewMissingRequiredFieldError(param)
	}
	id, err := strconv.ParseUint(raw, 10, 63)
	if err != nil || id == 0 {
		return 0, errs.NewInvalidIDError(param)
	}
	return uint(id), nil
}
