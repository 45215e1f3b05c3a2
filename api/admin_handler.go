package api

import (
	"net/http"
	"strconv"

	"github.com/rpupo63/game-catalog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type adminHandler struct {
	responder Responder
	logger    zerolog.Logger
	catalog   *services.Catalog
}

func newAdminHandler(catalog *services.Catalog) adminHandler {
	logger := log.With().Str("handlerName", "adminHandler").Logger()

	return adminHandler{
		responder: NewResponder(logger),
		logger:    logger,
		catalog:   catalog,
	}
}

// createGame adds a game from the admin game form
// @Summary Add game
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} models.Game
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid form"
// @Failure 403 {object} ErrorResponse "Forbidden - Not an administrator"
// @Failure 409 {object} ErrorResponse "Conflict - Game name already exists"
// @Router /admin/games [post]
func (h adminHandler) createGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := parseGameForm(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		defer form.Image.Close()

		game, err := h.catalog.AddGame(r.Context(), form)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.Header().Set("Location", gameLocation(game.ID))
		h.responder.WriteJSONStatus(w, http.StatusCreated, game)
	}
}

// updateGame rewrites a game from the admin game form
// @Summary Update game
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param gameID path int true "Game ID"
// @Success 200 {object} models.Game
// @Failure 404 {object} ErrorResponse
// @Router /admin/games/{gameID} [put]
func (h adminHandler) updateGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, err := urlID(r, "gameID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		form, err := parseGameForm(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		defer form.Image.Close()

		game, err := h.catalog.UpdateGame(r.Context(), gameID, form)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, game)
	}
}

// @Summary Delete game
// @Tags Admin
// @Param gameID path int true "Game ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /admin/games/{gameID} [delete]
func (h adminHandler) deleteGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, err := urlID(r, "gameID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.catalog.DeleteGame(r.Context(), gameID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// createCategory adds a category games can be tagged with
// @Summary Add category
// @Tags Admin
// @Accept json
// @Produce json
// @Param category body services.CategoryForm true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} ErrorResponse "Bad Request - Missing name"
// @Router /admin/categories [post]
func (h adminHandler) createCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := parseCategoryForm(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		category, err := h.catalog.AddCategory(r.Context(), form)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.Header().Set("Location", "/categories/"+strconv.FormatUint(uint64(category.ID), 10))
		h.responder.WriteJSONStatus(w, http.StatusCreated, category)
	}
}

// @Summary Update category
// @Tags Admin
// @Accept json
// @Produce json
// @Param categoryID path int true "Category ID"
// @Param category body services.CategoryForm true "Category"
// @Success 200 {object} models.Category
// @Failure 404 {object} ErrorResponse
// @Router /admin/categories/{categoryID} [put]
func (h adminHandler) updateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := urlID(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		form, err := parseCategoryForm(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		category, err := h.catalog.UpdateCategory(r.Context(), categoryID, form)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, category)
	}
}

// deleteCategory removes a category, the games it tagged stay
// @Summary Delete category
// @Tags Admin
// @Param categoryID path int true "Category ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /admin/categories/{categoryID} [delete]
func (h adminHandler) deleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := urlID(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.catalog.DeleteCategory(r.Context(), categoryID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func gameLocation(id uint) string {
	return "/games/" + strconv.FormatUint(uint64(id), 10)
}
