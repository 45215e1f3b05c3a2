package api

import (
	"net/http"

	"github.com/rpupo63/game-catalog-backend/services"
	"github.com/rs/zerolog/log"
)

type categoryHandler struct {
	responder Responder
	catalog   *services.Catalog
}

func newCategoryHandler(catalog *services.Catalog) categoryHandler {
	logger := log.With().Str("handlerName", "categoryHandler").Logger()

	return categoryHandler{
		responder: NewResponder(logger),
		catalog:   catalog,
	}
}

// @Summary List categories
// @Tags Categories
// @Produce json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (h categoryHandler) getCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.catalog.Categories(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, categories)
	}
}

// @Summary Get category with its games
// @Tags Categories
// @Produce json
// @Param categoryID path int true "Category ID"
// @Success 200 {object} services.CategoryDetail
// @Failure 404 {object} ErrorResponse
// @Router /categories/{categoryID} [get]
func (h categoryHandler) getCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := urlID(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		detail, err := h.catalog.CategoryDetail(r.Context(), categoryID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, detail)
	}
}
