package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/game-catalog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type gameHandler struct {
	responder Responder
	logger    zerolog.Logger
	catalog   *services.Catalog
	reviews   *services.Reviews
}

func newGameHandler(catalog *services.Catalog, reviews *services.Reviews) gameHandler {
	logger := log.With().Str("handlerName", "gameHandler").Logger()

	return gameHandler{
		responder: NewResponder(logger),
		logger:    logger,
		catalog:   catalog,
		reviews:   reviews,
	}
}

// getGames lists the games, optionally filtered by a name search
// @Summary List games
// @Tags Games
// @Produce json
// @Param search query string false "Part of the game name"
// @Success 200 {object} GameCollection
// @Failure 500 {object} ErrorResponse
// @Router /games [get]
func (h gameHandler) getGames() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search := strings.TrimSpace(r.URL.Query().Get("search"))

		games, err := h.catalog.ListGames(r.Context(), search)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		summaries := make([]GameSummary, 0, len(games))
		for _, g := range games {
			summaries = append(summaries, GameSummary{ID: g.ID, Name: g.Name, Developer: g.Developer, Image: g.Image})
		}
		h.responder.WriteJSON(w, GameCollection{Games: summaries, Search: search, Total: len(summaries)})
	}
}

// getGame returns the game page: categories, platforms with prices and requirements,
// rating and the neighbouring game ids
// @Summary Get game
// @Tags Games
// @Produce json
// @Param gameID path int true "Game ID"
// @Success 200 {object} GameDetailResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid gameID"
// @Failure 404 {object} ErrorResponse "Not Found - Game not found"
// @Router /games/{gameID} [get]
func (h gameHandler) getGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, err := urlID(r, "gameID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		detail, err := h.catalog.GameDetail(r.Context(), gameID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		response := GameDetailResponse{GameDetail: detail}
		mine, err := h.reviews.ForUser(r.Context(), ctxGetIdentity(r.Context()), gameID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if mine != nil {
			response.MyRating = mine.Rating
		}
		h.responder.WriteJSON(w, response)
	}
}
