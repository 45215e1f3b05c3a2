package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rpupo63/game-catalog-backend/errs"
	"github.com/rpupo63/game-catalog-backend/services"
	"github.com/rs/zerolog/log"
)

type reviewHandler struct {
	responder Responder
	reviews   *services.Reviews
}

func newReviewHandler(reviews *services.Reviews) reviewHandler {
	logger := log.With().Str("handlerName", "reviewHandler").Logger()

	return reviewHandler{
		responder: NewResponder(logger),
		reviews:   reviews,
	}
}

// rateGame stores, changes or (with 0) withdraws the caller's rating of a game
// @Summary Rate game
// @Tags Reviews
// @Accept json
// @Produce json
// @Param gameID path int true "Game ID"
// @Param rating body RatingRequest true "Rating from 0 to 5"
// @Success 200 {object} RatingResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /games/{gameID}/rating [post]
func (h reviewHandler) rateGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, err := urlID(r, "gameID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		rating, err := parseRating(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		who := ctxGetIdentity(r.Context())
		if _, err := h.reviews.Rate(r.Context(), who, gameID, rating); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		summary, err := h.reviews.Summary(r.Context(), gameID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, RatingResponse{
			GameID:  gameID,
			Rating:  rating,
			Average: summary.Average,
			Count:   summary.Count,
		})
	}
}

func parseRating(r *http.Request) (int, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req RatingRequest
		if err := decodeJSON(r, &req); err != nil {
			return 0, err
		}
		return req.Rating, nil
	}
	if err := parseForm(r); err != nil {
		return 0, err
	}
	raw := strings.TrimSpace(r.PostFormValue("rating"))
	if raw == "" {
		return 0, errs.NewMissingRequiredFieldError("rating")
	}
	rating, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewInvalidFieldError("rating", "rating must be a whole number")
	}
	return rating, nil
}
