package api

import "github.com/rpupo63/game-catalog-backend/services"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	gameHandler     gameHandler
	categoryHandler categoryHandler
	platformHandler platformHandler
	accountHandler  accountHandler
	reviewHandler   reviewHandler
	adminHandler    adminHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Code    int    `json:"code" example:"404"`
	Title   string `json:"title" example:"Page Not Found"`
	Message string `json:"message" example:"game not found"`
	Field   string `json:"field,omitempty" example:"game_name"`
	Details string `json:"details,omitempty" example:"failed to insert game"`
}

// GameCollection is the game listing page
type GameCollection struct {
	Games  []GameSummary `json:"games"`
	Search string        `json:"search,omitempty"`
	Total  int           `json:"total"`
}

// GameSummary is a game as shown in listings
type GameSummary struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Developer string  `json:"developer"`
	Image     *string `json:"image,omitempty"`
}

// RatingRequest is the body of a rating submission
type RatingRequest struct {
	Rating int `json:"rating" example:"4"`
}

// RatingResponse is the rating state of a game after a submission
type RatingResponse struct {
	GameID  uint    `json:"gameId"`
	Rating  int     `json:"rating"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// GameDetailResponse is the game page, with the caller's own rating when logged in
type GameDetailResponse struct {
	*services.GameDetail
	MyRating int `json:"myRating"`
}
