package services

import (
	"context"
	"fmt"

	"github.com/rpupo63/game-catalog-backend/database"
	"github.com/rpupo63/game-catalog-backend/errs"
	"github.com/rpupo63/game-catalog-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MaxRating is the highest rating a user can give. A rating of 0 withdraws a review.
const MaxRating = 5

type Reviews struct {
	query  *database.Query
	logger zerolog.Logger
}

func NewReviews(query *database.Query) *Reviews {
	return &Reviews{
		query:  query,
		logger: log.With().Str("service", "reviews").Logger(),
	}
}

// RatingSummary is the average rating of a game over Count reviews.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Rate records a user's rating of a game, keeping at most one review per user and game.
// A value of 0 removes the existing review. It returns the stored review, nil after a removal.
func (r *Reviews) Rate(ctx context.Context, who Identity, gameID uint, value int) (*models.Review, error) {
	if !who.Authenticated() {
		return nil, errs.AuthRequired("You need to log in to rate games")
	}
	if value < 0 || value > MaxRating {
		return nil, errs.NewInvalidFieldError("rating", fmt.Sprintf("rating must be between 0 and %d", MaxRating))
	}

	var review *models.Review
	err := r.query.Transaction(ctx, func(q *database.Query) error {
		if _, err := q.Execute(ctx, database.KindGame, database.OpSelect, database.ByID(uint64(gameID))); err != nil {
			return err
		}

		key := database.Fields{"UserID": who.AccountID, "GameID": gameID}
		res, err := q.Execute(ctx, database.KindReview, database.OpSelect, database.ByFilters(key))
		if err != nil {
			return err
		}
		existing, found := database.First[*models.Review](res)

		switch {
		case value == 0 && !found:
			return nil
		case value == 0:
			_, err = q.Execute(ctx, database.KindReview, database.OpDelete, database.ByID(uint64(existing.ID)))
			return err
		case found:
			res, err = q.Execute(ctx, database.KindReview, database.OpUpdate,
				database.ByID(uint64(existing.ID)).Set(database.Fields{"Rating": value}))
		default:
			res, err = q.Execute(ctx, database.KindReview, database.OpInsert,
				database.WithData(merge(key, database.Fields{"Rating": value})))
		}
		if err != nil {
			return err
		}
		review, _ = database.First[*models.Review](res)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug().Uint("accountID", who.AccountID).Uint("gameID", gameID).Int("rating", value).Msg("game rated")
	return review, nil
}

// Summary averages the ratings of a game. A game without reviews has a zero summary.
func (r *Reviews) Summary(ctx context.Context, gameID uint) (RatingSummary, error) {
	res, err := r.query.Execute(ctx, database.KindReview, database.OpSelect,
		database.ByFilters(database.Fields{"GameID": gameID}))
	if err != nil {
		return RatingSummary{}, err
	}
	reviews := database.Records[*models.Review](res)
	if len(reviews) == 0 {
		return RatingSummary{}, nil
	}
	total := 0
	for _, review := range reviews {
		total += review.Rating
	}
	return RatingSummary{Average: float64(total) / float64(len(reviews)), Count: len(reviews)}, nil
}

// ForUser returns the review who left on a game, if any.
func (r *Reviews) ForUser(ctx context.Context, who Identity, gameID uint) (*models.Review, error) {
	if !who.Authenticated() {
		return nil, nil
	}
	res, err := r.query.Execute(ctx, database.KindReview, database.OpSelect,
		database.ByFilters(database.Fields{"UserID": who.AccountID, "GameID": gameID}))
	if err != nil {
		return nil, err
	}
	review, _ := database.First[*models.Review](res)
	return review, nil
}
