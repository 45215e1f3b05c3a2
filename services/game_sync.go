package services

import (
	"context"

	"github.com/rpupo63/game-catalog-backend/database"
	"github.com/rpupo63/game-catalog-backend/errs"
	"github.com/rpupo63/game-catalog-backend/models"
)

// AddGame stores a new game with its categories, platforms, requirements and listings.
// Everything is written in one transaction; on failure the uploaded image is removed too.
func (c *Catalog) AddGame(ctx context.Context, form GameForm) (*models.Game, error) {
	image, err := c.storeImage(ctx, form.Image)
	if err != nil {
		return nil, err
	}

	var game *models.Game
	err = c.query.Transaction(ctx, func(q *database.Query) error {
		res, err := q.Execute(ctx, database.KindGame, database.OpInsert, database.WithData(form.gameData(image)))
		if err != nil {
			return err
		}
		created, ok := database.First[*models.Game](res)
		if !ok {
			return errs.Internal("insert did not return the new game")
		}
		game = created

		if err := replaceCategories(ctx, q, game.ID, form.CategoryIDs); err != nil {
			return err
		}
		for _, platformID := range uniqueIDs(form.PlatformIDs) {
			if err := insertPlatform(ctx, q, game.ID, platformID, form); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.discardImage(ctx, image)
		c.logger.Warn().Err(err).Str("name", form.Name).Msg("add game failed")
		return nil, err
	}

	c.logger.Info().Uint("gameID", game.ID).Str("name", game.Name).Msg("game added")
	return game, nil
}

// UpdateGame rewrites a game from a form. Categories are replaced wholesale, platforms are
// reconciled: dropped platforms lose their link, requirements and listing, kept and new
// platforms have their rows updated or inserted.
func (c *Catalog) UpdateGame(ctx context.Context, gameID uint, form GameForm) (*models.Game, error) {
	existing, err := c.Game(ctx, gameID)
	if err != nil {
		return nil, err
	}

	image := existing.Image
	var uploaded *string
	if form.Image != nil {
		if uploaded, err = c.storeImage(ctx, form.Image); err != nil {
			return nil, err
		}
		image = uploaded
	}

	var game *models.Game
	err = c.query.Transaction(ctx, func(q *database.Query) error {
		res, err := q.Execute(ctx, database.KindGame, database.OpUpdate,
			database.ByID(uint64(gameID)).Set(form.gameData(image)))
		if err != nil {
			return err
		}
		game, _ = database.First[*models.Game](res)

		if err := replaceCategories(ctx, q, gameID, form.CategoryIDs); err != nil {
			return err
		}
		return syncPlatforms(ctx, q, gameID, form)
	})
	if err != nil {
		c.discardImage(ctx, uploaded)
		c.logger.Warn().Err(err).Uint("gameID", gameID).Msg("update game failed")
		return nil, err
	}

	if uploaded != nil {
		c.discardImage(ctx, existing.Image)
	}
	c.logger.Info().Uint("gameID", gameID).Str("name", game.Name).Msg("game updated")
	return game, nil
}

// DeleteGame removes a game and every row that belongs to it.
func (c *Catalog) DeleteGame(ctx context.Context, gameID uint) error {
	game, err := c.Game(ctx, gameID)
	if err != nil {
		return err
	}
	if _, err := c.query.Execute(ctx, database.KindGame, database.OpDelete, database.ByID(uint64(gameID))); err != nil {
		return err
	}
	c.discardImage(ctx, game.Image)
	c.logger.Info().Uint("gameID", gameID).Str("name", game.Name).Msg("game deleted")
	return nil
}

// ReplaceAssociations sets the categories of a game to exactly categoryIDs.
func (c *Catalog) ReplaceAssociations(ctx context.Context, gameID uint, categoryIDs []uint) error {
	return c.query.Transaction(ctx, func(q *database.Query) error {
		return replaceCategories(ctx, q, gameID, categoryIDs)
	})
}

func replaceCategories(ctx context.Context, q *database.Query, gameID uint, categoryIDs []uint) error {
	_, err := q.Execute(ctx, database.KindGameCategory, database.OpDelete,
		database.ByFilters(database.Fields{"GameID": gameID}))
	if err != nil {
		return err
	}
	for _, categoryID := range uniqueIDs(categoryIDs) {
		_, err := q.Execute(ctx, database.KindGameCategory, database.OpInsert,
			database.WithData(database.Fields{"GameID": gameID, "CategoryID": categoryID}))
		if err != nil {
			return err
		}
	}
	return nil
}

// insertPlatform writes the link, requirement rows and listing of a platform new to the game.
func insertPlatform(ctx context.Context, q *database.Query, gameID, platformID uint, form GameForm) error {
	key := database.Fields{"GameID": gameID, "PlatformID": platformID}
	if _, err := q.Execute(ctx, database.KindGamePlatform, database.OpInsert, database.WithData(key)); err != nil {
		return err
	}

	types, requirements := form.requirementsFor(platformID)
	for _, typ := range types {
		data := merge(key, requirements[typ])
		data["Type"] = typ
		if _, err := q.Execute(ctx, database.KindSystemRequirement, database.OpInsert, database.WithData(data)); err != nil {
			return err
		}
	}

	_, err := q.Execute(ctx, database.KindGamePlatformDetail, database.OpInsert,
		database.WithData(merge(key, form.listingFor(platformID))))
	return err
}

func syncPlatforms(ctx context.Context, q *database.Query, gameID uint, form GameForm) error {
	res, err := q.Execute(ctx, database.KindGamePlatform, database.OpSelect,
		database.ByFilters(database.Fields{"GameID": gameID}))
	if err != nil {
		return err
	}
	current := make(map[uint]bool, res.Len())
	for _, link := range database.Records[*models.GamePlatform](res) {
		current[link.PlatformID] = true
	}

	wanted := uniqueIDs(form.PlatformIDs)
	keep := make(map[uint]bool, len(wanted))
	for _, platformID := range wanted {
		keep[platformID] = true
	}

	for _, link := range database.Records[*models.GamePlatform](res) {
		if keep[link.PlatformID] {
			continue
		}
		if err := removePlatform(ctx, q, gameID, link.PlatformID); err != nil {
			return err
		}
	}

	for _, platformID := range wanted {
		key := database.Fields{"GameID": gameID, "PlatformID": platformID}
		if !current[platformID] {
			if _, err := q.Execute(ctx, database.KindGamePlatform, database.OpInsert, database.WithData(key)); err != nil {
				return err
			}
		}

		types, requirements := form.requirementsFor(platformID)
		for _, typ := range types {
			match := merge(key, database.Fields{"Type": typ})
			if err := upsert(ctx, q, database.KindSystemRequirement, match, requirements[typ]); err != nil {
				return err
			}
		}
		if err := upsert(ctx, q, database.KindGamePlatformDetail, key, form.listingFor(platformID)); err != nil {
			return err
		}
	}
	return nil
}

// removePlatform deletes the link, requirements and listing of one platform of a game.
func removePlatform(ctx context.Context, q *database.Query, gameID, platformID uint) error {
	key := database.ByFilters(database.Fields{"GameID": gameID, "PlatformID": platformID})
	for _, kind := range []database.Kind{
		database.KindGamePlatform,
		database.KindSystemRequirement,
		database.KindGamePlatformDetail,
	} {
		if _, err := q.Execute(ctx, kind, database.OpDelete, key); err != nil {
			return err
		}
	}
	return nil
}

// upsert updates the record matching match with data, or inserts match+data when there is none.
func upsert(ctx context.Context, q *database.Query, kind database.Kind, match, data database.Fields) error {
	res, err := q.Execute(ctx, kind, database.OpSelect, database.ByFilters(match))
	if err != nil {
		return err
	}
	if res.Len() > 0 {
		_, err = q.Execute(ctx, kind, database.OpUpdate, database.ByFilters(match).Set(data))
		return err
	}
	_, err = q.Execute(ctx, kind, database.OpInsert, database.WithData(merge(match, data)))
	return err
}
