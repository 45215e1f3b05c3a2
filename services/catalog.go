package services

import (
	"context"

	"github.com/rpupo63/game-catalog-backend/database"
	"github.com/rpupo63/game-catalog-backend/errs"
	"github.com/rpupo63/game-catalog-backend/models"
	"github.com/rpupo63/game-catalog-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Catalog reads and administers games, categories and platforms.
type Catalog struct {
	query   *database.Query
	images  storage.ImageStore
	reviews *Reviews
	logger  zerolog.Logger
}

func NewCatalog(query *database.Query, images storage.ImageStore) *Catalog {
	return &Catalog{
		query:   query,
		images:  images,
		reviews: NewReviews(query),
		logger:  log.With().Str("service", "catalog").Logger(),
	}
}

// PlatformListing is one platform of a game with its price row and requirement rows.
// HasPrice and HasReleaseDate are false while Detail carries the unset sentinels.
type PlatformListing struct {
	Platform       *models.Platform            `json:"platform"`
	Detail         *models.GamePlatformDetail  `json:"detail,omitempty"`
	HasPrice       bool                        `json:"hasPrice"`
	HasReleaseDate bool                        `json:"hasReleaseDate"`
	Requirements   []*models.SystemRequirement `json:"requirements"`
}

// GameDetail is everything the game page shows.
type GameDetail struct {
	Game       *models.Game       `json:"game"`
	Categories []*models.Category `json:"categories"`
	Platforms  []PlatformListing  `json:"platforms"`
	Rating     RatingSummary      `json:"rating"`
	Prev       uint               `json:"prev"`
	Next       uint               `json:"next"`
}

type CategoryDetail struct {
	Category *models.Category `json:"category"`
	Games    []*models.Game   `json:"games"`
}

type PlatformDetail struct {
	Platform *models.Platform `json:"platform"`
	Games    []*models.Game   `json:"games"`
}

// ListGames returns every game, or those whose name contains search when it is not blank.
func (c *Catalog) ListGames(ctx context.Context, search string) ([]*models.Game, error) {
	sel := database.All()
	if search != "" {
		sel = database.BySearch(database.Fields{"Name": search})
	}
	res, err := c.query.Execute(ctx, database.KindGame, database.OpSelect, sel)
	if err != nil {
		return nil, err
	}
	return database.Records[*models.Game](res), nil
}

// Game returns the game with id.
func (c *Catalog) Game(ctx context.Context, id uint) (*models.Game, error) {
	res, err := c.query.Execute(ctx, database.KindGame, database.OpSelect, database.ByID(uint64(id)))
	if err != nil {
		return nil, err
	}
	game, ok := database.First[*models.Game](res)
	if !ok {
		return nil, errs.NotFound(database.KindGame.String())
	}
	return game, nil
}

func (c *Catalog) GameDetail(ctx context.Context, id uint) (*GameDetail, error) {
	game, err := c.Game(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &GameDetail{Game: game}

	res, err := c.query.Execute(ctx, database.KindGameCategory, database.OpSelect,
		database.ByFilters(database.Fields{"GameID": id}))
	if err != nil {
		return nil, err
	}
	categoryIDs := make([]uint, 0, res.Len())
	for _, link := range database.Records[*models.GameCategory](res) {
		categoryIDs = append(categoryIDs, link.CategoryID)
	}
	res, err = c.query.Execute(ctx, database.KindCategory, database.OpSelect,
		database.ByFilters(database.Fields{"ID": categoryIDs}))
	if err != nil {
		return nil, err
	}
	detail.Categories = database.Records[*models.Category](res)

	if detail.Platforms, err = c.listings(ctx, id); err != nil {
		return nil, err
	}
	if detail.Rating, err = c.reviews.Summary(ctx, id); err != nil {
		return nil, err
	}

	res, err = c.query.Execute(ctx, database.KindGame, database.OpNavigate, database.ByID(uint64(id)))
	if err != nil {
		return nil, err
	}
	detail.Prev, detail.Next = res.Prev, res.Next
	return detail, nil
}

// listings returns the platforms of a game in platform id order.
func (c *Catalog) listings(ctx context.Context, gameID uint) ([]PlatformListing, error) {
	byGame := database.ByFilters(database.Fields{"GameID": gameID})

	res, err := c.query.Execute(ctx, database.KindGamePlatform, database.OpSelect, byGame)
	if err != nil {
		return nil, err
	}
	platformIDs := make([]uint, 0, res.Len())
	for _, link := range database.Records[*models.GamePlatform](res) {
		platformIDs = append(platformIDs, link.PlatformID)
	}
	res, err = c.query.Execute(ctx, database.KindPlatform, database.OpSelect,
		database.ByFilters(database.Fields{"ID": platformIDs}))
	if err != nil {
		return nil, err
	}
	platforms := database.Records[*models.Platform](res)

	res, err = c.query.Execute(ctx, database.KindGamePlatformDetail, database.OpSelect, byGame)
	if err != nil {
		return nil, err
	}
	details := make(map[uint]*models.GamePlatformDetail, res.Len())
	for _, d := range database.Records[*models.GamePlatformDetail](res) {
		details[d.PlatformID] = d
	}

	res, err = c.query.Execute(ctx, database.KindSystemRequirement, database.OpSelect, byGame)
	if err != nil {
		return nil, err
	}
	requirements := make(map[uint][]*models.SystemRequirement)
	for _, r := range database.Records[*models.SystemRequirement](res) {
		requirements[r.PlatformID] = append(requirements[r.PlatformID], r)
	}

	out := make([]PlatformListing, 0, len(platforms))
	for _, p := range platforms {
		reqs := requirements[p.ID]
		if reqs == nil {
			reqs = []*models.SystemRequirement{}
		}
		listing := PlatformListing{Platform: p, Detail: details[p.ID], Requirements: reqs}
		if listing.Detail != nil {
			listing.HasPrice = listing.Detail.HasPrice()
			listing.HasReleaseDate = listing.Detail.HasReleaseDate()
		}
		out = append(out, listing)
	}
	return out, nil
}

func (c *Catalog) Categories(ctx context.Context) ([]*models.Category, error) {
	res, err := c.query.Execute(ctx, database.KindCategory, database.OpSelect, database.All())
	if err != nil {
		return nil, err
	}
	return database.Records[*models.Category](res), nil
}

// CategoryDetail returns a category with the games tagged with it.
func (c *Catalog) CategoryDetail(ctx context.Context, id uint) (*CategoryDetail, error) {
	res, err := c.query.Execute(ctx, database.KindCategory, database.OpSelect, database.ByID(uint64(id)))
	if err != nil {
		return nil, err
	}
	category, _ := database.First[*models.Category](res)

	res, err = c.query.Execute(ctx, database.KindGameCategory, database.OpSelect,
		database.ByFilters(database.Fields{"CategoryID": id}))
	if err != nil {
		return nil, err
	}
	gameIDs := make([]uint, 0, res.Len())
	for _, link := range database.Records[*models.GameCategory](res) {
		gameIDs = append(gameIDs, link.GameID)
	}
	games, err := c.gamesByID(ctx, gameIDs)
	if err != nil {
		return nil, err
	}
	return &CategoryDetail{Category: category, Games: games}, nil
}

func (c *Catalog) Platforms(ctx context.Context) ([]*models.Platform, error) {
	res, err := c.query.Execute(ctx, database.KindPlatform, database.OpSelect, database.All())
	if err != nil {
		return nil, err
	}
	return database.Records[*models.Platform](res), nil
}

// PlatformDetail returns a platform with the games available on it.
func (c *Catalog) PlatformDetail(ctx context.Context, id uint) (*PlatformDetail, error) {
	res, err := c.query.Execute(ctx, database.KindPlatform, database.OpSelect, database.ByID(uint64(id)))
	if err != nil {
		return nil, err
	}
	platform, _ := database.First[*models.Platform](res)

	res, err = c.query.Execute(ctx, database.KindGamePlatform, database.OpSelect,
		database.ByFilters(database.Fields{"PlatformID": id}))
	if err != nil {
		return nil, err
	}
	gameIDs := make([]uint, 0, res.Len())
	for _, link := range database.Records[*models.GamePlatform](res) {
		gameIDs = append(gameIDs, link.GameID)
	}
	games, err := c.gamesByID(ctx, gameIDs)
	if err != nil {
		return nil, err
	}
	return &PlatformDetail{Platform: platform, Games: games}, nil
}

func (c *Catalog) gamesByID(ctx context.Context, ids []uint) ([]*models.Game, error) {
	res, err := c.query.Execute(ctx, database.KindGame, database.OpSelect,
		database.ByFilters(database.Fields{"ID": ids}))
	if err != nil {
		return nil, err
	}
	return database.Records[*models.Game](res), nil
}

// storeImage saves an upload and returns its reference, or nil when there is no upload.
func (c *Catalog) storeImage(ctx context.Context, upload *ImageUpload) (*string, error) {
	if upload == nil {
		return nil, nil
	}
	if c.images == nil {
		return nil, errs.Internal("image uploads are not configured")
	}
	ref, err := c.images.Save(ctx, upload.Filename, upload.Content)
	if err != nil {
		return nil, errs.InternalWithCause("could not store the image", err)
	}
	return &ref, nil
}

// discardImage removes a stored image, logging instead of failing.
func (c *Catalog) discardImage(ctx context.Context, ref *string) {
	if ref == nil || c.images == nil {
		return
	}
	if err := c.images.Remove(ctx, *ref); err != nil {
		c.logger.Warn().Err(err).Str("image", *ref).Msg("could not remove image")
	}
}
