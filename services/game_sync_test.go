package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rpupo63/game-catalog-backend/database"
	"github.com/rpupo63/game-catalog-backend/errs"
	"github.com/rpupo63/game-catalog-backend/models"
)

func pcAndPlayStationForm(categoryIDs ...uint) GameForm {
	price := 59.99
	release := time.Date(2023, 10, 20, 0, 0, 0, 0, time.UTC)
	return GameForm{
		Name:        "Spider Racer",
		Description: "Swing and race",
		Developer:   "Web Works",
		CategoryIDs: categoryIDs,
		PlatformIDs: []uint{models.PlatformPC, models.PlatformPlayStation},
		MinimumPC: RequirementFields{
			OS: "Windows 10", RAM: "8GB", CPU: "i5-8400", GPU: "GTX 1060", Storage: "70GB",
		},
		RecommendedPC: RequirementFields{
			OS: "Windows 11", RAM: "16GB", CPU: "i7-9700",
		},
		Listings: map[uint]ListingFields{
			models.PlatformPC:          {Price: &price, ReleaseDate: &release},
			models.PlatformPlayStation: {OS: "PS5", Storage: "80GB"},
		},
	}
}

func TestAddGameWritesEveryTable(t *testing.T) {
	ctx := context.Background()
	db, q := openTestDB(t)
	action := seedCategory(t, q, "Action")
	racing := seedCategory(t, q, "Racing")
	images := newMemImages()
	catalog := NewCatalog(q, images)

	form := pcAndPlayStationForm(action, racing, action)
	form.Image = &ImageUpload{Filename: "cover.png", Content: strings.NewReader("img")}
	game, err := catalog.AddGame(ctx, form)
	if err != nil {
		t.Fatalf("add game: %v", err)
	}
	if game.ID == 0 {
		t.Fatalf("expected the generated id on the returned game")
	}
	if game.Image == nil || images.saved[*game.Image] != "img" {
		t.Fatalf("image not stored, got %v", game.Image)
	}

	if n := count(t, db, &models.GameCategory{}, "game_id = ?", game.ID); n != 2 {
		t.Fatalf("expected 2 category links, got %d", n)
	}
	if n := count(t, db, &models.GamePlatform{}, "game_id = ?", game.ID); n != 2 {
		t.Fatalf("expected 2 platform links, got %d", n)
	}
	if n := count(t, db, &models.SystemRequirement{}, "game_id = ?", game.ID); n != 3 {
		t.Fatalf("expected 3 requirement rows, got %d", n)
	}

	var recommended models.SystemRequirement
	if err := db.Where("game_id = ? AND platform_id = ? AND type = ?", game.ID, models.PlatformPC, models.RequirementRecommended).
		Take(&recommended).Error; err != nil {
		t.Fatalf("recommended row: %v", err)
	}
	if recommended.GPU != models.NotApplicable || recommended.Storage != models.NotApplicable {
		t.Fatalf("blank recommended fields should be N/A, got GPU=%q Storage=%q", recommended.GPU, recommended.Storage)
	}
	if recommended.RAM != "16GB" {
		t.Fatalf("expected RAM 16GB, got %q", recommended.RAM)
	}

	var console models.SystemRequirement
	if err := db.Where("game_id = ? AND platform_id = ?", game.ID, models.PlatformPlayStation).Take(&console).Error; err != nil {
		t.Fatalf("console row: %v", err)
	}
	if console.Type != models.RequirementNormal || console.OS != "PS5" || console.Storage != "80GB" {
		t.Fatalf("unexpected console requirement %+v", console)
	}
	if console.CPU != models.NotApplicable || console.GPU != models.NotApplicable || console.RAM != models.NotApplicable {
		t.Fatalf("console CPU/GPU/RAM must be N/A, got %+v", console)
	}

	var pc, ps models.GamePlatformDetail
	db.Where("game_id = ? AND platform_id = ?", game.ID, models.PlatformPC).Take(&pc)
	db.Where("game_id = ? AND platform_id = ?", game.ID, models.PlatformPlayStation).Take(&ps)
	if pc.Price != 59.99 || pc.ReleaseDate != "2023-10-20" {
		t.Fatalf("unexpected PC listing %+v", pc)
	}
	if ps.Price != models.UnsetPrice || ps.ReleaseDate != models.UnsetReleaseDate {
		t.Fatalf("blank console listing should hold sentinels, got %+v", ps)
	}
	if ps.HasPrice() || ps.HasReleaseDate() {
		t.Fatalf("sentinel listing reports values")
	}
}

func TestAddGameZeroPriceIsKept(t *testing.T) {
	ctx := context.Background()
	db, q := openTestDB(t)
	catalog := NewCatalog(q, nil)

	free := 0.0
	game, err := catalog.AddGame(ctx, GameForm{
		Name:        "Free Game",
		PlatformIDs: []uint{models.PlatformXbox},
		Listings:    map[uint]ListingFields{models.PlatformXbox: {Price: &free}},
	})
	if err != nil {
		t.Fatalf("add game: %v", err)
	}
	var d models.GamePlatformDetail
	if err := db.Where("game_id = ?", game.ID).Take(&d).Error; err != nil {
		t.Fatalf("listing: %v", err)
	}
	if d.Price != 0 || !d.HasPrice() {
		t.Fatalf("expected a free listing, got %+v", d)
	}
}

func TestAddGameRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	db, q := openTestDB(t)
	images := newMemImages()
	catalog := NewCatalog(q, images)

	form := pcAndPlayStationForm(9999) // no such category
	form.Image = &ImageUpload{Filename: "cover.jpg", Content: strings.NewReader("img")}
	_, err := catalog.AddGame(ctx, form)
	if !errs.IsConflict(err) {
		t.Fatalf("expected a conflict for the unknown category, got %v", err)
	}

	for _, model := range []any{&models.Game{}, &models.GameCategory{}, &models.GamePlatform{}, &models.SystemRequirement{}, &models.GamePlatformDetail{}} {
		if n := count(t, db, model); n != 0 {
			t.Fatalf("%T: expected no rows after rollback, got %d", model, n)
		}
	}
	if len(images.saved) != 0 || len(images.removed) != 1 {
		t.Fatalf("expected the uploaded image to be discarded, saved=%v removed=%v", images.saved, images.removed)
	}
}

func TestAddGameDuplicateName(t *testing.T) {
	ctx := context.Background()
	_, q := openTestDB(t)
	catalog := NewCatalog(q, nil)

	if _, err := catalog.AddGame(ctx, pcAndPlayStationForm()); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := catalog.AddGame(ctx, pcAndPlayStationForm()); !errs.IsConflict(err) {
		t.Fatalf("expected a conflict for the duplicate name, got %v", err)
	}
}

func TestUpdateGameRemovesDroppedPlatform(t *testing.T) {
	ctx := context.Background()
	db, q := openTestDB(t)
	catalog := NewCatalog(q, nil)

	game, err := catalog.AddGame(ctx, pcAndPlayStationForm())
	if err != nil {
		t.Fatalf("add game: %v", err)
	}
	var before []models.SystemRequirement
	db.Where("game_id = ? AND platform_id = ?", game.ID, models.PlatformPC).Order("id").Find(&before)

	form := pcAndPlayStationForm()
	form.PlatformIDs = []uint{models.PlatformPC}
	if _, err := catalog.UpdateGame(ctx, game.ID, form); err != nil {
		t.Fatalf("update game: %v", err)
	}

	for _, model := range []any{&models.GamePlatform{}, &models.SystemRequirement{}, &models.GamePlatformDetail{}} {
		if n := count(t, db, model, "game_id = ? AND platform_id = ?", game.ID, models.PlatformPlayStation); n != 0 {
			t.Fatalf("%T: platform 2 rows should be gone, got %d", model, n)
		}
	}

	var after []models.SystemRequirement
	db.Where("game_id = ? AND platform_id = ?", game.ID, models.PlatformPC).Order("id").Find(&after)
	if len(after) != 2 {
		t.Fatalf("expected the PC pair to remain, got %d rows", len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("PC row changed: before %+v after %+v", before[i], after[i])
		}
	}
	if n := count(t, db, &models.GamePlatformDetail{}, "game_id = ? AND platform_id = ?", game.ID, models.PlatformPC); n != 1 {
		t.Fatalf("expected the PC listing to remain, got %d", n)
	}
}

func TestUpdateGameUpsertsRows(t *testing.T) {
	ctx := context.Background()
	db, q := openTestDB(t)
	action := seedCategory(t, q, "Action")
	puzzle := seedCategory(t, q, "Puzzle")
	images := newMemImages()
	catalog := NewCatalog(q, images)

	form := pcAndPlayStationForm(action)
	form.Image = &ImageUpload{Filename: "old.png", Content: strings.NewReader("old")}
	game, err := catalog.AddGame(ctx, form)
	if err != nil {
		t.Fatalf("add game: %v", err)
	}
	oldImage := *game.Image

	price := 19.5
	update := pcAndPlayStationForm(puzzle)
	update.Name = "Spider Racer GOTY"
	update.PlatformIDs = []uint{models.PlatformPC, models.PlatformXbox}
	update.MinimumPC.GPU = ""
	update.Listings[models.PlatformPC] = ListingFields{Price: &price}
	update.Listings[models.PlatformXbox] = ListingFields{OS: "Series X", Storage: "75GB"}

	updated, err := catalog.UpdateGame(ctx, game.ID, update)
	if err != nil {
		t.Fatalf("update game: %v", err)
	}
	if updated.Name != "Spider Racer GOTY" {
		t.Fatalf("name not updated, got %q", updated.Name)
	}
	if updated.Image == nil || *updated.Image != oldImage {
		t.Fatalf("image should be kept when none is submitted, got %v", updated.Image)
	}
	if len(images.removed) != 0 {
		t.Fatalf("kept image must not be removed, removed=%v", images.removed)
	}

	var links []models.GameCategory
	db.Where("game_id = ?", game.ID).Find(&links)
	if len(links) != 1 || links[0].CategoryID != puzzle {
		t.Fatalf("categories not replaced, got %+v", links)
	}

	var minimum models.SystemRequirement
	db.Where("game_id = ? AND platform_id = ? AND type = ?", game.ID, models.PlatformPC, models.RequirementMinimum).Take(&minimum)
	if minimum.GPU != models.NotApplicable {
		t.Fatalf("blanked GPU should become N/A, got %q", minimum.GPU)
	}
	if n := count(t, db, &models.SystemRequirement{}, "game_id = ? AND platform_id = ?", game.ID, models.PlatformPC); n != 2 {
		t.Fatalf("PC requirements must be updated in place, got %d rows", n)
	}

	var pc models.GamePlatformDetail
	db.Where("game_id = ? AND platform_id = ?", game.ID, models.PlatformPC).Take(&pc)
	if pc.Price != 19.5 || pc.ReleaseDate != models.UnsetReleaseDate {
		t.Fatalf("unexpected PC listing after update %+v", pc)
	}
	var xbox models.SystemRequirement
	if err := db.Where("game_id = ? AND platform_id = ?", game.ID, models.PlatformXbox).Take(&xbox).Error; err != nil {
		t.Fatalf("xbox requirement missing: %v", err)
	}
	if xbox.OS != "Series X" || xbox.Type != models.RequirementNormal {
		t.Fatalf("unexpected xbox requirement %+v", xbox)
	}
}

func TestUpdateGameReplacesImage(t *testing.T) {
	ctx := context.Background()
	_, q := openTestDB(t)
	images := newMemImages()
	catalog := NewCatalog(q, images)

	form := pcAndPlayStationForm()
	form.Image = &ImageUpload{Filename: "old.png", Content: strings.NewReader("old")}
	game, err := catalog.AddGame(ctx, form)
	if err != nil {
		t.Fatalf("add game: %v", err)
	}
	oldImage := *game.Image

	form.Image = &ImageUpload{Filename: "new.png", Content: strings.NewReader("new")}
	updated, err := catalog.UpdateGame(ctx, game.ID, form)
	if err != nil {
		t.Fatalf("update game: %v", err)
	}
	if *updated.Image == oldImage || images.saved[*updated.Image] != "new" {
		t.Fatalf("expected the new image, got %q", *updated.Image)
	}
	if _, ok := images.saved[oldImage]; ok {
		t.Fatalf("old image %q should have been removed", oldImage)
	}
}

func TestUpdateMissingGame(t *testing.T) {
	_, q := openTestDB(t)
	catalog := NewCatalog(q, nil)
	if _, err := catalog.UpdateGame(context.Background(), 42, pcAndPlayStationForm()); !errs.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReplaceAssociations(t *testing.T) {
	ctx := context.Background()
	db, q := openTestDB(t)
	a := seedCategory(t, q, "A")
	b := seedCategory(t, q, "B")
	c := seedCategory(t, q, "C")
	catalog := NewCatalog(q, nil)

	game, err := catalog.AddGame(ctx, pcAndPlayStationForm(a, b))
	if err != nil {
		t.Fatalf("add game: %v", err)
	}
	if err := catalog.ReplaceAssociations(ctx, game.ID, []uint{c, b}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	var ids []uint
	db.Model(&models.GameCategory{}).Where("game_id = ?", game.ID).Order("category_id").Pluck("category_id", &ids)
	if len(ids) != 2 || ids[0] != b || ids[1] != c {
		t.Fatalf("expected categories [%d %d], got %v", b, c, ids)
	}

	if err := catalog.ReplaceAssociations(ctx, game.ID, nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n := count(t, db, &models.GameCategory{}, "game_id = ?", game.ID); n != 0 {
		t.Fatalf("expected no categories, got %d", n)
	}
}

func TestDeleteGameLeavesNoOrphans(t *testing.T) {
	ctx := context.Background()
	db, q := openTestDB(t)
	action := seedCategory(t, q, "Action")
	images := newMemImages()
	catalog := NewCatalog(q, images)
	reviews := NewReviews(q)
	accounts := NewAccounts(q).WithCost(4)

	form := pcAndPlayStationForm(action)
	form.Image = &ImageUpload{Filename: "cover.webp", Content: strings.NewReader("img")}
	game, err := catalog.AddGame(ctx, form)
	if err != nil {
		t.Fatalf("add game: %v", err)
	}
	account, err := accounts.Register(ctx, "player1", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := reviews.Rate(ctx, IdentityOf(account), game.ID, 4); err != nil {
		t.Fatalf("rate: %v", err)
	}

	if err := catalog.DeleteGame(ctx, game.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, model := range []any{&models.Game{}, &models.GameCategory{}, &models.GamePlatform{}, &models.SystemRequirement{}, &models.GamePlatformDetail{}, &models.Review{}} {
		if n := count(t, db, model); n != 0 {
			t.Fatalf("%T: expected no rows, got %d", model, n)
		}
	}
	if n := count(t, db, &models.Category{}); n != int64(len(database.DefaultCategories)+1) {
		t.Fatalf("categories must survive, got %d", n)
	}
	if len(images.saved) != 0 {
		t.Fatalf("image should be removed with the game")
	}
	if err := catalog.DeleteGame(ctx, game.ID); !errs.IsNotFound(err) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

type closeCounter struct {
	*strings.Reader
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestImageUploadClose(t *testing.T) {
	var none *ImageUpload
	if err := none.Close(); err != nil {
		t.Fatalf("closing no upload: %v", err)
	}
	if err := (&ImageUpload{Content: strings.NewReader("img")}).Close(); err != nil {
		t.Fatalf("closing a plain reader: %v", err)
	}

	content := &closeCounter{Reader: strings.NewReader("img")}
	upload := &ImageUpload{Filename: "cover.png", Content: content}
	if err := upload.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if content.closed != 1 {
		t.Fatalf("expected the file to be closed once, got %d", content.closed)
	}
}
