package services

import (
	"context"
	"testing"

	"github.com/rpupo63/game-catalog-backend/database"
	"github.com/rpupo63/game-catalog-backend/errs"
	"github.com/rpupo63/game-catalog-backend/models"
)

func TestGameDetail(t *testing.T) {
	ctx := context.Background()
	_, q := openTestDB(t)
	action := seedCategory(t, q, "Action")
	catalog := NewCatalog(q, nil)

	var ids []uint
	for _, name := range []string{"Alpha", "Beta", "Gamma"} {
		form := pcAndPlayStationForm(action)
		form.Name = name
		game, err := catalog.AddGame(ctx, form)
		if err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
		ids = append(ids, game.ID)
	}

	detail, err := catalog.GameDetail(ctx, ids[1])
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.Game.Name != "Beta" || detail.Prev != ids[0] || detail.Next != ids[2] {
		t.Fatalf("unexpected detail %+v", detail)
	}
	if len(detail.Categories) != 1 || detail.Categories[0].ID != action {
		t.Fatalf("unexpected categories %+v", detail.Categories)
	}
	if len(detail.Platforms) != 2 {
		t.Fatalf("expected 2 platforms, got %d", len(detail.Platforms))
	}
	pc := detail.Platforms[0]
	if pc.Platform.ID != models.PlatformPC || len(pc.Requirements) != 2 || pc.Detail == nil {
		t.Fatalf("unexpected PC listing %+v", pc)
	}
	if !pc.HasPrice || !pc.HasReleaseDate {
		t.Fatalf("PC listing was entered with a price and date, got %+v", pc)
	}
	ps := detail.Platforms[1]
	if ps.Platform.ID != models.PlatformPlayStation || len(ps.Requirements) != 1 {
		t.Fatalf("unexpected PlayStation listing %+v", ps)
	}
	if ps.HasPrice || ps.HasReleaseDate {
		t.Fatalf("PlayStation listing holds only sentinels, got %+v", ps)
	}

	first, err := catalog.GameDetail(ctx, ids[0])
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if first.Prev != 0 {
		t.Fatalf("first game has no previous, got %d", first.Prev)
	}

	if _, err := catalog.GameDetail(ctx, 999); !errs.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListGamesSearch(t *testing.T) {
	ctx := context.Background()
	_, q := openTestDB(t)
	catalog := NewCatalog(q, nil)
	for _, name := range []string{"Foobar", "Zoo Tycoon", "Chess"} {
		form := pcAndPlayStationForm()
		form.Name = name
		if _, err := catalog.AddGame(ctx, form); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}

	all, err := catalog.ListGames(ctx, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 games, got %d, %v", len(all), err)
	}
	found, err := catalog.ListGames(ctx, "OO")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 2 || found[0].Name != "Foobar" || found[1].Name != "Zoo Tycoon" {
		t.Fatalf("unexpected search result %+v", found)
	}
}

func TestCategoryAndPlatformDetail(t *testing.T) {
	ctx := context.Background()
	_, q := openTestDB(t)
	action := seedCategory(t, q, "Action")
	seedCategory(t, q, "Empty")
	catalog := NewCatalog(q, nil)

	game, err := catalog.AddGame(ctx, pcAndPlayStationForm(action))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	categories, err := catalog.Categories(ctx)
	if want := len(database.DefaultCategories) + 2; err != nil || len(categories) != want {
		t.Fatalf("expected %d categories, got %d, %v", want, len(categories), err)
	}
	cd, err := catalog.CategoryDetail(ctx, action)
	if err != nil {
		t.Fatalf("category detail: %v", err)
	}
	if len(cd.Games) != 1 || cd.Games[0].ID != game.ID {
		t.Fatalf("unexpected category games %+v", cd.Games)
	}

	platforms, err := catalog.Platforms(ctx)
	if err != nil || len(platforms) != 3 {
		t.Fatalf("expected the 3 seeded platforms, got %d, %v", len(platforms), err)
	}
	xbox, err := catalog.PlatformDetail(ctx, models.PlatformXbox)
	if err != nil {
		t.Fatalf("platform detail: %v", err)
	}
	if xbox.Platform.Name != "Xbox" || len(xbox.Games) != 0 {
		t.Fatalf("unexpected xbox detail %+v", xbox)
	}
	if _, err := catalog.CategoryDetail(ctx, 999); !errs.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
