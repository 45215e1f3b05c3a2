package database

import (
	"github.com/rpupo63/game-catalog-backend/models"
	"gorm.io/gorm"
)

// entity describes how the façade reaches one record collection.
type entity struct {
	kind     Kind
	model    func() any
	find     func(tx *gorm.DB) ([]any, error)
	idColumn string // empty when the primary key is composite
	order    []string
	fields   map[string]field
	cascades []cascade
}

// cascade is a child collection whose column references the parent's id.
type cascade struct {
	kind   Kind
	column string
}

func newEntity[T any](kind Kind, idColumn string, order []string, fields map[string]field, cascades ...cascade) *entity {
	return &entity{
		kind:  kind,
		model: func() any { return new(T) },
		find: func(tx *gorm.DB) ([]any, error) {
			var rows []*T
			if err := tx.Find(&rows).Error; err != nil {
				return nil, err
			}
			out := make([]any, len(rows))
			for i, row := range rows {
				out[i] = row
			}
			return out, nil
		},
		idColumn: idColumn,
		order:    order,
		fields:   fields,
		cascades: cascades,
	}
}

var entities = map[Kind]*entity{
	KindGame: newEntity[models.Game](KindGame, "id", []string{"id"}, map[string]field{
		"ID":          uintField("id", func(g *models.Game) *uint { return &g.ID }).asKey(),
		"Name":        textField("name", func(g *models.Game) *string { return &g.Name }),
		"Description": textField("description", func(g *models.Game) *string { return &g.Description }),
		"Developer":   textField("developer", func(g *models.Game) *string { return &g.Developer }),
		"Image":       optionalTextField("image", func(g *models.Game) **string { return &g.Image }),
	},
		cascade{KindSystemRequirement, "game_id"},
		cascade{KindGamePlatformDetail, "game_id"},
		cascade{KindGameCategory, "game_id"},
		cascade{KindGamePlatform, "game_id"},
		cascade{KindReview, "game_id"},
	),

	KindCategory: newEntity[models.Category](KindCategory, "id", []string{"id"}, map[string]field{
		"ID":          uintField("id", func(c *models.Category) *uint { return &c.ID }).asKey(),
		"Name":        textField("name", func(c *models.Category) *string { return &c.Name }),
		"Description": textField("description", func(c *models.Category) *string { return &c.Description }),
	},
		cascade{KindGameCategory, "category_id"},
	),

	KindPlatform: newEntity[models.Platform](KindPlatform, "id", []string{"id"}, map[string]field{
		"ID":          uintField("id", func(p *models.Platform) *uint { return &p.ID }).asKey(),
		"Name":        textField("name", func(p *models.Platform) *string { return &p.Name }),
		"Description": textField("description", func(p *models.Platform) *string { return &p.Description }),
	},
		cascade{KindSystemRequirement, "platform_id"},
		cascade{KindGamePlatformDetail, "platform_id"},
		cascade{KindGamePlatform, "platform_id"},
	),

	KindSystemRequirement: newEntity[models.SystemRequirement](KindSystemRequirement, "id", []string{"id"}, map[string]field{
		"ID":         uintField("id", func(r *models.SystemRequirement) *uint { return &r.ID }).asKey(),
		"GameID":     uintField("game_id", func(r *models.SystemRequirement) *uint { return &r.GameID }),
		"PlatformID": uintField("platform_id", func(r *models.SystemRequirement) *uint { return &r.PlatformID }),
		"Type":       textField("type", func(r *models.SystemRequirement) *string { return &r.Type }),
		"OS":         textField("os", func(r *models.SystemRequirement) *string { return &r.OS }),
		"RAM":        textField("ram", func(r *models.SystemRequirement) *string { return &r.RAM }),
		"CPU":        textField("cpu", func(r *models.SystemRequirement) *string { return &r.CPU }),
		"GPU":        textField("gpu", func(r *models.SystemRequirement) *string { return &r.GPU }),
		"Storage":    textField("storage", func(r *models.SystemRequirement) *string { return &r.Storage }),
	}),

	KindGamePlatformDetail: newEntity[models.GamePlatformDetail](KindGamePlatformDetail, "", []string{"game_id", "platform_id"}, map[string]field{
		"GameID":      uintField("game_id", func(d *models.GamePlatformDetail) *uint { return &d.GameID }).asKey(),
		"PlatformID":  uintField("platform_id", func(d *models.GamePlatformDetail) *uint { return &d.PlatformID }).asKey(),
		"Price":       floatField("price", func(d *models.GamePlatformDetail) *float64 { return &d.Price }),
		"ReleaseDate": stringField("release_date", func(d *models.GamePlatformDetail) *string { return &d.ReleaseDate }),
	}),

	KindGameCategory: newEntity[models.GameCategory](KindGameCategory, "", []string{"game_id", "category_id"}, map[string]field{
		"GameID":     uintField("game_id", func(l *models.GameCategory) *uint { return &l.GameID }).asKey(),
		"CategoryID": uintField("category_id", func(l *models.GameCategory) *uint { return &l.CategoryID }).asKey(),
	}),

	KindGamePlatform: newEntity[models.GamePlatform](KindGamePlatform, "", []string{"game_id", "platform_id"}, map[string]field{
		"GameID":     uintField("game_id", func(l *models.GamePlatform) *uint { return &l.GameID }).asKey(),
		"PlatformID": uintField("platform_id", func(l *models.GamePlatform) *uint { return &l.PlatformID }).asKey(),
	}),

	KindAccount: newEntity[models.Account](KindAccount, "id", []string{"id"}, map[string]field{
		"ID":           uintField("id", func(a *models.Account) *uint { return &a.ID }).asKey(),
		"Username":     textField("username", func(a *models.Account) *string { return &a.Username }),
		"PasswordHash": stringField("password_hash", func(a *models.Account) *string { return &a.PasswordHash }),
		"Admin":        boolField("admin", func(a *models.Account) *bool { return &a.Admin }),
	},
		cascade{KindReview, "user_id"},
	),

	KindReview: newEntity[models.Review](KindReview, "id", []string{"id"}, map[string]field{
		"ID":     uintField("id", func(r *models.Review) *uint { return &r.ID }).asKey(),
		"UserID": uintField("user_id", func(r *models.Review) *uint { return &r.UserID }),
		"GameID": uintField("game_id", func(r *models.Review) *uint { return &r.GameID }),
		"Rating": intField("rating", func(r *models.Review) *int { return &r.Rating }),
	}),
}
