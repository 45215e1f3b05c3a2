package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rpupo63/game-catalog-backend/database"
	"github.com/rpupo63/game-catalog-backend/errs"
	"github.com/rpupo63/game-catalog-backend/models"
)

const maxCategoryName = 100

// CategoryForm is the admin category form.
type CategoryForm struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (f CategoryForm) fields() (database.Fields, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return nil, errs.NewMissingRequiredFieldError("name")
	}
	if utf8.RuneCountInString(name) > maxCategoryName {
		return nil, errs.NewInvalidFieldError("name", "Category name must be at most 100 characters")
	}
	return database.Fields{"Name": name, "Description": strings.TrimSpace(f.Description)}, nil
}

func (c *Catalog) AddCategory(ctx context.Context, form CategoryForm) (*models.Category, error) {
	data, err := form.fields()
	if err != nil {
		return nil, err
	}
	res, err := c.query.Execute(ctx, database.KindCategory, database.OpInsert, database.WithData(data))
	if err != nil {
		return nil, err
	}
	category, _ := database.First[*models.Category](res)
	return category, nil
}

func (c *Catalog) UpdateCategory(ctx context.Context, id uint, form CategoryForm) (*models.Category, error) {
	data, err := form.fields()
	if err != nil {
		return nil, err
	}
	res, err := c.query.Execute(ctx, database.KindCategory, database.OpUpdate,
		database.ByID(uint64(id)).Set(data))
	if err != nil {
		return nil, err
	}
	category, _ := database.First[*models.Category](res)
	return category, nil
}

// DeleteCategory removes a category and unlinks it from every game.
func (c *Catalog) DeleteCategory(ctx context.Context, id uint) error {
	_, err := c.query.Execute(ctx, database.KindCategory, database.OpDelete, database.ByID(uint64(id)))
	return err
}
