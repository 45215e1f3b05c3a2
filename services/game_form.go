package services

import (
	"io"
	"strings"
	"time"

	"github.com/rpupo63/game-catalog-backend/database"
	"github.com/rpupo63/game-catalog-backend/models"
)

// GameForm is a validated admin game submission.
type GameForm struct {
	Name        string
	Description string
	Developer   string
	Image       *ImageUpload // nil keeps the current image

	CategoryIDs []uint
	PlatformIDs []uint

	MinimumPC     RequirementFields
	RecommendedPC RequirementFields

	// Listings holds the per-platform section of the form, keyed by platform id.
	Listings map[uint]ListingFields
}

// RequirementFields is one block of hardware requirements. Blank values mean not supplied.
type RequirementFields struct {
	OS      string
	RAM     string
	CPU     string
	GPU     string
	Storage string
}

// ListingFields is the price/release section for one platform. Consoles also carry OS and Storage.
type ListingFields struct {
	OS          string
	Storage     string
	Price       *float64
	ReleaseDate *time.Time
}

// ImageUpload is an uploaded cover image.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// Close releases Content when it holds a file. It is safe on a nil upload.
func (u *ImageUpload) Close() error {
	if u == nil {
		return nil
	}
	if c, ok := u.Content.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func orNA(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return models.NotApplicable
	}
	return s
}

func (f GameForm) gameData(image *string) database.Fields {
	return database.Fields{
		"Name":        strings.TrimSpace(f.Name),
		"Description": f.Description,
		"Developer":   f.Developer,
		"Image":       image,
	}
}

func (r RequirementFields) data() database.Fields {
	return database.Fields{
		"OS":      orNA(r.OS),
		"RAM":     orNA(r.RAM),
		"CPU":     orNA(r.CPU),
		"GPU":     orNA(r.GPU),
		"Storage": orNA(r.Storage),
	}
}

// requirementsFor returns the requirement rows a platform gets, keyed by requirement type,
// in the order they are written.
func (f GameForm) requirementsFor(platformID uint) ([]string, map[string]database.Fields) {
	if models.IsPC(platformID) {
		return []string{models.RequirementMinimum, models.RequirementRecommended}, map[string]database.Fields{
			models.RequirementMinimum:     f.MinimumPC.data(),
			models.RequirementRecommended: f.RecommendedPC.data(),
		}
	}
	listing := f.Listings[platformID]
	console := RequirementFields{OS: listing.OS, Storage: listing.Storage}
	return []string{models.RequirementNormal}, map[string]database.Fields{
		models.RequirementNormal: console.data(),
	}
}

// listingFor returns the price row of a platform with sentinels for blank values.
func (f GameForm) listingFor(platformID uint) database.Fields {
	listing := f.Listings[platformID]
	price := models.UnsetPrice
	if listing.Price != nil {
		price = *listing.Price
	}
	releaseDate := models.UnsetReleaseDate
	if listing.ReleaseDate != nil {
		releaseDate = listing.ReleaseDate.Format(models.DateLayout)
	}
	return database.Fields{
		"Price":       price,
		"ReleaseDate": releaseDate,
	}
}

// uniqueIDs drops zero and repeated ids, keeping first-seen order.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func merge(a, b database.Fields) database.Fields {
	out := make(database.Fields, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
