package api

import (
	"errors"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rpupo63/game-catalog-backend/errs"
	"github.com/rpupo63/game-catalog-backend/models"
	"github.com/rpupo63/game-catalog-backend/services"
)

const (
	maxImageSize  = 5 << 20
	maxFormMemory = 8 << 20
)

var allowedImageExtensions = []string{"jpg", "png", "jpeg", "webp"}

var validUnits = map[string]bool{"GB": true, "TB": true, "MB": true, "KB": true}

// platformPrefixes names the form section of each platform with its own price block.
var platformPrefixes = map[uint]string{
	models.PlatformPC:          "pc",
	models.PlatformPlayStation: "ps",
	models.PlatformXbox:        "xb",
}

// parseGameForm reads and validates the admin game form from a multipart or urlencoded body.
func parseGameForm(w http.ResponseWriter, r *http.Request) (services.GameForm, error) {
	var form services.GameForm

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+maxFormMemory)
	if err := parseForm(r); err != nil {
		return form, err
	}

	form.Name = strings.TrimSpace(r.PostFormValue("game_name"))
	if form.Name == "" {
		return form, errs.NewMissingRequiredFieldError("game_name")
	}
	form.Description = r.PostFormValue("game_description")
	form.Developer = strings.TrimSpace(r.PostFormValue("game_developer"))

	var err error
	if form.CategoryIDs, err = checkedIDs(r, "categories"); err != nil {
		return form, err
	}
	if form.PlatformIDs, err = checkedIDs(r, "platforms"); err != nil {
		return form, err
	}

	if form.MinimumPC, err = requirementSection(r, "min_pc"); err != nil {
		return form, err
	}
	if form.RecommendedPC, err = requirementSection(r, "rec_pc"); err != nil {
		return form, err
	}

	form.Listings = make(map[uint]services.ListingFields, len(platformPrefixes))
	for platformID, prefix := range platformPrefixes {
		listing, err := listingSection(r, prefix, !models.IsPC(platformID))
		if err != nil {
			return form, err
		}
		form.Listings[platformID] = listing
	}

	if form.Image, err = imageUpload(r, "game_image"); err != nil {
		return form, err
	}
	return form, nil
}

func parseForm(r *http.Request) error {
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxFormMemory)
	} else {
		err = r.ParseForm()
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || (err != nil && strings.Contains(err.Error(), "request body too large")) {
		return errs.NewMaxBodySizeExceededError(maxImageSize)
	}
	if err != nil {
		return errs.NewMalformedPayloadError("form", err)
	}
	return nil
}

// checkedIDs reads a checkbox group, requiring at least one checked box.
func checkedIDs(r *http.Request, field string) ([]uint, error) {
	values := r.PostForm[field]
	if len(values) == 0 {
		return nil, errs.NewInvalidFieldError(field, "Please select at least 1 checkbox")
	}
	ids := make([]uint, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 63)
		if err != nil || id == 0 {
			return nil, errs.NewInvalidIDError(field)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func requirementSection(r *http.Request, prefix string) (services.RequirementFields, error) {
	req := services.RequirementFields{
		OS:      strings.TrimSpace(r.PostFormValue(prefix + "_os")),
		RAM:     strings.TrimSpace(r.PostFormValue(prefix + "_ram")),
		CPU:     strings.TrimSpace(r.PostFormValue(prefix + "_cpu")),
		GPU:     strings.TrimSpace(r.PostFormValue(prefix + "_gpu")),
		Storage: strings.TrimSpace(r.PostFormValue(prefix + "_storage")),
	}
	if err := validateUnit(prefix+"_ram", req.RAM); err != nil {
		return req, err
	}
	if err := validateUnit(prefix+"_storage", req.Storage); err != nil {
		return req, err
	}
	return req, nil
}

// listingSection reads <prefix>_price and <prefix>_release_date, and for consoles
// <prefix>_os and <prefix>_storage.
func listingSection(r *http.Request, prefix string, console bool) (services.ListingFields, error) {
	var listing services.ListingFields
	if console {
		listing.OS = strings.TrimSpace(r.PostFormValue(prefix + "_os"))
		listing.Storage = strings.TrimSpace(r.PostFormValue(prefix + "_storage"))
		if err := validateUnit(prefix+"_storage", listing.Storage); err != nil {
			return listing, err
		}
	}

	if s := strings.TrimSpace(r.PostFormValue(prefix + "_price")); s != "" {
		price, err := strconv.ParseFloat(s, 64)
		if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
			return listing, errs.NewInvalidFieldError(prefix+"_price", "Not a valid decimal value")
		}
		listing.Price = &price
	}
	if s := strings.TrimSpace(r.PostFormValue(prefix + "_release_date")); s != "" {
		date, err := time.Parse(models.DateLayout, s)
		if err != nil {
			return listing, errs.NewInvalidFieldError(prefix+"_release_date", "Not a valid date value")
		}
		listing.ReleaseDate = &date
	}
	return listing, nil
}

// validateUnit accepts sizes such as "16GB", "1.5 TB" or "512mb". Blank is allowed.
func validateUnit(field, value string) error {
	if value == "" {
		return nil
	}
	var hasDigit, hasLetter bool
	var unit strings.Builder
	for _, c := range value {
		switch {
		case unicode.IsDigit(c):
			if hasLetter {
				return errs.NewInvalidFieldError(field, "Invalid Format: Numbers found after letters")
			}
			hasDigit = true
		case unicode.IsLetter(c):
			hasLetter = true
			unit.WriteRune(unicode.ToUpper(c))
		}
	}
	if !hasDigit || !hasLetter {
		return errs.NewInvalidFieldError(field, "Storage/RAM size must contain numbers and units")
	}
	if !unicode.IsDigit(rune(value[0])) {
		return errs.NewInvalidFieldError(field, "Storage/RAM size must start with a number")
	}
	if !validUnits[unit.String()] {
		return errs.NewInvalidFieldError(field, "Invalid Units: Only Accept GB, TB, MB, and KB")
	}
	return nil
}

func imageUpload(r *http.Request, field string) (*services.ImageUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewMalformedPayloadError("image", err)
	}
	if header.Filename == "" {
		file.Close()
		return nil, nil
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	allowed := false
	for _, a := range allowedImageExtensions {
		if ext == a {
			allowed = true
			break
		}
	}
	if !allowed {
		file.Close()
		return nil, errs.NewUnsupportedMediaTypeError(field, allowedImageExtensions)
	}
	if header.Size > maxImageSize {
		file.Close()
		return nil, errs.NewMaxBodySizeExceededError(maxImageSize)
	}
	return &services.ImageUpload{Filename: header.Filename, Content: file}, nil
}

// parseCategoryForm reads a category name and description from a JSON or form body.
func parseCategoryForm(r *http.Request) (services.CategoryForm, error) {
	var form services.CategoryForm
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := decodeJSON(r, &form)
		return form, err
	}
	if err := parseForm(r); err != nil {
		return form, err
	}
	form.Name = r.PostFormValue("category_name")
	form.Description = r.PostFormValue("category_description")
	return form, nil
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// parseCredentials reads a username and password from a JSON or form body.
func parseCredentials(r *http.Request) (credentials, error) {
	var c credentials
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := decodeJSON(r, &c); err != nil {
			return c, err
		}
	} else {
		if err := parseForm(r); err != nil {
			return c, err
		}
		c.Username = r.PostFormValue("username")
		c.Password = r.PostFormValue("password")
	}
	c.Username = strings.TrimSpace(c.Username)
	if c.Username == "" {
		return c, errs.NewMissingRequiredFieldError("username")
	}
	if c.Password == "" {
		return c, errs.NewMissingRequiredFieldError("password")
	}
	return c, nil
}

func validateRegistration(c credentials) error {
	if n := len(c.Username); n < 4 || n > 20 {
		return errs.NewInvalidFieldError("username", "Username must be between 4 and 20 characters")
	}
	if strings.Contains(c.Username, " ") {
		return errs.NewInvalidFieldError("username", "Username cannot contain spaces")
	}
	for _, ch := range c.Username {
		if ch > unicode.MaxASCII || !(unicode.IsLetter(ch) || unicode.IsDigit(ch)) {
			return errs.NewInvalidFieldError("username", "Username can only contain alphanumeric characters")
		}
	}
	if len(c.Password) < 6 {
		return errs.NewInvalidFieldError("password", "Password must be at least 6 characters")
	}
	return nil
}
