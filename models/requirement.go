package models

// Requirement types. PC rows come as a Minimum/Recommended pair, consoles carry a single Normal row.
const (
	RequirementMinimum     = "Minimum"
	RequirementRecommended = "Recommended"
	RequirementNormal      = "Normal"
)

// Sentinels stored instead of NULL so every backend renders "unset" the same way.
const (
	NotApplicable    = "N/A"
	UnsetPrice       = -1.0
	UnsetReleaseDate = "1900-01-01"
	DateLayout       = "2006-01-02"
)

// SystemRequirement describes the hardware a game needs on one platform
type SystemRequirement struct {
	ID         uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	GameID     uint   `json:"gameId" gorm:"not null;index:idx_requirement_game_platform"`
	PlatformID uint   `json:"platformId" gorm:"not null;index:idx_requirement_game_platform"`
	Type       string `json:"type" gorm:"type:varchar(12);not null"`
	OS         string `json:"os" gorm:"column:os;type:varchar(100)"`
	RAM        string `json:"ram" gorm:"column:ram;type:varchar(50)"`
	CPU        string `json:"cpu" gorm:"column:cpu;type:varchar(100)"`
	GPU        string `json:"gpu" gorm:"column:gpu;type:varchar(100)"`
	Storage    string `json:"storage" gorm:"type:varchar(50)"`
}

// GamePlatformDetail holds the price and release date of a game on one platform
type GamePlatformDetail struct {
	GameID      uint    `json:"gameId" gorm:"primaryKey;autoIncrement:false"`
	PlatformID  uint    `json:"platformId" gorm:"primaryKey;autoIncrement:false"`
	Price       float64 `json:"price" gorm:"not null"`
	ReleaseDate string  `json:"releaseDate" gorm:"type:varchar(10);not null"`
}

// HasPrice reports whether a price was entered for the listing
func (d GamePlatformDetail) HasPrice() bool {
	return d.Price != UnsetPrice
}

// HasReleaseDate reports whether a release date was entered for the listing
func (d GamePlatformDetail) HasReleaseDate() bool {
	return d.ReleaseDate != "" && d.ReleaseDate != UnsetReleaseDate
}
