package models

// Well-known platform ids seeded by the migration.
const (
	PlatformPC          uint = 1
	PlatformPlayStation uint = 2
	PlatformXbox        uint = 3
)

// Platform is a system a game can be released on
type Platform struct {
	ID          uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name" gorm:"type:varchar(100);not null"`
	Description string `json:"description" gorm:"type:varchar(255)"`

	GameLinks    []GamePlatform       `json:"-" gorm:"foreignKey:PlatformID;references:ID;constraint:OnDelete:CASCADE"`
	Listings     []GamePlatformDetail `json:"-" gorm:"foreignKey:PlatformID;references:ID;constraint:OnDelete:CASCADE"`
	Requirements []SystemRequirement  `json:"-" gorm:"foreignKey:PlatformID;references:ID;constraint:OnDelete:CASCADE"`
}

// IsPC reports whether requirements for the platform come as a Minimum/Recommended pair.
func IsPC(platformID uint) bool {
	return platformID == PlatformPC
}

// GamePlatform links a game to a platform it is released on
type GamePlatform struct {
	GameID     uint `json:"gameId" gorm:"primaryKey;autoIncrement:false"`
	PlatformID uint `json:"platformId" gorm:"primaryKey;autoIncrement:false;index"`
}
