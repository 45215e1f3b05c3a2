package models

// Game is a catalog entry. Requirements, listings and link rows are removed with it.
type Game struct {
	ID          uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name" gorm:"type:varchar(255);not null;uniqueIndex"`
	Description string  `json:"description" gorm:"type:text"`
	Developer   string  `json:"developer" gorm:"type:varchar(255)"`
	Image       *string `json:"image,omitempty" gorm:"type:varchar(255)"`

	Requirements  []SystemRequirement  `json:"requirements,omitempty" gorm:"foreignKey:GameID;references:ID;constraint:OnDelete:CASCADE"`
	Listings      []GamePlatformDetail `json:"listings,omitempty" gorm:"foreignKey:GameID;references:ID;constraint:OnDelete:CASCADE"`
	CategoryLinks []GameCategory       `json:"-" gorm:"foreignKey:GameID;references:ID;constraint:OnDelete:CASCADE"`
	PlatformLinks []GamePlatform       `json:"-" gorm:"foreignKey:GameID;references:ID;constraint:OnDelete:CASCADE"`
	Reviews       []Review             `json:"-" gorm:"foreignKey:GameID;references:ID;constraint:OnDelete:CASCADE"`
}
