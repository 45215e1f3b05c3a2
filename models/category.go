package models

// Category is a genre tag shared by many games
type Category struct {
	ID          uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name" gorm:"type:varchar(100);not null"`
	Description string `json:"description" gorm:"type:text"`

	GameLinks []GameCategory `json:"-" gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:CASCADE"`
}

// GameCategory links a game to one of its categories
type GameCategory struct {
	GameID     uint `json:"gameId" gorm:"primaryKey;autoIncrement:false"`
	CategoryID uint `json:"categoryId" gorm:"primaryKey;autoIncrement:false;index"`
}
