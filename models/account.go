package models

import (
	"strings"

	"gorm.io/gorm"
)

// Account is a registered user. PasswordHash is a bcrypt hash and never leaves the server.
type Account struct {
	ID           uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string `json:"username" gorm:"type:text;not null"`
	UsernameKey  string `json:"-" gorm:"type:text;uniqueIndex"`
	PasswordHash string `json:"-" gorm:"type:text;not null"`
	Admin        bool   `json:"admin" gorm:"not null;default:false"`

	Reviews []Review `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// FoldUsername folds a username so Bob and bob collide on the unique index.
func FoldUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// BeforeSave keeps UsernameKey in step with Username on creates and map updates.
func (a *Account) BeforeSave(tx *gorm.DB) error {
	tx.Statement.SetColumn("UsernameKey", FoldUsername(a.Username))
	return nil
}
