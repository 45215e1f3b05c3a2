package services

import "github.com/rpupo63/game-catalog-backend/models"

// Identity is who is making a request. The zero value is an anonymous visitor.
type Identity struct {
	AccountID uint   `json:"accountId"`
	Username  string `json:"username"`
	Admin     bool   `json:"admin"`
}

func (i Identity) Authenticated() bool {
	return i.AccountID != 0
}

// IdentityOf is the identity a logged in account acts as.
func IdentityOf(a *models.Account) Identity {
	return Identity{AccountID: a.ID, Username: a.Username, Admin: a.Admin}
}
