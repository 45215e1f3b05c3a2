package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rpupo63/game-catalog-backend/database"
	"github.com/rpupo63/game-catalog-backend/errs"
	"github.com/rpupo63/game-catalog-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type Accounts struct {
	query  *database.Query
	cost   int
	logger zerolog.Logger
}

func NewAccounts(query *database.Query) *Accounts {
	return &Accounts{
		query:  query,
		cost:   bcrypt.DefaultCost,
		logger: log.With().Str("service", "accounts").Logger(),
	}
}

// WithCost returns a copy of a that hashes passwords with the given bcrypt cost.
func (a *Accounts) WithCost(cost int) *Accounts {
	c := *a
	c.cost = cost
	return &c
}

// Register creates a regular account. Usernames are unique regardless of case.
func (a *Accounts) Register(ctx context.Context, username, password string) (*models.Account, error) {
	return a.create(ctx, username, password, false)
}

// Login checks a username and password and returns the matching account.
func (a *Accounts) Login(ctx context.Context, username, password string) (*models.Account, error) {
	account, err := a.byUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errs.InvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, errs.InvalidCredentials
	}
	a.logger.Info().Str("username", account.Username).Msg("logged in")
	return account, nil
}

// EnsureAdmin creates the administrator account when it does not exist yet, and grants
// admin rights to an existing account of that name. An empty username does nothing.
func (a *Accounts) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" {
		return nil
	}
	account, err := a.byUsername(ctx, username)
	if err != nil {
		return err
	}
	if account != nil {
		if account.Admin {
			return nil
		}
		_, err := a.query.Execute(ctx, database.KindAccount, database.OpUpdate,
			database.ByID(uint64(account.ID)).Set(database.Fields{"Admin": true}))
		return err
	}
	if password == "" {
		return errs.NewMissingRequiredFieldError("ADMIN_PASSWORD")
	}
	if _, err := a.create(ctx, username, password, true); err != nil {
		return err
	}
	a.logger.Info().Str("username", username).Msg("administrator account created")
	return nil
}

func (a *Accounts) create(ctx context.Context, username, password string, admin bool) (*models.Account, error) {
	username = strings.TrimSpace(username)
	existing, err := a.byUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.Conflict("Account already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, errs.NewInvalidFieldError("password", "password is too long")
		}
		return nil, errs.InternalWithCause("could not hash password", err)
	}

	res, err := a.query.Execute(ctx, database.KindAccount, database.OpInsert, database.WithData(database.Fields{
		"Username":     username,
		"PasswordHash": string(hash),
		"Admin":        admin,
	}))
	if err != nil {
		return nil, err
	}
	account, _ := database.First[*models.Account](res)
	return account, nil
}

// byUsername returns the account named username in any case, or nil.
func (a *Accounts) byUsername(ctx context.Context, username string) (*models.Account, error) {
	res, err := a.query.Execute(ctx, database.KindAccount, database.OpSelect,
		database.ByFilters(database.Fields{"Username": strings.TrimSpace(username)}))
	if err != nil {
		return nil, err
	}
	account, _ := database.First[*models.Account](res)
	return account, nil
}
