package api

import (
	"net/http"

	"github.com/rpupo63/game-catalog-backend/errs"
	"github.com/rpupo63/game-catalog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type accountHandler struct {
	responder Responder
	logger    zerolog.Logger
	accounts  *services.Accounts
	sessions  sessions
}

func newAccountHandler(accounts *services.Accounts, sessions sessions) accountHandler {
	logger := log.With().Str("handlerName", "accountHandler").Logger()

	return accountHandler{
		responder: NewResponder(logger),
		logger:    logger,
		accounts:  accounts,
		sessions:  sessions,
	}
}

// register creates an account and logs it in
// @Summary Register
// @Tags Accounts
// @Accept json
// @Produce json
// @Success 201 {object} services.Identity
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid username or password"
// @Failure 409 {object} ErrorResponse "Conflict - Account already exists"
// @Router /register [post]
func (h accountHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, err := parseCredentials(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validateRegistration(creds); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		account, err := h.accounts.Register(r.Context(), creds.Username, creds.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		who := services.IdentityOf(account)
		if err := h.sessions.issue(w, who); err != nil {
			h.responder.WriteError(w, errs.InternalWithCause("could not start session", err))
			return
		}
		h.logger.Info().Str("username", account.Username).Msg("account registered")
		h.responder.WriteJSONStatus(w, http.StatusCreated, who)
	}
}

// @Summary Login
// @Tags Accounts
// @Accept json
// @Produce json
// @Success 200 {object} services.Identity
// @Failure 401 {object} ErrorResponse "Unauthorized - Invalid username or password"
// @Router /login [post]
func (h accountHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, err := parseCredentials(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		account, err := h.accounts.Login(r.Context(), creds.Username, creds.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		who := services.IdentityOf(account)
		if err := h.sessions.issue(w, who); err != nil {
			h.responder.WriteError(w, errs.InternalWithCause("could not start session", err))
			return
		}
		h.responder.WriteJSON(w, who)
	}
}

func (h accountHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.sessions.clear(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

// whoAmI returns the identity of the current session, anonymous when logged out
func (h accountHandler) whoAmI() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, ctxGetIdentity(r.Context()))
	}
}
