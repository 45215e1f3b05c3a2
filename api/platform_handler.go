package api

import (
	"net/http"

	"github.com/rpupo63/game-catalog-backend/services"
	"github.com/rs/zerolog/log"
)

type platformHandler struct {
	responder Responder
	catalog   *services.Catalog
}

func newPlatformHandler(catalog *services.Catalog) platformHandler {
	logger := log.With().Str("handlerName", "platformHandler").Logger()

	return platformHandler{
		responder: NewResponder(logger),
		catalog:   catalog,
	}
}

func (h platformHandler) getPlatforms() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platforms, err := h.catalog.Platforms(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, platforms)
	}
}

func (h platformHandler) getPlatform() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platformID, err := urlID(r, "platformID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		detail, err := h.catalog.PlatformDetail(r.Context(), platformID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, detail)
	}
}
