package api

import (
	"context"

	"github.com/rpupo63/game-catalog-backend/services"
)

type keyType string

const identityKey keyType = "identity"

// ctxWithIdentity adds the caller's identity to the context
func ctxWithIdentity(ctx context.Context, who services.Identity) context.Context {
	return context.WithValue(ctx, identityKey, who)
}

// ctxGetIdentity retrieves the caller's identity, anonymous when none was stored
func ctxGetIdentity(ctx context.Context) services.Identity {
	who, _ := ctx.Value(identityKey).(services.Identity)
	return who
}
