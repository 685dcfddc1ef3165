package api

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// Identity is what the auth guard stores on the request context.
type Identity struct {
	Email string
	Token string
}

type IdentityResolver interface {
	ResolveIdentity(token string) (string, error)
}

// AuthGuard rejects requests without a valid bearer token before the handler
// runs, and exposes the resolved identity through identityFrom.
func AuthGuard(resolver IdentityResolver) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: identityKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			email, err := resolver.ResolveIdentity(token)
			if err != nil {
				return nil, err
			}
			return &Identity{Email: email, Token: token}, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return respond(c, http.StatusUnauthorized, "Missing or invalid token")
		},
	})
}

func identityFrom(c echo.Context) (*Identity, bool) {
	identity, ok := c.Get(identityKey).(*Identity)
	return identity, ok && identity != nil
}
