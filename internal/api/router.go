package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"starwars-api/internal/entity"
)

// Handlers bundles everything RegisterRoutes mounts.
type Handlers struct {
	Users      *UserHandler
	Favorites  *FavoriteHandler
	Characters *ResourceHandler
	Planets    *ResourceHandler
	Vehicles   *ResourceHandler
}

// NewEcho returns an echo instance with validation, recovery and request
// logging installed.
func NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil {
				event = log.Error().Err(v.Error)
			}
			event.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	return e
}

// RegisterRoutes mounts the API on e. Routes wrapped in guard require a bearer token.
func RegisterRoutes(e *echo.Echo, h Handlers, guard echo.MiddlewareFunc) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"service": "starwars-api",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// users
	e.GET("/users", h.Users.GetUsers)
	e.GET("/users/favorites", h.Favorites.GetUserFavorites, guard)
	e.GET("/users/validate", h.Users.ValidateSession, guard)
	e.GET("/users/:id", h.Users.GetUserByID)
	e.POST("/user", h.Users.CreateUser)
	e.GET("/user/favorites", h.Favorites.GetAllFavorites)
	e.POST("/login", h.Users.Login)
	e.POST("/signup", h.Users.SignUp)

	// catalogue
	mountResource(e, "/people", h.Characters)
	mountResource(e, "/planets", h.Planets)
	mountResource(e, "/vehicles", h.Vehicles)

	// favorites
	fav := e.Group("/favorite", guard)
	for path, kind := range map[string]entity.Kind{
		"/people/:id":  entity.KindCharacter,
		"/planet/:id":  entity.KindPlanet,
		"/vehicle/:id": entity.KindVehicle,
	} {
		fav.POST(path, h.Favorites.AddFavorite(kind))
		fav.DELETE(path, h.Favorites.RemoveFavorite(kind))
	}
}

func mountResource(e *echo.Echo, prefix string, h *ResourceHandler) {
	e.GET(prefix, h.GetResources)
	e.POST(prefix, h.CreateResource)
	e.GET(prefix+"/:id", h.GetResource)
	e.DELETE(prefix+"/:id", h.DeleteResource)
}
