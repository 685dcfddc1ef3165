package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"starwars-api/internal/entity"
	"starwars-api/internal/service"
)

type FavoriteHandler struct {
	favoriteService *service.FavoriteService
}

func NewFavoriteHandler(favoriteService *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// GetUserFavorites lists the caller's favorites grouped by kind --> /users/favorites
func (fh *FavoriteHandler) GetUserFavorites(c echo.Context) error {
	identity, ok := identityFrom(c)
	if !ok {
		return respond(c, http.StatusUnauthorized, "Missing or invalid token")
	}

	set, err := fh.favoriteService.GetUserFavorites(c.Request().Context(), identity.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return respond(c, http.StatusNotFound, "User not found")
		}
		return internalError(c, err)
	}
	if set.Empty() {
		return respond(c, http.StatusNotFound, "Favorites not found")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"msg": "ok", "results": set})
}

// GetAllFavorites lists every user's favorites --> /user/favorites
func (fh *FavoriteHandler) GetAllFavorites(c echo.Context) error {
	set, err := fh.favoriteService.GetAllFavorites(c.Request().Context())
	if err != nil {
		return internalError(c, err)
	}
	if set.Empty() {
		return respond(c, http.StatusNotFound, "Favorites not found")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"msg":     "ok",
		"results": []interface{}{set.Planets, set.Characters, set.Vehicles},
	})
}

// AddFavorite returns the handler for --> POST /favorite/<kind>/:id
func (fh *FavoriteHandler) AddFavorite(kind entity.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, ok := identityFrom(c)
		if !ok {
			return respond(c, http.StatusUnauthorized, "Missing or invalid token")
		}
		id, ok := paramID(c)
		if !ok {
			return respond(c, http.StatusBadRequest, "Invalid ID")
		}

		favorite, err := fh.favoriteService.AddFavorite(c.Request().Context(), identity.Email, kind, id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUserNotFound):
				return respond(c, http.StatusBadRequest, "User not found")
			case errors.Is(err, service.ErrNotFound):
				return respond(c, http.StatusBadRequest, kind.Label()+" not exist")
			case errors.Is(err, service.ErrAlreadyExists):
				return respond(c, http.StatusBadRequest, kind.Label()+" already exists in favorites")
			}
			return internalError(c, err)
		}

		return c.JSON(http.StatusCreated, map[string]interface{}{
			"msg":    "Favorite " + kind.Label() + " added",
			"result": favorite,
		})
	}
}

// RemoveFavorite returns the handler for --> DELETE /favorite/<kind>/:id
func (fh *FavoriteHandler) RemoveFavorite(kind entity.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, ok := identityFrom(c)
		if !ok {
			return respond(c, http.StatusUnauthorized, "Missing or invalid token")
		}
		id, ok := paramID(c)
		if !ok {
			return respond(c, http.StatusBadRequest, "Invalid ID")
		}

		err := fh.favoriteService.RemoveFavorite(c.Request().Context(), identity.Email, kind, id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUserNotFound):
				return respond(c, http.StatusBadRequest, "User not found")
			case errors.Is(err, service.ErrNotFound):
				return respond(c, http.StatusBadRequest, kind.Label()+" does not exist in favorites")
			}
			return internalError(c, err)
		}

		return respond(c, http.StatusOK, "Favorite "+kind.Label()+" deleted")
	}
}
