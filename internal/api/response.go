package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// respond writes the {"msg": ...} body every error and acknowledgement uses.
func respond(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"msg": msg})
}

func internalError(c echo.Context, err error) error {
	log.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("Request failed")
	return respond(c, http.StatusInternalServerError, "Internal server error")
}

func paramID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, false
	}
	return id, true
}

var errInvalidPayload = errors.New("Invalid request payload")

// decode binds the JSON body into req and checks its rules. The returned
// error is safe to show to the client.
func decode(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errInvalidPayload
	}
	return c.Validate(req)
}
