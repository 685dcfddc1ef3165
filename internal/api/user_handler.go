package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"starwars-api/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new instance of UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUsers lists every user --> /users
func (uh *UserHandler) GetUsers(c echo.Context) error {
	users, err := uh.userService.GetUsers(c.Request().Context())
	if err != nil {
		return internalError(c, err)
	}
	if len(users) == 0 {
		return respond(c, http.StatusNotFound, "Users not found")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"msg": "ok", "results": users})
}

// GetUserByID gets a single user --> /users/:id
func (uh *UserHandler) GetUserByID(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return respond(c, http.StatusBadRequest, "Invalid ID")
	}

	user, err := uh.userService.GetUserByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return respond(c, http.StatusNotFound, "User not exist")
		}
		return internalError(c, err)
	}

	return c.JSON(http.StatusOK, user)
}

// CreateUser registers a user without issuing a token --> /user
func (uh *UserHandler) CreateUser(c echo.Context) error {
	var req CredentialsRequest
	if err := decode(c, &req); err != nil {
		return respond(c, http.StatusBadRequest, err.Error())
	}

	user, err := uh.userService.CreateUser(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyExists) {
			return respond(c, http.StatusBadRequest, "User already exists")
		}
		return internalError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"msg": "User created", "result": user})
}

// SignUp registers a user and logs them in --> /signup
func (uh *UserHandler) SignUp(c echo.Context) error {
	var req CredentialsRequest
	if err := decode(c, &req); err != nil {
		return respond(c, http.StatusBadRequest, err.Error())
	}

	token, user, err := uh.userService.SignUp(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyExists) {
			return respond(c, http.StatusBadRequest, "User already exists")
		}
		return internalError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"msg": "ok", "token": token, "user": user})
}

// Login exchanges email and password for a token --> /login
func (uh *UserHandler) Login(c echo.Context) error {
	var req CredentialsRequest
	if err := decode(c, &req); err != nil {
		return respond(c, http.StatusBadRequest, err.Error())
	}

	token, user, err := uh.userService.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return respond(c, http.StatusNotFound, "Email not found")
		case errors.Is(err, service.ErrInvalidCredentials):
			return respond(c, http.StatusUnauthorized, "Bad email or password")
		}
		return internalError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"msg": "ok", "token": token, "user": user})
}

// ValidateSession checks the token is the latest one issued --> /users/validate
func (uh *UserHandler) ValidateSession(c echo.Context) error {
	identity, ok := identityFrom(c)
	if !ok {
		return respond(c, http.StatusUnauthorized, "Missing or invalid token")
	}

	valid, err := uh.userService.ValidateSession(c.Request().Context(), identity.Email, identity.Token)
	if err != nil {
		return internalError(c, err)
	}
	if !valid {
		return respond(c, http.StatusUnauthorized, "Session expired")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"msg": "ok", "email": identity.Email})
}
