package service

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"

	"starwars-api/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

var (
	ErrNotFound           = errors.New("not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserRepository is the storage the user and auth flows need.
type UserRepository interface {
	GetUsers(ctx context.Context) ([]*entity.User, error)
	GetUserByID(ctx context.Context, id int) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
}

// ResourceRepository is the storage for one catalogue kind.
type ResourceRepository interface {
	Kind() entity.Kind
	GetResources(ctx context.Context) ([]*entity.Resource, error)
	GetResourceByID(ctx context.Context, id int) (*entity.Resource, error)
	GetResourceByName(ctx context.Context, name string) (*entity.Resource, error)
	CreateResource(ctx context.Context, resource *entity.Resource) (*entity.Resource, error)
	DeleteResource(ctx context.Context, id int) error
}

// FavoriteRepository is the storage for one favorite join table.
type FavoriteRepository interface {
	Kind() entity.Kind
	GetFavorites(ctx context.Context) ([]*entity.Favorite, error)
	GetFavoritesByUser(ctx context.Context, userID int) ([]*entity.Favorite, error)
	GetFavorite(ctx context.Context, userID, targetID int) (*entity.Favorite, error)
	CreateFavorite(ctx context.Context, favorite *entity.Favorite) (*entity.Favorite, error)
	DeleteFavorite(ctx context.Context, id int) error
}

// SessionRepository records the latest token handed to each user.
type SessionRepository interface {
	Enabled() bool
	SaveSession(ctx context.Context, email, token string) error
	GetSession(ctx context.Context, email string) (string, error)
}
