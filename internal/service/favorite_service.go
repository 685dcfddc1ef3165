package service

import (
	"context"
	"errors"
	"fmt"

	"starwars-api/internal/entity"
	"starwars-api/internal/repository"
)

// FavoriteService keeps the (user, catalogue row) favorite pairs.
type FavoriteService struct {
	users     UserRepository
	resources map[entity.Kind]ResourceRepository
	favorites map[entity.Kind]FavoriteRepository
	events    EventPublisher
}

// NewFavoriteService wires one resource and one favorite repository per kind.
func NewFavoriteService(users UserRepository, resources []ResourceRepository, favorites []FavoriteRepository, events EventPublisher) *FavoriteService {
	if events == nil {
		events = NopPublisher{}
	}

	s := &FavoriteService{
		users:     users,
		resources: make(map[entity.Kind]ResourceRepository, len(resources)),
		favorites: make(map[entity.Kind]FavoriteRepository, len(favorites)),
		events:    events,
	}
	for _, repo := range resources {
		s.resources[repo.Kind()] = repo
	}
	for _, repo := range favorites {
		s.favorites[repo.Kind()] = repo
	}
	return s
}

// AddFavorite marks the row of kind with targetID as a favorite of the user
// behind email. Either side missing fails: ErrUserNotFound or ErrNotFound.
func (s *FavoriteService) AddFavorite(ctx context.Context, email string, kind entity.Kind, targetID int) (*entity.Favorite, error) {
	resources, favorites, err := s.repos(kind)
	if err != nil {
		return nil, err
	}

	user, err := s.user(ctx, email)
	if err != nil {
		return nil, err
	}

	if _, err := resources.GetResourceByID(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msgf("Error getting %s by ID %d", kind, targetID)
		return nil, err
	}

	_, err = favorites.GetFavorite(ctx, user.ID, targetID)
	switch {
	case err == nil:
		return nil, ErrAlreadyExists
	case !errors.Is(err, repository.ErrNotFound):
		logger.Error().Err(err).Msgf("Error getting favorite %s %d", kind, targetID)
		return nil, err
	}

	favorite, err := favorites.CreateFavorite(ctx, &entity.Favorite{UserID: user.ID, TargetID: targetID})
	if err != nil {
		// the unique (user_id, target) constraint caught a concurrent add
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyExists
		}
		// the target was deleted after the lookup
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msgf("Error creating favorite %s %d", kind, targetID)
		return nil, err
	}

	publish(ctx, s.events, Event{Type: EventFavoriteAdded, UserID: user.ID, Kind: kind, TargetID: targetID})
	return favorite, nil
}

// RemoveFavorite deletes the pair, returning ErrNotFound when it was never added.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, email string, kind entity.Kind, targetID int) error {
	_, favorites, err := s.repos(kind)
	if err != nil {
		return err
	}

	user, err := s.user(ctx, email)
	if err != nil {
		return err
	}

	favorite, err := favorites.GetFavorite(ctx, user.ID, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		logger.Error().Err(err).Msgf("Error getting favorite %s %d", kind, targetID)
		return err
	}

	if err := favorites.DeleteFavorite(ctx, favorite.ID); err != nil {
		// removed concurrently between the lookup and the delete
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		logger.Error().Err(err).Msgf("Error deleting favorite %d", favorite.ID)
		return err
	}

	publish(ctx, s.events, Event{Type: EventFavoriteRemoved, UserID: user.ID, Kind: kind, TargetID: targetID})
	return nil
}

// GetUserFavorites returns every favorite of the user behind email.
func (s *FavoriteService) GetUserFavorites(ctx context.Context, email string) (*entity.FavoriteSet, error) {
	user, err := s.user(ctx, email)
	if err != nil {
		return nil, err
	}

	set := entity.NewFavoriteSet()
	for _, kind := range entity.Kinds {
		repo, ok := s.favorites[kind]
		if !ok {
			continue
		}
		favorites, err := repo.GetFavoritesByUser(ctx, user.ID)
		if err != nil {
			logger.Error().Err(err).Int("user_id", user.ID).Msgf("Error listing %s favorites", kind)
			return nil, err
		}
		set.Add(kind, favorites...)
	}

	return set, nil
}

// GetAllFavorites returns the favorites of all users, unfiltered.
func (s *FavoriteService) GetAllFavorites(ctx context.Context) (*entity.FavoriteSet, error) {
	set := entity.NewFavoriteSet()
	for _, kind := range entity.Kinds {
		repo, ok := s.favorites[kind]
		if !ok {
			continue
		}
		favorites, err := repo.GetFavorites(ctx)
		if err != nil {
			logger.Error().Err(err).Msgf("Error listing %s favorites", kind)
			return nil, err
		}
		set.Add(kind, favorites...)
	}

	return set, nil
}

func (s *FavoriteService) repos(kind entity.Kind) (ResourceRepository, FavoriteRepository, error) {
	resources, ok := s.resources[kind]
	if !ok {
		return nil, nil, fmt.Errorf("no resource repository for kind %q", kind)
	}
	favorites, ok := s.favorites[kind]
	if !ok {
		return nil, nil, fmt.Errorf("no favorite repository for kind %q", kind)
	}
	return resources, favorites, nil
}

func (s *FavoriteService) user(ctx context.Context, email string) (*entity.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error().Err(err).Str("email", email).Msg("Error getting user by email")
		return nil, err
	}
	return user, nil
}
