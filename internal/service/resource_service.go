package service

import (
	"context"
	"errors"

	"starwars-api/internal/entity"
	"starwars-api/internal/repository"
)

// ResourceService manages one catalogue kind: characters, planets or vehicles.
type ResourceService struct {
	repo ResourceRepository
}

func NewResourceService(repo ResourceRepository) *ResourceService {
	return &ResourceService{repo: repo}
}

func (s *ResourceService) Kind() entity.Kind {
	return s.repo.Kind()
}

func (s *ResourceService) GetResources(ctx context.Context) ([]*entity.Resource, error) {
	resources, err := s.repo.GetResources(ctx)
	if err != nil {
		logger.Error().Err(err).Str("kind", string(s.Kind())).Msg("Error listing resources")
		return nil, err
	}

	return resources, nil
}

func (s *ResourceService) GetResource(ctx context.Context, id int) (*entity.Resource, error) {
	resource, err := s.repo.GetResourceByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msgf("Error getting %s by ID %d", s.Kind(), id)
		return nil, err
	}

	return resource, nil
}

// CreateResource inserts a row unless one with the same name exists.
func (s *ResourceService) CreateResource(ctx context.Context, name string, description *string) (*entity.Resource, error) {
	_, err := s.repo.GetResourceByName(ctx, name)
	switch {
	case err == nil:
		return nil, ErrAlreadyExists
	case !errors.Is(err, repository.ErrNotFound):
		logger.Error().Err(err).Msgf("Error getting %s by name", s.Kind())
		return nil, err
	}

	resource, err := s.repo.CreateResource(ctx, &entity.Resource{Name: name, Description: description})
	if err != nil {
		// a concurrent create took the name after the lookup
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyExists
		}
		logger.Error().Err(err).Msgf("Error creating %s", s.Kind())
		return nil, err
	}

	return resource, nil
}

func (s *ResourceService) DeleteResource(ctx context.Context, id int) error {
	err := s.repo.DeleteResource(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		logger.Error().Err(err).Msgf("Error deleting %s %d", s.Kind(), id)
		return err
	}

	return nil
}
