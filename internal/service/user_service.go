package service

import (
	"context"
	"errors"
	"fmt"

	"starwars-api/internal/auth"
	"starwars-api/internal/entity"
	"starwars-api/internal/repository"
)

// UserService owns accounts: registration, login and identity lookups.
type UserService struct {
	repo     UserRepository
	sessions SessionRepository
	tokens   *auth.TokenManager
	hasher   *auth.PasswordHasher
	events   EventPublisher
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo UserRepository, sessions SessionRepository, tokens *auth.TokenManager, hasher *auth.PasswordHasher, events EventPublisher) *UserService {
	if events == nil {
		events = NopPublisher{}
	}
	return &UserService{
		repo:     repo,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
		events:   events,
	}
}

// GetUsers lists every registered user.
func (s *UserService) GetUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := s.repo.GetUsers(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting users")
		return nil, err
	}

	return users, nil
}

// GetUserByID retrieves a user by ID.
func (s *UserService) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error().Err(err).Msgf("Error getting user by ID %d", id)
		return nil, err
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error().Err(err).Str("email", email).Msg("Error getting user by email")
		return nil, err
	}

	return user, nil
}

// CreateUser registers a user without logging them in.
func (s *UserService) CreateUser(ctx context.Context, email, password string) (*entity.User, error) {
	_, err := s.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrAlreadyExists
	case !errors.Is(err, ErrUserNotFound):
		return nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, &entity.User{Email: email, Password: hashed})
	if err != nil {
		// lost a race against a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyExists
		}
		logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}

	return user, nil
}

// SignUp registers a user and returns a token for them straight away.
func (s *UserService) SignUp(ctx context.Context, email, password string) (string, *entity.User, error) {
	user, err := s.CreateUser(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.issue(ctx, user)
	if err != nil {
		return "", nil, err
	}

	publish(ctx, s.events, Event{Type: EventUserSignedUp, UserID: user.ID, Email: user.Email})
	return token, user, nil
}

// Authenticate checks email and password and returns a fresh token.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (string, *entity.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if !s.hasher.Matches(user.Password, password) {
		logger.Warn().Str("email", email).Msg("Invalid credentials")
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issue(ctx, user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// ResolveIdentity returns the email a token was issued for.
func (s *UserService) ResolveIdentity(token string) (string, error) {
	return s.tokens.ResolveIdentity(token)
}

// ValidateSession reports whether token is the latest one issued to email.
// Without a session store every verified token is current.
func (s *UserService) ValidateSession(ctx context.Context, email, token string) (bool, error) {
	if s.sessions == nil || !s.sessions.Enabled() {
		return true, nil
	}

	stored, err := s.sessions.GetSession(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		logger.Error().Err(err).Str("email", email).Msg("Error reading session")
		return false, err
	}

	return stored == token, nil
}

func (s *UserService) issue(ctx context.Context, user *entity.User) (string, error) {
	token, err := s.tokens.IssueToken(user.Email)
	if err != nil {
		logger.Error().Err(err).Int("user_id", user.ID).Msg("Error issuing token")
		return "", err
	}

	if s.sessions != nil {
		if err := s.sessions.SaveSession(ctx, user.Email, token); err != nil {
			logger.Error().Err(err).Str("email", user.Email).Msg("Error storing session")
		}
	}

	return token, nil
}
