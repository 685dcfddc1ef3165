package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"starwars-api/internal/auth"
	"starwars-api/internal/database"
	"starwars-api/internal/entity"
	"starwars-api/internal/repository"
	"starwars-api/migrations"
)

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]string
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string]string{}}
}

func (m *memorySessions) Enabled() bool { return true }

func (m *memorySessions) SaveSession(_ context.Context, email, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[email] = token
	return nil
}

func (m *memorySessions) GetSession(_ context.Context, email string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.sessions[email]
	if !ok {
		return "", repository.ErrNotFound
	}
	return token, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.events))
	for _, e := range p.events {
		keys = append(keys, e.Key())
	}
	return keys
}

// staleResources answers lookups as if another request changed the table
// between the check and the write.
type staleResources struct {
	ResourceRepository
}

func (staleResources) GetResourceByName(context.Context, string) (*entity.Resource, error) {
	return nil, repository.ErrNotFound
}

func (s staleResources) GetResourceByID(_ context.Context, id int) (*entity.Resource, error) {
	return &entity.Resource{ID: id, Kind: s.Kind()}, nil
}

type fixture struct {
	db        *database.DB
	users     *UserService
	resources map[entity.Kind]*ResourceService
	favorites *FavoriteService
	sessions  *memorySessions
	events    *recordingPublisher
	tokens    *auth.TokenManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	db, err := database.Open(ctx, "sqlite:///"+filepath.Join(t.TempDir(), "test.db"), 1)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.AutoMigrate(ctx, db, 0))

	tokens, err := auth.NewTokenManager("secret", 0)
	require.NoError(t, err)

	f := &fixture{
		db:        db,
		resources: map[entity.Kind]*ResourceService{},
		sessions:  newMemorySessions(),
		events:    &recordingPublisher{},
		tokens:    tokens,
	}

	userRepo := repository.NewUserRepository(db)
	var resourceRepos []ResourceRepository
	var favoriteRepos []FavoriteRepository
	for _, kind := range entity.Kinds {
		repo := repository.NewResourceRepository(db, kind)
		resourceRepos = append(resourceRepos, repo)
		favoriteRepos = append(favoriteRepos, repository.NewFavoriteRepository(db, kind))
		f.resources[kind] = NewResourceService(repo)
	}

	f.users = NewUserService(userRepo, f.sessions, tokens, auth.NewPasswordHasher(bcrypt.MinCost), f.events)
	f.favorites = NewFavoriteService(userRepo, resourceRepos, favoriteRepos, f.events)
	return f
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	users, err := f.users.GetUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	token, luke, err := f.users.SignUp(ctx, "luke@rebels.org", "use-the-force")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "use-the-force", luke.Password)

	email, err := f.users.ResolveIdentity(token)
	require.NoError(t, err)
	assert.Equal(t, "luke@rebels.org", email)

	t.Run("email is unique", func(t *testing.T) {
		_, _, err := f.users.SignUp(ctx, "luke@rebels.org", "other")
		assert.ErrorIs(t, err, ErrAlreadyExists)
		_, err = f.users.CreateUser(ctx, "luke@rebels.org", "other")
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("create user issues no session", func(t *testing.T) {
		leia, err := f.users.CreateUser(ctx, "leia@rebels.org", "alderaan")
		require.NoError(t, err)

		_, err = f.sessions.GetSession(ctx, leia.Email)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("lookups", func(t *testing.T) {
		got, err := f.users.GetUserByID(ctx, luke.ID)
		require.NoError(t, err)
		assert.Equal(t, luke.Email, got.Email)

		_, err = f.users.GetUserByID(ctx, 999)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("authenticate", func(t *testing.T) {
		_, _, err := f.users.Authenticate(ctx, "vader@empire.gov", "x")
		assert.ErrorIs(t, err, ErrUserNotFound)

		_, _, err = f.users.Authenticate(ctx, "luke@rebels.org", "dark-side")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		token, user, err := f.users.Authenticate(ctx, "luke@rebels.org", "use-the-force")
		require.NoError(t, err)
		assert.Equal(t, luke.ID, user.ID)

		valid, err := f.users.ValidateSession(ctx, user.Email, token)
		require.NoError(t, err)
		assert.True(t, valid)
	})

	assert.Equal(t, []string{"user-signedup-1"}, f.events.keys())
}

func TestValidateSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	token, _, err := f.users.SignUp(ctx, "luke@rebels.org", "use-the-force")
	require.NoError(t, err)

	valid, err := f.users.ValidateSession(ctx, "luke@rebels.org", token)
	require.NoError(t, err)
	assert.True(t, valid)

	// a later login replaces the stored session
	require.NoError(t, f.sessions.SaveSession(ctx, "luke@rebels.org", "newer-token"))
	valid, err = f.users.ValidateSession(ctx, "luke@rebels.org", token)
	require.NoError(t, err)
	assert.False(t, valid)

	valid, err = f.users.ValidateSession(ctx, "leia@rebels.org", token)
	require.NoError(t, err)
	assert.False(t, valid)

	t.Run("without a session store every token is current", func(t *testing.T) {
		users := NewUserService(nil, repository.NewSessionRepository(nil, 0), f.tokens, nil, nil)
		valid, err := users.ValidateSession(ctx, "luke@rebels.org", token)
		require.NoError(t, err)
		assert.True(t, valid)
	})
}

func TestResourceService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	people := f.resources[entity.KindCharacter]
	assert.Equal(t, entity.KindCharacter, people.Kind())

	desc := "farm boy"
	luke, err := people.CreateResource(ctx, "Luke Skywalker", &desc)
	require.NoError(t, err)
	assert.Equal(t, 1, luke.ID)

	_, err = people.CreateResource(ctx, "Luke Skywalker", nil)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// names are unique per kind only
	_, err = f.resources[entity.KindPlanet].CreateResource(ctx, "Luke Skywalker", nil)
	assert.NoError(t, err)

	got, err := people.GetResource(ctx, luke.ID)
	require.NoError(t, err)
	assert.Equal(t, "farm boy", *got.Description)

	all, err := people.GetResources(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, people.DeleteResource(ctx, luke.ID))
	assert.ErrorIs(t, people.DeleteResource(ctx, luke.ID), ErrNotFound)

	_, err = people.GetResource(ctx, luke.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateResourceLosingNameRace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	stale := NewResourceService(staleResources{repository.NewResourceRepository(f.db, entity.KindCharacter)})

	_, err := stale.CreateResource(ctx, "Luke Skywalker", nil)
	require.NoError(t, err)

	_, err = stale.CreateResource(ctx, "Luke Skywalker", nil)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	all, err := f.resources[entity.KindCharacter].GetResources(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAddFavoriteOfDeletedTarget(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, luke, err := f.users.SignUp(ctx, "luke@rebels.org", "use-the-force")
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(f.db)
	favorites := NewFavoriteService(userRepo,
		[]ResourceRepository{staleResources{repository.NewResourceRepository(f.db, entity.KindPlanet)}},
		[]FavoriteRepository{repository.NewFavoriteRepository(f.db, entity.KindPlanet)},
		nil)

	_, err = favorites.AddFavorite(ctx, luke.Email, entity.KindPlanet, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFavoriteService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, luke, err := f.users.SignUp(ctx, "luke@rebels.org", "use-the-force")
	require.NoError(t, err)
	tatooine, err := f.resources[entity.KindPlanet].CreateResource(ctx, "Tatooine", nil)
	require.NoError(t, err)
	xwing, err := f.resources[entity.KindVehicle].CreateResource(ctx, "X-wing", nil)
	require.NoError(t, err)

	set, err := f.favorites.GetUserFavorites(ctx, luke.Email)
	require.NoError(t, err)
	assert.True(t, set.Empty())

	fav, err := f.favorites.AddFavorite(ctx, luke.Email, entity.KindPlanet, tatooine.ID)
	require.NoError(t, err)
	assert.Equal(t, luke.ID, fav.UserID)
	assert.Equal(t, tatooine.ID, fav.TargetID)

	_, err = f.favorites.AddFavorite(ctx, luke.Email, entity.KindVehicle, xwing.ID)
	require.NoError(t, err)

	t.Run("add errors", func(t *testing.T) {
		_, err := f.favorites.AddFavorite(ctx, luke.Email, entity.KindPlanet, tatooine.ID)
		assert.ErrorIs(t, err, ErrAlreadyExists)

		_, err = f.favorites.AddFavorite(ctx, luke.Email, entity.KindCharacter, 42)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = f.favorites.AddFavorite(ctx, "ghost@rebels.org", entity.KindPlanet, tatooine.ID)
		assert.ErrorIs(t, err, ErrUserNotFound)

		// both sides missing still fails
		_, err = f.favorites.AddFavorite(ctx, "ghost@rebels.org", entity.KindPlanet, 42)
		assert.Error(t, err)

		_, err = f.favorites.AddFavorite(ctx, luke.Email, entity.Kind("starship"), 1)
		assert.Error(t, err)
	})

	t.Run("listing", func(t *testing.T) {
		set, err := f.favorites.GetUserFavorites(ctx, luke.Email)
		require.NoError(t, err)
		assert.Len(t, set.Planets, 1)
		assert.Len(t, set.Vehicles, 1)
		assert.Empty(t, set.Characters)

		all, err := f.favorites.GetAllFavorites(ctx)
		require.NoError(t, err)
		assert.Len(t, all.Planets, 1)

		_, err = f.favorites.GetUserFavorites(ctx, "ghost@rebels.org")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, f.favorites.RemoveFavorite(ctx, luke.Email, entity.KindPlanet, tatooine.ID))
		assert.ErrorIs(t, f.favorites.RemoveFavorite(ctx, luke.Email, entity.KindPlanet, tatooine.ID), ErrNotFound)
		assert.ErrorIs(t, f.favorites.RemoveFavorite(ctx, "ghost@rebels.org", entity.KindPlanet, tatooine.ID), ErrUserNotFound)
	})

	t.Run("deleting the vehicle drops the favorite", func(t *testing.T) {
		require.NoError(t, f.resources[entity.KindVehicle].DeleteResource(ctx, xwing.ID))

		set, err := f.favorites.GetUserFavorites(ctx, luke.Email)
		require.NoError(t, err)
		assert.True(t, set.Empty())
	})

	assert.Equal(t, []string{
		"user-signedup-1",
		"favorite-added-planet-1",
		"favorite-added-vehicle-1",
		"favorite-removed-planet-1",
	}, f.events.keys())
}

func TestPublishFailureDoesNotFailTheWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.events.err = errors.New("broker down")

	_, _, err := f.users.SignUp(ctx, "luke@rebels.org", "use-the-force")
	require.NoError(t, err)
	assert.Len(t, f.events.keys(), 1)
}

func TestEventKey(t *testing.T) {
	assert.Equal(t, "user-signedup-7", Event{Type: EventUserSignedUp, UserID: 7}.Key())
	assert.Equal(t, "favorite-removed-character-3", Event{Type: EventFavoriteRemoved, UserID: 7, Kind: entity.KindCharacter, TargetID: 3}.Key())
}
