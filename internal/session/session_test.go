package session

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/resource"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/storage"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAPI struct {
	users      map[string]types.Identity
	passwords  map[string]string
	authErr    error
	getErr     error
	patchErr   error
	createErr  error
	patchCalls []types.IdentityPatch
	authCalls  int
}

func newStubAPI() *stubAPI {
	return &stubAPI{users: map[string]types.Identity{}, passwords: map[string]string{}}
}

func (s *stubAPI) add(user types.Identity, password string) {
	s.users[user.ID] = user
	s.passwords[user.Email] = password
}

func (s *stubAPI) Authenticate(_ context.Context, email, password string) (resource.Session, error) {
	s.authCalls++
	if s.authErr != nil {
		return resource.Session{}, s.authErr
	}
	for _, user := range s.users {
		if user.Email == email && s.passwords[email] == password {
			return resource.Session{Token: "tok-" + user.ID, User: user}, nil
		}
	}
	return resource.Session{}, pkgerrors.Remote(pkgerrors.CodeInvalidCredentials, http.StatusUnauthorized, "auth", errors.New("401"), "invalid email or password")
}

func (s *stubAPI) CreateUser(_ context.Context, in types.NewIdentity) (types.Identity, error) {
	if s.createErr != nil {
		return types.Identity{}, s.createErr
	}
	user := types.Identity{ID: "u-new", Name: in.Name, Email: in.Email, Role: enums.RoleUser, IsActive: true}
	s.add(user, in.Password)
	return user, nil
}

func (s *stubAPI) GetUser(_ context.Context, id string) (types.Identity, error) {
	if s.getErr != nil {
		return types.Identity{}, s.getErr
	}
	user, ok := s.users[id]
	if !ok {
		return types.Identity{}, pkgerrors.Remote(pkgerrors.CodeRemote, http.StatusNotFound, "users", errors.New("404"), "user not found")
	}
	return user, nil
}

func (s *stubAPI) PatchUser(_ context.Context, id string, patch types.IdentityPatch) (types.Identity, error) {
	s.patchCalls = append(s.patchCalls, patch)
	if s.patchErr != nil {
		return types.Identity{}, s.patchErr
	}
	user := s.users[id]
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}
	s.users[id] = user
	return user, nil
}

type tokenRecorder struct{ tokens []string }

func (r *tokenRecorder) SetToken(token string) { r.tokens = append(r.tokens, token) }

func (r *tokenRecorder) last() string {
	if len(r.tokens) == 0 {
		return ""
	}
	return r.tokens[len(r.tokens)-1]
}

func newStore(api API) (*Store, *storage.Memory, *tokenRecorder) {
	local := storage.NewMemory()
	tokens := &tokenRecorder{}
	return New(api, tokens, local, nil), local, tokens
}

func TestLoginPersistsIdentityAndToken(t *testing.T) {
	ctx := context.Background()
	api := newStubAPI()
	api.add(types.Identity{ID: "u1", Email: "asha@example.com", Role: enums.RoleCustomer, IsActive: true}, "secret1")
	store, local, tokens := newStore(api)

	user, err := store.Login(ctx, " Asha@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.True(t, store.IsAuthenticated())
	assert.True(t, store.IsUser())
	assert.False(t, store.IsAdmin())
	assert.Equal(t, "tok-u1", store.Token())
	assert.Equal(t, "tok-u1", tokens.last())

	var saved persisted
	require.NoError(t, storage.GetJSON(ctx, local, StorageKey, &saved))
	assert.Equal(t, "u1", saved.User.ID)
	assert.Equal(t, "tok-u1", saved.Token)
}

func TestLoginInvalidCredentials(t *testing.T) {
	api := newStubAPI()
	api.add(types.Identity{ID: "u1", Email: "asha@example.com", IsActive: true}, "secret1")
	store, local, _ := newStore(api)

	_, err := store.Login(context.Background(), "asha@example.com", "wrong")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeInvalidCredentials))
	assert.Equal(t, msgInvalidCredentials, store.LastError())
	assert.False(t, store.IsAuthenticated())
	_, getErr := local.Get(context.Background(), StorageKey)
	assert.ErrorIs(t, getErr, storage.ErrNotFound)
}

func TestLoginBlockedNotAdopted(t *testing.T) {
	api := newStubAPI()
	api.authErr = pkgerrors.Remote(pkgerrors.CodeAccountBlocked, http.StatusForbidden, "auth", errors.New("403"), "blocked")
	store, _, _ := newStore(api)

	_, err := store.Login(context.Background(), "asha@example.com", "secret1")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeAccountBlocked))
	assert.Equal(t, msgAccountBlocked, store.LastError())
	assert.Nil(t, store.Current())

	api.authErr = nil
	api.add(types.Identity{ID: "u2", Email: "b@example.com", IsActive: true, IsBlocked: true}, "secret1")
	_, err = store.Login(context.Background(), "b@example.com", "secret1")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeAccountBlocked))
	assert.False(t, store.IsAuthenticated())
}

func TestLoginReactivatesInactiveAccount(t *testing.T) {
	api := newStubAPI()
	api.add(types.Identity{ID: "u1", Email: "asha@example.com", IsActive: false}, "secret1")
	store, _, _ := newStore(api)

	user, err := store.Login(context.Background(), "asha@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	require.Len(t, api.patchCalls, 1)
	require.NotNil(t, api.patchCalls[0].IsActive)
	assert.True(t, *api.patchCalls[0].IsActive)
}

func TestLoginReactivationFailureIsNotAdopted(t *testing.T) {
	api := newStubAPI()
	api.add(types.Identity{ID: "u1", Email: "asha@example.com", IsActive: false}, "secret1")
	api.patchErr = pkgerrors.Remote(pkgerrors.CodeRemote, http.StatusInternalServerError, "users", errors.New("500"), "boom")
	store, _, tokens := newStore(api)

	_, err := store.Login(context.Background(), "asha@example.com", "secret1")
	require.Error(t, err)
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, msgLoginFailed, store.LastError())
	assert.Equal(t, "", tokens.last())
}

func TestLoginRequiresBothFields(t *testing.T) {
	api := newStubAPI()
	store, _, _ := newStore(api)
	_, err := store.Login(context.Background(), "", "x")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	assert.Zero(t, api.authCalls)
}

func TestRegisterAdoptsNewIdentity(t *testing.T) {
	api := newStubAPI()
	store, _, _ := newStore(api)

	user, err := store.Register(context.Background(), types.NewIdentity{Name: "Asha", Email: "ASHA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "u-new", user.ID)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "tok-u-new", store.Token())
}

func TestRegisterValidation(t *testing.T) {
	api := newStubAPI()
	store, _, _ := newStore(api)

	_, err := store.Register(context.Background(), types.NewIdentity{Name: "Asha", Email: "asha@example.com", Password: "12345"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Contains(t, typed.Details().(map[string]string), "password")
	assert.Zero(t, api.authCalls)
}

func TestRegisterConflict(t *testing.T) {
	api := newStubAPI()
	api.createErr = pkgerrors.Remote(pkgerrors.CodeConflict, http.StatusConflict, "users", errors.New("409"), "email already registered")
	store, _, _ := newStore(api)

	_, err := store.Register(context.Background(), types.NewIdentity{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, msgEmailTaken, store.LastError())
	assert.False(t, store.IsAuthenticated())
}

func TestLogoutPurges(t *testing.T) {
	ctx := context.Background()
	api := newStubAPI()
	api.add(types.Identity{ID: "u1", Email: "asha@example.com", IsActive: true}, "secret1")
	store, local, tokens := newStore(api)
	_, err := store.Login(ctx, "asha@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, store.Logout(ctx))
	assert.Nil(t, store.Current())
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, "", tokens.last())
	_, err = local.Get(ctx, StorageKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

// A user blocked by an admin after logging in loses the session on the next load.
func TestRestorePurgesAccountBlockedSinceLogin(t *testing.T) {
	ctx := context.Background()
	api := newStubAPI()
	api.add(types.Identity{ID: "u1", Email: "asha@example.com", IsActive: true}, "secret1")
	first, local, _ := newStore(api)
	_, err := first.Login(ctx, "asha@example.com", "secret1")
	require.NoError(t, err)
	require.True(t, first.IsAuthenticated())

	blocked := api.users["u1"]
	blocked.IsBlocked = true
	api.users["u1"] = blocked

	next := New(api, &tokenRecorder{}, local, nil)
	user, err := next.Restore(ctx)
	assert.Nil(t, user)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeAccountBlocked))
	assert.False(t, next.IsAuthenticated())
	assert.Equal(t, msgAccountBlocked, next.LastError())
	_, err = local.Get(ctx, StorageKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRestorePurgesWhenStoreRefusesBlockedCaller(t *testing.T) {
	ctx := context.Background()
	local := storage.NewMemory()
	require.NoError(t, storage.SetJSON(ctx, local, StorageKey, persisted{
		User:  types.Identity{ID: "u1", Name: "Asha", IsActive: true},
		Token: "tok-u1",
	}))
	api := newStubAPI()
	api.getErr = pkgerrors.Remote(pkgerrors.CodeAccountBlocked, http.StatusForbidden, "users", errors.New("403"), "Your account has been blocked. Please contact support.")

	store := New(api, nil, local, nil)
	user, err := store.Restore(ctx)
	assert.Nil(t, user)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeAccountBlocked))
	assert.False(t, store.IsAuthenticated())
	_, err = local.Get(ctx, StorageKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRestoreCachedBlockedCopy(t *testing.T) {
	ctx := context.Background()
	local := storage.NewMemory()
	require.NoError(t, storage.SetJSON(ctx, local, StorageKey, persisted{User: types.Identity{ID: "u1", IsBlocked: true}}))
	api := newStubAPI()

	store := New(api, nil, local, nil)
	_, err := store.Restore(ctx)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeAccountBlocked))
	assert.False(t, store.IsAuthenticated())
}

func TestRestoreFallsBackToCacheWhenStoreDown(t *testing.T) {
	ctx := context.Background()
	local := storage.NewMemory()
	require.NoError(t, storage.SetJSON(ctx, local, StorageKey, persisted{
		User:  types.Identity{ID: "u1", Name: "Asha", IsActive: true},
		Token: "tok-u1",
	}))
	api := newStubAPI()
	api.getErr = pkgerrors.Remote(pkgerrors.CodeRemote, 0, "users", errors.New("dial"), "store unreachable")

	store := New(api, nil, local, nil)
	user, err := store.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Asha", user.Name)
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "tok-u1", store.Token())
}

func TestRestoreDropsExpiredAndCorruptSessions(t *testing.T) {
	ctx := context.Background()
	local := storage.NewMemory()
	store := New(newStubAPI(), nil, local, nil)
	store.now = func() time.Time { return time.Unix(2000, 0) }

	require.NoError(t, storage.SetJSON(ctx, local, StorageKey, persisted{User: types.Identity{ID: "u1"}, Token: "t", ExpiresAt: 1000}))
	user, err := store.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	require.NoError(t, local.Set(ctx, StorageKey, []byte("{broken")))
	user, err = store.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
	_, err = local.Get(ctx, StorageKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRoleQueries(t *testing.T) {
	ctx := context.Background()
	api := newStubAPI()
	api.add(types.Identity{ID: "a1", Email: "admin@example.com", Role: enums.RoleUser, IsAdmin: true, IsActive: true}, "secret1")
	store, _, _ := newStore(api)
	assert.Equal(t, enums.RoleUser, store.Role())

	_, err := store.Login(ctx, "admin@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, store.IsAdmin())
	_, err = store.RequireAdmin()
	assert.NoError(t, err)

	require.NoError(t, store.Logout(ctx))
	_, err = store.RequireAdmin()
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotAuthenticated))
}
