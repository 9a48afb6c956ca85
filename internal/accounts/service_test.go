package accounts

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGate struct{ admin *types.Identity }

func (s stubGate) RequireAdmin() (types.Identity, error) {
	if s.admin == nil {
		return types.Identity{}, pkgerrors.New(pkgerrors.CodeForbidden, "Admin access required")
	}
	return *s.admin, nil
}

type stubUsers struct {
	users    map[string]types.Identity
	order    []string
	patchErr error
	patches  []types.IdentityPatch
}

func (s *stubUsers) ListUsers(context.Context) ([]types.Identity, error) {
	out := make([]types.Identity, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.users[id])
	}
	return out, nil
}

func (s *stubUsers) GetUser(_ context.Context, id string) (types.Identity, error) {
	u, ok := s.users[id]
	if !ok {
		return types.Identity{}, pkgerrors.Remote(pkgerrors.CodeRemote, http.StatusNotFound, "users", errors.New("404"), "Not Found")
	}
	return u, nil
}

func (s *stubUsers) PatchUser(_ context.Context, id string, patch types.IdentityPatch) (types.Identity, error) {
	if s.patchErr != nil {
		return types.Identity{}, s.patchErr
	}
	s.patches = append(s.patches, patch)
	u := s.users[id]
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	if patch.IsBlocked != nil {
		u.IsBlocked = *patch.IsBlocked
	}
	s.users[id] = u
	return u, nil
}

var root = &types.Identity{ID: "a1", Name: "Root", Email: "root@bagzo.in", Role: enums.RoleAdmin, IsActive: true}

func seeded() *stubUsers {
	users := []types.Identity{
		*root,
		{ID: "u1", Name: "Asha Menon", Email: "asha@example.com", Role: enums.RoleUser, IsActive: true},
		{ID: "u2", Name: "Ravi Kumar", Email: "ravi@example.com", Role: enums.RoleCustomer, IsActive: false, IsBlocked: true},
		{ID: "u3", Name: "Meera Das", Email: "meera@example.com", Role: enums.RoleUser, IsActive: false},
		{ID: "u4", Name: "Legacy Admin", Email: "old@bagzo.in", Role: enums.RoleUser, IsAdmin: true, IsActive: true},
	}
	s := &stubUsers{users: map[string]types.Identity{}}
	for _, u := range users {
		s.users[u.ID] = u
		s.order = append(s.order, u.ID)
	}
	return s
}

func ids(users []types.Identity) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

func newAccounts(t *testing.T, api API, admin *types.Identity) Service {
	t.Helper()
	svc, err := NewService(api, stubGate{admin: admin}, nil)
	require.NoError(t, err)
	return svc
}

func TestListFilters(t *testing.T) {
	svc := newAccounts(t, seeded(), root)
	ctx := context.Background()

	got, err := svc.List(ctx, Filter{Status: enums.AccountStatusBlocked})
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, ids(got))

	got, err = svc.List(ctx, Filter{Status: enums.AccountStatusInactive})
	require.NoError(t, err)
	assert.Equal(t, []string{"u3"}, ids(got))

	got, err = svc.List(ctx, Filter{Role: enums.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "u4"}, ids(got))

	got, err = svc.List(ctx, Filter{Search: "EXAMPLE.com", Status: enums.AccountStatusActive})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, ids(got))
}

func TestStats(t *testing.T) {
	stats, err := newAccounts(t, seeded(), root).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 5, Admins: 2, Customers: 3, Active: 3, Blocked: 1, Inactive: 1}, stats)
}

func TestBlockAndUnblockFlipBothFlags(t *testing.T) {
	api := seeded()
	svc := newAccounts(t, api, root)
	ctx := context.Background()

	blocked, err := svc.Block(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, blocked.IsBlocked)
	assert.False(t, blocked.IsActive)

	unblocked, err := svc.Unblock(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, unblocked.IsBlocked)
	assert.True(t, unblocked.IsActive)
}

func TestToggle(t *testing.T) {
	api := seeded()
	svc := newAccounts(t, api, root)
	ctx := context.Background()

	got, err := svc.Toggle(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, enums.AccountStatusActive, got.Status())

	got, err = svc.Toggle(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, enums.AccountStatusBlocked, got.Status())
}

func TestCannotBlockSelf(t *testing.T) {
	api := seeded()
	_, err := newAccounts(t, api, root).Block(context.Background(), "a1")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	assert.Empty(t, api.patches)
}

func TestAdminOnly(t *testing.T) {
	api := seeded()
	svc := newAccounts(t, api, nil)
	_, err := svc.List(context.Background(), Filter{})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))
	_, err = svc.Toggle(context.Background(), "u1")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))
	assert.Empty(t, api.patches)
}

func TestFailureWording(t *testing.T) {
	api := seeded()
	api.patchErr = pkgerrors.Remote(pkgerrors.CodeRemote, http.StatusBadRequest, "users", errors.New("400"), "email is immutable")
	_, err := newAccounts(t, api, root).Block(context.Background(), "u1")
	assert.Equal(t, "Error: 400 - email is immutable", pkgerrors.As(err).Message())

	api.patchErr = pkgerrors.Remote(pkgerrors.CodeRemote, 0, "users", errors.New("dial tcp"), "store unreachable")
	_, err = newAccounts(t, api, root).Block(context.Background(), "u1")
	assert.Equal(t, "Server error. Please try again later.", pkgerrors.As(err).Message())
}
