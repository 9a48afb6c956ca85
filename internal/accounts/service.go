// Package accounts is the admin view over user accounts: listing, blocking
// and unblocking.
package accounts

import (
	"context"
	"fmt"
	"strings"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

// API is the slice of the store the accounts service needs.
type API interface {
	ListUsers(ctx context.Context) ([]types.Identity, error)
	GetUser(ctx context.Context, id string) (types.Identity, error)
	PatchUser(ctx context.Context, id string, patch types.IdentityPatch) (types.Identity, error)
}

type adminGate interface {
	RequireAdmin() (types.Identity, error)
}

// Filter narrows the user listing. Zero values match everything.
type Filter struct {
	Role   enums.Role
	Status enums.AccountStatus
	Search string
}

// Stats counts accounts by role and status.
type Stats struct {
	Total     int `json:"total"`
	Admins    int `json:"admins"`
	Customers int `json:"customers"`
	Active    int `json:"active"`
	Blocked   int `json:"blocked"`
	Inactive  int `json:"inactive"`
}

type Service interface {
	List(ctx context.Context, filter Filter) ([]types.Identity, error)
	Stats(ctx context.Context) (Stats, error)
	Block(ctx context.Context, id string) (types.Identity, error)
	Unblock(ctx context.Context, id string) (types.Identity, error)
	Toggle(ctx context.Context, id string) (types.Identity, error)
}

type service struct {
	api   API
	admin adminGate
	logg  *logger.Logger
}

func NewService(api API, admin adminGate, logg *logger.Logger) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("accounts api required")
	}
	if admin == nil {
		return nil, fmt.Errorf("admin gate required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{api: api, admin: admin, logg: logg}, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]types.Identity, error) {
	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]types.Identity, 0, len(users))
	for _, u := range users {
		if filter.Role != "" && !matchesRole(u, filter.Role) {
			continue
		}
		if filter.Status != "" && u.Status() != filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *service) Stats(ctx context.Context) (Stats, error) {
	users, err := s.load(ctx)
	if err != nil {
		return Stats{}, err
	}
	var stats Stats
	for _, u := range users {
		stats.Total++
		if u.HasAdminRights() {
			stats.Admins++
		} else if u.Role.IsShopper() {
			stats.Customers++
		}
		switch u.Status() {
		case enums.AccountStatusActive:
			stats.Active++
		case enums.AccountStatusBlocked:
			stats.Blocked++
		case enums.AccountStatusInactive:
			stats.Inactive++
		}
	}
	return stats, nil
}

// Block deactivates and blocks the account.
func (s *service) Block(ctx context.Context, id string) (types.Identity, error) {
	return s.setBlocked(ctx, id, true)
}

// Unblock reactivates the account.
func (s *service) Unblock(ctx context.Context, id string) (types.Identity, error) {
	return s.setBlocked(ctx, id, false)
}

// Toggle unblocks a blocked account and blocks any other.
func (s *service) Toggle(ctx context.Context, id string) (types.Identity, error) {
	if _, err := s.admin.RequireAdmin(); err != nil {
		return types.Identity{}, err
	}
	user, err := s.api.GetUser(ctx, id)
	if err != nil {
		return types.Identity{}, s.failure(s.logg.WithUserID(ctx, id), "load user failed", err)
	}
	return s.setBlocked(ctx, id, !user.IsBlocked)
}

func (s *service) setBlocked(ctx context.Context, id string, blocked bool) (types.Identity, error) {
	admin, err := s.admin.RequireAdmin()
	if err != nil {
		return types.Identity{}, err
	}
	if blocked && admin.ID == id {
		return types.Identity{}, pkgerrors.New(pkgerrors.CodeValidation, "You cannot block your own account")
	}
	active := !blocked
	ctx = s.logg.WithFields(ctx, map[string]any{"target_user_id": id, "blocked": blocked})
	updated, err := s.api.PatchUser(ctx, id, types.IdentityPatch{IsActive: &active, IsBlocked: &blocked})
	if err != nil {
		return types.Identity{}, s.failure(ctx, "update account status failed", err)
	}
	s.logg.Info(s.logg.WithUserID(ctx, admin.ID), "account status changed")
	return updated, nil
}

func (s *service) load(ctx context.Context) ([]types.Identity, error) {
	if _, err := s.admin.RequireAdmin(); err != nil {
		return nil, err
	}
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		return nil, s.failure(ctx, "list users failed", err)
	}
	return users, nil
}

func (s *service) failure(ctx context.Context, logMsg string, err error) error {
	s.logg.Error(ctx, logMsg, err)
	return pkgerrors.Wrap(pkgerrors.CodeRemote, err, pkgerrors.RemoteMessage(err))
}

func matchesRole(u types.Identity, role enums.Role) bool {
	if role == enums.RoleAdmin {
		return u.HasAdminRights()
	}
	return u.Role == role
}
