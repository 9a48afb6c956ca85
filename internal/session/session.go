// Package session resolves and holds the acting identity for the storefront.
// The identity and its session token are persisted to local storage so the
// session survives restarts, and a blocked account is never treated as
// authenticated.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/resource"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/checkout"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/storage"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

// StorageKey is the local storage key holding the persisted session.
const StorageKey = "user"

const (
	msgInvalidCredentials = "Invalid email or password. Please try again."
	msgAccountBlocked     = "Your account has been blocked. Please contact admin."
	msgLoginFailed        = "Login failed. Please try again."
	msgRegisterFailed     = "Registration failed. Please try again."
	msgMissingCredentials = "Please enter your email and password"
	msgEmailTaken         = "An account with this email already exists"
)

// API is the slice of the store the session needs.
type API interface {
	Authenticate(ctx context.Context, email, password string) (resource.Session, error)
	CreateUser(ctx context.Context, in types.NewIdentity) (types.Identity, error)
	GetUser(ctx context.Context, id string) (types.Identity, error)
	PatchUser(ctx context.Context, id string, patch types.IdentityPatch) (types.Identity, error)
}

// TokenSink receives the bearer token whenever the session changes.
type TokenSink interface {
	SetToken(token string)
}

type persisted struct {
	User      types.Identity `json:"user"`
	Token     string         `json:"token"`
	ExpiresAt int64          `json:"expiresAt,omitempty"`
}

// Store holds the current identity.
type Store struct {
	api      API
	tokens   TokenSink
	local    storage.Store
	logg     *logger.Logger
	validate *validator.Validate
	now      func() time.Time

	mu        sync.RWMutex
	current   *types.Identity
	token     string
	expiresAt time.Time
	lastErr   string
}

// New builds a session store. tokens may be nil when the API does not need a
// bearer token.
func New(api API, tokens TokenSink, local storage.Store, logg *logger.Logger) *Store {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Store{
		api:      api,
		tokens:   tokens,
		local:    local,
		logg:     logg,
		validate: checkout.NewValidator(),
		now:      time.Now,
	}
}

// Register creates an account, signs it in and persists the session.
func (s *Store) Register(ctx context.Context, in types.NewIdentity) (types.Identity, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)

	s.ClearError()
	if err := s.validate.Struct(in); err != nil {
		verr := checkout.FormatValidationErrors(err)
		s.setError(verr.Message())
		return types.Identity{}, verr
	}

	created, err := s.api.CreateUser(ctx, in)
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "email", in.Email), "register failed", err)
		msg := msgRegisterFailed
		if pkgerrors.Is(err, pkgerrors.CodeConflict) {
			msg = msgEmailTaken
		}
		s.setError(msg)
		return types.Identity{}, err
	}

	session, err := s.api.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		s.logg.Error(s.logg.WithUserID(ctx, created.ID), "sign-in after register failed", err)
		s.setError(msgRegisterFailed)
		return types.Identity{}, err
	}

	if err := s.adopt(ctx, session.User, session.Token, session.ExpiresAt); err != nil {
		return types.Identity{}, err
	}
	return session.User, nil
}

// Login verifies the credential pair against the store. Blocked accounts are
// rejected; inactive ones are reactivated before the session is adopted.
func (s *Store) Login(ctx context.Context, email, password string) (types.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.ClearError()
	if email == "" || password == "" {
		s.setError(msgMissingCredentials)
		return types.Identity{}, pkgerrors.New(pkgerrors.CodeValidation, msgMissingCredentials)
	}

	session, err := s.api.Authenticate(ctx, email, password)
	if err != nil {
		return types.Identity{}, s.loginFailure(ctx, email, err)
	}

	user := session.User
	if user.IsBlocked {
		s.setError(msgAccountBlocked)
		return types.Identity{}, pkgerrors.New(pkgerrors.CodeAccountBlocked, msgAccountBlocked)
	}

	if !user.IsActive {
		if s.tokens != nil {
			s.tokens.SetToken(session.Token)
		}
		active := true
		updated, err := s.api.PatchUser(ctx, user.ID, types.IdentityPatch{IsActive: &active})
		if err != nil {
			if s.tokens != nil {
				s.tokens.SetToken(s.Token())
			}
			s.logg.Error(s.logg.WithUserID(ctx, user.ID), "reactivate on login failed", err)
			s.setError(msgLoginFailed)
			return types.Identity{}, err
		}
		user = updated
		user.IsActive = true
	}

	if err := s.adopt(ctx, user, session.Token, session.ExpiresAt); err != nil {
		return types.Identity{}, err
	}
	return user, nil
}

func (s *Store) loginFailure(ctx context.Context, email string, err error) error {
	switch {
	case pkgerrors.Is(err, pkgerrors.CodeInvalidCredentials), pkgerrors.Is(err, pkgerrors.CodeUnauthorized):
		s.setError(msgInvalidCredentials)
		return pkgerrors.Wrap(pkgerrors.CodeInvalidCredentials, err, msgInvalidCredentials)
	case pkgerrors.Is(err, pkgerrors.CodeAccountBlocked):
		s.setError(msgAccountBlocked)
		return pkgerrors.Wrap(pkgerrors.CodeAccountBlocked, err, msgAccountBlocked)
	default:
		s.logg.Error(s.logg.WithField(ctx, "email", email), "login failed", err)
		s.setError(msgLoginFailed)
		return err
	}
}

// Logout forgets the identity and its persisted copy. It makes no remote call.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.token = ""
	s.expiresAt = time.Time{}
	s.lastErr = ""
	s.mu.Unlock()

	if s.tokens != nil {
		s.tokens.SetToken("")
	}
	if err := s.local.Delete(ctx, StorageKey); err != nil {
		s.logg.Error(ctx, "purge persisted session failed", err)
		return err
	}
	return nil
}

// Restore loads the persisted session. A blocked copy, either cached or
// freshly read from the store, purges the session. When the store cannot be
// reached the cached copy is kept.
func (s *Store) Restore(ctx context.Context) (*types.Identity, error) {
	var saved persisted
	err := storage.GetJSON(ctx, s.local, StorageKey, &saved)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logg.Warn(ctx, "persisted session unreadable; discarding")
		_ = s.local.Delete(ctx, StorageKey)
		return nil, nil
	}
	if saved.User.ID == "" {
		_ = s.local.Delete(ctx, StorageKey)
		return nil, nil
	}

	ctx = s.logg.WithUserID(ctx, saved.User.ID)
	if saved.User.IsBlocked {
		return nil, s.purgeBlocked(ctx)
	}
	if saved.ExpiresAt > 0 && !s.now().Before(time.Unix(saved.ExpiresAt, 0)) {
		s.logg.Info(ctx, "persisted session expired")
		_ = s.local.Delete(ctx, StorageKey)
		return nil, nil
	}

	user := saved.User
	if saved.Token != "" {
		if s.tokens != nil {
			s.tokens.SetToken(saved.Token)
		}
		fresh, err := s.api.GetUser(ctx, saved.User.ID)
		switch {
		case err == nil:
			user = fresh
		case pkgerrors.Is(err, pkgerrors.CodeAccountBlocked):
			return nil, s.purgeBlocked(ctx)
		case pkgerrors.Is(err, pkgerrors.CodeUnauthorized), pkgerrors.Is(err, pkgerrors.CodeNotAuthenticated):
			s.logg.Info(ctx, "persisted session token rejected")
			return nil, s.Logout(ctx)
		default:
			s.logg.Warn(ctx, "could not refresh persisted identity; using cached copy")
		}
	}
	if user.IsBlocked {
		return nil, s.purgeBlocked(ctx)
	}

	if err := s.adopt(ctx, user, saved.Token, saved.ExpiresAt); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) purgeBlocked(ctx context.Context) error {
	s.logg.Warn(ctx, "persisted identity is blocked; purging session")
	if err := s.Logout(ctx); err != nil {
		return err
	}
	s.setError(msgAccountBlocked)
	return pkgerrors.New(pkgerrors.CodeAccountBlocked, msgAccountBlocked)
}

// Refresh adopts a newer copy of the current identity, typically after a
// profile change. A blocked copy ends the session.
func (s *Store) Refresh(ctx context.Context, user types.Identity) error {
	current := s.Current()
	if current == nil || current.ID != user.ID {
		return nil
	}
	if user.IsBlocked {
		return s.purgeBlocked(ctx)
	}
	s.mu.RLock()
	token, expires := s.token, s.expiresAt
	s.mu.RUnlock()
	var exp int64
	if !expires.IsZero() {
		exp = expires.Unix()
	}
	return s.adopt(ctx, user, token, exp)
}

func (s *Store) adopt(ctx context.Context, user types.Identity, token string, expiresAt int64) error {
	var expires time.Time
	if expiresAt > 0 {
		expires = time.Unix(expiresAt, 0)
	}

	s.mu.Lock()
	held := user
	s.current = &held
	s.token = token
	s.expiresAt = expires
	s.mu.Unlock()

	if s.tokens != nil {
		s.tokens.SetToken(token)
	}

	if err := storage.SetJSON(ctx, s.local, StorageKey, persisted{User: user, Token: token, ExpiresAt: expiresAt}); err != nil {
		s.logg.Error(s.logg.WithUserID(ctx, user.ID), "persist session failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist session")
	}
	s.logg.Info(s.logg.WithUserID(ctx, user.ID), "session adopted")
	return nil
}

// IsAuthenticated is true when an identity is held and it is not blocked.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && !s.current.IsBlocked
}

// IsAdmin reports the admin role or the legacy admin flag.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.HasAdminRights()
}

// IsUser reports a shopper role.
func (s *Store) IsUser() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.Role.IsShopper()
}

// Role returns the held role, defaulting to user.
func (s *Store) Role() enums.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil || s.current.Role == "" {
		return enums.RoleUser
	}
	return s.current.Role
}

// Current returns a copy of the held identity, or nil.
func (s *Store) Current() *types.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	out := *s.current
	return &out
}

// Token returns the held session token.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// RequireAuthenticated returns the acting identity or NOT_AUTHENTICATED.
func (s *Store) RequireAuthenticated(message string) (types.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil || s.current.IsBlocked {
		return types.Identity{}, pkgerrors.New(pkgerrors.CodeNotAuthenticated, message)
	}
	return *s.current, nil
}

// RequireAdmin returns the acting identity when it holds admin rights.
func (s *Store) RequireAdmin() (types.Identity, error) {
	user, err := s.RequireAuthenticated("Please login to continue")
	if err != nil {
		return types.Identity{}, err
	}
	if !user.HasAdminRights() {
		return types.Identity{}, pkgerrors.New(pkgerrors.CodeForbidden, "Admin access required")
	}
	return user, nil
}

func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) ClearError() {
	s.setError("")
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}
