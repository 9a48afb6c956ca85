package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/auth"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/config"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/db/models"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/security"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
	"gorm.io/gorm"
)

// UserRepository persists accounts.
type UserRepository struct {
	base
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{base{db: db}}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("user is required")
	}
	return r.conn(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.conn(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail matches case-insensitively.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.conn(ctx).Where("LOWER(email) = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.conn(ctx).Order("created_at ASC").Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("user is required")
	}
	return r.conn(ctx).Save(user).Error
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.conn(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_login_at", at.UTC()).Error
}

// Users registers, authenticates and administers accounts.
type Users struct {
	repo     *UserRepository
	jwt      config.JWTConfig
	password config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

func NewUsers(repo *UserRepository, jwt config.JWTConfig, password config.PasswordConfig, logg *logger.Logger) (*Users, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Users{repo: repo, jwt: jwt, password: password, logg: logg, now: time.Now}, nil
}

// Register creates a shopper account with the server defaults: role user,
// active, not blocked.
func (s *Users) Register(ctx context.Context, in types.NewIdentity) (types.Identity, error) {
	user, err := s.newUser(in, enums.RoleUser)
	if err != nil {
		return types.Identity{}, err
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return types.Identity{}, translateUserWrite(err)
	}
	s.logg.Info(s.logg.WithUserID(ctx, user.ID), "user registered")
	return user.ToIdentity(), nil
}

// EnsureAdmin creates an admin account, or promotes and re-keys an existing
// one with the same email.
func (s *Users) EnsureAdmin(ctx context.Context, in types.NewIdentity) (types.Identity, error) {
	existing, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil && !isNotFound(err) {
		return types.Identity{}, translate(err, "user")
	}
	if existing == nil {
		user, err := s.newUser(in, enums.RoleAdmin)
		if err != nil {
			return types.Identity{}, err
		}
		user.IsAdmin = true
		if err := s.repo.Create(ctx, user); err != nil {
			return types.Identity{}, translateUserWrite(err)
		}
		return user.ToIdentity(), nil
	}

	hash, err := security.HashPassword(in.Password, s.password)
	if err != nil {
		return types.Identity{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	existing.PasswordHash = hash
	existing.Role = enums.RoleAdmin
	existing.IsAdmin = true
	existing.IsActive = true
	existing.IsBlocked = false
	if err := s.repo.Save(ctx, existing); err != nil {
		return types.Identity{}, translate(err, "user")
	}
	return existing.ToIdentity(), nil
}

// Login checks one credential pair with a single lookup. Inactive accounts
// may log in; blocked ones may not.
func (s *Users) Login(ctx context.Context, creds types.Credentials) (types.LoginResult[types.Identity], error) {
	var out types.LoginResult[types.Identity]
	invalid := pkgerrors.New(pkgerrors.CodeInvalidCredentials, "Invalid email or password")

	user, err := s.repo.FindByEmail(ctx, creds.Email)
	if err != nil {
		if isNotFound(err) {
			return out, invalid
		}
		return out, translate(err, "user")
	}
	ok, err := security.VerifyPassword(creds.Password, user.PasswordHash)
	if err != nil {
		s.logg.Error(s.logg.WithUserID(ctx, user.ID), "stored password hash unreadable", err)
		return out, invalid
	}
	if !ok {
		return out, invalid
	}
	if user.IsBlocked {
		return out, pkgerrors.New(pkgerrors.CodeAccountBlocked, "Your account has been blocked. Please contact support.")
	}

	role := user.Role
	if user.IsAdmin {
		role = enums.RoleAdmin
	}
	now := s.now()
	token, expiresAt, err := auth.MintSessionToken(s.jwt, now, auth.SessionPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   role,
	})
	if err != nil {
		return out, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to mint session token")
	}
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, user.ID), "last login update failed")
	}

	out.Token = token
	out.ExpiresAt = expiresAt.Unix()
	out.User = user.ToIdentity()
	return out, nil
}

func (s *Users) Get(ctx context.Context, actor Actor, id string) (types.Identity, error) {
	if !actor.Owns(id) {
		return types.Identity{}, denied()
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return types.Identity{}, translate(err, "user")
	}
	return user.ToIdentity(), nil
}

// Principal loads the account a session token names, for per-request
// blocked and role checks.
func (s *Users) Principal(ctx context.Context, id string) (types.Identity, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return types.Identity{}, translate(err, "user")
	}
	return user.ToIdentity(), nil
}

func (s *Users) List(ctx context.Context, actor Actor) ([]types.Identity, error) {
	if !actor.Admin() {
		return nil, denied()
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, translate(err, "user")
	}
	out := make([]types.Identity, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToIdentity())
	}
	return out, nil
}

// Patch applies a partial update. Owners may change name, phone and
// isActive; role and isBlocked are admin only.
func (s *Users) Patch(ctx context.Context, actor Actor, id string, patch types.IdentityPatch) (types.Identity, error) {
	if !actor.Owns(id) {
		return types.Identity{}, denied()
	}
	if !actor.Admin() && (patch.Role != nil || patch.IsBlocked != nil) {
		return types.Identity{}, pkgerrors.New(pkgerrors.CodeForbidden, "only administrators may change role or block status")
	}
	if patch.Role != nil && !patch.Role.IsValid() {
		return types.Identity{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid role").
			WithDetails(map[string]string{"role": "must be one of admin, user, customer"})
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return types.Identity{}, translate(err, "user")
	}
	if patch.Name != nil {
		user.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Phone != nil {
		phone := strings.TrimSpace(*patch.Phone)
		user.Phone = &phone
		if phone == "" {
			user.Phone = nil
		}
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}
	if patch.IsBlocked != nil {
		user.IsBlocked = *patch.IsBlocked
	}
	if patch.Role != nil {
		user.Role = *patch.Role
		user.IsAdmin = *patch.Role == enums.RoleAdmin
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return types.Identity{}, translate(err, "user")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"target_user_id": id, "actor_id": actor.UserID}), "user updated")
	return user.ToIdentity(), nil
}

func (s *Users) newUser(in types.NewIdentity, role enums.Role) (*models.User, error) {
	hash, err := security.HashPassword(in.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error()).
			WithDetails(map[string]string{"password": err.Error()})
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		user.Phone = &phone
	}
	return user, nil
}

func translateUserWrite(err error) error {
	if isUniqueViolation(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "An account with this email already exists")
	}
	return translate(err, "user")
}
