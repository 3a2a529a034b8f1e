package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marealta/backend/internal/domain/identity"
	"github.com/marealta/backend/internal/domain/shared"
	"github.com/marealta/backend/internal/infrastructure/auth"
	"github.com/marealta/backend/internal/infrastructure/logger"
)

// ErrInvalidCredentials is returned for any failed login. It deliberately
// does not say whether the email or the password was wrong.
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// TokenIssuer issues signed access tokens
type TokenIssuer interface {
	Generate(tenantID, userID uuid.UUID, name, role string) (string, time.Time, error)
}

// TokenRevoker revokes issued tokens before their expiry
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// Service handles tenant signup and user authentication
type Service struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	tokens     TokenIssuer
	revoker    TokenRevoker
}

// NewService creates a new identity Service
func NewService(tenantRepo identity.TenantRepository, userRepo identity.UserRepository, tokens TokenIssuer, revoker TokenRevoker) *Service {
	return &Service{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		tokens:     tokens,
		revoker:    revoker,
	}
}

// SignupRequest carries the input for creating a tenant with its first admin
type SignupRequest struct {
	TenantName string `json:"tenant_name" binding:"required"`
	TenantSlug string `json:"tenant_slug" binding:"required,slug"`
	AdminName  string `json:"admin_name" binding:"required"`
	AdminEmail string `json:"admin_email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
}

// LoginRequest carries sign-in credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResult is a successful authentication
type LoginResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      *identity.User `json:"user"`
}

// Signup creates a new tenant together with its first admin user
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*identity.Tenant, *identity.User, error) {
	if _, err := s.tenantRepo.FindBySlug(ctx, req.TenantSlug); err == nil {
		return nil, nil, shared.NewDomainError("SLUG_TAKEN", "A workshop with this slug already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.AdminEmail); err == nil {
		return nil, nil, shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, nil, err
	}

	tenant, err := identity.NewTenant(req.TenantName, req.TenantSlug)
	if err != nil {
		return nil, nil, err
	}

	admin, err := identity.NewUser(tenant.ID, req.AdminEmail, req.AdminName, req.Password, identity.RoleAdmin)
	if err != nil {
		return nil, nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, nil, err
	}
	if err := s.userRepo.Save(ctx, admin); err != nil {
		return nil, nil, err
	}

	logger.L(ctx).Info("tenant signed up",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("slug", tenant.Slug))
	return tenant, admin, nil
}

// Login verifies credentials and issues an access token. Inactive users
// and users of suspended tenants cannot sign in.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active || !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	tenant, err := s.tenantRepo.FindByID(ctx, user.TenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.Active {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Generate(user.TenantID, user.ID, user.Name, string(user.Role))
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("user logged in",
		zap.String("tenant_id", user.TenantID.String()),
		zap.String("user_id", user.ID.String()))
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Logout revokes the current access token
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// Refresh rotates a still-valid access token. The old token is revoked so
// each refresh leaves exactly one live token.
func (s *Service) Refresh(ctx context.Context, claims *auth.Claims) (*LoginResult, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, claims.TenantID, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, shared.ErrUnauthorized
	}

	token, expiresAt, err := s.tokens.Generate(user.TenantID, user.ID, user.Name, string(user.Role))
	if err != nil {
		return nil, err
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// CurrentUser returns the authenticated user's profile
func (s *Service) CurrentUser(ctx context.Context, claims *auth.Claims) (*identity.User, error) {
	return s.userRepo.FindByIDForTenant(ctx, claims.TenantID, claims.UserID)
}

// CreateUserRequest carries the input for adding a user to a tenant
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin technician viewer"`
}

// CreateUser adds a user to the active tenant
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*identity.User, error) {
	tenantID := logger.GetTenantID(ctx)
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err := identity.NewUser(tenantID, req.Email, req.Name, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers lists the users of the active tenant
func (s *Service) ListUsers(ctx context.Context) ([]*identity.User, error) {
	tenantID := logger.GetTenantID(ctx)
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	return s.userRepo.ListForTenant(ctx, tenantID)
}

// DeactivateUser blocks a user from signing in
func (s *Service) DeactivateUser(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	tenantID := logger.GetTenantID(ctx)
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}

	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	user.Deactivate()

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
