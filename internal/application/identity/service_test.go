package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marealta/backend/internal/domain/identity"
	"github.com/marealta/backend/internal/domain/shared"
	"github.com/marealta/backend/internal/infrastructure/auth"
	"github.com/marealta/backend/internal/infrastructure/config"
)

type mockTenantRepo struct{ mock.Mock }

func (m *mockTenantRepo) Save(ctx context.Context, tenant *identity.Tenant) error {
	return m.Called(ctx, tenant).Error(0)
}
func (m *mockTenantRepo) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if tenant := args.Get(0); tenant != nil {
		return tenant.(*identity.Tenant), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockTenantRepo) FindBySlug(ctx context.Context, slug string) (*identity.Tenant, error) {
	args := m.Called(ctx, slug)
	if tenant := args.Get(0); tenant != nil {
		return tenant.(*identity.Tenant), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if user := args.Get(0); user != nil {
		return user.(*identity.User), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if user := args.Get(0); user != nil {
		return user.(*identity.User), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserRepo) ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]*identity.User, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*identity.User), args.Error(1)
}

type mockRevoker struct{ mock.Mock }

func (m *mockRevoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return m.Called(ctx, tokenID, expiresAt).Error(0)
}

func newTokenManager() *auth.TokenManager {
	return auth.NewTokenManager(&config.JWTConfig{
		Secret:                "test-secret-for-unit-tests-only!!",
		Issuer:                "marealta-test",
		AccessTokenExpiration: time.Hour,
	})
}

func TestSignup_CreatesTenantAndAdmin(t *testing.T) {
	tenantRepo := new(mockTenantRepo)
	userRepo := new(mockUserRepo)
	service := NewService(tenantRepo, userRepo, newTokenManager(), nil)

	tenantRepo.On("FindBySlug", mock.Anything, "boatworks").Return(nil, shared.ErrNotFound)
	userRepo.On("FindByEmail", mock.Anything, "ana@boatworks.com").Return(nil, shared.ErrNotFound)
	tenantRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	userRepo.On("Save", mock.Anything, mock.MatchedBy(func(u *identity.User) bool {
		return u.Role == identity.RoleAdmin && u.Email == "ana@boatworks.com"
	})).Return(nil)

	tenant, admin, err := service.Signup(context.Background(), SignupRequest{
		TenantName: "Boat Works",
		TenantSlug: "boatworks",
		AdminName:  "Ana",
		AdminEmail: "ana@boatworks.com",
		Password:   "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, admin.TenantID)
	assert.True(t, admin.CheckPassword("correct-horse"))
}

func TestSignup_SlugTaken(t *testing.T) {
	tenantRepo := new(mockTenantRepo)
	userRepo := new(mockUserRepo)
	service := NewService(tenantRepo, userRepo, newTokenManager(), nil)

	existing, err := identity.NewTenant("Boat Works", "boatworks")
	require.NoError(t, err)
	tenantRepo.On("FindBySlug", mock.Anything, "boatworks").Return(existing, nil)

	_, _, err = service.Signup(context.Background(), SignupRequest{
		TenantName: "Other",
		TenantSlug: "boatworks",
		AdminName:  "Ana",
		AdminEmail: "ana@other.com",
		Password:   "correct-horse",
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SLUG_TAKEN", domainErr.Code)
	tenantRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func loginFixture(t *testing.T) (*Service, *mockTenantRepo, *mockUserRepo, *identity.Tenant, *identity.User) {
	t.Helper()
	tenantRepo := new(mockTenantRepo)
	userRepo := new(mockUserRepo)
	service := NewService(tenantRepo, userRepo, newTokenManager(), nil)

	tenant, err := identity.NewTenant("Boat Works", "boatworks")
	require.NoError(t, err)
	user, err := identity.NewUser(tenant.ID, "ana@boatworks.com", "Ana", "correct-horse", identity.RoleAdmin)
	require.NoError(t, err)
	return service, tenantRepo, userRepo, tenant, user
}

func TestLogin_IssuesTokenWithTenantClaims(t *testing.T) {
	service, tenantRepo, userRepo, tenant, user := loginFixture(t)

	userRepo.On("FindByEmail", mock.Anything, "ana@boatworks.com").Return(user, nil)
	tenantRepo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)

	result, err := service.Login(context.Background(), LoginRequest{
		Email:    "ana@boatworks.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	claims, err := newTokenManager().Validate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, claims.TenantID)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	service, _, userRepo, _, user := loginFixture(t)

	userRepo.On("FindByEmail", mock.Anything, "ana@boatworks.com").Return(user, nil)

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "ana@boatworks.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	service, _, userRepo, _, _ := loginFixture(t)

	userRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, shared.ErrNotFound)

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_SuspendedTenant(t *testing.T) {
	service, tenantRepo, userRepo, tenant, user := loginFixture(t)
	tenant.Deactivate()

	userRepo.On("FindByEmail", mock.Anything, "ana@boatworks.com").Return(user, nil)
	tenantRepo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "ana@boatworks.com",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout_RevokesTokenID(t *testing.T) {
	tenantRepo := new(mockTenantRepo)
	userRepo := new(mockUserRepo)
	revoker := new(mockRevoker)
	service := NewService(tenantRepo, userRepo, newTokenManager(), revoker)

	manager := newTokenManager()
	token, _, err := manager.Generate(uuid.New(), uuid.New(), "Ana", "admin")
	require.NoError(t, err)
	claims, err := manager.Validate(token)
	require.NoError(t, err)

	revoker.On("Revoke", mock.Anything, claims.ID, mock.Anything).Return(nil)

	require.NoError(t, service.Logout(context.Background(), claims))
	revoker.AssertExpectations(t)
}

func refreshFixture(t *testing.T) (*Service, *mockUserRepo, *mockRevoker, *identity.User, *auth.Claims) {
	t.Helper()
	userRepo := new(mockUserRepo)
	revoker := new(mockRevoker)
	service := NewService(new(mockTenantRepo), userRepo, newTokenManager(), revoker)

	user, err := identity.NewUser(uuid.New(), "ana@boatworks.com", "Ana", "correct-horse", identity.RoleAdmin)
	require.NoError(t, err)

	manager := newTokenManager()
	token, _, err := manager.Generate(user.TenantID, user.ID, user.Name, string(user.Role))
	require.NoError(t, err)
	claims, err := manager.Validate(token)
	require.NoError(t, err)
	return service, userRepo, revoker, user, claims
}

func TestRefresh_RotatesTokenAndRevokesOld(t *testing.T) {
	service, userRepo, revoker, user, claims := refreshFixture(t)

	userRepo.On("FindByIDForTenant", mock.Anything, user.TenantID, user.ID).Return(user, nil)
	revoker.On("Revoke", mock.Anything, claims.ID, mock.Anything).Return(nil)

	result, err := service.Refresh(context.Background(), claims)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	fresh, err := newTokenManager().Validate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.TenantID, fresh.TenantID)
	assert.NotEqual(t, claims.ID, fresh.ID)
	revoker.AssertExpectations(t)
}

func TestRefresh_DeactivatedUserRejected(t *testing.T) {
	service, userRepo, revoker, user, claims := refreshFixture(t)
	user.Deactivate()

	userRepo.On("FindByIDForTenant", mock.Anything, user.TenantID, user.ID).Return(user, nil)

	_, err := service.Refresh(context.Background(), claims)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	revoker.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}

func TestCurrentUser_ReturnsProfile(t *testing.T) {
	service, userRepo, _, user, claims := refreshFixture(t)

	userRepo.On("FindByIDForTenant", mock.Anything, user.TenantID, user.ID).Return(user, nil)

	found, err := service.CurrentUser(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}
