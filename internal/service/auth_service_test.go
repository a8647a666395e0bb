package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sport-shop/internal/auth"
	"sport-shop/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

const testSecret = "0123456789abcdef0123456789abcdef"

func newAuthFixture() (*MockUserRepository, *auth.TokenManager, AuthService) {
	repo := new(MockUserRepository)
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	return repo, tokens, NewAuthService(repo, tokens, zerolog.Nop())
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns USER role and hashes password", func(t *testing.T) {
		repo, _, service := newAuthFixture()
		repo.On("ExistsByUsername", ctx, "ann").Return(false, nil)
		repo.On("ExistsByEmail", ctx, "ann@example.com").Return(false, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.HasRole(model.RoleUser) && auth.CheckPassword(u.PasswordHash, "secret1")
		})).Run(func(args mock.Arguments) { args.Get(1).(*model.User).ID = 11 }).Return(nil)

		user, err := service.Register(ctx, &model.AuthRequest{Username: "ann", Password: "secret1", Email: "ann@example.com"})

		require.NoError(t, err)
		assert.Equal(t, &model.UserDTO{ID: 11, Username: "ann", Email: "ann@example.com"}, user)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate username", func(t *testing.T) {
		repo, _, service := newAuthFixture()
		repo.On("ExistsByUsername", ctx, "ann").Return(true, nil)

		_, err := service.Register(ctx, &model.AuthRequest{Username: "ann", Password: "x"})

		assert.ErrorIs(t, err, model.ErrDuplicateUsername)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo, _, service := newAuthFixture()
		repo.On("ExistsByUsername", ctx, "ann").Return(false, nil)
		repo.On("ExistsByEmail", ctx, "ann@example.com").Return(true, nil)

		_, err := service.Register(ctx, &model.AuthRequest{Username: "ann", Password: "x", Email: "ann@example.com"})

		assert.ErrorIs(t, err, model.ErrDuplicateEmail)
	})

	t.Run("missing password", func(t *testing.T) {
		_, _, service := newAuthFixture()

		_, err := service.Register(ctx, &model.AuthRequest{Username: "ann"})

		de, ok := model.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, model.KindValidation, de.Kind)
	})

	t.Run("password longer than bcrypt accepts", func(t *testing.T) {
		repo, _, service := newAuthFixture()

		_, err := service.Register(ctx, &model.AuthRequest{Username: "bob", Password: strings.Repeat("x", 80)})

		de, ok := model.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, model.KindValidation, de.Kind)
		assert.Equal(t, model.ErrCodeInvalidParameter, de.Code)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("password at the bcrypt limit", func(t *testing.T) {
		repo, _, service := newAuthFixture()
		password := strings.Repeat("x", auth.MaxPasswordBytes)
		repo.On("ExistsByUsername", ctx, "bob").Return(false, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return auth.CheckPassword(u.PasswordHash, password)
		})).Return(nil)

		_, err := service.Register(ctx, &model.AuthRequest{Username: "bob", Password: password})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestAuthService_LoginAndCheck(t *testing.T) {
	ctx := context.Background()
	repo, tokens, service := newAuthFixture()

	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	stored := &model.User{ID: 11, Username: "ann", PasswordHash: hash, Roles: []string{model.RoleUser, model.RoleAdmin}}
	repo.On("GetByUsername", ctx, "ann").Return(stored, nil)
	repo.On("GetByUsername", ctx, "ghost").Return(nil, nil)

	resp, err := service.Login(ctx, &model.AuthRequest{Username: "ann", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), resp.User.ID)
	assert.Equal(t, []string{model.RoleUser, model.RoleAdmin}, resp.User.Roles)

	principal, err := tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "ann", principal.Username)
	assert.Equal(t, int64(11), principal.UserID)

	check := service.Check(ctx, "Bearer "+resp.Token)
	assert.True(t, check.Authenticated)
	require.NotNil(t, check.User)
	assert.Equal(t, "ann", check.User.Username)

	_, err = service.Login(ctx, &model.AuthRequest{Username: "ann", Password: "wrong"})
	assert.ErrorIs(t, err, model.ErrBadCredentials)

	_, err = service.Login(ctx, &model.AuthRequest{Username: "ghost", Password: "secret1"})
	assert.ErrorIs(t, err, model.ErrBadCredentials)
}

func TestAuthService_Check_Unauthenticated(t *testing.T) {
	ctx := context.Background()
	repo, tokens, service := newAuthFixture()

	orphan, err := tokens.Issue(12, "gone", nil)
	require.NoError(t, err)
	repo.On("GetByUsername", ctx, "gone").Return(nil, nil)

	for _, header := range []string{"", "Basic abc", "Bearer ", "Bearer not.a.token", "Bearer " + orphan} {
		resp := service.Check(ctx, header)
		assert.False(t, resp.Authenticated, header)
		assert.Nil(t, resp.User, header)
	}
}
