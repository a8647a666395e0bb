package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sport-shop/internal/auth"
	"sport-shop/internal/model"
)

// MockCustomerRepository is a mock implementation of CustomerRepository.
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) customer(args mock.Arguments) (*model.Customer, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetAll(ctx context.Context) ([]model.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	return m.customer(m.Called(ctx, id))
}

func (m *MockCustomerRepository) GetByIDTx(ctx context.Context, tx pgx.Tx, id int64) (*model.Customer, error) {
	return m.customer(m.Called(ctx, tx, id))
}

func (m *MockCustomerRepository) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	return m.customer(m.Called(ctx, email))
}

func (m *MockCustomerRepository) GetByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	return m.customer(m.Called(ctx, phone))
}

func (m *MockCustomerRepository) GetByUserID(ctx context.Context, userID int64) (*model.Customer, error) {
	return m.customer(m.Called(ctx, userID))
}

func (m *MockCustomerRepository) ListIDsByUserID(ctx context.Context, userID int64) ([]int64, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, c *model.Customer) (bool, error) {
	args := m.Called(ctx, c)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()
	req := &model.CustomerRequest{Name: "Ann", Phone: "+100", Email: "ann@example.com"}

	tests := []struct {
		name      string
		req       *model.CustomerRequest
		mockSetup func(*MockCustomerRepository)
		wantErr   error
		invalid   bool
	}{
		{
			name: "created",
			req:  req,
			mockSetup: func(m *MockCustomerRepository) {
				m.On("GetByEmail", ctx, "ann@example.com").Return(nil, nil)
				m.On("GetByPhone", ctx, "+100").Return(nil, nil)
				m.On("Create", ctx, mock.AnythingOfType("*model.Customer")).Return(nil)
			},
		},
		{
			name: "duplicate email",
			req:  req,
			mockSetup: func(m *MockCustomerRepository) {
				m.On("GetByEmail", ctx, "ann@example.com").Return(&model.Customer{ID: 3}, nil)
			},
			wantErr: model.ErrDuplicateEmail,
		},
		{
			name: "duplicate phone",
			req:  req,
			mockSetup: func(m *MockCustomerRepository) {
				m.On("GetByEmail", ctx, "ann@example.com").Return(nil, nil)
				m.On("GetByPhone", ctx, "+100").Return(&model.Customer{ID: 3}, nil)
			},
			wantErr: model.ErrDuplicatePhone,
		},
		{
			name:      "missing phone",
			req:       &model.CustomerRequest{Name: "Ann", Email: "ann@example.com"},
			mockSetup: func(*MockCustomerRepository) {},
			invalid:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockCustomerRepository)
			tt.mockSetup(repo)
			service := NewCustomerService(repo, zerolog.Nop())

			customer, err := service.Create(ctx, tt.req, nil)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.invalid:
				de, ok := model.AsDomainError(err)
				require.True(t, ok)
				assert.Equal(t, model.KindValidation, de.Kind)
			default:
				require.NoError(t, err)
				assert.Equal(t, "Ann", customer.Name)
				assert.Nil(t, customer.UserID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("email owned by another customer", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("GetByID", ctx, int64(1)).Return(&model.Customer{ID: 1, Name: "Ann", Phone: "+100", Email: "ann@example.com"}, nil)
		repo.On("GetByEmail", ctx, "bob@example.com").Return(&model.Customer{ID: 2}, nil)
		service := NewCustomerService(repo, zerolog.Nop())

		_, err := service.Update(ctx, 1, &model.CustomerRequest{Name: "Ann", Email: "bob@example.com"})

		assert.ErrorIs(t, err, model.ErrDuplicateEmail)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unchanged contact details are not rechecked", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("GetByID", ctx, int64(1)).Return(&model.Customer{ID: 1, Name: "Ann", Phone: "+100", Email: "ann@example.com"}, nil)
		repo.On("Update", ctx, mock.AnythingOfType("*model.Customer")).Return(true, nil)
		service := NewCustomerService(repo, zerolog.Nop())

		customer, err := service.Update(ctx, 1, &model.CustomerRequest{Name: "Anna", Phone: "+100", Email: "ann@example.com"})

		require.NoError(t, err)
		assert.Equal(t, "Anna", customer.Name)
		repo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("missing customer", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("GetByID", ctx, int64(9)).Return(nil, nil)
		service := NewCustomerService(repo, zerolog.Nop())

		_, err := service.Update(ctx, 9, &model.CustomerRequest{Name: "X"})

		assert.ErrorIs(t, err, model.ErrCustomerNotFound)
	})
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	repo.On("Delete", ctx, int64(1)).Return(true, nil)
	repo.On("Delete", ctx, int64(2)).Return(false, nil)
	repo.On("Delete", ctx, int64(3)).Return(false, model.ErrCustomerInUse)
	service := NewCustomerService(repo, zerolog.Nop())

	assert.NoError(t, service.Delete(ctx, 1))
	assert.ErrorIs(t, service.Delete(ctx, 2), model.ErrCustomerNotFound)
	assert.ErrorIs(t, service.Delete(ctx, 3), model.ErrCustomerInUse)
}

func TestCustomerService_FindOrCreate(t *testing.T) {
	ctx := context.Background()
	principal := &auth.Principal{UserID: 11, Username: "ann", Roles: []string{model.RoleUser}}
	req := &model.CustomerRequest{Name: "Ann", Phone: "+100", Email: "ann@example.com"}

	t.Run("user already owns a customer", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		owned := &model.Customer{ID: 4, Name: "Ann"}
		repo.On("GetByUserID", ctx, int64(11)).Return(owned, nil)
		service := NewCustomerService(repo, zerolog.Nop())

		customer, err := service.FindOrCreate(ctx, req, principal)

		require.NoError(t, err)
		assert.Same(t, owned, customer)
		repo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("match by email links the user", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("GetByUserID", ctx, int64(11)).Return(nil, nil)
		repo.On("GetByEmail", ctx, "ann@example.com").Return(&model.Customer{ID: 5, Email: "ann@example.com"}, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(c *model.Customer) bool {
			return c.ID == 5 && c.UserID != nil && *c.UserID == 11
		})).Return(true, nil)
		service := NewCustomerService(repo, zerolog.Nop())

		customer, err := service.FindOrCreate(ctx, req, principal)

		require.NoError(t, err)
		assert.Equal(t, int64(5), customer.ID)
		repo.AssertExpectations(t)
	})

	t.Run("match by phone keeps existing owner", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		other := int64(99)
		repo.On("GetByUserID", ctx, int64(11)).Return(nil, nil)
		repo.On("GetByEmail", ctx, "ann@example.com").Return(nil, nil)
		repo.On("GetByPhone", ctx, "+100").Return(&model.Customer{ID: 6, UserID: &other}, nil)
		service := NewCustomerService(repo, zerolog.Nop())

		customer, err := service.FindOrCreate(ctx, req, principal)

		require.NoError(t, err)
		assert.Equal(t, int64(99), *customer.UserID)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("anonymous caller creates unowned customer", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("GetByEmail", ctx, "ann@example.com").Return(nil, nil)
		repo.On("GetByPhone", ctx, "+100").Return(nil, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(c *model.Customer) bool { return c.UserID == nil })).Return(nil)
		service := NewCustomerService(repo, zerolog.Nop())

		_, err := service.FindOrCreate(ctx, req, nil)

		require.NoError(t, err)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
	})

	t.Run("insufficient data", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("GetByEmail", ctx, "ann@example.com").Return(nil, nil)
		service := NewCustomerService(repo, zerolog.Nop())

		_, err := service.FindOrCreate(ctx, &model.CustomerRequest{Email: "ann@example.com"}, nil)

		de, ok := model.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, model.KindValidation, de.Kind)
	})

	t.Run("no data and no user", func(t *testing.T) {
		service := NewCustomerService(new(MockCustomerRepository), zerolog.Nop())

		_, err := service.FindOrCreate(ctx, nil, nil)

		de, ok := model.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, model.KindValidation, de.Kind)
	})
}

func TestCustomerService_Check(t *testing.T) {
	ctx := context.Background()
	principal := &auth.Principal{UserID: 11, Username: "ann"}

	t.Run("by email", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("GetByEmail", ctx, "ann@example.com").Return(&model.Customer{ID: 1}, nil)
		service := NewCustomerService(repo, zerolog.Nop())

		customer, err := service.Check(ctx, "ann@example.com", principal)

		require.NoError(t, err)
		assert.Equal(t, int64(1), customer.ID)
	})

	t.Run("falls back to user", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("GetByEmail", ctx, "x@example.com").Return(nil, nil)
		repo.On("GetByUserID", ctx, int64(11)).Return(&model.Customer{ID: 2}, nil)
		service := NewCustomerService(repo, zerolog.Nop())

		customer, err := service.Check(ctx, "x@example.com", principal)

		require.NoError(t, err)
		assert.Equal(t, int64(2), customer.ID)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo, zerolog.Nop())

		_, err := service.Check(ctx, "", nil)

		assert.ErrorIs(t, err, model.ErrCustomerNotFound)
	})
}
