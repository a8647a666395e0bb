package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sport-shop/internal/model"
)

// MockProductRepository mocks the write path used by the importer.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockProductRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDsTx(ctx context.Context, tx pgx.Tx, ids []int64) ([]model.Product, error) {
	args := m.Called(ctx, tx, ids)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, p *model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *model.Product) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) IsReferenced(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Upsert(ctx context.Context, tx pgx.Tx, products []model.Product) error {
	return m.Called(ctx, tx, products).Error(0)
}

func (m *MockProductRepository) ResetSequence(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

// fakeTx records how a transaction ended. Unused pgx.Tx methods panic.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	tx.rolledBack = true
	return nil
}

func staticLoader(files map[string][]model.Product) Loader {
	return funcLoader(func(_ context.Context, path string) ([]model.Product, error) {
		products, ok := files[path]
		if !ok {
			return nil, errors.New("file not found")
		}
		return products, nil
	})
}

func TestImporter_Import(t *testing.T) {
	ctx := context.Background()
	loader := staticLoader(map[string][]model.Product{
		"a.gz": {{ID: 1, Name: "Ball"}, {ID: 2, Name: "Net"}},
		"b.gz": {{ID: 2, Name: "Goal Net"}, {ID: 3, Name: "Cone"}},
	})

	tx := &fakeTx{}
	repo := new(MockProductRepository)
	repo.On("BeginTx", ctx).Return(tx, nil)
	repo.On("Upsert", ctx, tx, []model.Product{
		{ID: 1, Name: "Ball"},
		{ID: 2, Name: "Goal Net"},
		{ID: 3, Name: "Cone"},
	}).Return(nil)
	repo.On("ResetSequence", ctx, tx).Return(nil)

	importer := NewImporter(loader, repo, zerolog.Nop())

	n, err := importer.Import(ctx, []string{"a.gz", "b.gz"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
	repo.AssertExpectations(t)
}

func TestImporter_Import_LoadFailure(t *testing.T) {
	repo := new(MockProductRepository)
	importer := NewImporter(staticLoader(map[string][]model.Product{
		"a.gz": {{ID: 1, Name: "Ball"}},
	}), repo, zerolog.Nop())

	_, err := importer.Import(context.Background(), []string{"a.gz", "missing.gz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.gz")
	repo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestImporter_Import_UpsertFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	tx := &fakeTx{}
	repo := new(MockProductRepository)
	repo.On("BeginTx", ctx).Return(tx, nil)
	repo.On("Upsert", ctx, tx, mock.Anything).Return(errors.New("constraint violation"))

	importer := NewImporter(staticLoader(map[string][]model.Product{
		"a.gz": {{ID: 1, Name: "Ball"}},
	}), repo, zerolog.Nop())

	_, err := importer.Import(ctx, []string{"a.gz"})
	require.Error(t, err)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
	repo.AssertNotCalled(t, "ResetSequence", mock.Anything, mock.Anything)
}

func TestImporter_Import_NoPaths(t *testing.T) {
	_, err := NewImporter(staticLoader(nil), new(MockProductRepository), zerolog.Nop()).
		Import(context.Background(), nil)
	assert.Error(t, err)
}
