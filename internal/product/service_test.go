package product

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, p *Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) GetByIDTx(ctx context.Context, tx *sql.Tx, id string) (*Product, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, category string) ([]*Product, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Product), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, p *Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("Create", ctx, mock.AnythingOfType("*product.Product")).Return(nil)

		err := svc.Create(ctx, &Product{
			Name:  "Widget",
			Price: decimal.RequireFromString("10.00"),
			Stock: 5,
		})
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("EmptyName", func(t *testing.T) {
		svc := NewService(new(MockRepository))

		err := svc.Create(ctx, &Product{Name: "  ", Price: decimal.RequireFromString("10.00")})
		assert.Error(t, err)
	})

	t.Run("ZeroPrice", func(t *testing.T) {
		svc := NewService(new(MockRepository))

		err := svc.Create(ctx, &Product{Name: "Widget", Price: decimal.Zero})
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("NegativeStock", func(t *testing.T) {
		svc := NewService(new(MockRepository))

		err := svc.Create(ctx, &Product{
			Name:  "Widget",
			Price: decimal.RequireFromString("10.00"),
			Stock: -1,
		})
		assert.ErrorIs(t, err, ErrInvalidStock)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("ValidatesBeforeWrite", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		err := svc.Update(ctx, &Product{ID: "prod-1", Name: "Widget", Price: decimal.Zero})

		assert.ErrorIs(t, err, ErrInvalidPrice)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
