package product

import (
	"context"
	"testing"

	"agrocycle-be/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, p *Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uint) (*Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filter *ProductFilter) ([]*Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Product), args.Error(1)
}

func (m *MockRepository) SetStatus(ctx context.Context, id, farmerID uint, status string) error {
	args := m.Called(ctx, id, farmerID, status)
	return args.Error(0)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("Create", ctx, mock.AnythingOfType("*product.Product")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*Product).ID = 5
			}).
			Return(nil)

		p, err := svc.Create(ctx, CreateProductParams{
			FarmerID:  7,
			Name:      "Coconut shells",
			WasteType: "shell",
			UnitPrice: decimal.NewFromInt(150),
			Stock:     10,
			District:  "Gampaha",
		})
		assert.NoError(t, err)
		assert.Equal(t, uint(5), p.ID)
		repo.AssertExpectations(t)
	})

	t.Run("ZeroPrice", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		_, err := svc.Create(ctx, CreateProductParams{
			UnitPrice: decimal.Zero,
			Stock:     10,
		})
		assert.ErrorIs(t, err, ErrInvalidPrice)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("NegativeStock", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		_, err := svc.Create(ctx, CreateProductParams{
			UnitPrice: decimal.NewFromInt(10),
			Stock:     -1,
		})
		assert.ErrorIs(t, err, ErrInvalidStock)
	})
}

func TestService_Disable(t *testing.T) {
	t.Run("UsesActorAsOwner", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		ctx := utils.SetUserContext(context.Background(), 7, "f@example.com", utils.RoleFarmer)
		repo.On("SetStatus", ctx, uint(12), uint(7), StatusDisabled).Return(nil)

		assert.NoError(t, svc.Disable(ctx, 12))
		repo.AssertExpectations(t)
	})

	t.Run("AnonymousRejected", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		err := svc.Disable(context.Background(), 12)
		assert.ErrorIs(t, err, ErrNotListingOwner)
		repo.AssertNotCalled(t, "SetStatus")
	})
}
