package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u User) (User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(User), args.Error(1)
}

func TestService_Register(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("Create", ctx, mock.MatchedBy(func(u User) bool {
			// password must be hashed before it reaches the repository
			return u.Email == "farmer@example.com" && u.Password != "plaintext" && u.Role == RoleFarmer
		})).Return(User{ID: 1, Email: "farmer@example.com", Role: RoleFarmer}, nil)

		token, u, err := svc.Register(ctx, "Farmer", "farmer@example.com", "plaintext", RoleFarmer, "Matale")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, uint(1), u.ID)
		repo.AssertExpectations(t)
	})

	t.Run("InvalidRole", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		_, _, err := svc.Register(ctx, "X", "x@example.com", "pw", Role("SELLER"), "")
		assert.ErrorIs(t, err, ErrInvalidRole)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("Create", ctx, mock.Anything).
			Return(User{}, errors.New(`pq: duplicate key value violates unique constraint "users_email_key"`))

		_, _, err := svc.Register(ctx, "X", "dup@example.com", "pw", RoleBuyer, "")
		assert.ErrorIs(t, err, ErrEmailExists)
	})
}

func TestService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	ctx := context.Background()

	hashed, _ := HashPassword("correct-horse")

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("FindByEmail", ctx, "driver@example.com").
			Return(User{ID: 3, Email: "driver@example.com", Password: hashed, Role: RoleDriver}, nil)

		token, u, err := svc.Login(ctx, "driver@example.com", "correct-horse")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, RoleDriver, u.Role)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("FindByEmail", ctx, "ghost@example.com").
			Return(User{}, errors.New("sql: no rows in result set"))

		_, _, err := svc.Login(ctx, "ghost@example.com", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("FindByEmail", ctx, "driver@example.com").
			Return(User{ID: 3, Password: hashed}, nil)

		_, _, err := svc.Login(ctx, "driver@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
