package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	userDomain "github.com/allisson/userauth/internal/user/domain"
	userUsecase "github.com/allisson/userauth/internal/user/usecase"
)

// MockUserUseCase is a mock implementation of the user usecase.UseCase
type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) RegisterUser(ctx context.Context, input userUsecase.RegisterUserInput) (*userDomain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *MockUserUseCase) CreateAdmin(ctx context.Context, input userUsecase.RegisterUserInput) (*userDomain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *MockUserUseCase) GetUserByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *MockUserUseCase) GetUserByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *MockUserUseCase) ListUsers(ctx context.Context, offset, limit int) ([]*userDomain.User, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*userDomain.User), args.Error(1)
}

func (m *MockUserUseCase) UpdateUser(
	ctx context.Context,
	actorID uuid.UUID,
	actorRole userDomain.Role,
	id uuid.UUID,
	input userUsecase.UpdateUserInput,
) (*userDomain.User, error) {
	args := m.Called(ctx, actorID, actorRole, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *MockUserUseCase) DeleteUser(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestRunCreateAdmin(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	admin := &userDomain.User{
		ID:    uuid.Must(uuid.NewV7()),
		Name:  "Root Admin",
		Email: "admin@example.com",
		Role:  userDomain.RoleAdmin,
	}
	input := userUsecase.RegisterUserInput{
		Name:     "Root Admin",
		Email:    "admin@example.com",
		Password: "SecurePass123!",
	}

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &MockUserUseCase{}
		mockUseCase.On("CreateAdmin", ctx, input).Return(admin, nil)

		var out bytes.Buffer
		err := RunCreateAdmin(
			ctx,
			mockUseCase,
			logger,
			"Root Admin",
			"admin@example.com",
			"SecurePass123!",
			"text",
			IOTuple{Writer: &out},
		)

		require.NoError(t, err)
		require.Contains(t, out.String(), admin.ID.String())
		require.Contains(t, out.String(), "admin@example.com")
		require.Contains(t, out.String(), "admin")
		require.NotContains(t, out.String(), "SecurePass123!")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &MockUserUseCase{}
		mockUseCase.On("CreateAdmin", ctx, input).Return(admin, nil)

		var out bytes.Buffer
		err := RunCreateAdmin(
			ctx,
			mockUseCase,
			logger,
			"Root Admin",
			"admin@example.com",
			"SecurePass123!",
			"json",
			IOTuple{Writer: &out},
		)

		require.NoError(t, err)

		var output adminOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &output))
		require.Equal(t, admin.ID.String(), output.ID)
		require.Equal(t, "admin", output.Role)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("usecase-error", func(t *testing.T) {
		mockUseCase := &MockUserUseCase{}
		mockUseCase.On("CreateAdmin", ctx, input).Return(nil, errors.New("boom"))

		var out bytes.Buffer
		err := RunCreateAdmin(
			ctx,
			mockUseCase,
			logger,
			"Root Admin",
			"admin@example.com",
			"SecurePass123!",
			"text",
			IOTuple{Writer: &out},
		)

		require.Error(t, err)
		require.Empty(t, out.String())
	})
}
