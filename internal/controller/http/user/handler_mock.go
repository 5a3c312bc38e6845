package user

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/nikandjur/users-backend-test/internal/entity"
)

// MockUserUseCase - мок слоя usecase для тестов контроллера
type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) Register(ctx context.Context, fullName string, birthDate time.Time, email, password string) (*entity.User, error) {
	args := m.Called(ctx, fullName, birthDate, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserUseCase) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*entity.User), args.Error(2)
}

func (m *MockUserUseCase) GetUserById(ctx context.Context, requester entity.Identity, id int64) (*entity.User, error) {
	args := m.Called(ctx, requester, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserUseCase) GetAllUsers(ctx context.Context, requester entity.Identity) ([]entity.User, error) {
	args := m.Called(ctx, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserUseCase) UpdateStatus(ctx context.Context, requester entity.Identity, id int64, isActive bool) (*entity.User, error) {
	args := m.Called(ctx, requester, id, isActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
