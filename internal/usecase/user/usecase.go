package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/nikandjur/users-backend-test/internal/adapter/hasher"
	"github.com/nikandjur/users-backend-test/internal/adapter/token"
	"github.com/nikandjur/users-backend-test/internal/entity"
	userrepo "github.com/nikandjur/users-backend-test/internal/repo/user"
)

// Ограничения на длину пароля
const (
	PasswordMinLength = 6
	PasswordMaxLength = 128
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrExistingUser       = errors.New("email already in use")
	ErrUserNotActive      = errors.New("user is blocked")
	ErrMinLengthPswd      = errors.New("password length must be between 6 and 128 characters")
	ErrUserNotFound       = errors.New("user not found")
)

var _ UserUseCase = (*users)(nil)

// UserUseCase - интерфейс для работы с учетными записями
type UserUseCase interface {
	// Register - регистрация нового пользователя
	Register(ctx context.Context, fullName string, birthDate time.Time, email, password string) (*entity.User, error)
	// Login - авторизация пользователя, возвращает токен и пользователя
	Login(ctx context.Context, email, password string) (accessToken string, user *entity.User, err error)
	// GetUserById - получение пользователя по id (сам или админ)
	GetUserById(ctx context.Context, requester entity.Identity, id int64) (*entity.User, error)
	// GetAllUsers - получение всех пользователей (только админ)
	GetAllUsers(ctx context.Context, requester entity.Identity) ([]entity.User, error)
	// UpdateStatus - смена флага активности пользователя
	UpdateStatus(ctx context.Context, requester entity.Identity, id int64, isActive bool) (*entity.User, error)
}

// users - структура для работы с учетными записями
type users struct {
	userRepo     userrepo.Repository
	hasher       hasher.PasswordHasher
	tokenService token.JWTToken
}

// NewUserUseCase - конструктор для users
func NewUserUseCase(
	userRepo userrepo.Repository,
	passwordHasher hasher.PasswordHasher,
	tokenSvc token.JWTToken,
) UserUseCase {
	return &users{
		userRepo:     userRepo,
		hasher:       passwordHasher,
		tokenService: tokenSvc,
	}
}

// Register - регистрация нового пользователя
func (uc *users) Register(ctx context.Context, fullName string, birthDate time.Time, email, password string) (*entity.User, error) {
	// Проверка длины пароля
	if len(password) < PasswordMinLength || len(password) > PasswordMaxLength {
		return nil, ErrMinLengthPswd
	}

	// Проверяем, что пользователя с таким email не существует
	// Отсутствие пользователя не ошибка, все остальное отдаем наверх
	existingUser, err := uc.userRepo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, userrepo.ErrUserNotFound) {
		return nil, err
	}
	if existingUser != nil {
		return nil, ErrExistingUser
	}

	// Хэшируем пароль
	hashedPassword, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	// Создаем нового пользователя
	// Роль всегда USER, пользователь активен по умолчанию
	newUser := &entity.User{
		FullName:  fullName,
		BirthDate: birthDate,
		Email:     email,
		Password:  hashedPassword,
		Role:      entity.RoleUser,
		IsActive:  true,
	}

	created, err := uc.userRepo.CreateUser(ctx, newUser)
	if err != nil {
		// Конкурентная регистрация с тем же email упирается в констрейнт БД
		if errors.Is(err, userrepo.ErrEmailExists) {
			return nil, ErrExistingUser
		}
		return nil, err
	}

	log.Printf("User registered: id=%d email=%s", created.ID, created.Email)

	return created, nil
}

// Login - авторизация пользователя
// Сначала проверяются учетные данные, затем активность:
// неверный пароль заблокированного пользователя отвечает как invalid credentials
func (uc *users) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	// Получаем пользователя
	// Неизвестный email - неверные учетные данные, сбой хранилища - обычная ошибка
	curUser, err := uc.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	// Проверяем пароль
	if !uc.hasher.Verify(password, curUser.Password) {
		return "", nil, ErrInvalidCredentials
	}

	// Проверяем, активен ли пользователь
	if !curUser.IsActive {
		return "", nil, ErrUserNotActive
	}

	// Выпускаем токен с id и ролью пользователя
	accessToken, err := uc.tokenService.Issue(curUser.ID, curUser.Role)
	if err != nil {
		return "", nil, err
	}

	log.Printf("User logged in: id=%d email=%s", curUser.ID, curUser.Email)

	return accessToken, curUser, nil
}

// GetUserById - получение пользователя по id
// Сначала существование, затем авторизация
func (uc *users) GetUserById(ctx context.Context, requester entity.Identity, id int64) (*entity.User, error) {
	targetUser, err := uc.userRepo.GetUserById(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := CanViewUser(requester, targetUser.ID); err != nil {
		return nil, err
	}

	return targetUser, nil
}

// GetAllUsers - получение всех пользователей
func (uc *users) GetAllUsers(ctx context.Context, requester entity.Identity) ([]entity.User, error) {
	if err := CanListUsers(requester); err != nil {
		return nil, err
	}

	return uc.userRepo.GetAllUsers(ctx)
}

// UpdateStatus - смена флага активности пользователя
func (uc *users) UpdateStatus(ctx context.Context, requester entity.Identity, id int64, isActive bool) (*entity.User, error) {
	targetUser, err := uc.userRepo.GetUserById(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := CanUpdateStatus(requester, targetUser.ID, isActive); err != nil {
		return nil, err
	}

	updated, err := uc.userRepo.UpdateStatus(ctx, id, isActive)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	log.Printf("User status updated: id=%d is_active=%t by=%d", updated.ID, updated.IsActive, requester.ID)

	return updated, nil
}
