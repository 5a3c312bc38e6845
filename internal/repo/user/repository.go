package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikandjur/users-backend-test/internal/entity"
)

// Код ошибки PostgreSQL для нарушения уникальности
const uniqueViolationCode = "23505"

// Ошибки репозитория
var (
	ErrEmailExists  = errors.New("email already in use")
	ErrUserNotFound = errors.New("user not found")
)

// Убедимся, что repository реализует интерфейс Repository
var _ Repository = (*repository)(nil)

type Repository interface {
	// CreateUser - создание нового пользователя
	// Уникальность email гарантирует констрейнт БД, конкурентные дубликаты сериализуются там
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	// GetUserByEmail - получение пользователя по email
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetUserById - получение пользователя по id
	GetUserById(ctx context.Context, id int64) (*entity.User, error)
	// GetAllUsers - получение всех пользователей
	GetAllUsers(ctx context.Context) ([]entity.User, error)
	// UpdateStatus - обновление флага активности пользователя
	UpdateStatus(ctx context.Context, id int64, isActive bool) (*entity.User, error)
}

// repository - репозиторий для работы с PostgreSQL
type repository struct {
	db *pgxpool.Pool
}

// NewRepository - конструктор создания репозитория для работы с PostgreSQL
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `INSERT INTO users (full_name, birth_date, email, password, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		user.FullName, user.BirthDate, user.Email, user.Password, user.Role.String(), user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return user, nil
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT id, full_name, birth_date, email, password, role, is_active, created_at, updated_at
		FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *repository) GetUserById(ctx context.Context, id int64) (*entity.User, error) {
	query := `SELECT id, full_name, birth_date, email, password, role, is_active, created_at, updated_at
		FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

// GetAllUsers - получение всех пользователей в порядке их создания
func (r *repository) GetAllUsers(ctx context.Context) ([]entity.User, error) {
	query := `SELECT id, full_name, birth_date, email, password, role, is_active, created_at, updated_at
		FROM users ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		var u entity.User
		var role string
		if err := rows.Scan(&u.ID, &u.FullName, &u.BirthDate, &u.Email, &u.Password,
			&role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.Role = entity.Role(role)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// UpdateStatus - обновление статуса одним UPDATE, вместе с updated_at
func (r *repository) UpdateStatus(ctx context.Context, id int64, isActive bool) (*entity.User, error) {
	query := `UPDATE users SET is_active = $1, updated_at = now() WHERE id = $2
		RETURNING id, full_name, birth_date, email, password, role, is_active, created_at, updated_at`
	return r.scanUser(r.db.QueryRow(ctx, query, isActive, id))
}

// scanUser - чтение одной строки пользователя
func (r *repository) scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var role string

	err := row.Scan(&u.ID, &u.FullName, &u.BirthDate, &u.Email, &u.Password,
		&role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.Role = entity.Role(role)

	return &u, nil
}
