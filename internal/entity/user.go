package entity

import (
	"errors"
	"time"
)

// Ошибка для недопустимого значения роли
var ErrInvalidRole = errors.New("invalid role")

// Role - роль пользователя, закрытый набор из двух значений
type Role string

const (
	RoleUser  Role = "USER"  // Обычный пользователь
	RoleAdmin Role = "ADMIN" // Администратор
)

// ParseRole - разбор роли из строки, любое другое значение - ошибка
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

// IsAdmin - является ли роль администраторской
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// String - строковое представление роли
func (r Role) String() string {
	return string(r)
}

// User - сущность пользователя
type User struct {
	ID        int64     `json:"id"`         // Уникальный числовой идентификатор
	FullName  string    `json:"full_name"`  // Отображаемое имя
	BirthDate time.Time `json:"birth_date"` // Дата рождения
	Email     string    `json:"email"`      // Уникальный email
	Password  string    `json:"-"`          // Хэш пароля, наружу не отдается
	Role      Role      `json:"role"`       // Роль пользователя (USER или ADMIN)
	IsActive  bool      `json:"is_active"`  // Флаг активности пользователя
	CreatedAt time.Time `json:"created_at"` // Дата и время создания
	UpdatedAt time.Time `json:"updated_at"` // Дата и время последнего обновления
}

// Identity - подтвержденная личность запрашивающего, извлекается из токена
type Identity struct {
	ID   int64 // ID пользователя
	Role Role  // Роль пользователя
}
