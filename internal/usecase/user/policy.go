package usecase

import (
	"errors"

	"github.com/nikandjur/users-backend-test/internal/entity"
)

// Ошибки авторизации
var (
	ErrAccessDenied    = errors.New("access denied")
	ErrAdminOnly       = errors.New("access denied: admins only")
	ErrAdminSelfBlock  = errors.New("admin cannot block themselves")
	ErrStatusForbidden = errors.New("you can only update your own status")
)

// Чистая логика авторизации: кто и что может делать с учетными записями.
// Регистрация и логин публичные, для них проверок нет.

// CanViewUser - просмотр профиля разрешен админу или владельцу
func CanViewUser(requester entity.Identity, targetID int64) error {
	if requester.Role.IsAdmin() || requester.ID == targetID {
		return nil
	}
	return ErrAccessDenied
}

// CanListUsers - список пользователей доступен только админу
func CanListUsers(requester entity.Identity) error {
	if !requester.Role.IsAdmin() {
		return ErrAdminOnly
	}
	return nil
}

// CanUpdateStatus - смена статуса, порядок проверок важен:
// сначала запрет админу блокировать самого себя (отдельная ошибка),
// затем обычный пользователь может менять статус только себе
func CanUpdateStatus(requester entity.Identity, targetID int64, isActive bool) error {
	if requester.Role.IsAdmin() && requester.ID == targetID && !isActive {
		return ErrAdminSelfBlock
	}
	if !requester.Role.IsAdmin() && requester.ID != targetID {
		return ErrStatusForbidden
	}
	return nil
}
