package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nikandjur/users-backend-test/internal/entity"
)

var _ JWTToken = (*jwtToken)(nil)

// Ошибки токенов
var (
	ErrMissingSecret = errors.New("missing JWT_SECRET in config")
	ErrInvalidToken  = errors.New("invalid JWT token")
)

// JWTToken - интерфейс для работы с токенами
type JWTToken interface {
	// Issue - выпуск подписанного токена с id и ролью пользователя
	Issue(userID int64, role entity.Role) (string, error)
	// Verify - проверка токена и извлечение личности пользователя
	Verify(token string) (entity.Identity, error)
}

// claims - полезная нагрузка токена: id и роль пользователя
type claims struct {
	UserID int64  `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// jwtToken - реализация интерфейса JWTToken
type jwtToken struct {
	secret string
	ttl    time.Duration
}

// New - конструктор создает новый экземпляр JWTToken
// Отсутствие секрета - фатальная ошибка конфигурации
func New(secret string, ttl time.Duration) (JWTToken, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &jwtToken{
		secret: secret,
		ttl:    ttl,
	}, nil
}

// Issue - выпуск подписанного токена
func (s *jwtToken) Issue(userID int64, role entity.Role) (string, error) {
	now := time.Now()
	c := &claims{
		UserID: userID,
		Role:   role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(s.secret))
}

// Verify - проверка подписи, срока действия и полезной нагрузки токена
// Никогда не возвращает частично валидную личность
func (s *jwtToken) Verify(tokenString string) (entity.Identity, error) {
	t, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return entity.Identity{}, ErrInvalidToken
	}

	c, ok := t.Claims.(*claims)
	if !ok || !t.Valid {
		return entity.Identity{}, ErrInvalidToken
	}

	// В токене должен быть положительный id и одна из известных ролей
	if c.UserID <= 0 {
		return entity.Identity{}, ErrInvalidToken
	}
	role, err := entity.ParseRole(c.Role)
	if err != nil {
		return entity.Identity{}, ErrInvalidToken
	}

	return entity.Identity{ID: c.UserID, Role: role}, nil
}
