package hasher

import "golang.org/x/crypto/bcrypt"

// Убедимся, что bcryptHasher реализует интерфейс PasswordHasher
var _ PasswordHasher = (*bcryptHasher)(nil)

// PasswordHasher - интерфейс для хэширования и проверки паролей
type PasswordHasher interface {
	// Hash - хэширование пароля, соль генерируется заново на каждый вызов
	Hash(password string) (string, error)
	// Verify - проверка пароля против хэша
	Verify(password, digest string) bool
}

// bcryptHasher - реализация на bcrypt
type bcryptHasher struct {
	cost int
}

// New - конструктор хэшера паролей
func New() PasswordHasher {
	return &bcryptHasher{cost: bcrypt.DefaultCost}
}

// Hash - хэширование пароля
func (h *bcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify - проверка пароля против хэша
// Некорректный дайджест не ошибка, а просто несовпадение
func (h *bcryptHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
