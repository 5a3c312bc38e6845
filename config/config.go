package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type (
	// Config - структура конфига проекта
	Config struct {
		App        AppConfig        `yaml:"app"`        // Инфа о приложении
		HTTP       HTTPConfig       `yaml:"http"`       // Инфа по HTTP серверу
		Log        LogConfig        `yaml:"logger"`     // Уровень логгирования
		Token      TokenConfig      `yaml:"token"`      // Инфа по токену
		Migrations MigrationsConfig `yaml:"migrations"` // Путь к миграциям
		Database   DatabaseConfig   `yaml:"database"`   // Настройки БД из yaml
		PG         PGConfig         // Данные по Postgres из env
	}

	// AppConfig - структура конфига приложения
	AppConfig struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
		Env     string `yaml:"env" env:"APP_ENV" env-default:"development"`
	}

	// HTTPConfig - структура конфига HTTP сервера
	HTTPConfig struct {
		Host         string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
		Port         int    `yaml:"port" env:"PORT" env-default:"3000"`
		ReadTimeout  int    `yaml:"readTimeout"`
		WriteTimeout int    `yaml:"writeTimeout"`
		IdleTimeout  int    `yaml:"idleTimeout"`
	}

	// LogConfig - структура конфига логгирования
	LogConfig struct {
		Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"debug"`
		Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
	}

	// TokenConfig - структура конфига токена
	// Секрет обязателен: без него приложение не стартует
	TokenConfig struct {
		Secret string        `env:"JWT_SECRET"`
		TTL    time.Duration `yaml:"ttl" env:"TOKEN_TTL" env-default:"24h"`
	}

	// MigrationsConfig - структура конфига миграций
	MigrationsConfig struct {
		Path string `yaml:"path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	}

	// DatabaseConfig - дополнительные настройки БД из yaml
	DatabaseConfig struct {
		MaxConns        int           `yaml:"maxConns"`
		MinConns        int           `yaml:"minConns"`
		ConnTimeout     time.Duration `yaml:"connTimeout"`
		MaxConnLifetime time.Duration `yaml:"maxConnLifetime"`
		MaxConnIdleTime time.Duration `yaml:"maxConnIdleTime"`
		SSLMode         string        `yaml:"sslMode"`
	}

	// PGConfig - структура конфига базы данных (из env)
	PGConfig struct {
		User        string        `env:"PG_USER"`
		Password    string        `env:"PG_PASSWORD"`
		Host        string        `env:"PG_HOST"`
		Port        int           `env:"PG_PORT"`
		DbName      string        `env:"PG_DBNAME"`
		MaxConns    int32         `env:"DB_MAX_CONNS"`
		ConnTimeout time.Duration `env:"DB_CONN_TIMEOUT"`
	}
)

// URL формирует строку подключения к PostgreSQL
func (p PGConfig) URL() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s?sslmode=disable",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DbName,
	)
}

// MigrationsURL формирует строку подключения к PostgreSQL для миграции
func (p PGConfig) MigrationsURL() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%d/%s?sslmode=disable",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DbName,
	)
}

// Addr возвращает адрес HTTP сервера в формате host:port
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// IsDevelopment проверяет, является ли окружение development
func (a AppConfig) IsDevelopment() bool {
	return a.Env == "development"
}

// IsProduction проверяет, является ли окружение production
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// NewConfig - конструктор для создания Config
func NewConfig() (*Config, error) {
	// Создаем конфигурацию
	cfg := &Config{}

	// Загружаем конфигурацию с использованием cleanenv
	if err := cleanenv.ReadConfig("./config/config.yaml", cfg); err != nil {
		log.Println("Error loading config file:", err)
		return nil, err
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		log.Println("Error loading environment variables:", err)
		return nil, err
	}

	return cfg, nil
}
