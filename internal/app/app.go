// Package app configures and runs application.
package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikandjur/users-backend-test/config"
	"github.com/nikandjur/users-backend-test/internal/adapter/database"
	"github.com/nikandjur/users-backend-test/internal/adapter/hasher"
	"github.com/nikandjur/users-backend-test/internal/adapter/token"
	"github.com/nikandjur/users-backend-test/internal/controller/http/middleware"
	usercontroller "github.com/nikandjur/users-backend-test/internal/controller/http/user"
	userrepo "github.com/nikandjur/users-backend-test/internal/repo/user"
	usecase "github.com/nikandjur/users-backend-test/internal/usecase/user"
)

// Таймаут на graceful shutdown
const shutdownTimeout = 10 * time.Second

// Run - запускает приложение
func Run(cfg *config.Config) {
	// Инициализация дефолтного логгера
	logger := log.Default()

	ctx := context.Background()

	// Подключение к базе данных PostgreSQL
	dbpool, err := database.New(ctx, *cfg)
	if err != nil {
		logger.Fatalf("Unable to create PostgreSQL connection pool: %v", err)
	}
	defer dbpool.Close()
	logger.Printf("PostgreSQL connection established")

	// Создаем сервис работы с токенами
	// Без JWT_SECRET приложение не стартует
	tokenSvc, err := token.New(cfg.Token.Secret, cfg.Token.TTL)
	if err != nil {
		logger.Fatalf("Failed to initialize token service: %v", err)
	}

	// Создаем репозиторий и хэшер паролей
	userRepo := userrepo.NewRepository(dbpool)
	passwordHasher := hasher.New()

	// Создаем слой usecase
	userUseCase := usecase.NewUserUseCase(userRepo, passwordHasher, tokenSvc)

	// Создаем HTTP контроллер и роутер
	userHandler := usercontroller.NewHandler(userUseCase)
	router := usercontroller.NewRouter(userHandler, tokenSvc)

	// Настраиваем цепочку middleware: CORS -> RequestLog -> Router
	handler := corsMiddleware(middleware.RequestLog(router))

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.HTTP.IdleTimeout) * time.Second,
	}

	// Запускаем HTTP сервер в горутине
	go func() {
		logger.Printf("Starting HTTP server on port %d", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to serve HTTP server: %v", err)
		}
	}()

	// Ждем сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Printf("Shutting down server...")

	// Graceful shutdown с таймаутом
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("Server forced to shutdown: %v", err)
	}

	logger.Printf("Server stopped")
}

// corsMiddleware - добавляет CORS заголовки для фронтенда
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		// Устанавливаем CORS заголовки
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		// Обрабатываем preflight запросы
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
