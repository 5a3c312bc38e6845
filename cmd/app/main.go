package main

import (
	"log"

	"github.com/nikandjur/users-backend-test/config"
	"github.com/nikandjur/users-backend-test/internal/app"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// Запускаем приложение
	app.Run(cfg)
}
