package user

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikandjur/users-backend-test/internal/adapter/token"
	"github.com/nikandjur/users-backend-test/internal/controller/http/middleware"
)

// NewRouter - собирает роутер сервиса
// Публичные: /register, /login, /health; остальное за Bearer токеном
func NewRouter(h *Handler, tokens token.JWTToken) *mux.Router {
	r := mux.NewRouter()

	authenticate := middleware.Authenticate(tokens)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	// Список пользователей только для админов
	r.Handle("/", authenticate(middleware.RequireAdmin(http.HandlerFunc(h.GetAllUsers)))).Methods(http.MethodGet)
	r.Handle("/{id}", authenticate(http.HandlerFunc(h.GetUserById))).Methods(http.MethodGet)
	r.Handle("/{id}/status", authenticate(http.HandlerFunc(h.UpdateStatus))).Methods(http.MethodPut)

	// Неизвестный маршрут - JSON 404
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})

	return r
}
