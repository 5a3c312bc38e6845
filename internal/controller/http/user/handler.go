package user

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/nikandjur/users-backend-test/internal/controller/http/middleware"
	"github.com/nikandjur/users-backend-test/internal/entity"
	usecase "github.com/nikandjur/users-backend-test/internal/usecase/user"
)

// Поддерживаемые форматы даты рождения
var birthDateLayouts = []string{time.RFC3339, "2006-01-02"}

// Handler - HTTP обработчик для работы с пользователями
type Handler struct {
	users usecase.UserUseCase
}

// NewHandler - создает новый Handler
func NewHandler(users usecase.UserUseCase) *Handler {
	return &Handler{users: users}
}

// RegisterRequest - запрос на регистрацию
type RegisterRequest struct {
	FullName  string `json:"fullName"`
	BirthDate string `json:"birthDate"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// RegisterResponse - ответ на регистрацию (без хэша пароля)
type RegisterResponse struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"fullName"`
	BirthDate time.Time `json:"birthDate"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
}

// Register обрабатывает POST /register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Валидация: все поля обязательны
	if req.FullName == "" || req.BirthDate == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid birthDate format")
		return
	}

	created, err := h.users.Register(r.Context(), req.FullName, birthDate, req.Email, req.Password)
	if err != nil {
		log.Printf("Register failed for email %s: %v", req.Email, err)

		if errors.Is(err, usecase.ErrExistingUser) {
			writeError(w, http.StatusConflict, "Email already in use")
			return
		}
		if errors.Is(err, usecase.ErrMinLengthPswd) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{
		ID:        created.ID,
		FullName:  created.FullName,
		BirthDate: created.BirthDate,
		Email:     created.Email,
		Role:      created.Role.String(),
		IsActive:  created.IsActive,
	})
}

// LoginRequest - запрос на логин
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginUser - данные пользователя в ответе на логин
type LoginUser struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

// LoginResponse - ответ на логин: токен и пользователь
type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// Login обрабатывает POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Валидация
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	accessToken, curUser, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("Login failed for email %s: %v", req.Email, err)

		if errors.Is(err, usecase.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if errors.Is(err, usecase.ErrUserNotActive) {
			writeError(w, http.StatusForbidden, "User is blocked")
			return
		}

		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token: accessToken,
		User: LoginUser{
			ID:       curUser.ID,
			FullName: curUser.FullName,
			Email:    curUser.Email,
			Role:     curUser.Role.String(),
			IsActive: curUser.IsActive,
		},
	})
}

// ProfileResponse - полный профиль пользователя (без хэша пароля)
type ProfileResponse struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"fullName"`
	BirthDate time.Time `json:"birthDate"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GetUserById обрабатывает GET /{id}
func (h *Handler) GetUserById(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	targetUser, err := h.users.GetUserById(r.Context(), requester, id)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		if errors.Is(err, usecase.ErrAccessDenied) {
			writeError(w, http.StatusForbidden, "Access denied")
			return
		}

		log.Printf("GetUserById failed for id %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, toProfile(targetUser))
}

// GetAllUsers обрабатывает GET /
func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	allUsers, err := h.users.GetAllUsers(r.Context(), requester)
	if err != nil {
		if errors.Is(err, usecase.ErrAdminOnly) {
			writeError(w, http.StatusForbidden, "Access denied: Admins only")
			return
		}

		log.Printf("GetAllUsers failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get users")
		return
	}

	response := make([]ProfileResponse, 0, len(allUsers))
	for i := range allUsers {
		response = append(response, toProfile(&allUsers[i]))
	}

	writeJSON(w, http.StatusOK, response)
}

// UpdateStatusRequest - запрос на смену статуса
// Указатель, чтобы отличить отсутствие поля от false
type UpdateStatusRequest struct {
	IsActive *bool `json:"isActive"`
}

// StatusResponse - ответ на смену статуса
type StatusResponse struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

// UpdateStatus обрабатывает PUT /{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Valid ID and isActive boolean are required")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsActive == nil {
		writeError(w, http.StatusBadRequest, "Valid ID and isActive boolean are required")
		return
	}

	updated, err := h.users.UpdateStatus(r.Context(), requester, id, *req.IsActive)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		if errors.Is(err, usecase.ErrAdminSelfBlock) {
			writeError(w, http.StatusBadRequest, "Admin cannot block themselves")
			return
		}
		if errors.Is(err, usecase.ErrStatusForbidden) {
			writeError(w, http.StatusForbidden, "You can only update your own status")
			return
		}

		log.Printf("UpdateStatus failed for id %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		ID:       updated.ID,
		FullName: updated.FullName,
		Email:    updated.Email,
		Role:     updated.Role.String(),
		IsActive: updated.IsActive,
	})
}

// HealthResponse - ответ health check
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Health обрабатывает GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// toProfile - полный профиль из сущности
func toProfile(u *entity.User) ProfileResponse {
	return ProfileResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		BirthDate: u.BirthDate,
		Email:     u.Email,
		Role:      u.Role.String(),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// parseBirthDate - разбор даты рождения из текста запроса
func parseBirthDate(s string) (time.Time, error) {
	var err error
	for _, layout := range birthDateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// writeJSON пишет данные в JSON
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError пишет ошибку в JSON
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}
