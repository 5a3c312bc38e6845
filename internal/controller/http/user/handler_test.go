package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nikandjur/users-backend-test/internal/adapter/token"
	"github.com/nikandjur/users-backend-test/internal/entity"
	usecase "github.com/nikandjur/users-backend-test/internal/usecase/user"
)

const testSecret = "test-secret"

var testBirthDate = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*MockUserUseCase, token.JWTToken, http.Handler) {
	t.Helper()

	mockUseCase := new(MockUserUseCase)
	tokens, err := token.New(testSecret, 24*time.Hour)
	require.NoError(t, err)

	return mockUseCase, tokens, NewRouter(NewHandler(mockUseCase), tokens)
}

func doRequest(handler http.Handler, method, path, body, bearer string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRegisterHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockUseCase, _, srv := newTestServer(t)

		mockUseCase.On("Register", mock.Anything, "A", testBirthDate, "a@x.com", "secret1").Return(&entity.User{
			ID:        1,
			FullName:  "A",
			BirthDate: testBirthDate,
			Email:     "a@x.com",
			Password:  "hashed-password",
			Role:      entity.RoleUser,
			IsActive:  true,
		}, nil)

		rec := doRequest(srv, http.MethodPost, "/register",
			`{"fullName":"A","birthDate":"1990-01-01","email":"a@x.com","password":"secret1"}`, "")

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.EqualValues(t, 1, resp["id"])
		require.Equal(t, "A", resp["fullName"])
		require.Equal(t, "a@x.com", resp["email"])
		require.Equal(t, "USER", resp["role"])
		require.Equal(t, true, resp["isActive"])

		// Хэш пароля наружу не уходит ни под каким именем
		require.NotContains(t, resp, "password")
		require.NotContains(t, rec.Body.String(), "hashed-password")
	})

	t.Run("missing fields", func(t *testing.T) {
		_, _, srv := newTestServer(t)

		rec := doRequest(srv, http.MethodPost, "/register", `{"email":"a@x.com"}`, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t, `{"error":"All fields are required"}`, rec.Body.String())
	})

	t.Run("invalid birthDate", func(t *testing.T) {
		_, _, srv := newTestServer(t)

		rec := doRequest(srv, http.MethodPost, "/register",
			`{"fullName":"A","birthDate":"not-a-date","email":"a@x.com","password":"secret1"}`, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t, `{"error":"Invalid birthDate format"}`, rec.Body.String())
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockUseCase, _, srv := newTestServer(t)

		mockUseCase.On("Register", mock.Anything, "A", testBirthDate, "a@x.com", "secret1").
			Return(nil, usecase.ErrExistingUser)

		rec := doRequest(srv, http.MethodPost, "/register",
			`{"fullName":"A","birthDate":"1990-01-01","email":"a@x.com","password":"secret1"}`, "")
		require.Equal(t, http.StatusConflict, rec.Code)
		require.JSONEq(t, `{"error":"Email already in use"}`, rec.Body.String())
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockUseCase, _, srv := newTestServer(t)

		mockUseCase.On("Login", mock.Anything, "a@x.com", "secret1").Return("access-token", &entity.User{
			ID:       1,
			FullName: "A",
			Email:    "a@x.com",
			Password: "hashed-password",
			Role:     entity.RoleUser,
			IsActive: true,
		}, nil)

		rec := doRequest(srv, http.MethodPost, "/login", `{"email":"a@x.com","password":"secret1"}`, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "access-token", resp.Token)
		require.EqualValues(t, 1, resp.User.ID)
		require.NotContains(t, rec.Body.String(), "hashed-password")
	})

	t.Run("invalid credentials", func(t *testing.T) {
		mockUseCase, _, srv := newTestServer(t)

		mockUseCase.On("Login", mock.Anything, "a@x.com", "wrong").Return("", nil, usecase.ErrInvalidCredentials)

		rec := doRequest(srv, http.MethodPost, "/login", `{"email":"a@x.com","password":"wrong"}`, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())
	})

	t.Run("blocked user", func(t *testing.T) {
		mockUseCase, _, srv := newTestServer(t)

		mockUseCase.On("Login", mock.Anything, "a@x.com", "secret1").Return("", nil, usecase.ErrUserNotActive)

		rec := doRequest(srv, http.MethodPost, "/login", `{"email":"a@x.com","password":"secret1"}`, "")
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.JSONEq(t, `{"error":"User is blocked"}`, rec.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		_, _, srv := newTestServer(t)

		rec := doRequest(srv, http.MethodPost, "/login", `{"email":"a@x.com"}`, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetUserByIdHandler(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		_, _, srv := newTestServer(t)

		rec := doRequest(srv, http.MethodGet, "/1", "", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("own profile", func(t *testing.T) {
		mockUseCase, tokens, srv := newTestServer(t)

		tokenString, err := tokens.Issue(1, entity.RoleUser)
		require.NoError(t, err)

		mockUseCase.On("GetUserById", mock.Anything, entity.Identity{ID: 1, Role: entity.RoleUser}, int64(1)).
			Return(&entity.User{
				ID:        1,
				FullName:  "A",
				BirthDate: testBirthDate,
				Email:     "a@x.com",
				Password:  "hashed-password",
				Role:      entity.RoleUser,
				IsActive:  true,
			}, nil)

		rec := doRequest(srv, http.MethodGet, "/1", "", tokenString)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp ProfileResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.EqualValues(t, 1, resp.ID)
		require.Equal(t, "a@x.com", resp.Email)
		require.NotContains(t, rec.Body.String(), "hashed-password")
	})

	t.Run("foreign profile forbidden", func(t *testing.T) {
		mockUseCase, tokens, srv := newTestServer(t)

		tokenString, err := tokens.Issue(1, entity.RoleUser)
		require.NoError(t, err)

		mockUseCase.On("GetUserById", mock.Anything, entity.Identity{ID: 1, Role: entity.RoleUser}, int64(2)).
			Return(nil, usecase.ErrAccessDenied)

		rec := doRequest(srv, http.MethodGet, "/2", "", tokenString)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.JSONEq(t, `{"error":"Access denied"}`, rec.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		mockUseCase, tokens, srv := newTestServer(t)

		tokenString, err := tokens.Issue(1, entity.RoleAdmin)
		require.NoError(t, err)

		mockUseCase.On("GetUserById", mock.Anything, mock.Anything, int64(99)).
			Return(nil, usecase.ErrUserNotFound)

		rec := doRequest(srv, http.MethodGet, "/99", "", tokenString)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.JSONEq(t, `{"error":"User not found"}`, rec.Body.String())
	})

	t.Run("non-integer id", func(t *testing.T) {
		_, tokens, srv := newTestServer(t)

		tokenString, err := tokens.Issue(1, entity.RoleUser)
		require.NoError(t, err)

		rec := doRequest(srv, http.MethodGet, "/abc", "", tokenString)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t, `{"error":"Invalid user ID"}`, rec.Body.String())
	})
}

func TestGetAllUsersHandler(t *testing.T) {
	t.Run("admin receives all users", func(t *testing.T) {
		mockUseCase, tokens, srv := newTestServer(t)

		tokenString, err := tokens.Issue(1, entity.RoleAdmin)
		require.NoError(t, err)

		mockUseCase.On("GetAllUsers", mock.Anything, entity.Identity{ID: 1, Role: entity.RoleAdmin}).
			Return([]entity.User{
				{ID: 1, FullName: "Admin", Email: "admin@x.com", Role: entity.RoleAdmin, IsActive: true},
				{ID: 2, FullName: "B", Email: "b@x.com", Role: entity.RoleUser, IsActive: true},
			}, nil)

		rec := doRequest(srv, http.MethodGet, "/", "", tokenString)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp []ProfileResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 2)
	})

	t.Run("non-admin rejected by middleware", func(t *testing.T) {
		mockUseCase, tokens, srv := newTestServer(t)

		tokenString, err := tokens.Issue(2, entity.RoleUser)
		require.NoError(t, err)

		rec := doRequest(srv, http.MethodGet, "/", "", tokenString)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.JSONEq(t, `{"error":"Access denied: Admins only"}`, rec.Body.String())

		// До usecase запрос не доходит
		mockUseCase.AssertNotCalled(t, "GetAllUsers", mock.Anything, mock.Anything)
	})
}

func TestUpdateStatusHandler(t *testing.T) {
	t.Run("admin blocks other user", func(t *testing.T) {
		mockUseCase, tokens, srv := newTestServer(t)

		tokenString, err := tokens.Issue(1, entity.RoleAdmin)
		require.NoError(t, err)

		mockUseCase.On("UpdateStatus", mock.Anything, entity.Identity{ID: 1, Role: entity.RoleAdmin}, int64(2), false).
			Return(&entity.User{ID: 2, FullName: "B", Email: "b@x.com", Role: entity.RoleUser, IsActive: false}, nil)

		rec := doRequest(srv, http.MethodPut, "/2/status", `{"isActive":false}`, tokenString)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp StatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.False(t, resp.IsActive)
	})

	t.Run("admin cannot block themselves", func(t *testing.T) {
		mockUseCase, tokens, srv := newTestServer(t)

		tokenString, err := tokens.Issue(1, entity.RoleAdmin)
		require.NoError(t, err)

		mockUseCase.On("UpdateStatus", mock.Anything, entity.Identity{ID: 1, Role: entity.RoleAdmin}, int64(1), false).
			Return(nil, usecase.ErrAdminSelfBlock)

		rec := doRequest(srv, http.MethodPut, "/1/status", `{"isActive":false}`, tokenString)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t, `{"error":"Admin cannot block themselves"}`, rec.Body.String())
	})

	t.Run("user cannot update other status", func(t *testing.T) {
		mockUseCase, tokens, srv := newTestServer(t)

		tokenString, err := tokens.Issue(2, entity.RoleUser)
		require.NoError(t, err)

		mockUseCase.On("UpdateStatus", mock.Anything, entity.Identity{ID: 2, Role: entity.RoleUser}, int64(3), false).
			Return(nil, usecase.ErrStatusForbidden)

		rec := doRequest(srv, http.MethodPut, "/3/status", `{"isActive":false}`, tokenString)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.JSONEq(t, `{"error":"You can only update your own status"}`, rec.Body.String())
	})

	t.Run("missing isActive", func(t *testing.T) {
		_, tokens, srv := newTestServer(t)

		tokenString, err := tokens.Issue(1, entity.RoleAdmin)
		require.NoError(t, err)

		rec := doRequest(srv, http.MethodPut, "/2/status", `{}`, tokenString)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealthHandler(t *testing.T) {
	_, _, srv := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "OK", resp.Status)
	require.NotEmpty(t, resp.Timestamp)
}

func TestRouteNotFound(t *testing.T) {
	_, _, srv := newTestServer(t)

	rec := doRequest(srv, http.MethodDelete, "/no/such/route", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"Route not found"}`, rec.Body.String())
}

// Сквозной сценарий: регистрация -> логин -> свой профиль -> запрет списка для не-админа
func TestUserFlow(t *testing.T) {
	mockUseCase, tokens, srv := newTestServer(t)

	registered := &entity.User{
		ID:        1,
		FullName:  "A",
		BirthDate: testBirthDate,
		Email:     "a@x.com",
		Password:  "hashed-password",
		Role:      entity.RoleUser,
		IsActive:  true,
	}

	mockUseCase.On("Register", mock.Anything, "A", testBirthDate, "a@x.com", "secret1").Return(registered, nil)

	// Регистрация
	rec := doRequest(srv, http.MethodPost, "/register",
		`{"fullName":"A","birthDate":"1990-01-01","email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotContains(t, rec.Body.String(), "password")

	// Логин: usecase выпускает настоящий токен
	issued, err := tokens.Issue(registered.ID, registered.Role)
	require.NoError(t, err)
	mockUseCase.On("Login", mock.Anything, "a@x.com", "secret1").Return(issued, registered, nil)

	rec = doRequest(srv, http.MethodPost, "/login", `{"email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var loginResp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp.Token)

	// Токен декодируется обратно в ту же пару id/роль
	identity, err := tokens.Verify(loginResp.Token)
	require.NoError(t, err)
	require.Equal(t, registered.ID, identity.ID)
	require.Equal(t, registered.Role, identity.Role)

	// Свой профиль по выданному токену
	mockUseCase.On("GetUserById", mock.Anything, identity, registered.ID).Return(registered, nil)

	rec = doRequest(srv, http.MethodGet, "/1", "", loginResp.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	// Список пользователей для не-админа закрыт
	rec = doRequest(srv, http.MethodGet, "/", "", loginResp.Token)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
