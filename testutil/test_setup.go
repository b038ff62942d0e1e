// Package testutil はハンドラーテスト用のルーターとヘルパーを提供します。
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"todo-api/internal/models"
	"todo-api/internal/routes"
	"todo-api/internal/services"
)

const TestJWTSecret = "test-secret-for-handlers"

// TestEnv はテスト用ルーターとその裏のメモリストアです。
type TestEnv struct {
	Router     *gin.Engine
	Todos      *MemoryTodoRepository
	Users      *MemoryUserRepository
	JWTService *services.JWTService
}

// SetupTestRouter はメモリストアを使ったGinルーターをセットアップします。
func SetupTestRouter(t *testing.T) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &TestEnv{
		Todos:      NewMemoryTodoRepository(),
		Users:      NewMemoryUserRepository(),
		JWTService: services.NewJWTService(TestJWTSecret, time.Hour),
	}
	env.Router = routes.SetupRouter(routes.Dependencies{
		TodoRepo:   env.Todos,
		UserRepo:   env.Users,
		JWTService: env.JWTService,
	})
	return env
}

// Do はJSONボディ付きのリクエストを送り、レスポンスを返します。token が空なら認証ヘッダーを付けません。
func (e *TestEnv) Do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// RegisterAndGetToken はユーザーを登録し、そのトークンとユーザーIDを返します。
func (e *TestEnv) RegisterAndGetToken(t *testing.T, username, email, password string) (string, string) {
	t.Helper()
	w := e.Do(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, "ユーザー登録に失敗しました: %s", w.Body.String())

	var res struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token, res.User.ID
}

// LoginAndGetToken はログインしてトークンを返します。
func (e *TestEnv) LoginAndGetToken(t *testing.T, email, password string) (string, error) {
	t.Helper()
	w := e.Do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d: %s", w.Code, w.Body.String())
	}
	var res struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		return "", fmt.Errorf("failed to unmarshal login response: %w", err)
	}
	return res.Token, nil
}

// TodoResponse は todo を1件返すエンドポイントのレスポンスです。
type TodoResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Todo    *models.Todo `json:"todo"`
	Error   string       `json:"error"`
}

// TodoListResponse は GET /api/todos のレスポンスです。
type TodoListResponse struct {
	Success    bool              `json:"success"`
	Todos      []*models.Todo    `json:"todos"`
	Pagination models.Pagination `json:"pagination"`
}

// DecodeTodo はレスポンスを TodoResponse として読みます。
func DecodeTodo(t *testing.T, w *httptest.ResponseRecorder) TodoResponse {
	t.Helper()
	var res TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return res
}

// DecodeTodoList はレスポンスを TodoListResponse として読みます。
func DecodeTodoList(t *testing.T, w *httptest.ResponseRecorder) TodoListResponse {
	t.Helper()
	var res TodoListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return res
}

// CreateTestTodo はAPI経由でTODOを作成します。
func (e *TestEnv) CreateTestTodo(t *testing.T, token string, payload map[string]any) *models.Todo {
	t.Helper()
	w := e.Do(t, http.MethodPost, "/api/todos", token, payload)
	require.Equal(t, http.StatusCreated, w.Code, "TODO作成に失敗しました: %s", w.Body.String())
	res := DecodeTodo(t, w)
	require.NotNil(t, res.Todo)
	return res.Todo
}
