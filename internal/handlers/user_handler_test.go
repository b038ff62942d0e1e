package handlers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/testutil"
)

func TestRegisterUser_Success(t *testing.T) {
	env := testutil.SetupTestRouter(t)

	w := env.Do(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": "newuser",
		"email":    "newuser@example.com",
		"password": "newpassword",
	})
	assert.Equal(t, http.StatusCreated, w.Code, "Expected HTTP Status Code 201 Created")

	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, true, res["success"])
	assert.NotEmpty(t, res["token"])

	user, ok := res["user"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, user["id"])
	assert.Equal(t, "newuser", user["username"])
	assert.Equal(t, "newuser@example.com", user["email"])
	assert.NotContains(t, w.Body.String(), "password", "Password hash should not be returned in response")
}

func TestRegisterUser_InvalidInput(t *testing.T) {
	env := testutil.SetupTestRouter(t)

	bodies := []map[string]string{
		{"username": "newuser", "email": "not-an-email", "password": "newpassword"},
		{"username": "newuser", "email": "newuser@example.com", "password": "short"},
		{"email": "newuser@example.com", "password": "newpassword"},
		{"username": "newuser", "email": "newuser@example.com", "password": strings.Repeat("p", 73)},
	}
	for _, body := range bodies {
		w := env.Do(t, http.MethodPost, "/api/register", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestRegisterUser_PasswordOver72Bytes(t *testing.T) {
	env := testutil.SetupTestRouter(t)

	// 40文字なので binding は通るが、bcrypt の上限72バイトを超える
	w := env.Do(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": "newuser",
		"email":    "newuser@example.com",
		"password": strings.Repeat("é", 40),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Password must be at most 72 bytes"}`, w.Body.String())
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	env := testutil.SetupTestRouter(t)
	env.RegisterAndGetToken(t, "existing", "existing@example.com", "password123")

	w := env.Do(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": "another",
		"email":    "existing@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginUser(t *testing.T) {
	env := testutil.SetupTestRouter(t)
	_, userID := env.RegisterAndGetToken(t, "normal_user", "normal_user@example.com", "password123")

	t.Run("success", func(t *testing.T) {
		token, err := env.LoginAndGetToken(t, "normal_user@example.com", "password123")
		require.NoError(t, err)

		claims, err := env.JWTService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.LoginAndGetToken(t, "normal_user@example.com", "wrongpassword")
		assert.Error(t, err)
	})

	t.Run("unknown email gets the same answer", func(t *testing.T) {
		w := env.Do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "ghost@example.com", "password": "password123"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"success":false,"message":"Invalid credentials"}`, w.Body.String())
	})

	t.Run("invalid payload", func(t *testing.T) {
		w := env.Do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "normal_user@example.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
