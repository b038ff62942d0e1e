// Package handlers はHTTPリクエストをサービス呼び出しとJSONレスポンスに変換します。
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-api/internal/repositories"
	"todo-api/internal/services"
)

// ContextUserIDKey は認証ミドルウェアが検証済みユーザーIDを保存するキーです。
const ContextUserIDKey = "user_id"

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondError はサービスのエラーをステータスコードとエンベロープに変換します。
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var storeErr *services.StoreError

	switch {
	case errors.As(err, &validationErr):
		fail(c, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, repositories.ErrTodoNotFound):
		fail(c, http.StatusNotFound, "Todo not found")
	case errors.Is(err, repositories.ErrDuplicateEmail):
		fail(c, http.StatusConflict, "User already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.As(err, &storeErr):
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error", "error": storeErr.Diagnostic()})
	default:
		fail(c, http.StatusInternalServerError, "Server error")
	}
}

// currentUserID は認証ミドルウェアがセットしたユーザーIDを返します。
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(ContextUserIDKey)
	if userID == "" {
		fail(c, http.StatusUnauthorized, "User ID not found in context")
		return "", false
	}
	return userID, true
}

// bindBody はボディをJSONとして読みます。空のボディは {} として扱います。
func bindBody(c *gin.Context, v any) bool {
	raw, err := c.GetRawData()
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return true
	}
	if err := json.Unmarshal(raw, v); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}
