package routes

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"todo-api/internal/handlers"
	"todo-api/internal/services"
)

// UserResolver はリクエストから検証済みのユーザーIDを取り出します。
type UserResolver interface {
	ResolveUser(r *http.Request) (string, error)
}

// AuthMiddleware はユーザーIDを解決できないリクエストを 401 で打ち切り、
// 解決できた場合はコンテキストにセットします。
func AuthMiddleware(resolver UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := resolver.ResolveUser(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": authMessage(err)})
			return
		}
		c.Set(handlers.ContextUserIDKey, userID)
		c.Next()
	}
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrAuthHeaderMissing):
		return "Authorization header required"
	case errors.Is(err, services.ErrInvalidTokenFormat):
		return "Invalid token format"
	default:
		return "Invalid or expired token"
	}
}

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware はリクエストIDを採番し、レスポンスヘッダーに返します。
// クライアントが X-Request-ID を送ってきた場合はそれを使います。
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RecoveryMiddleware はパニックを 500 のエンベロープに変換します。
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("panic recovered (request_id=%s): %v", c.GetString("request_id"), recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong!"})
	})
}
