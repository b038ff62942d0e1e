// Package routesはroutingを行います。
package routes

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"todo-api/internal/handlers"
	"todo-api/internal/repositories"
	"todo-api/internal/services"
)

// Dependencies はルーターが必要とするリポジトリと設定です。
type Dependencies struct {
	TodoRepo    repositories.TodoRepository
	UserRepo    repositories.UserRepository
	JWTService  *services.JWTService
	Ping        func(ctx context.Context) error // nil の場合 /api/health は常に ok
	CORSOrigins []string
}

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware(), gin.Logger(), RecoveryMiddleware())

	// CORS対策
	config := cors.DefaultConfig()
	config.AllowOrigins = deps.CORSOrigins
	if len(config.AllowOrigins) == 0 {
		config.AllowOrigins = []string{"http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader}
	config.AllowCredentials = true
	r.Use(cors.New(config))

	// サービス
	todoService := services.NewTodoService(deps.TodoRepo)
	userService := services.NewUserService(deps.UserRepo)

	// ハンドラー
	userHandler := handlers.NewUserHandler(userService, deps.JWTService)
	todoHandler := handlers.NewTodoHandler(todoService)

	// ルーティング
	r.GET("/api/hello", HelloHandler)
	r.GET("/api/health", healthHandler(deps.Ping))
	r.POST("/api/register", userHandler.RegisterHandler)
	r.POST("/api/login", userHandler.LoginHandler)

	authorized := r.Group("/api/todos")
	authorized.Use(AuthMiddleware(deps.JWTService))
	{
		authorized.GET("", todoHandler.GetTodosHandler)
		authorized.POST("", todoHandler.CreateTodoHandler)
		authorized.GET("/:id", todoHandler.GetTodoByIDHandler)
		authorized.PUT("/:id", todoHandler.UpdateTodoHandler)
		authorized.DELETE("/:id", todoHandler.DeleteTodoHandler)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	})

	return r
}

func HelloHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Hello from Go Backend!"})
}

func healthHandler(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			if err := ping(c.Request.Context()); err != nil {
				log.Printf("DB Ping failed: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "status": "error", "message": "Database connection failed"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok", "message": "Database connection is healthy"})
	}
}
