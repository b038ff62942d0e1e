package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-api/internal/models"
	"todo-api/internal/services"
)

// UserHandler はユーザー関連のハンドラーを管理します。
type UserHandler struct {
	userService *services.UserService
	jwtService  *services.JWTService
}

// NewUserHandler は新しいUserHandlerを作成します。
func NewUserHandler(userService *services.UserService, jwtService *services.JWTService) *UserHandler {
	return &UserHandler{userService: userService, jwtService: jwtService}
}

// RegisterHandler はユーザー登録を処理し、登録後すぐに使えるトークンを返します。
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req models.UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, ok := h.issueToken(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "User registered successfully", "user": user, "token": token})
}

// LoginHandler はユーザーログインを処理します。
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req models.UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, ok := h.issueToken(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful", "user": user, "token": token})
}

func (h *UserHandler) issueToken(c *gin.Context, user *models.User) (string, bool) {
	token, err := h.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		log.Printf("Failed to generate JWT token: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return "", false
	}
	return token, true
}
