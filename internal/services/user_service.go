package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"todo-api/internal/models"
	"todo-api/internal/repositories"
)

// UserService はユーザー関連のビジネスロジックを扱います。
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService は新しいUserServiceを作成します。
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// RegisterUser はユーザーを登録します。
func (s *UserService) RegisterUser(ctx context.Context, req models.UserRegisterRequest) (*models.User, error) {
	hashedPassword, err := repositories.HashPassword(req.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		// マルチバイト文字では max=72 (文字数) を通っても72バイトを超えることがある
		return nil, validationError("Password must be at most 72 bytes")
	}
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := &models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}

	createdUser, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, &StoreError{Op: "failed to register user", Err: err}
	}
	createdUser.PasswordHash = "" // レスポンスにパスワードを含めない
	return createdUser, nil
}

// AuthenticateUser はユーザーを認証し、成功したらユーザーを返します。
// メールアドレスが無い場合もパスワード違いと同じ ErrInvalidCredentials を返します。
func (s *UserService) AuthenticateUser(ctx context.Context, req models.UserLoginRequest) (*models.User, error) {
	foundUser, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, &StoreError{Op: "failed to fetch user", Err: err}
	}

	if err := repositories.VerifyPassword(foundUser.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	foundUser.PasswordHash = ""
	return foundUser, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
