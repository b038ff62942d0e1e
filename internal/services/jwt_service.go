package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"todo-api/internal/models"
)

var (
	ErrAuthHeaderMissing  = errors.New("authorization header required")
	ErrInvalidTokenFormat = errors.New("invalid token format")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// tokenClaims はトークンに載せるクレームです。
type tokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService はJWTトークンの生成と検証を扱います。
type JWTService struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTService は新しいJWTServiceを作成します。
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTService{secret: []byte(secret), ttl: ttl}
}

// GenerateToken はJWTトークンを生成します。
func (s *JWTService) GenerateToken(userID, email string) (string, error) {
	now := time.Now()
	claims := &tokenClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken はJWTトークンを検証し、クレームを返します。
func (s *JWTService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &models.JWTClaims{UserID: claims.UserID, Email: claims.Email}, nil
}

// ResolveUser は Authorization: Bearer ヘッダーから検証済みのユーザーIDを取り出します。
func (s *JWTService) ResolveUser(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrAuthHeaderMissing
	}
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(tokenString) == "" {
		return "", ErrInvalidTokenFormat
	}
	claims, err := s.ValidateToken(strings.TrimSpace(tokenString))
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
