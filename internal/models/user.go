package models

import "time"

// User はユーザーのデータベース構造体を表します。
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // JSONに出さない
	CreatedAt    time.Time `json:"createdAt"`
}

// UserRegisterRequest はユーザー登録リクエストです。
// bindingタグ: Ginでのリクエストバリデーション用
type UserRegisterRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"` // 生パスワード (bcryptの上限は72バイト)
}

// UserLoginRequest はログインリクエストです。
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"` // 生パスワード
}

// JWTClaims はトークンから取り出したユーザー情報です。
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
