package services

import (
	"errors"
	"fmt"
)

// ValidationError はリクエスト内容が不正な場合のエラーです (400)。
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StoreError はストアの障害をラップします (500)。
// Op はレスポンスに載せてよい操作名で、元のエラーは Unwrap でのみ取り出せます。
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Diagnostic はクライアントに返す診断用の文字列です。
func (e *StoreError) Diagnostic() string {
	return e.Op
}

// ErrInvalidCredentials はメールアドレスかパスワードが違う場合のエラーです。
var ErrInvalidCredentials = errors.New("invalid credentials")

func validationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
