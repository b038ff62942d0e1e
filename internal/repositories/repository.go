// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"context"
	"errors"
	"time"

	"todo-api/internal/models"
)

var (
	// ErrTodoNotFound はTODOが存在しない、または他のユーザーの所有である場合のエラーです。
	ErrTodoNotFound = errors.New("todo not found")

	ErrDuplicateEmail = errors.New("duplicate email")
	ErrUserNotFound   = errors.New("user not found")
)

// TodoRepository はTodoの永続化を抽象化します。
// id を受け取る操作はすべて userID でも絞り込みます。
type TodoRepository interface {
	Create(ctx context.Context, t *models.Todo) (*models.Todo, error)
	FindByID(ctx context.Context, id, userID string) (*models.Todo, error)
	List(ctx context.Context, userID string, filter models.TodoFilter, skip, limit int) ([]*models.Todo, error)
	Count(ctx context.Context, userID string, filter models.TodoFilter) (int64, error)
	Update(ctx context.Context, id, userID string, patch models.TodoPatch, now time.Time) (*models.Todo, error)
	Delete(ctx context.Context, id, userID string) (*models.Todo, error)
}

// UserRepository はUserの永続化を抽象化します。
type UserRepository interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
