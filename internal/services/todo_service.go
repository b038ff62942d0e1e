package services

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"todo-api/internal/models"
	"todo-api/internal/repositories"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// TodoService はTodo関連のビジネスロジックを扱います。
// すべての操作は認証済みの userID を受け取り、その所有物だけを扱います。
type TodoService struct {
	todoRepo repositories.TodoRepository
	now      func() time.Time
}

// NewTodoService は新しいTodoServiceを作成します。
func NewTodoService(todoRepo repositories.TodoRepository) *TodoService {
	return &TodoService{todoRepo: todoRepo, now: time.Now}
}

// timestamp はストア間で精度をそろえるためミリ秒に切り捨てます。
func (s *TodoService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// CreateTodo は新しいTodoを作成します。タイトルが空の場合はストアに書き込みません。
// タイトルは送られたまま保存します。
func (s *TodoService) CreateTodo(ctx context.Context, userID string, req models.CreateTodoRequest) (*models.Todo, error) {
	if req.Title == "" {
		return nil, validationError("Title is required")
	}
	if req.Priority != "" && !req.Priority.Valid() {
		return nil, validationError("Priority must be one of low, medium, high")
	}

	now := s.timestamp()
	todo := &models.Todo{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     dueDate(req.DueDate),
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := s.todoRepo.Create(ctx, todo)
	if err != nil {
		return nil, storeError("failed to create todo", err)
	}
	return created, nil
}

// GetTodos はユーザーのTodoを新しい順にページ単位で取得します。
func (s *TodoService) GetTodos(ctx context.Context, userID string, filter models.TodoFilter, page, limit int) (*models.TodoPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	// skip が int に収まらないページは必ず範囲外なので、一覧は取りにいかない
	var todos []*models.Todo
	if page-1 <= math.MaxInt/limit {
		var err error
		todos, err = s.todoRepo.List(ctx, userID, filter, (page-1)*limit, limit)
		if err != nil {
			return nil, storeError("failed to fetch todos", err)
		}
	}
	total, err := s.todoRepo.Count(ctx, userID, filter)
	if err != nil {
		return nil, storeError("failed to count todos", err)
	}
	if todos == nil {
		todos = []*models.Todo{}
	}

	return &models.TodoPage{
		Todos: todos,
		Pagination: models.Pagination{
			Current:    page,
			Total:      models.TotalPages(total, limit),
			Count:      len(todos),
			TotalTodos: total,
		},
	}, nil
}

// GetTodoByID は指定IDのTodoを取得します。他人のTodoは存在しないものとして扱います。
func (s *TodoService) GetTodoByID(ctx context.Context, userID, id string) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, storeError("failed to fetch todo", err)
	}
	return todo, nil
}

// UpdateTodo はパッチに含まれるフィールドだけを更新します。
func (s *TodoService) UpdateTodo(ctx context.Context, userID, id string, patch models.TodoPatch) (*models.Todo, error) {
	patch, err := validatePatch(patch)
	if err != nil {
		return nil, err
	}
	updated, err := s.todoRepo.Update(ctx, id, userID, patch, s.timestamp())
	if err != nil {
		return nil, storeError("failed to update todo", err)
	}
	return updated, nil
}

// DeleteTodo はTodoを削除し、削除前の内容を返します。
func (s *TodoService) DeleteTodo(ctx context.Context, userID, id string) (*models.Todo, error) {
	deleted, err := s.todoRepo.Delete(ctx, id, userID)
	if err != nil {
		return nil, storeError("failed to delete todo", err)
	}
	return deleted, nil
}

func validatePatch(p models.TodoPatch) (models.TodoPatch, error) {
	if p.Title.Set {
		if p.Title.Null {
			return p, validationError("Title cannot be null")
		}
		if p.Title.Value == "" {
			return p, validationError("Title cannot be empty")
		}
	}
	if p.Completed.Set && p.Completed.Null {
		return p, validationError("Completed must be true or false")
	}
	if p.Priority.Set && !p.Priority.Null && p.Priority.Value != "" && !p.Priority.Value.Valid() {
		return p, validationError("Priority must be one of low, medium, high")
	}
	if p.DueDate.Set && !p.DueDate.Null {
		p.DueDate.Value = p.DueDate.Value.UTC().Truncate(time.Millisecond)
	}
	return p, nil
}

// dueDate は期限をストアの精度 (ミリ秒) にそろえます。
func dueDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := t.UTC().Truncate(time.Millisecond)
	return &d
}

// storeError は NotFound はそのまま返し、それ以外を StoreError に包みます。
func storeError(op string, err error) error {
	if errors.Is(err, repositories.ErrTodoNotFound) {
		return repositories.ErrTodoNotFound
	}
	log.Printf("%s: %v", op, err)
	return &StoreError{Op: op, Err: err}
}
