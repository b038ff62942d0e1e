package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"todo-api/internal/models"
	"todo-api/internal/repositories"
)

// MemoryTodoRepository はテスト用のメモリ上のTodoRepositoryです。
// Err をセットすると全ての操作がそのエラーを返します。
type MemoryTodoRepository struct {
	mu     sync.Mutex
	seq    int
	todos  map[string]models.Todo
	Err    error
	Writes int // Create / Update / Delete が成功した回数
}

// NewMemoryTodoRepository は空のMemoryTodoRepositoryを作成します。
func NewMemoryTodoRepository() *MemoryTodoRepository {
	return &MemoryTodoRepository{todos: map[string]models.Todo{}}
}

var _ repositories.TodoRepository = (*MemoryTodoRepository)(nil)

func (r *MemoryTodoRepository) Create(_ context.Context, t *models.Todo) (*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	r.seq++
	created := *t
	// 辞書順と採番順を一致させる
	created.ID = fmt.Sprintf("%024x", r.seq)
	r.todos[created.ID] = created
	r.Writes++
	return &created, nil
}

func (r *MemoryTodoRepository) FindByID(_ context.Context, id, userID string) (*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	t, ok := r.todos[id]
	if !ok || t.UserID != userID {
		return nil, repositories.ErrTodoNotFound
	}
	return &t, nil
}

func (r *MemoryTodoRepository) List(_ context.Context, userID string, filter models.TodoFilter, skip, limit int) ([]*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	matched := r.match(userID, filter)
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return strings.Compare(matched[i].ID, matched[j].ID) > 0
	})
	if skip >= len(matched) {
		return []*models.Todo{}, nil
	}
	end := len(matched)
	if limit < end-skip {
		end = skip + limit
	}
	return matched[skip:end], nil
}

func (r *MemoryTodoRepository) Count(_ context.Context, userID string, filter models.TodoFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	return int64(len(r.match(userID, filter))), nil
}

func (r *MemoryTodoRepository) Update(_ context.Context, id, userID string, patch models.TodoPatch, now time.Time) (*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	t, ok := r.todos[id]
	if !ok || t.UserID != userID {
		return nil, repositories.ErrTodoNotFound
	}
	patch.Apply(&t)
	t.UpdatedAt = now
	r.todos[id] = t
	r.Writes++
	return &t, nil
}

func (r *MemoryTodoRepository) Delete(_ context.Context, id, userID string) (*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	t, ok := r.todos[id]
	if !ok || t.UserID != userID {
		return nil, repositories.ErrTodoNotFound
	}
	delete(r.todos, id)
	r.Writes++
	return &t, nil
}

// Get は所有者に関係なくTodoを返します。テストでの状態確認用です。
func (r *MemoryTodoRepository) Get(id string) (models.Todo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[id]
	return t, ok
}

func (r *MemoryTodoRepository) match(userID string, filter models.TodoFilter) []*models.Todo {
	var out []*models.Todo
	for _, t := range r.todos {
		if t.UserID != userID {
			continue
		}
		if filter.Completed != nil && t.Completed != *filter.Completed {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		c := t
		out = append(out, &c)
	}
	return out
}

// MemoryUserRepository はテスト用のメモリ上のUserRepositoryです。
type MemoryUserRepository struct {
	mu      sync.Mutex
	seq     int
	byEmail map[string]models.User
	Err     error
}

// NewMemoryUserRepository は空のMemoryUserRepositoryを作成します。
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{byEmail: map[string]models.User{}}
}

var _ repositories.UserRepository = (*MemoryUserRepository)(nil)

func (r *MemoryUserRepository) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if _, exists := r.byEmail[u.Email]; exists {
		return nil, repositories.ErrDuplicateEmail
	}
	r.seq++
	created := *u
	created.ID = fmt.Sprintf("user-%d", r.seq)
	r.byEmail[created.Email] = created
	return &created, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.byEmail[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}
