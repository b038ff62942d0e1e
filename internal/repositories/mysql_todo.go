package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"todo-api/internal/models"
)

const todoColumns = "id, user_id, title, description, priority, due_date, completed, created_at, updated_at"

// MySQLTodoRepository はMySQLに保存するTodoRepositoryです。
type MySQLTodoRepository struct {
	DB *sql.DB
}

// NewMySQLTodoRepository は新しいMySQLTodoRepositoryインスタンスを作成します。
func NewMySQLTodoRepository(db *sql.DB) *MySQLTodoRepository {
	return &MySQLTodoRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*models.Todo, error) {
	var (
		t           models.Todo
		id          int64
		description sql.NullString
		priority    sql.NullString
		dueDate     sql.NullTime
	)
	if err := row.Scan(&id, &t.UserID, &t.Title, &description, &priority, &dueDate, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.ID = strconv.FormatInt(id, 10)
	t.Description = description.String
	t.Priority = models.Priority(priority.String)
	if dueDate.Valid {
		d := dueDate.Time
		t.DueDate = &d
	}
	return &t, nil
}

// Create は新しいTodoタスクをデータベースに挿入します。
func (r *MySQLTodoRepository) Create(ctx context.Context, t *models.Todo) (*models.Todo, error) {
	query := "INSERT INTO todos (user_id, title, description, priority, due_date, completed, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"

	result, err := r.DB.ExecContext(ctx, query,
		t.UserID, t.Title, nullString(t.Description), nullString(string(t.Priority)), nullTime(t.DueDate), t.Completed, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		log.Printf("Failed to insert todo: %v", err)
		return nil, fmt.Errorf("could not insert todo: %w", err)
	}

	// 自動採番されたIDを取得
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}

	created := *t
	created.ID = strconv.FormatInt(id, 10)
	return &created, nil
}

// FindByID は指定されたIDかつ所有者が userID のTodoを取得します。
func (r *MySQLTodoRepository) FindByID(ctx context.Context, id, userID string) (*models.Todo, error) {
	todoID, ok := parseTodoID(id)
	if !ok {
		return nil, ErrTodoNotFound
	}
	query := "SELECT " + todoColumns + " FROM todos WHERE id = ? AND user_id = ?"

	t, err := scanTodo(r.DB.QueryRowContext(ctx, query, todoID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		log.Printf("Failed to query todo by ID: %v", err)
		return nil, fmt.Errorf("could not query todo: %w", err)
	}
	return t, nil
}

// List は作成日時の新しい順にTodoを返します。
func (r *MySQLTodoRepository) List(ctx context.Context, userID string, filter models.TodoFilter, skip, limit int) ([]*models.Todo, error) {
	where, args := listWhere(userID, filter)
	query := "SELECT " + todoColumns + " FROM todos WHERE " + where + " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, skip)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("Failed to query todos: %v", err)
		return nil, fmt.Errorf("could not query todos: %w", err)
	}
	defer rows.Close()

	todos := []*models.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			log.Printf("Failed to scan todo: %v", err)
			return nil, fmt.Errorf("could not scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}
	return todos, nil
}

// Count は List と同じ条件に一致する件数を返します。
func (r *MySQLTodoRepository) Count(ctx context.Context, userID string, filter models.TodoFilter) (int64, error) {
	where, args := listWhere(userID, filter)
	var n int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM todos WHERE "+where, args...).Scan(&n); err != nil {
		log.Printf("Failed to count todos: %v", err)
		return 0, fmt.Errorf("could not count todos: %w", err)
	}
	return n, nil
}

// Update は行ロックを取ったトランザクション内でパッチを適用します。
func (r *MySQLTodoRepository) Update(ctx context.Context, id, userID string, patch models.TodoPatch, now time.Time) (*models.Todo, error) {
	todoID, ok := parseTodoID(id)
	if !ok {
		return nil, ErrTodoNotFound
	}

	var updated *models.Todo
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		t, err := lockTodo(ctx, tx, todoID, userID)
		if err != nil {
			return err
		}
		patch.Apply(t)
		t.UpdatedAt = now

		query := "UPDATE todos SET title = ?, description = ?, priority = ?, due_date = ?, completed = ?, updated_at = ? WHERE id = ? AND user_id = ?"
		if _, err := tx.ExecContext(ctx, query,
			t.Title, nullString(t.Description), nullString(string(t.Priority)), nullTime(t.DueDate), t.Completed, t.UpdatedAt, todoID, userID); err != nil {
			log.Printf("Failed to update todo: %v", err)
			return fmt.Errorf("could not update todo: %w", err)
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete は行ロックを取ったトランザクション内で削除し、削除前のTodoを返します。
func (r *MySQLTodoRepository) Delete(ctx context.Context, id, userID string) (*models.Todo, error) {
	todoID, ok := parseTodoID(id)
	if !ok {
		return nil, ErrTodoNotFound
	}

	var deleted *models.Todo
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		t, err := lockTodo(ctx, tx, todoID, userID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM todos WHERE id = ? AND user_id = ?", todoID, userID); err != nil {
			log.Printf("Failed to delete todo: %v", err)
			return fmt.Errorf("could not delete todo: %w", err)
		}
		deleted = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *MySQLTodoRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

func lockTodo(ctx context.Context, tx *sql.Tx, id int64, userID string) (*models.Todo, error) {
	query := "SELECT " + todoColumns + " FROM todos WHERE id = ? AND user_id = ? FOR UPDATE"
	t, err := scanTodo(tx.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		log.Printf("Failed to lock todo: %v", err)
		return nil, fmt.Errorf("could not query todo: %w", err)
	}
	return t, nil
}

// listWhere は一覧取得用の WHERE 句とプレースホルダ引数を返します。
func listWhere(userID string, filter models.TodoFilter) (string, []any) {
	conds := []string{"user_id = ?"}
	args := []any{userID}
	if filter.Completed != nil {
		conds = append(conds, "completed = ?")
		args = append(args, *filter.Completed)
	}
	if filter.Priority != "" {
		conds = append(conds, "priority = ?")
		args = append(args, string(filter.Priority))
	}
	return strings.Join(conds, " AND "), args
}

func parseTodoID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
