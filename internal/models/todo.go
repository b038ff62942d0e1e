// Package modelsはTodoとUserを定義します。
package models

import (
	"time"
)

// Priority はTodoの優先度です。
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid は優先度が low / medium / high のいずれかであるかを返します。
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Todo はストアに保存されるToDoタスクです。
// ID と UserID はストアごとの表現を文字列にしたものです。
type Todo struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"` // 所有者 (作成後は変更不可)
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateTodoRequest は POST /api/todos のリクエストボディです。
type CreateTodoRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

// TodoPatch は PUT /api/todos/:id のリクエストボディです。
// 送られてきたフィールドだけが更新されます。
type TodoPatch struct {
	Title       Optional[string]    `json:"title"`
	Description Optional[string]    `json:"description"`
	Completed   Optional[bool]      `json:"completed"`
	Priority    Optional[Priority]  `json:"priority"`
	DueDate     Optional[time.Time] `json:"dueDate"`
}

// Empty は更新対象のフィールドが1つもない場合に true を返します。
func (p TodoPatch) Empty() bool {
	return !p.Title.Set && !p.Description.Set && !p.Completed.Set && !p.Priority.Set && !p.DueDate.Set
}

// Apply はパッチを t に適用します。
func (p TodoPatch) Apply(t *Todo) {
	if p.Title.Set {
		t.Title = p.Title.Value
	}
	if p.Description.Set {
		t.Description = p.Description.Value
	}
	if p.Completed.Set {
		t.Completed = p.Completed.Value
	}
	if p.Priority.Set {
		t.Priority = p.Priority.Value
	}
	if p.DueDate.Set {
		if p.DueDate.Null {
			t.DueDate = nil
		} else {
			d := p.DueDate.Value
			t.DueDate = &d
		}
	}
}

// TodoFilter は一覧取得時の絞り込み条件です。nil / 空文字は条件なしを意味します。
type TodoFilter struct {
	Completed *bool
	Priority  Priority
}

// Pagination は一覧レスポンスのページ情報です。
type Pagination struct {
	Current    int   `json:"current"`
	Total      int   `json:"total"`
	Count      int   `json:"count"`
	TotalTodos int64 `json:"totalTodos"`
}

// TodoPage は一覧取得の結果です。
type TodoPage struct {
	Todos      []*Todo
	Pagination Pagination
}

// TotalPages は ceil(total / limit) を返します。
func TotalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}
