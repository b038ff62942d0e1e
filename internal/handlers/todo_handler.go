package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"todo-api/internal/models"
	"todo-api/internal/services"
)

// TodoHandler はTodo関連のハンドラーを管理します。
type TodoHandler struct {
	todoService *services.TodoService
}

// NewTodoHandler は新しいTodoHandlerを作成します。
func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// CreateTodoHandler は新しいTodoを作成します。
func (h *TodoHandler) CreateTodoHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.CreateTodoRequest
	if !bindBody(c, &req) {
		return
	}

	createdTodo, err := h.todoService.CreateTodo(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Todo created successfully", "todo": createdTodo})
}

// GetTodosHandler はログインユーザーのTodoを絞り込み・ページ付きで返します。
func (h *TodoHandler) GetTodosHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	filter, page, limit := parseListQuery(c)

	result, err := h.todoService.GetTodos(c.Request.Context(), userID, filter, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "todos": result.Todos, "pagination": result.Pagination})
}

// GetTodoByIDHandler は指定IDのTodoを取得します。
func (h *TodoHandler) GetTodoByIDHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	todo, err := h.todoService.GetTodoByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "todo": todo})
}

// UpdateTodoHandler はTodoを部分更新します。
func (h *TodoHandler) UpdateTodoHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var patch models.TodoPatch
	if !bindBody(c, &patch) {
		return
	}

	updatedTodo, err := h.todoService.UpdateTodo(c.Request.Context(), userID, c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Todo updated successfully", "todo": updatedTodo})
}

// DeleteTodoHandler はTodoを削除し、削除したTodoを返します。
func (h *TodoHandler) DeleteTodoHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	deletedTodo, err := h.todoService.DeleteTodo(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Todo deleted successfully", "todo": deletedTodo})
}

// parseListQuery は completed / priority / page / limit を読み取ります。
// completed は "true" のときだけ true で、それ以外の値は false として扱います。
func parseListQuery(c *gin.Context) (models.TodoFilter, int, int) {
	var filter models.TodoFilter
	if v, ok := c.GetQuery("completed"); ok {
		completed := v == "true"
		filter.Completed = &completed
	}
	filter.Priority = models.Priority(c.Query("priority"))

	page := positiveInt(c.Query("page"), services.DefaultPage)
	limit := positiveInt(c.Query("limit"), services.DefaultLimit)
	return filter, page, limit
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
