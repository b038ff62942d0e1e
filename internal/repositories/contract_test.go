package repositories_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/internal/config"
	"todo-api/internal/database"
	"todo-api/internal/models"
	"todo-api/internal/repositories"
	"todo-api/testutil"
)

// 各ストアに同じ振る舞いを要求します。
// MongoDB / MySQL は TEST_MONGODB_URI / TEST_DB_HOST が設定されている場合のみ実行します。
func TestTodoRepositoryContract(t *testing.T) {
	_ = godotenv.Load("../../.env.test")

	t.Run("memory", func(t *testing.T) {
		runTodoContract(t, testutil.NewMemoryTodoRepository())
	})

	t.Run("mongo", func(t *testing.T) {
		uri := os.Getenv("TEST_MONGODB_URI")
		if uri == "" {
			t.Skip("TEST_MONGODB_URI is not set")
		}
		ctx := context.Background()
		client, err := database.ConnectMongo(ctx, uri)
		require.NoError(t, err)
		db := client.Database("todo_contract_" + uuid.NewString()[:8])
		t.Cleanup(func() {
			_ = db.Drop(context.Background())
			_ = client.Disconnect(context.Background())
		})

		repo := repositories.NewMongoTodoRepository(db)
		require.NoError(t, repo.EnsureIndexes(ctx))
		runTodoContract(t, repo)
	})

	t.Run("mysql", func(t *testing.T) {
		host := os.Getenv("TEST_DB_HOST")
		if host == "" {
			t.Skip("TEST_DB_HOST is not set")
		}
		cfg := config.MySQLConfig{
			User: os.Getenv("TEST_DB_USER"),
			Pass: os.Getenv("TEST_DB_PASS"),
			Host: host,
			Port: envOr("TEST_DB_PORT", "3306"),
			Name: envOr("TEST_DB_NAME", "todo_test"),
		}
		db, err := database.InitMySQL(context.Background(), cfg.DSN())
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })

		runTodoContract(t, repositories.NewMySQLTodoRepository(db))
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func runTodoContract(t *testing.T, repo repositories.TodoRepository) {
	ctx := context.Background()
	// 実DBで他の実行と混ざらないよう、ユーザーIDは毎回生成します
	owner := "owner-" + uuid.NewString()
	other := "other-" + uuid.NewString()
	base := time.Now().UTC().Truncate(time.Millisecond)

	newTodo := func(title string, offset time.Duration, p models.Priority, completed bool) *models.Todo {
		t.Helper()
		at := base.Add(offset)
		created, err := repo.Create(ctx, &models.Todo{
			UserID:    owner,
			Title:     title,
			Priority:  p,
			Completed: completed,
			CreatedAt: at,
			UpdatedAt: at,
		})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		return created
	}

	first := newTodo("first", 0, models.PriorityLow, false)
	second := newTodo("second", time.Second, models.PriorityHigh, true)
	third := newTodo("third", 2*time.Second, models.PriorityHigh, false)

	t.Run("find by id is scoped to the owner", func(t *testing.T) {
		got, err := repo.FindByID(ctx, second.ID, owner)
		require.NoError(t, err)
		assert.Equal(t, "second", got.Title)
		assert.True(t, got.CreatedAt.Equal(second.CreatedAt))

		_, err = repo.FindByID(ctx, second.ID, other)
		assert.ErrorIs(t, err, repositories.ErrTodoNotFound)

		_, err = repo.FindByID(ctx, "does-not-exist", owner)
		assert.ErrorIs(t, err, repositories.ErrTodoNotFound)
	})

	t.Run("list sorts newest first and paginates", func(t *testing.T) {
		page, err := repo.List(ctx, owner, models.TodoFilter{}, 0, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, third.ID, page[0].ID)
		assert.Equal(t, second.ID, page[1].ID)

		rest, err := repo.List(ctx, owner, models.TodoFilter{}, 2, 2)
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Equal(t, first.ID, rest[0].ID)

		total, err := repo.Count(ctx, owner, models.TodoFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)

		none, err := repo.List(ctx, other, models.TodoFilter{}, 0, 10)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("list filters", func(t *testing.T) {
		open := false
		got, err := repo.List(ctx, owner, models.TodoFilter{Completed: &open, Priority: models.PriorityHigh}, 0, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, third.ID, got[0].ID)

		n, err := repo.Count(ctx, owner, models.TodoFilter{Priority: models.PriorityHigh})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("update applies only the given fields", func(t *testing.T) {
		due := base.Add(48 * time.Hour)
		now := base.Add(time.Minute)
		got, err := repo.Update(ctx, first.ID, owner, models.TodoPatch{
			Completed:   models.Some(true),
			Description: models.Some("details"),
			DueDate:     models.Some(due),
		}, now)
		require.NoError(t, err)
		assert.Equal(t, "first", got.Title)
		assert.True(t, got.Completed)
		assert.Equal(t, "details", got.Description)
		require.NotNil(t, got.DueDate)
		assert.True(t, got.DueDate.Equal(due))
		assert.True(t, got.UpdatedAt.Equal(now))
		assert.True(t, got.CreatedAt.Equal(first.CreatedAt))

		cleared, err := repo.Update(ctx, first.ID, owner, models.TodoPatch{
			Description: models.Null[string](),
			DueDate:     models.Null[time.Time](),
		}, now)
		require.NoError(t, err)
		assert.Empty(t, cleared.Description)
		assert.Nil(t, cleared.DueDate)
		assert.True(t, cleared.Completed)

		_, err = repo.Update(ctx, first.ID, other, models.TodoPatch{Title: models.Some("stolen")}, now)
		assert.ErrorIs(t, err, repositories.ErrTodoNotFound)
	})

	t.Run("delete returns the removed todo", func(t *testing.T) {
		_, err := repo.Delete(ctx, second.ID, other)
		assert.ErrorIs(t, err, repositories.ErrTodoNotFound)

		deleted, err := repo.Delete(ctx, second.ID, owner)
		require.NoError(t, err)
		assert.Equal(t, second.ID, deleted.ID)
		assert.Equal(t, "second", deleted.Title)

		_, err = repo.FindByID(ctx, second.ID, owner)
		assert.ErrorIs(t, err, repositories.ErrTodoNotFound)
		_, err = repo.Delete(ctx, second.ID, owner)
		assert.ErrorIs(t, err, repositories.ErrTodoNotFound)
	})
}
