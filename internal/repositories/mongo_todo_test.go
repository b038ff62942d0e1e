package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"todo-api/internal/models"
)

func TestOwnedFilter(t *testing.T) {
	oid := primitive.NewObjectID()

	filter, ok := ownedFilter(oid.Hex(), "u1")
	require.True(t, ok)
	assert.Equal(t, bson.D{{Key: "_id", Value: oid}, {Key: "userId", Value: "u1"}}, filter)

	_, ok = ownedFilter("not-an-object-id", "u1")
	assert.False(t, ok)
}

func TestListFilter(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "userId", Value: "u1"}}, listFilter("u1", models.TodoFilter{}))

	completed := false
	got := listFilter("u1", models.TodoFilter{Completed: &completed, Priority: models.PriorityLow})
	assert.Equal(t, bson.D{
		{Key: "userId", Value: "u1"},
		{Key: "completed", Value: false},
		{Key: "priority", Value: "low"},
	}, got)
}

func TestUpdateDocument(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("only updatedAt for an empty patch", func(t *testing.T) {
		got := updateDocument(models.TodoPatch{}, now)
		assert.Equal(t, bson.D{{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now}}}}, got)
	})

	t.Run("set and unset", func(t *testing.T) {
		patch := models.TodoPatch{
			Title:       models.Some("New title"),
			Completed:   models.Some(true),
			Description: models.Null[string](),
			Priority:    models.Some(models.PriorityHigh),
			DueDate:     models.Null[time.Time](),
		}
		got := updateDocument(patch, now)
		assert.Equal(t, bson.D{
			{Key: "$set", Value: bson.D{
				{Key: "title", Value: "New title"},
				{Key: "completed", Value: true},
				{Key: "priority", Value: "high"},
				{Key: "updatedAt", Value: now},
			}},
			{Key: "$unset", Value: bson.D{
				{Key: "description", Value: ""},
				{Key: "dueDate", Value: ""},
			}},
		}, got)
	})
}

func TestTodoDocument_RoundTrip(t *testing.T) {
	due := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	todo := &models.Todo{
		UserID:    "u1",
		Title:     "Buy milk",
		Priority:  models.PriorityMedium,
		DueDate:   &due,
		CreatedAt: due,
		UpdatedAt: due,
	}
	doc := newTodoDocument(todo)
	doc.ID = primitive.NewObjectID()

	got := doc.toModel()
	assert.Equal(t, doc.ID.Hex(), got.ID)
	todo.ID = got.ID
	assert.Equal(t, todo, got)
}
