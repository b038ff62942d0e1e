package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"todo-api/internal/models"
)

const todoCollection = "todos"

// todoDocument は todos コレクションのドキュメントです。
type todoDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"userId"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Priority    string             `bson:"priority,omitempty"`
	DueDate     *time.Time         `bson:"dueDate,omitempty"`
	Completed   bool               `bson:"completed"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func newTodoDocument(t *models.Todo) todoDocument {
	return todoDocument{
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d todoDocument) toModel() *models.Todo {
	return &models.Todo{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		Priority:    models.Priority(d.Priority),
		DueDate:     d.DueDate,
		Completed:   d.Completed,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoTodoRepository はMongoDBに保存するTodoRepositoryです。
type MongoTodoRepository struct {
	coll *mongo.Collection
}

// NewMongoTodoRepository は新しいMongoTodoRepositoryを作成します。
func NewMongoTodoRepository(db *mongo.Database) *MongoTodoRepository {
	return &MongoTodoRepository{coll: db.Collection(todoCollection)}
}

// EnsureIndexes は一覧取得用のインデックスを作成します。
func (r *MongoTodoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("could not create todo indexes: %w", err)
	}
	return nil
}

// Create は新しいTodoを挿入し、採番された ID をセットして返します。
func (r *MongoTodoRepository) Create(ctx context.Context, t *models.Todo) (*models.Todo, error) {
	doc := newTodoDocument(t)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		log.Printf("Failed to insert todo: %v", err)
		return nil, fmt.Errorf("could not insert todo: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toModel(), nil
}

// FindByID は所有者が userID であるTodoを取得します。
func (r *MongoTodoRepository) FindByID(ctx context.Context, id, userID string) (*models.Todo, error) {
	filter, ok := ownedFilter(id, userID)
	if !ok {
		return nil, ErrTodoNotFound
	}
	var doc todoDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTodoNotFound
		}
		log.Printf("Failed to query todo by ID: %v", err)
		return nil, fmt.Errorf("could not query todo: %w", err)
	}
	return doc.toModel(), nil
}

// List は作成日時の新しい順にTodoを返します。
func (r *MongoTodoRepository) List(ctx context.Context, userID string, filter models.TodoFilter, skip, limit int) ([]*models.Todo, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, listFilter(userID, filter), opts)
	if err != nil {
		log.Printf("Failed to query todos: %v", err)
		return nil, fmt.Errorf("could not query todos: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []todoDocument
	if err := cursor.All(ctx, &docs); err != nil {
		log.Printf("Failed to decode todos: %v", err)
		return nil, fmt.Errorf("could not decode todos: %w", err)
	}

	todos := make([]*models.Todo, 0, len(docs))
	for _, d := range docs {
		todos = append(todos, d.toModel())
	}
	return todos, nil
}

// Count は List と同じ条件に一致するTodoの件数を返します。
func (r *MongoTodoRepository) Count(ctx context.Context, userID string, filter models.TodoFilter) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, listFilter(userID, filter))
	if err != nil {
		log.Printf("Failed to count todos: %v", err)
		return 0, fmt.Errorf("could not count todos: %w", err)
	}
	return n, nil
}

// Update はパッチを1回の findOneAndUpdate で適用し、更新後のTodoを返します。
func (r *MongoTodoRepository) Update(ctx context.Context, id, userID string, patch models.TodoPatch, now time.Time) (*models.Todo, error) {
	filter, ok := ownedFilter(id, userID)
	if !ok {
		return nil, ErrTodoNotFound
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc todoDocument
	err := r.coll.FindOneAndUpdate(ctx, filter, updateDocument(patch, now), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTodoNotFound
		}
		log.Printf("Failed to update todo: %v", err)
		return nil, fmt.Errorf("could not update todo: %w", err)
	}
	return doc.toModel(), nil
}

// Delete は findOneAndDelete で削除し、削除前のTodoを返します。
func (r *MongoTodoRepository) Delete(ctx context.Context, id, userID string) (*models.Todo, error) {
	filter, ok := ownedFilter(id, userID)
	if !ok {
		return nil, ErrTodoNotFound
	}
	var doc todoDocument
	if err := r.coll.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTodoNotFound
		}
		log.Printf("Failed to delete todo: %v", err)
		return nil, fmt.Errorf("could not delete todo: %w", err)
	}
	return doc.toModel(), nil
}

// ownedFilter は id が ObjectID として不正な場合 false を返します。
func ownedFilter(id, userID string) (bson.D, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	return bson.D{{Key: "_id", Value: oid}, {Key: "userId", Value: userID}}, true
}

func listFilter(userID string, filter models.TodoFilter) bson.D {
	f := bson.D{{Key: "userId", Value: userID}}
	if filter.Completed != nil {
		f = append(f, bson.E{Key: "completed", Value: *filter.Completed})
	}
	if filter.Priority != "" {
		f = append(f, bson.E{Key: "priority", Value: string(filter.Priority)})
	}
	return f
}

// updateDocument はパッチから $set / $unset を組み立てます。null は $unset になります。
func updateDocument(patch models.TodoPatch, now time.Time) bson.D {
	set := bson.D{}
	unset := bson.D{}

	if patch.Title.Set && !patch.Title.Null {
		set = append(set, bson.E{Key: "title", Value: patch.Title.Value})
	}
	if patch.Description.Set {
		if patch.Description.Null {
			unset = append(unset, bson.E{Key: "description", Value: ""})
		} else {
			set = append(set, bson.E{Key: "description", Value: patch.Description.Value})
		}
	}
	if patch.Completed.Set && !patch.Completed.Null {
		set = append(set, bson.E{Key: "completed", Value: patch.Completed.Value})
	}
	if patch.Priority.Set {
		if patch.Priority.Null || patch.Priority.Value == "" {
			unset = append(unset, bson.E{Key: "priority", Value: ""})
		} else {
			set = append(set, bson.E{Key: "priority", Value: string(patch.Priority.Value)})
		}
	}
	if patch.DueDate.Set {
		if patch.DueDate.Null {
			unset = append(unset, bson.E{Key: "dueDate", Value: ""})
		} else {
			set = append(set, bson.E{Key: "dueDate", Value: patch.DueDate.Value})
		}
	}
	set = append(set, bson.E{Key: "updatedAt", Value: now})

	update := bson.D{{Key: "$set", Value: set}}
	if len(unset) > 0 {
		update = append(update, bson.E{Key: "$unset", Value: unset})
	}
	return update
}
