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

const userCollection = "users"

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

func (d userDocument) toModel() *models.User {
	return &models.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}

// MongoUserRepository はMongoDBに保存するUserRepositoryです。
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository は新しいMongoUserRepositoryを作成します。
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(userCollection)}
}

// EnsureIndexes は email のユニークインデックスを作成します。
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("could not create user indexes: %w", err)
	}
	return nil
}

// Create は新しいユーザーを挿入します。
func (r *MongoUserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	doc := userDocument{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		log.Printf("Failed to insert user: %v", err)
		return nil, fmt.Errorf("could not insert user: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toModel(), nil
}

// FindByEmail はメールアドレスでユーザーを検索します。
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		log.Printf("Failed to query user by email: %v", err)
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	return doc.toModel(), nil
}
