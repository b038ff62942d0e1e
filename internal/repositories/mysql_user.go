package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"todo-api/internal/models"
)

// MySQLUserRepository はMySQLに保存するUserRepositoryです。
type MySQLUserRepository struct {
	DB *sql.DB
}

// NewMySQLUserRepository は新しいMySQLUserRepositoryインスタンスを作成します。
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{DB: db}
}

// Create は新しいユーザーをデータベースに挿入します。
func (r *MySQLUserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	query := "INSERT INTO users (username, email, password_hash, created_at) VALUES (?, ?, ?, ?)"
	result, err := r.DB.ExecContext(ctx, query, u.Username, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		// MySQLの重複エントリーエラーコード1062をチェック
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return nil, ErrDuplicateEmail
		}
		log.Printf("Failed to insert user: %v", err)
		return nil, fmt.Errorf("could not insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	created := *u
	created.ID = strconv.FormatInt(id, 10)
	return &created, nil
}

// FindByEmail はメールアドレスでユーザーを検索します。
func (r *MySQLUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := "SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?"
	var (
		u  models.User
		id int64
	)
	err := r.DB.QueryRowContext(ctx, query, email).Scan(&id, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		log.Printf("Failed to query user by email: %v", err)
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	u.ID = strconv.FormatInt(id, 10)
	return &u, nil
}
