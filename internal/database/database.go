package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// ConnectMongo はMongoDBに接続し、Pingで疎通を確認します。
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	log.Println("Attempting to connect to MongoDB...")
	log.Println("MongoDB URI:", MaskURI(uri))

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("could not connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("could not ping mongodb: %w", err)
	}
	log.Println("Successfully connected to MongoDB!")
	return client, nil
}

// InitMySQL はMySQLへの接続を初期化し、必要なテーブルを作成します。
func InitMySQL(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open mysql connection: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not ping mysql: %w", err)
	}
	if err := MigrateMySQL(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	log.Println("Successfully connected to MySQL database!")
	return db, nil
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at DATETIME(6) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS todos (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		title VARCHAR(255) NOT NULL,
		description TEXT NULL,
		priority VARCHAR(16) NULL,
		due_date DATETIME(6) NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		INDEX idx_todos_user_created (user_id, created_at)
	)`,
}

// MigrateMySQL は users / todos テーブルが無ければ作成します。
func MigrateMySQL(ctx context.Context, db *sql.DB) error {
	for _, stmt := range mysqlSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not apply mysql schema: %w", err)
		}
	}
	return nil
}
