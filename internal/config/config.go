// Package config は環境変数からアプリケーション設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo = "mongo"
	DriverMySQL = "mysql"
)

// Config はアプリケーション全体の設定です。
type Config struct {
	Port    string
	GinMode string

	DBDriver string

	MongoURI      string
	MongoDatabase string

	MySQL MySQLConfig

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins []string
}

// MySQLConfig はMySQL接続に必要な値です。
type MySQLConfig struct {
	User string
	Pass string
	Host string
	Port string
	Name string
}

// DSN は go-sql-driver/mysql 形式の接続文字列を返します。
// clientFoundRows を付けて、値が変わらない UPDATE でも一致行数を返させます。
func (m MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC&clientFoundRows=true", m.User, m.Pass, m.Host, m.Port, m.Name)
}

var (
	ErrMissingMongoURI  = errors.New("MONGODB_URI is not defined in environment variables")
	ErrMissingJWTSecret = errors.New("JWT_SECRET environment variable not set")
)

// Load は .env (存在すれば) と環境変数から Config を作成します。
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
	return FromEnv()
}

// FromEnv は現在の環境変数だけから Config を作成します。
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "3000"),
		GinMode:       os.Getenv("GIN_MODE"),
		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", DriverMongo)),
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "todo_app"),
		MySQL: MySQLConfig{
			User: os.Getenv("DB_USER"),
			Pass: os.Getenv("DB_PASS"),
			Host: getEnv("DB_HOST", "127.0.0.1"),
			Port: getEnv("DB_PORT", "3306"),
			Name: os.Getenv("DB_NAME"),
		},
		JWTSecret:   os.Getenv("JWT_SECRET"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.JWTTTL = ttl

	switch cfg.DBDriver {
	case DriverMongo:
		if cfg.MongoURI == "" {
			return nil, ErrMissingMongoURI
		}
	case DriverMySQL:
		if cfg.MySQL.User == "" || cfg.MySQL.Name == "" {
			return nil, errors.New("DB_USER and DB_NAME are required for the mysql driver")
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
