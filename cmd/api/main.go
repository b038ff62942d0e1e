package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"todo-api/internal/config"
	"todo-api/internal/database"
	"todo-api/internal/repositories"
	"todo-api/internal/routes"
	"todo-api/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatalWithHints("Failed to load configuration", err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		fatalWithHints("Error connecting to the database", err)
	}
	defer closeStore()

	deps.JWTService = services.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	deps.CORSOrigins = cfg.CORSOrigins

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
}

// openStore は DB_DRIVER に応じてストアに接続し、リポジトリを組み立てます。
func openStore(ctx context.Context, cfg *config.Config) (routes.Dependencies, func(), error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		db, err := database.InitMySQL(ctx, cfg.MySQL.DSN())
		if err != nil {
			return routes.Dependencies{}, nil, err
		}
		deps := routes.Dependencies{
			TodoRepo: repositories.NewMySQLTodoRepository(db),
			UserRepo: repositories.NewMySQLUserRepository(db),
			Ping:     db.PingContext,
		}
		return deps, func() { db.Close() }, nil

	default:
		client, err := database.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return routes.Dependencies{}, nil, err
		}
		log.Printf("MongoDB Connected: %s", database.HostOf(cfg.MongoURI))
		log.Printf("Database: %s", cfg.MongoDatabase)

		db := client.Database(cfg.MongoDatabase)
		todoRepo := repositories.NewMongoTodoRepository(db)
		userRepo := repositories.NewMongoUserRepository(db)
		if err := todoRepo.EnsureIndexes(ctx); err != nil {
			log.Printf("Warning: %v", err)
		}
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			log.Printf("Warning: %v", err)
		}

		deps := routes.Dependencies{
			TodoRepo: todoRepo,
			UserRepo: userRepo,
			Ping: func(ctx context.Context) error {
				return client.Ping(ctx, nil)
			},
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Printf("MongoDB disconnect failed: %v", err)
			}
		}
		return deps, closeFn, nil
	}
}

func fatalWithHints(msg string, err error) {
	log.Printf("%s: %v", msg, err)
	for _, hint := range database.Diagnose(err) {
		log.Printf("Solution: %s", hint)
	}
	os.Exit(1)
}
