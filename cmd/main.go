package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
	_ "modernc.org/sqlite"

	"taskr/internal/api"
	"taskr/internal/config"
	"taskr/internal/repository"
	"taskr/internal/service"
	"taskr/internal/session"
	"taskr/migrations"
)

func connectDB(driver, dsn string) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open(driver, dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to %s database %s", driver, dsn)
				return db, nil
			}
		}
		log.Printf("Retry %d: failed to connect to %s database %s: %v", i+1, driver, dsn, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to %s database %s after retries: %v", driver, dsn, err)
}

func setupSQLite(db *sql.DB) error {
	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return err
		}
	}

	// SQLite benefits from a single writer connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return nil
}

func main() {
	cfg, err := config.Load(os.Getenv("TASKR_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := connectDB(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		panic(err)
	}

	if cfg.Database.Driver == "sqlite" {
		if err := setupSQLite(db); err != nil {
			log.Fatalf("Failed to configure sqlite: %v", err)
		}
	}

	if err := migrations.AutoMigrateUsers(cfg.Database.Driver, 3, db); err != nil {
		log.Fatalf("Failed to migrate users table: %v", err)
	}
	if err := migrations.AutoMigrateTasks(cfg.Database.Driver, 3, db); err != nil {
		log.Fatalf("Failed to migrate tasks table: %v", err)
	}

	var tokens session.TokenStore
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		tokens = session.NewRedisTokenStore(rdb)
	}
	sessions := session.NewManager([]byte(cfg.SecretKey), 24*time.Hour, tokens)

	kafkaWriter := config.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	authService := service.NewAuthService(userRepo, service.BcryptVerifier{})
	taskService := service.NewTaskService(taskRepo, kafkaWriter)
	handler := api.NewHandler(authService, taskService, sessions)

	e := echo.New()
	e.Renderer = api.NewRenderer()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(10),
				Burst:     30,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	handler.Routes(e)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "taskr",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	e.Logger.Fatal(e.Start(cfg.Addr))
}
