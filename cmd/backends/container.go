// cmd/backends/container.go
//
// Composition root for the backends process. Owns infrastructure (scheduler,
// optional DB and Redis) and registers everything it acquires in the shared
// ResourceSet so teardown runs in reverse-acquisition order.
package main

import (
	"context"
	"time"

	"github.com/Abraxas-365/ensamble/pkg/catalog"
	"github.com/Abraxas-365/ensamble/pkg/catalog/cataloginfra"
	"github.com/Abraxas-365/ensamble/pkg/config"
	"github.com/Abraxas-365/ensamble/pkg/lifex"
	"github.com/Abraxas-365/ensamble/pkg/logx"
	"github.com/Abraxas-365/ensamble/pkg/schedx"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Container holds shared infrastructure and the backend ports.
type Container struct {
	Config *config.Config

	Scheduler *schedx.Scheduler
	DB        *sqlx.DB
	Redis     *redis.Client

	Recommendations catalog.RecommendationSource
	Metadata        catalog.MetadataRepository
	Ratings         catalog.RatingStore
	Users           catalog.UserRepository
}

// NewContainer wires infrastructure per config, pushing every acquired
// resource onto resources.
func NewContainer(cfg *config.Config, resources *lifex.ResourceSet) *Container {
	logx.Info("Initializing backends container...")

	c := &Container{Config: cfg}

	c.Scheduler = schedx.New(cfg.Backends.SchedulerWorkers)
	resources.Push("scheduler", c.Scheduler)

	c.initUserStorage(resources)
	c.initRatingStorage(resources)

	c.Recommendations = cataloginfra.NewMemoryRecommendationSource(3)
	c.Metadata = cataloginfra.NewMemoryMetadataRepository()

	logx.Info("Backends container initialized")
	return c
}

func (c *Container) initUserStorage(resources *lifex.ResourceSet) {
	switch c.Config.Backends.UserStorage {
	case "postgres":
		db, err := sqlx.Connect("postgres", c.Config.Database.DSN())
		if err != nil {
			logx.Fatalf("Failed to connect to database: %v", err)
		}
		db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
		db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
		db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
		c.DB = db
		resources.Push("postgres", db)
		c.Users = cataloginfra.NewPostgresUserRepository(db)
		logx.Info("User storage: postgres")

	case "memory":
		c.Users = cataloginfra.NewMemoryUserRepository()
		logx.Info("User storage: memory")

	default:
		logx.Fatalf("Unknown USER_STORAGE: %s (use 'memory' or 'postgres')", c.Config.Backends.UserStorage)
	}
}

func (c *Container) initRatingStorage(resources *lifex.ResourceSet) {
	switch c.Config.Backends.RatingStorage {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     c.Config.Redis.Address(),
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := client.Ping(ctx).Result(); err != nil {
			logx.Fatalf("Failed to connect to Redis: %v", err)
		}
		c.Redis = client
		resources.Push("redis", client)
		c.Ratings = cataloginfra.NewRedisRatingStore(client, 24*time.Hour)
		logx.Info("Rating storage: redis")

	case "memory":
		c.Ratings = cataloginfra.NewMemoryRatingStore()
		logx.Info("Rating storage: memory")

	default:
		logx.Fatalf("Unknown RATING_STORAGE: %s (use 'memory' or 'redis')", c.Config.Backends.RatingStorage)
	}
}
