package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"triviabattle/internal/cache"
	"triviabattle/internal/config"
	"triviabattle/internal/events"
	"triviabattle/internal/repository"
)

// App holds the opened infrastructure and the stores built on it
type App struct {
	Mongo    *mongo.Client
	Redis    *redis.Client
	Postgres *sql.DB

	QuestionRepo repository.QuestionRepo
	ProfileRepo  repository.ProfileRepo
	MatchRepo    repository.MatchRepo
	AnswerRepo   repository.AnswerRepository
	AttackRepo   repository.AttackRepo

	RoomCache   cache.RoomCache
	ResultCache cache.ResultCache
	Leaderboard cache.LeaderboardCache

	Publisher events.Publisher
}

// Open connects to every backing store named in cfg. Postgres is only
// opened for the postgres profile backend and NATS only when a URL is set.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	a.Mongo = mongoClient

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.Println("[App] Connected to MongoDB")
	db := mongoClient.Database(cfg.MongoDB)

	a.Redis = redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if _, err := a.Redis.Ping(ctx).Result(); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	log.Println("[App] Connected to Redis")

	switch cfg.ProfileBackend {
	case config.BackendPostgres:
		pg, err := repository.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.Postgres = pg
		if err := repository.InitProfileSchema(ctx, pg); err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.ProfileRepo = repository.NewPGProfileRepo(pg)
	case config.BackendMongo:
		if err := repository.EnsureProfileIndexes(ctx, db); err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("failed to create profile indexes: %w", err)
		}
		a.ProfileRepo = repository.NewProfileRepo(db)
	default:
		a.Close(ctx)
		return nil, fmt.Errorf("unknown profile backend %q", cfg.ProfileBackend)
	}
	log.Printf("[App] Profile backend: %s", cfg.ProfileBackend)

	a.QuestionRepo = repository.NewQuestionRepo(db)
	a.MatchRepo = repository.NewMatchRepo(db)
	a.AnswerRepo = repository.NewAnswerRepository(db)
	a.AttackRepo = repository.NewAttackRepo(db)

	a.RoomCache = cache.NewRoomCache(a.Redis)
	a.ResultCache = cache.NewResultCache(a.Redis)
	a.Leaderboard = cache.NewLeaderboardCache(a.Redis)

	if cfg.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.Publisher = pub
		log.Println("[App] Publishing match events to NATS")
	} else {
		a.Publisher = events.NewNopPublisher()
	}

	return a, nil
}

// Close releases every opened connection
func (a *App) Close(ctx context.Context) {
	if a.Publisher != nil {
		a.Publisher.Close()
	}
	if a.Postgres != nil {
		a.Postgres.Close()
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.Mongo != nil {
		a.Mongo.Disconnect(ctx)
	}
}
