package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/vinom-chase/api"
	api_i "github.com/beka-birhanu/vinom-chase/api/i"
	"github.com/beka-birhanu/vinom-chase/api/mazeapi"
	"github.com/beka-birhanu/vinom-chase/api/sessionapi"
	"github.com/beka-birhanu/vinom-chase/config"
	"github.com/beka-birhanu/vinom-chase/game"
	logger "github.com/beka-birhanu/vinom-chase/infrastruture/log"
	"github.com/beka-birhanu/vinom-chase/infrastruture/mazecache"
	"github.com/beka-birhanu/vinom-chase/infrastruture/repo"
	"github.com/beka-birhanu/vinom-chase/infrastruture/token"
	"github.com/beka-birhanu/vinom-chase/maze"
	"github.com/beka-birhanu/vinom-chase/service"
	"github.com/beka-birhanu/vinom-chase/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	mongoClient       *mongo.Client
	redisClient       *redis.Client
	episodeRepo       i.EpisodeRepo
	mazeCache         i.MazeCache
	mazeProvider      *service.MazeProvider
	episodeManager    *service.EpisodeManager
	jwtTokenizer      i.Tokenizer
	mazeController    api_i.Controller
	sessionController api_i.Controller
	router            *api.Router
	appLogger         i.Logger
)

func newLogger(name, color string) i.Logger {
	l, err := logger.New(name, color, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating %s logger: %v", name, err))
		os.Exit(1)
	}
	return l
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initEpisodeRepo(ctx context.Context) {
	if config.Envs.RepoBackend == "mongo" {
		initMongo(ctx)
	}

	var err error
	episodeRepo, err = repo.NewEpisodeRepo(ctx, repo.Config{
		Backend:     config.Envs.RepoBackend,
		SQLitePath:  config.Envs.SQLitePath,
		MongoClient: mongoClient,
		DBName:      config.Envs.DBName,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating episode repository: %v", err))
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("Episode repository initialized (%s)", config.Envs.RepoBackend))
}

func initMazeCache(ctx context.Context) {
	if config.Envs.RedisAddr == "" {
		mazeCache = mazecache.NewMemoryMazeCache(config.Envs.MazeCacheTTL)
		appLogger.Info("In-memory maze cache initialized")
		return
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPass,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}

	var err error
	mazeCache, err = mazecache.NewRedisMazeCache(redisClient, config.Envs.MazeCacheTTL)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating redis maze cache: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Redis maze cache initialized")
}

func initMazeProvider() {
	mazeProvider = service.NewMazeProvider(&service.MazeProviderConfig{
		Cache:  mazeCache,
		Logger: newLogger("MAZE-PROVIDER", config.ColorBlue),
	})
	appLogger.Info("Maze provider initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func defaultMaze() maze.Config {
	return maze.Config{
		Width:                config.Envs.MazeWidth,
		Height:               config.Envs.MazeHeight,
		Seed:                 maze.SeedForMap(0),
		ExtraPassageFraction: config.Envs.ExtraPassageFraction,
	}
}

func episodeConfig() game.EpisodeConfig {
	return game.EpisodeConfig{
		Pursuer: game.PursuerConfig{
			NormalSpeed:              config.Envs.NormalSpeed,
			AggressiveSpeed:          config.Envs.AggressiveSpeed,
			NormalReplanInterval:     config.Envs.NormalReplanInterval,
			AggressiveReplanInterval: config.Envs.AggressiveReplanInterval,
			DangerRadius:             config.Envs.DangerRadius,
			TurnAngleThreshold:       config.Envs.TurnAngleThreshold,
			TurnDetectionMinDistance: config.Envs.TurnDetectionMinDistance,
			TurnSuppressDelay:        config.Envs.TurnSuppressDelay,
			TurnDotThreshold:         config.Envs.TurnDotThreshold,
			RearDotThreshold:         config.Envs.RearDotThreshold,
			CloseDistance:            config.Envs.CloseDistance,
			SlowDuration:             config.Envs.SlowDuration,
			SlowScale:                config.Envs.SlowScale,
			CatchRadius:              config.Envs.CatchRadius,
			ArrivalTolerance:         config.Envs.ArrivalTolerance,
			SnapTolerance:            config.Envs.SnapTolerance,
		},
		Timestep:      config.Envs.Timestep,
		MaxDuration:   config.Envs.MaxEpisode,
		TargetSpeed:   config.Envs.TargetSpeed,
		MinSeparation: config.Envs.MinSpawnSeparation,
		WanderChange:  config.Envs.WanderChange,
	}
}

func initEpisodeManager() {
	var err error
	episodeManager, err = service.NewEpisodeManager(&service.Config{
		Mazes:       mazeProvider,
		Repo:        episodeRepo,
		Tokenizer:   jwtTokenizer,
		Logger:      newLogger("EPISODE-MANAGER", config.ColorCyan),
		Episode:     episodeConfig(),
		Maze:        defaultMaze(),
		TokenTTL:    config.Envs.SessionTTL,
		MaxSessions: config.Envs.MaxSessions,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating episode manager: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Episode manager initialized")
}

func initControllers() {
	mazeController = mazeapi.NewMazeController(mazeProvider, defaultMaze(), config.Envs.MinSpawnSeparation)
	sessionController = sessionapi.NewSessionController(episodeManager, newLogger("SESSION-API", config.ColorMagenta))
	appLogger.Info("Controllers initialized")
}

func initRouter(t i.Tokenizer) {
	gin.SetMode(config.Envs.GinMode)
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{mazeController, sessionController},
		AuthorizationMiddleware: api.Authoriz(t),
	})
	appLogger.Info("Router initialized")
}

// shutdownOnSignal stops every session and releases the stores on SIGINT or SIGTERM.
func shutdownOnSignal() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signals
		appLogger.Info(fmt.Sprintf("Received %s, shutting down", sig))
		cleanup()
		os.Exit(0)
	}()
}

func cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if episodeManager != nil {
		episodeManager.StopAll()
	}
	if episodeRepo != nil {
		if err := episodeRepo.Close(ctx); err != nil {
			appLogger.Warning(fmt.Sprintf("Closing episode repository: %v", err))
		}
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// Initialize dependencies
	appLogger = newLogger("APP", config.ColorGreen)

	initEpisodeRepo(ctx)
	initMazeCache(ctx)
	initMazeProvider()
	initJWTTokenizer()
	initEpisodeManager()
	initControllers()
	initRouter(jwtTokenizer)
	shutdownOnSignal()

	// Run HTTP server
	if err := router.Run(); err != nil {
		appLogger.Error(fmt.Sprintf("Starting server: %v", err))
		cleanup()
		os.Exit(1)
	}
}
