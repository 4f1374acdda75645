package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP   string // Host IP for the server
	RESTPort int    // Port for the REST API
	GinMode  string // Mode for the Gin framework (e.g., release, debug, test)

	JWTSecret   string        // Secret key for JWT signing
	JWTIssuer   string        // Issuer claim for JWTs
	SessionTTL  time.Duration // Lifetime of a session token
	MaxSessions int           // Upper bound on concurrently open sessions

	RepoBackend string // Episode result store: memory, sqlite or mongo
	SQLitePath  string // File used by the sqlite backend
	DBHost      string // Hostname or IP address for MongoDB
	DBPort      int    // Port number for MongoDB
	DBUser      string // Username for MongoDB
	DBPassword  string // Password for MongoDB
	DBName      string // Name of the MongoDB database

	RedisAddr    string        // Redis address; empty keeps generated mazes in process memory
	RedisPass    string        // Redis password
	MazeCacheTTL time.Duration // Lifetime of a cached maze

	MazeWidth            int     // Default maze width
	MazeHeight           int     // Default maze height
	ExtraPassageFraction float64 // Default share of breakable walls removed
	MinSpawnSeparation   int     // Manhattan distance between spawned actors

	NormalSpeed              float64
	AggressiveSpeed          float64
	NormalReplanInterval     time.Duration
	AggressiveReplanInterval time.Duration
	DangerRadius             float64
	TurnAngleThreshold       float64
	TurnDetectionMinDistance float64
	TurnSuppressDelay        time.Duration
	TurnDotThreshold         float64
	RearDotThreshold         float64
	CloseDistance            float64
	SlowDuration             time.Duration
	SlowScale                float64
	CatchRadius              float64
	ArrivalTolerance         float64
	SnapTolerance            float64

	Timestep     time.Duration // Fixed simulation step
	MaxEpisode   time.Duration // Episode timeout
	TargetSpeed  float64       // Scripted evader speed
	WanderChange time.Duration // Scripted evader heading re-roll period
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		HostIP:   getEnvWithDefault("HOST_IP", "0.0.0.0"),
		RESTPort: getEnvAsIntWithDefault("REST_PORT", 8080),
		GinMode:  getEnvWithDefault("GIN_MODE", "release"),

		JWTSecret:   mustGetEnv("JWT_SECRET"),
		JWTIssuer:   getEnvWithDefault("JWT_ISSUER", "vinom-chase"),
		SessionTTL:  getEnvAsDurationWithDefault("SESSION_TTL", 2*time.Hour),
		MaxSessions: getEnvAsIntWithDefault("MAX_SESSIONS", 256),

		RepoBackend: getEnvWithDefault("REPO_BACKEND", "memory"),
		SQLitePath:  getEnvWithDefault("SQLITE_PATH", "episodes.db"),
		DBHost:      getEnvWithDefault("DB_HOST", "localhost"),
		DBPort:      getEnvAsIntWithDefault("DB_PORT", 27017),
		DBUser:      getEnvWithDefault("DB_USER", ""),
		DBPassword:  getEnvWithDefault("DB_PASS", ""),
		DBName:      getEnvWithDefault("DB_NAME", "vinom_chase"),

		RedisAddr:    getEnvWithDefault("REDIS_ADDR", ""),
		RedisPass:    getEnvWithDefault("REDIS_PASS", ""),
		MazeCacheTTL: getEnvAsDurationWithDefault("MAZE_CACHE_TTL", 24*time.Hour),

		MazeWidth:            getEnvAsIntWithDefault("MAZE_WIDTH", 21),
		MazeHeight:           getEnvAsIntWithDefault("MAZE_HEIGHT", 21),
		ExtraPassageFraction: getEnvAsFloatWithDefault("EXTRA_PASSAGE_FRACTION", 0.2),
		MinSpawnSeparation:   getEnvAsIntWithDefault("MIN_SPAWN_SEPARATION", 15),

		NormalSpeed:              getEnvAsFloatWithDefault("NORMAL_SPEED", 4.6),
		AggressiveSpeed:          getEnvAsFloatWithDefault("AGGRESSIVE_SPEED", 5.5),
		NormalReplanInterval:     getEnvAsDurationWithDefault("NORMAL_REPLAN_INTERVAL", 500*time.Millisecond),
		AggressiveReplanInterval: getEnvAsDurationWithDefault("AGGRESSIVE_REPLAN_INTERVAL", 200*time.Millisecond),
		DangerRadius:             getEnvAsFloatWithDefault("DANGER_RADIUS", 5),
		TurnAngleThreshold:       getEnvAsFloatWithDefault("TURN_ANGLE_THRESHOLD", 40),
		TurnDetectionMinDistance: getEnvAsFloatWithDefault("TURN_DETECTION_MIN_DISTANCE", 0.3),
		TurnSuppressDelay:        getEnvAsDurationWithDefault("TURN_SUPPRESS_DELAY", 300*time.Millisecond),
		TurnDotThreshold:         getEnvAsFloatWithDefault("TURN_DOT_THRESHOLD", 0.75),
		RearDotThreshold:         getEnvAsFloatWithDefault("REAR_DOT_THRESHOLD", 0.6),
		CloseDistance:            getEnvAsFloatWithDefault("CLOSE_DISTANCE", 2),
		SlowDuration:             getEnvAsDurationWithDefault("SLOW_DURATION", 2*time.Second),
		SlowScale:                getEnvAsFloatWithDefault("SLOW_SCALE", 0.1),
		CatchRadius:              getEnvAsFloatWithDefault("CATCH_RADIUS", 0.5),
		ArrivalTolerance:         getEnvAsFloatWithDefault("ARRIVAL_TOLERANCE", 0.1),
		SnapTolerance:            getEnvAsFloatWithDefault("SNAP_TOLERANCE", 0.01),

		Timestep:     getEnvAsDurationWithDefault("TIMESTEP", 20*time.Millisecond),
		MaxEpisode:   getEnvAsDurationWithDefault("MAX_EPISODE", 30*time.Second),
		TargetSpeed:  getEnvAsFloatWithDefault("TARGET_SPEED", 3),
		WanderChange: getEnvAsDurationWithDefault("WANDER_CHANGE", 4*time.Second),
	}
}

// mustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("[APP] [FATAL] Environment variable %s is not set", key)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault parses an integer variable, logging a fatal error when it is malformed.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

func getEnvAsFloatWithDefault(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be a number: %v", key, err)
	}
	return value
}

// getEnvAsDurationWithDefault accepts Go duration strings such as "500ms".
func getEnvAsDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be a duration: %v", key, err)
	}
	return value
}
