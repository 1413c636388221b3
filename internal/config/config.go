// backend-go/internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Cache      CacheConfig
	Archive    ArchiveConfig
	Simulation SimulationConfig
	Importer   ImporterConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	ResultTTLSeconds int
}

type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// SimulationConfig carries the tunable defaults of the simulation core.
// The probability thresholds and carrying rate are convention, exposed
// here rather than hardcoded.
type SimulationConfig struct {
	NumSimulations       int
	NumDays              int
	Percentiles          []int
	Workers              int
	CarryingRate         float64
	OverstockMultiplier  float64
	UnderstockMultiplier float64
	ServiceLevelFloor    float64
	OptimizerStep        float64
	OptimizerMaxSteps    int
}

type ImporterConfig struct {
	CredentialsJSON string
	FolderID        string
	PollSeconds     int
	DataDir         string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 120)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "stockrisk")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_RESULT_TTL_SECONDS", 300)
		viper.SetDefault("ARCHIVE_ENABLED", false)
		viper.SetDefault("ARCHIVE_ENDPOINT", "")
		viper.SetDefault("ARCHIVE_ACCESS_KEY", "")
		viper.SetDefault("ARCHIVE_SECRET_KEY", "")
		viper.SetDefault("ARCHIVE_BUCKET", "stockrisk-results")
		viper.SetDefault("ARCHIVE_REGION", "us-east-1")
		viper.SetDefault("ARCHIVE_USE_SSL", true)
		viper.SetDefault("SIM_NUM_SIMULATIONS", 100)
		viper.SetDefault("SIM_NUM_DAYS", 365)
		viper.SetDefault("SIM_PERCENTILES", []int{10, 25, 50, 75, 90})
		viper.SetDefault("SIM_WORKERS", 4)
		viper.SetDefault("SIM_CARRYING_RATE", 0.20)
		viper.SetDefault("SIM_OVERSTOCK_MULTIPLIER", 1.5)
		viper.SetDefault("SIM_UNDERSTOCK_MULTIPLIER", 0.5)
		viper.SetDefault("SIM_SERVICE_LEVEL_FLOOR", 5.0)
		viper.SetDefault("SIM_OPTIMIZER_STEP_FRACTION", 0.1)
		viper.SetDefault("SIM_OPTIMIZER_MAX_STEPS", 50)
		viper.SetDefault("IMPORTER_CREDENTIALS_JSON", "")
		viper.SetDefault("IMPORTER_FOLDER_ID", "")
		viper.SetDefault("IMPORTER_POLL_SECONDS", 300)
		viper.SetDefault("IMPORTER_DATA_DIR", "./data/imports")

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:          viper.GetBool("CACHE_ENABLED"),
				RedisURL:         viper.GetString("REDIS_URL"),
				RedisHost:        viper.GetString("REDIS_HOST"),
				RedisPort:        viper.GetString("REDIS_PORT"),
				RedisPassword:    viper.GetString("REDIS_PASSWORD"),
				RedisDB:          viper.GetInt("REDIS_DB"),
				ResultTTLSeconds: viper.GetInt("CACHE_RESULT_TTL_SECONDS"),
			},
			Archive: ArchiveConfig{
				Enabled:   viper.GetBool("ARCHIVE_ENABLED"),
				Endpoint:  viper.GetString("ARCHIVE_ENDPOINT"),
				AccessKey: viper.GetString("ARCHIVE_ACCESS_KEY"),
				SecretKey: viper.GetString("ARCHIVE_SECRET_KEY"),
				Bucket:    viper.GetString("ARCHIVE_BUCKET"),
				Region:    viper.GetString("ARCHIVE_REGION"),
				UseSSL:    viper.GetBool("ARCHIVE_USE_SSL"),
			},
			Simulation: SimulationConfig{
				NumSimulations:       viper.GetInt("SIM_NUM_SIMULATIONS"),
				NumDays:              viper.GetInt("SIM_NUM_DAYS"),
				Percentiles:          viper.GetIntSlice("SIM_PERCENTILES"),
				Workers:              viper.GetInt("SIM_WORKERS"),
				CarryingRate:         viper.GetFloat64("SIM_CARRYING_RATE"),
				OverstockMultiplier:  viper.GetFloat64("SIM_OVERSTOCK_MULTIPLIER"),
				UnderstockMultiplier: viper.GetFloat64("SIM_UNDERSTOCK_MULTIPLIER"),
				ServiceLevelFloor:    viper.GetFloat64("SIM_SERVICE_LEVEL_FLOOR"),
				OptimizerStep:        viper.GetFloat64("SIM_OPTIMIZER_STEP_FRACTION"),
				OptimizerMaxSteps:    viper.GetInt("SIM_OPTIMIZER_MAX_STEPS"),
			},
			Importer: ImporterConfig{
				CredentialsJSON: viper.GetString("IMPORTER_CREDENTIALS_JSON"),
				FolderID:        viper.GetString("IMPORTER_FOLDER_ID"),
				PollSeconds:     viper.GetInt("IMPORTER_POLL_SECONDS"),
				DataDir:         viper.GetString("IMPORTER_DATA_DIR"),
			},
		}
	})

	return instance
}
