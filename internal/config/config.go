// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Engine   EngineConfig
}

type AppConfig struct {
	LogLevel string
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
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	AccuracyTTLSeconds int
}

// EngineConfig carries the forecast-model parameters and the fallback
// planning day counts. The day counts apply only when the intelligence
// settings row leaves a value unset (zero); a populated row always wins.
type EngineConfig struct {
	CriticalDays           int
	WarningDays            int
	PlannedDays            int
	DefaultSafetyStockDays int
	RateWindowDays         int
	TrendLookbackMonths    int
	BacktestDays           int
	MinSeasonalityYears    int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("APP_LOG_LEVEL", "info")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "autoreplenish")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_ACCURACY_TTL_SECONDS", 3600)
		viper.SetDefault("ENGINE_CRITICAL_DAYS", 7)
		viper.SetDefault("ENGINE_WARNING_DAYS", 14)
		viper.SetDefault("ENGINE_PLANNED_DAYS", 30)
		viper.SetDefault("ENGINE_DEFAULT_SAFETY_STOCK_DAYS", 7)
		viper.SetDefault("ENGINE_RATE_WINDOW_DAYS", 30)
		viper.SetDefault("ENGINE_TREND_LOOKBACK_MONTHS", 6)
		viper.SetDefault("ENGINE_BACKTEST_DAYS", 30)
		viper.SetDefault("ENGINE_MIN_SEASONALITY_YEARS", 1)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			App: AppConfig{
				LogLevel: viper.GetString("APP_LOG_LEVEL"),
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
				Enabled:            viper.GetBool("CACHE_ENABLED"),
				RedisURL:           viper.GetString("REDIS_URL"),
				RedisHost:          viper.GetString("REDIS_HOST"),
				RedisPort:          viper.GetString("REDIS_PORT"),
				RedisPassword:      viper.GetString("REDIS_PASSWORD"),
				RedisDB:            viper.GetInt("REDIS_DB"),
				AccuracyTTLSeconds: viper.GetInt("CACHE_ACCURACY_TTL_SECONDS"),
			},
			Engine: EngineConfig{
				CriticalDays:           viper.GetInt("ENGINE_CRITICAL_DAYS"),
				WarningDays:            viper.GetInt("ENGINE_WARNING_DAYS"),
				PlannedDays:            viper.GetInt("ENGINE_PLANNED_DAYS"),
				DefaultSafetyStockDays: viper.GetInt("ENGINE_DEFAULT_SAFETY_STOCK_DAYS"),
				RateWindowDays:         viper.GetInt("ENGINE_RATE_WINDOW_DAYS"),
				TrendLookbackMonths:    viper.GetInt("ENGINE_TREND_LOOKBACK_MONTHS"),
				BacktestDays:           viper.GetInt("ENGINE_BACKTEST_DAYS"),
				MinSeasonalityYears:    viper.GetInt("ENGINE_MIN_SEASONALITY_YEARS"),
			},
		}
	})

	return instance
}
