package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"zillow-parser-service/internal/constants"

	"github.com/joho/godotenv"
)

// Режимы обработки уже существующего выходного файла
const (
	OverwritePrompt = "prompt"
	OverwriteAlways = "always"
	OverwriteNever  = "never"
)

// ZillowConfig хранит параметры обращения к поисковому API
type ZillowConfig struct {
	SearchURL      string
	SearchTerm     string
	RequestTimeout time.Duration
}

// OutputConfig хранит путь к CSV и политику перезаписи
type OutputConfig struct {
	Path          string
	OverwriteMode string
}

// DBconfig хранит конфигурацию для БД
type DBconfig struct {
	Enabled bool
	URL     string
}

// RabbitMQConfig хранит конфигурацию для RabbitMQ
type RabbitMQConfig struct {
	Enabled bool
	URL     string
}

type StdoutLogConfig struct {
	Level  string
	IsJSON bool
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Zillow       ZillowConfig
	Search       SearchConfig
	Output       OutputConfig
	Database     DBconfig
	RabbitMQ     RabbitMQConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig загружает конфигурацию из переменных окружения (и .env, если он есть),
// а фильтры поиска - из файла SEARCH_CONFIG_PATH.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		// для CLI .env не обязателен, все можно задать окружением
		log.Printf("Info: Could not load .env file (path: %v): %v. Using process environment.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "zillow-parser-service")

	cfg.Zillow.SearchURL = getEnvAsString("ZILLOW_SEARCH_URL", constants.SearchPageStateURL)
	cfg.Zillow.SearchTerm = getEnvAsString("SEARCH_TERM", constants.DefaultSearchTerm)
	cfg.Zillow.RequestTimeout = time.Duration(getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 60)) * time.Second

	cfg.Output.Path = getEnvAsString("OUTPUT_PATH", "data.csv")
	cfg.Output.OverwriteMode = strings.ToLower(getEnvAsString("OUTPUT_OVERWRITE", OverwritePrompt))
	switch cfg.Output.OverwriteMode {
	case OverwritePrompt, OverwriteAlways, OverwriteNever:
	default:
		return nil, fmt.Errorf("OUTPUT_OVERWRITE must be one of %q, %q, %q, got %q",
			OverwritePrompt, OverwriteAlways, OverwriteNever, cfg.Output.OverwriteMode)
	}

	cfg.Database.Enabled = getEnvAsBool("POSTGRES_ENABLED", false)
	if cfg.Database.Enabled {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
		if cfg.Database.URL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required when POSTGRES_ENABLED is true")
		}
	}

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when RABBITMQ_ENABLED is true")
		}
	}

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "info")
	cfg.StdoutLogger.IsJSON = getEnvAsBool("STDOUT_LOG_JSON", false)

	searchCfg, err := LoadSearchConfig(getEnvAsString("SEARCH_CONFIG_PATH", "config.json"))
	if err != nil {
		return nil, fmt.Errorf("error loading search configuration: %w", err)
	}
	cfg.Search = *searchCfg

	return cfg, nil
}

// getEnvAsString читает переменную окружения как строку или возвращает значение по умолчанию
func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
// Логирует ошибку, если переменная есть, но не может быть преобразована в int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
