package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	StorageDriver   string
	LocalCachePath  string
	HTTPPort        string
	OperatorWorkers int
	LogLevel        string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
}

// ProcessEnvironmentVariables builds the config from the environment. A .env file in
// the working directory is loaded first when present; real environment variables win.
func ProcessEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",
		StorageDriver:    StorageDriverPostgres,
		LocalCachePath:   "budget-sync.db",
		HTTPPort:         "9446",
		OperatorWorkers:  1,
		LogLevel:         "info",
		OpenAIModel:      "gpt-4o-mini",
	}

	overrides := map[string]*string{
		"POSTGRES_ADDRESS":  &env.PostgresAddress,
		"POSTGRES_PORT":     &env.PostgresPort,
		"POSTGRES_DB":       &env.PostgresDB,
		"POSTGRES_USERNAME": &env.PostgresUsername,
		"POSTGRES_PASSWORD": &env.PostgresPassword,
		"STORAGE_DRIVER":    &env.StorageDriver,
		"LOCAL_CACHE_PATH":  &env.LocalCachePath,
		"HTTP_PORT":         &env.HTTPPort,
		"LOG_LEVEL":         &env.LogLevel,
		"OPENAI_API_KEY":    &env.OpenAIAPIKey,
		"OPENAI_BASE_URL":   &env.OpenAIBaseURL,
		"OPENAI_MODEL":      &env.OpenAIModel,
	}
	for key, target := range overrides {
		if value := os.Getenv(key); len(value) != 0 {
			*target = value
		}
	}

	if workers := os.Getenv("OPERATOR_WORKERS"); len(workers) != 0 {
		n, err := strconv.Atoi(workers)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("OPERATOR_WORKERS must be a positive integer, got %q", workers)
		}
		env.OperatorWorkers = n
	}

	switch env.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", env.StorageDriver)
	}

	return &env, nil
}

// PostgresDSN returns the connection string for the remote store.
func (c *Config) PostgresDSN() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}
