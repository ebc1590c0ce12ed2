package config

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
	BackendS3       = "s3"
)

// StateConfig holds settings for the instance-state bag
type StateConfig struct {
	Backend string

	// In-memory bag
	LRUSize int

	// DynamoDB bag
	TableName      string
	DynamoEndpoint string

	// S3 bag
	BucketName string
	KeyPrefix  string
}

const (
	defaultStateLRUSize   = 64
	defaultStateTableName = "webdemo-instance-state"
	defaultStateKeyPrefix = "instance-state/"
)

func DefaultStateConfig() *StateConfig {
	return &StateConfig{
		Backend:   BackendMemory,
		LRUSize:   defaultStateLRUSize,
		TableName: defaultStateTableName,
		KeyPrefix: defaultStateKeyPrefix,
	}
}

// GetStateConfig returns the state configuration from environment variables or defaults
func GetStateConfig() *StateConfig {
	config := &StateConfig{
		Backend:        getEnvOrDefault("STATE_BACKEND", BackendMemory),
		LRUSize:        getEnvInt("STATE_LRU_SIZE", defaultStateLRUSize),
		TableName:      getEnvOrDefault("STATE_TABLE", defaultStateTableName),
		DynamoEndpoint: os.Getenv("DYNAMODB_ENDPOINT"),
		BucketName:     os.Getenv("STATE_BUCKET"),
		KeyPrefix:      getEnvOrDefault("STATE_KEY_PREFIX", defaultStateKeyPrefix),
	}

	log.Debug().
		Str("Backend", config.Backend).
		Int("LRUSize", config.LRUSize).
		Str("TableName", config.TableName).
		Str("DynamoEndpoint", config.DynamoEndpoint).
		Str("BucketName", config.BucketName).
		Str("KeyPrefix", config.KeyPrefix).
		Msg("State configuration loaded")

	return config
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}
