package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML layout accepted by ApplyFile. Zero values leave the
// current setting untouched.
type fileConfig struct {
	Environment string        `yaml:"environment" validate:"omitempty,oneof=local development test production"`
	LogLevel    string        `yaml:"logLevel" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	HTTPTimeout time.Duration `yaml:"httpTimeout" validate:"gte=0"`
	Locale      string        `yaml:"locale" validate:"omitempty,bcp47_language_tag"`
	State       fileState     `yaml:"state"`
	Server      fileServer    `yaml:"server"`
}

type fileState struct {
	Backend        string `yaml:"backend" validate:"omitempty,oneof=memory dynamodb s3"`
	LRUSize        int    `yaml:"lruSize" validate:"gte=0"`
	TableName      string `yaml:"table" validate:"required_if=Backend dynamodb"`
	DynamoEndpoint string `yaml:"dynamodbEndpoint" validate:"omitempty,url"`
	BucketName     string `yaml:"bucket" validate:"required_if=Backend s3"`
	KeyPrefix      string `yaml:"keyPrefix"`
}

// fileServer uses pointers so an explicit zero can be told apart from an
// absent key. saveInterval: 0 disables the checkpoint.
type fileServer struct {
	ListenAddr     string         `yaml:"listenAddr"`
	LoadRatePerSec *float64       `yaml:"loadRatePerSec" validate:"omitempty,gt=0"`
	LoadBurst      *int64         `yaml:"loadBurst" validate:"omitempty,gte=1"`
	SaveInterval   *time.Duration `yaml:"saveInterval" validate:"omitempty,gte=0"`
	AllowedOrigins []string       `yaml:"allowedOrigins" validate:"omitempty,dive,required"`
}

// ApplyFile overlays the YAML configuration at path onto c.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if err := validator.New().Struct(fc); err != nil {
		return fmt.Errorf("validating config file: %w", err)
	}

	c.merge(fc)
	return nil
}

func (c *Config) merge(fc fileConfig) {
	if fc.Environment != "" {
		c.Environment = fc.Environment
	}
	if fc.LogLevel != "" {
		if level, err := zerolog.ParseLevel(fc.LogLevel); err == nil {
			c.LogLevel = level
		}
	}
	if fc.HTTPTimeout > 0 {
		c.HTTPTimeout = fc.HTTPTimeout
	}
	if fc.Locale != "" {
		c.Locale = fc.Locale
	}

	if c.State == nil {
		c.State = DefaultStateConfig()
	}
	if fc.State.Backend != "" {
		c.State.Backend = fc.State.Backend
	}
	if fc.State.LRUSize > 0 {
		c.State.LRUSize = fc.State.LRUSize
	}
	if fc.State.TableName != "" {
		c.State.TableName = fc.State.TableName
	}
	if fc.State.DynamoEndpoint != "" {
		c.State.DynamoEndpoint = fc.State.DynamoEndpoint
	}
	if fc.State.BucketName != "" {
		c.State.BucketName = fc.State.BucketName
	}
	if fc.State.KeyPrefix != "" {
		c.State.KeyPrefix = fc.State.KeyPrefix
	}

	if fc.Server.ListenAddr != "" {
		c.Server.ListenAddr = fc.Server.ListenAddr
	}
	if fc.Server.LoadRatePerSec != nil {
		c.Server.LoadRatePerSec = *fc.Server.LoadRatePerSec
	}
	if fc.Server.LoadBurst != nil {
		c.Server.LoadBurst = *fc.Server.LoadBurst
	}
	if fc.Server.SaveInterval != nil {
		c.Server.SaveInterval = *fc.Server.SaveInterval
	}
	if len(fc.Server.AllowedOrigins) > 0 {
		c.Server.AllowedOrigins = fc.Server.AllowedOrigins
	}
}
