package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, "users", cfg.TableName)
	assert.Empty(t, cfg.UserPoolID)
}

func TestParseEnv_Overlay(t *testing.T) {
	t.Setenv("ADDRESS", ":9090")
	t.Setenv("STORAGE_DRIVER", DriverDynamo)
	t.Setenv("TABLE_NAME", "users-prod")
	t.Setenv("USER_POOL_ID", "eu-west-1_abc123")
	t.Setenv("BUCKET_NAME", "prod-uploads")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, DriverDynamo, cfg.StorageDriver)
	assert.Equal(t, "users-prod", cfg.TableName)
	assert.Equal(t, "eu-west-1_abc123", cfg.UserPoolID)
	assert.Equal(t, "prod-uploads", cfg.S3Bucket)

	// Unset variables keep their defaults.
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
}

func TestParseEnv_EmptyValueIgnored(t *testing.T) {
	t.Setenv("ADDRESS", "")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":8080", cfg.Addr)
}
