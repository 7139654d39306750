package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// win over the file. Variable names follow the deployment environment of the
// original service (TABLE_NAME, USER_POOL_ID, BUCKET_NAME).
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setIfPresent := func(dst *string, name string) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}

	setIfPresent(&config.Addr, "ADDRESS")
	setIfPresent(&config.StorageDriver, "STORAGE_DRIVER")
	setIfPresent(&config.DatabaseDSN, "DATABASE_DSN")
	setIfPresent(&config.TableName, "TABLE_NAME")
	setIfPresent(&config.UserPoolID, "USER_POOL_ID")
	setIfPresent(&config.S3Bucket, "BUCKET_NAME")
	setIfPresent(&config.AWSRegion, "AWS_REGION")
	setIfPresent(&config.AWSBaseEndpoint, "AWS_BASE_ENDPOINT")
	setIfPresent(&config.AWSAccessKey, "AWS_ACCESS_KEY")
	setIfPresent(&config.AWSSecretKey, "AWS_SECRET_KEY")
}
