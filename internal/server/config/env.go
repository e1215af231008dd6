package config

import "os"

// Environment variables that override file values. Secrets are expected
// here rather than on the command line.
const (
	EnvSecretKey      = "GOPHGATE_SECRET_KEY"
	EnvDatabaseDSN    = "GOPHGATE_DATABASE_DSN"
	EnvAdminPassword  = "GOPHGATE_ADMIN_PASSWORD"
	EnvS3RootPassword = "GOPHGATE_S3_ROOT_PASSWORD"
)

func parseEnv(config *Config) {
	setString(&config.SecretKey, os.Getenv(EnvSecretKey))
	setString(&config.DatabaseDSN, os.Getenv(EnvDatabaseDSN))
	setString(&config.AdminPassword, os.Getenv(EnvAdminPassword))
	setString(&config.S3RootPassword, os.Getenv(EnvS3RootPassword))
}
