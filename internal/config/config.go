package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"        validate:"required"`
	Database      DatabaseConfig      `mapstructure:"database"      validate:"required"`
	Auth          AuthConfig          `mapstructure:"auth"          validate:"required"`
	AWS           AWSConfig           `mapstructure:"aws"           validate:"required"`
	Dynamo        DynamoConfig        `mapstructure:"dynamo"        validate:"required"`
	Storage       StorageConfig       `mapstructure:"storage"       validate:"required"`
	Notifications NotificationsConfig `mapstructure:"notifications" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains the authoritative relational store settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains the settings for verifying the identity provider's
// bearer tokens. The provider is trusted to issue a stable `sub` claim;
// this service only verifies and extracts it.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// AWSConfig contains the shared AWS client settings. Endpoint is only
// set when pointing the SDK at a local stack.
type AWSConfig struct {
	Region   string `mapstructure:"region" validate:"required"`
	Endpoint string `mapstructure:"endpoint"`
}

// DynamoConfig names the document-store tables mirroring the relational rows.
type DynamoConfig struct {
	UsersTable string `mapstructure:"users_table" validate:"required"`
	TasksTable string `mapstructure:"tasks_table" validate:"required"`
}

// StorageConfig contains the object-store settings for task attachments.
type StorageConfig struct {
	Bucket string `mapstructure:"bucket" validate:"required"`
}

// NotificationsConfig contains the outbound notification settings.
// StrictRecipientCheck controls whether an unverified recipient fails the
// dispatch outright instead of only logging a sandbox-mode warning.
type NotificationsConfig struct {
	QueueURL             string `mapstructure:"queue_url"    validate:"required"`
	SenderEmail          string `mapstructure:"sender_email" validate:"required,email"`
	StrictRecipientCheck bool   `mapstructure:"strict_recipient_check"`
}
