package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Port              string        `mapstructure:"PORT"`
	GRPCPort          string        `mapstructure:"GRPC_PORT"`
	PostgresUsername  string        `mapstructure:"POSTGRES_USERNAME"`
	PostgresPassword  string        `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDatabase  string        `mapstructure:"POSTGRES_DATABASE"`
	PostgresSSLMode   string        `mapstructure:"POSTGRES_SSLMODE"`
	PostgresHost      string        `mapstructure:"POSTGRES_HOST"`
	PostgresPort      string        `mapstructure:"POSTGRES_PORT"`
	RabbitMQURL       string        `mapstructure:"RABBITMQ_URL"`
	ServiceName       string        `mapstructure:"SERVICE_NAME"`
	LogMode           string        `mapstructure:"LOG_MODE"`
	CommentPageSize   int           `mapstructure:"COMMENT_PAGE_SIZE"`
	ReconcileInterval time.Duration `mapstructure:"RECONCILE_INTERVAL"`
}

// PostgresDSN renders the lib/pq key/value connection string.
func (c *AppConfig) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUsername, c.PostgresPassword, c.PostgresDatabase, c.PostgresSSLMode,
	)
}

func Read() *AppConfig {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	return read(v)
}

func read(v *viper.Viper) *AppConfig {
	v.AutomaticEnv()

	bindEnvVariables(v)
	setDefaults(v)

	var appConfig AppConfig
	err := v.Unmarshal(&appConfig)
	if err != nil {
		panic(fmt.Errorf("fatal error unmarshalling config: %w", err))
	}

	if appConfig.CommentPageSize < 1 {
		appConfig.CommentPageSize = 20
	}

	return &appConfig
}

func bindEnvVariables(v *viper.Viper) {
	_ = v.BindEnv("PORT")
	_ = v.BindEnv("GRPC_PORT")
	_ = v.BindEnv("POSTGRES_USERNAME")
	_ = v.BindEnv("POSTGRES_PASSWORD")
	_ = v.BindEnv("POSTGRES_DATABASE")
	_ = v.BindEnv("POSTGRES_SSLMODE")
	_ = v.BindEnv("POSTGRES_HOST")
	_ = v.BindEnv("POSTGRES_PORT")
	_ = v.BindEnv("RABBITMQ_URL")
	_ = v.BindEnv("SERVICE_NAME")
	_ = v.BindEnv("LOG_MODE")
	_ = v.BindEnv("COMMENT_PAGE_SIZE")
	_ = v.BindEnv("RECONCILE_INTERVAL")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GRPC_PORT", "9090")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("SERVICE_NAME", "comment")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("COMMENT_PAGE_SIZE", 20)
	v.SetDefault("RECONCILE_INTERVAL", "10m")
}
