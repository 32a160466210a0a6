package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseURL         string
	RedisURL            string
	NATSURL             string
	JWTSecret           string
	InviteSecret        string
	InviteTTL           time.Duration
	InviteIssuer        string
	InviteAudience      string
	NotificationChannel string
	StreamKeepAlive     time.Duration
	OpenAIAPIKey        string
	AIModel             string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PRAXIS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Praxis API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("invite.ttl", "24h")
	v.SetDefault("invite.issuer", "praxis-api")
	v.SetDefault("invite.audience", "praxis.team-invite")
	v.SetDefault("notification.channel", "praxis.notifications")
	v.SetDefault("stream.keepalive", "25s")
	v.SetDefault("ai.model", "gpt-4o-mini")

	inviteTTL, err := time.ParseDuration(v.GetString("invite.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid invite ttl: %w", err)
	}

	keepAlive, err := time.ParseDuration(v.GetString("stream.keepalive"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid stream keepalive: %w", err)
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		NATSURL:             v.GetString("nats.url"),
		JWTSecret:           v.GetString("jwt.secret"),
		InviteSecret:        v.GetString("invite.secret"),
		InviteTTL:           inviteTTL,
		InviteIssuer:        v.GetString("invite.issuer"),
		InviteAudience:      v.GetString("invite.audience"),
		NotificationChannel: v.GetString("notification.channel"),
		StreamKeepAlive:     keepAlive,
		OpenAIAPIKey:        v.GetString("openai_api_key"),
		AIModel:             v.GetString("ai.model"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.InviteSecret == "" {
		cfg.InviteSecret = cfg.JWTSecret
	}

	return cfg, nil
}
