package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string `toml:"env"`

	Database  DatabaseConfigs  `toml:"database"`
	ApiServer APIServerConfigs `toml:"api_server"`
	Auth      AuthConfigs      `toml:"auth"`
	Redis     RedisConfigs     `toml:"redis"`
	Kafka     KafkaConfigs     `toml:"kafka"`
	Reward    RewardConfigs    `toml:"reward"`
	Review    ReviewConfigs    `toml:"review"`
	Log       LogConfigs       `toml:"log"`
}

// Duration wraps time.Duration so it can be written as "5s" in the config file.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

type DatabaseConfigs struct {
	// Type is one of sqlite, mysql or postgres.
	Type     string `toml:"type"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	LogLevel string `toml:"log_level"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	switch d.Type {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User,
			d.Password,
			d.Host,
			d.Port,
			d.Database,
		)
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			d.Host,
			d.Port,
			d.User,
			d.Password,
			d.Database,
		)
	default:
		return d.Database
	}
}

type ServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
	Cert string `toml:"cert"`
	Key  string `toml:"key"`
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type APIServerConfigs struct {
	ServerConfigs

	MaxLimit       int      `toml:"max_limit"`
	DefaultLimit   int      `toml:"default_limit"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type AuthConfigs struct {
	TokenSecret string       `toml:"token_secret"`
	AccessToken TokenConfigs `toml:"access_token"`
}

type TokenConfigs struct {
	Name       string   `toml:"name"`
	Expiration Duration `toml:"expiration"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type KafkaConfigs struct {
	Addr       string `toml:"addr"`
	ClientID   string `toml:"client_id"`
	EventTopic string `toml:"event_topic"`
}

type RewardConfigs struct {
	// RequireBudget makes points issuance fail when neither the challenge nor
	// the workspace has a points budget.
	RequireBudget bool `toml:"require_budget"`

	DefaultProvider string `toml:"default_provider"`

	// Providers maps a provider name to the base urls of its API. The
	// optional bearer token of a provider is read from ProviderTokens.
	Providers       map[string][]string `toml:"providers"`
	ProviderTokens  map[string]string   `toml:"provider_tokens"`
	ProviderTimeout Duration            `toml:"provider_timeout"`
	WebhookSecret   string              `toml:"webhook_secret"`
	LockTTL         Duration            `toml:"lock_ttl"`
}

// LockMargin is the time an issuance keeps its lock on top of the provider
// call, covering the database round-trips around it.
const LockMargin = 5 * time.Second

// Validate rejects an issuance lock that could expire while its holder is
// still waiting for the provider.
func (r RewardConfigs) Validate() error {
	if r.ProviderTimeout.Duration <= 0 {
		return fmt.Errorf("reward.provider_timeout must be positive, got %s", r.ProviderTimeout)
	}

	if r.LockTTL.Duration < r.ProviderTimeout.Duration+LockMargin {
		return fmt.Errorf("reward.lock_ttl (%s) must be at least reward.provider_timeout (%s) plus %s",
			r.LockTTL, r.ProviderTimeout, LockMargin)
	}

	return nil
}

type ReviewConfigs struct {
	MaxNotesLength int `toml:"max_notes_length"`
}

type LogConfigs struct {
	Level string `toml:"level"`
}

// Load reads the toml file at path, then applies the secrets found in the
// environment.
func Load(path string) (*Configs, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("cannot decode config file %s: %w", path, err)
		}
	}

	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}

	if v := os.Getenv("TOKEN_SECRET"); v != "" {
		cfg.Auth.TokenSecret = v
	}

	if v := os.Getenv("REWARD_WEBHOOK_SECRET"); v != "" {
		cfg.Reward.WebhookSecret = v
	}

	if err := cfg.Reward.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Default() *Configs {
	return &Configs{
		Env: "local",
		Database: DatabaseConfigs{
			Type:     "sqlite",
			Database: "challenge.db",
			LogLevel: "warn",
		},
		ApiServer: APIServerConfigs{
			ServerConfigs: ServerConfigs{Port: "8080"},
			MaxLimit:      50,
			DefaultLimit:  10,
		},
		Auth: AuthConfigs{
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Expiration: Duration{time.Hour},
			},
		},
		Kafka: KafkaConfigs{
			ClientID:   "challenge",
			EventTopic: "challenge.events",
		},
		Reward: RewardConfigs{
			ProviderTimeout: Duration{10 * time.Second},
			LockTTL:         Duration{30 * time.Second},
		},
		Review: ReviewConfigs{
			MaxNotesLength: 2000,
		},
		Log: LogConfigs{
			Level: "info",
		},
	}
}
