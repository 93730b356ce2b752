// Package config provides the structures and loader for the service
// configuration, read from a YAML file pointed to by CONFIG_PATH with
// environment variable overrides.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration of the service.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	AMQPAddress             string `yaml:"amqp_address" env:"AMQP_ADDRESS"` // empty disables billing events
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Session                 `yaml:"session"`
	Admin                   `yaml:"admin"`
	Billing                 `yaml:"billing"`
}

// HTTPServer holds the listener settings.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection holds the session/cache store settings.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env-default:"localhost:6379"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken configures the admin console tokens.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"12h"`
}

// Session configures creator session tokens held in Redis.
type Session struct {
	SessionTTL time.Duration `yaml:"session_ttl" env-default:"720h"`
}

// Admin holds the back-office credential pair.
type Admin struct {
	AdminUsername string `yaml:"admin_username" env:"ADMIN_USERNAME" env-default:"admin"`
	AdminPassword string `yaml:"admin_password" env:"ADMIN_PASSWORD"`
}

// Billing holds the monetization knobs. ChargeSuccessRate only applies to
// the simulated payment provider used when no Stripe key is configured.
type Billing struct {
	MonthlyPrice      float64 `yaml:"monthly_price" env-default:"15"`
	TrialDays         int     `yaml:"trial_days" env-default:"14"`
	PromoTrialDays    int     `yaml:"promo_trial_days" env-default:"30"`
	ChargeSuccessRate float64 `yaml:"charge_success_rate" env-default:"0.85"`
	StripeSecretKey   string  `yaml:"stripe_secret_key" env:"STRIPE_SECRET_KEY"`
}

// MustLoad loads the configuration from CONFIG_PATH and exits the process
// on any error.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
