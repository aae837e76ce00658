package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		// Per-operation deadline for OTP and blacklist calls. Operations
		// fail closed when the deadline passes.
		OpTimeoutSeconds int `yaml:"op_timeout_seconds"`
	} `yaml:"redis"`

	JWT struct {
		AccessSecret  string `yaml:"access_secret"`
		RefreshSecret string `yaml:"refresh_secret"`
		ResetSecret   string `yaml:"reset_secret"`
		AccessTTLMin  int    `yaml:"access_ttl_minutes"`
		RefreshTTLDay int    `yaml:"refresh_ttl_days"`
		ResetTTLMin   int    `yaml:"reset_ttl_minutes"`
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	SMS struct {
		// "log" writes messages to the application log (development),
		// "gateway" posts them to GatewayURL.
		Provider   string `yaml:"provider"`
		GatewayURL string `yaml:"gateway_url"`
		APIKey     string `yaml:"api_key"`
		SenderID   string `yaml:"sender_id"`
	} `yaml:"sms"`

	FrontendURL string `yaml:"frontend_url"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

var AppConfig *Config

// LoadConfig reads config.yaml unless DATABASE_URL is set, in which case the
// whole configuration comes from environment variables (test/CI mode).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.JWT.AccessSecret = os.Getenv("JWT_ACCESS_SECRET")
	cfg.JWT.RefreshSecret = os.Getenv("JWT_REFRESH_SECRET")
	cfg.JWT.ResetSecret = os.Getenv("JWT_RESET_SECRET")
	cfg.FrontendURL = os.Getenv("FRONTEND_URL")

	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "test@safespace.in"
	cfg.Email.FromName = "SafeSpace"
	cfg.SMS.Provider = "log"

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.JWT.AccessTTLMin == 0 {
		cfg.JWT.AccessTTLMin = 15
	}
	if cfg.JWT.RefreshTTLDay == 0 {
		cfg.JWT.RefreshTTLDay = 7
	}
	if cfg.JWT.ResetTTLMin == 0 {
		cfg.JWT.ResetTTLMin = 60
	}
	if cfg.Redis.OpTimeoutSeconds == 0 {
		cfg.Redis.OpTimeoutSeconds = 10
	}
	if cfg.SMS.Provider == "" {
		cfg.SMS.Provider = "log"
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

// IsProduction controls Secure cookie flags among other things.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTTLMin) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTTLDay) * 24 * time.Hour
}

func (c *Config) ResetTokenTTL() time.Duration {
	return time.Duration(c.JWT.ResetTTLMin) * time.Minute
}

func (c *Config) RedisOpTimeout() time.Duration {
	return time.Duration(c.Redis.OpTimeoutSeconds) * time.Second
}
