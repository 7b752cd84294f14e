package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server        Server        `yaml:"server"`
	Postgres      Postgres      `yaml:"postgres"`
	Redis         Redis         `yaml:"redis"`
	Auth          Auth          `yaml:"auth"`
	Idempotency   Idempotency   `yaml:"idempotency"`
	Notifications Notifications `yaml:"notifications"`
	Log           Log           `yaml:"log"`
	Trace         Trace         `yaml:"trace"`
}

type Server struct {
	Address string `yaml:"address"`
}

type Postgres struct {
	DSN string `yaml:"dsn"`
}

// Redis необязателен: без адреса ключи идемпотентности хранятся в памяти
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Auth struct {
	JWTSecret string        `yaml:"jwtSecret"`
	TokenTTL  time.Duration `yaml:"tokenTTL"`
}

type Idempotency struct {
	TTL time.Duration `yaml:"ttl"`
}

// Лимит опроса ленты уведомлений на пользователя
type Notifications struct {
	PollRate  float64 `yaml:"pollRate"`
	PollBurst int     `yaml:"pollBurst"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

type Trace struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"serviceName"`
}

func Default() Config {
	return Config{
		Server:        Server{Address: "0.0.0.0:8080"},
		Auth:          Auth{TokenTTL: 24 * time.Hour},
		Idempotency:   Idempotency{TTL: 24 * time.Hour},
		Notifications: Notifications{PollRate: 1, PollBurst: 5},
		Log:           Log{Level: "info", Format: "text"},
		Trace:         Trace{ServiceName: "procurement-api"},
	}
}

// Load: значения по умолчанию, затем YAML-файл (если указан), затем переменные окружения.
// .env в текущей директории подхватывается, если он есть.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Postgres.DSN, "POSTGRES_CONN")
	setString(&cfg.Server.Address, "SERVER_ADDRESS")
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	setString(&cfg.Trace.Endpoint, "TRACE_ENDPOINT")
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = d
		}
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.Postgres.DSN == "" {
		errs = append(errs, errors.New("postgres dsn is not set (POSTGRES_CONN)"))
	}
	if len(c.Auth.JWTSecret) < 16 {
		errs = append(errs, errors.New("jwt secret must be at least 16 characters (JWT_SECRET)"))
	}
	if c.Notifications.PollRate <= 0 || c.Notifications.PollBurst <= 0 {
		errs = append(errs, errors.New("notifications poll rate and burst must be positive"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// NewLogger строит slog-логгер по секции log
func NewLogger(c Log) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
