package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"convention-quiz/internal/domain"
	"convention-quiz/internal/round"
)

// EnvPrefix namespaces environment overrides: QUIZ_SERVER_PORT, QUIZ_AUTH_PASSCODE and so on.
const EnvPrefix = "QUIZ"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Branding BrandingConfig `mapstructure:"branding"`
	Quiz     QuizConfig     `mapstructure:"quiz"`
	Rounds   []RoundSource  `mapstructure:"rounds"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`

	// Dir is the directory of the config file that was read. Round files resolve against it.
	Dir string `mapstructure:"-"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
	File   string `mapstructure:"file"`   // optional rotating file sink
}

type AuthConfig struct {
	Passcode string `mapstructure:"passcode"`
}

type BrandingConfig struct {
	ConventionName string `mapstructure:"convention_name"`
}

type QuizConfig struct {
	TimerSeconds int           `mapstructure:"timer_seconds"`
	Celebration  time.Duration `mapstructure:"celebration"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	Keys         round.KeyMap  `mapstructure:"keys"`
}

// RoundSource points at the files one round is loaded from.
type RoundSource struct {
	ID           string           `mapstructure:"id"`
	Kind         domain.RoundKind `mapstructure:"kind"`
	Title        string           `mapstructure:"title"`
	Questions    string           `mapstructure:"questions"`
	Instructions string           `mapstructure:"instructions"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

// Load reads the YAML config at path and applies QUIZ_* environment overrides.
// An empty path searches ./config and the working directory for config.yaml;
// a missing file there is not an error and leaves the defaults in place.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if used := v.ConfigFileUsed(); used != "" {
		cfg.Dir = filepath.Dir(used)
	}
	cfg.Quiz.Keys = cfg.Quiz.Keys.WithDefaults()
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("auth.passcode", "Peniel2025")
	v.SetDefault("branding.convention_name", "Peniel Convention")
	v.SetDefault("quiz.timer_seconds", round.DefaultTimerSeconds)
	v.SetDefault("quiz.celebration", round.DefaultCelebrationWindow)
	v.SetDefault("quiz.cache_ttl", "5m")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "5m")
	v.SetDefault("postgres.url", "")
}

// Resolve returns p relative to the config directory unless it is absolute.
func (c Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}
