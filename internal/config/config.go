package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "NOTECARDS"

// Config is the full service configuration.
type Config struct {
	Port   string       `mapstructure:"port"`
	Log    LogConfig    `mapstructure:"log"`
	DB     DBConfig     `mapstructure:"db"`
	Auth   AuthConfig   `mapstructure:"auth"`
	CORS   CORSConfig   `mapstructure:"cors"`
	Local  LocalConfig  `mapstructure:"local"`
	Remote RemoteConfig `mapstructure:"remote"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DBConfig selects the primary postgres store and the SQLite fallback file.
type DBConfig struct {
	DSN  string `mapstructure:"dsn"`
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	CookieSecure  bool          `mapstructure:"cookie_secure"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LocalConfig describes the on-host inference command.
type LocalConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
	QGModel string   `mapstructure:"qg_model"`
	QAModel string   `mapstructure:"qa_model"`
	Device  string   `mapstructure:"device"`
}

// RemoteConfig describes the hosted inference API.
type RemoteConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIToken   string        `mapstructure:"api_token"`
	QGModel    string        `mapstructure:"qg_model"`
	QAModel    string        `mapstructure:"qa_model"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")

	v.SetDefault("db.dsn", "")
	v.SetDefault("db.path", "notecards.db")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.session_ttl", 24*time.Hour)
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("auth.sweep_interval", 10*time.Minute)

	v.SetDefault("cors.allowed_origins", []string{})

	v.SetDefault("local.command", "")
	v.SetDefault("local.args", []string{})
	v.SetDefault("local.qg_model", "valhalla/t5-base-qg-hl")
	v.SetDefault("local.qa_model", "deepset/roberta-base-squad2")
	v.SetDefault("local.device", "cpu")

	v.SetDefault("remote.base_url", "https://api-inference.huggingface.co/models")
	v.SetDefault("remote.api_token", "")
	v.SetDefault("remote.qg_model", "valhalla/t5-base-qg-hl")
	v.SetDefault("remote.qa_model", "deepset/roberta-base-squad2")
	v.SetDefault("remote.timeout", 30*time.Second)
	v.SetDefault("remote.max_retries", 0)
}

// Load reads configs/config.yml (or the file at path) and applies
// NOTECARDS_* environment overrides, e.g. NOTECARDS_DB_DSN for db.dsn.
// A missing default config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
		v.SetConfigType("yml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.DB.DSN = strings.TrimSpace(c.DB.DSN)
	c.Remote.BaseURL = strings.TrimRight(strings.TrimSpace(c.Remote.BaseURL), "/")
	c.Remote.APIToken = strings.TrimSpace(c.Remote.APIToken)

	origins := c.CORS.AllowedOrigins[:0]
	for _, o := range c.CORS.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORS.AllowedOrigins = origins
}
