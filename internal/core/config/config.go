package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host              string
	Port              int
	ReadTimeoutSec    int
	WriteTimeoutSec   int
	IdleTimeoutSec    int
	RequestTimeoutSec int
	MaxBodyBytes      int64
	MaxConcurrent     int64
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int // 0 = 不过期
}

type Token struct {
	ActivationBytes int
}

type Security struct {
	BcryptCost int
}

type Mail struct {
	Driver             string // smtp | log
	Host               string
	Port               int
	Username           string
	Password           string
	From               string
	InsecureSkipVerify bool
	ActivationURL      string // 含一个 %s 占位符
}

type I18n struct {
	DefaultLocale string
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Cache struct {
	UserTTLSec int
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Config struct {
	App      App
	Log      Log
	JWT      JWT
	Token    Token
	Security Security
	Mail     Mail
	I18n     I18n
	DB       DB
	Redis    Redis `mapstructure:"redis"`
	Cache    Cache
}

func (j JWT) TTL() time.Duration { return time.Duration(j.AccessTokenTTLMin) * time.Minute }

func (c Cache) UserTTL() time.Duration { return time.Duration(c.UserTTLSec) * time.Second }

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "identity-service")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 3000)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 10)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.http.requestTimeoutSec", 10)
	v.SetDefault("app.http.maxBodyBytes", 1<<20)
	v.SetDefault("app.http.maxConcurrent", 300)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.issuer", "identity-service")
	v.SetDefault("token.activationBytes", 8)
	v.SetDefault("mail.driver", "log")
	v.SetDefault("mail.from", "My App <info@my-app.com>")
	v.SetDefault("mail.activationURL", "http://localhost:8080/#/login?token=%s")
	v.SetDefault("i18n.defaultLocale", "en")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:identity.db")
	v.SetDefault("db.autoMigrate", true)
	v.SetDefault("db.logLevel", "warn")
	v.SetDefault("cache.userTTLSec", 60)
}

// Load 读取 YAML，APP_ 前缀环境变量覆盖（a.b → APP_A_B）
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return fmt.Errorf("config: jwt.secret is required")
	}
	if c.Token.ActivationBytes <= 0 {
		return fmt.Errorf("config: token.activationBytes must be positive")
	}
	if c.Mail.Driver == "smtp" && c.Mail.Host == "" {
		return fmt.Errorf("config: mail.host is required for smtp driver")
	}
	return nil
}
