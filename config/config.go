package config

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Server struct {
		Port int
		Mode string // debug | release | test
	}

	Database struct {
		Driver       string // sqlite | postgres
		DSN          string
		MaxOpenConns int
		MaxIdleConns int
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Session struct {
		Secret     string
		TTL        time.Duration
		CookieName string
		Secure     bool
	}

	// IdentityKey 是 users.identity_hash 的密钥，上线后不可更换，不随 Session.Secret 轮换
	Auth struct {
		IdentityKey string
	}

	OAuth struct {
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}

	Log struct {
		Level       zapcore.Level
		Development bool
	}

	Tracing struct {
		Enabled     bool
		Endpoint    string
		ServiceName string
	}

	Sentry struct {
		DSN         string
		Environment string
	}

	Feed struct {
		PageSize int
	}

	Cache struct {
		UserTTL time.Duration
	}
}

// Load 读取 config.yaml 并叠加 MICROBLOG_ 前缀的环境变量
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("microblog")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return unmarshal(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "microblog.db")
	v.SetDefault("database.maxopenconns", 20)
	v.SetDefault("database.maxidleconns", 5)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.password", "")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", "168h")
	v.SetDefault("session.cookiename", "microblog_session")
	v.SetDefault("session.secure", false)
	v.SetDefault("auth.identitykey", "")
	v.SetDefault("oauth.clientid", "")
	v.SetDefault("oauth.clientsecret", "")
	v.SetDefault("oauth.redirecturl", "http://localhost:3000/auth/google/callback")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.servicename", "microblog")
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("feed.pagesize", 9)
	v.SetDefault("cache.userttl", "10m")
}

func unmarshal(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		levelHook(),
		mapstructure.StringToTimeDurationHookFunc(),
	))); err != nil {
		return nil, err
	}
	if c.Session.Secret == "" {
		return nil, errors.New("session.secret must be set")
	}
	if c.Auth.IdentityKey == "" {
		return nil, errors.New("auth.identitykey must be set")
	}
	return c, nil
}

var levelType = reflect.TypeOf(zapcore.InfoLevel)

func levelHook() mapstructure.DecodeHookFuncType {
	return func(in reflect.Type, out reflect.Type, val interface{}) (interface{}, error) {
		if in.Kind() == reflect.String && out == levelType {
			l := zapcore.InfoLevel
			if err := l.UnmarshalText([]byte(val.(string))); err != nil {
				return nil, err
			}
			return l, nil
		}
		return val, nil
	}
}
