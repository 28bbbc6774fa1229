package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Config struct {
	AppEnv     string `mapstructure:"APP_ENV"`
	AppName    string `mapstructure:"APP_NAME"`
	AppVersion string `mapstructure:"APP_VERSION"`
	Timezone   string `mapstructure:"TIMEZONE"`
	TLS        struct {
		Enable   bool   `mapstructure:"ENABLE"`
		CertPath string `mapstructure:"CERT_PATH"`
		KeyPath  string `mapstructure:"KEY_PATH"`
	} `mapstructure:"TLS"`
	Otel struct {
		Enable   bool   `mapstructure:"ENABLE"`
		Exporter string `mapstructure:"EXPORTER"` // http | grpc
		Endpoint string `mapstructure:"ENDPOINT"`
		Insecure bool   `mapstructure:"INSECURE"`
	} `mapstructure:"OTEL"`
	Pyroscope struct {
		Enable bool   `mapstructure:"ENABLE"`
		Addr   string `mapstructure:"ADDR"`
	} `mapstructure:"PYROSCOPE"`
	Server struct {
		Addr         string        `mapstructure:"ADDR"`
		ReadTimeout  time.Duration `mapstructure:"READ_TIMEOUT"`
		WriteTimeout time.Duration `mapstructure:"WRITE_TIMEOUT"`
		IdleTimeout  time.Duration `mapstructure:"IDLE_TIMEOUT"`
	} `mapstructure:"HTTP_SERVER"`
	Database struct {
		Type           string `mapstructure:"TYPE"`
		Host           string `mapstructure:"HOST"`
		Port           string `mapstructure:"PORT"`
		DBNAME         string `mapstructure:"DBNAME"`
		User           string `mapstructure:"USER"`
		Password       string `mapstructure:"PASSWORD"`
		SSLMode        string `mapstructure:"SSLMODE"`
		Timezone       string `mapstructure:"TIMEZONE"`
		AutoMigrate    bool   `mapstructure:"AUTO_MIGRATE"`
		Metrics        bool   `mapstructure:"METRICS"`
		ConnectionPool struct {
			MaxIdleConn     int           `mapstructure:"MAX_IDLE_CONN"`
			MaxOpenConns    int           `mapstructure:"MAX_OPEN_CONNS"`
			ConnMaxLifetime time.Duration `mapstructure:"CONN_MAX_LIFETIME"`
			ConnMaxIdleTime time.Duration `mapstructure:"CONN_MAX_IDLE_TIME"`
		} `mapstructure:"CONNECTION_POOL"`
	} `mapstructure:"DATABASE"`
	Redis struct {
		Enable      bool          `mapstructure:"ENABLE"`
		Addr        string        `mapstructure:"ADDR"`
		Password    string        `mapstructure:"PASSWORD"`
		DB          int           `mapstructure:"DB"`
		PoolSize    int           `mapstructure:"POOL_SIZE"`
		PoolTimeout time.Duration `mapstructure:"POOL_TIMEOUT"`
	} `mapstructure:"REDIS"`
	Minio struct {
		Enable     bool          `mapstructure:"ENABLE"`
		Endpoint   string        `mapstructure:"ENDPOINT"`
		AccessKey  string        `mapstructure:"ACCESS_KEY"`
		SecretKey  string        `mapstructure:"SECRET_KEY"`
		Secure     bool          `mapstructure:"SECURE"`
		Region     string        `mapstructure:"REGION"`
		BucketName string        `mapstructure:"BUCKET_NAME"`
		PublicURL  string        `mapstructure:"PUBLIC_URL"`
		PresignTTL time.Duration `mapstructure:"PRESIGN_TTL"`
	} `mapstructure:"MINIO"`
	Snowflake struct {
		Node int64 `mapstructure:"NODE"`
	} `mapstructure:"SNOWFLAKE"`
	Lock struct {
		Backend    string        `mapstructure:"BACKEND"` // local | redis
		TTL        time.Duration `mapstructure:"TTL"`
		Retry      int           `mapstructure:"RETRY"`
		RetryDelay time.Duration `mapstructure:"RETRY_DELAY"`
	} `mapstructure:"LOCK"`
	Notification struct {
		Mode string `mapstructure:"MODE"` // direct | queue
	} `mapstructure:"NOTIFICATION"`
	Worker struct {
		Concurrency int `mapstructure:"CONCURRENCY"`
	} `mapstructure:"WORKER"`
	Rollover struct {
		Enable      bool   `mapstructure:"ENABLE"`
		DailySpec   string `mapstructure:"DAILY_SPEC"`
		MonthlySpec string `mapstructure:"MONTHLY_SPEC"`
	} `mapstructure:"ROLLOVER"`
	Program Program `mapstructure:"PROGRAM"`
	Admin   struct {
		Key string `mapstructure:"KEY"`
	} `mapstructure:"ADMIN"`
}

// Program holds the incentive rules.
type Program struct {
	WithdrawalMinimum       int64 `mapstructure:"WITHDRAWAL_MINIMUM"`
	ReferralBonus           int64 `mapstructure:"REFERRAL_BONUS"`
	ReferralUnlockThreshold int   `mapstructure:"REFERRAL_UNLOCK_THRESHOLD"`
	ReelReward              int64 `mapstructure:"REEL_REWARD"`
	ReferralRate            int64 `mapstructure:"REFERRAL_RATE"`
	TierOneThreshold        int   `mapstructure:"TIER_ONE_THRESHOLD"`
	TierOneBonus            int64 `mapstructure:"TIER_ONE_BONUS"`
	TierTwoThreshold        int   `mapstructure:"TIER_TWO_THRESHOLD"`
	TierTwoBonus            int64 `mapstructure:"TIER_TWO_BONUS"`
}

var Module = fx.Module("config", fx.Provide(LoadConfig))

var defaults = map[string]any{
	"APP_ENV":                                     "development",
	"APP_NAME":                                    "growpreen",
	"APP_VERSION":                                 "dev",
	"TIMEZONE":                                    "Asia/Kolkata",
	"TLS.ENABLE":                                  false,
	"TLS.CERT_PATH":                               "",
	"TLS.KEY_PATH":                                "",
	"OTEL.ENABLE":                                 false,
	"OTEL.EXPORTER":                               "http",
	"OTEL.ENDPOINT":                               "localhost:4318",
	"OTEL.INSECURE":                               true,
	"PYROSCOPE.ENABLE":                            false,
	"PYROSCOPE.ADDR":                              "http://localhost:4040",
	"HTTP_SERVER.ADDR":                            ":4000",
	"HTTP_SERVER.READ_TIMEOUT":                    "15s",
	"HTTP_SERVER.WRITE_TIMEOUT":                   "15s",
	"HTTP_SERVER.IDLE_TIMEOUT":                    "60s",
	"DATABASE.TYPE":                               "sqlite",
	"DATABASE.DBNAME":                             "growpreen.db",
	"DATABASE.SSLMODE":                            "disable",
	"DATABASE.TIMEZONE":                           "UTC",
	"DATABASE.AUTO_MIGRATE":                       true,
	"DATABASE.METRICS":                            false,
	"DATABASE.HOST":                               "127.0.0.1",
	"DATABASE.PORT":                               "5432",
	"DATABASE.USER":                               "",
	"DATABASE.PASSWORD":                           "",
	"DATABASE.CONNECTION_POOL.MAX_IDLE_CONN":      10,
	"DATABASE.CONNECTION_POOL.MAX_OPEN_CONNS":     50,
	"DATABASE.CONNECTION_POOL.CONN_MAX_LIFETIME":  "30m",
	"DATABASE.CONNECTION_POOL.CONN_MAX_IDLE_TIME": "5m",
	"REDIS.ENABLE":                                false,
	"REDIS.ADDR":                                  "127.0.0.1:6379",
	"REDIS.POOL_SIZE":                             10,
	"REDIS.POOL_TIMEOUT":                          "5s",
	"REDIS.PASSWORD":                              "",
	"REDIS.DB":                                    0,
	"MINIO.ENABLE":                                false,
	"MINIO.ENDPOINT":                              "localhost:9000",
	"MINIO.ACCESS_KEY":                            "",
	"MINIO.SECRET_KEY":                            "",
	"MINIO.SECURE":                                false,
	"MINIO.REGION":                                "us-east-1",
	"MINIO.BUCKET_NAME":                           "growpreen-proofs",
	"MINIO.PUBLIC_URL":                            "",
	"MINIO.PRESIGN_TTL":                           "15m",
	"SNOWFLAKE.NODE":                              1,
	"LOCK.BACKEND":                                "local",
	"LOCK.TTL":                                    "10s",
	"LOCK.RETRY":                                  50,
	"LOCK.RETRY_DELAY":                            "50ms",
	"NOTIFICATION.MODE":                           "direct",
	"WORKER.CONCURRENCY":                          10,
	"ROLLOVER.ENABLE":                             true,
	"ROLLOVER.DAILY_SPEC":                         "0 0 * * *",
	"ROLLOVER.MONTHLY_SPEC":                       "0 0 1 * *",
	"PROGRAM.WITHDRAWAL_MINIMUM":                  200,
	"PROGRAM.REFERRAL_BONUS":                      20,
	"PROGRAM.REFERRAL_UNLOCK_THRESHOLD":           2,
	"PROGRAM.REEL_REWARD":                         20,
	"PROGRAM.REFERRAL_RATE":                       30,
	"PROGRAM.TIER_ONE_THRESHOLD":                  12,
	"PROGRAM.TIER_ONE_BONUS":                      1100,
	"PROGRAM.TIER_TWO_THRESHOLD":                  24,
	"PROGRAM.TIER_TWO_BONUS":                      2200,
	"ADMIN.KEY":                                   "",
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Default returns the configuration built from defaults and environment only.
func Default() *Config {
	var cfg Config
	if err := newViper().Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

func LoadConfig() *Config {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			zap.L().Error("failed to read config", zap.Error(err))
			os.Exit(1)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		zap.L().Error("failed to unmarshal config", zap.Error(err))
		os.Exit(1)
	}

	return &cfg
}

// Location resolves the program timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		zap.L().Warn("unknown timezone, using UTC", zap.String("timezone", c.Timezone), zap.Error(err))
		return time.UTC
	}
	return loc
}
