package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ashmetov/booklib/pkg/kafka"
	"github.com/ashmetov/booklib/pkg/logger"
	"github.com/ashmetov/booklib/pkg/postgres"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"ADMIN_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"ADMIN_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration
}

type Sync struct {
	// PublicURL is the base URL of the public service, e.g. http://public:8081
	PublicURL    string `envconfig:"PUBLIC_API_URL" default:"http://localhost:8081"`
	Token        string `envconfig:"INTER_SERVICE_TOKEN" required:"true" json:"-"`
	KafkaEnabled bool   `envconfig:"SYNC_KAFKA_ENABLED"`
	Workers      int    `envconfig:"SYNC_WORKERS" default:"4"`
	QueueSize    int    `envconfig:"SYNC_QUEUE_SIZE" default:"256"`
}

type Config struct {
	Server   HTTPServer `yaml:"server"`
	Database postgres.Config
	Kafka    kafka.Config
	Sync     Sync
	Log      logger.Log `yaml:"log"`
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return &cfg
}

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = timeout
	}
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
