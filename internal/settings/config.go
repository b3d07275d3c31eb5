package settings

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server Server `yaml:"server"`
	Queue  Queue  `yaml:"queue"`
	Logger Logger `yaml:"logger"`
	Worker Worker `yaml:"worker"`
}

// Server is the configuration for the queue service
type Server struct {
	Addr string `yaml:"addr" validate:"required"`
}

// Queue is the configuration for the managed queues
type Queue struct {
	Capacity int `yaml:"capacity" validate:"gt=0"`
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `yaml:"log_level" validate:"oneof=debug info warn error"`
	FileLogName string `yaml:"file_log_name"`
	MaxBackups  int    `yaml:"max_backups" validate:"gte=0"`
	MaxAge      int    `yaml:"max_age" validate:"gte=0"`  // Days
	MaxSize     int    `yaml:"max_size" validate:"gte=0"` // Megabytes
	Compress    bool   `yaml:"compress"`
}

// Worker is the configuration for the pump worker
type Worker struct {
	QueueURL     string        `yaml:"queue_url" validate:"required,url"`
	QueueName    string        `yaml:"queue_name" validate:"required"`
	InPath       string        `yaml:"in"`
	OutPath      string        `yaml:"out"`
	PollInterval time.Duration `yaml:"poll_interval" validate:"gt=0"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: Server{Addr: ":8080"},
		Queue:  Queue{Capacity: 26},
		Logger: Logger{
			LogLevel:   "info",
			MaxBackups: 3,
			MaxAge:     7,
			MaxSize:    10,
		},
		Worker: Worker{
			QueueURL:     "http://localhost:8080",
			QueueName:    "chars",
			InPath:       "data/input.txt",
			OutPath:      "data/output.txt",
			PollInterval: 10 * time.Millisecond,
		},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "failed to parse config %s", path)
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks the configuration after flags have been applied.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}
