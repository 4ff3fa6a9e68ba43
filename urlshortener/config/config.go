package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	utilKit "github.com/superj80820/url-shortener/kit/util"
	"github.com/superj80820/url-shortener/urlshortener/encoder"
	"gopkg.in/yaml.v3"
)

const (
	DBTypeMemory   = "memory"
	DBTypeSQLite   = "sqlite"
	DBTypeMySQL    = "mysql"
	DBTypePostgres = "postgres"

	MachineIDFromPrivateIP = -1
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Env           string        `yaml:"env"`
	Addr          string        `yaml:"addr"`
	Domain        string        `yaml:"domain"`
	DBType        string        `yaml:"dbType"`
	DBDSN         string        `yaml:"dbDsn"`
	RedisURI      string        `yaml:"redisUri"`
	RedisPassword string        `yaml:"redisPassword"`
	RedisDB       int           `yaml:"redisDb"`
	CacheTTL      time.Duration `yaml:"cacheTtl"`
	MachineID     int64         `yaml:"machineId"`
	IDStartTime   string        `yaml:"idStartTime"`
	KeyLength     int           `yaml:"keyLength"`
	LogPath       string        `yaml:"logPath"`
	EnableTracer  bool          `yaml:"enableTracer"`
	EnableMetric  bool          `yaml:"enableMetric"`
}

func Default() *Config {
	return &Config{
		Env:          "development",
		Addr:         ":8080",
		Domain:       "http://localhost:8080",
		DBType:       DBTypeMemory,
		CacheTTL:     24 * time.Hour,
		MachineID:    MachineIDFromPrivateIP,
		IDStartTime:  "2025-01-01T00:00:00Z",
		KeyLength:    encoder.DefaultKeyLength,
		LogPath:      "./go.log",
		EnableMetric: false,
		EnableTracer: false,
	}
}

// Load layers the yaml file at path (optional), the env files and the process
// environment over the defaults, later sources winning.
func Load(path string, envFiles ...string) (*Config, error) {
	config := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config file failed")
		}
		if err := yaml.Unmarshal(raw, config); err != nil {
			return nil, errors.Wrap(err, "unmarshal config file failed")
		}
	}

	if err := utilKit.LoadEnvFile(envFiles...); err != nil {
		return nil, errors.Wrap(err, "load env file failed")
	}
	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	c.Env = utilKit.GetEnvString("ENV", c.Env)
	c.Addr = utilKit.GetEnvString("ADDR", c.Addr)
	c.Domain = utilKit.GetEnvString("DOMAIN", c.Domain)
	c.DBType = utilKit.GetEnvString("DB_TYPE", c.DBType)
	c.DBDSN = utilKit.GetEnvString("DB_DSN", c.DBDSN)
	c.RedisURI = utilKit.GetEnvString("REDIS_URI", c.RedisURI)
	c.RedisPassword = utilKit.GetEnvString("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = utilKit.GetEnvInt("REDIS_DB", c.RedisDB)
	c.CacheTTL = utilKit.GetEnvDuration("CACHE_TTL", c.CacheTTL)
	c.MachineID = utilKit.GetEnvInt64("MACHINE_ID", c.MachineID)
	c.IDStartTime = utilKit.GetEnvString("ID_START_TIME", c.IDStartTime)
	c.KeyLength = utilKit.GetEnvInt("KEY_LENGTH", c.KeyLength)
	c.LogPath = utilKit.GetEnvString("LOG_PATH", c.LogPath)
	c.EnableTracer = utilKit.GetEnvBool("ENABLE_TRACER", c.EnableTracer)
	c.EnableMetric = utilKit.GetEnvBool("ENABLE_METRIC", c.EnableMetric)
}

func (c *Config) Validate() error {
	switch c.DBType {
	case DBTypeMemory:
	case DBTypeSQLite, DBTypeMySQL, DBTypePostgres:
		if c.DBDSN == "" {
			return errors.Wrapf(ErrInvalidConfig, "db dsn is required for db type: %s", c.DBType)
		}
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown db type: %s", c.DBType)
	}
	if c.Domain == "" {
		return errors.Wrap(ErrInvalidConfig, "domain is required")
	}
	if c.KeyLength < 1 || c.KeyLength > encoder.MaxKeyLength {
		return errors.Wrapf(ErrInvalidConfig, "key length out of range: %d", c.KeyLength)
	}
	if c.MachineID < MachineIDFromPrivateIP {
		return errors.Wrapf(ErrInvalidConfig, "machine id out of range: %d", c.MachineID)
	}
	if c.CacheTTL < 0 {
		return errors.Wrapf(ErrInvalidConfig, "negative cache ttl: %s", c.CacheTTL)
	}
	if _, err := c.StartTime(); err != nil {
		return err
	}
	return nil
}

func (c *Config) StartTime() (time.Time, error) {
	startTime, err := time.Parse(time.RFC3339, c.IDStartTime)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalidConfig, "parse id start time failed: %s", c.IDStartTime)
	}
	return startTime, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
