package app

import (
	"cmp"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/nikmy/klaro/internal/api"
	"github.com/nikmy/klaro/internal/kv"
	"github.com/nikmy/klaro/pkg/environment"
	"github.com/nikmy/klaro/pkg/errors"
)

type Config struct {
	Environment environment.Env `yaml:"Environment"`
	HTTP        api.Config      `yaml:"HTTP"`
	Storage     kv.Config       `yaml:"Storage"`
	Clock       ClockConfig     `yaml:"Clock"`
}

type ClockConfig struct {
	UTCDiff time.Duration `yaml:"utc_diff"`
}

const envPrefix = "KLARO_"

// LoadConfig reads the yaml file at path, when path is not empty, and applies
// KLARO_* variables from the process environment and an optional .env file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, errors.WrapFail(err, "build path to config")
		}

		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, errors.WrapFailf(err, "read %q", path)
		}

		err = yaml.Unmarshal(data, &cfg)
		if err != nil {
			return nil, errors.WrapFail(err, "parse yaml")
		}
	}

	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.WrapFail(err, "load .env")
	}

	cfg.applyEnv(os.LookupEnv)
	cfg.withDefaults()

	err = cfg.validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	var env string
	set("ENV", &env)
	if env != "" {
		c.Environment = environment.FromString(env)
	}

	set("HTTP_ADDR", &c.HTTP.HTTP.Addr)

	var mode string
	set("SEED_MODE", &mode)
	if mode != "" {
		c.HTTP.SeedMode = api.SeedMode(mode)
	}

	var driver string
	set("STORAGE_DRIVER", &driver)
	if driver != "" {
		c.Storage.Driver = kv.Driver(driver)
	}

	set("FILE_PATH", &c.Storage.File.Path)
	set("MONGO_URL", &c.Storage.Mongo.URL)
	set("MONGO_USERNAME", &c.Storage.Mongo.Auth.Username)
	set("MONGO_PASSWORD", &c.Storage.Mongo.Auth.Password)
	set("SQLITE_PATH", &c.Storage.SQLite.Path)
	set("DYNAMO_TABLE", &c.Storage.Dynamo.Table)
	set("DYNAMO_REGION", &c.Storage.Dynamo.Region)
	set("DYNAMO_ENDPOINT", &c.Storage.Dynamo.Endpoint)
}

func (c *Config) withDefaults() {
	if c.Environment == environment.Unknown {
		c.Environment = environment.Development
	}
	if c.HTTP.HTTP.Addr == "" {
		c.HTTP.HTTP.Addr = ":8080"
	}
	if c.HTTP.SeedMode == "" {
		c.HTTP.SeedMode = api.SeedOnStartup
	}
}

func (c *Config) validate() error {
	switch c.HTTP.SeedMode {
	case api.SeedOnStartup, api.SeedOnRequest:
		return nil
	default:
		return errors.Errorf("unknown seed mode %q", c.HTTP.SeedMode)
	}
}

// RequireSharedStorage rejects drivers that keep data inside the process.
// A Lambda instance neither runs the file flusher nor outlives its last
// invocation, so their writes would be lost.
func (c *Config) RequireSharedStorage() error {
	switch c.Storage.Driver {
	case "", kv.DriverMemory, kv.DriverFile:
		return errors.Errorf("storage driver %q keeps data in the process, use mongo, sqlite or dynamodb", cmp.Or(c.Storage.Driver, kv.DriverMemory))
	default:
		return nil
	}
}
