package kv

import "time"

type Driver string

const (
	DriverMemory Driver = "memory"
	DriverFile   Driver = "file"
	DriverMongo  Driver = "mongo"
	DriverSQLite Driver = "sqlite"
	DriverDynamo Driver = "dynamodb"
)

type Config struct {
	Driver Driver `yaml:"driver"`

	File   FileConfig   `yaml:"file"`
	Mongo  MongoConfig  `yaml:"mongo"`
	SQLite SQLiteConfig `yaml:"sqlite"`
	Dynamo DynamoConfig `yaml:"dynamodb"`
}

type FileConfig struct {
	Path     string        `yaml:"path"`
	Interval time.Duration `yaml:"interval"`
}

type MongoConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`

	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`

	Auth struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"auth"`

	Pool struct {
		MinSize uint64 `yaml:"minSize"`
		MaxSize uint64 `yaml:"maxSize"`
	} `yaml:"pool"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type DynamoConfig struct {
	Table  string `yaml:"table"`
	Region string `yaml:"region"`

	// Endpoint overrides the resolved service endpoint, e.g. DynamoDB Local.
	Endpoint string `yaml:"endpoint"`
}

// withDefaults fills unset values.
func (c Config) withDefaults() Config {
	if c.Driver == "" {
		c.Driver = DriverMemory
	}
	if c.File.Path == "" {
		c.File.Path = "klaro.json"
	}
	if c.File.Interval <= 0 {
		c.File.Interval = 5 * time.Second
	}
	if c.Mongo.Timeout <= 0 {
		c.Mongo.Timeout = 5 * time.Second
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "klaro"
	}
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = "kv"
	}
	if c.SQLite.Path == "" {
		c.SQLite.Path = "./data/klaro.db"
	}
	if c.Dynamo.Table == "" {
		c.Dynamo.Table = "klaro_kv"
	}
	return c
}
