// Package config loads chartwire settings.
//
// Settings come from three layers, later ones winning:
//
//  1. CHARTWIRE_* environment variables, after loading a .env file from the
//     working directory if one exists
//  2. a TOML file passed with --config
//  3. command-line flags, applied by the CLI
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	errs "github.com/matzehuels/chartwire/pkg/errors"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreFile  = "file"
	StoreMongo = "mongo"
)

// Config holds every setting the CLI and the preview server read.
type Config struct {
	// Cache backend: file, redis or none.
	Cache       string `env:"CHARTWIRE_CACHE,default=file" toml:"cache"`
	CacheDir    string `env:"CHARTWIRE_CACHE_DIR" toml:"cache_dir"`
	CachePrefix string `env:"CHARTWIRE_CACHE_PREFIX" toml:"cache_prefix"`
	RedisURL    string `env:"CHARTWIRE_REDIS_URL,default=redis://localhost:6379/0" toml:"redis_url"`

	// Store backend: file or mongo.
	Store           string `env:"CHARTWIRE_STORE,default=file" toml:"store"`
	StoreDir        string `env:"CHARTWIRE_STORE_DIR" toml:"store_dir"`
	MongoURI        string `env:"CHARTWIRE_MONGO_URI" toml:"mongo_uri"`
	MongoDatabase   string `env:"CHARTWIRE_MONGO_DATABASE,default=chartwire" toml:"mongo_database"`
	MongoCollection string `env:"CHARTWIRE_MONGO_COLLECTION,default=charts" toml:"mongo_collection"`

	// Page settings.
	ChartJSURL string   `env:"CHARTWIRE_CHARTJS_URL" toml:"chartjs_url"`
	PluginURLs []string `env:"CHARTWIRE_PLUGIN_URLS" toml:"plugin_urls"`
	HookFile   string   `env:"CHARTWIRE_HOOK_FILE" toml:"hook_file"`

	// Preview server.
	Addr string `env:"CHARTWIRE_ADDR,default=127.0.0.1:8080" toml:"addr"`

	S3 S3 `toml:"s3"`
}

// S3 holds the publish target.
type S3 struct {
	Endpoint  string `env:"CHARTWIRE_S3_ENDPOINT" toml:"endpoint"`
	Region    string `env:"CHARTWIRE_S3_REGION,default=us-east-1" toml:"region"`
	AccessKey string `env:"CHARTWIRE_S3_ACCESS_KEY" toml:"access_key"`
	SecretKey string `env:"CHARTWIRE_S3_SECRET_KEY" toml:"secret_key"`
	Bucket    string `env:"CHARTWIRE_S3_BUCKET,default=chartwire" toml:"bucket"`
	Prefix    string `env:"CHARTWIRE_S3_PREFIX" toml:"prefix"`
	UseSSL    bool   `env:"CHARTWIRE_S3_USE_SSL,default=true" toml:"use_ssl"`
}

// Load reads the environment (and .env) and overlays the TOML file at path,
// if path is not empty.
func Load(path string) (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read environment")
	}
	if path != "" {
		if err := cfg.overlay(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) overlay(path string) error {
	if _, err := os.Stat(path); err != nil {
		return errs.Wrap(errs.ErrCodeNotFound, err, "config file %s", path)
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "parse config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errs.New(errs.ErrCodeInvalidInput, "config file %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

// Validate checks backend names and URLs.
func (c *Config) Validate() error {
	switch c.Cache {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown cache backend %q (use file, redis or none)", c.Cache)
	}
	switch c.Store {
	case StoreFile:
	case StoreMongo:
		if c.MongoURI == "" {
			return errs.New(errs.ErrCodeInvalidInput, "mongo store needs CHARTWIRE_MONGO_URI")
		}
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown store backend %q (use file or mongo)", c.Store)
	}
	if c.ChartJSURL != "" {
		if err := errs.ValidateURL(c.ChartJSURL); err != nil {
			return fmt.Errorf("chartjs_url: %w", err)
		}
	}
	for _, u := range c.PluginURLs {
		if err := errs.ValidateURL(u); err != nil {
			return fmt.Errorf("plugin_urls: %w", err)
		}
	}
	return nil
}

// HookSource reads the mutation hook script named by HookFile. It returns an
// empty string when no file is configured.
func (c *Config) HookSource() (string, error) {
	if c.HookFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.HookFile)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidInput, err, "read hook file %s", c.HookFile)
	}
	return string(data), nil
}
