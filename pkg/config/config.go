package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/blindroute/blindroute/pkg/util"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTMapURL      = "https://apis.openapi.sk.com"
	defaultBusAPIURL    = "http://ws.bus.go.kr/api/rest"
	defaultPollInterval = 15 * time.Second
	defaultBoardDelay   = 8 * time.Second
	defaultHTTPTimeout  = 10 * time.Second
	defaultListen       = ":8080"
)

type Config struct {
	TMapURL    string   `yaml:"tmap_url" validate:"required,url"`
	TMapAppKey string   `yaml:"tmap_app_key" validate:"required"`
	BusAPIURL  string   `yaml:"bus_api_url" validate:"required,url"`
	BusAPIKeys []string `yaml:"bus_api_keys" validate:"required,min=1,dive,required"`

	PollInterval  time.Duration `yaml:"poll_interval" validate:"gt=0"`
	BoardingDelay time.Duration `yaml:"boarding_delay" validate:"gte=0"`
	HTTPTimeout   time.Duration `yaml:"http_timeout" validate:"gt=0"`

	Listen string `yaml:"listen"`

	Redis         RedisConfig         `yaml:"redis"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`

	FirebaseServiceAccount string `yaml:"firebase_service_account"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	Database int    `yaml:"database" validate:"gte=0"`
}

func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

type ElasticsearchConfig struct {
	Address  string `yaml:"address" validate:"omitempty,url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// Load reads .env, then the optional YAML file named by BLINDROUTE_CONFIG_FILE,
// then lets BLINDROUTE_* environment variables override both.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		TMapURL:       defaultTMapURL,
		BusAPIURL:     defaultBusAPIURL,
		PollInterval:  defaultPollInterval,
		BoardingDelay: defaultBoardDelay,
		HTTPTimeout:   defaultHTTPTimeout,
		Listen:        defaultListen,
	}

	env := util.GetEnvironmentVariables()

	if path := env["BLINDROUTE_CONFIG_FILE"]; path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvironment(env); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyEnvironment(env map[string]string) error {
	setString := func(key string, target *string) {
		if env[key] != "" {
			*target = env[key]
		}
	}

	setString("BLINDROUTE_TMAP_URL", &c.TMapURL)
	setString("BLINDROUTE_TMAP_APP_KEY", &c.TMapAppKey)
	setString("BLINDROUTE_BUS_API_URL", &c.BusAPIURL)
	setString("BLINDROUTE_LISTEN", &c.Listen)
	setString("BLINDROUTE_REDIS_ADDRESS", &c.Redis.Address)
	setString("BLINDROUTE_REDIS_PASSWORD", &c.Redis.Password)
	setString("BLINDROUTE_ELASTICSEARCH_ADDRESS", &c.Elasticsearch.Address)
	setString("BLINDROUTE_ELASTICSEARCH_USERNAME", &c.Elasticsearch.Username)
	setString("BLINDROUTE_ELASTICSEARCH_PASSWORD", &c.Elasticsearch.Password)
	setString("BLINDROUTE_FIREBASE_SERVICE_ACCOUNT", &c.FirebaseServiceAccount)

	if keys := util.SplitList(env["BLINDROUTE_DATA_API_KEYS"]); len(keys) > 0 {
		c.BusAPIKeys = keys
	}

	if env["BLINDROUTE_ELASTICSEARCH_INSECURE"] == "YES" {
		c.Elasticsearch.InsecureSkipVerify = true
	}

	if env["BLINDROUTE_REDIS_DATABASE"] != "" {
		n, err := strconv.Atoi(env["BLINDROUTE_REDIS_DATABASE"])
		if err != nil {
			return fmt.Errorf("invalid BLINDROUTE_REDIS_DATABASE: %w", err)
		}
		c.Redis.Database = n
	}

	durations := map[string]*time.Duration{
		"BLINDROUTE_POLL_INTERVAL":  &c.PollInterval,
		"BLINDROUTE_BOARDING_DELAY": &c.BoardingDelay,
		"BLINDROUTE_HTTP_TIMEOUT":   &c.HTTPTimeout,
	}
	for key, target := range durations {
		if env[key] == "" {
			continue
		}
		d, err := time.ParseDuration(env[key])
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*target = d
	}

	return nil
}
