package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env       string        `yaml:"env" env-default:"local"`
	RemoteAPI RemoteAPIConf `yaml:"remote_api"`
	HTTP      HTTPConfig    `yaml:"http"`
	Upload    UploadConfig  `yaml:"upload"`
	Cache     CacheConfig   `yaml:"cache"`
	Redis     RedisConf     `yaml:"redis"`
	Session   SessionConf   `yaml:"session"`
	TokenTTL  time.Duration `yaml:"token_ttl" env-default:"12h"`
}

// RemoteAPIConf selects the remote content service this panel manages.
// The base URL has no default on purpose: starting the site against the
// wrong origin is worse than not starting at all.
type RemoteAPIConf struct {
	BaseURL string        `yaml:"base_url" env:"REMOTE_API_URL" env-required:"true"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port" env-default:"8080"`
}

type UploadConfig struct {
	MaxSize      int64 `yaml:"max_size" env-default:"10485760"`
	MaxDimension int   `yaml:"max_dimension" env-default:"4096"`
}

type CacheConfig struct {
	CollectionTTL time.Duration `yaml:"collection_ttl" env-default:"30s"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type SessionConf struct {
	Secret string `yaml:"secret" env:"SESSION_SECRET" env-default:"change-me"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
