package config

import (
	"crypto/rsa"

	"github.com/caarlos0/env/v6"
	"github.com/rs/zerolog/log"
	"github.com/teamup/teamup-server/utils"
)

type Config struct {
	Port               string `env:"LISTEN_ADDR" envDefault:":3000"`
	Timeout            uint64 `env:"TIMEOUT" envDefault:"10"`
	ReadBufferSize     int    `env:"READ_BUFFER_SIZE" envDefault:"4096"`
	BodyLimit          int    `env:"BODY_LIMIT" envDefault:"1048576"`
	AppName            string `env:"APP_NAME" envDefault:"Teamup"`
	IsProduction       bool   `env:"PRODUCTION"`
	Dsn                string `env:"DSN"`
	RedisUrl           string `env:"REDIS_URL"`
	JwtPublicKey       string `env:"JWT_PUBLIC_KEY"`
	JwtParsedPublicKey *rsa.PublicKey
	Lock               utils.LockConfig `envPrefix:"LOCK_"`
}

func Parse() (*Config, error) {
	cfg := Config{
		IsProduction: utils.ParseFlags(),
	}

	if err := env.Parse(&cfg); err != nil {
		log.Panic().Err(err).Msg("Failed to parse env config")
	}

	cfg.JwtParsedPublicKey = utils.ParsePublicKey(cfg.JwtPublicKey)

	return &cfg, nil
}

func (c *Config) GetPort() string {
	return c.Port
}

func (c *Config) GetTimeout() int {
	return int(c.Timeout)
}

func (c *Config) GetReadBufferSize() int {
	return c.ReadBufferSize
}

func (c *Config) GetAppName() string {
	return c.AppName
}

func (c *Config) GetIsProduction() bool {
	return c.IsProduction
}

func (c *Config) GetBodyLimit() int {
	return c.BodyLimit
}
