package config

import (
	"context"
	"fmt"
	"sync"

	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	ListenAddr  string `env:"LISTEN_ADDR,default=:8080"`
	MetricsAddr string `env:"METRICS_ADDR,default=:2112"`
	DBPath      string `env:"DB_PATH,default=chatsync.db"`
	LogLevel    int    `env:"LOG_LEVEL,default=4"`
	PrettyLog   bool   `env:"PRETTY_LOG,default=false"`
	DotPath     string `env:"DOT_PATH,default=~/.chatsyncd"`

	SessionTTL SessionTTL
}

type SessionTTL struct {
	Hours int `env:"SESSION_TTL_HOURS,default=720"`
}

var (
	once         sync.Once
	globalConfig = &Config{}
	globalErr    error
)

func Load() (Config, error) {
	once.Do(func() {
		cfg := &Config{}
		envcfg := envconfig.Config{
			Lookuper: envconfig.PrefixLookuper("CSD_", envconfig.OsLookuper()),
			Target:   cfg,
		}
		if err := envconfig.ProcessWith(context.Background(), &envcfg); err != nil {
			globalErr = fmt.Errorf("process env config: %w", err)
			return
		}
		log.Traceln("loaded config")
		globalConfig = cfg
	})
	return *globalConfig, globalErr
}

func Get() Config {
	cfg, err := Load()
	if err != nil {
		log.WithField("error", err.Error()).Error("cant load config")
	}
	return cfg
}
