package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/marqueelabs/marquee/internal/model"
	"github.com/marqueelabs/marquee/internal/socketrpc"
)

const (
	defaultUpdateInterval = model.DefaultUpdateInterval
	defaultStatDuration   = model.DefaultStatDuration
	defaultSkin           = model.DefaultSkin
)

// cliConfig holds only TUI-relevant configuration.
type cliConfig struct {
	UpdateInterval time.Duration `mapstructure:"update-interval"`
	StatDuration   time.Duration `mapstructure:"stat-duration"`
	Skin           string        `mapstructure:"skin"`
	SocketPath     string        `mapstructure:"socket-path"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("MARQUEE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("update-interval", defaultUpdateInterval)
	v.SetDefault("stat-duration", defaultStatDuration)
	v.SetDefault("skin", defaultSkin)
	v.SetDefault("socket-path", socketrpc.DefaultSocketPath())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "marquee", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
