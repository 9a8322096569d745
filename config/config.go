package config

import (
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     Server
	Bun        BunConfig
	Reaper     ReaperConfig
	LoggerMode LoggerMode
}

type Server struct {
	Port        string
	Environment string
}

type BunConfig struct {
	DSN string
}

type LoggerMode struct {
	Development bool
	Prod        bool
	Level       string
}

// ReaperConfig controls the background sweeps. ChannelIdleAfter is how long
// an empty channel may sit idle before it is deleted; UserRetention is the
// same cutoff for identities that have not been seen.
type ReaperConfig struct {
	Interval         time.Duration
	ChannelIdleAfter time.Duration
	UserRetention    time.Duration
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()

	v.SetConfigName(filename)
	v.SetConfigType("yaml")
	v.AddConfigPath("config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	err := v.Unmarshal(&c)
	if err != nil {
		slog.Error("Unable to unmarshal config", "err", err)
		return nil, err
	}
	if c.Reaper.Interval == 0 {
		c.Reaper.Interval = time.Hour
	}
	if c.Reaper.ChannelIdleAfter == 0 {
		c.Reaper.ChannelIdleAfter = 5 * time.Hour
	}
	if c.Reaper.UserRetention == 0 {
		c.Reaper.UserRetention = 30 * 24 * time.Hour
	}
	return &c, nil
}
