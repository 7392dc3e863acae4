package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lumo-app/lumo"
)

// hostConfig is the host's configuration.
// Priority: flags > environment (LUMO_*) > config file > defaults.
type hostConfig struct {
	SpawnPolicy     string        `mapstructure:"spawn_policy"`
	SidecarPath     string        `mapstructure:"sidecar_path"`
	DataDir         string        `mapstructure:"data_dir"`
	UseSidecarInDev string        `mapstructure:"use_sidecar_in_dev"`
	LockDataDir     bool          `mapstructure:"lock_data_dir"`
	LogLevel        string        `mapstructure:"log_level"`
	StopTimeout     time.Duration `mapstructure:"stop_timeout"`
	ReadyTimeout    time.Duration `mapstructure:"ready_timeout"`
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"spawn-policy": "spawn_policy",
	"sidecar-path": "sidecar_path",
	"data-dir":     "data_dir",
	"log-level":    "log_level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("spawn_policy", lumo.DefaultSpawnPolicy.String())
	v.SetDefault("sidecar_path", "")
	v.SetDefault("data_dir", "")
	v.SetDefault("use_sidecar_in_dev", "")
	v.SetDefault("lock_data_dir", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("stop_timeout", lumo.DefaultStopTimeout)
	v.SetDefault("ready_timeout", lumo.DefaultReadyTimeout)
}

// loadConfig reads the config file at path (or lumo.yaml in the usual
// places when path is empty), the environment and the flags that were set.
func loadConfig(path string, flags *pflag.FlagSet) (*hostConfig, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("lumo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/" + lumo.DefaultFallbackDirName)
	}

	v.SetEnvPrefix("LUMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &hostConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// options turns the config into supervisor options.
func (c *hostConfig) options() ([]lumo.Option, error) {
	policy, err := lumo.ParseSpawnPolicy(c.SpawnPolicy)
	if err != nil {
		return nil, err
	}
	if c.StopTimeout <= 0 {
		return nil, fmt.Errorf("stop_timeout must be positive, got %s", c.StopTimeout)
	}
	if c.ReadyTimeout < 0 {
		return nil, fmt.Errorf("ready_timeout must not be negative, got %s", c.ReadyTimeout)
	}

	opts := []lumo.Option{
		lumo.WithSpawnPolicy(policy),
		lumo.WithDebugBuild(isDebugBuild),
		lumo.WithDevOverride(lumo.ParseDevOverride(c.UseSidecarInDev)),
		lumo.WithDataDirLock(c.LockDataDir),
		lumo.WithStopTimeout(c.StopTimeout),
		lumo.WithReadyTimeout(c.ReadyTimeout),
	}
	if c.SidecarPath != "" {
		opts = append(opts, lumo.WithSidecarPath(c.SidecarPath))
	}
	if c.DataDir != "" {
		opts = append(opts, lumo.WithDataDir(c.DataDir))
	}
	return opts, nil
}

// dataDir resolves the data directory the way the supervisor does.
func (c *hostConfig) dataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return lumo.ResolveDataDir(lumo.HostDataDir(lumo.DefaultAppIdentifier))
}
