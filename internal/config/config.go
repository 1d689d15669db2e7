// Package config loads the settings of the mockability command line tool.
//
// Sources, highest precedence first: command line flags, MOCKABILITY_*
// environment variables, an optional config file, built-in defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/IvanTurko/mockability-sdk-go/internal/validation"
	"github.com/IvanTurko/mockability-sdk-go/sdkerr"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	subsys = "config"

	// EnvPrefix prefixes every environment variable, e.g. MOCKABILITY_BASE_URL.
	EnvPrefix = "MOCKABILITY"

	KeyBaseURL  = "base_url"
	KeyTimeout  = "timeout"
	KeyVerbose  = "verbose"
	KeyLogLevel = "log_level"

	DefaultBaseURL  = "http://localhost:9000"
	DefaultTimeout  = 10 * time.Second
	DefaultLogLevel = "info"
)

// Config holds the settings shared by every command.
type Config struct {
	BaseURL  string        `mapstructure:"base_url" validate:"required,url"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gte=0"`
	Verbose  bool          `mapstructure:"verbose"`
	LogLevel string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

// flagKeys maps command line flag names to config keys.
var flagKeys = map[string]string{
	"base-url":  KeyBaseURL,
	"timeout":   KeyTimeout,
	"verbose":   KeyVerbose,
	"log-level": KeyLogLevel,
}

// Load resolves the configuration. flags may be nil; flags it does not
// define are skipped. An empty configFile means no file is read.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	const op = "Load"

	v := viper.New()
	v.SetDefault(KeyBaseURL, DefaultBaseURL)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, configError(op, fmt.Sprintf("reading %s", configFile), err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, configError(op, "binding flag "+name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configError(op, "decoding settings", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := validation.New().Struct(cfg); err != nil {
		return nil, configError(op,
			"invalid "+strings.Join(validation.Fields(err), ", "), err)
	}
	return &cfg, nil
}

func configError(op, msg string, cause error) error {
	return sdkerr.NewSDKError().
		WithSubsys(subsys).
		WithOp(op).
		WithKind(sdkerr.ErrConfiguration).
		WithMessage(msg).
		WithCause(cause)
}
