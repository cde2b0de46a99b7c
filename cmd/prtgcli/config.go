// prtgcli/cmd/prtgcli/config.go

package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"rgehrsitz/prtgcli/pkg/logging"
	"rgehrsitz/prtgcli/pkg/prtg"
	"rgehrsitz/prtgcli/pkg/rules"
	"rgehrsitz/prtgcli/pkg/store"
)

// Config represents the application configuration
type Config struct {
	LogLevel  string
	LogOutput string

	Endpoint string
	Username string
	Password string
	Passhash string
	Timeout  time.Duration

	CacheEnabled  bool
	CacheAddress  string
	CachePassword string
	CacheDB       int
	CacheTTL      time.Duration
	CacheChannel  string

	Denylist  []string
	Delimiter string

	Rules []rules.Rule
}

// ClientConfig returns the settings for the remote client.
func (c *Config) ClientConfig() prtg.Config {
	return prtg.Config{
		Endpoint: c.Endpoint,
		Username: c.Username,
		Password: c.Password,
		Passhash: c.Passhash,
		Timeout:  c.Timeout,
	}
}

// StoreOptions returns the settings for the Redis cache.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Addr:     c.CacheAddress,
		Password: c.CachePassword,
		DB:       c.CacheDB,
		TTL:      c.CacheTTL,
		Channel:  c.CacheChannel,
	}
}

// loadConfig reads defaults, the config file, the environment and any flags
// bound through flags. A missing default config file is fine; a missing
// explicit one is not.
func loadConfig(configFile string, flags map[string]*pflag.Flag) (*Config, error) {
	v := viper.New()
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.output", "console")
	v.SetDefault("prtg.timeout", "30s")
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.address", "localhost:6379")
	v.SetDefault("cache.database", 0)
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("cache.channel", store.DefaultChannel)
	v.SetDefault("format.denylist", []string{})
	v.SetDefault("format.delimiter", ",")

	if configFile == "" {
		v.SetConfigName("prtgcli_config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.prtgcli")
		v.AddConfigPath("/etc/prtgcli")
	} else {
		v.SetConfigFile(configFile)
		if filepath.Ext(configFile) == "" {
			v.SetConfigType("json")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configFile != "" {
			return nil, logging.NewError(logging.ErrorTypeConfig, "error reading config file", err,
				map[string]interface{}{"file": configFile})
		}
		logging.Logger.Debug().Msg("No configuration file found, using defaults")
	}

	envs := map[string]string{
		"prtg.endpoint": "PRTGENDPOINT",
		"prtg.username": "PRTGUSERNAME",
		"prtg.password": "PRTGPASSWORD",
		"prtg.passhash": "PRTGPASSHASH",
	}
	for key, env := range envs {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	for key, flag := range flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
		}
	}

	ruleList, err := decodeRules(v)
	if err != nil {
		return nil, err
	}

	return &Config{
		LogLevel:      v.GetString("logging.level"),
		LogOutput:     v.GetString("logging.output"),
		Endpoint:      v.GetString("prtg.endpoint"),
		Username:      v.GetString("prtg.username"),
		Password:      v.GetString("prtg.password"),
		Passhash:      v.GetString("prtg.passhash"),
		Timeout:       v.GetDuration("prtg.timeout"),
		CacheEnabled:  v.GetBool("cache.enabled"),
		CacheAddress:  v.GetString("cache.address"),
		CachePassword: v.GetString("cache.password"),
		CacheDB:       v.GetInt("cache.database"),
		CacheTTL:      v.GetDuration("cache.ttl"),
		CacheChannel:  v.GetString("cache.channel"),
		Denylist:      v.GetStringSlice("format.denylist"),
		Delimiter:     v.GetString("format.delimiter"),
		Rules:         ruleList,
	}, nil
}

// loadRulesFile reads a standalone rule file. The format follows the file
// extension (json or yaml).
func loadRulesFile(path string) ([]rules.Rule, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, logging.NewError(logging.ErrorTypeConfig, "error reading rules file", err,
			map[string]interface{}{"file": path})
	}
	return decodeRules(v)
}

// decodeRules decodes the "rules" key and fills in the default match mode.
func decodeRules(v *viper.Viper) ([]rules.Rule, error) {
	var ruleList []rules.Rule
	if err := v.UnmarshalKey("rules", &ruleList); err != nil {
		return nil, logging.NewError(logging.ErrorTypeConfig, "error decoding rules", err, nil)
	}
	for i := range ruleList {
		if ruleList[i].Match.Mode == "" {
			ruleList[i].Match.Mode = rules.DefaultMatchMode
		}
		ruleList[i].Match.Mode = rules.MatchMode(strings.ToLower(string(ruleList[i].Match.Mode)))
	}
	return ruleList, nil
}
