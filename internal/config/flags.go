package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"vsi-tools/internal/ping"
)

const (
	DefaultLogFile = "lisboa.log"
	DefaultSource  = "Lisbon"

	envPrefix = "LATENCY_LOGGER"
)

// DefaultDestinations are the object storage endpoints probed from Lisbon
var DefaultDestinations = []map[string]string{
	{"host": "s3.eu-es.cloud-object-storage.appdomain.cloud", "label": "Madrid"},
	{"host": "s3.eu-de.cloud-object-storage.appdomain.cloud", "label": "Frankfurt"},
}

// AddFlags registers the latency logger flags on fs
func AddFlags(fs *pflag.FlagSet) {
	fs.String("log-file", DefaultLogFile, "File the results are appended to")
	fs.Int("count", ping.DefaultCount, "Echo requests sent to each destination")
	fs.String("source", DefaultSource, "Label of the probing location")
	fs.String("history-db", "", "Optional sqlite database that also records every probe")
	fs.Int("history-retention-days", 0, "Delete history rows older than this many days after each run (0 keeps everything)")
	fs.String("config", "", "Optional YAML file overriding settings and destinations")
}

// Load resolves the configuration from flags, LATENCY_LOGGER_* environment
// variables and the optional config file, in that order of precedence
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("destinations", DefaultDestinations)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
