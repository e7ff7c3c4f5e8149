package session

import (
	"fmt"

	"github.com/spf13/viper"
)

// RemoteConfig holds the settings needed to construct a COSStore,
// loaded the way junjiewwang-perf-analysis/pkg/config loads its own
// StorageConfig: a viper instance with defaults, an optional explicit
// file, falling back silently to defaults when no file is found, and
// environment variables able to override anything.
type RemoteConfig struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`
	Scheme    string `mapstructure:"scheme"`
}

// LoadRemoteConfig reads remote-store settings from configPath, or
// from a "rendergraph" config file on the current directory if
// configPath is empty. A missing config file is not an error: the
// returned RemoteConfig simply carries its defaults, and the caller
// decides whether that's usable (e.g. NewCOSStore rejects a blank
// bucket/region).
func LoadRemoteConfig(configPath string) (RemoteConfig, error) {
	v := viper.New()
	v.SetDefault("domain", "myqcloud.com")
	v.SetDefault("scheme", "https")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("rendergraph")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return RemoteConfig{}, fmt.Errorf("session: reading remote config: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg RemoteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return RemoteConfig{}, fmt.Errorf("session: parsing remote config: %w", err)
	}
	return cfg, nil
}
