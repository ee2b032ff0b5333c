package config

// LocalConfig is .treb/config.local.json. Viper reads the same file, so
// its keys match the global flag names.
type LocalConfig struct {
	Network string `json:"network,omitempty"`
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyNetwork ConfigKey = "network"
)

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{
		ConfigKeyNetwork,
	}
}

// NormalizeConfigKey maps aliases to their key, e.g. "net" -> "network"
func NormalizeConfigKey(key string) (ConfigKey, bool) {
	switch key {
	case "network", "net", "n":
		return ConfigKeyNetwork, true
	}
	return "", false
}
