package platform

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// NewViper returns a viper instance reading environment variables. Keys use
// dots ("payment.server.port") and map to PAYMENT_SERVER_PORT. When CONFIG_FILE
// is set, that YAML file is read first and environment variables override it.
func NewViper(defaults map[string]any) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	return v, nil
}

// MustString returns the value for key or an error naming the
// environment variable that should have been set.
func MustString(v *viper.Viper, key string) (string, error) {
	s := v.GetString(key)
	if s == "" {
		env := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		return "", fmt.Errorf("%s environment variable is not set", env)
	}
	return s, nil
}
