// Package config loads process configuration from environment variables
// using spf13/viper.
package config

import "github.com/spf13/viper"

// Config is the full set of environment-driven settings the process
// bootstrap needs.
type Config struct {
	PublicAddr      string
	PrivateAddr     string
	HostAddr        string
	Region          string
	AMQPURL         string
	GameRegisterURL string
}

// Load reads configuration purely from the environment, matching the
// env-var names fixed by the external interfaces section.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PUBLIC_ADDR", ":8080")
	v.SetDefault("PRIVATE_ADDR", ":8081")
	v.SetDefault("HOST_ADDR", "localhost")

	return &Config{
		PublicAddr:      v.GetString("PUBLIC_ADDR"),
		PrivateAddr:     v.GetString("PRIVATE_ADDR"),
		HostAddr:        v.GetString("HOST_ADDR"),
		Region:          v.GetString("REGION"),
		AMQPURL:         v.GetString("AMQP_URL"),
		GameRegisterURL: v.GetString("GAME_REGISTER_URL"),
	}, nil
}
