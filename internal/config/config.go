package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port              string        `mapstructure:"PORT"`
	DataDir           string        `mapstructure:"DATA_DIR"`
	AssetsDir         string        `mapstructure:"ASSETS_DIR"`
	Timezone          string        `mapstructure:"TIMEZONE"`
	DeviceTimeout     time.Duration `mapstructure:"DEVICE_TIMEOUT"`
	OnlineTimeout     time.Duration `mapstructure:"ONLINE_TIMEOUT"`
	HeartbeatInterval time.Duration `mapstructure:"HEARTBEAT_INTERVAL"`
	PollInterval      time.Duration `mapstructure:"POLL_INTERVAL"`
	StorageBackend    string        `mapstructure:"STORAGE_BACKEND"`
	RedisAddr         string        `mapstructure:"REDIS_ADDR"`
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
}

func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.BindEnv("PORT")
	viper.BindEnv("DATA_DIR")
	viper.BindEnv("ASSETS_DIR")
	viper.BindEnv("TIMEZONE")
	viper.BindEnv("DEVICE_TIMEOUT")
	viper.BindEnv("ONLINE_TIMEOUT")
	viper.BindEnv("HEARTBEAT_INTERVAL")
	viper.BindEnv("POLL_INTERVAL")
	viper.BindEnv("STORAGE_BACKEND")
	viper.BindEnv("REDIS_ADDR")
	viper.BindEnv("DB_HOST")
	viper.BindEnv("DB_PORT")
	viper.BindEnv("DB_USER")
	viper.BindEnv("DB_PASSWORD")
	viper.BindEnv("DB_NAME")

	viper.SetDefault("PORT", ":8080")
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("ASSETS_DIR", ".")
	viper.SetDefault("TIMEZONE", "Asia/Shanghai")
	viper.SetDefault("DEVICE_TIMEOUT", "30s")
	viper.SetDefault("ONLINE_TIMEOUT", "60s")
	viper.SetDefault("HEARTBEAT_INTERVAL", "3s")
	viper.SetDefault("POLL_INTERVAL", "500ms")
	viper.SetDefault("STORAGE_BACKEND", "file")

	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
