package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Input    InputConfig   `mapstructure:"input"`
	Output   OutputConfig  `mapstructure:"output"`
	Remover  RemoverConfig `mapstructure:"remover"`
	Schedule string        `mapstructure:"schedule"` // cron 表达式，空则只跑一次
	Server   ServerConfig  `mapstructure:"server"`
	Force    bool          `mapstructure:"force"`
}

type InputConfig struct {
	Dir   string   `mapstructure:"dir"`
	Files []string `mapstructure:"files"`
}

type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

type RemoverConfig struct {
	Mode           string  `mapstructure:"mode"` // server | local | noop
	Endpoint       string  `mapstructure:"endpoint"`
	Model          string  `mapstructure:"model"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	Threshold      float64 `mapstructure:"threshold"`
	MaxSize        int     `mapstructure:"max_size"`
	Trim           bool    `mapstructure:"trim"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("rembatch")
		v.AddConfigPath(".")
	}

	// 默认处理 public/ 下的 Set 1 图标
	v.SetDefault("input.dir", "public")
	v.SetDefault("input.files", []string{
		"set1_silent.png",
		"set1_listening.png",
		"set1_speaking.png",
	})
	v.SetDefault("output.dir", "public/transparent")
	v.SetDefault("remover.mode", "server")
	v.SetDefault("remover.endpoint", "http://127.0.0.1:7000/api/remove")
	v.SetDefault("remover.model", "u2net")
	v.SetDefault("remover.timeout_seconds", 120)
	v.SetDefault("remover.threshold", 0.12)
	v.SetDefault("remover.max_size", 1024)
	v.SetDefault("remover.trim", false)
	v.SetDefault("schedule", "")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("force", false)

	v.AutomaticEnv()
	v.SetEnvPrefix("REMBATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// 没有配置文件就用默认值
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}
