package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/ini.v1"

	"simple_server/internal/shared/types"
)

const (
	DefaultBindAddress    = "0.0.0.0"
	DefaultPort           = 8080
	DefaultBacklog        = 5
	DefaultReadBufferSize = 1023
)

// Default 返回与原始行为完全一致的配置：所有网卡、8080 端口、backlog 5。
func Default() *types.Config {
	return &types.Config{
		ServerConf: types.ServerConf{
			BindAddress:    DefaultBindAddress,
			Port:           DefaultPort,
			Backlog:        DefaultBacklog,
			ReadBufferSize: DefaultReadBufferSize,
		},
		LogConf: types.LogConf{
			Level:  "info",
			Output: "stdout",
		},
	}
}

// LoadIni 将 server.ini 叠加到 cfg 之上。文件不存在时保留 cfg 原值。
func LoadIni(cfg *types.Config, fileName string) error {
	if _, err := os.Stat(fileName); err != nil {
		if os.IsNotExist(err) {
			overrideFromEnvInt(&cfg.ServerConf.Port, "SERVER_PORT")
			return nil
		}
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	iniFile, err := ini.Load(fileName)
	if err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}
	if err := iniFile.MapTo(cfg); err != nil {
		return fmt.Errorf("failed to map config file: %w", err)
	}
	overrideFromEnvInt(&cfg.ServerConf.Port, "SERVER_PORT")
	return validate(cfg)
}

func validate(cfg *types.Config) error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.Backlog <= 0 {
		return fmt.Errorf("invalid backlog %d", cfg.Backlog)
	}
	if cfg.ReadBufferSize <= 0 {
		return fmt.Errorf("invalid read_buffer_size %d", cfg.ReadBufferSize)
	}
	return nil
}

func overrideFromEnvInt(target *int, envName string) {
	envValue := os.Getenv(envName)
	if envValue != "" {
		if intValue, err := strconv.Atoi(envValue); err == nil {
			*target = intValue
		}
	}
}
