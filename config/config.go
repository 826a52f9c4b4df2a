package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

// WebdavConfig 预置的webdav连接信息, 首次启动落库后以库内配置为准
type WebdavConfig struct {
	BaseURL        string `json:"base_url"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	RemoteBasePath string `json:"remote_base_path"`
}

type Config struct {
	Bind     string            `json:"bind"`
	LogInfo  logger.LogConfig  `json:"log_info"`
	DBFile   string            `json:"db_file"`
	UserInfo map[string]string `json:"user_info"`
	Webdav   WebdavConfig      `json:"webdav"`
}

func Parse(f string) (*Config, error) {
	raw, err := os.ReadFile(f)
	if err != nil {
		return nil, fmt.Errorf("read file:%w", err)
	}
	c := &Config{
		Bind:   ":9911",
		DBFile: "wordparadise.db",
	}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("decode json failed, err:%w", err)
	}
	return c, nil
}
