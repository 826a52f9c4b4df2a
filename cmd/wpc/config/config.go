package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type Config struct {
	BaseURL        string `json:"base_url"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	RemoteBasePath string `json:"remote_base_path"`
	LogLevel       string `json:"log_level"`
}

func Parse(f string) (*Config, error) {
	raw, err := os.ReadFile(f)
	if err != nil {
		return nil, fmt.Errorf("read file:%w", err)
	}
	c := &Config{
		LogLevel: "info",
	}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("unmarshal file:%w", err)
	}
	c.RemoteBasePath = strings.Trim(c.RemoteBasePath, "/")
	return c, nil
}
