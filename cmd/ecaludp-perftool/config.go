package main

import (
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/eclipse-ecal/ecaludp"
)

type toolConfig struct {
	Addr            string
	MessageSize     int
	MaxDatagramSize int
	ReassemblyAge   time.Duration
	LogInterval     time.Duration
	MetricsAddr     string
}

type fileConfig struct {
	Addr            string `toml:"addr"`
	MessageSize     int    `toml:"message_size"`
	MaxDatagramSize int    `toml:"max_datagram_size"`
	ReassemblyAge   string `toml:"reassembly_age"`
	LogInterval     string `toml:"log_interval"`
	MetricsAddr     string `toml:"metrics_addr"`
}

func defaultConfig() toolConfig {
	return toolConfig{
		Addr:            "127.0.0.1:14000",
		MessageSize:     1024,
		MaxDatagramSize: ecaludp.DefaultMaxDatagramSize,
		ReassemblyAge:   ecaludp.DefaultMaxReassemblyAge,
		LogInterval:     time.Second,
	}
}

func loadConfig(path string) (toolConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return toolConfig{}, fmt.Errorf("load perftool config: %w", err)
	}

	if meta.IsDefined("addr") {
		addr := strings.TrimSpace(raw.Addr)
		if addr != "" {
			cfg.Addr = addr
		}
	}
	if meta.IsDefined("message_size") {
		cfg.MessageSize = raw.MessageSize
	}
	if meta.IsDefined("max_datagram_size") {
		cfg.MaxDatagramSize = raw.MaxDatagramSize
	}
	if meta.IsDefined("reassembly_age") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReassemblyAge))
		if err != nil {
			return toolConfig{}, fmt.Errorf("parse reassembly_age: %w", err)
		}
		cfg.ReassemblyAge = d
	}
	if meta.IsDefined("log_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.LogInterval))
		if err != nil {
			return toolConfig{}, fmt.Errorf("parse log_interval: %w", err)
		}
		cfg.LogInterval = d
	}
	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}

	return cfg, validateConfig(cfg)
}

func validateConfig(cfg toolConfig) error {
	if _, err := netip.ParseAddrPort(cfg.Addr); err != nil {
		return fmt.Errorf("invalid addr %q: %w", cfg.Addr, err)
	}
	if cfg.MessageSize <= 0 {
		return fmt.Errorf("message_size must be positive, got %d", cfg.MessageSize)
	}
	if cfg.MaxDatagramSize <= 0 {
		return fmt.Errorf("max_datagram_size must be positive, got %d", cfg.MaxDatagramSize)
	}
	if cfg.ReassemblyAge <= 0 {
		return fmt.Errorf("reassembly_age must be positive, got %s", cfg.ReassemblyAge)
	}
	if cfg.LogInterval <= 0 {
		return fmt.Errorf("log_interval must be positive, got %s", cfg.LogInterval)
	}
	return nil
}
