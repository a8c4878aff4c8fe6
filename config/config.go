package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	JNTUH    JNTUHConfig    `yaml:"jntuh"`
	Renderer RendererConfig `yaml:"renderer"`
	Storage  StorageConfig  `yaml:"storage"`
	Store    StoreConfig    `yaml:"store"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type CatalogConfig struct {
	Path string `yaml:"path"`
}

// JNTUHConfig describes the third-party result-lookup endpoint.
type JNTUHConfig struct {
	ResultURL      string `yaml:"result_url"`
	Origin         string `yaml:"origin"`
	UserAgent      string `yaml:"user_agent"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// RendererConfig describes the external HTML-to-PDF convert service.
type RendererConfig struct {
	APIURL         string `yaml:"api_url"`
	APIToken       string `yaml:"api_token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type StorageConfig struct {
	Backend string      `yaml:"backend"` // local, minio
	PDFDir  string      `yaml:"pdf_dir"`
	Minio   MinioConfig `yaml:"minio"`
}

type MinioConfig struct {
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	ExpireDays int    `yaml:"expire_days"`
}

type StoreConfig struct {
	MaxArtifacts int `yaml:"max_artifacts"`
}

var GlobalConfig *Config

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "results_data/jntuh_results.csv"
	}
	if cfg.JNTUH.ResultURL == "" {
		cfg.JNTUH.ResultURL = "http://results.jntuh.ac.in/resultAction"
	}
	if cfg.JNTUH.Origin == "" {
		cfg.JNTUH.Origin = "http://results.jntuh.ac.in"
	}
	if cfg.JNTUH.UserAgent == "" {
		cfg.JNTUH.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	}
	if cfg.JNTUH.TimeoutSeconds == 0 {
		cfg.JNTUH.TimeoutSeconds = 30
	}
	if cfg.Renderer.TimeoutSeconds == 0 {
		cfg.Renderer.TimeoutSeconds = 60
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "local"
	}
	if cfg.Storage.PDFDir == "" {
		cfg.Storage.PDFDir = "static/pdfs"
	}
	if cfg.Storage.Minio.ExpireDays == 0 {
		cfg.Storage.Minio.ExpireDays = 7
	}
	if cfg.Store.MaxArtifacts == 0 {
		cfg.Store.MaxArtifacts = 100
	}

	GlobalConfig = &cfg
	return &cfg, nil
}
