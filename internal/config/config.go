package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full server configuration, loaded from config.yaml with
// FAMILY_* environment overrides (e.g. FAMILY_SERVER_PORT=9090).
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Sync    SyncConfig
	CORS    CORSConfig
}

type ServerConfig struct {
	Port int
}

// StorageConfig selects the snapshot store. Driver is one of "jsonfile"
// (default), "postgres" or "memory".
type StorageConfig struct {
	Driver      string
	DataFile    string
	PostgresDSN string
}

// SyncConfig controls the best-effort mirror to the JSON sync server.
type SyncConfig struct {
	Enabled bool
	BaseURL string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration with sane defaults. A missing config file is fine;
// defaults plus environment variables are enough to run.
func Load() *Config {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("storage.driver", "jsonfile")
	v.SetDefault("storage.data_file", "uploads/family-data.json")
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("sync.enabled", false)
	v.SetDefault("sync.base_url", "http://localhost:3001")
	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FAMILY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("[Config] Failed to read config file: %v", err)
		}
	} else {
		log.Printf("[Config] Loaded %s", v.ConfigFileUsed())
	}

	return &Config{
		Server: ServerConfig{
			Port: v.GetInt("server.port"),
		},
		Storage: StorageConfig{
			Driver:      v.GetString("storage.driver"),
			DataFile:    v.GetString("storage.data_file"),
			PostgresDSN: v.GetString("storage.postgres_dsn"),
		},
		Sync: SyncConfig{
			Enabled: v.GetBool("sync.enabled"),
			BaseURL: v.GetString("sync.base_url"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("cors.allowed_origins"),
		},
	}
}
