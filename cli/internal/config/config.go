// Package config loads CLI settings from .sqldol.yaml, SQLDOL_* environment
// variables and .env files.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/sqldol/engine"
)

// FileName is the config file name without extension.
const FileName = ".sqldol"

var AppFs = afero.NewOsFs()

// Config holds the application configuration
type Config struct {
	DatabaseURL string
	Output      string // "table" or "json"
	Debug       bool
	Pool        engine.PoolConfig

	// File is the config file that was read, if any.
	File string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetFs(AppFs)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("SQLDOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	pool := engine.DefaultPoolConfig()
	v.SetDefault("url", "")
	v.SetDefault("output", "table")
	v.SetDefault("debug", false)
	v.SetDefault("pool.max_open_conns", pool.MaxOpenConns)
	v.SetDefault("pool.max_idle_conns", pool.MaxIdleConns)
	v.SetDefault("pool.conn_max_lifetime", pool.ConnMaxLifetime)
	v.SetDefault("pool.conn_max_idle_time", pool.ConnMaxIdleTime)
	return v
}

// LoadConfig loads configuration. An empty path searches ".", $HOME and
// $HOME/.config/sqldol for .sqldol.yaml; a missing file there is not an error.
func LoadConfig(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
			v.AddConfigPath(filepath.Join(home, ".config", "sqldol"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	loadEnvFiles()

	cfg := &Config{
		DatabaseURL: v.GetString("url"),
		Output:      v.GetString("output"),
		Debug:       v.GetBool("debug"),
		Pool: engine.PoolConfig{
			MaxOpenConns:    v.GetInt("pool.max_open_conns"),
			MaxIdleConns:    v.GetInt("pool.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("pool.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetDuration("pool.conn_max_idle_time"),
		},
		File: v.ConfigFileUsed(),
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	return cfg, nil
}

// loadEnvFiles reads .env, then lets .env.local override it. Both are optional.
func loadEnvFiles() {
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}
}

// DefaultPath returns where SaveConfig writes when given no path: the project
// directory, or $HOME/.config/sqldol when global.
func DefaultPath(global bool) (string, error) {
	if !global {
		return FileName + ".yaml", nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "sqldol", FileName+".yaml"), nil
}

// SaveConfig writes cfg as yaml to path, creating parent directories.
func SaveConfig(cfg *Config, path string) error {
	v := viper.New()
	v.SetFs(AppFs)
	v.SetConfigType("yaml")

	v.Set("url", cfg.DatabaseURL)
	v.Set("output", cfg.Output)
	v.Set("debug", cfg.Debug)
	v.Set("pool.max_open_conns", cfg.Pool.MaxOpenConns)
	v.Set("pool.max_idle_conns", cfg.Pool.MaxIdleConns)
	v.Set("pool.conn_max_lifetime", cfg.Pool.ConnMaxLifetime.String())
	v.Set("pool.conn_max_idle_time", cfg.Pool.ConnMaxIdleTime.String())

	if dir := filepath.Dir(path); dir != "." {
		if err := AppFs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return v.WriteConfigAs(path)
}
