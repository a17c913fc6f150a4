// Package brand holds the product naming shared by the CLI, logs, config
// lookup and test fixtures. Values come from brand.json, embedded at build
// time.
package brand

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
)

//go:embed brand.json
var raw []byte

type info struct {
	Name       string `json:"name"`
	Binary     string `json:"binary"`
	Summary    string `json:"summary"`
	EnvPrefix  string `json:"envPrefix"`
	ConfigDir  string `json:"configDir"`
	ConfigFile string `json:"configFile"`
}

var (
	Name             string
	BinaryName       string
	Description      string
	ConfigEnvPrefix  string
	DefaultConfigDir string
	ConfigFileName   string

	// Set at build time via -ldflags
	Version   = "dev"
	GitCommit = "unknown"
)

func init() {
	var i info
	if err := json.Unmarshal(raw, &i); err != nil {
		panic("brand.json: " + err.Error())
	}
	Name = i.Name
	BinaryName = i.Binary
	Description = i.Summary
	ConfigEnvPrefix = i.EnvPrefix
	DefaultConfigDir = i.ConfigDir
	ConfigFileName = i.ConfigFile
}

// Env returns the environment variable ConfigEnvPrefix_key.
func Env(key string) string {
	return os.Getenv(ConfigEnvPrefix + "_" + key)
}

// ConfigDir resolves the config directory.
// Priority: NFTJSON_CONFIG_DIR > NFTJSON_PREFIX/etc > DefaultConfigDir
func ConfigDir() string {
	if dir := Env("CONFIG_DIR"); dir != "" {
		return dir
	}
	if prefix := Env("PREFIX"); prefix != "" {
		return filepath.Join(prefix, "etc")
	}
	return DefaultConfigDir
}

// DefaultConfigPath is the file read when --config is not given.
// NFTJSON_CONFIG names the file directly.
func DefaultConfigPath() string {
	if path := Env("CONFIG"); path != "" {
		return path
	}
	return filepath.Join(ConfigDir(), ConfigFileName)
}
