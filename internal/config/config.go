// Package config centralizes runtime settings for specguard.
//
// Settings are resolved from three sources in priority order: explicit
// Set calls (flags), environment variables with the SPECGUARD_ prefix,
// and an optional config.yaml in the working directory or .specguard/.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"specguard/internal/expectation"
)

// DefaultStateDirName is the per-project state directory.
const DefaultStateDirName = ".specguard"

var (
	v    *viper.Viper
	once sync.Once
)

// Initialize sets up the settings registry. Safe to call more than once.
func Initialize() {
	once.Do(func() {
		v = viper.New()

		v.SetDefault("json", false)
		v.SetDefault("state-dir", DefaultStateDirName)
		v.SetDefault("expect-file", expectation.Default().Path)
		v.SetDefault("project-dir", "")

		v.SetEnvPrefix("SPECGUARD")
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()

		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultStateDirName)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				// Unreadable config files are ignored; env and defaults
				// still apply.
				_ = err
			}
		}
	})
}

func ensure() {
	if v == nil {
		Initialize()
	}
}

// Set overrides a setting, typically from a CLI flag.
func Set(key string, value any) {
	ensure()
	v.Set(key, value)
}

// GetBool returns a boolean setting.
func GetBool(key string) bool {
	ensure()
	return v.GetBool(key)
}

// GetString returns a string setting.
func GetString(key string) string {
	ensure()
	return v.GetString(key)
}

// StateDirName returns the configured state directory name.
func StateDirName() string {
	return GetString("state-dir")
}

// StateDir returns the state directory for a project.
func StateDir(projectDir string) string {
	return filepath.Join(projectDir, StateDirName())
}

// ProjectDir resolves the project root. An explicit setting wins,
// then the CLAUDE_PROJECT_DIR environment variable, then the
// current working directory.
func ProjectDir() string {
	ensure()
	if dir := v.GetString("project-dir"); dir != "" {
		return dir
	}
	if dir := os.Getenv("CLAUDE_PROJECT_DIR"); dir != "" {
		return dir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// ExpectFile returns the path of the expected-count handoff file.
func ExpectFile() string {
	return GetString("expect-file")
}
