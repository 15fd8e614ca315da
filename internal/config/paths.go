package config

import (
	"os"
	"path/filepath"
)

// Project configuration file names, searched in the project directory.
const (
	JSONConfigFile    = ".versionrc.json"
	YAMLConfigFile    = ".versionrc.yml"
	YAMLAltConfigFile = ".versionrc.yaml"
)

// EnvFile is the dotenv file loaded before environment variables are read.
const EnvFile = ".env"

// EnvPrefix prefixes every environment variable bump reads.
const EnvPrefix = "BUMP_"

// YAMLConfigPath returns the YAML project config in dir: .versionrc.yml when
// present, otherwise .versionrc.yaml when present, otherwise .versionrc.yml.
func YAMLConfigPath(dir string) string {
	alt := filepath.Join(dir, YAMLAltConfigFile)
	primary := filepath.Join(dir, YAMLConfigFile)
	if !fileExists(primary) && fileExists(alt) {
		return alt
	}
	return primary
}

// JSONConfigPath returns the JSON project config path in dir.
func JSONConfigPath(dir string) string {
	return filepath.Join(dir, JSONConfigFile)
}

// EnvFilePath returns the dotenv path in dir.
func EnvFilePath(dir string) string {
	return filepath.Join(dir, EnvFile)
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
