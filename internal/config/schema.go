package config

import (
	"sort"
	"strings"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeString
	TypeEnum
	TypeList
	TypeMap
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	case TypeList:
		return "list"
	case TypeMap:
		return "map"
	default:
		return "unknown"
	}
}

// ConfigKeySchema describes a known configuration key.
type ConfigKeySchema struct {
	Path          string          // Key name (e.g., "tag_prefix")
	Type          ConfigValueType // Expected value type
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
}

// KnownKeys is the registry of all known configuration keys.
var KnownKeys = map[string]ConfigKeySchema{
	"preset": {
		Path:          "preset",
		Type:          TypeEnum,
		AllowedValues: []string{"git", "node", "rust"},
		Description:   "Where the current version is read from",
	},
	"package_files": {
		Path:        "package_files",
		Type:        TypeList,
		Description: "Manifests whose version field is rewritten (comma-separated in BUMP_PACKAGE_FILES)",
	},
	"commit_prefix": {
		Path:        "commit_prefix",
		Type:        TypeString,
		Description: "Prefix of the release commit message (\"<prefix> to X.Y.Z\")",
	},
	"tag_prefix": {
		Path:        "tag_prefix",
		Type:        TypeString,
		Description: "Prefix of release tags",
	},
	"push": {
		Path:        "push",
		Type:        TypeBool,
		Description: "Push the release commit and tags to origin",
	},
	"tag": {
		Path:        "tag",
		Type:        TypeBool,
		Description: "Create a release tag",
	},
	"release_notes": {
		Path:        "release_notes",
		Type:        TypeBool,
		Description: "Annotate the release tag with the released commits",
	},
	"update_major_tag": {
		Path:        "update_major_tag",
		Type:        TypeBool,
		Description: "Move the vMAJOR tag to each release",
	},
	"update_minor_tag": {
		Path:        "update_minor_tag",
		Type:        TypeBool,
		Description: "Move the vMAJOR.MINOR tag to each release",
	},
	"changelog": {
		Path:        "changelog",
		Type:        TypeBool,
		Description: "Maintain a Keep a Changelog file",
	},
	"changelog_file": {
		Path:        "changelog_file",
		Type:        TypeString,
		Description: "Path of the changelog file",
	},
	"git_user_name": {
		Path:        "git_user_name",
		Type:        TypeString,
		Description: "Committer name used when the repository has none",
	},
	"git_user_email": {
		Path:        "git_user_email",
		Type:        TypeString,
		Description: "Committer email used when the repository has none",
	},
	"types": {
		Path:          "types",
		Type:          TypeMap,
		AllowedValues: []string{"none", "patch", "minor"},
		Description:   "Version increment per commit type (BUMP_TYPES_<TYPE>)",
	},
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// SortedKeys returns the registry keys in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EnvName returns the environment variable that sets key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}
